package admin

import (
	"github.com/go-chi/chi/v5"

	"github.com/helpdeskhq/waverly/internal/config"
	"github.com/helpdeskhq/waverly/internal/handoff"
	"github.com/helpdeskhq/waverly/internal/knowledge"
)

// RegisterRoutes mounts the admin API. configPath may be empty, in which
// case personality updates apply in-memory only.
func RegisterRoutes(r chi.Router, cfg *config.Config, configPath string, store *knowledge.Store, policy *handoff.Policy, hub *Hub) {
	r.Route("/api/knowledge", func(r chi.Router) {
		r.Get("/", handleListEntries(store, cfg.CRM.LocationID))
		r.Post("/", handleCreateEntry(store, cfg.CRM.LocationID))
		r.Get("/{id}", handleGetEntry(store))
		r.Get("/{id}/preview", handlePreviewEntry(store))
		r.Delete("/{id}", handleDeleteEntry(store))
	})

	r.Get("/api/personality", handleGetPersonality(cfg))
	r.Put("/api/personality", handleUpdatePersonality(cfg, configPath))
	r.Post("/api/handoff/reload", handleReloadHandoff(policy))

	if hub != nil {
		r.Get("/api/events", hub.HandleEvents)
	}
}
