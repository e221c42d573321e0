package bots

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the webhook endpoints on the given router.
func RegisterRoutes(r chi.Router, whatsapp *WhatsAppHandler) {
	r.Get("/api/bots/whatsapp/webhook", whatsapp.HandleVerify)
	r.Post("/api/bots/whatsapp/webhook", whatsapp.HandleEvent)
}
