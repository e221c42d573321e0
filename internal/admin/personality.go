package admin

import (
	"encoding/json"
	"net/http"

	"github.com/helpdeskhq/waverly/internal/config"
	"github.com/helpdeskhq/waverly/internal/handoff"
)

// personalityUpdate carries a partial personality change. Pointer fields
// distinguish "leave unchanged" from "set to empty".
type personalityUpdate struct {
	Name          *string   `json:"name"`
	Role          *string   `json:"role"`
	Company       *string   `json:"company"`
	Website       *string   `json:"website"`
	Tone          *string   `json:"tone"`
	Traits        *[]string `json:"traits"`
	SupportEmail  *string   `json:"support_email"`
	SupportPhone  *string   `json:"support_phone"`
	SupportLink   *string   `json:"support_link"`
	Address       *string   `json:"address"`
	BusinessHours *string   `json:"business_hours"`
	AIEnabled     *bool     `json:"ai_enabled"`
}

func handleGetPersonality(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(cfg.PersonalitySnapshot())
	}
}

// handleUpdatePersonality merges the partial update into a personality
// snapshot, swaps it in atomically (the reply pipeline reads concurrently),
// and persists the whole file.
func handleUpdatePersonality(cfg *config.Config, configPath string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var upd personalityUpdate
		if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}

		p := cfg.PersonalitySnapshot()
		var configured []string
		apply := func(key string, dst *string, src *string) {
			if src != nil {
				*dst = *src
				configured = append(configured, key)
			}
		}
		apply("personality.name", &p.Name, upd.Name)
		apply("personality.role", &p.Role, upd.Role)
		apply("personality.company", &p.Company, upd.Company)
		apply("personality.website", &p.Website, upd.Website)
		apply("personality.tone", &p.Tone, upd.Tone)
		apply("personality.support_email", &p.SupportEmail, upd.SupportEmail)
		apply("personality.support_phone", &p.SupportPhone, upd.SupportPhone)
		apply("personality.address", &p.Address, upd.Address)
		apply("personality.support_link", &p.SupportLink, upd.SupportLink)
		apply("personality.business_hours", &p.BusinessHours, upd.BusinessHours)
		if upd.Traits != nil {
			p.Traits = append([]string(nil), (*upd.Traits)...)
		}
		if upd.AIEnabled != nil {
			p.AIEnabled = *upd.AIEnabled
		}
		cfg.SetPersonality(p, configured...)

		if configPath != "" {
			if err := cfg.Save(configPath); err != nil {
				http.Error(w, `{"error":"saving config: `+err.Error()+`"}`, http.StatusInternalServerError)
				return
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(cfg.PersonalitySnapshot())
	}
}

func handleReloadHandoff(policy *handoff.Policy) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := policy.Reload(); err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(policy.Rules())
	}
}
