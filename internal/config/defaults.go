package config

// identityKeys are the koanf keys whose built-in defaults are placeholder
// values. Load marks each of these as defaulted unless the file or the
// environment supplied a value.
var identityKeys = []string{
	"personality.name",
	"personality.company",
	"personality.website",
	"personality.support_email",
	"personality.support_phone",
	"personality.support_link",
	"personality.address",
	"personality.business_hours",
}

// DefaultConfig returns a Config with built-in defaults. The identity
// fields deliberately hold recognizable placeholder values so that an
// unconfigured install can never be mistaken for a branded one.
func DefaultConfig() *Config {
	return &Config{
		Port:              8080,
		DataDir:           ".waverly",
		Model:             "gpt-4o-mini",
		EmbeddingModel:    "text-embedding-3-small",
		RequestsPerMinute: 60,
		HandoffRulesFile:  "handoff.yml",
		Citations:         CitationAuto,
		Phone: PhoneConfig{
			CountryCode: "91",
			NationalLen: 10,
		},
		Personality: Personality{
			Name:          "Ava",
			Role:          "customer support assistant",
			Company:       "Your Business",
			Website:       "yourbusiness.com",
			Tone:          "friendly and professional",
			Traits:        []string{"helpful", "concise"},
			BusinessHours: "Mon-Fri 9:00-18:00",
			AIEnabled:     true,
		},
		CRM: CRMConfig{
			BaseURL:           "https://services.leadconnectorhq.com",
			TagLocationPrefix: "Location:",
		},
		defaulted: make(map[string]bool),
	}
}
