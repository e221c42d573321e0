package config

import "sync"

// CitationMode controls whether replies carry a trailing sources line.
type CitationMode string

const (
	CitationAuto   CitationMode = "auto"   // cite when knowledge was used
	CitationAlways CitationMode = "always" // cite whenever sources exist
	CitationNever  CitationMode = "never"
)

// Personality holds the assistant identity and brand facts. Tone feeds the
// prompt persona; the factual fields feed deterministic FAQ answers.
type Personality struct {
	Name          string   `yaml:"name" koanf:"name"`
	Role          string   `yaml:"role" koanf:"role"`
	Company       string   `yaml:"company" koanf:"company"`
	Website       string   `yaml:"website" koanf:"website"`
	Tone          string   `yaml:"tone" koanf:"tone"`
	Traits        []string `yaml:"traits" koanf:"traits"`
	SupportEmail  string   `yaml:"support_email" koanf:"support_email"`
	SupportPhone  string   `yaml:"support_phone" koanf:"support_phone"`
	SupportLink   string   `yaml:"support_link" koanf:"support_link"`
	Address       string   `yaml:"address" koanf:"address"`
	BusinessHours string   `yaml:"business_hours" koanf:"business_hours"`
	AIEnabled     bool     `yaml:"ai_enabled" koanf:"ai_enabled"`
}

// CRMConfig holds GoHighLevel API settings. An empty APIKey means the CRM
// integration is off and every lookup degrades to "no profile".
type CRMConfig struct {
	BaseURL           string `yaml:"base_url" koanf:"base_url"`
	APIKey            string `yaml:"api_key" koanf:"api_key"`
	LocationID        string `yaml:"location_id" koanf:"location_id"`
	KnowledgeBase     bool   `yaml:"knowledge_base" koanf:"knowledge_base"`
	TagLocationPrefix string `yaml:"tag_location_prefix" koanf:"tag_location_prefix"`
}

// WhatsAppConfig holds Business Cloud API credentials. An empty
// AccessToken means replies are not pushed; the webhook still accepts
// and processes messages.
type WhatsAppConfig struct {
	VerifyToken   string `yaml:"verify_token" koanf:"verify_token"`
	AccessToken   string `yaml:"access_token" koanf:"access_token"`
	PhoneNumberID string `yaml:"phone_number_id" koanf:"phone_number_id"`
}

// PhoneConfig holds home-country settings for number normalization.
type PhoneConfig struct {
	CountryCode string `yaml:"country_code" koanf:"country_code"`
	NationalLen int    `yaml:"national_len" koanf:"national_len"`
}

// Config is the top-level waverly configuration, corresponding to .waverly.yml.
type Config struct {
	Port              int            `yaml:"port" koanf:"port"`
	DataDir           string         `yaml:"data_dir" koanf:"data_dir"`
	Model             string         `yaml:"model" koanf:"model"`
	EmbeddingModel    string         `yaml:"embedding_model" koanf:"embedding_model"`
	RequestsPerMinute int            `yaml:"requests_per_minute" koanf:"requests_per_minute"`
	WebhookSecret     string         `yaml:"webhook_secret" koanf:"webhook_secret"`
	HandoffRulesFile  string         `yaml:"handoff_rules_file" koanf:"handoff_rules_file"`
	Citations         CitationMode   `yaml:"citations" koanf:"citations"`
	WhatsApp          WhatsAppConfig `yaml:"whatsapp" koanf:"whatsapp"`
	Phone             PhoneConfig    `yaml:"phone" koanf:"phone"`
	Personality       Personality    `yaml:"personality" koanf:"personality"`
	CRM               CRMConfig      `yaml:"crm" koanf:"crm"`

	// defaulted records which keys were absent from both the file and the
	// environment and therefore carry built-in default values. Identity
	// defaults are placeholders and must never reach a user-visible reply.
	defaulted map[string]bool

	// mu guards Personality and defaulted, which the admin API mutates
	// while the reply pipeline reads them.
	mu sync.RWMutex
}

// Defaulted reports whether the given koanf key (e.g. "personality.company")
// was filled from built-in defaults rather than user configuration.
func (c *Config) Defaulted(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.defaulted[key]
}

// MarkConfigured records that a key now holds a user-supplied value. Called
// by the runtime personality update path.
func (c *Config) MarkConfigured(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.defaulted != nil {
		delete(c.defaulted, key)
	}
}

// PersonalitySnapshot returns a copy of the personality safe to read while
// the admin API applies updates. The Traits slice is cloned so the caller
// never aliases live state.
func (c *Config) PersonalitySnapshot() Personality {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p := c.Personality
	if len(p.Traits) > 0 {
		p.Traits = append([]string(nil), p.Traits...)
	}
	return p
}

// SetPersonality replaces the personality in one step and records which
// keys now hold operator-supplied values.
func (c *Config) SetPersonality(p Personality, configuredKeys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Personality = p
	for _, key := range configuredKeys {
		if c.defaulted != nil {
			delete(c.defaulted, key)
		}
	}
}
