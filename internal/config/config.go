// Package config loads and persists the assistant configuration from a
// YAML file with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (WAVERLY_*). A missing file is not an
// error; built-in defaults are used and the identity fields are marked as
// placeholders.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: WAVERLY_PORT -> port, etc.
	if err := k.Load(env.Provider("WAVERLY_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "WAVERLY_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// Record which identity fields were never set by the user. These hold
	// placeholder defaults and are filtered out of prompts and replies.
	cfg.defaulted = make(map[string]bool)
	for _, key := range identityKeys {
		if !k.Exists(key) {
			cfg.defaulted[key] = true
		}
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path as a whole-file
// overwrite.
func (c *Config) Save(path string) error {
	c.mu.RLock()
	data, err := yamlv3.Marshal(c)
	c.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validCitationModes is the set of recognized citation settings.
var validCitationModes = map[CitationMode]bool{
	CitationAuto:   true,
	CitationAlways: true,
	CitationNever:  true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.EmbeddingModel == "" {
		return fmt.Errorf("embedding_model is required")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.Citations != "" && !validCitationModes[c.Citations] {
		return fmt.Errorf("invalid citations %q: must be one of auto, always, never", c.Citations)
	}
	if c.Phone.CountryCode == "" {
		return fmt.Errorf("phone.country_code is required")
	}
	for _, r := range c.Phone.CountryCode {
		if r < '0' || r > '9' {
			return fmt.Errorf("phone.country_code must be digits only")
		}
	}
	if c.Phone.NationalLen <= 0 {
		return fmt.Errorf("phone.national_len must be positive")
	}
	if c.RequestsPerMinute < 0 {
		return fmt.Errorf("requests_per_minute must be non-negative")
	}
	return nil
}
