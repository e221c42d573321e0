package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Port)
	}
	if cfg.Personality.Company != "Your Business" {
		t.Errorf("expected placeholder company, got %q", cfg.Personality.Company)
	}
	if !cfg.Defaulted("personality.company") {
		t.Error("company should be marked as defaulted")
	}
	if !cfg.Defaulted("personality.website") {
		t.Error("website should be marked as defaulted")
	}
}

func TestLoadMarksConfiguredFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "waverly.yml")
	content := `port: 9090
personality:
  company: Acme Plumbing
  website: https://acmeplumbing.example.net
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Port)
	}
	if cfg.Personality.Company != "Acme Plumbing" {
		t.Errorf("expected company from file, got %q", cfg.Personality.Company)
	}
	if cfg.Defaulted("personality.company") {
		t.Error("company came from the file and must not be marked defaulted")
	}
	if !cfg.Defaulted("personality.support_email") {
		t.Error("support_email was absent and should be marked defaulted")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "waverly.yml")

	cfg := DefaultConfig()
	cfg.Personality.Company = "Acme Plumbing"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Personality.Company != "Acme Plumbing" {
		t.Errorf("round trip lost company: %q", loaded.Personality.Company)
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}

	bad := DefaultConfig()
	bad.Port = 0
	if err := bad.Validate(); err == nil {
		t.Error("expected error for port 0")
	}

	bad = DefaultConfig()
	bad.Citations = "sometimes"
	if err := bad.Validate(); err == nil {
		t.Error("expected error for invalid citation mode")
	}

	bad = DefaultConfig()
	bad.Phone.CountryCode = "+91"
	if err := bad.Validate(); err == nil {
		t.Error("expected error for non-digit country code")
	}
}

func TestMarkConfigured(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatal(err)
	}
	cfg.Personality.Company = "Real Co"
	cfg.MarkConfigured("personality.company")
	if cfg.Defaulted("personality.company") {
		t.Error("MarkConfigured should clear the defaulted flag")
	}
}
