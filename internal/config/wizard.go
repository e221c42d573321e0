package config

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to the given path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to waverly! Let's set up your assistant.")
	fmt.Println()

	cfg := DefaultConfig()

	namePrompt := promptui.Prompt{
		Label:   "Assistant name",
		Default: cfg.Personality.Name,
	}
	name, err := namePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("assistant name: %w", err)
	}
	cfg.Personality.Name = strings.TrimSpace(name)

	companyPrompt := promptui.Prompt{
		Label: "Company name",
	}
	company, err := companyPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("company name: %w", err)
	}
	if company = strings.TrimSpace(company); company != "" {
		cfg.Personality.Company = company
		cfg.MarkConfigured("personality.company")
	}

	websitePrompt := promptui.Prompt{
		Label: "Website (leave empty if none)",
	}
	website, err := websitePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("website: %w", err)
	}
	if website = strings.TrimSpace(website); website != "" {
		cfg.Personality.Website = website
		cfg.MarkConfigured("personality.website")
	}

	emailPrompt := promptui.Prompt{
		Label: "Support email (leave empty if none)",
	}
	email, err := emailPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("support email: %w", err)
	}
	if email = strings.TrimSpace(email); email != "" {
		cfg.Personality.SupportEmail = email
		cfg.MarkConfigured("personality.support_email")
	}

	tonePrompt := promptui.Select{
		Label: "Assistant tone",
		Items: []string{"friendly and professional", "formal", "casual", "enthusiastic"},
	}
	_, tone, err := tonePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("tone selection: %w", err)
	}
	cfg.Personality.Tone = tone

	countryPrompt := promptui.Prompt{
		Label:   "Home country dialing code",
		Default: cfg.Phone.CountryCode,
	}
	country, err := countryPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("country code: %w", err)
	}
	cfg.Phone.CountryCode = strings.TrimPrefix(strings.TrimSpace(country), "+")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.Save(path); err != nil {
		return nil, err
	}

	fmt.Println()
	fmt.Printf("Configuration written to %s\n", path)
	fmt.Println("Set OPENAI_API_KEY to enable semantic search and replies.")
	return cfg, nil
}
