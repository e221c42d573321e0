// Package facts produces deterministic identity and brand-FAQ answers
// from structured configuration and mined knowledge text, and guards
// against placeholder values ever reaching a user-visible reply.
package facts

import "strings"

// Kind identifies which identity field a value belongs to.
type Kind string

const (
	KindCompany Kind = "company"
	KindWebsite Kind = "website"
	KindEmail   Kind = "email"
	KindPhone   Kind = "phone"
)

// companyPlaceholders are generic literals that an unconfigured install
// carries for the company name.
var companyPlaceholders = map[string]bool{
	"":              true,
	"your business": true,
	"company":       true,
	"business":      true,
	"your company":  true,
}

// placeholderDomains mark website and email values that belong to nobody.
var placeholderDomains = []string{
	"yourbusiness",
	"yourwebsite",
	"yourcompany",
	"example.com",
	"example.org",
	"example.net",
}

// IsPlaceholder reports whether value is a known placeholder for the given
// kind. Placeholder values must never be inserted into a prompt or reply.
func IsPlaceholder(kind Kind, value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return true
	}

	switch kind {
	case KindCompany:
		return companyPlaceholders[v]
	case KindWebsite, KindEmail:
		for _, d := range placeholderDomains {
			if strings.Contains(v, d) {
				return true
			}
		}
		return false
	case KindPhone:
		return strings.Trim(v, "+0 ") == ""
	default:
		return false
	}
}
