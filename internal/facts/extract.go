package facts

import (
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	urlPattern   = regexp.MustCompile(`https?://[^\s<>"')]+|www\.[^\s<>"')]+`)
	phonePattern = regexp.MustCompile(`\+?\d[\d\s().\-]{6,}\d`)
)

// MineEmail returns the first non-placeholder email address found in the
// texts, in document order.
func MineEmail(texts []string) string {
	for _, t := range texts {
		for _, m := range emailPattern.FindAllString(t, -1) {
			if !IsPlaceholder(KindEmail, m) {
				return m
			}
		}
	}
	return ""
}

// MineURL returns the first non-placeholder URL found in the texts.
func MineURL(texts []string) string {
	for _, t := range texts {
		for _, m := range urlPattern.FindAllString(t, -1) {
			if !IsPlaceholder(KindWebsite, m) {
				return strings.TrimRight(m, ".,;")
			}
		}
	}
	return ""
}

// MinePhone returns the first phone-like digit run found in the texts.
func MinePhone(texts []string) string {
	for _, t := range texts {
		if m := phonePattern.FindString(t); m != "" {
			// The digit-run pattern can swallow a trailing parenthetical
			// like "(24x7)"; cut it off.
			if i := strings.IndexByte(m, '('); i > 0 {
				m = m[:i]
			}
			return strings.TrimSpace(m)
		}
	}
	return ""
}

// Identity holds the assistant's resolved public identity. Empty fields
// mean "unknown": either unconfigured or a discarded placeholder.
type Identity struct {
	Company string
	Website string
}

// ResolveIdentity merges a structured company/website pair with values
// mined from knowledge texts. Structured fields win; placeholders are
// discarded at every step.
func ResolveIdentity(company, website string, texts []string) Identity {
	id := Identity{}
	if !IsPlaceholder(KindCompany, company) {
		id.Company = strings.TrimSpace(company)
	}
	if !IsPlaceholder(KindWebsite, website) {
		id.Website = strings.TrimSpace(website)
	}
	if id.Website == "" {
		id.Website = MineURL(texts)
	}
	return id
}

// BrandFAQ holds the deterministic support facts.
type BrandFAQ struct {
	SupportEmail string
	SupportPhone string
	SupportLink  string
	Address      string
	Hours        string
}

// ResolveBrandFAQ merges structured support fields with mined values.
// Structured fields always take precedence over mined ones.
func ResolveBrandFAQ(email, phoneNum, link, address, hours string, texts []string) BrandFAQ {
	faq := BrandFAQ{
		SupportLink: strings.TrimSpace(link),
		Address:     strings.TrimSpace(address),
		Hours:       strings.TrimSpace(hours),
	}
	if !IsPlaceholder(KindEmail, email) {
		faq.SupportEmail = strings.TrimSpace(email)
	}
	if !IsPlaceholder(KindPhone, phoneNum) {
		faq.SupportPhone = strings.TrimSpace(phoneNum)
	}
	if faq.SupportEmail == "" {
		faq.SupportEmail = MineEmail(texts)
	}
	if faq.SupportPhone == "" {
		faq.SupportPhone = MinePhone(texts)
	}
	return faq
}

// IdentitySnippet renders the identity as a knowledge snippet, or "" when
// nothing usable is known.
func (id Identity) IdentitySnippet() string {
	var parts []string
	if id.Company != "" {
		parts = append(parts, "Company name: "+id.Company)
	}
	if id.Website != "" {
		parts = append(parts, "Website: "+id.Website)
	}
	return strings.Join(parts, "\n")
}

// FAQSnippet renders the support facts as a knowledge snippet, or "" when
// nothing usable is known.
func (faq BrandFAQ) FAQSnippet() string {
	var parts []string
	if faq.SupportEmail != "" {
		parts = append(parts, "Support email: "+faq.SupportEmail)
	}
	if faq.SupportPhone != "" {
		parts = append(parts, "Support phone: "+faq.SupportPhone)
	}
	if faq.SupportLink != "" {
		parts = append(parts, "Support link: "+faq.SupportLink)
	}
	if faq.Address != "" {
		parts = append(parts, "Address: "+faq.Address)
	}
	if faq.Hours != "" {
		parts = append(parts, "Business hours: "+faq.Hours)
	}
	return strings.Join(parts, "\n")
}
