// Package phone normalizes arbitrary phone strings into E.164 form.
// Normalized numbers are used as routing and storage keys throughout the
// assistant, so anything that cannot be normalized must be rejected rather
// than passed through raw.
package phone

import "strings"

// minDigits is the minimum number of digits a valid E.164 number carries.
const minDigits = 7

// sentinels are non-phone identifiers that occasionally arrive in the
// "from" field of gateway events and must never be treated as numbers.
var sentinels = map[string]bool{
	"ai":        true,
	"system":    true,
	"status":    true,
	"broadcast": true,
}

// Normalizer converts raw phone strings to E.164 using repair heuristics
// for a single configured home country.
type Normalizer struct {
	countryCode string // dialing code digits, e.g. "91"
	nationalLen int    // digits in a national number, e.g. 10
}

// New creates a Normalizer for the given home country dialing code and
// national number length.
func New(countryCode string, nationalLen int) *Normalizer {
	return &Normalizer{countryCode: countryCode, nationalLen: nationalLen}
}

// NewDefault returns a Normalizer configured for India (+91, 10 digits).
func NewDefault() *Normalizer {
	return New("91", 10)
}

// Normalize converts raw into E.164 form. The second return value is false
// when raw is not a routable phone number; callers must not fall back to
// the raw input as a key.
func (n *Normalizer) Normalize(raw string) (string, bool) {
	s := strings.TrimSpace(raw)

	// WhatsApp JIDs look like "918123133382@c.us"; drop the suffix.
	if i := strings.IndexByte(s, '@'); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		return "", false
	}
	if sentinels[strings.ToLower(s)] {
		return "", false
	}

	hasPlus := strings.HasPrefix(s, "+")

	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return "", false
	}

	if hasPlus {
		// A bare country code is an incomplete number, not a contact.
		if digits == n.countryCode {
			return "", false
		}
		// Doubled-prefix typo: "+91 0 8123133382" arrives as +9108123133382.
		if strings.HasPrefix(digits, n.countryCode+"0") &&
			len(digits) == len(n.countryCode)+1+n.nationalLen {
			digits = n.countryCode + digits[len(n.countryCode)+1:]
		}
	} else {
		switch {
		case len(digits) == n.nationalLen+1 && digits[0] == '0':
			// National format with trunk zero.
			digits = n.countryCode + digits[1:]
		case len(digits) == n.nationalLen:
			// Bare national number.
			digits = n.countryCode + digits
		}
		// Anything else is assumed to already carry a country code.
	}

	if len(digits) < minDigits {
		return "", false
	}
	return "+" + digits, true
}

// Equal reports whether two raw phone strings normalize to the same number.
// Two unnormalizable strings are never equal.
func (n *Normalizer) Equal(a, b string) bool {
	na, ok := n.Normalize(a)
	if !ok {
		return false
	}
	nb, ok := n.Normalize(b)
	if !ok {
		return false
	}
	return na == nb
}
