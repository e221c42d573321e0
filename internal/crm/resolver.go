package crm

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/helpdeskhq/waverly/internal/phone"
)

// profileTTL is how long a resolved profile stays cached.
const profileTTL = 5 * time.Minute

// Profile is the read-through view of a CRM contact used by the reply
// pipeline.
type Profile struct {
	Name         string
	Email        string
	Phone        string
	Tags         []string
	CustomFields map[string]string
}

// Resolver fetches and caches CRM profiles by phone number. It sits on the
// critical path of every reply and therefore never returns an error:
// unnormalizable numbers, missing contacts, and CRM failures all resolve
// to nil.
type Resolver struct {
	client     ContactClient
	normalizer *phone.Normalizer

	mu    sync.Mutex
	cache map[string]cachedProfile
}

type cachedProfile struct {
	profile *Profile
	expires time.Time
}

// NewResolver creates a Resolver over the given contact client.
func NewResolver(client ContactClient, normalizer *phone.Normalizer) *Resolver {
	return &Resolver{
		client:     client,
		normalizer: normalizer,
		cache:      make(map[string]cachedProfile),
	}
}

// Resolve returns the profile for a raw phone string, or nil when the
// number is unroutable, the CRM is unconfigured, the contact is unknown,
// or the lookup fails.
func (r *Resolver) Resolve(ctx context.Context, rawPhone string) *Profile {
	e164, ok := r.normalizer.Normalize(rawPhone)
	if !ok {
		return nil
	}

	r.mu.Lock()
	if c, hit := r.cache[e164]; hit && time.Now().Before(c.expires) {
		r.mu.Unlock()
		return c.profile
	}
	r.mu.Unlock()

	if !r.client.Configured() {
		return nil
	}

	contact, err := r.client.FindByPhone(ctx, e164)
	if err != nil {
		log.Printf("crm: contact lookup for %s failed: %v", e164, err)
		return nil
	}

	var profile *Profile
	if contact != nil {
		profile = &Profile{
			Name:         contact.Name,
			Email:        contact.Email,
			Phone:        contact.Phone,
			Tags:         contact.Tags,
			CustomFields: contact.CustomFields,
		}
	}

	r.mu.Lock()
	r.cache[e164] = cachedProfile{profile: profile, expires: time.Now().Add(profileTTL)}
	r.mu.Unlock()

	return profile
}

// Reset clears the profile cache. Intended for test isolation.
func (r *Resolver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[string]cachedProfile)
}
