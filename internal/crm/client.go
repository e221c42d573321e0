// Package crm wraps the GoHighLevel REST API behind narrow interfaces.
// Every implementation has an explicit Configured method and a no-op
// fallback, so callers depend on the interface rather than probing for
// credentials at call time.
package crm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/helpdeskhq/waverly/internal/config"
)

// apiVersion is the HighLevel API version header value.
const apiVersion = "2021-07-28"

// ContactClient looks up CRM contacts by phone number.
type ContactClient interface {
	// FindByPhone returns the contact for an E.164 number, or (nil, nil)
	// when no contact exists.
	FindByPhone(ctx context.Context, e164 string) (*Contact, error)
	Configured() bool
}

// KnowledgeSearcher queries the CRM-hosted knowledge base.
type KnowledgeSearcher interface {
	Search(ctx context.Context, query string) ([]KBResult, error)
	Configured() bool
}

// Client is the HTTP GoHighLevel client. It implements both ContactClient
// and KnowledgeSearcher.
type Client struct {
	baseURL    string
	apiKey     string
	locationID string
	kbEnabled  bool
	httpClient *http.Client
}

// NewClient creates a Client from configuration. When the API key is empty
// the client reports unconfigured and every call degrades.
func NewClient(cfg config.CRMConfig) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		locationID: cfg.LocationID,
		kbEnabled:  cfg.KnowledgeBase,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Configured() bool {
	return c.apiKey != "" && c.baseURL != ""
}

// FindByPhone looks up a contact by E.164 phone number.
func (c *Client) FindByPhone(ctx context.Context, e164 string) (*Contact, error) {
	if !c.Configured() {
		return nil, nil
	}

	u := fmt.Sprintf("%s/contacts/lookup?phone=%s", c.baseURL, url.QueryEscape(e164))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("contact lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("contact lookup: status %d", resp.StatusCode)
	}

	var payload struct {
		Contacts []struct {
			ID           string            `json:"id"`
			ContactName  string            `json:"contactName"`
			Email        string            `json:"email"`
			Phone        string            `json:"phone"`
			Tags         []string          `json:"tags"`
			CustomFields map[string]string `json:"customFields"`
		} `json:"contacts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding contact response: %w", err)
	}
	if len(payload.Contacts) == 0 {
		return nil, nil
	}

	first := payload.Contacts[0]
	return &Contact{
		ID:           first.ID,
		Name:         first.ContactName,
		Email:        first.Email,
		Phone:        first.Phone,
		Tags:         first.Tags,
		CustomFields: first.CustomFields,
	}, nil
}

// KnowledgeBase returns a KnowledgeSearcher view of this client that also
// honors the knowledge-base feature flag.
func (c *Client) KnowledgeBase() KnowledgeSearcher {
	return kbView{c}
}

type kbView struct{ c *Client }

func (v kbView) Search(ctx context.Context, query string) ([]KBResult, error) {
	return v.c.Search(ctx, query)
}

func (v kbView) Configured() bool {
	return v.c.Configured() && v.c.kbEnabled
}

// Search queries the CRM-hosted knowledge base. Returns no results when
// the client or the feature flag is not configured.
func (c *Client) Search(ctx context.Context, query string) ([]KBResult, error) {
	if !c.Configured() || !c.kbEnabled {
		return nil, nil
	}

	u := fmt.Sprintf("%s/knowledge-base/search?query=%s&locationId=%s",
		c.baseURL, url.QueryEscape(query), url.QueryEscape(c.locationID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("knowledge base search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("knowledge base search: status %d", resp.StatusCode)
	}

	var payload struct {
		Items []KBResult `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding knowledge base response: %w", err)
	}
	return payload.Items, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Version", apiVersion)
	req.Header.Set("Accept", "application/json")
}

// NoopContacts is the ContactClient used when no CRM is configured.
type NoopContacts struct{}

func (NoopContacts) FindByPhone(context.Context, string) (*Contact, error) { return nil, nil }
func (NoopContacts) Configured() bool                                      { return false }

// NoopKnowledge is the KnowledgeSearcher used when the hosted knowledge
// base is not configured.
type NoopKnowledge struct{}

func (NoopKnowledge) Search(context.Context, string) ([]KBResult, error) { return nil, nil }
func (NoopKnowledge) Configured() bool                                   { return false }
