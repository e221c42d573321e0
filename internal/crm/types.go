package crm

// Contact is the CRM contact shape this system reads. It is owned by the
// CRM; we only cache it.
type Contact struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Email        string            `json:"email"`
	Phone        string            `json:"phone"`
	Tags         []string          `json:"tags"`
	CustomFields map[string]string `json:"custom_fields,omitempty"`
}

// KBResult is one hit from the CRM-hosted knowledge base.
type KBResult struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Source  string `json:"source,omitempty"`
}
