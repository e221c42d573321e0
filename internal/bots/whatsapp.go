package bots

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// Sender delivers outgoing messages to the WhatsApp API.
type Sender interface {
	Send(ctx context.Context, msg OutgoingMessage) error
	Configured() bool
}

// WhatsAppHandler handles WhatsApp Business Cloud API webhook calls:
// subscription verification on GET and message delivery on POST.
type WhatsAppHandler struct {
	gateway     *Gateway
	sender      Sender
	appSecret   string
	verifyToken string
}

// NewWhatsAppHandler creates a webhook handler. An empty appSecret skips
// signature verification; a nil sender means replies are only echoed in
// the webhook response.
func NewWhatsAppHandler(gateway *Gateway, sender Sender, appSecret, verifyToken string) *WhatsAppHandler {
	if sender == nil {
		sender = NoopSender{}
	}
	return &WhatsAppHandler{
		gateway:     gateway,
		sender:      sender,
		appSecret:   appSecret,
		verifyToken: verifyToken,
	}
}

// webhookPayload is the Cloud API webhook envelope, reduced to the fields
// the pipeline consumes.
type webhookPayload struct {
	Object string `json:"object"`
	Entry  []struct {
		Changes []struct {
			Field string `json:"field"`
			Value struct {
				Contacts []struct {
					WaID    string `json:"wa_id"`
					Profile struct {
						Name string `json:"name"`
					} `json:"profile"`
				} `json:"contacts"`
				Messages []struct {
					From      string `json:"from"`
					ID        string `json:"id"`
					Timestamp string `json:"timestamp"`
					Type      string `json:"type"`
					Text      struct {
						Body string `json:"body"`
					} `json:"text"`
				} `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// HandleVerify answers the Cloud API subscription handshake (HTTP GET).
func (h *WhatsAppHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("hub.mode") == "subscribe" && q.Get("hub.verify_token") == h.verifyToken {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(q.Get("hub.challenge")))
		return
	}
	http.Error(w, "verification failed", http.StatusForbidden)
}

// HandleEvent handles incoming webhook deliveries (HTTP POST).
func (h *WhatsAppHandler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if h.appSecret != "" {
		if !h.verifySignature(r, body) {
			http.Error(w, "invalid signature", http.StatusUnauthorized)
			return
		}
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	var replies []OutgoingMessage
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			if change.Field != "messages" {
				continue
			}

			names := make(map[string]string)
			for _, c := range change.Value.Contacts {
				names[c.WaID] = c.Profile.Name
			}

			for _, m := range change.Value.Messages {
				// Only text messages are answerable.
				if m.Type != "text" || strings.TrimSpace(m.Text.Body) == "" {
					continue
				}

				msg := IncomingMessage{
					Platform:       PlatformWhatsApp,
					From:           m.From,
					ProfileName:    names[m.From],
					Text:           m.Text.Body,
					MessageID:      m.ID,
					ConversationID: m.From,
					Timestamp:      m.Timestamp,
				}

				out, err := h.gateway.Process(r.Context(), msg)
				if err != nil {
					log.Printf("bots: processing message %s: %v", m.ID, err)
					continue
				}
				if out == nil || out.HandedOff || out.Text == "" {
					continue
				}
				replies = append(replies, *out)

				if h.sender.Configured() {
					if err := h.sender.Send(r.Context(), *out); err != nil {
						log.Printf("bots: sending reply to %s: %v", out.To, err)
					}
				}
			}
		}
	}

	// The Cloud API only needs a 200; the replies are included so local
	// and test setups without a sender can observe them.
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"replies": replies})
}

// verifySignature checks the X-Hub-Signature-256 header: HMAC-SHA256 of
// the raw body keyed with the app secret.
func (h *WhatsAppHandler) verifySignature(r *http.Request, body []byte) bool {
	signature := r.Header.Get("X-Hub-Signature-256")
	if signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(h.appSecret))
	mac.Write(body)
	expected := "sha256=" + hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

// CloudSender posts replies through the WhatsApp Business Cloud API.
type CloudSender struct {
	baseURL       string
	accessToken   string
	phoneNumberID string
	httpClient    *http.Client
}

// NewCloudSender creates a sender for the given phone number id. An empty
// token yields an unconfigured sender.
func NewCloudSender(accessToken, phoneNumberID string) *CloudSender {
	return &CloudSender{
		baseURL:       "https://graph.facebook.com/v19.0",
		accessToken:   accessToken,
		phoneNumberID: phoneNumberID,
		httpClient:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *CloudSender) Configured() bool {
	return s.accessToken != "" && s.phoneNumberID != ""
}

// Send posts a text message to the Cloud API messages endpoint.
func (s *CloudSender) Send(ctx context.Context, msg OutgoingMessage) error {
	if !s.Configured() {
		return fmt.Errorf("whatsapp sender not configured")
	}

	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                msg.To,
		"type":              "text",
		"text":              map[string]string{"body": msg.Text},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", s.baseURL, s.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("whatsapp api returned %d: %s", resp.StatusCode, string(b))
	}
	return nil
}

// NoopSender discards outgoing messages.
type NoopSender struct{}

func (NoopSender) Send(context.Context, OutgoingMessage) error { return nil }
func (NoopSender) Configured() bool                            { return false }
