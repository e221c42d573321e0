package bots

// Platform identifies the messaging transport.
type Platform string

const (
	PlatformWhatsApp Platform = "whatsapp"
)

// IncomingMessage is a message received from a messaging platform,
// normalized to what the reply pipeline needs.
type IncomingMessage struct {
	Platform       Platform
	From           string // raw sender identifier, usually a phone number
	ProfileName    string
	Text           string
	MessageID      string
	ConversationID string
	Timestamp      string
}

// OutgoingMessage is a reply to send back.
type OutgoingMessage struct {
	To        string
	Text      string
	HandedOff bool // escalated to a human; Text is empty
}
