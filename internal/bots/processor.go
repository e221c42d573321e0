package bots

import (
	"context"

	"github.com/helpdeskhq/waverly/internal/pipeline"
)

// Processor connects incoming messages to the reply pipeline.
type Processor struct {
	responder *pipeline.Responder
}

// NewProcessor creates a message processor backed by the pipeline.
func NewProcessor(responder *pipeline.Responder) *Processor {
	return &Processor{responder: responder}
}

// HandleMessage runs one message through the pipeline. A handed-off
// conversation yields an OutgoingMessage with HandedOff set and no text;
// an empty pipeline result yields nil, meaning nothing should be sent.
func (p *Processor) HandleMessage(ctx context.Context, msg IncomingMessage) (*OutgoingMessage, error) {
	conversationID := msg.ConversationID
	if conversationID == "" {
		conversationID = msg.From
	}

	res := p.responder.Reply(ctx, msg.Text, msg.From, conversationID)
	if res.HandedOff {
		return &OutgoingMessage{To: msg.From, HandedOff: true}, nil
	}
	if res.Reply == "" {
		return nil, nil
	}
	return &OutgoingMessage{To: msg.From, Text: res.Reply}, nil
}
