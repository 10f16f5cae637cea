package gateway

import (
	"time"

	"github.com/google/uuid"

	"github.com/yourorg/presence-gateway/internal/protocol"
)

// route dispatches one inbound frame from an active session. Protocol
// errors drop the frame with a warning; the connection stays up.
func (g *Gateway) route(sender *Client, senderID string, data []byte) {
	in, err := protocol.DecodeInbound(data)
	if err != nil {
		g.log.Warnw("dropping malformed frame", "user_id", senderID, "error", err)
		return
	}
	switch in.Type {
	case protocol.TypeMessage:
		g.handleMessage(sender, senderID, in)
	case protocol.TypeTyping:
		g.handleTyping(senderID, in)
	case protocol.TypePresence:
		g.handlePresence(senderID, in)
	default:
		g.log.Warnw("dropping frame with unknown type", "user_id", senderID, "type", in.Type)
	}
}

// handleMessage forwards a chat message to its recipient if online and
// always reports the outcome back to the sender. Best-effort: an
// offline recipient means the message is gone, not queued.
func (g *Gateway) handleMessage(sender *Client, senderID string, in *protocol.Inbound) {
	if in.RecipientID == "" {
		g.log.Warnw("dropping message without recipient", "user_id", senderID)
		return
	}
	messageID := in.MessageID
	if messageID == "" {
		messageID = uuid.NewString()
	}
	now := time.Now().UTC()

	recipientOnline := false
	if rc, ok := g.reg.Lookup(in.RecipientID); ok {
		recipientOnline = rc.Enqueue(protocol.Encode(protocol.NewNewMessage(senderID, in.Content, messageID, now)))
	}
	// Delivery feedback follows the forward attempt, never precedes it.
	sender.Enqueue(protocol.Encode(protocol.NewMessageDelivered(messageID, recipientOnline)))

	if g.events != nil {
		g.events.MessageSent(senderID, in.RecipientID, messageID, in.Content, now)
	}
}

// handleTyping relays a typing indicator. Fire-and-forget: no ack, and
// an offline recipient silently swallows it.
func (g *Gateway) handleTyping(senderID string, in *protocol.Inbound) {
	if in.RecipientID == "" {
		g.log.Warnw("dropping typing frame without recipient", "user_id", senderID)
		return
	}
	if rc, ok := g.reg.Lookup(in.RecipientID); ok {
		rc.Enqueue(protocol.Encode(protocol.NewTyping(senderID, in.IsTyping)))
	}
}

// handlePresence applies a client-originated status change and fans it
// out to everyone else.
func (g *Gateway) handlePresence(senderID string, in *protocol.Inbound) {
	status, ok := protocol.ParseStatus(in.Status)
	if !ok {
		g.log.Warnw("dropping presence frame with bad status", "user_id", senderID, "status", in.Status)
		return
	}
	if !g.reg.SetStatus(senderID, status) {
		return
	}
	g.broadcastStatus(senderID, status, time.Now().UTC())
	g.sink.PersistStatus(senderID, status)
}
