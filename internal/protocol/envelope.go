package protocol

import (
	"encoding/json"
	"fmt"
	"time"
)

// Envelope type discriminators. Client-originated: message, typing,
// presence. Server-originated: connectionAck, userStatus, newMessage,
// messageDelivered, typing.
type Type string

const (
	TypeConnectionAck    Type = "connectionAck"
	TypeUserStatus       Type = "userStatus"
	TypeMessage          Type = "message"
	TypeNewMessage       Type = "newMessage"
	TypeMessageDelivered Type = "messageDelivered"
	TypeTyping           Type = "typing"
	TypePresence         Type = "presence"
)

// Status is a user's presence state. Offline is never stored for a live
// connection; it only appears in userStatus broadcasts after disconnect.
type Status string

const (
	StatusOnline  Status = "online"
	StatusAway    Status = "away"
	StatusBusy    Status = "busy"
	StatusOffline Status = "offline"
)

// ParseStatus accepts the client-settable presence values.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusOnline, StatusAway, StatusBusy:
		return Status(s), true
	}
	return "", false
}

// WebSocket close codes sent at handshake rejection or displacement.
// 4xxx is the application-reserved range.
const (
	CloseAuthRequired    = 4001 // no credential on the connection URL
	CloseInvalidToken    = 4002 // credential present but failed verification
	CloseSessionReplaced = 4003 // a newer session for the same identity took over
	CloseConnectionError = 1011 // generic server-side failure
)

// Inbound is the union of all client-originated envelope fields. Which
// fields are meaningful depends on Type.
type Inbound struct {
	Type        Type   `json:"type"`
	RecipientID string `json:"recipientId,omitempty"`
	Content     string `json:"content,omitempty"`
	MessageID   string `json:"messageId,omitempty"`
	IsTyping    bool   `json:"isTyping,omitempty"`
	Status      string `json:"status,omitempty"`
}

// DecodeInbound parses a raw frame into an Inbound envelope.
func DecodeInbound(data []byte) (*Inbound, error) {
	var in Inbound
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	if in.Type == "" {
		return nil, fmt.Errorf("decode envelope: missing type")
	}
	return &in, nil
}

type ConnectionAck struct {
	Type   Type   `json:"type"`
	Status string `json:"status"`
	UserID string `json:"userId"`
}

type UserStatus struct {
	Type      Type   `json:"type"`
	UserID    string `json:"userId"`
	Status    Status `json:"status"`
	Timestamp int64  `json:"timestamp"`
}

type NewMessage struct {
	Type      Type   `json:"type"`
	SenderID  string `json:"senderId"`
	Content   string `json:"content"`
	MessageID string `json:"messageId"`
	Timestamp int64  `json:"timestamp"`
}

type MessageDelivered struct {
	Type            Type   `json:"type"`
	MessageID       string `json:"messageId"`
	RecipientOnline bool   `json:"recipientOnline"`
}

type Typing struct {
	Type     Type   `json:"type"`
	SenderID string `json:"senderId"`
	IsTyping bool   `json:"isTyping"`
}

func NewConnectionAck(userID string) ConnectionAck {
	return ConnectionAck{Type: TypeConnectionAck, Status: "success", UserID: userID}
}

func NewUserStatus(userID string, status Status, at time.Time) UserStatus {
	return UserStatus{Type: TypeUserStatus, UserID: userID, Status: status, Timestamp: at.UnixMilli()}
}

func NewNewMessage(senderID, content, messageID string, at time.Time) NewMessage {
	return NewMessage{Type: TypeNewMessage, SenderID: senderID, Content: content, MessageID: messageID, Timestamp: at.UnixMilli()}
}

func NewMessageDelivered(messageID string, recipientOnline bool) MessageDelivered {
	return MessageDelivered{Type: TypeMessageDelivered, MessageID: messageID, RecipientOnline: recipientOnline}
}

func NewTyping(senderID string, isTyping bool) Typing {
	return Typing{Type: TypeTyping, SenderID: senderID, IsTyping: isTyping}
}

// Encode marshals an outbound envelope. The envelope structs contain
// only plain fields, so marshalling cannot fail.
func Encode(v any) []byte {
	b, _ := json.Marshal(v)
	return b
}
