// Package gateway drives authenticated websocket sessions: handshake,
// registry admission, envelope routing, and presence broadcast.
package gateway

import (
	"time"

	"go.uber.org/zap"

	"github.com/yourorg/presence-gateway/internal/protocol"
	"github.com/yourorg/presence-gateway/internal/registry"
)

// IdentityVerifier resolves a bearer credential to a user identity.
type IdentityVerifier interface {
	Verify(token string) (string, error)
}

// StatusSink receives presence transitions for out-of-process
// persistence. Implementations must not block the caller.
type StatusSink interface {
	PersistStatus(userID string, status protocol.Status)
}

// MessageEventSink receives relayed chat messages for downstream
// consumers. Implementations must not block the caller.
type MessageEventSink interface {
	MessageSent(senderID, recipientID, messageID, content string, at time.Time)
}

type Options struct {
	PingInterval   time.Duration
	PongWait       time.Duration
	WriteDeadline  time.Duration
	MaxMessageSize int64
	SendQueueSize  int
}

func (o *Options) withDefaults() {
	if o.PingInterval == 0 {
		o.PingInterval = 25 * time.Second
	}
	if o.PongWait == 0 {
		o.PongWait = 60 * time.Second
	}
	if o.WriteDeadline == 0 {
		o.WriteDeadline = 10 * time.Second
	}
	if o.MaxMessageSize == 0 {
		o.MaxMessageSize = 64 * 1024
	}
	if o.SendQueueSize == 0 {
		o.SendQueueSize = 256
	}
}

type Gateway struct {
	verifier IdentityVerifier
	reg      *registry.Registry
	sink     StatusSink
	events   MessageEventSink
	opts     Options
	log      *zap.SugaredLogger
}

// New wires a gateway. events may be nil when no broker is configured.
func New(verifier IdentityVerifier, reg *registry.Registry, sink StatusSink, events MessageEventSink, opts Options, log *zap.SugaredLogger) *Gateway {
	opts.withDefaults()
	return &Gateway{
		verifier: verifier,
		reg:      reg,
		sink:     sink,
		events:   events,
		opts:     opts,
		log:      log,
	}
}
