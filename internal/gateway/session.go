package gateway

import (
	"errors"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/yourorg/presence-gateway/internal/auth"
	"github.com/yourorg/presence-gateway/internal/protocol"
)

// connState tracks where a session is in its lifecycle. closed is
// terminal; no frames are processed once a session leaves active.
type connState int

const (
	stateConnecting connState = iota
	stateAuthenticating
	stateActive
	stateClosing
	stateClosed
)

type session struct {
	g      *Gateway
	state  connState
	userID string
	client *Client
}

// Handle runs one transport from acceptance to teardown. It blocks
// until the connection is gone, so the caller dedicates a goroutine
// (the websocket handler) to it.
func (g *Gateway) Handle(conn wire, token string) {
	s := &session{g: g, state: stateConnecting}
	s.state = stateAuthenticating

	if token == "" {
		g.reject(conn, protocol.CloseAuthRequired, "auth-required")
		s.state = stateClosed
		return
	}
	userID, err := g.verifier.Verify(token)
	if err != nil {
		g.log.Infow("handshake rejected", "error", err)
		code, reason := protocol.CloseInvalidToken, "invalid-token"
		if !errors.Is(err, auth.ErrInvalidToken) && !errors.Is(err, auth.ErrMissingToken) {
			code, reason = protocol.CloseConnectionError, "connection-error"
		}
		g.reject(conn, code, reason)
		s.state = stateClosed
		return
	}

	s.userID = userID
	s.client = newClient(conn, userID, uuid.NewString(), g.opts.SendQueueSize, g.opts.PingInterval, g.opts.WriteDeadline, g.log)

	// The ack goes into the queue before the client is visible to any
	// broadcaster, so it is always the first envelope the peer receives.
	s.client.Enqueue(protocol.Encode(protocol.NewConnectionAck(userID)))

	// Last handshake wins: the previous transport for this identity is
	// closed, not merely forgotten.
	if displaced := g.reg.Register(userID, s.client); displaced != nil {
		g.log.Infow("session displaced", "user_id", userID)
		displaced.CloseWithReason(protocol.CloseSessionReplaced, "session-replaced")
	}
	s.state = stateActive
	g.log.Infow("connected", "user_id", userID, "socket_id", s.client.socketID)

	go s.client.writePump()

	g.broadcastStatus(userID, protocol.StatusOnline, time.Now().UTC())
	g.sink.PersistStatus(userID, protocol.StatusOnline)

	s.readLoop()
	s.teardown()
}

func (s *session) readLoop() {
	g, c := s.g, s.client
	c.conn.SetReadLimit(g.opts.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(g.opts.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(g.opts.PongWait))
	})
	for {
		mt, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		if mt != websocket.TextMessage {
			continue
		}
		g.route(c, s.userID, data)
	}
}

// teardown leaves the registry and announces offline, unless a newer
// session for the same identity already replaced this one.
func (s *session) teardown() {
	s.state = stateClosing
	if s.g.reg.Deregister(s.userID, s.client) {
		now := time.Now().UTC()
		s.g.broadcastStatus(s.userID, protocol.StatusOffline, now)
		s.g.sink.PersistStatus(s.userID, protocol.StatusOffline)
		s.g.log.Infow("disconnected", "user_id", s.userID)
	}
	s.client.CloseWithReason(websocket.CloseNormalClosure, "")
	s.state = stateClosed
}

// reject closes a transport that never made it into the registry.
func (g *Gateway) reject(conn wire, code int, reason string) {
	msg := websocket.FormatCloseMessage(code, reason)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	_ = conn.Close()
}
