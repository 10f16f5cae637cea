package gateway

import (
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

// wire is the subset of the websocket connection the gateway uses.
// *websocket.Conn satisfies it; tests substitute a fake.
type wire interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(string) error)
	Close() error
}

// Client owns one admitted transport. Outbound frames go through a
// bounded queue drained by a single writer goroutine; the reader
// goroutine never writes to the transport directly.
type Client struct {
	userID   string
	socketID string
	conn     wire
	send     chan []byte
	closed   chan struct{}
	once     sync.Once
	log      *zap.SugaredLogger

	pingInterval  time.Duration
	writeDeadline time.Duration
}

func newClient(conn wire, userID, socketID string, queueSize int, pingInterval, writeDeadline time.Duration, log *zap.SugaredLogger) *Client {
	return &Client{
		userID:        userID,
		socketID:      socketID,
		conn:          conn,
		send:          make(chan []byte, queueSize),
		closed:        make(chan struct{}),
		log:           log,
		pingInterval:  pingInterval,
		writeDeadline: writeDeadline,
	}
}

// Enqueue hands a frame to the writer. It never blocks: if the queue
// is full the client is disconnected rather than let a stalled peer
// exert backpressure on its senders.
func (c *Client) Enqueue(data []byte) bool {
	select {
	case <-c.closed:
		return false
	default:
	}
	select {
	case c.send <- data:
		return true
	default:
		c.log.Warnw("send queue overflow, disconnecting", "user_id", c.userID, "socket_id", c.socketID)
		c.CloseWithReason(websocket.CloseTryAgainLater, "send queue overflow")
		return false
	}
}

// CloseWithReason sends a close frame with the given code and tears the
// transport down. Safe to call more than once and from any goroutine.
func (c *Client) CloseWithReason(code int, reason string) {
	c.once.Do(func() {
		msg := websocket.FormatCloseMessage(code, reason)
		_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		close(c.closed)
		_ = c.conn.Close()
	})
}

// writePump drains the send queue onto the transport and keeps the
// connection alive with periodic pings. Runs until the client closes
// or a write fails.
func (c *Client) writePump() {
	ticker := time.NewTicker(c.pingInterval)
	defer func() {
		ticker.Stop()
		c.CloseWithReason(websocket.CloseNormalClosure, "")
	}()
	for {
		select {
		case <-c.closed:
			return
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeDeadline))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.log.Debugw("write failed", "user_id", c.userID, "error", err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeDeadline))
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(time.Second)); err != nil {
				return
			}
		}
	}
}
