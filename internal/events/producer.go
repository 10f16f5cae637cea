// Package events publishes relayed-message events to Kafka for the
// persistence and notification services downstream. Publishing is
// fire-and-forget; the gateway itself keeps nothing.
package events

import (
	"context"
	"encoding/json"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const publishTimeout = 10 * time.Second

type MessageSentEvent struct {
	SenderID    string `json:"sender_id"`
	RecipientID string `json:"recipient_id"`
	MessageID   string `json:"message_id"`
	Content     string `json:"content"`
	SentAt      string `json:"sent_at"`
}

// Producer writes message events through a bounded queue drained by a
// single worker, so a slow broker never blocks frame routing.
type Producer struct {
	writer *kafkago.Writer
	queue  chan kafkago.Message
	done   chan struct{}
	log    *zap.SugaredLogger
}

func NewProducer(brokers []string, topic string, log *zap.SugaredLogger) *Producer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireOne,
	}
	p := &Producer{
		writer: w,
		queue:  make(chan kafkago.Message, 1024),
		done:   make(chan struct{}),
		log:    log,
	}
	go p.run()
	return p
}

// MessageSent enqueues an event. Drops with a warning when the queue
// is full.
func (p *Producer) MessageSent(senderID, recipientID, messageID, content string, at time.Time) {
	b, _ := json.Marshal(MessageSentEvent{
		SenderID:    senderID,
		RecipientID: recipientID,
		MessageID:   messageID,
		Content:     content,
		SentAt:      at.UTC().Format(time.RFC3339),
	})
	msg := kafkago.Message{Key: []byte(senderID), Value: b, Time: at}
	select {
	case p.queue <- msg:
	default:
		p.log.Warnw("event queue full, dropping message event", "message_id", messageID)
	}
}

func (p *Producer) run() {
	defer close(p.done)
	for msg := range p.queue {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		if err := p.writer.WriteMessages(ctx, msg); err != nil {
			p.log.Warnw("event publish failed", "error", err)
		}
		cancel()
	}
}

// Close stops the worker after draining queued events and closes the
// underlying writer.
func (p *Producer) Close() error {
	close(p.queue)
	<-p.done
	return p.writer.Close()
}
