package kafka

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/Camden-Kirkpatrick/helpdesk-api/internal/model"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Ticket lifecycle event names.
const (
	EventTicketCreated = "ticket.created"
	EventTicketUpdated = "ticket.updated"
	EventTicketDeleted = "ticket.deleted"
)

// TicketEventProducer is the interface handlers depend on, so tests can
// substitute a mock.
type TicketEventProducer interface {
	ProduceTicketEvent(ctx context.Context, event string, payload map[string]interface{})
}

// Producer writes ticket lifecycle events to a Kafka topic (best-effort,
// never blocks the API).
type Producer struct {
	writer *kafka.Writer
	topic  string
	log    *zap.Logger
}

// NewProducer builds a producer. With no brokers or an empty topic every
// method is a no-op.
func NewProducer(brokers []string, topic string, log *zap.Logger) *Producer {
	if log == nil {
		log = zap.NewNop()
	}
	if len(brokers) == 0 || topic == "" {
		return &Producer{log: log}
	}
	return &Producer{
		topic: topic,
		log:   log,
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

// EventPayload builds the event body for a ticket.
func EventPayload(t *model.Ticket) map[string]interface{} {
	if t == nil {
		return nil
	}
	return map[string]interface{}{
		"ticket_id":   int64(t.ID),
		"title":       t.Title,
		"description": t.Description,
		"priority":    t.Priority,
		"status":      string(t.Status),
	}
}

// ProduceTicketEvent sends one event to the topic. Errors are logged and
// swallowed; event delivery must never fail a request.
func (p *Producer) ProduceTicketEvent(ctx context.Context, event string, payload map[string]interface{}) {
	if p.writer == nil {
		return
	}
	msg := map[string]interface{}{"event": event}
	for k, v := range payload {
		msg[k] = v
	}
	body, err := json.Marshal(msg)
	if err != nil {
		p.log.Warn("kafka: marshal ticket event", zap.Error(err))
		return
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{Value: body}); err != nil {
		p.log.Warn("kafka: write ticket event", zap.String("event", event), zap.Error(err))
	}
}

// Close closes the underlying writer.
func (p *Producer) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// ParseBrokers splits a "host1:9092,host2:9092" broker list.
func ParseBrokers(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
