package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/richxcame/giftcard-service/pkg/logger"
)

// Event is the JSON envelope published on every subject
type Event struct {
	ID        uuid.UUID       `json:"id"`
	Subject   string          `json:"subject"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// Handler processes a single event. Returning an error logs the failure;
// delivery is at-most-once, handlers must tolerate missed events.
type Handler func(ctx context.Context, event *Event) error

// Bus is a thin NATS-backed publish/subscribe wrapper
type Bus struct {
	conn *nats.Conn
}

// NewBus connects to NATS at the given URL
func NewBus(url string) (*Bus, error) {
	conn, err := nats.Connect(url,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return &Bus{conn: conn}, nil
}

// Publish marshals the payload into an Event envelope and publishes it
func (b *Bus) Publish(ctx context.Context, subject string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}

	event := Event{
		ID:        uuid.New(),
		Subject:   subject,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
	raw, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	if err := b.conn.Publish(subject, raw); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

// Subscribe registers a queue-group subscription on a subject.
// Handler errors are logged, never redelivered.
func (b *Bus) Subscribe(ctx context.Context, subject, queue string, handler Handler) error {
	_, err := b.conn.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		var event Event
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			logger.Error("eventbus: malformed event",
				zap.String("subject", subject),
				zap.Error(err),
			)
			return
		}
		if err := handler(ctx, &event); err != nil {
			logger.Error("eventbus: handler failed",
				zap.String("subject", subject),
				zap.String("event_id", event.ID.String()),
				zap.Error(err),
			)
		}
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}
	return nil
}

// Close drains and closes the underlying connection
func (b *Bus) Close() {
	if b.conn != nil {
		_ = b.conn.Drain()
	}
}
