// Package eventbus publishes outbox messages to a message broker.
package eventbus

import (
	"context"
	"log/slog"
	"time"
)

// Envelope is one message handed to a broker.
type Envelope struct {
	MessageID     string
	RoutingKey    string
	CorrelationID string
	Payload       []byte
	Timestamp     time.Time
}

// Publisher sends envelopes to a message broker.
type Publisher interface {
	Publish(ctx context.Context, env Envelope) error
	Close() error
}

// LogPublisher logs envelopes instead of sending them. It stands in for a
// broker during development.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a LogPublisher.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

// Publish logs the envelope.
func (p *LogPublisher) Publish(ctx context.Context, env Envelope) error {
	p.logger.InfoContext(ctx, "event published",
		"message_id", env.MessageID,
		"routing_key", env.RoutingKey,
		"correlation_id", env.CorrelationID,
		"size", len(env.Payload),
	)
	return nil
}

// Close is a no-op.
func (p *LogPublisher) Close() error {
	return nil
}
