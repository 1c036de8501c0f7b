package outbox

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/lumina/internal/shared/domain"
	"github.com/felixgeelhaar/lumina/internal/shared/infrastructure/eventbus"
)

// Message is a domain event stored for publishing after its transaction commits.
type Message struct {
	ID               int64
	EventID          uuid.UUID
	AggregateType    string
	AggregateID      uuid.UUID
	EventType        string
	RoutingKey       string
	Payload          json.RawMessage
	Metadata         json.RawMessage
	CreatedAt        time.Time
	PublishedAt      *time.Time
	NextRetryAt      *time.Time
	RetryCount       int
	LastError        *string
	DeadLetteredAt   *time.Time
	DeadLetterReason *string
}

// NewMessage creates an outbox message from a domain event.
func NewMessage(event domain.DomainEvent) (*Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	metadata, err := json.Marshal(event.Metadata())
	if err != nil {
		return nil, err
	}

	return &Message{
		EventID:       event.EventID(),
		AggregateType: event.AggregateType(),
		AggregateID:   event.AggregateID(),
		EventType:     event.RoutingKey(),
		RoutingKey:    event.RoutingKey(),
		Payload:       payload,
		Metadata:      metadata,
		CreatedAt:     event.OccurredAt().UTC(),
	}, nil
}

// IsPublished returns true if the message has been published.
func (m *Message) IsPublished() bool {
	return m.PublishedAt != nil
}

// CanRetry returns true if the message can be retried.
func (m *Message) CanRetry(maxRetries int) bool {
	return m.RetryCount < maxRetries
}

// Envelope converts the message for the broker. The event ID doubles as the
// broker message ID so consumers can deduplicate redeliveries.
func (m *Message) Envelope() eventbus.Envelope {
	return eventbus.Envelope{
		MessageID:     m.EventID.String(),
		RoutingKey:    m.RoutingKey,
		CorrelationID: m.metadata().CorrelationID,
		Payload:       m.Payload,
		Timestamp:     m.CreatedAt,
	}
}

type messageMetadata struct {
	CorrelationID string
	CausationID   string
	UserID        string
}

func (m *Message) metadata() messageMetadata {
	if len(m.Metadata) == 0 {
		return messageMetadata{}
	}
	var md domain.EventMetadata
	if err := json.Unmarshal(m.Metadata, &md); err != nil {
		return messageMetadata{}
	}
	return messageMetadata{
		CorrelationID: md.CorrelationID.String(),
		CausationID:   md.CausationID.String(),
		UserID:        md.UserID.String(),
	}
}

func (m *Message) logAttrs() []any {
	md := m.metadata()
	return []any{
		"id", strconv.FormatInt(m.ID, 10),
		"event_id", m.EventID,
		"routing_key", m.RoutingKey,
		"correlation_id", md.CorrelationID,
		"causation_id", md.CausationID,
		"user_id", md.UserID,
	}
}
