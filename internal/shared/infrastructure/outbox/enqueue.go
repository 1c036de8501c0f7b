package outbox

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/lumina/internal/shared/application"
	"github.com/felixgeelhaar/lumina/internal/shared/domain"
)

// Enqueue stores events in the outbox as part of the current persistence
// scope. The messages are written when the scope flushes, so they commit or
// roll back together with the aggregate that raised them.
func Enqueue(ctx context.Context, repo Repository, events []domain.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]*Message, 0, len(events))
	for _, event := range events {
		msg, err := NewMessage(event)
		if err != nil {
			return fmt.Errorf("encode %s event: %w", event.RoutingKey(), err)
		}
		msgs = append(msgs, msg)
	}

	return application.Enlist(ctx, func(ctx context.Context) error {
		return repo.SaveBatch(ctx, msgs)
	})
}
