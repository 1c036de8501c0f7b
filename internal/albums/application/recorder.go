package application

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/lumina/internal/albums/domain"
	sharedApplication "github.com/felixgeelhaar/lumina/internal/shared/application"
	"github.com/felixgeelhaar/lumina/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// Recorder hands the side effects of an album change to the persistence
// scope: its events go to the outbox and its cache entries are dropped once
// the scope commits.
type Recorder struct {
	outbox outbox.Repository
	cache  Cache
	logger *slog.Logger
}

// NewRecorder creates a Recorder. A nil cache disables invalidation.
func NewRecorder(outboxRepo outbox.Repository, cache Cache, logger *slog.Logger) *Recorder {
	if cache == nil {
		cache = NopCache{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{outbox: outboxRepo, cache: cache, logger: logger}
}

// Record enlists the album's pending events and registers its cache
// invalidation as a commit hook.
func (r *Recorder) Record(ctx context.Context, album *domain.Album, userID uuid.UUID) error {
	events := album.PullDomainEvents()
	sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(ctx, userID))

	if err := outbox.Enqueue(ctx, r.outbox, events); err != nil {
		return err
	}

	albumID, ownerID := album.ID(), album.OwnerID()
	sharedApplication.AfterCommit(ctx, func(ctx context.Context) {
		if err := r.cache.Invalidate(ctx, albumID, ownerID); err != nil {
			r.logger.WarnContext(ctx, "album cache invalidation failed",
				"album_id", albumID,
				"error", err,
			)
		}
	})
	return nil
}
