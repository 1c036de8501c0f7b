package domain

import (
	"context"

	sharedDomain "github.com/felixgeelhaar/lumina/internal/shared/domain"
	"github.com/google/uuid"
)

// Repository defines album persistence. FindByID returns
// sharedDomain.ErrNotFound when the album does not exist.
type Repository interface {
	sharedDomain.Repository[*Album]

	// ListByOwner returns the owner's albums, newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Album, error)
}
