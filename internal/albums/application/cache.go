package application

import (
	"context"

	"github.com/google/uuid"
)

// Cache holds album read models. Implementations report a miss with ok=false;
// an error means the cache could not be consulted and callers fall back to storage.
type Cache interface {
	GetAlbum(ctx context.Context, albumID uuid.UUID) (dto AlbumDTO, ok bool, err error)
	SetAlbum(ctx context.Context, dto AlbumDTO) error
	GetList(ctx context.Context, ownerID uuid.UUID) (list []AlbumSummaryDTO, ok bool, err error)
	SetList(ctx context.Context, ownerID uuid.UUID, list []AlbumSummaryDTO) error
	// Invalidate drops the album and its owner's list.
	Invalidate(ctx context.Context, albumID, ownerID uuid.UUID) error
}

// NopCache never hits.
type NopCache struct{}

func (NopCache) GetAlbum(context.Context, uuid.UUID) (AlbumDTO, bool, error) {
	return AlbumDTO{}, false, nil
}
func (NopCache) SetAlbum(context.Context, AlbumDTO) error { return nil }
func (NopCache) GetList(context.Context, uuid.UUID) ([]AlbumSummaryDTO, bool, error) {
	return nil, false, nil
}
func (NopCache) SetList(context.Context, uuid.UUID, []AlbumSummaryDTO) error { return nil }
func (NopCache) Invalidate(context.Context, uuid.UUID, uuid.UUID) error     { return nil }
