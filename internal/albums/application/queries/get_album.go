package queries

import (
	"context"
	"log/slog"

	albumApp "github.com/felixgeelhaar/lumina/internal/albums/application"
	"github.com/felixgeelhaar/lumina/internal/albums/domain"
	sharedApplication "github.com/felixgeelhaar/lumina/internal/shared/application"
	"github.com/google/uuid"
)

// GetAlbumQuery loads one album with its photos.
type GetAlbumQuery struct {
	sharedApplication.QueryBase
	AlbumID uuid.UUID
	OwnerID uuid.UUID // For authorization check
}

func (GetAlbumQuery) RequestName() string { return "albums.get_album" }

// GetAlbumHandler handles GetAlbumQuery.
type GetAlbumHandler struct {
	albums domain.Repository
	cache  albumApp.Cache
	logger *slog.Logger
}

// NewGetAlbumHandler creates a new GetAlbumHandler. A nil cache disables caching.
func NewGetAlbumHandler(albums domain.Repository, cache albumApp.Cache, logger *slog.Logger) *GetAlbumHandler {
	if cache == nil {
		cache = albumApp.NopCache{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GetAlbumHandler{albums: albums, cache: cache, logger: logger}
}

// Handle executes the GetAlbumQuery.
func (h *GetAlbumHandler) Handle(ctx context.Context, query GetAlbumQuery) (sharedApplication.Outcome[albumApp.AlbumDTO], error) {
	dto, ok, err := h.cache.GetAlbum(ctx, query.AlbumID)
	if err != nil {
		h.logger.WarnContext(ctx, "album cache read failed", "album_id", query.AlbumID, "error", err)
	}
	if ok {
		if dto.OwnerID != query.OwnerID {
			return sharedApplication.FailureOf[albumApp.AlbumDTO](sharedApplication.FailureUnauthorized, albumApp.MsgNotOwner), nil
		}
		return sharedApplication.Success(dto), nil
	}

	album, err := albumApp.LoadOwned(ctx, h.albums, query.AlbumID, query.OwnerID)
	if err != nil {
		return albumApp.Reject[albumApp.AlbumDTO](err)
	}

	dto = albumApp.ToAlbumDTO(album)
	if err := h.cache.SetAlbum(ctx, dto); err != nil {
		h.logger.WarnContext(ctx, "album cache write failed", "album_id", query.AlbumID, "error", err)
	}
	return sharedApplication.Success(dto), nil
}
