package queries

import (
	"context"
	"log/slog"

	albumApp "github.com/felixgeelhaar/lumina/internal/albums/application"
	"github.com/felixgeelhaar/lumina/internal/albums/domain"
	sharedApplication "github.com/felixgeelhaar/lumina/internal/shared/application"
	"github.com/google/uuid"
)

// ListAlbumsQuery lists the albums of one owner.
type ListAlbumsQuery struct {
	sharedApplication.QueryBase
	OwnerID uuid.UUID
}

func (ListAlbumsQuery) RequestName() string { return "albums.list_albums" }

// ListAlbumsHandler handles ListAlbumsQuery.
type ListAlbumsHandler struct {
	albums domain.Repository
	cache  albumApp.Cache
	logger *slog.Logger
}

// NewListAlbumsHandler creates a new ListAlbumsHandler. A nil cache disables caching.
func NewListAlbumsHandler(albums domain.Repository, cache albumApp.Cache, logger *slog.Logger) *ListAlbumsHandler {
	if cache == nil {
		cache = albumApp.NopCache{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ListAlbumsHandler{albums: albums, cache: cache, logger: logger}
}

// Handle executes the ListAlbumsQuery.
func (h *ListAlbumsHandler) Handle(ctx context.Context, query ListAlbumsQuery) (sharedApplication.Outcome[[]albumApp.AlbumSummaryDTO], error) {
	list, ok, err := h.cache.GetList(ctx, query.OwnerID)
	if err != nil {
		h.logger.WarnContext(ctx, "album list cache read failed", "owner_id", query.OwnerID, "error", err)
	}
	if ok {
		return sharedApplication.Success(list), nil
	}

	albums, err := h.albums.ListByOwner(ctx, query.OwnerID)
	if err != nil {
		return sharedApplication.Outcome[[]albumApp.AlbumSummaryDTO]{}, err
	}

	list = albumApp.ToSummaries(albums)
	if err := h.cache.SetList(ctx, query.OwnerID, list); err != nil {
		h.logger.WarnContext(ctx, "album list cache write failed", "owner_id", query.OwnerID, "error", err)
	}
	return sharedApplication.Success(list), nil
}
