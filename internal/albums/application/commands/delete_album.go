package commands

import (
	"context"

	albumApp "github.com/felixgeelhaar/lumina/internal/albums/application"
	"github.com/felixgeelhaar/lumina/internal/albums/domain"
	sharedApplication "github.com/felixgeelhaar/lumina/internal/shared/application"
	"github.com/google/uuid"
)

// DeleteAlbumCommand deletes an album with its photos.
type DeleteAlbumCommand struct {
	sharedApplication.CommandBase
	AlbumID uuid.UUID
	OwnerID uuid.UUID
}

func (DeleteAlbumCommand) RequestName() string { return "albums.delete_album" }

// DeleteAlbumHandler handles DeleteAlbumCommand.
type DeleteAlbumHandler struct {
	albums   domain.Repository
	recorder *albumApp.Recorder
}

// NewDeleteAlbumHandler creates a new DeleteAlbumHandler.
func NewDeleteAlbumHandler(albums domain.Repository, recorder *albumApp.Recorder) *DeleteAlbumHandler {
	return &DeleteAlbumHandler{albums: albums, recorder: recorder}
}

// Handle executes the DeleteAlbumCommand.
func (h *DeleteAlbumHandler) Handle(ctx context.Context, cmd DeleteAlbumCommand) (sharedApplication.Result, error) {
	album, err := albumApp.LoadOwned(ctx, h.albums, cmd.AlbumID, cmd.OwnerID)
	if err != nil {
		return albumApp.RejectResult(err)
	}
	if err := album.Delete(); err != nil {
		return albumApp.RejectResult(err)
	}

	if err := h.albums.Delete(ctx, album.ID()); err != nil {
		return albumApp.RejectResult(err)
	}
	if err := h.recorder.Record(ctx, album, cmd.OwnerID); err != nil {
		return sharedApplication.Result{}, err
	}
	return sharedApplication.Ok(), nil
}
