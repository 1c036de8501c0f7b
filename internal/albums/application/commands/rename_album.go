package commands

import (
	"context"

	albumApp "github.com/felixgeelhaar/lumina/internal/albums/application"
	"github.com/felixgeelhaar/lumina/internal/albums/domain"
	sharedApplication "github.com/felixgeelhaar/lumina/internal/shared/application"
	"github.com/google/uuid"
)

// RenameAlbumCommand gives an album a new name.
type RenameAlbumCommand struct {
	sharedApplication.CommandBase
	AlbumID uuid.UUID
	OwnerID uuid.UUID
	Name    string
}

func (RenameAlbumCommand) RequestName() string { return "albums.rename_album" }

// RenameAlbumHandler handles RenameAlbumCommand.
type RenameAlbumHandler struct {
	albums   domain.Repository
	recorder *albumApp.Recorder
}

// NewRenameAlbumHandler creates a new RenameAlbumHandler.
func NewRenameAlbumHandler(albums domain.Repository, recorder *albumApp.Recorder) *RenameAlbumHandler {
	return &RenameAlbumHandler{albums: albums, recorder: recorder}
}

// Handle executes the RenameAlbumCommand.
func (h *RenameAlbumHandler) Handle(ctx context.Context, cmd RenameAlbumCommand) (sharedApplication.Result, error) {
	album, err := albumApp.LoadOwned(ctx, h.albums, cmd.AlbumID, cmd.OwnerID)
	if err != nil {
		return albumApp.RejectResult(err)
	}
	if err := album.Rename(cmd.Name); err != nil {
		return albumApp.RejectResult(err)
	}

	if err := h.albums.Save(ctx, album); err != nil {
		return sharedApplication.Result{}, err
	}
	if err := h.recorder.Record(ctx, album, cmd.OwnerID); err != nil {
		return sharedApplication.Result{}, err
	}
	return sharedApplication.Ok(), nil
}
