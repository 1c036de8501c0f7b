package commands

import (
	"context"

	albumApp "github.com/felixgeelhaar/lumina/internal/albums/application"
	"github.com/felixgeelhaar/lumina/internal/albums/domain"
	sharedApplication "github.com/felixgeelhaar/lumina/internal/shared/application"
	"github.com/google/uuid"
)

// RemovePhotoCommand removes a photo from an album.
type RemovePhotoCommand struct {
	sharedApplication.CommandBase
	AlbumID uuid.UUID
	PhotoID uuid.UUID
	OwnerID uuid.UUID
}

func (RemovePhotoCommand) RequestName() string { return "albums.remove_photo" }

// RemovePhotoHandler handles RemovePhotoCommand.
type RemovePhotoHandler struct {
	albums   domain.Repository
	recorder *albumApp.Recorder
}

// NewRemovePhotoHandler creates a new RemovePhotoHandler.
func NewRemovePhotoHandler(albums domain.Repository, recorder *albumApp.Recorder) *RemovePhotoHandler {
	return &RemovePhotoHandler{albums: albums, recorder: recorder}
}

// Handle executes the RemovePhotoCommand.
func (h *RemovePhotoHandler) Handle(ctx context.Context, cmd RemovePhotoCommand) (sharedApplication.Result, error) {
	album, err := albumApp.LoadOwned(ctx, h.albums, cmd.AlbumID, cmd.OwnerID)
	if err != nil {
		return albumApp.RejectResult(err)
	}
	if err := album.RemovePhoto(cmd.PhotoID); err != nil {
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
