package commands

import (
	"context"

	albumApp "github.com/felixgeelhaar/lumina/internal/albums/application"
	"github.com/felixgeelhaar/lumina/internal/albums/domain"
	sharedApplication "github.com/felixgeelhaar/lumina/internal/shared/application"
	"github.com/google/uuid"
)

// AddPhotoCommand appends a photo to an album.
type AddPhotoCommand struct {
	sharedApplication.CommandBase
	AlbumID  uuid.UUID
	OwnerID  uuid.UUID
	Title    string
	FileName string
}

func (AddPhotoCommand) RequestName() string { return "albums.add_photo" }

// AddPhotoHandler handles AddPhotoCommand.
type AddPhotoHandler struct {
	albums   domain.Repository
	recorder *albumApp.Recorder
}

// NewAddPhotoHandler creates a new AddPhotoHandler.
func NewAddPhotoHandler(albums domain.Repository, recorder *albumApp.Recorder) *AddPhotoHandler {
	return &AddPhotoHandler{albums: albums, recorder: recorder}
}

// Handle executes the AddPhotoCommand.
func (h *AddPhotoHandler) Handle(ctx context.Context, cmd AddPhotoCommand) (sharedApplication.Outcome[albumApp.PhotoDTO], error) {
	album, err := albumApp.LoadOwned(ctx, h.albums, cmd.AlbumID, cmd.OwnerID)
	if err != nil {
		return albumApp.Reject[albumApp.PhotoDTO](err)
	}
	photo, err := album.AddPhoto(cmd.Title, cmd.FileName)
	if err != nil {
		return albumApp.Reject[albumApp.PhotoDTO](err)
	}

	if err := h.albums.Save(ctx, album); err != nil {
		return sharedApplication.Outcome[albumApp.PhotoDTO]{}, err
	}
	if err := h.recorder.Record(ctx, album, cmd.OwnerID); err != nil {
		return sharedApplication.Outcome[albumApp.PhotoDTO]{}, err
	}
	return sharedApplication.Success(albumApp.ToPhotoDTO(photo)), nil
}
