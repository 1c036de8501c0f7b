package commands

import (
	"context"

	albumApp "github.com/felixgeelhaar/lumina/internal/albums/application"
	"github.com/felixgeelhaar/lumina/internal/albums/domain"
	sharedApplication "github.com/felixgeelhaar/lumina/internal/shared/application"
	"github.com/google/uuid"
)

// CreateAlbumCommand creates an album for its owner.
type CreateAlbumCommand struct {
	sharedApplication.CommandBase
	OwnerID     uuid.UUID
	Name        string
	Description string
}

func (CreateAlbumCommand) RequestName() string { return "albums.create_album" }

// CreateAlbumHandler handles CreateAlbumCommand.
type CreateAlbumHandler struct {
	albums   domain.Repository
	recorder *albumApp.Recorder
}

// NewCreateAlbumHandler creates a new CreateAlbumHandler.
func NewCreateAlbumHandler(albums domain.Repository, recorder *albumApp.Recorder) *CreateAlbumHandler {
	return &CreateAlbumHandler{albums: albums, recorder: recorder}
}

// Handle executes the CreateAlbumCommand.
func (h *CreateAlbumHandler) Handle(ctx context.Context, cmd CreateAlbumCommand) (sharedApplication.Outcome[albumApp.AlbumDTO], error) {
	album, err := domain.NewAlbum(cmd.OwnerID, cmd.Name, cmd.Description)
	if err != nil {
		return albumApp.Reject[albumApp.AlbumDTO](err)
	}

	if err := h.albums.Save(ctx, album); err != nil {
		return sharedApplication.Outcome[albumApp.AlbumDTO]{}, err
	}
	if err := h.recorder.Record(ctx, album, cmd.OwnerID); err != nil {
		return sharedApplication.Outcome[albumApp.AlbumDTO]{}, err
	}

	return sharedApplication.Success(albumApp.ToAlbumDTO(album)), nil
}
