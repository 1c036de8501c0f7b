// Package albums registers the album commands and queries with the pipeline.
package albums

import (
	"log/slog"

	albumApp "github.com/felixgeelhaar/lumina/internal/albums/application"
	"github.com/felixgeelhaar/lumina/internal/albums/application/commands"
	"github.com/felixgeelhaar/lumina/internal/albums/application/queries"
	"github.com/felixgeelhaar/lumina/internal/albums/domain"
	sharedApplication "github.com/felixgeelhaar/lumina/internal/shared/application"
	"github.com/felixgeelhaar/lumina/internal/shared/application/pipeline"
	"github.com/felixgeelhaar/lumina/internal/shared/infrastructure/outbox"
)

// Dependencies are the collaborators of the album handlers.
type Dependencies struct {
	Albums domain.Repository
	Outbox outbox.Repository
	Cache  albumApp.Cache // optional
	Logger *slog.Logger
}

// Requests lists one value of every album request type.
func Requests() []sharedApplication.Request {
	return []sharedApplication.Request{
		commands.CreateAlbumCommand{},
		commands.RenameAlbumCommand{},
		commands.DeleteAlbumCommand{},
		commands.AddPhotoCommand{},
		commands.RemovePhotoCommand{},
		queries.GetAlbumQuery{},
		queries.ListAlbumsQuery{},
	}
}

// Register adds the album handlers and validators to reg and declares them
// as expected, so a missing registration fails at startup.
func Register(reg *pipeline.Registry, deps Dependencies) {
	recorder := albumApp.NewRecorder(deps.Outbox, deps.Cache, deps.Logger)

	pipeline.RegisterCommand[commands.CreateAlbumCommand, albumApp.AlbumDTO](reg, commands.NewCreateAlbumHandler(deps.Albums, recorder))
	pipeline.AddValidatorFunc(reg, commands.ValidateCreateAlbum)

	pipeline.RegisterVoidCommand[commands.RenameAlbumCommand](reg, commands.NewRenameAlbumHandler(deps.Albums, recorder))
	pipeline.AddValidatorFunc(reg, commands.ValidateRenameAlbum)

	pipeline.RegisterVoidCommand[commands.DeleteAlbumCommand](reg, commands.NewDeleteAlbumHandler(deps.Albums, recorder))
	pipeline.AddValidatorFunc(reg, commands.ValidateDeleteAlbum)

	pipeline.RegisterCommand[commands.AddPhotoCommand, albumApp.PhotoDTO](reg, commands.NewAddPhotoHandler(deps.Albums, recorder))
	pipeline.AddValidatorFunc(reg, commands.ValidateAddPhoto)
	pipeline.AddValidatorFunc(reg, commands.ValidatePhotoFile)

	pipeline.RegisterVoidCommand[commands.RemovePhotoCommand](reg, commands.NewRemovePhotoHandler(deps.Albums, recorder))
	pipeline.AddValidatorFunc(reg, commands.ValidateRemovePhoto)

	pipeline.RegisterQuery[queries.GetAlbumQuery, albumApp.AlbumDTO](reg, queries.NewGetAlbumHandler(deps.Albums, deps.Cache, deps.Logger))
	pipeline.AddValidatorFunc(reg, queries.ValidateGetAlbum)

	pipeline.RegisterQuery[queries.ListAlbumsQuery, []albumApp.AlbumSummaryDTO](reg, queries.NewListAlbumsHandler(deps.Albums, deps.Cache, deps.Logger))
	pipeline.AddValidatorFunc(reg, queries.ValidateListAlbums)

	reg.Expect(Requests()...)
}
