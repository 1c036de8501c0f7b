package commands

import (
	"context"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/felixgeelhaar/lumina/internal/albums/domain"
	sharedApplication "github.com/felixgeelhaar/lumina/internal/shared/application"
	"github.com/google/uuid"
)

// AllowedExtensions lists the accepted photo file types.
var AllowedExtensions = []string{"jpg", "jpeg", "png", "gif", "webp", "heic"}

// ValidateCreateAlbum checks CreateAlbumCommand.
func ValidateCreateAlbum(_ context.Context, cmd CreateAlbumCommand) ([]sharedApplication.ValidationFailure, error) {
	var v sharedApplication.Violations
	checkAlbumName(&v, cmd.Name)
	v.Check(utf8.RuneCountInString(strings.TrimSpace(cmd.Description)) <= domain.MaxDescriptionLength,
		"Description", "Album description must not exceed 2000 characters")
	checkOwner(&v, cmd.OwnerID)
	return v.List(), nil
}

// ValidateRenameAlbum checks RenameAlbumCommand.
func ValidateRenameAlbum(_ context.Context, cmd RenameAlbumCommand) ([]sharedApplication.ValidationFailure, error) {
	var v sharedApplication.Violations
	checkAlbum(&v, cmd.AlbumID)
	checkAlbumName(&v, cmd.Name)
	checkOwner(&v, cmd.OwnerID)
	return v.List(), nil
}

// ValidateDeleteAlbum checks DeleteAlbumCommand.
func ValidateDeleteAlbum(_ context.Context, cmd DeleteAlbumCommand) ([]sharedApplication.ValidationFailure, error) {
	var v sharedApplication.Violations
	checkAlbum(&v, cmd.AlbumID)
	checkOwner(&v, cmd.OwnerID)
	return v.List(), nil
}

// ValidateAddPhoto checks the album, owner and title of AddPhotoCommand.
// The file name is checked by ValidatePhotoFile.
func ValidateAddPhoto(_ context.Context, cmd AddPhotoCommand) ([]sharedApplication.ValidationFailure, error) {
	var v sharedApplication.Violations
	checkAlbum(&v, cmd.AlbumID)
	title := strings.TrimSpace(cmd.Title)
	if v.Check(title != "", "Title", "Photo title is required") {
		v.Check(utf8.RuneCountInString(title) <= domain.MaxTitleLength,
			"Title", "Photo title must not exceed 200 characters")
	}
	checkOwner(&v, cmd.OwnerID)
	return v.List(), nil
}

// ValidatePhotoFile checks the file name of AddPhotoCommand.
func ValidatePhotoFile(_ context.Context, cmd AddPhotoCommand) ([]sharedApplication.ValidationFailure, error) {
	var v sharedApplication.Violations
	name := strings.TrimSpace(cmd.FileName)
	if v.Check(name != "", "FileName", "File name is required") {
		v.Check(allowedExtension(name), "FileName",
			"File type must be one of: "+strings.Join(AllowedExtensions, ", "))
	}
	return v.List(), nil
}

// ValidateRemovePhoto checks RemovePhotoCommand.
func ValidateRemovePhoto(_ context.Context, cmd RemovePhotoCommand) ([]sharedApplication.ValidationFailure, error) {
	var v sharedApplication.Violations
	checkAlbum(&v, cmd.AlbumID)
	v.Check(cmd.PhotoID != uuid.Nil, "PhotoID", "Photo is required")
	checkOwner(&v, cmd.OwnerID)
	return v.List(), nil
}

func checkAlbumName(v *sharedApplication.Violations, name string) {
	name = strings.TrimSpace(name)
	if v.Check(name != "", "Name", "Album name is required") {
		v.Check(utf8.RuneCountInString(name) <= domain.MaxNameLength,
			"Name", "Album name must not exceed 200 characters")
	}
}

func checkAlbum(v *sharedApplication.Violations, id uuid.UUID) {
	v.Check(id != uuid.Nil, "AlbumID", "Album is required")
}

func checkOwner(v *sharedApplication.Violations, id uuid.UUID) {
	v.Check(id != uuid.Nil, "OwnerID", "Owner is required")
}

func allowedExtension(name string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
