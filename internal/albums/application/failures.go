package application

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/lumina/internal/albums/domain"
	sharedApplication "github.com/felixgeelhaar/lumina/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/lumina/internal/shared/domain"
	"github.com/google/uuid"
)

// Business failure messages returned to callers.
const (
	MsgAlbumNotFound = "Album not found"
	MsgPhotoNotFound = "Photo not found"
	MsgNotOwner      = "Unauthorized: album belongs to another user"
)

// ErrAccessDenied is returned by LoadOwned when the album belongs to someone else.
var ErrAccessDenied = errors.New("album belongs to another user")

// LoadOwned loads an album and checks that userID owns it. Missing albums
// yield sharedDomain.ErrNotFound.
func LoadOwned(ctx context.Context, repo domain.Repository, albumID, userID uuid.UUID) (*domain.Album, error) {
	album, err := repo.FindByID(ctx, albumID)
	if err != nil {
		return nil, err
	}
	if !album.IsOwnedBy(userID) {
		return nil, ErrAccessDenied
	}
	return album, nil
}

// Rejection turns a business error into a failure kind and message. ok is
// false for errors that are infrastructure faults and must be returned as is.
func Rejection(err error) (kind sharedApplication.FailureKind, message string, ok bool) {
	switch {
	case errors.Is(err, sharedDomain.ErrNotFound):
		return sharedApplication.FailureNotFound, MsgAlbumNotFound, true
	case errors.Is(err, domain.ErrPhotoNotFound):
		return sharedApplication.FailureNotFound, MsgPhotoNotFound, true
	case errors.Is(err, ErrAccessDenied):
		return sharedApplication.FailureUnauthorized, MsgNotOwner, true
	case errors.Is(err, domain.ErrEmptyName),
		errors.Is(err, domain.ErrNameTooLong),
		errors.Is(err, domain.ErrDescriptionTooLong),
		errors.Is(err, domain.ErrEmptyTitle),
		errors.Is(err, domain.ErrTitleTooLong),
		errors.Is(err, domain.ErrEmptyFileName),
		errors.Is(err, domain.ErrAlbumAlreadyDeleted):
		return sharedApplication.FailureGeneric, err.Error(), true
	default:
		return sharedApplication.FailureGeneric, "", false
	}
}

// Reject converts err into a failed outcome, or returns it as an error when it
// is not a business failure.
func Reject[T any](err error) (sharedApplication.Outcome[T], error) {
	kind, msg, ok := Rejection(err)
	if !ok {
		return sharedApplication.Outcome[T]{}, err
	}
	return sharedApplication.FailureOf[T](kind, msg), nil
}

// RejectResult is Reject for requests without a value.
func RejectResult(err error) (sharedApplication.Result, error) {
	kind, msg, ok := Rejection(err)
	if !ok {
		return sharedApplication.Result{}, err
	}
	return sharedApplication.FailWith(kind, msg), nil
}
