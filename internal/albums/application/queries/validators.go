package queries

import (
	"context"

	sharedApplication "github.com/felixgeelhaar/lumina/internal/shared/application"
	"github.com/google/uuid"
)

// ValidateGetAlbum checks GetAlbumQuery.
func ValidateGetAlbum(_ context.Context, query GetAlbumQuery) ([]sharedApplication.ValidationFailure, error) {
	var v sharedApplication.Violations
	v.Check(query.AlbumID != uuid.Nil, "AlbumID", "Album is required")
	v.Check(query.OwnerID != uuid.Nil, "OwnerID", "Owner is required")
	return v.List(), nil
}

// ValidateListAlbums checks ListAlbumsQuery.
func ValidateListAlbums(_ context.Context, query ListAlbumsQuery) ([]sharedApplication.ValidationFailure, error) {
	var v sharedApplication.Violations
	v.Check(query.OwnerID != uuid.Nil, "OwnerID", "Owner is required")
	return v.List(), nil
}
