// Package domain holds the album aggregate and its photos.
package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	sharedDomain "github.com/felixgeelhaar/lumina/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	MaxNameLength        = 200
	MaxDescriptionLength = 2000
	MaxTitleLength       = 200
)

var (
	ErrEmptyName           = errors.New("album name cannot be empty")
	ErrNameTooLong         = errors.New("album name is too long")
	ErrDescriptionTooLong  = errors.New("album description is too long")
	ErrEmptyTitle          = errors.New("photo title cannot be empty")
	ErrTitleTooLong        = errors.New("photo title is too long")
	ErrEmptyFileName       = errors.New("photo file name cannot be empty")
	ErrPhotoNotFound       = errors.New("photo not found")
	ErrAlbumAlreadyDeleted = errors.New("album already deleted")
)

// Album is a named, ordered collection of photos owned by one user.
type Album struct {
	sharedDomain.BaseAggregateRoot
	ownerID     uuid.UUID
	name        string
	description string
	photos      []*Photo
	deleted     bool
}

// NewAlbum creates an album and records AlbumCreated.
func NewAlbum(ownerID uuid.UUID, name, description string) (*Album, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}
	description = strings.TrimSpace(description)
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return nil, ErrDescriptionTooLong
	}

	album := &Album{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		ownerID:           ownerID,
		name:              name,
		description:       description,
	}
	album.AddDomainEvent(NewAlbumCreated(album))
	return album, nil
}

// RehydrateAlbum rebuilds an album from storage without recording events.
func RehydrateAlbum(id, ownerID uuid.UUID, name, description string, createdAt, updatedAt time.Time, photos []*Photo) *Album {
	return &Album{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(
			sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		),
		ownerID:     ownerID,
		name:        name,
		description: description,
		photos:      photos,
	}
}

func (a *Album) OwnerID() uuid.UUID  { return a.ownerID }
func (a *Album) Name() string        { return a.name }
func (a *Album) Description() string { return a.description }
func (a *Album) IsDeleted() bool     { return a.deleted }

// Photos returns the photos in album order.
func (a *Album) Photos() []*Photo {
	return append([]*Photo(nil), a.photos...)
}

// IsOwnedBy reports whether userID owns the album.
func (a *Album) IsOwnedBy(userID uuid.UUID) bool {
	return a.ownerID == userID
}

// Photo returns the photo with the given ID.
func (a *Album) Photo(id uuid.UUID) (*Photo, bool) {
	for _, p := range a.photos {
		if p.ID() == id {
			return p, true
		}
	}
	return nil, false
}

// Rename changes the album name. Renaming to the current name is a no-op.
func (a *Album) Rename(name string) error {
	name, err := normalizeName(name)
	if err != nil {
		return err
	}
	if name == a.name {
		return nil
	}
	previous := a.name
	a.name = name
	a.AddDomainEvent(NewAlbumRenamed(a, previous))
	return nil
}

// AddPhoto appends a photo to the end of the album.
func (a *Album) AddPhoto(title, fileName string) (*Photo, error) {
	title = strings.TrimSpace(title)
	switch {
	case title == "":
		return nil, ErrEmptyTitle
	case utf8.RuneCountInString(title) > MaxTitleLength:
		return nil, ErrTitleTooLong
	}
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return nil, ErrEmptyFileName
	}

	photo := &Photo{
		id:       uuid.New(),
		albumID:  a.ID(),
		title:    title,
		fileName: fileName,
		position: a.nextPosition(),
		addedAt:  time.Now().UTC(),
	}
	a.photos = append(a.photos, photo)
	a.AddDomainEvent(NewPhotoAdded(a, photo))
	return photo, nil
}

// RemovePhoto removes a photo. Positions of the remaining photos are kept.
func (a *Album) RemovePhoto(photoID uuid.UUID) error {
	for i, p := range a.photos {
		if p.ID() != photoID {
			continue
		}
		a.photos = append(a.photos[:i:i], a.photos[i+1:]...)
		a.AddDomainEvent(NewPhotoRemoved(a, p))
		return nil
	}
	return ErrPhotoNotFound
}

// Delete marks the album as deleted and records AlbumDeleted.
func (a *Album) Delete() error {
	if a.deleted {
		return ErrAlbumAlreadyDeleted
	}
	a.deleted = true
	a.AddDomainEvent(NewAlbumDeleted(a))
	return nil
}

func (a *Album) nextPosition() int {
	next := 0
	for _, p := range a.photos {
		if p.position >= next {
			next = p.position + 1
		}
	}
	return next
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", ErrNameTooLong
	}
	return name, nil
}
