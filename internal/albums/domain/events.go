package domain

import (
	sharedDomain "github.com/felixgeelhaar/lumina/internal/shared/domain"
	"github.com/google/uuid"
)

const aggregateType = "Album"

// Routing keys of album events.
const (
	RoutingAlbumCreated = "album.created"
	RoutingAlbumRenamed = "album.renamed"
	RoutingAlbumDeleted = "album.deleted"
	RoutingPhotoAdded   = "album.photo_added"
	RoutingPhotoRemoved = "album.photo_removed"
)

// AlbumCreated is emitted when an album is created.
type AlbumCreated struct {
	sharedDomain.BaseEvent
	AlbumID uuid.UUID `json:"album_id"`
	OwnerID uuid.UUID `json:"owner_id"`
	Name    string    `json:"name"`
}

// NewAlbumCreated creates an AlbumCreated event.
func NewAlbumCreated(a *Album) *AlbumCreated {
	return &AlbumCreated{
		BaseEvent: sharedDomain.NewBaseEvent(a.ID(), aggregateType, RoutingAlbumCreated),
		AlbumID:   a.ID(),
		OwnerID:   a.OwnerID(),
		Name:      a.Name(),
	}
}

// AlbumRenamed is emitted when an album gets a new name.
type AlbumRenamed struct {
	sharedDomain.BaseEvent
	AlbumID      uuid.UUID `json:"album_id"`
	OwnerID      uuid.UUID `json:"owner_id"`
	PreviousName string    `json:"previous_name"`
	Name         string    `json:"name"`
}

// NewAlbumRenamed creates an AlbumRenamed event.
func NewAlbumRenamed(a *Album, previous string) *AlbumRenamed {
	return &AlbumRenamed{
		BaseEvent:    sharedDomain.NewBaseEvent(a.ID(), aggregateType, RoutingAlbumRenamed),
		AlbumID:      a.ID(),
		OwnerID:      a.OwnerID(),
		PreviousName: previous,
		Name:         a.Name(),
	}
}

// AlbumDeleted is emitted when an album is deleted with its photos.
type AlbumDeleted struct {
	sharedDomain.BaseEvent
	AlbumID    uuid.UUID `json:"album_id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	PhotoCount int       `json:"photo_count"`
}

// NewAlbumDeleted creates an AlbumDeleted event.
func NewAlbumDeleted(a *Album) *AlbumDeleted {
	return &AlbumDeleted{
		BaseEvent:  sharedDomain.NewBaseEvent(a.ID(), aggregateType, RoutingAlbumDeleted),
		AlbumID:    a.ID(),
		OwnerID:    a.OwnerID(),
		PhotoCount: len(a.photos),
	}
}

// PhotoAdded is emitted when a photo is added to an album.
type PhotoAdded struct {
	sharedDomain.BaseEvent
	AlbumID  uuid.UUID `json:"album_id"`
	PhotoID  uuid.UUID `json:"photo_id"`
	Title    string    `json:"title"`
	FileName string    `json:"file_name"`
	Position int       `json:"position"`
}

// NewPhotoAdded creates a PhotoAdded event.
func NewPhotoAdded(a *Album, p *Photo) *PhotoAdded {
	return &PhotoAdded{
		BaseEvent: sharedDomain.NewBaseEvent(a.ID(), aggregateType, RoutingPhotoAdded),
		AlbumID:   a.ID(),
		PhotoID:   p.ID(),
		Title:     p.Title(),
		FileName:  p.FileName(),
		Position:  p.Position(),
	}
}

// PhotoRemoved is emitted when a photo is removed from an album.
type PhotoRemoved struct {
	sharedDomain.BaseEvent
	AlbumID uuid.UUID `json:"album_id"`
	PhotoID uuid.UUID `json:"photo_id"`
}

// NewPhotoRemoved creates a PhotoRemoved event.
func NewPhotoRemoved(a *Album, p *Photo) *PhotoRemoved {
	return &PhotoRemoved{
		BaseEvent: sharedDomain.NewBaseEvent(a.ID(), aggregateType, RoutingPhotoRemoved),
		AlbumID:   a.ID(),
		PhotoID:   p.ID(),
	}
}
