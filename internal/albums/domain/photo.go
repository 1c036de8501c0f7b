package domain

import (
	"time"

	"github.com/google/uuid"
)

// Photo is an image placed in an album.
type Photo struct {
	id       uuid.UUID
	albumID  uuid.UUID
	title    string
	fileName string
	position int
	addedAt  time.Time
}

// RehydratePhoto rebuilds a photo from storage.
func RehydratePhoto(id, albumID uuid.UUID, title, fileName string, position int, addedAt time.Time) *Photo {
	return &Photo{
		id:       id,
		albumID:  albumID,
		title:    title,
		fileName: fileName,
		position: position,
		addedAt:  addedAt,
	}
}

func (p *Photo) ID() uuid.UUID      { return p.id }
func (p *Photo) AlbumID() uuid.UUID { return p.albumID }
func (p *Photo) Title() string      { return p.title }
func (p *Photo) FileName() string   { return p.fileName }
func (p *Photo) Position() int      { return p.position }
func (p *Photo) AddedAt() time.Time { return p.addedAt }
