// Package application contains the album use cases shared by the command and
// query handlers.
package application

import (
	"time"

	"github.com/felixgeelhaar/lumina/internal/albums/domain"
	"github.com/google/uuid"
)

// AlbumDTO is the full view of an album.
type AlbumDTO struct {
	ID          uuid.UUID  `json:"id"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Photos      []PhotoDTO `json:"photos"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// PhotoDTO is the view of a photo.
type PhotoDTO struct {
	ID       uuid.UUID `json:"id"`
	AlbumID  uuid.UUID `json:"album_id"`
	Title    string    `json:"title"`
	FileName string    `json:"file_name"`
	Position int       `json:"position"`
	AddedAt  time.Time `json:"added_at"`
}

// AlbumSummaryDTO is the list view of an album.
type AlbumSummaryDTO struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	PhotoCount int       `json:"photo_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToAlbumDTO converts an album to its DTO.
func ToAlbumDTO(a *domain.Album) AlbumDTO {
	photos := make([]PhotoDTO, 0, len(a.Photos()))
	for _, p := range a.Photos() {
		photos = append(photos, ToPhotoDTO(p))
	}
	return AlbumDTO{
		ID:          a.ID(),
		OwnerID:     a.OwnerID(),
		Name:        a.Name(),
		Description: a.Description(),
		Photos:      photos,
		CreatedAt:   a.CreatedAt(),
		UpdatedAt:   a.UpdatedAt(),
	}
}

// ToPhotoDTO converts a photo to its DTO.
func ToPhotoDTO(p *domain.Photo) PhotoDTO {
	return PhotoDTO{
		ID:       p.ID(),
		AlbumID:  p.AlbumID(),
		Title:    p.Title(),
		FileName: p.FileName(),
		Position: p.Position(),
		AddedAt:  p.AddedAt(),
	}
}

// ToSummaries converts albums to list entries.
func ToSummaries(albums []*domain.Album) []AlbumSummaryDTO {
	out := make([]AlbumSummaryDTO, 0, len(albums))
	for _, a := range albums {
		out = append(out, AlbumSummaryDTO{
			ID:         a.ID(),
			Name:       a.Name(),
			PhotoCount: len(a.Photos()),
			CreatedAt:  a.CreatedAt(),
		})
	}
	return out
}
