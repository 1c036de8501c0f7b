package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAlbum(t *testing.T) {
	ownerID := uuid.New()
	album, err := NewAlbum(ownerID, "  Summer 2026 ", "Beach days")

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, album.ID())
	assert.Equal(t, ownerID, album.OwnerID())
	assert.Equal(t, "Summer 2026", album.Name())
	assert.Equal(t, "Beach days", album.Description())
	assert.Empty(t, album.Photos())
	assert.True(t, album.IsOwnedBy(ownerID))
	assert.False(t, album.IsOwnedBy(uuid.New()))
}

func TestNewAlbum_EmitsEvent(t *testing.T) {
	album, err := NewAlbum(uuid.New(), "Summer", "")
	require.NoError(t, err)

	events := album.DomainEvents()
	require.Len(t, events, 1)

	created, ok := events[0].(*AlbumCreated)
	require.True(t, ok)
	assert.Equal(t, album.ID(), created.AlbumID)
	assert.Equal(t, album.ID(), created.AggregateID())
	assert.Equal(t, "Album", created.AggregateType())
	assert.Equal(t, RoutingAlbumCreated, created.RoutingKey())
	assert.Equal(t, "Summer", created.Name)
}

func TestNewAlbum_Invalid(t *testing.T) {
	tests := []struct {
		name        string
		albumName   string
		description string
		want        error
	}{
		{"empty name", "", "", ErrEmptyName},
		{"blank name", " \t\n", "", ErrEmptyName},
		{"long name", strings.Repeat("a", MaxNameLength+1), "", ErrNameTooLong},
		{"long description", "ok", strings.Repeat("d", MaxDescriptionLength+1), ErrDescriptionTooLong},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewAlbum(uuid.New(), tc.albumName, tc.description)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestNewAlbum_NameLengthCountsRunes(t *testing.T) {
	_, err := NewAlbum(uuid.New(), strings.Repeat("é", MaxNameLength), "")
	assert.NoError(t, err)
}

func TestAlbum_Rename(t *testing.T) {
	album, err := NewAlbum(uuid.New(), "Summer", "")
	require.NoError(t, err)
	album.PullDomainEvents()

	require.NoError(t, album.Rename("Summer 2026"))
	assert.Equal(t, "Summer 2026", album.Name())

	events := album.PullDomainEvents()
	require.Len(t, events, 1)
	renamed := events[0].(*AlbumRenamed)
	assert.Equal(t, "Summer", renamed.PreviousName)
	assert.Equal(t, "Summer 2026", renamed.Name)

	t.Run("same name records nothing", func(t *testing.T) {
		require.NoError(t, album.Rename(" Summer 2026 "))
		assert.Empty(t, album.DomainEvents())
	})

	t.Run("empty name is rejected", func(t *testing.T) {
		assert.ErrorIs(t, album.Rename(""), ErrEmptyName)
		assert.Equal(t, "Summer 2026", album.Name())
	})
}

func TestAlbum_AddAndRemovePhotos(t *testing.T) {
	album, err := NewAlbum(uuid.New(), "Trips", "")
	require.NoError(t, err)
	album.PullDomainEvents()

	first, err := album.AddPhoto("Harbor", "harbor.jpg")
	require.NoError(t, err)
	second, err := album.AddPhoto("Lighthouse", "lighthouse.png")
	require.NoError(t, err)

	assert.Equal(t, album.ID(), first.AlbumID())
	assert.Equal(t, 0, first.Position())
	assert.Equal(t, 1, second.Position())
	assert.WithinDuration(t, time.Now(), first.AddedAt(), time.Second)

	got, ok := album.Photo(second.ID())
	require.True(t, ok)
	assert.Equal(t, "Lighthouse", got.Title())

	require.NoError(t, album.RemovePhoto(first.ID()))
	require.Len(t, album.Photos(), 1)

	third, err := album.AddPhoto("Dunes", "dunes.webp")
	require.NoError(t, err)
	assert.Equal(t, 2, third.Position(), "positions are never reused")

	assert.ErrorIs(t, album.RemovePhoto(uuid.New()), ErrPhotoNotFound)

	events := album.PullDomainEvents()
	require.Len(t, events, 4)
	assert.Equal(t, RoutingPhotoAdded, events[0].RoutingKey())
	assert.Equal(t, RoutingPhotoAdded, events[1].RoutingKey())
	assert.Equal(t, RoutingPhotoRemoved, events[2].RoutingKey())
	assert.Equal(t, first.ID(), events[2].(*PhotoRemoved).PhotoID)
}

func TestAlbum_AddPhotoInvalid(t *testing.T) {
	album, err := NewAlbum(uuid.New(), "Trips", "")
	require.NoError(t, err)

	_, err = album.AddPhoto("", "a.jpg")
	assert.ErrorIs(t, err, ErrEmptyTitle)
	_, err = album.AddPhoto(strings.Repeat("t", MaxTitleLength+1), "a.jpg")
	assert.ErrorIs(t, err, ErrTitleTooLong)
	_, err = album.AddPhoto("Title", " ")
	assert.ErrorIs(t, err, ErrEmptyFileName)
	assert.Empty(t, album.Photos())
}

func TestAlbum_PhotosReturnsCopy(t *testing.T) {
	album, err := NewAlbum(uuid.New(), "Trips", "")
	require.NoError(t, err)
	_, err = album.AddPhoto("Harbor", "harbor.jpg")
	require.NoError(t, err)

	photos := album.Photos()
	photos[0] = nil
	assert.NotNil(t, album.Photos()[0])
}

func TestAlbum_Delete(t *testing.T) {
	album, err := NewAlbum(uuid.New(), "Trips", "")
	require.NoError(t, err)
	_, err = album.AddPhoto("Harbor", "harbor.jpg")
	require.NoError(t, err)
	album.PullDomainEvents()

	require.NoError(t, album.Delete())
	assert.True(t, album.IsDeleted())
	assert.ErrorIs(t, album.Delete(), ErrAlbumAlreadyDeleted)

	events := album.PullDomainEvents()
	require.Len(t, events, 1)
	deleted := events[0].(*AlbumDeleted)
	assert.Equal(t, 1, deleted.PhotoCount)
}

func TestRehydrateAlbum(t *testing.T) {
	id, ownerID := uuid.New(), uuid.New()
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	updated := created.Add(time.Hour)
	photo := RehydratePhoto(uuid.New(), id, "Harbor", "harbor.jpg", 4, created)

	album := RehydrateAlbum(id, ownerID, "Trips", "desc", created, updated, []*Photo{photo})

	assert.Equal(t, id, album.ID())
	assert.Equal(t, created, album.CreatedAt())
	assert.Equal(t, updated, album.UpdatedAt())
	assert.Empty(t, album.DomainEvents())

	next, err := album.AddPhoto("Dunes", "dunes.jpg")
	require.NoError(t, err)
	assert.Equal(t, 5, next.Position())
}
