package commands

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	albumApp "github.com/felixgeelhaar/lumina/internal/albums/application"
	"github.com/felixgeelhaar/lumina/internal/albums/domain"
	"github.com/felixgeelhaar/lumina/internal/shared/infrastructure/outbox"
)

// mockAlbumRepo is a mock implementation of domain.Repository.
type mockAlbumRepo struct {
	mock.Mock
}

func (m *mockAlbumRepo) Save(ctx context.Context, album *domain.Album) error {
	args := m.Called(ctx, album)
	return args.Error(0)
}

func (m *mockAlbumRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Album, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Album), args.Error(1)
}

func (m *mockAlbumRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockAlbumRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Album, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Album), args.Error(1)
}

// memoryOutbox records saved messages.
type memoryOutbox struct {
	mu       sync.Mutex
	messages []*outbox.Message
}

func (o *memoryOutbox) Save(_ context.Context, msg *outbox.Message) error {
	return o.SaveBatch(context.Background(), []*outbox.Message{msg})
}

func (o *memoryOutbox) SaveBatch(_ context.Context, msgs []*outbox.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.messages = append(o.messages, msgs...)
	return nil
}

func (o *memoryOutbox) GetUnpublished(context.Context, int) ([]*outbox.Message, error) {
	return nil, nil
}
func (o *memoryOutbox) MarkPublished(context.Context, int64) error { return nil }
func (o *memoryOutbox) MarkFailed(context.Context, int64, string, time.Time) error {
	return nil
}
func (o *memoryOutbox) MarkDead(context.Context, int64, string) error       { return nil }
func (o *memoryOutbox) DeleteOld(context.Context, time.Time) (int64, error) { return 0, nil }

func (o *memoryOutbox) routingKeys() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	keys := make([]string, 0, len(o.messages))
	for _, m := range o.messages {
		keys = append(keys, m.RoutingKey)
	}
	return keys
}

// invalidations records cache invalidations; the reads always miss.
type invalidations struct {
	albumApp.NopCache
	mu     sync.Mutex
	albums []uuid.UUID
}

func (c *invalidations) Invalidate(_ context.Context, albumID, _ uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.albums = append(c.albums, albumID)
	return nil
}

type fixture struct {
	repo     *mockAlbumRepo
	outbox   *memoryOutbox
	cache    *invalidations
	recorder *albumApp.Recorder
}

func newFixture() *fixture {
	f := &fixture{
		repo:   new(mockAlbumRepo),
		outbox: &memoryOutbox{},
		cache:  &invalidations{},
	}
	f.recorder = albumApp.NewRecorder(f.outbox, f.cache, nil)
	return f
}

// storedAlbum returns a persisted-looking album without pending events.
func storedAlbum(ownerID uuid.UUID, photos ...string) *domain.Album {
	album, err := domain.NewAlbum(ownerID, "Summer", "")
	if err != nil {
		panic(err)
	}
	for _, title := range photos {
		if _, err := album.AddPhoto(title, title+".jpg"); err != nil {
			panic(err)
		}
	}
	album.PullDomainEvents()
	return album
}
