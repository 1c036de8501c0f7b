// Package cache keeps album read models in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	albumApp "github.com/felixgeelhaar/lumina/internal/albums/application"
	"github.com/felixgeelhaar/lumina/pkg/observability"
)

// DefaultTTL is used when no TTL is configured.
const DefaultTTL = 5 * time.Minute

const keyPrefix = "lumina:albums"

// RedisCache implements albumApp.Cache with Redis strings holding JSON.
// Keys: lumina:albums:album:{id} and lumina:albums:owner:{owner_id}.
type RedisCache struct {
	client  redis.Cmdable
	ttl     time.Duration
	metrics observability.Metrics
}

// NewRedisCache creates a RedisCache. A zero ttl uses DefaultTTL.
func NewRedisCache(client redis.Cmdable, ttl time.Duration, metrics observability.Metrics) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &RedisCache{client: client, ttl: ttl, metrics: metrics}
}

var _ albumApp.Cache = (*RedisCache)(nil)

// AlbumKey returns the key of a cached album.
func AlbumKey(albumID uuid.UUID) string {
	return fmt.Sprintf("%s:album:%s", keyPrefix, albumID)
}

// OwnerKey returns the key of an owner's cached album list.
func OwnerKey(ownerID uuid.UUID) string {
	return fmt.Sprintf("%s:owner:%s", keyPrefix, ownerID)
}

// GetAlbum returns a cached album.
func (c *RedisCache) GetAlbum(ctx context.Context, albumID uuid.UUID) (albumApp.AlbumDTO, bool, error) {
	var dto albumApp.AlbumDTO
	ok, err := c.get(ctx, AlbumKey(albumID), "album", &dto)
	return dto, ok, err
}

// SetAlbum caches an album.
func (c *RedisCache) SetAlbum(ctx context.Context, dto albumApp.AlbumDTO) error {
	return c.set(ctx, AlbumKey(dto.ID), dto)
}

// GetList returns an owner's cached album list.
func (c *RedisCache) GetList(ctx context.Context, ownerID uuid.UUID) ([]albumApp.AlbumSummaryDTO, bool, error) {
	var list []albumApp.AlbumSummaryDTO
	ok, err := c.get(ctx, OwnerKey(ownerID), "album_list", &list)
	return list, ok, err
}

// SetList caches an owner's album list.
func (c *RedisCache) SetList(ctx context.Context, ownerID uuid.UUID, list []albumApp.AlbumSummaryDTO) error {
	return c.set(ctx, OwnerKey(ownerID), list)
}

// Invalidate drops the album and its owner's list.
func (c *RedisCache) Invalidate(ctx context.Context, albumID, ownerID uuid.UUID) error {
	return c.client.Del(ctx, AlbumKey(albumID), OwnerKey(ownerID)).Err()
}

// Ping checks the Redis connection.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) get(ctx context.Context, key, kind string, dest any) (bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		c.metrics.Counter(observability.MetricCacheMisses, 1, observability.T("kind", kind))
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(val, dest); err != nil {
		// A value we cannot decode is treated as a miss and overwritten later.
		c.metrics.Counter(observability.MetricCacheMisses, 1, observability.T("kind", kind))
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	c.metrics.Counter(observability.MetricCacheHits, 1, observability.T("kind", kind))
	return true, nil
}

func (c *RedisCache) set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}
