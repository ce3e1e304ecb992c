package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"bhoomisetu/internal/model"

	"github.com/redis/go-redis/v9"
)

// PlaceCache caches place resolution keyed by the raw input string, so
// repeated queries skip the normalization lookup. A miss returns
// (nil, nil).
type PlaceCache interface {
	Get(ctx context.Context, raw string) (*model.ResolvedPlace, error)
	Set(ctx context.Context, raw string, place *model.ResolvedPlace) error
}

type placeCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPlaceCache creates a Redis-backed place cache
func NewPlaceCache(client *redis.Client) PlaceCache {
	return &placeCache{
		client: client,
		ttl:    7 * 24 * time.Hour, // Place tables are static; long TTL
	}
}

func (c *placeCache) key(raw string) string {
	return fmt.Sprintf("place:%s", strings.ToLower(strings.TrimSpace(raw)))
}

func (c *placeCache) Get(ctx context.Context, raw string) (*model.ResolvedPlace, error) {
	data, err := c.client.Get(ctx, c.key(raw)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var place model.ResolvedPlace
	if err := json.Unmarshal([]byte(data), &place); err != nil {
		return nil, err
	}
	return &place, nil
}

func (c *placeCache) Set(ctx context.Context, raw string, place *model.ResolvedPlace) error {
	data, err := json.Marshal(place)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(raw), data, c.ttl).Err()
}

type memoryPlaceCache struct {
	mu     sync.RWMutex
	places map[string]model.ResolvedPlace
}

// NewMemoryPlaceCache creates an in-process place cache for deployments
// without Redis and for tests.
func NewMemoryPlaceCache() PlaceCache {
	return &memoryPlaceCache{places: make(map[string]model.ResolvedPlace)}
}

func (c *memoryPlaceCache) key(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func (c *memoryPlaceCache) Get(_ context.Context, raw string) (*model.ResolvedPlace, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	place, ok := c.places[c.key(raw)]
	if !ok {
		return nil, nil
	}
	out := place
	return &out, nil
}

func (c *memoryPlaceCache) Set(_ context.Context, raw string, place *model.ResolvedPlace) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.places[c.key(raw)] = *place
	return nil
}
