package store

import (
	"context"
	"sync"

	"github.com/serroba/counter-shortener/internal/shortener"
)

// MemoryStore is an in-memory implementation of shortener.DurableStore.
type MemoryStore struct {
	mu       sync.RWMutex
	urls     map[shortener.Code]shortener.ShortURL
	counters map[string]int64
}

// NewMemoryStore creates a new in-memory URL store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		urls:     make(map[shortener.Code]shortener.ShortURL),
		counters: make(map[string]int64),
	}
}

func (m *MemoryStore) Insert(ctx context.Context, shortURL *shortener.ShortURL) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.urls[shortURL.Code]; ok {
		return shortener.ErrStoreConflict
	}

	m.urls[shortURL.Code] = *shortURL

	return nil
}

func (m *MemoryStore) GetByCode(ctx context.Context, code shortener.Code) (*shortener.ShortURL, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	url, ok := m.urls[code]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	return &url, nil
}

func (m *MemoryStore) Increment(ctx context.Context, name string, delta int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.counters[name] += delta

	return m.counters[name], nil
}

// Ping always succeeds.
func (m *MemoryStore) Ping(_ context.Context) error {
	return nil
}

// MemoryCache is an in-memory implementation of shortener.Cache.
type MemoryCache struct {
	mu   sync.RWMutex
	urls map[shortener.Code]string
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{urls: make(map[shortener.Code]string)}
}

func (c *MemoryCache) Get(_ context.Context, code shortener.Code) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	url, ok := c.urls[code]
	if !ok {
		return "", shortener.ErrCacheMiss
	}

	return url, nil
}

func (c *MemoryCache) Set(_ context.Context, code shortener.Code, originalURL string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.urls[code] = originalURL

	return nil
}

// Ping always succeeds.
func (c *MemoryCache) Ping(_ context.Context) error {
	return nil
}

var (
	_ shortener.DurableStore = (*MemoryStore)(nil)
	_ shortener.Cache        = (*MemoryCache)(nil)
)
