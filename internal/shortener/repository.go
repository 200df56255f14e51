package shortener

import "context"

// Repository persists short URLs.
type Repository interface {
	// Insert stores a new short URL. It never overwrites: an existing code
	// yields ErrStoreConflict.
	Insert(ctx context.Context, shortURL *ShortURL) error

	// GetByCode returns the short URL for code, or ErrNotFound.
	GetByCode(ctx context.Context, code Code) (*ShortURL, error)
}

// Counter is a named, linearizable counter held by the durable store.
type Counter interface {
	// Increment adds delta to the named counter and returns the new value.
	// A missing counter starts at 0. The read and the write are one atomic step.
	Increment(ctx context.Context, name string, delta int64) (int64, error)
}

// DurableStore is the source of truth for mappings and allocation state.
type DurableStore interface {
	Repository
	Counter
}

// Cache is a best-effort accelerator in front of the durable store.
type Cache interface {
	// Get returns the cached URL for code, or ErrCacheMiss.
	Get(ctx context.Context, code Code) (string, error)
	Set(ctx context.Context, code Code, originalURL string) error
}

// NoopCache never holds anything. Used when caching is disabled.
type NoopCache struct{}

func (NoopCache) Get(_ context.Context, _ Code) (string, error) { return "", ErrCacheMiss }

func (NoopCache) Set(_ context.Context, _ Code, _ string) error { return nil }
