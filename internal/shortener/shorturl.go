package shortener

import (
	"errors"
	"time"
)

// CounterGlobal names the counter every short code is allocated from.
const CounterGlobal = "global"

var (
	// ErrValidation is returned for bad caller input such as an empty URL or code.
	ErrValidation = errors.New("invalid input")
	// ErrNotFound is returned when a code does not exist in the durable store.
	ErrNotFound = errors.New("url not found")
	// ErrStoreConflict is returned when an insert hits an existing code.
	ErrStoreConflict = errors.New("short code already exists")
	// ErrStoreUnavailable wraps transient durable store failures. Safe to retry.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrCacheMiss is returned by caches when a code is not cached.
	ErrCacheMiss = errors.New("cache miss")
)

// Code represents a short URL code.
type Code string

// ShortURL maps a short code to the URL it redirects to.
// It is written once and never modified.
type ShortURL struct {
	Code        Code
	OriginalURL string
	CreatedAt   time.Time
}
