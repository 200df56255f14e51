package shortener_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/serroba/counter-shortener/internal/shortener"
)

var errMock = errors.New("mock error")

// spyStore wraps a durable store and counts calls.
type spyStore struct {
	shortener.DurableStore

	increments atomic.Int64
	inserts    atomic.Int64
	gets       atomic.Int64
}

func (s *spyStore) Increment(ctx context.Context, name string, delta int64) (int64, error) {
	s.increments.Add(1)

	return s.DurableStore.Increment(ctx, name, delta)
}

func (s *spyStore) Insert(ctx context.Context, shortURL *shortener.ShortURL) error {
	s.inserts.Add(1)

	return s.DurableStore.Insert(ctx, shortURL)
}

func (s *spyStore) GetByCode(ctx context.Context, code shortener.Code) (*shortener.ShortURL, error) {
	s.gets.Add(1)

	return s.DurableStore.GetByCode(ctx, code)
}

// mockStore is a test double that can be configured to return errors.
type mockStore struct {
	incrementErr    error
	incrementResult int64
	insertErr       error
	getErr          error
	blockUntilDone  bool
}

func (m *mockStore) Increment(ctx context.Context, _ string, _ int64) (int64, error) {
	if m.blockUntilDone {
		<-ctx.Done()

		return 0, ctx.Err()
	}

	if m.incrementErr != nil {
		return 0, m.incrementErr
	}

	return m.incrementResult, nil
}

func (m *mockStore) Insert(_ context.Context, _ *shortener.ShortURL) error {
	return m.insertErr
}

func (m *mockStore) GetByCode(ctx context.Context, code shortener.Code) (*shortener.ShortURL, error) {
	if m.blockUntilDone {
		<-ctx.Done()

		return nil, ctx.Err()
	}

	if m.getErr != nil {
		return nil, m.getErr
	}

	return &shortener.ShortURL{Code: code, OriginalURL: "https://example.com"}, nil
}

// spyCache is an in-memory cache that counts calls and can fail on demand.
type spyCache struct {
	mu      sync.Mutex
	urls    map[shortener.Code]string
	getErr  error
	setErr  error
	block   bool
	getHits int
	gets    int
	sets    int
}

func newSpyCache() *spyCache {
	return &spyCache{urls: make(map[shortener.Code]string)}
}

func (c *spyCache) Get(ctx context.Context, code shortener.Code) (string, error) {
	c.mu.Lock()
	c.gets++
	c.mu.Unlock()

	if c.block {
		<-ctx.Done()

		return "", ctx.Err()
	}

	if c.getErr != nil {
		return "", c.getErr
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	url, ok := c.urls[code]
	if !ok {
		return "", shortener.ErrCacheMiss
	}

	c.getHits++

	return url, nil
}

func (c *spyCache) Set(ctx context.Context, code shortener.Code, originalURL string) error {
	c.mu.Lock()
	c.sets++
	c.mu.Unlock()

	if c.block {
		<-ctx.Done()

		return ctx.Err()
	}

	if c.setErr != nil {
		return c.setErr
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.urls[code] = originalURL

	return nil
}

// countingMetrics records observed outcomes.
type countingMetrics struct {
	mu          sync.Mutex
	creates     map[string]int
	resolves    map[string]int
	cacheErrors map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{
		creates:     make(map[string]int),
		resolves:    make(map[string]int),
		cacheErrors: make(map[string]int),
	}
}

func (m *countingMetrics) ObserveCreate(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.creates[outcome]++
}

func (m *countingMetrics) ObserveResolve(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.resolves[outcome]++
}

func (m *countingMetrics) ObserveCacheError(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cacheErrors[op]++
}
