package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/serroba/counter-shortener/internal/shortener"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testDurableStore runs the behaviour every shortener.DurableStore must share.
// Codes and counter names are random so the suite can run against shared servers.
func testDurableStore(t *testing.T, s shortener.DurableStore) {
	t.Helper()

	ctx := context.Background()

	t.Run("insert and get by code", func(t *testing.T) {
		shortURL := &shortener.ShortURL{
			Code:        shortener.Code("t" + uuid.NewString()[:8]),
			OriginalURL: "https://example.com/a",
			CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
		}

		require.NoError(t, s.Insert(ctx, shortURL))

		got, err := s.GetByCode(ctx, shortURL.Code)

		require.NoError(t, err)
		assert.Equal(t, shortURL.Code, got.Code)
		assert.Equal(t, shortURL.OriginalURL, got.OriginalURL)
		assert.True(t, shortURL.CreatedAt.Equal(got.CreatedAt), "created_at %s != %s", shortURL.CreatedAt, got.CreatedAt)
	})

	t.Run("insert existing code returns ErrStoreConflict and keeps the first url", func(t *testing.T) {
		code := shortener.Code("c" + uuid.NewString()[:8])
		first := &shortener.ShortURL{Code: code, OriginalURL: "https://old.com", CreatedAt: time.Now().UTC()}
		second := &shortener.ShortURL{Code: code, OriginalURL: "https://new.com", CreatedAt: time.Now().UTC()}

		require.NoError(t, s.Insert(ctx, first))

		err := s.Insert(ctx, second)
		require.ErrorIs(t, err, shortener.ErrStoreConflict)

		got, err := s.GetByCode(ctx, code)
		require.NoError(t, err)
		assert.Equal(t, "https://old.com", got.OriginalURL)
	})

	t.Run("get non-existent returns ErrNotFound", func(t *testing.T) {
		got, err := s.GetByCode(ctx, shortener.Code("missing"+uuid.NewString()[:8]))

		assert.Nil(t, got)
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("increment starts from zero", func(t *testing.T) {
		name := uuid.NewString()

		first, err := s.Increment(ctx, name, 1)
		require.NoError(t, err)

		second, err := s.Increment(ctx, name, 1)
		require.NoError(t, err)

		third, err := s.Increment(ctx, name, 5)
		require.NoError(t, err)

		assert.Equal(t, int64(1), first)
		assert.Equal(t, int64(2), second)
		assert.Equal(t, int64(7), third)
	})

	t.Run("counters are independent", func(t *testing.T) {
		a, b := uuid.NewString(), uuid.NewString()

		_, err := s.Increment(ctx, a, 10)
		require.NoError(t, err)

		got, err := s.Increment(ctx, b, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), got)
	})

	t.Run("concurrent increments never repeat a value", func(t *testing.T) {
		name := uuid.NewString()

		const workers = 50

		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			seen = make(map[int64]struct{}, workers)
		)

		for i := 0; i < workers; i++ {
			wg.Add(1)

			go func() {
				defer wg.Done()

				v, err := s.Increment(ctx, name, 1)
				assert.NoError(t, err)

				mu.Lock()
				seen[v] = struct{}{}
				mu.Unlock()
			}()
		}

		wg.Wait()

		assert.Len(t, seen, workers)
	})
}
