package shortener

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Allocator turns long URLs into durably stored, collision-free short codes.
type Allocator struct {
	store    DurableStore
	timeouts Timeouts
	metrics  Metrics
	logger   *zap.Logger
	now      func() time.Time
}

// NewAllocator creates an allocator backed by store. metrics may be nil.
func NewAllocator(store DurableStore, timeouts Timeouts, metrics Metrics, logger *zap.Logger) *Allocator {
	if metrics == nil {
		metrics = NoopMetrics{}
	}

	return &Allocator{
		store:    store,
		timeouts: timeouts,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
}

// Create allocates a new code for originalURL and persists the mapping.
// Each call consumes a fresh counter value, so retrying after
// ErrStoreUnavailable yields a different, equally valid code.
func (a *Allocator) Create(ctx context.Context, originalURL string) (*ShortURL, error) {
	if originalURL == "" {
		a.metrics.ObserveCreate(OutcomeInvalid)

		return nil, fmt.Errorf("%w: url must not be empty", ErrValidation)
	}

	n, err := a.increment(ctx)
	if err != nil {
		a.metrics.ObserveCreate(OutcomeUnavailable)

		return nil, fmt.Errorf("%w: increment counter: %w", ErrStoreUnavailable, err)
	}

	if n <= 0 {
		a.metrics.ObserveCreate(OutcomeConflict)

		return nil, fmt.Errorf("%w: counter %q returned %d", ErrStoreConflict, CounterGlobal, n)
	}

	shortURL := &ShortURL{
		Code:        Code(Encode(uint64(n))),
		OriginalURL: originalURL,
		CreatedAt:   a.now().UTC(),
	}

	if err = a.insert(ctx, shortURL); err != nil {
		if errors.Is(err, ErrStoreConflict) {
			a.logger.Error("allocated code already exists",
				zap.String("code", string(shortURL.Code)),
				zap.Int64("counter", n),
			)
			a.metrics.ObserveCreate(OutcomeConflict)

			return nil, err
		}

		a.metrics.ObserveCreate(OutcomeUnavailable)

		return nil, fmt.Errorf("%w: insert %s: %w", ErrStoreUnavailable, shortURL.Code, err)
	}

	a.metrics.ObserveCreate(OutcomeCreated)
	a.logger.Debug("short url created",
		zap.String("code", string(shortURL.Code)),
		zap.Int64("counter", n),
	)

	return shortURL, nil
}

func (a *Allocator) increment(ctx context.Context) (int64, error) {
	ctx, cancel := withTimeout(ctx, a.timeouts.Store)
	defer cancel()

	return a.store.Increment(ctx, CounterGlobal, 1)
}

func (a *Allocator) insert(ctx context.Context, shortURL *ShortURL) error {
	ctx, cancel := withTimeout(ctx, a.timeouts.Store)
	defer cancel()

	return a.store.Insert(ctx, shortURL)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, d)
}
