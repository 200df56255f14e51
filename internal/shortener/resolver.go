package shortener

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Resolver maps short codes to URLs using the cache as an accelerator.
// The repository alone decides whether a code exists.
type Resolver struct {
	repo     Repository
	cache    Cache
	timeouts Timeouts
	metrics  Metrics
	logger   *zap.Logger
}

// NewResolver creates a resolver. A nil cache resolves from the repository only.
func NewResolver(repo Repository, cache Cache, timeouts Timeouts, metrics Metrics, logger *zap.Logger) *Resolver {
	if cache == nil {
		cache = NoopCache{}
	}

	if metrics == nil {
		metrics = NoopMetrics{}
	}

	return &Resolver{
		repo:     repo,
		cache:    cache,
		timeouts: timeouts,
		metrics:  metrics,
		logger:   logger,
	}
}

// Resolve returns the original URL for code.
func (r *Resolver) Resolve(ctx context.Context, code Code) (string, error) {
	if code == "" {
		r.metrics.ObserveResolve(OutcomeInvalid)

		return "", fmt.Errorf("%w: code must not be empty", ErrValidation)
	}

	// Nothing outside the alphabet was ever allocated.
	if !IsCode(string(code)) {
		r.metrics.ObserveResolve(OutcomeNotFound)

		return "", ErrNotFound
	}

	if url, ok := r.fromCache(ctx, code); ok {
		r.metrics.ObserveResolve(OutcomeCacheHit)

		return url, nil
	}

	shortURL, err := r.fromStore(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			r.metrics.ObserveResolve(OutcomeNotFound)

			return "", ErrNotFound
		}

		r.metrics.ObserveResolve(OutcomeUnavailable)

		return "", fmt.Errorf("%w: get %s: %w", ErrStoreUnavailable, code, err)
	}

	r.populate(ctx, shortURL)
	r.metrics.ObserveResolve(OutcomeStoreHit)

	return shortURL.OriginalURL, nil
}

// fromCache treats every cache failure as a miss.
func (r *Resolver) fromCache(ctx context.Context, code Code) (string, bool) {
	ctx, cancel := withTimeout(ctx, r.timeouts.Cache)
	defer cancel()

	url, err := r.cache.Get(ctx, code)
	if err == nil && url != "" {
		r.logger.Debug("cache hit", zap.String("code", string(code)))

		return url, true
	}

	if err == nil || errors.Is(err, ErrCacheMiss) {
		r.logger.Debug("cache miss", zap.String("code", string(code)))
	} else {
		r.metrics.ObserveCacheError(CacheOpGet)
		r.logger.Warn("cache lookup failed, reading from store",
			zap.String("code", string(code)),
			zap.Error(err),
		)
	}

	return "", false
}

func (r *Resolver) fromStore(ctx context.Context, code Code) (*ShortURL, error) {
	ctx, cancel := withTimeout(ctx, r.timeouts.Store)
	defer cancel()

	return r.repo.GetByCode(ctx, code)
}

func (r *Resolver) populate(ctx context.Context, shortURL *ShortURL) {
	ctx, cancel := withTimeout(ctx, r.timeouts.Cache)
	defer cancel()

	if err := r.cache.Set(ctx, shortURL.Code, shortURL.OriginalURL); err != nil {
		r.metrics.ObserveCacheError(CacheOpSet)
		r.logger.Warn("cache populate failed",
			zap.String("code", string(shortURL.Code)),
			zap.Error(err),
		)
	}
}
