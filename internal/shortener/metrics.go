package shortener

import "time"

// Outcomes reported to Metrics.
const (
	OutcomeCreated     = "created"
	OutcomeCacheHit    = "cache_hit"
	OutcomeStoreHit    = "store_hit"
	OutcomeNotFound    = "not_found"
	OutcomeInvalid     = "invalid"
	OutcomeConflict    = "conflict"
	OutcomeUnavailable = "unavailable"
)

// Cache operations reported to Metrics.
const (
	CacheOpGet = "get"
	CacheOpSet = "set"
)

// Metrics receives allocation and resolution outcomes.
type Metrics interface {
	ObserveCreate(outcome string)
	ObserveResolve(outcome string)
	ObserveCacheError(op string)
}

// NoopMetrics discards everything.
type NoopMetrics struct{}

func (NoopMetrics) ObserveCreate(string)     {}
func (NoopMetrics) ObserveResolve(string)    {}
func (NoopMetrics) ObserveCacheError(string) {}

// Timeouts bounds each store and cache call. Zero means no extra deadline
// beyond the caller's context.
type Timeouts struct {
	Store time.Duration
	Cache time.Duration
}
