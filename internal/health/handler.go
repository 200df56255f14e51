package health

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
	statusDisabled  = "disabled"
)

// Checker defines the interface for checking a dependency.
type Checker interface {
	Ping(ctx context.Context) error
}

// Handler handles health check operations.
type Handler struct {
	store Checker
	cache Checker
}

// NewHandler creates a new health handler. cache is nil when caching is off.
func NewHandler(store, cache Checker) *Handler {
	return &Handler{store: store, cache: cache}
}

// Response is the response for health check endpoint.
type Response struct {
	Status int
	Body   struct {
		Status string `json:"status"`
		Store  string `json:"store"`
		Cache  string `json:"cache"`
	}
}

// Check reports "ok", "degraded" when only the cache is down (resolution
// still works), or "down" with a 503 when the durable store is unreachable.
func (h *Handler) Check(ctx context.Context, _ *struct{}) (*Response, error) {
	resp := &Response{Status: http.StatusOK}
	resp.Body.Status = "ok"
	resp.Body.Store = statusHealthy
	resp.Body.Cache = statusDisabled

	if h.cache != nil {
		resp.Body.Cache = statusHealthy

		if err := h.cache.Ping(ctx); err != nil {
			resp.Body.Cache = statusUnhealthy
			resp.Body.Status = "degraded"
		}
	}

	if err := h.store.Ping(ctx); err != nil {
		resp.Body.Store = statusUnhealthy
		resp.Body.Status = "down"
		resp.Status = http.StatusServiceUnavailable
	}

	return resp, nil
}

// RegisterRoutes registers health check routes.
func RegisterRoutes(api huma.API, h *Handler) {
	huma.Get(api, "/health", h.Check)
}
