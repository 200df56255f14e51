package container_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
	"github.com/samber/do"
	"github.com/serroba/counter-shortener/internal/container"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryInjector(t *testing.T) *do.Injector {
	t.Helper()

	opts := &container.Options{
		Port:           8888,
		Store:          container.StoreMemory,
		CacheEnabled:   false,
		StoreTimeoutMS: 1000,
		CacheTimeoutMS: 100,
		LogFormat:      "console",
	}

	injector := do.New()
	do.ProvideValue(injector, opts)
	container.LoggerPackage(injector)
	container.RedisPackage(injector)
	container.PostgresPackage(injector)
	container.SQLitePackage(injector)
	container.StorePackage(injector)
	container.CachePackage(injector)
	container.MetricsPackage(injector)
	container.ShortenerPackage(injector)
	container.PublisherPackage(injector)
	container.HTTPPackage(injector)

	t.Cleanup(func() { _ = injector.Shutdown() })

	return injector
}

func TestOptions(t *testing.T) {
	t.Run("base url defaults to localhost and port", func(t *testing.T) {
		opts := &container.Options{Port: 9000}

		assert.Equal(t, "http://localhost:9000", opts.PublicBaseURL())
	})

	t.Run("explicit base url wins", func(t *testing.T) {
		opts := &container.Options{Port: 9000, BaseURL: "https://sho.rt"}

		assert.Equal(t, "https://sho.rt", opts.PublicBaseURL())
	})

	t.Run("converts durations", func(t *testing.T) {
		opts := &container.Options{CacheTTLSecs: 60, StoreTimeoutMS: 1500, CacheTimeoutMS: 50}

		assert.Equal(t, "1m0s", opts.CacheTTL().String())
		assert.Equal(t, "1.5s", opts.Timeouts().Store.String())
		assert.Equal(t, "50ms", opts.Timeouts().Cache.String())
	})
}

func TestStorePackage_UnknownStore(t *testing.T) {
	injector := do.New()
	do.ProvideValue(injector, &container.Options{Store: "cassandra"})
	container.StorePackage(injector)

	_, err := do.Invoke[container.DurableStore](injector)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "cassandra")
}

func TestHTTPPackage_MemoryStore(t *testing.T) {
	injector := newMemoryInjector(t)

	_ = do.MustInvoke[huma.API](injector)
	router := do.MustInvoke[*chi.Mux](injector)

	created := httptest.NewRecorder()
	router.ServeHTTP(created, httptest.NewRequest(http.MethodPost, "/shorten",
		strings.NewReader(`{"url":"https://example.com/x"}`)))
	require.Equal(t, http.StatusCreated, created.Code, created.Body.String())
	assert.Equal(t, "http://localhost:8888/1", created.Header().Get("Location"))

	redirect := httptest.NewRecorder()
	router.ServeHTTP(redirect, httptest.NewRequest(http.MethodGet, "/1", nil))
	assert.Equal(t, http.StatusFound, redirect.Code)
	assert.Equal(t, "https://example.com/x", redirect.Header().Get("Location"))

	healthz := httptest.NewRecorder()
	router.ServeHTTP(healthz, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, healthz.Code)
	assert.Contains(t, healthz.Body.String(), `"cache":"disabled"`)

	scrape := httptest.NewRecorder()
	router.ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, scrape.Code)
	assert.Contains(t, scrape.Body.String(), `shortener_creates_total{outcome="created"} 1`)
	assert.Contains(t, scrape.Body.String(), `shortener_resolves_total{outcome="store_hit"} 1`)
}
