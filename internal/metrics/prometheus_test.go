package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/serroba/counter-shortener/internal/metrics"
	"github.com/serroba/counter-shortener/internal/shortener"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheus(t *testing.T) {
	t.Run("counts outcomes by label", func(t *testing.T) {
		reg := prometheus.NewRegistry()

		p, err := metrics.NewPrometheus(reg)
		require.NoError(t, err)

		p.ObserveResolve(shortener.OutcomeCacheHit)
		p.ObserveResolve(shortener.OutcomeCacheHit)
		p.ObserveResolve(shortener.OutcomeStoreHit)
		p.ObserveCreate(shortener.OutcomeCreated)
		p.ObserveCacheError(shortener.CacheOpSet)

		count, err := testutil.GatherAndCount(reg, "shortener_resolves_total")
		require.NoError(t, err)
		assert.Equal(t, 2, count, "one series per outcome")

		count, err = testutil.GatherAndCount(reg)
		require.NoError(t, err)
		assert.Equal(t, 4, count)
	})

	t.Run("fails on double registration", func(t *testing.T) {
		reg := prometheus.NewRegistry()

		_, err := metrics.NewPrometheus(reg)
		require.NoError(t, err)

		_, err = metrics.NewPrometheus(reg)
		assert.Error(t, err)
	})
}
