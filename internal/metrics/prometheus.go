package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/serroba/counter-shortener/internal/shortener"
)

const namespace = "shortener"

// Prometheus exports allocator and resolver outcomes as Prometheus counters.
type Prometheus struct {
	creates     *prometheus.CounterVec
	resolves    *prometheus.CounterVec
	cacheErrors *prometheus.CounterVec
}

// NewPrometheus creates the collectors and registers them with reg.
func NewPrometheus(reg prometheus.Registerer) (*Prometheus, error) {
	p := &Prometheus{
		creates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "creates_total",
			Help:      "Short URL creations by outcome.",
		}, []string{"outcome"}),
		resolves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolves_total",
			Help:      "Short code resolutions by outcome.",
		}, []string{"outcome"}),
		cacheErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_errors_total",
			Help:      "Cache failures downgraded to misses, by operation.",
		}, []string{"op"}),
	}

	for _, c := range []prometheus.Collector{p.creates, p.resolves, p.cacheErrors} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return p, nil
}

func (p *Prometheus) ObserveCreate(outcome string) {
	p.creates.WithLabelValues(outcome).Inc()
}

func (p *Prometheus) ObserveResolve(outcome string) {
	p.resolves.WithLabelValues(outcome).Inc()
}

func (p *Prometheus) ObserveCacheError(op string) {
	p.cacheErrors.WithLabelValues(op).Inc()
}

var _ shortener.Metrics = (*Prometheus)(nil)
