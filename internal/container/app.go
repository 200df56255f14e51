package container

import (
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/do"
	"github.com/serroba/counter-shortener/internal/handlers"
	"github.com/serroba/counter-shortener/internal/health"
	"github.com/serroba/counter-shortener/internal/messaging"
	"github.com/serroba/counter-shortener/internal/metrics"
	"github.com/serroba/counter-shortener/internal/middleware"
	"github.com/serroba/counter-shortener/internal/shortener"
	"github.com/serroba/counter-shortener/internal/store"
	"github.com/serroba/counter-shortener/internal/warmup"
	"go.uber.org/zap"
)

// WarmerConsumerGroup is the Redis Streams consumer group of the cache warmer.
const WarmerConsumerGroup = "cache-warmer"

func MetricsPackage(i *do.Injector) {
	do.Provide(i, func(_ *do.Injector) (*prometheus.Registry, error) {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		return registry, nil
	})

	do.Provide(i, func(i *do.Injector) (*metrics.Prometheus, error) {
		return metrics.NewPrometheus(do.MustInvoke[*prometheus.Registry](i))
	})
}

func ShortenerPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*shortener.Allocator, error) {
		opts := do.MustInvoke[*Options](i)

		durable, err := do.Invoke[DurableStore](i)
		if err != nil {
			return nil, err
		}

		return shortener.NewAllocator(
			durable,
			opts.Timeouts(),
			do.MustInvoke[*metrics.Prometheus](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	do.Provide(i, func(i *do.Injector) (*shortener.Resolver, error) {
		opts := do.MustInvoke[*Options](i)

		durable, err := do.Invoke[DurableStore](i)
		if err != nil {
			return nil, err
		}

		cache, err := do.Invoke[Cache](i)
		if err != nil {
			return nil, err
		}

		return shortener.NewResolver(
			durable,
			cache,
			opts.Timeouts(),
			do.MustInvoke[*metrics.Prometheus](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
}

// PublisherPackage provides the url.created publish function. With warming
// off events are discarded and no stream connection is made.
func PublisherPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		client := do.MustInvoke[*RedisClient](i)
		logger := do.MustInvoke[*zap.Logger](i)

		publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
			Client:     client.Client,
			Marshaller: redisstream.DefaultMarshallerUnmarshaller{},
		}, messaging.NewZapLogger(logger))
		if err != nil {
			return nil, err
		}

		return messaging.NewPublisherGroup(publisher), nil
	})

	do.Provide(i, func(i *do.Injector) (messaging.Publish[warmup.URLCreatedEvent], error) {
		if !do.MustInvoke[*Options](i).WarmCache {
			return messaging.Discard[warmup.URLCreatedEvent](), nil
		}

		group, err := do.Invoke[*messaging.PublisherGroup](i)
		if err != nil {
			return nil, err
		}

		return messaging.NewPublishFunc[warmup.URLCreatedEvent](group.Publisher(), warmup.TopicURLCreated), nil
	})
}

func HTTPPackage(i *do.Injector) {
	do.Provide(i, func(_ *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(i, func(i *do.Injector) (huma.API, error) {
		opts := do.MustInvoke[*Options](i)
		router := do.MustInvoke[*chi.Mux](i)
		logger := do.MustInvoke[*zap.Logger](i)

		// /metrics is plain net/http and sits outside the OpenAPI surface.
		router.Handle("/metrics", promhttp.HandlerFor(
			do.MustInvoke[*prometheus.Registry](i),
			promhttp.HandlerOpts{},
		))

		api := humachi.New(router, huma.DefaultConfig("URL Shortener", "1.0.0"))

		accessLog, err := middleware.AccessLog(api, logger)
		if err != nil {
			return nil, err
		}

		api.UseMiddleware(accessLog)

		durable, err := do.Invoke[DurableStore](i)
		if err != nil {
			return nil, err
		}

		cache, err := do.Invoke[Cache](i)
		if err != nil {
			return nil, err
		}

		health.RegisterRoutes(api, health.NewHandler(durable, cache))

		urlHandler := handlers.NewURLHandler(
			do.MustInvoke[*shortener.Allocator](i),
			do.MustInvoke[*shortener.Resolver](i),
			opts.PublicBaseURL(),
			do.MustInvoke[messaging.Publish[warmup.URLCreatedEvent]](i),
			logger,
		)
		handlers.RegisterRoutes(api, urlHandler)

		return api, nil
	})
}

// WarmerPackage provides the consumer group that fills the Redis cache from
// url.created events.
func WarmerPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		opts := do.MustInvoke[*Options](i)
		client := do.MustInvoke[*RedisClient](i)
		logger := do.MustInvoke[*zap.Logger](i)

		subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
			Client:        client.Client,
			Unmarshaller:  redisstream.DefaultMarshallerUnmarshaller{},
			ConsumerGroup: WarmerConsumerGroup,
		}, messaging.NewZapLogger(logger))
		if err != nil {
			return nil, err
		}

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(warmup.NewConsumer(subscriber, store.NewRedisCache(client.Client, opts.CacheTTL()), logger))

		return group, nil
	})
}
