package warmup

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/counter-shortener/internal/messaging"
	"github.com/serroba/counter-shortener/internal/shortener"
	"go.uber.org/zap"
)

// NewHandler returns a handler that writes each created URL into the cache,
// so the first resolve is already a hit.
func NewHandler(cache shortener.Cache, logger *zap.Logger) messaging.Handler[URLCreatedEvent] {
	return func(ctx context.Context, event *URLCreatedEvent) error {
		if event.Code == "" || event.OriginalURL == "" {
			logger.Warn("skipping incomplete url created event",
				zap.String("code", event.Code),
			)

			return nil
		}

		if err := cache.Set(ctx, shortener.Code(event.Code), event.OriginalURL); err != nil {
			return fmt.Errorf("warm cache for %s: %w", event.Code, err)
		}

		logger.Debug("cache warmed", zap.String("code", event.Code))

		return nil
	}
}

// NewConsumer wires the warming handler to the url.created topic.
func NewConsumer(
	subscriber message.Subscriber,
	cache shortener.Cache,
	logger *zap.Logger,
) *messaging.Consumer[URLCreatedEvent] {
	return messaging.NewConsumer(subscriber, TopicURLCreated, NewHandler(cache, logger), logger)
}
