package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/samber/do"
	"github.com/serroba/counter-shortener/internal/container"
	"github.com/serroba/counter-shortener/internal/messaging"
	"go.uber.org/zap"
)

const defaultCacheTTLSecs = 86400

func main() {
	opts := &container.Options{
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		LogFormat:    getEnv("LOG_FORMAT", "console"),
		CacheTTLSecs: getEnvInt("CACHE_TTL", defaultCacheTTLSecs),
	}

	injector := do.New()
	do.ProvideValue(injector, opts)
	container.LoggerPackage(injector)
	container.RedisPackage(injector)
	container.WarmerPackage(injector)

	logger := do.MustInvoke[*zap.Logger](injector)
	defer func() { _ = logger.Sync() }()

	group := do.MustInvoke[*messaging.ConsumerGroup](injector)

	ctx, cancel := context.WithCancel(context.Background())

	if err := group.Start(ctx); err != nil {
		logger.Fatal("failed to start cache warmer", zap.Error(err))
	}

	logger.Info("cache warmer running",
		zap.String("redis", opts.RedisAddr),
		zap.String("consumer_group", container.WarmerConsumerGroup),
		zap.Duration("ttl", opts.CacheTTL()),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down")
	cancel()

	if err := injector.Shutdown(); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}

	logger.Info("shutdown complete")
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return defaultValue
}

// getEnvInt reads a whole number of seconds; malformed values fall back.
func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v < 0 {
		return defaultValue
	}

	return v
}
