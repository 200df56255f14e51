package middleware

import (
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/jaevor/go-nanoid"
	"github.com/serroba/counter-shortener/internal/handlers"
	"go.uber.org/zap"
)

// HeaderRequestID carries the request ID in and out.
const HeaderRequestID = "X-Request-ID"

const requestIDLength = 21

// AccessLog tags each request with an ID, stores request metadata in the
// context and writes one log line per request once the handler finished.
func AccessLog(_ huma.API, logger *zap.Logger) (func(ctx huma.Context, next func(huma.Context)), error) {
	newID, err := nanoid.Standard(requestIDLength)
	if err != nil {
		return nil, err
	}

	return func(ctx huma.Context, next func(huma.Context)) {
		start := time.Now()

		requestID := ctx.Header(HeaderRequestID)
		if requestID == "" {
			requestID = newID()
		}

		meta := handlers.RequestMeta{
			RequestID: requestID,
			ClientIP:  extractClientIP(ctx),
			UserAgent: ctx.Header("User-Agent"),
		}

		ctx.SetHeader(HeaderRequestID, requestID)
		ctx = huma.WithContext(ctx, handlers.ContextWithRequestMeta(ctx.Context(), meta))

		next(ctx)

		logger.Info("request",
			zap.String("request_id", requestID),
			zap.String("method", ctx.Method()),
			zap.String("path", ctx.URL().Path),
			zap.Int("status", ctx.Status()),
			zap.String("client_ip", meta.ClientIP),
			zap.Duration("duration", time.Since(start)),
		)
	}, nil
}

func extractClientIP(ctx huma.Context) string {
	// first entry of X-Forwarded-For is the original client
	if xff := ctx.Header("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}

		return strings.TrimSpace(xff)
	}

	if xri := ctx.Header("X-Real-IP"); xri != "" {
		return xri
	}

	addr := ctx.RemoteAddr()
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}

	return addr
}
