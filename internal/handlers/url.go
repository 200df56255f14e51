package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/counter-shortener/internal/messaging"
	"github.com/serroba/counter-shortener/internal/shortener"
	"github.com/serroba/counter-shortener/internal/warmup"
	"go.uber.org/zap"
)

// Creator allocates short codes.
type Creator interface {
	Create(ctx context.Context, originalURL string) (*shortener.ShortURL, error)
}

// Resolver looks up the URL behind a short code.
type Resolver interface {
	Resolve(ctx context.Context, code shortener.Code) (string, error)
}

// URLHandler handles URL shortening operations.
type URLHandler struct {
	creator           Creator
	resolver          Resolver
	baseURL           string
	publishURLCreated messaging.Publish[warmup.URLCreatedEvent]
	logger            *zap.Logger
}

// NewURLHandler creates a new URL handler.
func NewURLHandler(
	creator Creator,
	resolver Resolver,
	baseURL string,
	publishURLCreated messaging.Publish[warmup.URLCreatedEvent],
	logger *zap.Logger,
) *URLHandler {
	return &URLHandler{
		creator:           creator,
		resolver:          resolver,
		baseURL:           baseURL,
		publishURLCreated: publishURLCreated,
		logger:            logger,
	}
}

type requestMetaKey struct{}

// RequestMeta holds request metadata used in log lines.
type RequestMeta struct {
	RequestID string
	ClientIP  string
	UserAgent string
}

// ContextWithRequestMeta adds request metadata to context.
func ContextWithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFromContext extracts request metadata from context.
func RequestMetaFromContext(ctx context.Context) RequestMeta {
	if v, ok := ctx.Value(requestMetaKey{}).(RequestMeta); ok {
		return v
	}

	return RequestMeta{}
}

func (h *URLHandler) CreateShortURL(ctx context.Context, req *CreateShortURLRequest) (*CreateShortURLResponse, error) {
	shortURL, err := h.creator.Create(ctx, req.Body.URL)
	if err != nil {
		return nil, h.toHTTPError(ctx, "create", err)
	}

	if err := h.publishURLCreated(ctx, warmup.NewURLCreatedEvent(shortURL)); err != nil {
		h.logger.Error("failed to publish url created event",
			zap.String("code", string(shortURL.Code)),
			zap.String("request_id", RequestMetaFromContext(ctx).RequestID),
			zap.Error(err),
		)
	}

	fullShortURL := fmt.Sprintf("%s/%s", h.baseURL, shortURL.Code)

	resp := &CreateShortURLResponse{
		Status:   http.StatusCreated,
		Location: fullShortURL,
	}
	resp.Body.Code = string(shortURL.Code)
	resp.Body.ShortURL = fullShortURL
	resp.Body.OriginalURL = shortURL.OriginalURL

	return resp, nil
}

func (h *URLHandler) RedirectToURL(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	originalURL, err := h.resolver.Resolve(ctx, shortener.Code(req.Code))
	if err != nil {
		return nil, h.toHTTPError(ctx, "resolve", err)
	}

	return &RedirectResponse{
		Status:   http.StatusFound,
		Location: originalURL,
	}, nil
}

// toHTTPError maps core errors onto HTTP statuses.
func (h *URLHandler) toHTTPError(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, shortener.ErrValidation):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, shortener.ErrNotFound):
		return huma.Error404NotFound("short url not found")
	}

	meta := RequestMetaFromContext(ctx)

	if errors.Is(err, shortener.ErrStoreUnavailable) {
		h.logger.Error("store unavailable",
			zap.String("op", op),
			zap.String("request_id", meta.RequestID),
			zap.Error(err),
		)

		return huma.Error503ServiceUnavailable("storage temporarily unavailable, retry")
	}

	h.logger.Error("unexpected failure",
		zap.String("op", op),
		zap.String("request_id", meta.RequestID),
		zap.Error(err),
	)

	return huma.Error500InternalServerError(fmt.Sprintf("failed to %s url", op))
}
