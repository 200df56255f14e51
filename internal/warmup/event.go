package warmup

import (
	"time"

	"github.com/serroba/counter-shortener/internal/shortener"
)

// TopicURLCreated is the topic for newly allocated short URLs.
const TopicURLCreated = "url.created"

// URLCreatedEvent is emitted after a short URL has been durably stored.
type URLCreatedEvent struct {
	Code        string    `json:"code"`
	OriginalURL string    `json:"originalUrl"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewURLCreatedEvent builds the event for a stored short URL.
func NewURLCreatedEvent(shortURL *shortener.ShortURL) *URLCreatedEvent {
	return &URLCreatedEvent{
		Code:        string(shortURL.Code),
		OriginalURL: shortURL.OriginalURL,
		CreatedAt:   shortURL.CreatedAt,
	}
}
