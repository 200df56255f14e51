package store

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/counter-shortener/internal/shortener"
)

// insertScript writes the hash only if the key is absent, as one atomic step.
var insertScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
redis.call('HSET', KEYS[1], 'code', ARGV[1], 'original_url', ARGV[2], 'created_at', ARGV[3])
return 1
`)

// RedisStore is a Redis implementation of shortener.DurableStore.
// It expects a Redis deployment with persistence enabled (AOF or RDB).
type RedisStore struct {
	client        *redis.Client
	prefix        string // "url:" for code -> hash(original_url, created_at)
	counterPrefix string // "counter:" for name -> hash(value)
}

// NewRedisStore creates a new Redis-backed URL store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client:        client,
		prefix:        "url:",
		counterPrefix: "counter:",
	}
}

func (r *RedisStore) Insert(ctx context.Context, shortURL *shortener.ShortURL) error {
	inserted, err := insertScript.Run(ctx, r.client,
		[]string{r.prefix + string(shortURL.Code)},
		string(shortURL.Code),
		shortURL.OriginalURL,
		shortURL.CreatedAt.UnixNano(),
	).Int()
	if err != nil {
		return err
	}

	if inserted == 0 {
		return shortener.ErrStoreConflict
	}

	return nil
}

func (r *RedisStore) GetByCode(ctx context.Context, code shortener.Code) (*shortener.ShortURL, error) {
	result, err := r.client.HGetAll(ctx, r.prefix+string(code)).Result()
	if err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return nil, shortener.ErrNotFound
	}

	var createdAt time.Time

	if ts, ok := result["created_at"]; ok {
		if nanos, err := strconv.ParseInt(ts, 10, 64); err == nil {
			createdAt = time.Unix(0, nanos).UTC()
		}
	}

	return &shortener.ShortURL{
		Code:        code,
		OriginalURL: result["original_url"],
		CreatedAt:   createdAt,
	}, nil
}

// Increment uses HINCRBY, which creates the field at 0 when missing.
func (r *RedisStore) Increment(ctx context.Context, name string, delta int64) (int64, error) {
	return r.client.HIncrBy(ctx, r.counterPrefix+name, "value", delta).Result()
}

// Ping checks Redis connectivity.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

var _ shortener.DurableStore = (*RedisStore)(nil)
