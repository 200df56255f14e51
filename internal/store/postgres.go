package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/counter-shortener/internal/shortener"
)

const pgErrCodeUniqueViolation = "23505"

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS short_urls (
		code         TEXT PRIMARY KEY,
		original_url TEXT NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL
	);
	CREATE TABLE IF NOT EXISTS counters (
		name  TEXT PRIMARY KEY,
		value BIGINT NOT NULL
	);
`

// PostgresStore is a PostgreSQL implementation of shortener.DurableStore.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed URL store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the tables if they do not exist.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, postgresSchema)

	return err
}

func (p *PostgresStore) Insert(ctx context.Context, shortURL *shortener.ShortURL) error {
	query := `
		INSERT INTO short_urls (code, original_url, created_at)
		VALUES ($1, $2, $3)
	`

	_, err := p.pool.Exec(ctx, query,
		string(shortURL.Code),
		shortURL.OriginalURL,
		shortURL.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrCodeUniqueViolation {
			return shortener.ErrStoreConflict
		}

		return err
	}

	return nil
}

func (p *PostgresStore) GetByCode(ctx context.Context, code shortener.Code) (*shortener.ShortURL, error) {
	query := `
		SELECT code, original_url, created_at
		FROM short_urls
		WHERE code = $1
	`

	var url shortener.ShortURL

	err := p.pool.QueryRow(ctx, query, string(code)).Scan(
		&url.Code,
		&url.OriginalURL,
		&url.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	return &url, nil
}

// Increment upserts the counter row; the row lock taken by ON CONFLICT
// serializes concurrent callers.
func (p *PostgresStore) Increment(ctx context.Context, name string, delta int64) (int64, error) {
	query := `
		INSERT INTO counters (name, value)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET value = counters.value + EXCLUDED.value
		RETURNING value
	`

	var value int64
	if err := p.pool.QueryRow(ctx, query, name, delta).Scan(&value); err != nil {
		return 0, err
	}

	return value, nil
}

// Ping checks database connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

var _ shortener.DurableStore = (*PostgresStore)(nil)
