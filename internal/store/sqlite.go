package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/serroba/counter-shortener/internal/shortener"
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS short_urls (
		code         TEXT PRIMARY KEY,
		original_url TEXT NOT NULL,
		created_at   INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS counters (
		name  TEXT PRIMARY KEY,
		value INTEGER NOT NULL
	);
`

// SQLiteStore is a SQLite implementation of shortener.DurableStore.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens the database at dsn and creates the schema.
// SQLite allows a single writer, so the pool is limited to one connection.
func OpenSQLite(ctx context.Context, dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("could not open SQLite database: %w", err)
	}

	db.SetMaxOpenConns(1)

	if _, err = db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("could not create SQLite schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Insert(ctx context.Context, shortURL *shortener.ShortURL) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO short_urls (code, original_url, created_at) VALUES (?, ?, ?)",
		string(shortURL.Code),
		shortURL.OriginalURL,
		shortURL.CreatedAt.UnixNano(),
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) &&
			(sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
				sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique) {
			return shortener.ErrStoreConflict
		}

		return err
	}

	return nil
}

func (s *SQLiteStore) GetByCode(ctx context.Context, code shortener.Code) (*shortener.ShortURL, error) {
	var (
		url   shortener.ShortURL
		nanos int64
	)

	err := s.db.QueryRowContext(ctx,
		"SELECT code, original_url, created_at FROM short_urls WHERE code = ?",
		string(code),
	).Scan(&url.Code, &url.OriginalURL, &nanos)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	url.CreatedAt = time.Unix(0, nanos).UTC()

	return &url, nil
}

func (s *SQLiteStore) Increment(ctx context.Context, name string, delta int64) (int64, error) {
	var value int64

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO counters (name, value) VALUES (?, ?)
		ON CONFLICT (name) DO UPDATE SET value = value + excluded.value
		RETURNING value`,
		name, delta,
	).Scan(&value)
	if err != nil {
		return 0, err
	}

	return value, nil
}

// Ping checks the database handle.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Shutdown closes the database.
func (s *SQLiteStore) Shutdown() error {
	return s.db.Close()
}

var _ shortener.DurableStore = (*SQLiteStore)(nil)
