// Package cachestore provides the TTL cache backing web-context fetches.
package cachestore

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Entry is one cached search result set, keyed by the digest of its query
// text. Overwritten, never appended, on refresh.
type Entry struct {
	Key       string
	QueryText string
	Payload   []byte
	WrittenAt time.Time
	ExpiresAt time.Time
}

// Store defines the cache operations. Expiry is enforced by readers; physical
// deletion of stale rows is left to the database's own housekeeping.
type Store interface {
	Get(ctx context.Context, key string) (*Entry, error)
	Put(ctx context.Context, entry Entry) error
	Close() error
}

// PostgresStore implements Store backed by Postgres.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects to Postgres and ensures schema exists.
func NewPostgresStore() (*PostgresStore, error) {
	dsn := os.Getenv("CACHE_DATABASE_URL")
	if dsn == "" {
		dsn = os.Getenv("DATABASE_URL")
	}
	if dsn == "" {
		return nil, errors.New("CACHE_DATABASE_URL/DATABASE_URL not set")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	return NewPostgresStoreWithDB(db)
}

// NewPostgresStoreWithDB reuses an existing *sql.DB.
func NewPostgresStoreWithDB(db *sql.DB) (*PostgresStore, error) {
	if db == nil {
		return nil, errors.New("db is required")
	}
	if err := ensureTable(db); err != nil {
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

func ensureTable(db *sql.DB) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS web_context_cache (
  key text PRIMARY KEY,
  query_text text NOT NULL,
  payload jsonb NOT NULL,
  written_at timestamptz NOT NULL,
  expires_at timestamptz NOT NULL
);
`
	_, err := db.Exec(ddl)
	return err
}

func (s *PostgresStore) Get(ctx context.Context, key string) (*Entry, error) {
	var e Entry
	err := s.db.QueryRowContext(ctx,
		`SELECT query_text, payload, written_at, expires_at FROM web_context_cache WHERE key=$1`, key).
		Scan(&e.QueryText, &e.Payload, &e.WrittenAt, &e.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	e.Key = key
	return &e, nil
}

func (s *PostgresStore) Put(ctx context.Context, entry Entry) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO web_context_cache (key, query_text, payload, written_at, expires_at)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (key) DO UPDATE SET
  query_text = EXCLUDED.query_text,
  payload = EXCLUDED.payload,
  written_at = EXCLUDED.written_at,
  expires_at = EXCLUDED.expires_at`,
		entry.Key, entry.QueryText, entry.Payload, entry.WrittenAt, entry.ExpiresAt)
	return err
}

func (s *PostgresStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
