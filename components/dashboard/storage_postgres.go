package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	postgresSchema = `CREATE TABLE IF NOT EXISTS dashboard_kv (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`
	postgresGet = `SELECT value FROM dashboard_kv WHERE key = $1`
	postgresSet = `INSERT INTO dashboard_kv (key, value, updated_at) VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
)

// PostgresDB is the subset of *pgxpool.Pool used by PostgresStorage.
type PostgresDB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStorage keeps dashboard keys in a single key/value table.
type PostgresStorage struct {
	DB PostgresDB
}

// NewPostgresStorage opens a pool for dsn and ensures the table exists.
func NewPostgresStorage(ctx context.Context, dsn string) (*PostgresStorage, *pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("dashboard: open postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("dashboard: ping postgres: %w", err)
	}
	storage := &PostgresStorage{DB: pool}
	if err := storage.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return storage, pool, nil
}

// EnsureSchema creates the key/value table when missing.
func (s *PostgresStorage) EnsureSchema(ctx context.Context) error {
	if _, err := s.DB.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("dashboard: create dashboard_kv: %w", err)
	}
	return nil
}

// GetItem implements Storage.
func (s *PostgresStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.DB.QueryRow(ctx, postgresGet, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("dashboard: postgres get %s: %w", key, err)
	}
	return value, true, nil
}

// SetItem implements Storage.
func (s *PostgresStorage) SetItem(ctx context.Context, key, value string) error {
	if _, err := s.DB.Exec(ctx, postgresSet, key, value); err != nil {
		return fmt.Errorf("dashboard: postgres set %s: %w", key, err)
	}
	return nil
}
