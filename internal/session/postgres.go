package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"studycompanion/internal/storage"
)

const createSessionTable = `CREATE TABLE IF NOT EXISTS session_entries (
	key        TEXT PRIMARY KEY,
	value      BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type PostgresBackend struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects and creates the session_entries table if needed.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresBackend, error) {
	db, err := storage.NewDB(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if _, err := db.Pool.Exec(ctx, createSessionTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create session table: %w", err)
	}
	return &PostgresBackend{pool: db.Pool}, nil
}

func (p *PostgresBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := p.pool.QueryRow(ctx, `SELECT value FROM session_entries WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select session entry: %w", err)
	}
	return value, nil
}

func (p *PostgresBackend) Set(ctx context.Context, key string, value []byte) error {
	_, err := p.pool.Exec(ctx, `
INSERT INTO session_entries (key, value, updated_at) VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`, key, value)
	if err != nil {
		return fmt.Errorf("upsert session entry: %w", err)
	}
	return nil
}

func (p *PostgresBackend) Delete(ctx context.Context, key string) error {
	if _, err := p.pool.Exec(ctx, `DELETE FROM session_entries WHERE key = $1`, key); err != nil {
		return fmt.Errorf("delete session entry: %w", err)
	}
	return nil
}

func (p *PostgresBackend) Close() error {
	p.pool.Close()
	return nil
}
