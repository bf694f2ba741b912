package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	pgCreateTableSQL = `CREATE TABLE IF NOT EXISTS record_store (
	name       TEXT PRIMARY KEY,
	content    JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`
	pgLoadSQL = `SELECT content FROM record_store WHERE name = $1`
	pgSaveSQL = `INSERT INTO record_store (name, content, updated_at) VALUES ($1, $2, now())
ON CONFLICT (name) DO UPDATE SET content = EXCLUDED.content, updated_at = EXCLUDED.updated_at`
)

type postgresRecordStore struct {
	logger *zap.Logger
	db     *pgxpool.Pool
	name   string
}

// GetPostgresPool opens a connection pool and ensures the record_store table exists.
func GetPostgresPool(ctx context.Context, config *Config) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(config.Postgres.DSN)
	if err != nil {
		return nil, fmt.Errorf("invalid postgres dsn: %v", err)
	}
	if config.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = config.Postgres.MaxConns
	}
	if config.Postgres.ConnectTimeout > 0 {
		poolConfig.ConnConfig.ConnectTimeout = config.Postgres.ConnectTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %v", err)
	}
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("test connection failed: %v", err)
	}
	if _, err = pool.Exec(ctx, pgCreateTableSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create record_store table: %v", err)
	}
	return pool, nil
}

// NewPostgresRecordStore provides a record store which keeps the whole books
// document in one JSONB row of the record_store table.
func NewPostgresRecordStore(logger *zap.Logger, db *pgxpool.Pool, name string) RecordStore {
	return &postgresRecordStore{logger: logger, db: db, name: name}
}

// Load fetches the books document row.
func (ps *postgresRecordStore) Load(ctx context.Context) ([]Book, error) {
	var content []byte
	err := ps.db.QueryRow(ctx, pgLoadSQL, ps.name).Scan(&content)
	if errors.Is(err, pgx.ErrNoRows) {
		return []Book{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load books document: %w", err)
	}
	return DecodeBooks(content)
}

// Save upserts the books document row.
func (ps *postgresRecordStore) Save(ctx context.Context, books []Book) error {
	data, err := EncodeBooks(books)
	if err != nil {
		return err
	}
	if _, err = ps.db.Exec(ctx, pgSaveSQL, ps.name, string(data)); err != nil {
		return fmt.Errorf("failed to save books document: %w", err)
	}
	return nil
}
