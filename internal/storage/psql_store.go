package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/gymtracker/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var _ Store = (*PsqlStore)(nil)

const psqlSchema = `
CREATE TABLE IF NOT EXISTS kv_store
(
    key        VARCHAR PRIMARY KEY,
    value      BYTEA       NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

type PsqlStore struct {
	db *pgxpool.Pool
}

// NewPsqlStore creates the kv_store table if missing.
func NewPsqlStore(ctx context.Context, db *pgxpool.Pool) (*PsqlStore, error) {
	if _, err := db.Exec(ctx, psqlSchema); err != nil {
		return nil, fmt.Errorf("create kv_store table: %w", err)
	}
	return &PsqlStore{
		db: db,
	}, nil
}

func (s *PsqlStore) Load(ctx context.Context, key string) (_ []byte, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "psqlStore.load")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("key", key))

	var value []byte
	if err := s.db.QueryRow(
		ctx,
		`SELECT value FROM kv_store WHERE key = $1;`,
		key,
	).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query row: %w", err)
	}
	return value, nil
}

func (s *PsqlStore) Save(ctx context.Context, key string, value []byte) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "psqlStore.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("key", key))

	if _, err := s.db.Exec(
		ctx,
		`INSERT INTO kv_store (key, value, updated_at) VALUES ($1, $2, now())
			ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at;`,
		key, value,
	); err != nil {
		return fmt.Errorf("upsert: %w", err)
	}
	return nil
}

// Close is a no-op, the pool is owned by the server.
func (s *PsqlStore) Close() error {
	return nil
}
