package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"medication-tracker/internal/ports/snapshot"
)

// StateStore guarda cada colección como JSONB en la tabla state.
type StateStore struct {
	db *sql.DB
}

// NewStateStore crea la tabla si falta.
func NewStateStore(ctx context.Context, db *sql.DB) (*StateStore, error) {
	ddl := `CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload JSONB NOT NULL
	)`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return nil, fmt.Errorf("ensure state table: %w", err)
	}
	return &StateStore{db: db}, nil
}

func (s *StateStore) Load(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM state WHERE bucket = $1`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, snapshot.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select state %s: %w", key, err)
	}
	return payload, nil
}

func (s *StateStore) Save(ctx context.Context, key string, payload []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO state(bucket,payload) VALUES($1,$2::jsonb) ON CONFLICT(bucket) DO UPDATE SET payload=EXCLUDED.payload`,
		key, string(payload),
	)
	if err != nil {
		return fmt.Errorf("upsert state %s: %w", key, err)
	}
	return nil
}

func (s *StateStore) Close() error { return s.db.Close() }
