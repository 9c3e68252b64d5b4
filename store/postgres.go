package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresBlobStore implements BlobStore on a Postgres table, one row per
// collection blob. Upserts are single statements, so a collection is
// replaced atomically.
type PostgresBlobStore struct {
	db *pgxpool.Pool
}

// NewPostgresBlobStore creates a postgres blob store and ensures its table exists
func NewPostgresBlobStore(ctx context.Context, db *pgxpool.Pool) (*PostgresBlobStore, error) {
	s := &PostgresBlobStore{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *PostgresBlobStore) ensureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS record_blobs (
			name       text PRIMARY KEY,
			data       jsonb NOT NULL,
			updated_at timestamptz NOT NULL DEFAULT NOW()
		)`

	_, err := s.db.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to create record_blobs table: %w", err)
	}
	return nil
}

// Get reads a named blob, returning (nil, nil) if it does not exist
func (s *PostgresBlobStore) Get(ctx context.Context, name string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow(ctx, `SELECT data FROM record_blobs WHERE name = $1`, name).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read blob %s: %w", name, err)
	}
	return data, nil
}

// Set writes a named blob via atomic upsert
func (s *PostgresBlobStore) Set(ctx context.Context, name string, data []byte) error {
	query := `
		INSERT INTO record_blobs (name, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`

	_, err := s.db.Exec(ctx, query, name, data)
	if err != nil {
		return fmt.Errorf("failed to write blob %s: %w", name, err)
	}
	return nil
}

// Delete removes a named blob; absence is not an error
func (s *PostgresBlobStore) Delete(ctx context.Context, name string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM record_blobs WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("failed to delete blob %s: %w", name, err)
	}
	return nil
}
