// Package store implements the record store: a durable mapping from a
// collection name to an ordered list of JSON-shaped records. Durability is
// delegated to a BlobStore, which persists each collection as one named
// blob; the store itself only relies on synchronous get/set of that blob.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a record id does not exist in a collection.
var ErrNotFound = errors.New("record not found")

// BlobStore persists named blobs. Get returns (nil, nil) for a missing
// blob; Delete of a missing blob is not an error.
type BlobStore interface {
	Get(ctx context.Context, name string) ([]byte, error)
	Set(ctx context.Context, name string, data []byte) error
	Delete(ctx context.Context, name string) error
}

// BackendType represents the blob backend type
type BackendType string

const (
	BackendLocal    BackendType = "local"
	BackendPostgres BackendType = "postgres"
)

// BlobConfig holds configuration for the blob backend
type BlobConfig struct {
	Type      BackendType
	LocalPath string // for local storage
	DBURL     string // for postgres storage
}

// NewBlobStore creates a blob store instance based on configuration
func NewBlobStore(ctx context.Context, cfg BlobConfig) (BlobStore, error) {
	switch cfg.Type {
	case BackendLocal:
		return NewLocalBlobStore(cfg.LocalPath)
	case BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.DBURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return NewPostgresBlobStore(ctx, pool)
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.Type)
	}
}

// NewBlobStoreFromEnv creates a blob store instance from environment variables
func NewBlobStoreFromEnv(ctx context.Context) (BlobStore, error) {
	backend := os.Getenv("STORE_BACKEND")
	if backend == "" {
		backend = "local" // default to local for development
	}

	cfg := BlobConfig{Type: BackendType(backend)}

	switch cfg.Type {
	case BackendLocal:
		cfg.LocalPath = os.Getenv("STORE_LOCAL_PATH")
		if cfg.LocalPath == "" {
			cfg.LocalPath = "./data/records"
		}
	case BackendPostgres:
		cfg.DBURL = os.Getenv("DATABASE_URL")
		if cfg.DBURL == "" {
			return nil, errors.New("DATABASE_URL environment variable is required for the postgres backend")
		}
	}

	return NewBlobStore(ctx, cfg)
}
