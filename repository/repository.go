// Package repository provides typed views over the record store, one per
// entity collection. Each repository binds a collection name and validates
// entities at the boundary before they reach the store.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"lexiai-backend/store"
)

// Collection names
const (
	CollectionCases     = "legal_cases"
	CollectionDocuments = "documents"
	CollectionMessages  = "chat_messages"
)

// ErrValidation is wrapped by all entity validation failures
var ErrValidation = errors.New("validation failed")

// Repository is a typed facade over one record store collection. T is the
// entity struct; conversion between T and the stored record goes through
// its JSON encoding.
type Repository[T any] struct {
	store      *store.Store
	collection string
	validate   func(*T) error
}

// NewRepository creates a repository bound to a collection. validate runs
// on every Create and may normalize defaults in place; it may be nil.
func NewRepository[T any](s *store.Store, collection string, validate func(*T) error) *Repository[T] {
	return &Repository[T]{store: s, collection: collection, validate: validate}
}

// List returns all entities in the collection, optionally ordered
// ("field" ascending, "-field" descending).
func (r *Repository[T]) List(ctx context.Context, order string) ([]T, error) {
	records, err := r.store.List(ctx, r.collection, order)
	if err != nil {
		return nil, err
	}
	return decodeAll[T](records)
}

// Filter returns entities matching every key of where exactly
func (r *Repository[T]) Filter(ctx context.Context, where map[string]any, order string) ([]T, error) {
	records, err := r.store.Filter(ctx, r.collection, where, order)
	if err != nil {
		return nil, err
	}
	return decodeAll[T](records)
}

// Get returns the entity with the given id, or store.ErrNotFound
func (r *Repository[T]) Get(ctx context.Context, id string) (*T, error) {
	record, err := r.store.Get(ctx, r.collection, id)
	if err != nil {
		return nil, err
	}
	return decode[T](record)
}

// Create validates the entity and appends it to the collection. The stored
// entity, with its assigned id and created_date, is returned.
func (r *Repository[T]) Create(ctx context.Context, entity *T) (*T, error) {
	if r.validate != nil {
		if err := r.validate(entity); err != nil {
			return nil, err
		}
	}
	data, err := encode(entity)
	if err != nil {
		return nil, err
	}
	record, err := r.store.Create(ctx, r.collection, data)
	if err != nil {
		return nil, err
	}
	return decode[T](record)
}

// Update shallow-merges patch over the stored entity and returns the
// result. Returns store.ErrNotFound if the id is absent.
func (r *Repository[T]) Update(ctx context.Context, id string, patch map[string]any) (*T, error) {
	record, err := r.store.Update(ctx, r.collection, id, patch)
	if err != nil {
		return nil, err
	}
	return decode[T](record)
}

// Delete removes the entity with the given id; absence is not an error
func (r *Repository[T]) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, r.collection, id)
}

func encode[T any](entity *T) (store.Record, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to encode entity: %w", err)
	}
	var record store.Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to encode entity: %w", err)
	}
	return record, nil
}

func decode[T any](record store.Record) (*T, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	var entity T
	if err := json.Unmarshal(data, &entity); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	return &entity, nil
}

func decodeAll[T any](records []store.Record) ([]T, error) {
	out := make([]T, 0, len(records))
	for _, record := range records {
		entity, err := decode[T](record)
		if err != nil {
			return nil, err
		}
		out = append(out, *entity)
	}
	return out, nil
}

// oneOf reports whether value is a member of the allowed enum set
func oneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}
