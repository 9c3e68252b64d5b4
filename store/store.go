package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// Record is one JSON-shaped entity instance in a collection. Every stored
// record carries a store-assigned "id" and "created_date"; all other
// fields are collection-specific.
type Record map[string]any

const (
	defaultCacheTTL = 5 * time.Minute

	fieldID          = "id"
	fieldCreatedDate = "created_date"

	// Fixed-width ISO-8601 (millisecond precision) so timestamp strings
	// sort chronologically.
	timestampFormat = "2006-01-02T15:04:05.000Z"
)

// Store maps collection names to ordered lists of records, persisted
// through a BlobStore. Every operation is a synchronous read-modify-write
// of the whole collection under a single mutex; it is not safe against
// concurrent writers from other processes (last writer wins).
type Store struct {
	blobs BlobStore
	cache *gocache.Cache
	mu    sync.Mutex
}

// New creates a record store over the given blob backend
func New(blobs BlobStore) *Store {
	return &Store{
		blobs: blobs,
		cache: gocache.New(defaultCacheTTL, 2*defaultCacheTTL),
	}
}

// List returns all records in a collection, optionally ordered by a field
// ("field" ascending, "-field" descending).
func (s *Store) List(ctx context.Context, collection, order string) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read(ctx, collection)
	if err != nil {
		return nil, err
	}
	return applyOrder(records, order), nil
}

// Filter returns records where every key in where matches the record's
// field exactly. Ordering rules are the same as List.
func (s *Store) Filter(ctx context.Context, collection string, where map[string]any, order string) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read(ctx, collection)
	if err != nil {
		return nil, err
	}

	matched := make([]Record, 0, len(records))
	for _, r := range records {
		if matches(r, where) {
			matched = append(matched, r)
		}
	}
	return applyOrder(matched, order), nil
}

// Get returns the record with the given id, or ErrNotFound
func (s *Store) Get(ctx context.Context, collection, id string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read(ctx, collection)
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		if r[fieldID] == id {
			return r, nil
		}
	}
	return nil, ErrNotFound
}

// Create assigns a fresh id and creation timestamp, appends the record to
// the collection, persists it, and returns the stored record. The id and
// created_date fields are store-assigned and cannot be supplied by the
// caller.
func (s *Store) Create(ctx context.Context, collection string, data Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read(ctx, collection)
	if err != nil {
		return nil, err
	}

	record := make(Record, len(data)+2)
	for k, v := range data {
		record[k] = v
	}
	record[fieldID] = uuid.NewString()
	record[fieldCreatedDate] = time.Now().UTC().Format(timestampFormat)

	// Cached slices are shared with earlier readers; never append in place.
	next := make([]Record, len(records), len(records)+1)
	copy(next, records)
	next = append(next, record)
	if err := s.write(ctx, collection, next); err != nil {
		return nil, err
	}
	return record, nil
}

// Update shallow-merges patch over the existing record: patch fields
// overwrite, all others stay untouched, and id/created_date are immutable.
// Returns ErrNotFound if the id is absent.
func (s *Store) Update(ctx context.Context, collection, id string, patch map[string]any) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read(ctx, collection)
	if err != nil {
		return nil, err
	}

	for i, r := range records {
		if r[fieldID] != id {
			continue
		}
		// Records handed out by Get/List/Filter alias the cached maps, so
		// the merge goes into a fresh copy rather than the shared one.
		merged := make(Record, len(r)+len(patch))
		for k, v := range r {
			merged[k] = v
		}
		for k, v := range patch {
			if k == fieldID || k == fieldCreatedDate {
				continue
			}
			merged[k] = v
		}
		next := make([]Record, len(records))
		copy(next, records)
		next[i] = merged
		if err := s.write(ctx, collection, next); err != nil {
			return nil, err
		}
		return merged, nil
	}
	return nil, ErrNotFound
}

// Delete removes the record with the given id. Absence is not an error,
// so repeated deletes are idempotent.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read(ctx, collection)
	if err != nil {
		return err
	}

	kept := make([]Record, 0, len(records))
	found := false
	for _, r := range records {
		if r[fieldID] == id {
			found = true
			continue
		}
		kept = append(kept, r)
	}
	if !found {
		return nil
	}
	return s.write(ctx, collection, kept)
}

// read loads a collection, consulting the cache first. Callers must hold
// the store mutex.
func (s *Store) read(ctx context.Context, collection string) ([]Record, error) {
	if cached, ok := s.cache.Get(collection); ok {
		return cached.([]Record), nil
	}

	data, err := s.blobs.Get(ctx, collection)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("corrupt collection %s: %w", collection, err)
	}
	s.cache.Set(collection, records, gocache.DefaultExpiration)
	return records, nil
}

// write persists a collection and refreshes the cache. An empty
// collection is stored as an absent blob, since Get treats the two the
// same. Callers must hold the store mutex.
func (s *Store) write(ctx context.Context, collection string, records []Record) error {
	if len(records) == 0 {
		if err := s.blobs.Delete(ctx, collection); err != nil {
			s.cache.Delete(collection)
			return err
		}
		s.cache.Set(collection, []Record{}, gocache.DefaultExpiration)
		return nil
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode collection %s: %w", collection, err)
	}
	if err := s.blobs.Set(ctx, collection, data); err != nil {
		s.cache.Delete(collection)
		return err
	}
	s.cache.Set(collection, records, gocache.DefaultExpiration)
	return nil
}

// matches reports whether every key in where equals the record's field
// exactly (JSON-value equality, no partial or range matching).
func matches(r Record, where map[string]any) bool {
	for k, want := range where {
		got, ok := r[k]
		if !ok || !jsonEqual(got, want) {
			return false
		}
	}
	return true
}

// jsonEqual compares two values by their canonical JSON encoding, so
// predicate values supplied as Go types (ints, typed strings) match the
// float64/string values decoded from storage.
func jsonEqual(a, b any) bool {
	ja, err := json.Marshal(a)
	if err != nil {
		return false
	}
	jb, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return string(ja) == string(jb)
}

// applyOrder sorts records by the order key: "field" ascending or
// "-field" descending. Records lacking a value for the field sort after
// records that have one; the sort is stable.
func applyOrder(records []Record, order string) []Record {
	if order == "" {
		return records
	}
	field := order
	desc := false
	if strings.HasPrefix(order, "-") {
		field = order[1:]
		desc = true
	}

	out := make([]Record, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		va, okA := out[i][field]
		vb, okB := out[j][field]
		if !okA || va == nil {
			return false // missing sorts after present, in either direction
		}
		if !okB || vb == nil {
			return true
		}
		if desc {
			return valueLess(vb, va)
		}
		return valueLess(va, vb)
	})
	return out
}

// valueLess orders two non-nil JSON values: numbers numerically, strings
// lexically, and everything else by its JSON encoding.
func valueLess(a, b any) bool {
	if na, ok := a.(float64); ok {
		if nb, ok := b.(float64); ok {
			return na < nb
		}
	}
	if sa, ok := a.(string); ok {
		if sb, ok := b.(string); ok {
			return sa < sb
		}
	}
	ja, _ := json.Marshal(a)
	jb, _ := json.Marshal(b)
	return string(ja) < string(jb)
}
