// Package store is the application/order record store. Entities live in named
// collections serialized as JSON documents over a pluggable key-value backend
// (memory, redis or postgres). All mutations go through the Store so
// read-modify-write sequences are atomic within the process.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Canonical collection keys. Earlier revisions of the portal grew two
// overlapping key sets; this is the single authoritative one.
const (
	KeyApplications  = "egazette_applications"
	KeyOrders        = "egazette_orders"
	KeyNotifications = "egazette_notifications"
	KeyAuthState     = "egazette_auth"
	KeyUserProfile   = "egazette_user_profile"
	KeyServices      = "egazette_services"
)

func CollectionKeys() []string {
	return []string{
		KeyApplications,
		KeyOrders,
		KeyNotifications,
		KeyAuthState,
		KeyUserProfile,
		KeyServices,
	}
}

type Store struct {
	mu      sync.Mutex
	backend Backend
	logger  *logrus.Logger
	now     func() time.Time
}

func Open(backend Backend, logger *logrus.Logger) *Store {
	return &Store{
		backend: backend,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *Store) Close() error {
	return s.backend.Close()
}

// Clear removes the given collections, or every canonical collection when
// none are named. Used by tests and explicit user resets.
func (s *Store) Clear(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(keys) == 0 {
		keys = CollectionKeys()
	}

	for _, key := range keys {
		if err := s.backend.Delete(ctx, key); err != nil {
			return fmt.Errorf("clear collection %s: %w", key, err)
		}
	}
	return nil
}

// rawCollection loads a collection as generic records. A missing collection
// is an empty one; a corrupt payload is an error the caller decides about.
func (s *Store) rawCollection(ctx context.Context, key string) ([]map[string]any, error) {
	raw, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read collection %s: %w", key, err)
	}
	if !ok {
		return []map[string]any{}, nil
	}

	var records []map[string]any
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode collection %s: %w", key, err)
	}
	return records, nil
}

func (s *Store) writeRaw(ctx context.Context, key string, records []map[string]any) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", key, err)
	}
	if err := s.backend.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("write collection %s: %w", key, err)
	}
	return nil
}

// UpdateByID merges patch over the record whose "id" field equals id and
// stamps updatedAt. A missing id is a no-op, not an error: the caller asked
// to patch a record that is not there, and the collection stays untouched.
func (s *Store) UpdateByID(ctx context.Context, key, id string, patch map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.rawCollection(ctx, key)
	if err != nil {
		return err
	}

	updated := false
	for _, record := range records {
		if record["id"] != id {
			continue
		}
		for field, value := range patch {
			record[field] = value
		}
		record["updatedAt"] = s.now().UTC().Format(time.RFC3339Nano)
		updated = true
		break
	}

	if !updated {
		s.logger.WithFields(logrus.Fields{
			"collection": key,
			"id":         id,
		}).Debug("update target not found, collection unchanged")
		return nil
	}

	return s.writeRaw(ctx, key, records)
}

// Collection returns the decoded contents of a collection, empty when the
// key has never been written.
func Collection[T any](ctx context.Context, s *Store, key string) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return collectionLocked[T](ctx, s, key)
}

func collectionLocked[T any](ctx context.Context, s *Store, key string) ([]T, error) {
	raw, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read collection %s: %w", key, err)
	}
	if !ok {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode collection %s: %w", key, err)
	}
	return items, nil
}

// SaveCollection overwrites the entire collection, preserving item order.
func SaveCollection[T any](ctx context.Context, s *Store, key string, items []T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return saveCollectionLocked(ctx, s, key, items)
}

func saveCollectionLocked[T any](ctx context.Context, s *Store, key string, items []T) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", key, err)
	}
	if err := s.backend.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("write collection %s: %w", key, err)
	}
	return nil
}

// AddItem appends one item to a collection.
func AddItem[T any](ctx context.Context, s *Store, key string, item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := collectionLocked[T](ctx, s, key)
	if err != nil {
		return err
	}
	return saveCollectionLocked(ctx, s, key, append(items, item))
}

// FilterByUserID returns the subset of a collection whose "userId" field
// matches, preserving collection order.
func FilterByUserID[T any](ctx context.Context, s *Store, key, userID string) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.rawCollection(ctx, key)
	if err != nil {
		return nil, err
	}

	matched := make([]map[string]any, 0, len(records))
	for _, record := range records {
		if record["userId"] == userID {
			matched = append(matched, record)
		}
	}

	raw, err := json.Marshal(matched)
	if err != nil {
		return nil, fmt.Errorf("encode filtered collection %s: %w", key, err)
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode filtered collection %s: %w", key, err)
	}
	return items, nil
}
