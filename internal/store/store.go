// Package store provides whole-document key-value persistence. Exactly two
// logical records live here: the current user bundle and the public feed.
// Records are serialized JSON written wholesale on every mutation; callers
// read-modify-write the full object. There are no transactions and no
// versioning — concurrent writers are not coordinated and the last writer
// wins silently.
package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// Storage keys for the two logical records.
const (
	UserKey = "photo_editor_user"
	FeedKey = "lumina_ai_public_feed"
)

// Store is a minimal whole-document key-value store.
type Store interface {
	// Load returns the raw record and whether it exists.
	Load(ctx context.Context, key string) ([]byte, bool, error)
	// Save overwrites the entire record. No partial or merge semantics.
	Save(ctx context.Context, key string, value []byte) error
	// Delete removes the record. Deleting a missing record is not an error.
	Delete(ctx context.Context, key string) error
}

// LoadJSON loads and unmarshals the record at key into dest. A record that
// exists but fails to parse is treated as absent and cleared — availability
// over alerting.
func LoadJSON(ctx context.Context, s Store, key string, dest any) (bool, error) {
	raw, ok, err := s.Load(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		// Corrupt record: discard it and report absent.
		_ = s.Delete(ctx, key)
		return false, nil
	}
	return true, nil
}

// SaveJSON marshals v and overwrites the record at key.
func SaveJSON(ctx context.Context, s Store, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal record %q: %w", key, err)
	}
	return s.Save(ctx, key, b)
}
