// Package recordstore provides durable storage of JSON records grouped into
// named collections. Keys are generated on insert; iteration order within a
// collection follows insertion order.
package recordstore

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Record is one stored document together with its generated key.
type Record struct {
	Key  string
	Data json.RawMessage
}

// Decode unmarshals the record payload into dst.
func (r Record) Decode(dst any) error {
	return json.Unmarshal(r.Data, dst)
}

// Collection is a key→JSON-object mapping with insertion-ordered iteration.
type Collection interface {
	// Push inserts v under a freshly generated key and returns that key.
	Push(ctx context.Context, v any) (string, error)
	// Get loads the record stored under key into dst.
	Get(ctx context.Context, key string, dst any) error
	// All returns every record in insertion order (oldest first).
	All(ctx context.Context) ([]Record, error)
	// QueryByField returns records whose top-level field equals value,
	// in insertion order.
	QueryByField(ctx context.Context, field, value string) ([]Record, error)
	// Update merges fields into the record stored under key.
	Update(ctx context.Context, key string, fields map[string]any) error
	// Delete removes the record stored under key.
	Delete(ctx context.Context, key string) error
}

// Store hands out collections by name.
type Store interface {
	Collection(name string) Collection
}
