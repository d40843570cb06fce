// Package storage defines the interface for object storage operations.
// Swap implementations by changing the concrete type injected at startup —
// the MinIO implementation works with any S3-compatible provider.
package storage

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"path"
	"time"
)

// Storage is the interface for uploading and removing binary objects.
type Storage interface {
	// Save streams data to the store under the given key.
	Save(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	// Delete removes an object identified by key.
	Delete(ctx context.Context, key string) error
	// PublicURL constructs the browser-accessible URL for a given key.
	PublicURL(key string) string
}

// ObjectKey builds a collision-resistant object key under dir:
// "<dir>/<label>-<timestamp>-<random><ext>", preserving the original
// file extension for content-type sniffing by browsers.
func ObjectKey(dir, label, originalName string) string {
	suffix := fmt.Sprintf("%d-%09d", time.Now().UnixMilli(), rand.Intn(1_000_000_000))
	return dir + "/" + label + "-" + suffix + path.Ext(originalName)
}
