package upload

import (
	"context"
	"fmt"
	"mime/multipart"
	"path"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/nke/backend/internal/entity"
	"github.com/nke/backend/internal/storage"
)

// Batch is a scoped upload transaction. It tracks every object key it touches
// so a single Rollback undoes all of them; callers defer Rollback and call
// Commit once the corresponding records are durably written.
//
//	batch := upload.NewBatch(store)
//	defer batch.Rollback(ctx)
//	assets, err := batch.SaveAll(ctx, files, "images", "image")
//	...
//	batch.Commit()
type Batch struct {
	store storage.Storage

	mu        sync.Mutex
	paths     []string
	committed bool
}

// NewBatch creates an empty batch against the given storage.
func NewBatch(store storage.Storage) *Batch {
	return &Batch{store: store}
}

// Save uploads one multipart file under dir and returns its stored asset.
// The key is tracked before the write starts, so Rollback also covers
// uploads that failed partway.
func (b *Batch) Save(ctx context.Context, fh *multipart.FileHeader, dir, label string) (entity.Asset, error) {
	f, err := fh.Open()
	if err != nil {
		return entity.Asset{}, fmt.Errorf("open upload %q: %w", fh.Filename, err)
	}
	defer f.Close()

	key := storage.ObjectKey(dir, label, fh.Filename)
	b.track(key)

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if err := b.store.Save(ctx, key, f, fh.Size, contentType); err != nil {
		return entity.Asset{}, fmt.Errorf("upload %q: %w", fh.Filename, err)
	}

	return entity.Asset{
		URL:          b.store.PublicURL(key),
		Path:         key,
		Filename:     path.Base(key),
		OriginalName: fh.Filename,
	}, nil
}

// SaveAll uploads files concurrently. The returned assets preserve input
// order so positional metadata (names, captions) pairs with its file. On any
// failure every key the batch touched remains tracked for Rollback.
func (b *Batch) SaveAll(ctx context.Context, files []*multipart.FileHeader, dir, label string) ([]entity.Asset, error) {
	assets := make([]entity.Asset, len(files))

	g, gctx := errgroup.WithContext(ctx)
	for i, fh := range files {
		i, fh := i, fh
		g.Go(func() error {
			a, err := b.Save(gctx, fh, dir, label)
			if err != nil {
				return err
			}
			assets[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return assets, nil
}

// Commit marks the batch as kept; a later Rollback becomes a no-op.
func (b *Batch) Commit() {
	b.mu.Lock()
	b.committed = true
	b.mu.Unlock()
}

// Rollback best-effort deletes every object the batch touched. Delete
// failures are discarded; compensation must never fail the caller.
func (b *Batch) Rollback(ctx context.Context) {
	b.mu.Lock()
	if b.committed {
		b.mu.Unlock()
		return
	}
	paths := b.paths
	b.paths = nil
	b.mu.Unlock()

	DeleteQuietly(ctx, b.store, paths...)
}

func (b *Batch) track(key string) {
	b.mu.Lock()
	b.paths = append(b.paths, key)
	b.mu.Unlock()
}

// DeleteQuietly issues a best-effort delete for each path, swallowing errors.
func DeleteQuietly(ctx context.Context, store storage.Storage, paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		_ = store.Delete(ctx, p)
	}
}
