package gallery

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"go.uber.org/zap"

	"github.com/nke/backend/internal/entity"
	"github.com/nke/backend/internal/recordstore"
	"github.com/nke/backend/internal/storage"
	"github.com/nke/backend/internal/upload"
)

// Service contains business logic for the photo gallery.
type Service struct {
	images recordstore.Collection
	store  storage.Storage
	log    *zap.SugaredLogger
}

// NewService creates a gallery Service on the given record and blob stores.
func NewService(rs recordstore.Store, store storage.Storage, log *zap.SugaredLogger) *Service {
	return &Service{images: rs.Collection(Collection), store: store, log: log}
}

// AddBatch uploads the files as one batch and creates one record per file.
// names pairs positionally with files; a missing name falls back to the
// original filename. Any failure deletes every blob and record created so
// far in this batch.
func (s *Service) AddBatch(ctx context.Context, files []*multipart.FileHeader, names []string) ([]Image, error) {
	batch := upload.NewBatch(s.store)
	defer batch.Rollback(ctx)

	assets, err := batch.SaveAll(ctx, files, imageDir, "gallery")
	if err != nil {
		return nil, fmt.Errorf("upload images: %w", err)
	}

	images := make([]Image, 0, len(assets))
	var pushed []string
	for i, asset := range assets {
		name := ""
		if i < len(names) {
			name = names[i]
		}
		img := build(asset, name, files[i].Size)
		if verr := entity.Validation(img.Validate()); verr != nil {
			s.discardRecords(ctx, pushed)
			return nil, verr
		}

		key, err := s.images.Push(ctx, img)
		if err != nil {
			s.discardRecords(ctx, pushed)
			return nil, fmt.Errorf("store image: %w", err)
		}
		img.ID = key
		pushed = append(pushed, key)
		images = append(images, *img)
	}

	batch.Commit()
	s.log.Infow("gallery images added", "count", len(images))
	return images, nil
}

// discardRecords removes records created earlier in a failed batch so that a
// partial failure leaves zero records behind.
func (s *Service) discardRecords(ctx context.Context, keys []string) {
	for _, key := range keys {
		_ = s.images.Delete(ctx, key)
	}
}

// List returns all images newest-first, optionally filtered by a
// case-insensitive substring match on name.
func (s *Service) List(ctx context.Context, search string) ([]Image, error) {
	recs, err := s.images.All(ctx)
	if err != nil {
		return nil, err
	}

	term := strings.ToLower(search)
	images := make([]Image, 0, len(recs))
	for _, rec := range recs {
		var img Image
		if err := rec.Decode(&img); err != nil {
			return nil, fmt.Errorf("decode image %s: %w", rec.Key, err)
		}
		img.ID = rec.Key
		if term != "" && !strings.Contains(strings.ToLower(img.Name), term) {
			continue
		}
		images = append(images, img)
	}

	for i, j := 0, len(images)-1; i < j; i, j = i+1, j-1 {
		images[i], images[j] = images[j], images[i]
	}
	return images, nil
}

// Update renames an image and optionally replaces its binary. When a new
// file is supplied the old blob is deleted best-effort after the record is
// rewritten to point at the replacement.
func (s *Service) Update(ctx context.Context, id, name string, newFile *multipart.FileHeader) error {
	var existing Image
	if err := s.images.Get(ctx, id, &existing); err != nil {
		return err
	}

	fields := map[string]any{
		"updatedAt": entity.Timestamp(),
	}
	if name != "" {
		fields["name"] = name
	}

	oldPath := ""
	if newFile != nil {
		batch := upload.NewBatch(s.store)
		defer batch.Rollback(ctx)

		asset, err := batch.Save(ctx, newFile, imageDir, "gallery")
		if err != nil {
			return fmt.Errorf("upload replacement: %w", err)
		}
		fields["url"] = asset.URL
		fields["path"] = asset.Path
		fields["filename"] = asset.Filename
		fields["originalName"] = asset.OriginalName
		fields["size"] = displaySize(newFile.Size)
		oldPath = existing.Path

		if err := s.images.Update(ctx, id, fields); err != nil {
			return fmt.Errorf("update image: %w", err)
		}
		batch.Commit()
	} else {
		if err := s.images.Update(ctx, id, fields); err != nil {
			return fmt.Errorf("update image: %w", err)
		}
	}

	upload.DeleteQuietly(ctx, s.store, oldPath)
	s.log.Infow("gallery image updated", "id", id)
	return nil
}

// Delete removes the record and best-effort deletes its blob.
func (s *Service) Delete(ctx context.Context, id string) error {
	var img Image
	if err := s.images.Get(ctx, id, &img); err != nil {
		return err
	}

	upload.DeleteQuietly(ctx, s.store, img.Path)

	if err := s.images.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	s.log.Infow("gallery image deleted", "id", id)
	return nil
}
