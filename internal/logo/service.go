// Package logo manages client and partner logo listings. The two entities
// are identical in shape and lifecycle, so one service covers both; main
// instantiates it once per collection.
package logo

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

// DefaultCategory is assigned when an upload carries no category.
const DefaultCategory = "Uncategorized"

// Logo is one client or partner logo record.
type Logo struct {
	ID        string `json:"id,omitempty"`
	LogoURL   string `json:"logoUrl"`
	Category  string `json:"category"`
	Path      string `json:"path"`
	Filename  string `json:"filename"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// Validate returns every missing required field, in order.
func (l *Logo) Validate() []string {
	return entity.Missing(
		entity.Require("Logo URL is required", l.LogoURL != ""),
		entity.Require("Category is required", l.Category != ""),
	)
}

// Service contains business logic for one logo listing (clients or partners).
type Service struct {
	logos recordstore.Collection
	store storage.Storage
	log   *zap.SugaredLogger

	// kind names the entity in log lines and blob keys: "client" or "partner".
	kind string
	// dir is the blob namespace: "clients" or "partners".
	dir string
}

// NewService creates a logo Service bound to one collection and blob prefix.
func NewService(rs recordstore.Store, store storage.Storage, log *zap.SugaredLogger, collection, dir, kind string) *Service {
	return &Service{
		logos: rs.Collection(collection),
		store: store,
		log:   log,
		kind:  kind,
		dir:   dir,
	}
}

// AddBatch uploads the logo files as one batch and creates one record per
// file. Any failure deletes every blob and record created so far.
func (s *Service) AddBatch(ctx context.Context, files []*multipart.FileHeader, category string) ([]Logo, error) {
	if category == "" {
		category = DefaultCategory
	}

	batch := upload.NewBatch(s.store)
	defer batch.Rollback(ctx)

	assets, err := batch.SaveAll(ctx, files, s.dir, s.kind+"-logo")
	if err != nil {
		return nil, fmt.Errorf("upload logos: %w", err)
	}

	logos := make([]Logo, 0, len(assets))
	var pushed []string
	for _, asset := range assets {
		now := entity.Timestamp()
		l := &Logo{
			LogoURL:   asset.URL,
			Category:  category,
			Path:      asset.Path,
			Filename:  asset.Filename,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if verr := entity.Validation(l.Validate()); verr != nil {
			s.discardRecords(ctx, pushed)
			return nil, verr
		}

		key, err := s.logos.Push(ctx, l)
		if err != nil {
			s.discardRecords(ctx, pushed)
			return nil, fmt.Errorf("store %s: %w", s.kind, err)
		}
		l.ID = key
		pushed = append(pushed, key)
		logos = append(logos, *l)
	}

	batch.Commit()
	s.log.Infow("logos added", "kind", s.kind, "count", len(logos))
	return logos, nil
}

func (s *Service) discardRecords(ctx context.Context, keys []string) {
	for _, key := range keys {
		_ = s.logos.Delete(ctx, key)
	}
}

// List returns all logos newest-first, optionally filtered by a
// case-insensitive substring match on filename or category.
func (s *Service) List(ctx context.Context, search string) ([]Logo, error) {
	recs, err := s.logos.All(ctx)
	if err != nil {
		return nil, err
	}

	term := strings.ToLower(search)
	logos := make([]Logo, 0, len(recs))
	for _, rec := range recs {
		var l Logo
		if err := rec.Decode(&l); err != nil {
			return nil, fmt.Errorf("decode %s %s: %w", s.kind, rec.Key, err)
		}
		l.ID = rec.Key
		if term != "" &&
			!strings.Contains(strings.ToLower(l.Filename), term) &&
			!strings.Contains(strings.ToLower(l.Category), term) {
			continue
		}
		logos = append(logos, l)
	}

	for i, j := 0, len(logos)-1; i < j; i, j = i+1, j-1 {
		logos[i], logos[j] = logos[j], logos[i]
	}
	return logos, nil
}

// Delete removes the record and best-effort deletes its blob.
func (s *Service) Delete(ctx context.Context, id string) error {
	var l Logo
	if err := s.logos.Get(ctx, id, &l); err != nil {
		return err
	}

	upload.DeleteQuietly(ctx, s.store, l.Path)

	if err := s.logos.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete %s: %w", s.kind, err)
	}
	s.log.Infow("logo deleted", "kind", s.kind, "id", id)
	return nil
}
