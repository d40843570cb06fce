package product

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

// Service contains business logic for products and category catalogues.
type Service struct {
	products   recordstore.Collection
	catalogues recordstore.Collection
	store      storage.Storage
	log        *zap.SugaredLogger
}

// NewService creates a product Service on the given record and blob stores.
func NewService(rs recordstore.Store, store storage.Storage, log *zap.SugaredLogger) *Service {
	return &Service{
		products:   rs.Collection(Collection),
		catalogues: rs.Collection(CatalogueCollection),
		store:      store,
		log:        log,
	}
}

// Add uploads the product images as one batch, builds the record, and writes
// it. Any failure after an upload started rolls the whole batch back.
func (s *Service) Add(ctx context.Context, in Input, files []*multipart.FileHeader) (*Product, error) {
	batch := upload.NewBatch(s.store)
	defer batch.Rollback(ctx)

	images, err := batch.SaveAll(ctx, files, imageDir, "image")
	if err != nil {
		return nil, fmt.Errorf("upload images: %w", err)
	}

	p := build(in, images)
	if err := entity.Validation(p.Validate()); err != nil {
		return nil, err
	}

	key, err := s.products.Push(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("store product: %w", err)
	}
	p.ID = key
	batch.Commit()

	s.log.Infow("product added", "id", key, "name", p.Name, "images", len(images))
	return p, nil
}

// Update replaces the product's fields and merges its image list: assets in
// keep stay, new files are uploaded and appended, and every image on the old
// record that is absent from keep has its blob deleted best-effort.
func (s *Service) Update(ctx context.Context, id string, in Input, keep []entity.Asset, files []*multipart.FileHeader) error {
	var existing Product
	if err := s.products.Get(ctx, id, &existing); err != nil {
		return err
	}

	batch := upload.NewBatch(s.store)
	defer batch.Rollback(ctx)

	newImages, err := batch.SaveAll(ctx, files, imageDir, "image")
	if err != nil {
		return fmt.Errorf("upload images: %w", err)
	}

	merged := append(append([]entity.Asset{}, keep...), newImages...)
	updated := build(in, merged)
	if err := entity.Validation(updated.Validate()); err != nil {
		return err
	}

	kept := make(map[string]bool, len(keep))
	for _, a := range keep {
		kept[a.Filename] = true
	}
	var superseded []string
	for _, old := range existing.Images {
		if !kept[old.Filename] {
			superseded = append(superseded, old.Path)
		}
	}
	upload.DeleteQuietly(ctx, s.store, superseded...)

	fields := map[string]any{
		"name":        updated.Name,
		"brand":       updated.Brand,
		"category":    updated.Category,
		"price":       updated.Price,
		"modelNo":     updated.ModelNo,
		"warranty":    updated.Warranty,
		"stockStatus": updated.StockStatus,
		"description": updated.Description,
		"specs":       updated.Specs,
		"images":      merged,
		"updatedAt":   entity.Timestamp(),
	}
	if err := s.products.Update(ctx, id, fields); err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	batch.Commit()

	s.log.Infow("product updated", "id", id, "kept", len(keep), "added", len(newImages), "removed", len(superseded))
	return nil
}

// Delete removes the product record and best-effort deletes its image blobs.
func (s *Service) Delete(ctx context.Context, id string) error {
	var p Product
	if err := s.products.Get(ctx, id, &p); err != nil {
		return err
	}

	paths := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		paths = append(paths, img.Path)
	}
	upload.DeleteQuietly(ctx, s.store, paths...)

	if err := s.products.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	s.log.Infow("product deleted", "id", id)
	return nil
}

// GetByID fetches one product.
func (s *Service) GetByID(ctx context.Context, id string) (*Product, error) {
	var p Product
	if err := s.products.Get(ctx, id, &p); err != nil {
		return nil, err
	}
	p.ID = id
	return &p, nil
}

// List returns all products newest-first, optionally filtered by a
// case-insensitive substring match on name or category.
func (s *Service) List(ctx context.Context, search string) ([]Product, error) {
	recs, err := s.products.All(ctx)
	if err != nil {
		return nil, err
	}

	term := strings.ToLower(search)
	products := make([]Product, 0, len(recs))
	for _, rec := range recs {
		var p Product
		if err := rec.Decode(&p); err != nil {
			return nil, fmt.Errorf("decode product %s: %w", rec.Key, err)
		}
		p.ID = rec.Key
		if term != "" &&
			!strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.Category), term) {
			continue
		}
		products = append(products, p)
	}

	reverse(products)
	return products, nil
}

// ByCategory returns the products of one category, newest-first.
func (s *Service) ByCategory(ctx context.Context, category string) ([]Product, error) {
	recs, err := s.products.QueryByField(ctx, "category", category)
	if err != nil {
		return nil, err
	}

	products := make([]Product, 0, len(recs))
	for _, rec := range recs {
		var p Product
		if err := rec.Decode(&p); err != nil {
			return nil, fmt.Errorf("decode product %s: %w", rec.Key, err)
		}
		p.ID = rec.Key
		products = append(products, p)
	}
	reverse(products)
	return products, nil
}

func reverse(products []Product) {
	for i, j := 0, len(products)-1; i < j; i, j = i+1, j-1 {
		products[i], products[j] = products[j], products[i]
	}
}
