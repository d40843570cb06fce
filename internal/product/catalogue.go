package product

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/nke/backend/internal/entity"
	"github.com/nke/backend/internal/recordstore"
	"github.com/nke/backend/internal/upload"
)

// ReplaceCatalogue uploads a new catalogue PDF for the category and retires
// any previous one: the old blob is deleted best-effort and its record
// removed before the replacement is pushed. Concurrent replacements for the
// same category are not serialized; last writer wins, at worst leaving a
// short-lived duplicate.
func (s *Service) ReplaceCatalogue(ctx context.Context, category string, file *multipart.FileHeader) (*CategoryCatalogue, error) {
	batch := upload.NewBatch(s.store)
	defer batch.Rollback(ctx)

	asset, err := batch.Save(ctx, file, catalogueDir, "catalogue")
	if err != nil {
		return nil, fmt.Errorf("upload catalogue: %w", err)
	}

	now := entity.Timestamp()
	cc := &CategoryCatalogue{
		Category:  category,
		Catalogue: &asset,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := entity.Validation(cc.Validate()); err != nil {
		return nil, err
	}

	existing, err := s.catalogues.QueryByField(ctx, "category", category)
	if err != nil {
		return nil, fmt.Errorf("look up existing catalogue: %w", err)
	}
	if len(existing) > 0 {
		var old CategoryCatalogue
		if err := existing[0].Decode(&old); err == nil && old.Catalogue != nil {
			upload.DeleteQuietly(ctx, s.store, old.Catalogue.Path)
		}
		if err := s.catalogues.Delete(ctx, existing[0].Key); err != nil {
			return nil, fmt.Errorf("remove previous catalogue: %w", err)
		}
	}

	key, err := s.catalogues.Push(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("store catalogue: %w", err)
	}
	cc.ID = key
	batch.Commit()

	s.log.Infow("category catalogue replaced", "category", category, "id", key)
	return cc, nil
}

// GetCatalogue returns the catalogue attached to a category.
func (s *Service) GetCatalogue(ctx context.Context, category string) (*CategoryCatalogue, error) {
	recs, err := s.catalogues.QueryByField(ctx, "category", category)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, recordstore.ErrNotFound
	}

	var cc CategoryCatalogue
	if err := recs[0].Decode(&cc); err != nil {
		return nil, fmt.Errorf("decode catalogue %s: %w", recs[0].Key, err)
	}
	cc.ID = recs[0].Key
	return &cc, nil
}

// DeleteCatalogue removes a category's catalogue record and best-effort
// deletes its blob.
func (s *Service) DeleteCatalogue(ctx context.Context, category string) error {
	recs, err := s.catalogues.QueryByField(ctx, "category", category)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		return recordstore.ErrNotFound
	}

	var cc CategoryCatalogue
	if err := recs[0].Decode(&cc); err == nil && cc.Catalogue != nil {
		upload.DeleteQuietly(ctx, s.store, cc.Catalogue.Path)
	}

	if err := s.catalogues.Delete(ctx, recs[0].Key); err != nil {
		return fmt.Errorf("delete catalogue: %w", err)
	}
	s.log.Infow("category catalogue deleted", "category", category)
	return nil
}

// siteCategories is the fixed category order shown on the public site.
var siteCategories = []string{
	"Desktops",
	"Laptops",
	"Printers",
	"Projectors",
	"Interactive Panels",
	"Scanners",
	"CCTV Systems",
	"UPS Systems",
	"Accessories",
}

// CategoryGroup is the public storefront view of one category: its products
// plus the catalogue download link, if any.
type CategoryGroup struct {
	ID        int           `json:"id"`
	Name      string        `json:"name"`
	Catalogue string        `json:"catalogue,omitempty"`
	Items     []GroupedItem `json:"items"`
}

// GroupedItem is the trimmed product shape used in the grouped view.
type GroupedItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
	Specs string `json:"specs"`
}

// Grouped assembles the public category view: products grouped by the fixed
// category list, each group annotated with its catalogue URL. Categories with
// no products are omitted.
func (s *Service) Grouped(ctx context.Context) ([]CategoryGroup, error) {
	prodRecs, err := s.products.All(ctx)
	if err != nil {
		return nil, err
	}
	catRecs, err := s.catalogues.All(ctx)
	if err != nil {
		return nil, err
	}

	catalogueByCategory := make(map[string]string, len(catRecs))
	for _, rec := range catRecs {
		var cc CategoryCatalogue
		if err := rec.Decode(&cc); err != nil {
			continue
		}
		if cc.Catalogue != nil {
			catalogueByCategory[cc.Category] = cc.Catalogue.URL
		}
	}

	byCategory := make(map[string][]GroupedItem)
	for _, rec := range prodRecs {
		var p Product
		if err := rec.Decode(&p); err != nil {
			continue
		}
		item := GroupedItem{
			ID:    rec.Key,
			Name:  p.Name,
			Specs: strings.Join(p.Specs, ", "),
		}
		if len(p.Images) > 0 {
			item.Image = p.Images[0].URL
		}
		byCategory[p.Category] = append(byCategory[p.Category], item)
	}

	groups := make([]CategoryGroup, 0, len(siteCategories))
	for i, name := range siteCategories {
		items := byCategory[name]
		if len(items) == 0 {
			continue
		}
		groups = append(groups, CategoryGroup{
			ID:        i + 1,
			Name:      name,
			Catalogue: catalogueByCategory[name],
			Items:     items,
		})
	}
	return groups, nil
}
