// Package product manages the product catalog and the per-category catalogue
// documents that accompany it.
package product

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/nke/backend/internal/entity"
)

// Record Store collections and blob namespaces owned by this package.
const (
	Collection          = "products"
	CatalogueCollection = "categoryCatalogues"

	imageDir     = "images"
	catalogueDir = "catalogues"
)

// Product is one catalog entry with zero or more images.
type Product struct {
	ID          string         `json:"id,omitempty"`
	Name        string         `json:"name"`
	Brand       string         `json:"brand"`
	Category    string         `json:"category"`
	Price       float64        `json:"price"`
	ModelNo     string         `json:"modelNo"`
	Warranty    string         `json:"warranty"`
	StockStatus string         `json:"stockStatus,omitempty"`
	Description string         `json:"description"`
	Specs       []string       `json:"specs"`
	Images      []entity.Asset `json:"images"`
	CreatedAt   string         `json:"createdAt"`
	UpdatedAt   string         `json:"updatedAt"`
}

// Validate returns every missing required field, in order.
func (p *Product) Validate() []string {
	return entity.Missing(
		entity.Require("Product name is required", p.Name != ""),
		entity.Require("Brand is required", p.Brand != ""),
		entity.Require("Category is required", p.Category != ""),
		entity.Require("Price is required", p.Price != 0),
		entity.Require("Model number is required", p.ModelNo != ""),
		entity.Require("Warranty information is required", p.Warranty != ""),
		entity.Require("Description is required", p.Description != ""),
	)
}

// CategoryCatalogue is the single PDF document attached to a category.
// At most one record exists per category value.
type CategoryCatalogue struct {
	ID        string        `json:"id,omitempty"`
	Category  string        `json:"category"`
	Catalogue *entity.Asset `json:"catalogue"`
	CreatedAt string        `json:"createdAt"`
	UpdatedAt string        `json:"updatedAt"`
}

// Validate returns every missing required field, in order.
func (c *CategoryCatalogue) Validate() []string {
	return entity.Missing(
		entity.Require("Category is required", c.Category != ""),
		entity.Require("Catalogue file is required", c.Catalogue != nil),
	)
}

// Input carries the raw form fields of a create or update request.
type Input struct {
	Name        string
	Brand       string
	Category    string
	Price       string
	ModelNo     string
	Warranty    string
	StockStatus string
	Description string
	Specs       string
}

// build shapes a validated-later Product from raw input plus stored assets.
// Timestamps are stamped fresh; callers updating an existing record keep the
// original createdAt and persist only changed fields.
func build(in Input, images []entity.Asset) *Product {
	now := entity.Timestamp()
	if images == nil {
		images = []entity.Asset{}
	}
	return &Product{
		Name:        in.Name,
		Brand:       in.Brand,
		Category:    in.Category,
		Price:       parsePrice(in.Price),
		ModelNo:     in.ModelNo,
		Warranty:    in.Warranty,
		StockStatus: in.StockStatus,
		Description: in.Description,
		Specs:       parseSpecs(in.Specs),
		Images:      images,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// parsePrice parses the submitted price, falling back to 0 on bad input so
// validation reports the missing price instead of a parse error.
func parsePrice(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return v
}

// parseSpecs accepts either a JSON array of strings or a single plain value,
// dropping blank entries.
func parseSpecs(raw string) []string {
	var parsed []string
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		parsed = []string{raw}
	}

	specs := make([]string, 0, len(parsed))
	for _, s := range parsed {
		if strings.TrimSpace(s) != "" {
			specs = append(specs, s)
		}
	}
	return specs
}

// parseKeepList decodes the caller-supplied list of existing assets to keep
// during an update. Bad or absent input means "keep none".
func parseKeepList(raw string) []entity.Asset {
	var keep []entity.Asset
	if raw == "" {
		return keep
	}
	_ = json.Unmarshal([]byte(raw), &keep)
	return keep
}
