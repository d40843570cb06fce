// Package gallery manages the photo gallery: batches of uploaded images with
// display names.
package gallery

import (
	"fmt"
	"time"

	"github.com/nke/backend/internal/entity"
)

// Collection is the Record Store collection owned by this package.
const Collection = "gallery"

const imageDir = "gallery"

// Image is one gallery entry.
type Image struct {
	ID           string `json:"id,omitempty"`
	Name         string `json:"name"`
	Size         string `json:"size"`
	URL          string `json:"url"`
	Path         string `json:"path"`
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName,omitempty"`
	// Date is a human display string derived at write time.
	Date      string `json:"date"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// Validate returns every missing required field, in order.
func (i *Image) Validate() []string {
	return entity.Missing(
		entity.Require("Name is required", i.Name != ""),
		entity.Require("Size is required", i.Size != ""),
		entity.Require("Image URL is required", i.URL != ""),
		entity.Require("Storage path is required", i.Path != ""),
		entity.Require("Filename is required", i.Filename != ""),
	)
}

// build shapes an Image from a stored asset plus its display name and byte size.
func build(asset entity.Asset, name string, sizeBytes int64) *Image {
	if name == "" {
		name = asset.OriginalName
	}
	now := entity.Timestamp()
	return &Image{
		Name:         name,
		Size:         displaySize(sizeBytes),
		URL:          asset.URL,
		Path:         asset.Path,
		Filename:     asset.Filename,
		OriginalName: asset.OriginalName,
		Date:         displayDate(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// displaySize renders a byte count the way the admin UI shows it: "2.4 MB".
func displaySize(bytes int64) string {
	return fmt.Sprintf("%.1f MB", float64(bytes)/1024/1024)
}

func displayDate() string {
	return time.Now().Format("January 2, 2006")
}
