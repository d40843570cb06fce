package product

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nke/backend/internal/recordstore"
)

func TestReplaceCatalogueTwiceLeavesOneRecord(t *testing.T) {
	svc, rs, store := newTestService()
	ctx := context.Background()

	first, err := svc.ReplaceCatalogue(ctx, "Laptops",
		fileHeader(t, "v1.pdf", "application/pdf", []byte("first")))
	require.NoError(t, err)
	require.True(t, store.Has(first.Catalogue.Path))

	second, err := svc.ReplaceCatalogue(ctx, "Laptops",
		fileHeader(t, "v2.pdf", "application/pdf", []byte("second")))
	require.NoError(t, err)

	recs, err := rs.Collection(CatalogueCollection).All(ctx)
	require.NoError(t, err)
	assert.Len(t, recs, 1, "exactly one live record per category")

	assert.False(t, store.Has(first.Catalogue.Path), "first blob must be gone")
	assert.True(t, store.Has(second.Catalogue.Path))

	got, err := svc.GetCatalogue(ctx, "Laptops")
	require.NoError(t, err)
	assert.Equal(t, second.Catalogue.Path, got.Catalogue.Path)
}

func TestReplaceCatalogueKeepsOtherCategories(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.ReplaceCatalogue(ctx, "Laptops",
		fileHeader(t, "laptops.pdf", "application/pdf", []byte("a")))
	require.NoError(t, err)
	_, err = svc.ReplaceCatalogue(ctx, "Printers",
		fileHeader(t, "printers.pdf", "application/pdf", []byte("b")))
	require.NoError(t, err)

	_, err = svc.GetCatalogue(ctx, "Laptops")
	assert.NoError(t, err)
	_, err = svc.GetCatalogue(ctx, "Printers")
	assert.NoError(t, err)
}

func TestGetCatalogueMissing(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.GetCatalogue(context.Background(), "Scanners")
	assert.ErrorIs(t, err, recordstore.ErrNotFound)
}

func TestDeleteCatalogue(t *testing.T) {
	svc, _, store := newTestService()
	ctx := context.Background()

	cc, err := svc.ReplaceCatalogue(ctx, "Laptops",
		fileHeader(t, "v1.pdf", "application/pdf", []byte("first")))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCatalogue(ctx, "Laptops"))
	assert.False(t, store.Has(cc.Catalogue.Path))

	assert.ErrorIs(t, svc.DeleteCatalogue(ctx, "Laptops"), recordstore.ErrNotFound)
}

func TestGroupedFollowsSiteCategoryOrder(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	printer := validInput()
	printer.Name = "LaserJet"
	printer.Category = "Printers"
	_, err := svc.Add(ctx, printer, nil)
	require.NoError(t, err)

	laptop := validInput()
	_, err = svc.Add(ctx, laptop, nil)
	require.NoError(t, err)

	cc, err := svc.ReplaceCatalogue(ctx, "Laptops",
		fileHeader(t, "laptops.pdf", "application/pdf", []byte("pdf")))
	require.NoError(t, err)

	groups, err := svc.Grouped(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 2, "empty categories are omitted")

	assert.Equal(t, "Laptops", groups[0].Name, "Laptops precede Printers in the fixed order")
	assert.Equal(t, cc.Catalogue.URL, groups[0].Catalogue)
	assert.Equal(t, "Printers", groups[1].Name)
	assert.Empty(t, groups[1].Catalogue)

	require.Len(t, groups[0].Items, 1)
	assert.Equal(t, "Laptop X", groups[0].Items[0].Name)
	assert.Equal(t, "16GB RAM, 512GB SSD", groups[0].Items[0].Specs)
}
