package upload

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nke/backend/internal/storage"
)

func fileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename="%s"`, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	return form.File["files"][0]
}

func TestImageRulesRejectPDF(t *testing.T) {
	fh := fileHeader(t, "doc.pdf", "application/pdf", []byte("%PDF"))
	err := ImageRules.Check(fh)
	assert.ErrorIs(t, err, ErrImageType)
	assert.True(t, IsReject(err))
}

func TestCatalogueRulesRejectImage(t *testing.T) {
	fh := fileHeader(t, "photo.jpg", "image/jpeg", []byte("jpg"))
	assert.ErrorIs(t, CatalogueRules.Check(fh), ErrCatalogueType)
}

func TestCatalogueRulesAcceptPDF(t *testing.T) {
	fh := fileHeader(t, "doc.pdf", "application/pdf", []byte("%PDF"))
	assert.NoError(t, CatalogueRules.Check(fh))
}

// sizedHeader fabricates a FileHeader with an arbitrary declared size,
// avoiding a multi-megabyte body just to trip the ceiling.
func sizedHeader(filename, contentType string, size int64) *multipart.FileHeader {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Type", contentType)
	return &multipart.FileHeader{Filename: filename, Header: h, Size: size}
}

func TestImageRulesRejectOversize(t *testing.T) {
	fh := sizedHeader("huge.jpg", "image/jpeg", MaxImageSize+1)
	err := ImageRules.Check(fh)
	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.True(t, IsReject(err))

	assert.NoError(t, ImageRules.Check(sizedHeader("fits.jpg", "image/jpeg", MaxImageSize)))
}

func TestCatalogueRulesRejectOversize(t *testing.T) {
	fh := sizedHeader("huge.pdf", "application/pdf", MaxCatalogueSize+1)
	err := CatalogueRules.Check(fh)
	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.True(t, IsReject(err))

	assert.NoError(t, CatalogueRules.Check(sizedHeader("fits.pdf", "application/pdf", MaxCatalogueSize)))
}

func TestCheckBatchRejectsOversizeMember(t *testing.T) {
	files := []*multipart.FileHeader{
		fileHeader(t, "a.png", "image/png", []byte("png")),
		sizedHeader("b.png", "image/png", MaxImageSize+1),
	}
	assert.ErrorIs(t, ImageRules.CheckBatch(files), ErrFileTooLarge)
}

func TestCheckBatchTooManyFiles(t *testing.T) {
	files := make([]*multipart.FileHeader, 0, MaxBatchFiles+1)
	for i := 0; i <= MaxBatchFiles; i++ {
		files = append(files, fileHeader(t, fmt.Sprintf("img-%d.png", i), "image/png", []byte("png")))
	}
	assert.ErrorIs(t, ImageRules.CheckBatch(files), ErrTooManyFiles)

	assert.NoError(t, ImageRules.CheckBatch(files[:MaxBatchFiles]))
}

func TestCheckBatchMixedTypesRejected(t *testing.T) {
	files := []*multipart.FileHeader{
		fileHeader(t, "a.png", "image/png", []byte("png")),
		fileHeader(t, "b.pdf", "application/pdf", []byte("%PDF")),
	}
	assert.ErrorIs(t, ImageRules.CheckBatch(files), ErrImageType)
}

func TestBatchSaveAllStoresEveryFile(t *testing.T) {
	store := storage.NewMemory()
	batch := NewBatch(store)

	files := []*multipart.FileHeader{
		fileHeader(t, "one.jpg", "image/jpeg", []byte("first")),
		fileHeader(t, "two.jpg", "image/jpeg", []byte("second")),
	}

	assets, err := batch.SaveAll(context.Background(), files, "images", "image")
	require.NoError(t, err)
	require.Len(t, assets, 2)

	// Input order is preserved for positional metadata pairing.
	assert.Equal(t, "one.jpg", assets[0].OriginalName)
	assert.Equal(t, "two.jpg", assets[1].OriginalName)

	seen := map[string]bool{}
	for _, a := range assets {
		assert.True(t, strings.HasPrefix(a.Path, "images/image-"))
		assert.True(t, strings.HasSuffix(a.Path, ".jpg"))
		assert.Equal(t, store.PublicURL(a.Path), a.URL)
		assert.True(t, store.Has(a.Path))
		assert.False(t, seen[a.Path], "paths must be distinct")
		seen[a.Path] = true
	}
}

func TestBatchRollbackDeletesEverything(t *testing.T) {
	store := storage.NewMemory()
	batch := NewBatch(store)

	fh := fileHeader(t, "one.jpg", "image/jpeg", []byte("first"))
	asset, err := batch.Save(context.Background(), fh, "images", "image")
	require.NoError(t, err)
	require.True(t, store.Has(asset.Path))

	batch.Rollback(context.Background())
	assert.False(t, store.Has(asset.Path))
	assert.Equal(t, 0, store.Len())
}

func TestBatchCommitDisarmsRollback(t *testing.T) {
	store := storage.NewMemory()
	batch := NewBatch(store)

	fh := fileHeader(t, "one.jpg", "image/jpeg", []byte("first"))
	asset, err := batch.Save(context.Background(), fh, "images", "image")
	require.NoError(t, err)

	batch.Commit()
	batch.Rollback(context.Background())
	assert.True(t, store.Has(asset.Path))
}

func TestBatchRollbackSwallowsDeleteFailures(t *testing.T) {
	store := storage.NewMemory()
	store.FailDelete = true
	batch := NewBatch(store)

	fh := fileHeader(t, "one.jpg", "image/jpeg", []byte("first"))
	_, err := batch.Save(context.Background(), fh, "images", "image")
	require.NoError(t, err)

	// Must not panic or propagate anything.
	batch.Rollback(context.Background())
}

func TestBatchSaveAllFailureRollsBackSucceededUploads(t *testing.T) {
	store := storage.NewMemory()
	store.FailSubstr = ".bad"
	batch := NewBatch(store)

	files := []*multipart.FileHeader{
		fileHeader(t, "ok.jpg", "image/jpeg", []byte("first")),
		fileHeader(t, "broken.bad", "image/jpeg", []byte("second")),
	}

	_, err := batch.SaveAll(context.Background(), files, "images", "image")
	require.Error(t, err)

	batch.Rollback(context.Background())
	assert.Equal(t, 0, store.Len(), "no blob from the failed batch may survive")
}

func TestObjectKeyKeepsExtension(t *testing.T) {
	k1 := storage.ObjectKey("clients", "client-logo", "acme logo.PNG")
	k2 := storage.ObjectKey("clients", "client-logo", "acme logo.PNG")
	assert.True(t, strings.HasPrefix(k1, "clients/client-logo-"))
	assert.True(t, strings.HasSuffix(k1, ".PNG"))
	assert.NotEqual(t, k1, k2)
}
