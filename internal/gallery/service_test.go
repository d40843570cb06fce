package gallery

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nke/backend/internal/recordstore"
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

func newTestService() (*Service, *recordstore.Memory, *storage.Memory) {
	rs := recordstore.NewMemory()
	store := storage.NewMemory()
	return NewService(rs, store, zap.NewNop().Sugar()), rs, store
}

func TestAddBatchPairsNamesWithFiles(t *testing.T) {
	svc, _, store := newTestService()

	files := []*multipart.FileHeader{
		fileHeader(t, "site.jpg", "image/jpeg", bytes.Repeat([]byte("a"), 1<<20)),
		fileHeader(t, "office.jpg", "image/jpeg", []byte("b")),
	}

	imgs, err := svc.AddBatch(context.Background(), files, []string{"Site visit", ""})
	require.NoError(t, err)
	require.Len(t, imgs, 2)

	assert.Equal(t, "Site visit", imgs[0].Name)
	assert.Equal(t, "office.jpg", imgs[1].Name, "blank name falls back to the original filename")
	assert.Equal(t, "1.0 MB", imgs[0].Size)
	for _, img := range imgs {
		assert.True(t, store.Has(img.Path))
		assert.NotEmpty(t, img.Date)
	}
}

func TestAddBatchPushFailureLeavesNothing(t *testing.T) {
	svc, rs, store := newTestService()

	recordstore.FailNextPush(rs.Collection(Collection), errors.New("db down"))

	files := []*multipart.FileHeader{
		fileHeader(t, "one.jpg", "image/jpeg", []byte("1")),
		fileHeader(t, "two.jpg", "image/jpeg", []byte("2")),
	}

	_, err := svc.AddBatch(context.Background(), files, nil)
	require.Error(t, err)

	assert.Equal(t, 0, store.Len(), "no blobs survive a failed batch")
	recs, err := rs.Collection(Collection).All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, recs, "no records survive a failed batch")
}

func TestListSearchNewestFirst(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.AddBatch(ctx, []*multipart.FileHeader{
		fileHeader(t, "a.jpg", "image/jpeg", []byte("a")),
	}, []string{"Warehouse tour"})
	require.NoError(t, err)
	_, err = svc.AddBatch(ctx, []*multipart.FileHeader{
		fileHeader(t, "b.jpg", "image/jpeg", []byte("b")),
	}, []string{"Open day"})
	require.NoError(t, err)

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Open day", all[0].Name, "newest first")

	hits, err := svc.List(ctx, "warehouse")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Warehouse tour", hits[0].Name)
}

func TestUpdateRenameOnly(t *testing.T) {
	svc, _, store := newTestService()
	ctx := context.Background()

	imgs, err := svc.AddBatch(ctx, []*multipart.FileHeader{
		fileHeader(t, "a.jpg", "image/jpeg", []byte("a")),
	}, []string{"Before"})
	require.NoError(t, err)

	require.NoError(t, svc.Update(ctx, imgs[0].ID, "After", nil))

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "After", all[0].Name)
	assert.True(t, store.Has(imgs[0].Path), "rename keeps the blob")
}

func TestUpdateReplacesBlob(t *testing.T) {
	svc, _, store := newTestService()
	ctx := context.Background()

	imgs, err := svc.AddBatch(ctx, []*multipart.FileHeader{
		fileHeader(t, "a.jpg", "image/jpeg", []byte("a")),
	}, []string{"Shot"})
	require.NoError(t, err)

	replacement := fileHeader(t, "b.jpg", "image/jpeg", []byte("bb"))
	require.NoError(t, svc.Update(ctx, imgs[0].ID, "Shot", replacement))

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.NotEqual(t, imgs[0].Path, all[0].Path)
	assert.False(t, store.Has(imgs[0].Path), "old blob is deleted after the record update")
	assert.True(t, store.Has(all[0].Path))
}

func TestUpdateMissingImage(t *testing.T) {
	svc, _, _ := newTestService()
	err := svc.Update(context.Background(), "missing", "x", nil)
	assert.ErrorIs(t, err, recordstore.ErrNotFound)
}

func TestDelete(t *testing.T) {
	svc, _, store := newTestService()
	ctx := context.Background()

	imgs, err := svc.AddBatch(ctx, []*multipart.FileHeader{
		fileHeader(t, "a.jpg", "image/jpeg", []byte("a")),
	}, nil)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, imgs[0].ID))
	assert.Equal(t, 0, store.Len())
	assert.ErrorIs(t, svc.Delete(ctx, imgs[0].ID), recordstore.ErrNotFound)
}
