package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"testing"

	"github.com/Dosada05/versusite/brackets"
	"github.com/Dosada05/versusite/catalog"
	"github.com/Dosada05/versusite/models"
	"github.com/Dosada05/versusite/repositories"
	"github.com/Dosada05/versusite/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCatalogRepo struct {
	mu       sync.Mutex
	catalogs map[string]models.Catalog
}

func newMemoryCatalogRepo() *memoryCatalogRepo {
	return &memoryCatalogRepo{catalogs: map[string]models.Catalog{}}
}

func (r *memoryCatalogRepo) Create(_ context.Context, c *models.Catalog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.catalogs[c.ID] = cloneCatalog(*c)
	return nil
}

func (r *memoryCatalogRepo) GetByID(_ context.Context, id string) (*models.Catalog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.catalogs[id]
	if !ok {
		return nil, repositories.ErrCatalogNotFound
	}
	out := cloneCatalog(c)
	return &out, nil
}

func (r *memoryCatalogRepo) List(_ context.Context, _ repositories.ListCatalogsFilter) ([]models.CatalogSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.CatalogSummary, 0, len(r.catalogs))
	for _, c := range r.catalogs {
		out = append(out, models.CatalogSummary{ID: c.ID, Title: c.Title, ItemCount: len(c.Items)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryCatalogRepo) Update(_ context.Context, c *models.Catalog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.catalogs[c.ID]; !ok {
		return repositories.ErrCatalogNotFound
	}
	r.catalogs[c.ID] = cloneCatalog(*c)
	return nil
}

func (r *memoryCatalogRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.catalogs[id]; !ok {
		return repositories.ErrCatalogNotFound
	}
	delete(r.catalogs, id)
	return nil
}

func cloneCatalog(c models.Catalog) models.Catalog {
	c.Items = append([]models.Item(nil), c.Items...)
	return c
}

type recordingUploader struct {
	uploads map[string][]byte
	err     error
}

func (u *recordingUploader) Upload(_ context.Context, key, _ string, reader io.Reader) (*storage.UploadResult, error) {
	if u.err != nil {
		return nil, u.err
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	if u.uploads == nil {
		u.uploads = map[string][]byte{}
	}
	u.uploads[key] = data
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *recordingUploader) Delete(_ context.Context, key string) error {
	delete(u.uploads, key)
	return nil
}

func (u *recordingUploader) GetPublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

func newTestCatalogService(uploader storage.FileUploader) CatalogService {
	return NewCatalogService(newMemoryCatalogRepo(), uploader, brackets.SequentialIDs("id"), nil)
}

func TestCatalogService_CreateCombinesItemsAndBulkText(t *testing.T) {
	svc := newTestCatalogService(nil)
	ctx := context.Background()

	c, err := svc.CreateCatalog(ctx, CatalogInput{
		Title:    "  Snacks ",
		Items:    []models.Item{{Content: "Chips"}},
		BulkText: "Pretzels\n\nhttps://example.com/popcorn.png",
	})
	require.NoError(t, err)

	assert.Equal(t, "Snacks", c.Title)
	require.Len(t, c.Items, 3)
	assert.Equal(t, "Chips", c.Items[0].Content)
	assert.Equal(t, models.ItemTypeImage, c.Items[2].Type)
	for _, item := range c.Items {
		assert.NotEmpty(t, item.ID)
	}

	got, err := svc.GetCatalog(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Items, got.Items)
}

func TestCatalogService_CreateRejectsBadItems(t *testing.T) {
	svc := newTestCatalogService(nil)

	_, err := svc.CreateCatalog(context.Background(), CatalogInput{Items: []models.Item{{Content: "  "}}})
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.ErrorIs(t, err, catalog.ErrEmptyContent)
}

func TestCatalogService_NotFound(t *testing.T) {
	svc := newTestCatalogService(nil)
	ctx := context.Background()

	_, err := svc.GetCatalog(ctx, "missing")
	assert.ErrorIs(t, err, ErrCatalogNotFound)
	_, err = svc.UpdateCatalog(ctx, "missing", CatalogInput{Title: "x"})
	assert.ErrorIs(t, err, ErrCatalogNotFound)
	assert.ErrorIs(t, svc.DeleteCatalog(ctx, "missing"), ErrCatalogNotFound)
	_, err = svc.AddItems(ctx, "missing", AddItemsInput{Content: "x"})
	assert.ErrorIs(t, err, ErrCatalogNotFound)
}

func TestCatalogService_UpdateAndDelete(t *testing.T) {
	svc := newTestCatalogService(nil)
	ctx := context.Background()

	c, err := svc.CreateCatalog(ctx, CatalogInput{Title: "A", BulkText: "one\ntwo"})
	require.NoError(t, err)

	updated, err := svc.UpdateCatalog(ctx, c.ID, CatalogInput{Title: "B", BulkText: "three"})
	require.NoError(t, err)
	assert.Equal(t, "B", updated.Title)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, "three", updated.Items[0].Content)

	list, err := svc.ListCatalogs(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].ItemCount)

	_, err = svc.ListCatalogs(ctx, -1, 0)
	assert.ErrorIs(t, err, ErrValidationFailed)

	require.NoError(t, svc.DeleteCatalog(ctx, c.ID))
	_, err = svc.GetCatalog(ctx, c.ID)
	assert.ErrorIs(t, err, ErrCatalogNotFound)
}

func TestCatalogService_AddItems(t *testing.T) {
	svc := newTestCatalogService(nil)
	ctx := context.Background()

	c, err := svc.CreateCatalog(ctx, CatalogInput{Title: "Pets"})
	require.NoError(t, err)
	assert.Empty(t, c.Items)

	c, err = svc.AddItems(ctx, c.ID, AddItemsInput{Content: "https://youtu.be/dQw4w9WgXcQ", Label: "Rick"})
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, models.ItemTypeVideoLink, c.Items[0].Type)
	assert.Equal(t, "Rick", c.Items[0].Label)

	c, err = svc.AddItems(ctx, c.ID, AddItemsInput{BulkText: "Cat\nDog"})
	require.NoError(t, err)
	assert.Len(t, c.Items, 3)

	_, err = svc.AddItems(ctx, c.ID, AddItemsInput{Content: " "})
	assert.ErrorIs(t, err, ErrValidationFailed)
	_, err = svc.AddItems(ctx, c.ID, AddItemsInput{Content: "x", Type: "AUDIO"})
	assert.ErrorIs(t, err, catalog.ErrUnknownItemType)
}

func TestCatalogService_SearchItems(t *testing.T) {
	svc := newTestCatalogService(nil)
	ctx := context.Background()

	c, err := svc.CreateCatalog(ctx, CatalogInput{BulkText: "Margherita\nPepperoni\nHawaiian"})
	require.NoError(t, err)

	found, err := svc.SearchItems(ctx, c.ID, "roni")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Pepperoni", found[0].Content)
}

func TestCatalogService_ExportImportRoundTrip(t *testing.T) {
	svc := newTestCatalogService(nil)
	ctx := context.Background()

	c, err := svc.CreateCatalog(ctx, CatalogInput{Title: "Cities", BulkText: "Paris\nRome\nOslo"})
	require.NoError(t, err)

	data, err := svc.ExportCatalog(ctx, c.ID)
	require.NoError(t, err)

	imported, err := svc.ImportCatalog(ctx, data)
	require.NoError(t, err)
	assert.NotEqual(t, c.ID, imported.ID)
	assert.Equal(t, "Cities", imported.Title)
	assert.Equal(t, c.Items, imported.Items)

	_, err = svc.ImportCatalog(ctx, []byte(`{"title": "broken"}`))
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.ErrorIs(t, err, catalog.ErrInvalidSnapshot)
}

func TestCatalogService_UploadExport(t *testing.T) {
	ctx := context.Background()

	disabled := newTestCatalogService(nil)
	_, err := disabled.UploadExport(ctx, "any")
	assert.ErrorIs(t, err, ErrExportDisabled)

	uploader := &recordingUploader{}
	svc := newTestCatalogService(uploader)
	c, err := svc.CreateCatalog(ctx, CatalogInput{Title: "Up", BulkText: "a\nb"})
	require.NoError(t, err)

	res, err := svc.UploadExport(ctx, c.ID)
	require.NoError(t, err)
	key := "catalogs/" + c.ID + ".json"
	assert.Equal(t, key, res.Key)
	assert.Equal(t, "https://cdn.example.com/"+key, res.Location)

	exported, err := svc.ExportCatalog(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(exported, uploader.uploads[key]))

	uploader.err = errors.New("bucket unavailable")
	_, err = svc.UploadExport(ctx, c.ID)
	assert.ErrorContains(t, err, "bucket unavailable")

	require.NoError(t, svc.DeleteCatalog(ctx, c.ID))
	assert.NotContains(t, uploader.uploads, key, "deleting a catalog removes its export")
}
