package repositories

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/Dosada05/versusite/db"
	"github.com/Dosada05/versusite/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) (*sqlCatalogRepository, *sql.DB) {
	t.Helper()

	conn, err := db.Connect(db.DriverSQLite, ":memory:", time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.Migrate(context.Background(), conn))

	repo := NewCatalogRepository(conn, DialectSQLite).(*sqlCatalogRepository)
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return repo, conn
}

func sampleItems() []models.Item {
	return []models.Item{
		{ID: "a", Content: "Cats", Type: models.ItemTypeText},
		{ID: "b", Content: "https://example.com/dog.png", Label: "Dog", Type: models.ItemTypeImage},
		{ID: "c", Content: "https://youtu.be/dQw4w9WgXcQ", Type: models.ItemTypeVideoLink},
	}
}

func TestCatalogRepository_CreateAndGet(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	c := &models.Catalog{ID: "cat-1", Title: "Pets", Items: sampleItems()}
	require.NoError(t, repo.Create(ctx, c))
	assert.False(t, c.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, "cat-1")
	require.NoError(t, err)
	assert.Equal(t, "Pets", got.Title)
	assert.Equal(t, sampleItems(), got.Items, "items keep their order")
	assert.True(t, c.CreatedAt.Equal(got.CreatedAt))
}

func TestCatalogRepository_GetMissing(t *testing.T) {
	repo, _ := newTestRepository(t)

	_, err := repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrCatalogNotFound)
}

func TestCatalogRepository_CreateRequiresID(t *testing.T) {
	repo, _ := newTestRepository(t)
	assert.Error(t, repo.Create(context.Background(), &models.Catalog{Title: "x"}))
}

func TestCatalogRepository_List(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Catalog{ID: "old", Title: "Old", Items: sampleItems()[:1]}))
	require.NoError(t, repo.Create(ctx, &models.Catalog{ID: "new", Title: "New", Items: sampleItems()}))

	list, err := repo.List(ctx, ListCatalogsFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].ID, "most recently updated first")
	assert.Equal(t, 3, list[0].ItemCount)
	assert.Equal(t, 1, list[1].ItemCount)

	page, err := repo.List(ctx, ListCatalogsFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "old", page[0].ID)
}

func TestCatalogRepository_UpdateReplacesItems(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	c := &models.Catalog{ID: "cat", Title: "Before", Items: sampleItems()}
	require.NoError(t, repo.Create(ctx, c))
	created := c.UpdatedAt

	c.Title = "After"
	c.Items = []models.Item{{ID: "z", Content: "Zebra", Type: models.ItemTypeText}}
	require.NoError(t, repo.Update(ctx, c))
	assert.True(t, c.UpdatedAt.After(created))

	got, err := repo.GetByID(ctx, "cat")
	require.NoError(t, err)
	assert.Equal(t, "After", got.Title)
	assert.Equal(t, c.Items, got.Items)

	err = repo.Update(ctx, &models.Catalog{ID: "missing", Title: "x"})
	assert.ErrorIs(t, err, ErrCatalogNotFound)
}

func TestCatalogRepository_Delete(t *testing.T) {
	repo, conn := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Catalog{ID: "gone", Title: "Gone", Items: sampleItems()}))
	require.NoError(t, repo.Delete(ctx, "gone"))

	_, err := repo.GetByID(ctx, "gone")
	assert.ErrorIs(t, err, ErrCatalogNotFound)

	var left int
	require.NoError(t, conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM catalog_items`).Scan(&left))
	assert.Zero(t, left)

	assert.ErrorIs(t, repo.Delete(ctx, "gone"), ErrCatalogNotFound)
}

func TestDialectRebind(t *testing.T) {
	q := "SELECT * FROM t WHERE a = ? AND b = ?"
	assert.Equal(t, q, DialectSQLite.rebind(q))
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b = $2", DialectPostgres.rebind(q))
	assert.Equal(t, DialectPostgres, DialectFor("postgres"))
	assert.Equal(t, DialectSQLite, DialectFor("sqlite"))
}
