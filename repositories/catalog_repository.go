package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/versusite/models"
)

var ErrCatalogNotFound = errors.New("catalog not found")

type ListCatalogsFilter struct {
	Limit  int
	Offset int
}

type CatalogRepository interface {
	Create(ctx context.Context, catalog *models.Catalog) error
	GetByID(ctx context.Context, id string) (*models.Catalog, error)
	List(ctx context.Context, filter ListCatalogsFilter) ([]models.CatalogSummary, error)
	// Update replaces the title and the full ordered item list.
	Update(ctx context.Context, catalog *models.Catalog) error
	Delete(ctx context.Context, id string) error
}

type sqlCatalogRepository struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

func NewCatalogRepository(db *sql.DB, dialect Dialect) CatalogRepository {
	return &sqlCatalogRepository{
		db:      db,
		dialect: dialect,
		now:     func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

func (r *sqlCatalogRepository) Create(ctx context.Context, c *models.Catalog) error {
	if c.ID == "" {
		return errors.New("catalog id is required")
	}
	now := r.now()

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		query := r.dialect.rebind(`
			INSERT INTO catalogs (id, title, created_at, updated_at)
			VALUES (?, ?, ?, ?)`)
		if _, err := tx.ExecContext(ctx, query, c.ID, c.Title, now, now); err != nil {
			return fmt.Errorf("failed to insert catalog: %w", err)
		}
		return r.insertItems(ctx, tx, c.ID, c.Items)
	})
	if err != nil {
		return err
	}

	c.CreatedAt, c.UpdatedAt = now, now
	return nil
}

func (r *sqlCatalogRepository) GetByID(ctx context.Context, id string) (*models.Catalog, error) {
	query := r.dialect.rebind(`
		SELECT id, title, created_at, updated_at
		FROM catalogs
		WHERE id = ?`)

	c := &models.Catalog{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Title, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCatalogNotFound
		}
		return nil, err
	}

	items, err := r.listItems(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	c.Items = items
	return c, nil
}

func (r *sqlCatalogRepository) List(ctx context.Context, filter ListCatalogsFilter) ([]models.CatalogSummary, error) {
	query := `
		SELECT c.id, c.title, c.created_at, c.updated_at,
			(SELECT COUNT(*) FROM catalog_items i WHERE i.catalog_id = c.id) AS item_count
		FROM catalogs c
		ORDER BY c.updated_at DESC, c.id`

	args := []interface{}{}
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := r.db.QueryContext(ctx, r.dialect.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	catalogs := make([]models.CatalogSummary, 0)
	for rows.Next() {
		var s models.CatalogSummary
		if scanErr := rows.Scan(&s.ID, &s.Title, &s.CreatedAt, &s.UpdatedAt, &s.ItemCount); scanErr != nil {
			return nil, scanErr
		}
		catalogs = append(catalogs, s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return catalogs, nil
}

func (r *sqlCatalogRepository) Update(ctx context.Context, c *models.Catalog) error {
	now := r.now()

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		query := r.dialect.rebind(`UPDATE catalogs SET title = ?, updated_at = ? WHERE id = ?`)
		result, err := tx.ExecContext(ctx, query, c.Title, now, c.ID)
		if err != nil {
			return fmt.Errorf("failed to update catalog: %w", err)
		}
		if err := checkAffectedRows(result, ErrCatalogNotFound); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, r.dialect.rebind(`DELETE FROM catalog_items WHERE catalog_id = ?`), c.ID); err != nil {
			return fmt.Errorf("failed to clear catalog items: %w", err)
		}
		return r.insertItems(ctx, tx, c.ID, c.Items)
	})
	if err != nil {
		return err
	}

	c.UpdatedAt = now
	return nil
}

func (r *sqlCatalogRepository) Delete(ctx context.Context, id string) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		// явное удаление: не полагаемся на ON DELETE CASCADE
		if _, err := tx.ExecContext(ctx, r.dialect.rebind(`DELETE FROM catalog_items WHERE catalog_id = ?`), id); err != nil {
			return fmt.Errorf("failed to delete catalog items: %w", err)
		}
		result, err := tx.ExecContext(ctx, r.dialect.rebind(`DELETE FROM catalogs WHERE id = ?`), id)
		if err != nil {
			return fmt.Errorf("failed to delete catalog: %w", err)
		}
		return checkAffectedRows(result, ErrCatalogNotFound)
	})
}

func (r *sqlCatalogRepository) insertItems(ctx context.Context, exec SQLExecutor, catalogID string, items []models.Item) error {
	query := r.dialect.rebind(`
		INSERT INTO catalog_items (catalog_id, position, id, content, label, type)
		VALUES (?, ?, ?, ?, ?, ?)`)

	for pos, item := range items {
		if _, err := exec.ExecContext(ctx, query, catalogID, pos, item.ID, item.Content, item.Label, string(item.Type)); err != nil {
			return fmt.Errorf("failed to insert catalog item %d: %w", pos, err)
		}
	}
	return nil
}

func (r *sqlCatalogRepository) listItems(ctx context.Context, exec SQLExecutor, catalogID string) ([]models.Item, error) {
	query := r.dialect.rebind(`
		SELECT id, content, label, type
		FROM catalog_items
		WHERE catalog_id = ?
		ORDER BY position`)

	rows, err := exec.QueryContext(ctx, query, catalogID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]models.Item, 0)
	for rows.Next() {
		var item models.Item
		if err := rows.Scan(&item.ID, &item.Content, &item.Label, &item.Type); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
