package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/versusite/brackets"
	"github.com/Dosada05/versusite/catalog"
	"github.com/Dosada05/versusite/models"
	"github.com/Dosada05/versusite/repositories"
	"github.com/Dosada05/versusite/storage"
)

type CatalogService interface {
	CreateCatalog(ctx context.Context, input CatalogInput) (*models.Catalog, error)
	GetCatalog(ctx context.Context, id string) (*models.Catalog, error)
	ListCatalogs(ctx context.Context, limit, offset int) ([]models.CatalogSummary, error)
	UpdateCatalog(ctx context.Context, id string, input CatalogInput) (*models.Catalog, error)
	DeleteCatalog(ctx context.Context, id string) error
	AddItems(ctx context.Context, id string, input AddItemsInput) (*models.Catalog, error)
	SearchItems(ctx context.Context, id, query string) ([]models.Item, error)
	ExportCatalog(ctx context.Context, id string) ([]byte, error)
	UploadExport(ctx context.Context, id string) (*storage.UploadResult, error)
	ImportCatalog(ctx context.Context, data []byte) (*models.Catalog, error)
}

// CatalogInput creates or replaces a catalog. Items and BulkText may be
// combined; bulk lines are appended after the explicit items.
type CatalogInput struct {
	Title    string        `json:"title"`
	Items    []models.Item `json:"items"`
	BulkText string        `json:"bulk_text"`
}

// AddItemsInput adds one manually entered item, or every line of BulkText.
type AddItemsInput struct {
	Content  string          `json:"content"`
	Label    string          `json:"label"`
	Type     models.ItemType `json:"type"`
	BulkText string          `json:"bulk_text"`
}

type catalogService struct {
	catalogRepo repositories.CatalogRepository
	uploader    storage.FileUploader // nil, если экспорт не настроен
	ids         brackets.IDGenerator
	logger      *slog.Logger
}

func NewCatalogService(
	catalogRepo repositories.CatalogRepository,
	uploader storage.FileUploader,
	ids brackets.IDGenerator,
	logger *slog.Logger,
) CatalogService {
	if ids == nil {
		ids = brackets.UUIDGenerator{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &catalogService{
		catalogRepo: catalogRepo,
		uploader:    uploader,
		ids:         ids,
		logger:      logger,
	}
}

func (s *catalogService) CreateCatalog(ctx context.Context, input CatalogInput) (*models.Catalog, error) {
	items, err := s.buildItems(input.Items, input.BulkText)
	if err != nil {
		return nil, err
	}

	c := &models.Catalog{
		ID:    s.ids.NewID(),
		Title: strings.TrimSpace(input.Title),
		Items: items,
	}
	if err := s.catalogRepo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create catalog: %w", err)
	}

	s.logger.InfoContext(ctx, "catalog created", slog.String("catalog_id", c.ID), slog.Int("items", len(c.Items)))
	return c, nil
}

func (s *catalogService) GetCatalog(ctx context.Context, id string) (*models.Catalog, error) {
	c, err := s.catalogRepo.GetByID(ctx, id)
	if err != nil {
		return nil, handleCatalogRepositoryError(err, id)
	}
	return c, nil
}

func (s *catalogService) ListCatalogs(ctx context.Context, limit, offset int) ([]models.CatalogSummary, error) {
	if limit < 0 || offset < 0 {
		return nil, fmt.Errorf("%w: limit and offset must not be negative", ErrValidationFailed)
	}
	return s.catalogRepo.List(ctx, repositories.ListCatalogsFilter{Limit: limit, Offset: offset})
}

func (s *catalogService) UpdateCatalog(ctx context.Context, id string, input CatalogInput) (*models.Catalog, error) {
	items, err := s.buildItems(input.Items, input.BulkText)
	if err != nil {
		return nil, err
	}

	c, err := s.catalogRepo.GetByID(ctx, id)
	if err != nil {
		return nil, handleCatalogRepositoryError(err, id)
	}
	c.Title = strings.TrimSpace(input.Title)
	c.Items = items

	if err := s.catalogRepo.Update(ctx, c); err != nil {
		return nil, handleCatalogRepositoryError(err, id)
	}
	return c, nil
}

func (s *catalogService) DeleteCatalog(ctx context.Context, id string) error {
	if err := s.catalogRepo.Delete(ctx, id); err != nil {
		return handleCatalogRepositoryError(err, id)
	}
	s.logger.InfoContext(ctx, "catalog deleted", slog.String("catalog_id", id))

	// Экспорт в R2 удаляем по возможности, каталог уже удален.
	if s.uploader != nil {
		if err := s.uploader.Delete(ctx, storage.ExportKey(id)); err != nil {
			s.logger.WarnContext(ctx, "failed to delete catalog export", slog.String("catalog_id", id), slog.Any("error", err))
		}
	}
	return nil
}

func (s *catalogService) AddItems(ctx context.Context, id string, input AddItemsInput) (*models.Catalog, error) {
	var added []models.Item
	if strings.TrimSpace(input.BulkText) != "" {
		added = catalog.ParseBulkText(s.ids, input.BulkText)
	} else {
		item, err := catalog.NewItem(s.ids, input.Content, input.Label, input.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
		}
		added = []models.Item{item}
	}

	c, err := s.catalogRepo.GetByID(ctx, id)
	if err != nil {
		return nil, handleCatalogRepositoryError(err, id)
	}
	c.Items = append(c.Items, added...)

	if err := s.catalogRepo.Update(ctx, c); err != nil {
		return nil, handleCatalogRepositoryError(err, id)
	}
	return c, nil
}

func (s *catalogService) SearchItems(ctx context.Context, id, query string) ([]models.Item, error) {
	c, err := s.GetCatalog(ctx, id)
	if err != nil {
		return nil, err
	}
	return catalog.Search(c.Items, query), nil
}

func (s *catalogService) ExportCatalog(ctx context.Context, id string) ([]byte, error) {
	c, err := s.GetCatalog(ctx, id)
	if err != nil {
		return nil, err
	}
	return catalog.Marshal(*c)
}

func (s *catalogService) UploadExport(ctx context.Context, id string) (*storage.UploadResult, error) {
	if s.uploader == nil {
		return nil, ErrExportDisabled
	}

	data, err := s.ExportCatalog(ctx, id)
	if err != nil {
		return nil, err
	}

	result, err := s.uploader.Upload(ctx, storage.ExportKey(id), "application/json", bytes.NewReader(data))
	if err != nil {
		s.logger.ErrorContext(ctx, "catalog export upload failed", slog.String("catalog_id", id), slog.Any("error", err))
		return nil, fmt.Errorf("failed to upload catalog export: %w", err)
	}

	s.logger.InfoContext(ctx, "catalog exported", slog.String("catalog_id", id), slog.String("location", result.Location))
	return result, nil
}

// ImportCatalog stores a snapshot as a new catalog. Item ids from the file are
// kept when usable and regenerated otherwise.
func (s *catalogService) ImportCatalog(ctx context.Context, data []byte) (*models.Catalog, error) {
	snapshot, err := catalog.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}
	return s.CreateCatalog(ctx, CatalogInput{Title: snapshot.Title, Items: snapshot.Items})
}

func (s *catalogService) buildItems(items []models.Item, bulkText string) ([]models.Item, error) {
	normalized, err := catalog.Normalize(s.ids, items)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}
	return append(normalized, catalog.ParseBulkText(s.ids, bulkText)...), nil
}

func handleCatalogRepositoryError(err error, id string) error {
	if errors.Is(err, repositories.ErrCatalogNotFound) {
		return fmt.Errorf("%w: %s", ErrCatalogNotFound, id)
	}
	return err
}
