package storage

import (
	"context"
	"io"
	"path"
)

const exportPrefix = "catalogs"

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader stores exported catalogs under a key and serves them by public URL.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}

// ExportKey is the object key of a catalog's JSON export.
func ExportKey(catalogID string) string {
	return path.Join(exportPrefix, catalogID+".json")
}
