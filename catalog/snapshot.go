package catalog

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Dosada05/versusite/models"
)

var ErrInvalidSnapshot = errors.New("invalid catalog snapshot")

// snapshot is the exported form of a catalog. Only title and items travel;
// storage identifiers and timestamps stay behind.
type snapshot struct {
	Title string         `json:"title"`
	Items *[]models.Item `json:"items"`
}

// Marshal encodes the catalog as indented JSON.
func Marshal(c models.Catalog) ([]byte, error) {
	items := c.Items
	if items == nil {
		items = []models.Item{}
	}
	return json.MarshalIndent(snapshot{Title: c.Title, Items: &items}, "", "  ")
}

// Unmarshal decodes a snapshot. The items array is required; item ids may be
// absent and are not validated here (see Normalize).
func Unmarshal(data []byte) (models.Catalog, error) {
	var s snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return models.Catalog{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if s.Items == nil {
		return models.Catalog{}, fmt.Errorf("%w: missing items", ErrInvalidSnapshot)
	}
	return models.Catalog{Title: s.Title, Items: *s.Items}, nil
}
