package models

import "time"

// Catalog is the pre-bracket state: a titled, ordered list of candidates.
// This is the structure exported to and imported from JSON.
type Catalog struct {
	ID        string    `json:"id,omitempty" db:"id"`
	Title     string    `json:"title" db:"title"`
	Items     []Item    `json:"items" db:"-"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CatalogSummary is a catalog listing entry without its items.
type CatalogSummary struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	ItemCount int       `json:"item_count" db:"item_count"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
