// Package store persists the catalog so the server can load it from
// PostgreSQL instead of the JSON payloads.
package store

import (
	"context"
	"time"

	"github.com/donaldgifford/terrenos/internal/catalog"
)

// Import describes one catalog replacement.
type Import struct {
	ID            int64     `json:"id"`
	GeneratedFrom string    `json:"generated_from"`
	ListingCount  int       `json:"listing_count"`
	SourceCount   int       `json:"source_count"`
	ImportedAt    time.Time `json:"imported_at"`
}

// Store defines the catalog persistence operations.
type Store interface {
	Ping(ctx context.Context) error
	Migrate(ctx context.Context) error

	// ReplaceCatalog swaps the stored catalog for c in one transaction.
	ReplaceCatalog(ctx context.Context, c *catalog.Catalog) (*Import, error)
	// LoadCatalog reads the stored catalog in insertion order.
	LoadCatalog(ctx context.Context) (*catalog.Catalog, error)
	LatestImport(ctx context.Context) (*Import, error)
	CountListings(ctx context.Context) (int, error)

	Close()
}
