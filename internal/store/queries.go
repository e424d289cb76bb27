package store

// SQL query constants organized by table.

// Listing queries.
const (
	queryDeleteListings = `DELETE FROM listings`

	querySelectListings = `
		SELECT id, insertion_rank, title, terrain_type, region, commune,
			origin, source_name, url, price_clp, surface_m2,
			fiscal_value, commercial_value, extra
		FROM listings
		ORDER BY insertion_rank ASC`

	queryCountListings = `SELECT count(*) FROM listings`
)

// listingColumns is the COPY column order; it must match listingRow.
var listingColumns = []string{
	"id", "insertion_rank", "title", "terrain_type", "region", "commune",
	"origin", "source_name", "url", "price_clp", "surface_m2",
	"fiscal_value", "commercial_value", "extra",
}

// Source queries.
const (
	queryDeleteSources = `DELETE FROM sources`

	querySelectSources = `
		SELECT name, category, tag, url, search_template
		FROM sources
		ORDER BY position ASC`
)

var sourceColumns = []string{"position", "name", "category", "tag", "url", "search_template"}

// Import queries.
const (
	queryInsertImport = `
		INSERT INTO catalog_imports (generated_from, listing_count, source_count)
		VALUES (@generated_from, @listing_count, @source_count)
		RETURNING id, imported_at`

	queryLatestImport = `
		SELECT id, generated_from, listing_count, source_count, imported_at
		FROM catalog_imports
		ORDER BY id DESC
		LIMIT 1`
)
