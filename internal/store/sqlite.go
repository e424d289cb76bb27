package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/donaldgifford/terrenos/internal/catalog"
	domain "github.com/donaldgifford/terrenos/pkg/types"
)

// sqliteSchemaVersion is recorded in PRAGMA user_version after Migrate.
const sqliteSchemaVersion = 1

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS listings (
		id               TEXT PRIMARY KEY,
		insertion_rank   INTEGER NOT NULL UNIQUE CHECK (insertion_rank >= 0),
		title            TEXT NOT NULL DEFAULT '',
		terrain_type     TEXT NOT NULL DEFAULT '',
		region           TEXT NOT NULL DEFAULT '',
		commune          TEXT NOT NULL DEFAULT '',
		origin           TEXT NOT NULL CHECK (origin IN ('remate', 'portal')),
		source_name      TEXT NOT NULL DEFAULT '',
		url              TEXT NOT NULL DEFAULT '',
		price_clp        REAL NOT NULL CHECK (price_clp > 0),
		surface_m2       REAL NOT NULL CHECK (surface_m2 > 0),
		fiscal_value     REAL CHECK (fiscal_value >= 0),
		commercial_value REAL CHECK (commercial_value >= 0),
		extra            TEXT NOT NULL DEFAULT '{}'
	);

	CREATE INDEX IF NOT EXISTS listings_region_commune_idx ON listings (region, commune);

	CREATE TABLE IF NOT EXISTS sources (
		position        INTEGER PRIMARY KEY CHECK (position >= 0),
		name            TEXT NOT NULL,
		category        TEXT NOT NULL DEFAULT '',
		tag             TEXT NOT NULL DEFAULT '',
		url             TEXT NOT NULL,
		search_template TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS catalog_imports (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		generated_from TEXT NOT NULL DEFAULT '',
		listing_count  INTEGER NOT NULL,
		source_count   INTEGER NOT NULL,
		imported_at    TEXT NOT NULL
	);`

const (
	sqliteInsertListing = `
		INSERT INTO listings (id, insertion_rank, title, terrain_type, region, commune,
			origin, source_name, url, price_clp, surface_m2,
			fiscal_value, commercial_value, extra)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	sqliteInsertSource = `
		INSERT INTO sources (position, name, category, tag, url, search_template)
		VALUES (?, ?, ?, ?, ?, ?)`

	sqliteInsertImport = `
		INSERT INTO catalog_imports (generated_from, listing_count, source_count, imported_at)
		VALUES (?, ?, ?, ?)`
)

// SQLiteStore implements Store on a single SQLite file using the pure-Go
// modernc driver. It suits single-node deployments without PostgreSQL.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite database: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func sqliteDSN(path string) string {
	q := url.Values{}
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "foreign_keys(1)")
	return "file:" + path + "?" + q.Encode()
}

// Close closes the database.
func (s *SQLiteStore) Close() {
	_ = s.db.Close()
}

// Ping verifies the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate creates the schema when it is missing.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	if version >= sqliteSchemaVersion {
		return nil
	}

	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", sqliteSchemaVersion)); err != nil {
		return fmt.Errorf("recording schema version: %w", err)
	}
	return nil
}

// ReplaceCatalog deletes the stored listings and sources and inserts c,
// keeping each listing's insertion rank, all in one transaction.
func (s *SQLiteStore) ReplaceCatalog(ctx context.Context, c *catalog.Catalog) (imp *Import, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, queryDeleteListings); err != nil {
		return nil, fmt.Errorf("clearing listings: %w", err)
	}
	if _, err = tx.ExecContext(ctx, queryDeleteSources); err != nil {
		return nil, fmt.Errorf("clearing sources: %w", err)
	}

	listings := c.Listings()
	if err = insertEach(ctx, tx, sqliteInsertListing, len(listings), func(i int) ([]any, error) {
		row, rowErr := listingRow(&listings[i])
		if rowErr != nil {
			return nil, rowErr
		}
		// extra is stored as TEXT.
		row[len(row)-1] = string(row[len(row)-1].([]byte))
		return row, nil
	}); err != nil {
		return nil, fmt.Errorf("inserting listings: %w", err)
	}

	sources := c.Sources()
	if err = insertEach(ctx, tx, sqliteInsertSource, len(sources), func(i int) ([]any, error) {
		src := &sources[i]
		return []any{i, src.Name, src.Category, src.Tag, src.URL, src.SearchTemplate}, nil
	}); err != nil {
		return nil, fmt.Errorf("inserting sources: %w", err)
	}

	imp = &Import{
		GeneratedFrom: c.GeneratedFrom(),
		ListingCount:  len(listings),
		SourceCount:   len(sources),
		ImportedAt:    time.Now().UTC(),
	}
	res, err := tx.ExecContext(ctx, sqliteInsertImport,
		imp.GeneratedFrom, imp.ListingCount, imp.SourceCount, imp.ImportedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("recording import: %w", err)
	}
	if imp.ID, err = res.LastInsertId(); err != nil {
		return nil, fmt.Errorf("reading import id: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing catalog: %w", err)
	}
	return imp, nil
}

func insertEach(ctx context.Context, tx *sql.Tx, query string, n int, row func(i int) ([]any, error)) error {
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range n {
		args, err := row(i)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	return nil
}

// LoadCatalog reads listings ordered by insertion rank and sources ordered
// by position.
func (s *SQLiteStore) LoadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	listings, err := queryAll(ctx, s.db, querySelectListings, func(rows *sql.Rows) (domain.Listing, error) {
		var l domain.Listing
		err := scanListing(rows, &l)
		return l, err
	})
	if err != nil {
		return nil, fmt.Errorf("loading listings: %w", err)
	}

	sources, err := queryAll(ctx, s.db, querySelectSources, func(rows *sql.Rows) (domain.Source, error) {
		var src domain.Source
		err := rows.Scan(&src.Name, &src.Category, &src.Tag, &src.URL, &src.SearchTemplate)
		return src, err
	})
	if err != nil {
		return nil, fmt.Errorf("loading sources: %w", err)
	}

	var generatedFrom string
	imp, err := s.LatestImport(ctx)
	switch {
	case errors.Is(err, ErrNoImport):
	case err != nil:
		return nil, err
	default:
		generatedFrom = imp.GeneratedFrom
	}

	return catalog.New(listings, sources, catalog.WithGeneratedFrom(generatedFrom)), nil
}

func queryAll[T any](ctx context.Context, db *sql.DB, query string, scan func(*sql.Rows) (T, error)) ([]T, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// LatestImport returns the most recent catalog import.
func (s *SQLiteStore) LatestImport(ctx context.Context) (*Import, error) {
	var (
		imp        Import
		importedAt string
	)
	err := s.db.QueryRowContext(ctx, queryLatestImport).Scan(
		&imp.ID, &imp.GeneratedFrom, &imp.ListingCount, &imp.SourceCount, &importedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoImport
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest import: %w", err)
	}
	if imp.ImportedAt, err = time.Parse(time.RFC3339Nano, importedAt); err != nil {
		return nil, fmt.Errorf("parsing import time %q: %w", importedAt, err)
	}
	return &imp, nil
}

// CountListings returns the number of stored listings.
func (s *SQLiteStore) CountListings(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, queryCountListings).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting listings: %w", err)
	}
	return n, nil
}
