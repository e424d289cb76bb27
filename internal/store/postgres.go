package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/donaldgifford/terrenos/internal/catalog"
	domain "github.com/donaldgifford/terrenos/pkg/types"
)

// ErrNoImport is returned by LatestImport before the first ingest.
var ErrNoImport = errors.New("no catalog has been imported")

// PostgresStore implements Store using pgxpool (connection-pooled PostgreSQL).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore with connection pooling. The
// pool size comes from pool_max_conns in connString.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// ReplaceCatalog deletes the stored listings and sources and copies c in,
// keeping each listing's insertion rank, all in one transaction.
func (s *PostgresStore) ReplaceCatalog(ctx context.Context, c *catalog.Catalog) (imp *Import, err error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, queryDeleteListings); err != nil {
		return nil, fmt.Errorf("clearing listings: %w", err)
	}
	if _, err = tx.Exec(ctx, queryDeleteSources); err != nil {
		return nil, fmt.Errorf("clearing sources: %w", err)
	}

	listings := c.Listings()
	rows := make([][]any, 0, len(listings))
	for i := range listings {
		row, rowErr := listingRow(&listings[i])
		if rowErr != nil {
			err = rowErr
			return nil, err
		}
		rows = append(rows, row)
	}
	if _, err = tx.CopyFrom(ctx, pgx.Identifier{"listings"}, listingColumns, pgx.CopyFromRows(rows)); err != nil {
		return nil, fmt.Errorf("copying listings: %w", err)
	}

	sources := c.Sources()
	if _, err = tx.CopyFrom(ctx, pgx.Identifier{"sources"}, sourceColumns,
		pgx.CopyFromSlice(len(sources), func(i int) ([]any, error) {
			src := &sources[i]
			return []any{i, src.Name, src.Category, src.Tag, src.URL, src.SearchTemplate}, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("copying sources: %w", err)
	}

	imp = &Import{
		GeneratedFrom: c.GeneratedFrom(),
		ListingCount:  len(listings),
		SourceCount:   len(sources),
	}
	args := pgx.NamedArgs{
		"generated_from": imp.GeneratedFrom,
		"listing_count":  imp.ListingCount,
		"source_count":   imp.SourceCount,
	}
	if err = tx.QueryRow(ctx, queryInsertImport, args).Scan(&imp.ID, &imp.ImportedAt); err != nil {
		return nil, fmt.Errorf("recording import: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing catalog: %w", err)
	}
	return imp, nil
}

// LoadCatalog reads listings ordered by insertion rank and sources ordered
// by position. The catalog re-derives dense ranks from that order.
func (s *PostgresStore) LoadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	rows, err := s.pool.Query(ctx, querySelectListings)
	if err != nil {
		return nil, fmt.Errorf("querying listings: %w", err)
	}
	listings, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Listing, error) {
		var l domain.Listing
		err := scanListing(row, &l)
		return l, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning listings: %w", err)
	}

	rows, err = s.pool.Query(ctx, querySelectSources)
	if err != nil {
		return nil, fmt.Errorf("querying sources: %w", err)
	}
	sources, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Source, error) {
		var src domain.Source
		err := row.Scan(&src.Name, &src.Category, &src.Tag, &src.URL, &src.SearchTemplate)
		return src, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning sources: %w", err)
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

// LatestImport returns the most recent catalog import.
func (s *PostgresStore) LatestImport(ctx context.Context) (*Import, error) {
	imp := &Import{}
	err := s.pool.QueryRow(ctx, queryLatestImport).Scan(
		&imp.ID, &imp.GeneratedFrom, &imp.ListingCount, &imp.SourceCount, &imp.ImportedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoImport
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest import: %w", err)
	}
	return imp, nil
}

// CountListings returns the number of stored listings.
func (s *PostgresStore) CountListings(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, queryCountListings).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting listings: %w", err)
	}
	return n, nil
}

func listingRow(l *domain.Listing) ([]any, error) {
	extra := l.Extra
	if extra == nil {
		extra = map[string]any{}
	}
	extraJSON, err := json.Marshal(extra)
	if err != nil {
		return nil, fmt.Errorf("encoding extra for listing %s: %w", l.ID, err)
	}
	return []any{
		l.ID, l.InsertionRank, l.Title, l.TerrainType, l.Region, l.Commune,
		string(l.Origin), l.SourceName, l.URL, l.PriceCLP, l.SurfaceM2,
		l.FiscalValue, l.CommercialValue, extraJSON,
	}, nil
}

// scannable abstracts pgx.Row and pgx.Rows for reuse.
type scannable interface {
	Scan(dest ...any) error
}

func scanListing(row scannable, l *domain.Listing) error {
	var (
		origin    string
		extraJSON []byte
	)
	if err := row.Scan(
		&l.ID, &l.InsertionRank, &l.Title, &l.TerrainType, &l.Region, &l.Commune,
		&origin, &l.SourceName, &l.URL, &l.PriceCLP, &l.SurfaceM2,
		&l.FiscalValue, &l.CommercialValue, &extraJSON,
	); err != nil {
		return err
	}

	kind, err := domain.ParseOriginKind(origin)
	if err != nil {
		return fmt.Errorf("listing %s: %w", l.ID, err)
	}
	l.Origin = kind

	if len(extraJSON) > 0 {
		if err := json.Unmarshal(extraJSON, &l.Extra); err != nil {
			return fmt.Errorf("decoding extra for listing %s: %w", l.ID, err)
		}
	}
	return nil
}
