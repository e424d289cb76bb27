// Package engine runs the filter, rank and projection pipeline over the
// active catalog snapshot.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/donaldgifford/terrenos/internal/catalog"
	"github.com/donaldgifford/terrenos/internal/metrics"
	"github.com/donaldgifford/terrenos/pkg/query"
	score "github.com/donaldgifford/terrenos/pkg/scorer"
	domain "github.com/donaldgifford/terrenos/pkg/types"
)

// ErrInvalidFilter wraps every filter state rejection.
var ErrInvalidFilter = errors.New("invalid filter state")

// Ranked is a listing in result order with its derived indicators.
type Ranked struct {
	domain.Listing
	Indicators    score.Indicators `json:"indicators"`
	PricePerM2    float64          `json:"price_per_m2"`
	NormalizedURL string           `json:"normalized_url,omitempty"`
}

// Result is the output of one recomputation.
type Result struct {
	Filters  domain.FilterState   `json:"filters"`
	Listings []Ranked             `json:"listings"`
	Matched  int                  `json:"matched"`
	Stats    domain.Stats         `json:"stats"`
	Query    domain.DerivedQuery  `json:"query"`
	Searches []query.PortalSearch `json:"searches"`
	// Communes are the commune choices valid for the state's region.
	Communes []string `json:"communes"`
}

// Engine owns the active catalog snapshot. Recompute is safe for concurrent
// use; each call works on the snapshot current when it started.
type Engine struct {
	catalog atomic.Pointer[catalog.Catalog]
	ready   atomic.Bool
	log     *slog.Logger
	tracer  trace.Tracer
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// WithTracer sets the tracer used for recompute spans.
func WithTracer(t trace.Tracer) EngineOption {
	return func(e *Engine) {
		e.tracer = t
	}
}

// NewEngine creates an Engine. A nil catalog starts the engine empty and not
// ready until SetCatalog is called.
func NewEngine(c *catalog.Catalog, opts ...EngineOption) *Engine {
	eng := &Engine{
		log:    slog.Default(),
		tracer: noop.NewTracerProvider().Tracer(""),
	}
	for _, opt := range opts {
		opt(eng)
	}

	if c == nil {
		eng.catalog.Store(catalog.Empty())
	} else {
		eng.SetCatalog(c)
	}
	return eng
}

// SetCatalog swaps the active snapshot. Recomputations already running keep
// the snapshot they started with.
func (eng *Engine) SetCatalog(c *catalog.Catalog) {
	eng.catalog.Store(c)
	eng.ready.Store(true)

	stats := c.Stats()
	metrics.CatalogListings.Set(float64(stats.Total))
	metrics.CatalogRemates.Set(float64(stats.Remates))
	metrics.CatalogSources.Set(float64(len(c.Sources())))

	eng.log.Info("catalog snapshot installed",
		"listings", stats.Total,
		"remates", stats.Remates,
		"generated_from", c.GeneratedFrom(),
	)
}

// Catalog returns the active snapshot.
func (eng *Engine) Catalog() *catalog.Catalog {
	return eng.catalog.Load()
}

// Ready reports whether a catalog has been installed.
func (eng *Engine) Ready() bool {
	return eng.ready.Load()
}

// Recompute filters the catalog, ranks the survivors, derives the search
// query and resolves one search URL per source. Identical inputs produce
// identical results.
func (eng *Engine) Recompute(ctx context.Context, state domain.FilterState) (*Result, error) {
	if err := state.Validate(); err != nil {
		metrics.RecomputeErrorsTotal.Inc()
		return nil, fmt.Errorf("%w: %w", ErrInvalidFilter, err)
	}

	_, span := eng.tracer.Start(ctx, "engine.Recompute")
	defer span.End()

	start := time.Now()
	snap := eng.catalog.Load()

	filtered := snap.Filter(&state)
	sorted := score.Sort(filtered, state.Sort)

	ranked := make([]Ranked, len(sorted))
	for i := range sorted {
		ranked[i] = rank(&sorted[i])
	}

	q := query.Build(&state)
	res := &Result{
		Filters:  state,
		Listings: ranked,
		Matched:  len(ranked),
		Stats:    snap.Stats(),
		Query:    q,
		Searches: query.Project(snap.Sources(), q),
		Communes: snap.AvailableCommunes(state.Region),
	}

	sortLabel := string(state.Sort)
	if sortLabel == "" {
		sortLabel = string(domain.SortDefault)
	}
	metrics.RecomputeDuration.WithLabelValues(sortLabel).Observe(time.Since(start).Seconds())
	metrics.MatchedListings.Observe(float64(res.Matched))

	span.SetAttributes(
		attribute.String("filter.sort", sortLabel),
		attribute.Int("catalog.size", snap.Len()),
		attribute.Int("result.matched", res.Matched),
		attribute.Bool("query.empty", q.IsEmpty()),
	)
	span.SetStatus(codes.Ok, "")

	return res, nil
}

// Listing returns one listing with its indicators.
func (eng *Engine) Listing(id string) (Ranked, error) {
	l, err := eng.catalog.Load().Get(id)
	if err != nil {
		return Ranked{}, err
	}
	return rank(&l), nil
}

func rank(l *domain.Listing) Ranked {
	r := Ranked{
		Listing:    *l,
		Indicators: score.Indicate(l),
		PricePerM2: l.PricePerM2(),
	}
	if u, ok := l.NormalizedURL(); ok {
		r.NormalizedURL = u
	}
	return r
}
