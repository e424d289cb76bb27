package handlers_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/donaldgifford/terrenos/internal/catalog"
	"github.com/donaldgifford/terrenos/internal/engine"
	domain "github.com/donaldgifford/terrenos/pkg/types"
)

func ptr[T any](v T) *T { return &v }

func testCatalog() *catalog.Catalog {
	return catalog.New(
		[]domain.Listing{
			{ID: "a", Title: "Parcela Los Aromos", TerrainType: "Parcela", Region: "Valparaiso", Commune: "Quillota", Origin: domain.OriginPortal, SourceName: "Portal A", URL: "portal-a.test/a", PriceCLP: 45_000_000, SurfaceM2: 5000, CommercialValue: ptr(60_000_000.0)},
			{ID: "b", Title: "Sitio urbano", TerrainType: "Sitio", Region: "Maule", Commune: "Talca", Origin: domain.OriginRemate, SourceName: "Juzgado", PriceCLP: 20_000_000, SurfaceM2: 400, CommercialValue: ptr(40_000_000.0)},
			{ID: "c", Title: "Parcela con agua", TerrainType: "Parcela", Region: "Valparaiso", Commune: "Limache", Origin: domain.OriginPortal, SourceName: "Portal A", PriceCLP: 70_000_000, SurfaceM2: 10000},
			{ID: "d", Title: "Parcela vista mar", TerrainType: "Parcela", Region: "Valparaiso", Commune: "Quillota", Origin: domain.OriginRemate, SourceName: "Juzgado", PriceCLP: 90_000_000, SurfaceM2: 50000, CommercialValue: ptr(80_000_000.0)},
		},
		[]domain.Source{
			{Name: "Portal A", Category: "Portal", URL: "https://a.test", SearchTemplate: "https://a.test/s?q={query}"},
			{Name: "Remates B", Tag: "Judicial", URL: "https://b.test/remates"},
		},
		catalog.WithGeneratedFrom("test"),
	)
}

func testEngine() *engine.Engine {
	return engine.NewEngine(testCatalog(), engine.WithLogger(quietLogger()))
}

// mockEngine is a testify mock of handlers.Engine for failure paths.
type mockEngine struct {
	mock.Mock
}

func (m *mockEngine) Recompute(ctx context.Context, state domain.FilterState) (*engine.Result, error) {
	args := m.Called(ctx, state)
	res, _ := args.Get(0).(*engine.Result)
	return res, args.Error(1)
}

func (m *mockEngine) Listing(id string) (engine.Ranked, error) {
	args := m.Called(id)
	r, _ := args.Get(0).(engine.Ranked)
	return r, args.Error(1)
}

func (m *mockEngine) Catalog() *catalog.Catalog {
	args := m.Called()
	c, _ := args.Get(0).(*catalog.Catalog)
	return c
}

func (m *mockEngine) Ready() bool {
	return m.Called().Bool(0)
}
