package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domain "github.com/donaldgifford/terrenos/pkg/types"
)

// CatalogHandler serves catalog metadata: facets, communes, sources and
// stats.
type CatalogHandler struct {
	engine Engine
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(e Engine) *CatalogHandler {
	return &CatalogHandler{engine: e}
}

// --- Input/Output types ---

// CommunesInput is the input for listing communes.
type CommunesInput struct {
	Region string `query:"region" doc:"Region, or all"`
}

// CommunesOutput is the response for listing communes.
type CommunesOutput struct {
	Body struct {
		Region   string   `json:"region"`
		Communes []string `json:"communes"`
	}
}

// FacetsOutput is the response for the filter facets.
type FacetsOutput struct {
	Body struct {
		TerrainTypes []string `json:"terrain_types"`
		Regions      []string `json:"regions"`
		Communes     []string `json:"communes"`
		Origins      []string `json:"origins"`
		SortModes    []string `json:"sort_modes"`
	}
}

// SourceView is a source with its display metadata.
type SourceView struct {
	domain.Source

	Meta string `json:"meta"`
}

// SourcesOutput is the response for listing sources.
type SourcesOutput struct {
	Body struct {
		Sources []SourceView `json:"sources"`
	}
}

// StatsOutput is the response for the catalog stats.
type StatsOutput struct {
	Body struct {
		domain.Stats

		Sources       int    `json:"sources"`
		GeneratedFrom string `json:"generated_from,omitempty"`
		Ready         bool   `json:"ready"`
	}
}

// --- Handlers ---

// Communes returns "all" followed by the communes of the region.
func (h *CatalogHandler) Communes(
	_ context.Context,
	input *CommunesInput,
) (*CommunesOutput, error) {
	region := selection(input.Region)

	resp := &CommunesOutput{}
	resp.Body.Region = region.String()
	resp.Body.Communes = h.engine.Catalog().AvailableCommunes(region)
	return resp, nil
}

// Facets returns the values each filter control can take.
func (h *CatalogHandler) Facets(
	_ context.Context,
	_ *struct{},
) (*FacetsOutput, error) {
	c := h.engine.Catalog()

	resp := &FacetsOutput{}
	resp.Body.TerrainTypes = c.TerrainTypes()
	resp.Body.Regions = c.Regions()
	resp.Body.Communes = c.AvailableCommunes(domain.All)
	resp.Body.Origins = []string{
		string(domain.All), string(domain.OriginRemate), string(domain.OriginPortal),
	}
	resp.Body.SortModes = []string{
		string(domain.SortDefault), string(domain.SortOpportunity), string(domain.SortDiscount),
	}
	return resp, nil
}

// Sources returns every configured source in catalog order.
func (h *CatalogHandler) Sources(
	_ context.Context,
	_ *struct{},
) (*SourcesOutput, error) {
	sources := h.engine.Catalog().Sources()

	resp := &SourcesOutput{}
	resp.Body.Sources = make([]SourceView, len(sources))
	for i := range sources {
		resp.Body.Sources[i] = SourceView{Source: sources[i], Meta: sources[i].Meta()}
	}
	return resp, nil
}

// Stats returns counts over the whole catalog.
func (h *CatalogHandler) Stats(
	_ context.Context,
	_ *struct{},
) (*StatsOutput, error) {
	c := h.engine.Catalog()

	resp := &StatsOutput{}
	resp.Body.Stats = c.Stats()
	resp.Body.Sources = len(c.Sources())
	resp.Body.GeneratedFrom = c.GeneratedFrom()
	resp.Body.Ready = h.engine.Ready()
	return resp, nil
}

// RegisterCatalogRoutes registers the catalog metadata endpoints.
func RegisterCatalogRoutes(api huma.API, h *CatalogHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-communes",
		Method:      http.MethodGet,
		Path:        "/api/v1/communes",
		Summary:     "List communes",
		Description: "Returns all followed by the distinct communes of the region, in catalog order.",
		Tags:        []string{"catalog"},
	}, h.Communes)

	huma.Register(api, huma.Operation{
		OperationID: "get-facets",
		Method:      http.MethodGet,
		Path:        "/api/v1/facets",
		Summary:     "Get filter facets",
		Description: "Returns the terrain types, regions, communes, origins and sort modes the filters accept.",
		Tags:        []string{"catalog"},
	}, h.Facets)

	huma.Register(api, huma.Operation{
		OperationID: "list-sources",
		Method:      http.MethodGet,
		Path:        "/api/v1/sources",
		Summary:     "List sources",
		Description: "Returns the portals and auction sites with their display metadata.",
		Tags:        []string{"catalog"},
	}, h.Sources)

	huma.Register(api, huma.Operation{
		OperationID: "get-stats",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats",
		Summary:     "Get catalog stats",
		Description: "Returns the listing count and remate share of the whole catalog.",
		Tags:        []string{"catalog"},
	}, h.Stats)
}
