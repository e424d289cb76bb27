package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/terrenos/pkg/query"
	domain "github.com/donaldgifford/terrenos/pkg/types"
)

// SearchesHandler derives portal search links from the filters.
type SearchesHandler struct {
	engine Engine
}

// NewSearchesHandler creates a new SearchesHandler.
func NewSearchesHandler(e Engine) *SearchesHandler {
	return &SearchesHandler{engine: e}
}

// SearchesInput is the input for deriving searches.
type SearchesInput struct {
	FilterParams
}

// SearchesOutput is the response for deriving searches. Searches is empty
// when no filter contributes a search term.
type SearchesOutput struct {
	Body struct {
		Query    domain.DerivedQuery  `json:"query"`
		Empty    bool                 `json:"empty"`
		Searches []query.PortalSearch `json:"searches"`
	}
}

// Searches returns the canonical query for the filters and one search URL
// per source.
func (h *SearchesHandler) Searches(
	ctx context.Context,
	input *SearchesInput,
) (*SearchesOutput, error) {
	res, err := recompute(ctx, h.engine, &input.FilterParams)
	if err != nil {
		return nil, err
	}

	resp := &SearchesOutput{}
	resp.Body.Query = res.Query
	resp.Body.Empty = res.Query.IsEmpty()
	resp.Body.Searches = res.Searches
	if resp.Body.Searches == nil {
		resp.Body.Searches = []query.PortalSearch{}
	}

	return resp, nil
}

// RegisterSearchRoutes registers the search derivation endpoint.
func RegisterSearchRoutes(api huma.API, h *SearchesHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-searches",
		Method:      http.MethodGet,
		Path:        "/api/v1/searches",
		Summary:     "Derive portal searches",
		Description: "Builds the canonical search query from the filters and resolves a search URL for every source.",
		Tags:        []string{"searches"},
		Errors:      []int{http.StatusUnprocessableEntity},
	}, h.Searches)
}
