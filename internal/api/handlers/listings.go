package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/terrenos/internal/catalog"
	"github.com/donaldgifford/terrenos/internal/engine"
	domain "github.com/donaldgifford/terrenos/pkg/types"
)

// Engine is the part of *engine.Engine the handlers read from.
type Engine interface {
	Recompute(ctx context.Context, state domain.FilterState) (*engine.Result, error)
	Listing(id string) (engine.Ranked, error)
	Catalog() *catalog.Catalog
	Ready() bool
}

// ListingsHandler handles listing query endpoints.
type ListingsHandler struct {
	engine Engine
}

// NewListingsHandler creates a new ListingsHandler.
func NewListingsHandler(e Engine) *ListingsHandler {
	return &ListingsHandler{engine: e}
}

// --- Input/Output types ---

// ListListingsInput is the input for listing listings with optional filters.
type ListListingsInput struct {
	FilterParams
}

// ListListingsOutput is the response for listing listings.
type ListListingsOutput struct {
	Body struct {
		Filters  domain.FilterState `json:"filters"`
		Listings []engine.Ranked    `json:"listings"`
		Matched  int                `json:"matched"`
		Stats    domain.Stats       `json:"stats"`
	}
}

// GetListingInput is the input for getting a single listing.
type GetListingInput struct {
	ID string `path:"id" doc:"Listing ID"`
}

// GetListingOutput is the response for getting a single listing.
type GetListingOutput struct {
	Body engine.Ranked
}

// --- Handlers ---

// ListListings returns every listing matching the filters in the requested
// order.
func (h *ListingsHandler) ListListings(
	ctx context.Context,
	input *ListListingsInput,
) (*ListListingsOutput, error) {
	res, err := recompute(ctx, h.engine, &input.FilterParams)
	if err != nil {
		return nil, err
	}

	resp := &ListListingsOutput{}
	resp.Body.Filters = res.Filters
	resp.Body.Listings = res.Listings
	resp.Body.Matched = res.Matched
	resp.Body.Stats = res.Stats

	return resp, nil
}

// GetListing returns a single listing by ID.
func (h *ListingsHandler) GetListing(
	_ context.Context,
	input *GetListingInput,
) (*GetListingOutput, error) {
	listing, err := h.engine.Listing(input.ID)
	if errors.Is(err, catalog.ErrNotFound) {
		return nil, huma.Error404NotFound("listing not found")
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("getting listing: " + err.Error())
	}

	return &GetListingOutput{Body: listing}, nil
}

// RegisterListingRoutes registers listing endpoints with the Huma API.
func RegisterListingRoutes(api huma.API, h *ListingsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-listings",
		Method:      http.MethodGet,
		Path:        "/api/v1/listings",
		Summary:     "List listings",
		Description: "Returns the listings matching every active filter, ordered by the sort mode.",
		Tags:        []string{"listings"},
		Errors:      []int{http.StatusUnprocessableEntity},
	}, h.ListListings)

	huma.Register(api, huma.Operation{
		OperationID: "get-listing",
		Method:      http.MethodGet,
		Path:        "/api/v1/listings/{id}",
		Summary:     "Get a listing by ID",
		Description: "Returns a single listing with its opportunity and discount indicators.",
		Tags:        []string{"listings"},
		Errors:      []int{http.StatusNotFound},
	}, h.GetListing)
}

// recompute parses the filter parameters and runs the engine, mapping
// invalid input to 422.
func recompute(ctx context.Context, e Engine, p *FilterParams) (*engine.Result, error) {
	state, err := p.State()
	if err != nil {
		return nil, huma.Error422UnprocessableEntity(err.Error())
	}

	res, err := e.Recompute(ctx, state)
	if errors.Is(err, engine.ErrInvalidFilter) {
		return nil, huma.Error422UnprocessableEntity(err.Error())
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("recomputing listings: " + err.Error())
	}
	return res, nil
}
