package client

import (
	"context"
	"net/url"

	"github.com/donaldgifford/terrenos/internal/api/handlers"
	"github.com/donaldgifford/terrenos/internal/engine"
	domain "github.com/donaldgifford/terrenos/pkg/types"
)

// ListingsResponse holds the matching listings with whole-catalog stats.
type ListingsResponse struct {
	Filters  domain.FilterState `json:"filters"`
	Listings []engine.Ranked    `json:"listings"`
	Matched  int                `json:"matched"`
	Stats    domain.Stats       `json:"stats"`
}

// ListListings returns the listings matching the filters.
func (c *Client) ListListings(
	ctx context.Context,
	filters *handlers.FilterParams,
) (*ListingsResponse, error) {
	var resp ListingsResponse
	if err := c.get(ctx, "/api/v1/listings", filters.Values(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetListing returns a single listing by ID.
func (c *Client) GetListing(ctx context.Context, id string) (*engine.Ranked, error) {
	var l engine.Ranked
	if err := c.get(ctx, "/api/v1/listings/"+url.PathEscape(id), nil, &l); err != nil {
		return nil, err
	}
	return &l, nil
}
