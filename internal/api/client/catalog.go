package client

import (
	"context"
	"net/url"

	"github.com/donaldgifford/terrenos/internal/api/handlers"
	"github.com/donaldgifford/terrenos/pkg/query"
	domain "github.com/donaldgifford/terrenos/pkg/types"
)

// SearchesResponse is the derived query with its per-source links.
type SearchesResponse struct {
	Query    domain.DerivedQuery  `json:"query"`
	Empty    bool                 `json:"empty"`
	Searches []query.PortalSearch `json:"searches"`
}

// Searches derives the portal searches for the filters.
func (c *Client) Searches(ctx context.Context, filters *handlers.FilterParams) (*SearchesResponse, error) {
	var resp SearchesResponse
	if err := c.get(ctx, "/api/v1/searches", filters.Values(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Source is a source with its display metadata.
type Source struct {
	domain.Source

	Meta string `json:"meta"`
}

// Sources returns every source in catalog order.
func (c *Client) Sources(ctx context.Context) ([]Source, error) {
	var resp struct {
		Sources []Source `json:"sources"`
	}
	if err := c.get(ctx, "/api/v1/sources", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Sources, nil
}

// Communes returns "all" followed by the communes of region. An empty
// region means every region.
func (c *Client) Communes(ctx context.Context, region string) ([]string, error) {
	q := url.Values{}
	if region != "" {
		q.Set("region", region)
	}

	var resp struct {
		Communes []string `json:"communes"`
	}
	if err := c.get(ctx, "/api/v1/communes", q, &resp); err != nil {
		return nil, err
	}
	return resp.Communes, nil
}

// Facets lists the values each filter accepts.
type Facets struct {
	TerrainTypes []string `json:"terrain_types"`
	Regions      []string `json:"regions"`
	Communes     []string `json:"communes"`
	Origins      []string `json:"origins"`
	SortModes    []string `json:"sort_modes"`
}

// Facets returns the filter facets.
func (c *Client) Facets(ctx context.Context) (*Facets, error) {
	var resp Facets
	if err := c.get(ctx, "/api/v1/facets", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// StatsResponse holds whole-catalog counts.
type StatsResponse struct {
	domain.Stats

	Sources       int    `json:"sources"`
	GeneratedFrom string `json:"generated_from"`
	Ready         bool   `json:"ready"`
}

// Stats returns the catalog stats.
func (c *Client) Stats(ctx context.Context) (*StatsResponse, error) {
	var resp StatsResponse
	if err := c.get(ctx, "/api/v1/stats", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
