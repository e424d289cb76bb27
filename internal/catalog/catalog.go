// Package catalog holds the immutable land-plot catalog and the curated
// portal list, and answers the read-only questions the engine and the API
// ask of them.
package catalog

import (
	"errors"
	"math"
	"slices"
	"strconv"

	domain "github.com/donaldgifford/terrenos/pkg/types"
)

// ErrNotFound is returned when a listing id is not in the catalog.
var ErrNotFound = errors.New("listing not found")

// Catalog is an immutable snapshot of listings and sources. It is safe for
// concurrent use.
type Catalog struct {
	listings      []domain.Listing
	sources       []domain.Source
	byID          map[string]int
	generatedFrom string
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithGeneratedFrom records the provenance label of the listings payload.
func WithGeneratedFrom(s string) Option {
	return func(c *Catalog) {
		c.generatedFrom = s
	}
}

// New builds a catalog from listings in arrival order. The input slices are
// copied; each listing's InsertionRank is set to its index so ranks are
// unique and dense. Listings without an id are given their rank as id.
func New(listings []domain.Listing, sources []domain.Source, opts ...Option) *Catalog {
	c := &Catalog{
		listings: slices.Clone(listings),
		sources:  slices.Clone(sources),
		byID:     make(map[string]int, len(listings)),
	}
	for _, opt := range opts {
		opt(c)
	}

	for i := range c.listings {
		l := &c.listings[i]
		l.InsertionRank = i
		l.ID = effectiveID(l, i)
		if _, dup := c.byID[l.ID]; !dup {
			c.byID[l.ID] = i
		}
	}
	if c.listings == nil {
		c.listings = []domain.Listing{}
	}
	if c.sources == nil {
		c.sources = []domain.Source{}
	}

	return c
}

// effectiveID is the id a listing at index i is stored under.
func effectiveID(l *domain.Listing, i int) string {
	if l.ID == "" {
		return strconv.Itoa(i)
	}
	return l.ID
}

// Empty returns a catalog with no listings and no sources.
func Empty() *Catalog {
	return New(nil, nil)
}

// Len returns the number of listings.
func (c *Catalog) Len() int {
	return len(c.listings)
}

// GeneratedFrom returns the provenance label of the listings payload.
func (c *Catalog) GeneratedFrom() string {
	return c.generatedFrom
}

// Listings returns a copy of the listings in insertion order.
func (c *Catalog) Listings() []domain.Listing {
	return slices.Clone(c.listings)
}

// Sources returns a copy of the sources in curated order.
func (c *Catalog) Sources() []domain.Source {
	return slices.Clone(c.sources)
}

// Get returns the listing with the given id.
func (c *Catalog) Get(id string) (domain.Listing, error) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Listing{}, ErrNotFound
	}
	return c.listings[i], nil
}

// Filter returns the listings matching every active predicate of state, as
// an order-preserving subsequence of the catalog.
func (c *Catalog) Filter(state *domain.FilterState) []domain.Listing {
	out := make([]domain.Listing, 0, len(c.listings))
	for i := range c.listings {
		if state.Match(&c.listings[i]) {
			out = append(out, c.listings[i])
		}
	}
	return out
}

// AvailableCommunes returns "all" followed by the distinct communes of the
// listings in region, in first-occurrence order. The all region leaves the
// communes unrestricted.
func (c *Catalog) AvailableCommunes(region domain.Selection) []string {
	return distinct(c.listings, func(l *domain.Listing) (string, bool) {
		return l.Commune, region.Matches(l.Region)
	})
}

// TerrainTypes returns "all" followed by the distinct terrain types.
func (c *Catalog) TerrainTypes() []string {
	return distinct(c.listings, func(l *domain.Listing) (string, bool) {
		return l.TerrainType, true
	})
}

// Regions returns "all" followed by the distinct regions.
func (c *Catalog) Regions() []string {
	return distinct(c.listings, func(l *domain.Listing) (string, bool) {
		return l.Region, true
	})
}

// Stats returns aggregate counts over the whole catalog.
func (c *Catalog) Stats() domain.Stats {
	return ComputeStats(c.listings)
}

// ComputeStats counts listings and the share of remates, rounded to the
// nearest whole percent. An empty input has a zero share.
func ComputeStats(listings []domain.Listing) domain.Stats {
	s := domain.Stats{Total: len(listings)}
	for i := range listings {
		if listings[i].IsRemate() {
			s.Remates++
		}
	}
	if s.Total > 0 {
		s.RemateSharePct = int(math.Round(float64(s.Remates) / float64(s.Total) * 100))
	}
	return s
}

func distinct(listings []domain.Listing, pick func(*domain.Listing) (string, bool)) []string {
	out := []string{string(domain.All)}
	seen := make(map[string]struct{})
	for i := range listings {
		v, ok := pick(&listings[i])
		if !ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
