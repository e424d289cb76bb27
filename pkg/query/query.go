// Package query projects the active filter state into a canonical search
// string and expands it against each portal's search template.
package query

import (
	"net/url"
	"strconv"
	"strings"

	domain "github.com/donaldgifford/terrenos/pkg/types"
)

// Placeholder is the token in a source search template replaced by the
// encoded canonical query.
const Placeholder = "{query}"

const (
	tokenSeparator   = " "
	summarySeparator = " · "
)

// Builder accumulates query tokens in append order.
type Builder struct {
	tokens []string
}

// Add appends a token. Empty tokens are ignored.
func (b *Builder) Add(token string) *Builder {
	if token != "" {
		b.tokens = append(b.tokens, token)
	}
	return b
}

// AddSelection appends the selection value unless it is the all sentinel.
func (b *Builder) AddSelection(s domain.Selection) *Builder {
	if s.IsAll() {
		return b
	}
	return b.Add(string(s))
}

// AddRange appends a "<label> ≥X<unit> / ≤Y<unit>" token. Nothing is added
// when both bounds are unset.
func (b *Builder) AddRange(label, unit string, lo, hi *float64) *Builder {
	parts := make([]string, 0, 2)
	if lo != nil {
		parts = append(parts, "≥"+formatBound(*lo)+unit)
	}
	if hi != nil {
		parts = append(parts, "≤"+formatBound(*hi)+unit)
	}
	if len(parts) == 0 {
		return b
	}
	return b.Add(label + " " + strings.Join(parts, " / "))
}

// Query returns the derived query for the tokens added so far.
func (b *Builder) Query() domain.DerivedQuery {
	tokens := make([]string, len(b.tokens))
	copy(tokens, b.tokens)
	return domain.DerivedQuery{
		Tokens:    tokens,
		Canonical: strings.Join(tokens, tokenSeparator),
		Summary:   strings.Join(tokens, summarySeparator),
	}
}

// Build derives the query for a filter state. Token order is fixed:
// terrain type, commune, region, keywords, price range, area range.
func Build(state *domain.FilterState) domain.DerivedQuery {
	var b Builder
	return b.
		AddSelection(state.TerrainType).
		AddSelection(state.Commune).
		AddSelection(state.Region).
		Add(strings.TrimSpace(state.Keywords)).
		AddRange("precio", "MM", state.MinPriceMM, state.MaxPriceMM).
		AddRange("superficie", "m²", state.MinAreaM2, state.MaxAreaM2).
		Query()
}

// PortalSearchURL returns the source's search URL for the canonical query.
// Sources without a template fall back to their manual link.
func PortalSearchURL(src *domain.Source, canonical string) string {
	if src.SearchTemplate == "" {
		return src.URL
	}
	return strings.Replace(src.SearchTemplate, Placeholder, EncodeComponent(canonical), 1)
}

// PortalSearch is one resolved search link.
type PortalSearch struct {
	Source    domain.Source `json:"source"`
	URL       string        `json:"url"`
	Templated bool          `json:"templated"`
}

// Project resolves a search URL for every source, in source order.
// It returns nil when the query is empty.
func Project(sources []domain.Source, q domain.DerivedQuery) []PortalSearch {
	if q.IsEmpty() {
		return nil
	}
	out := make([]PortalSearch, 0, len(sources))
	for i := range sources {
		out = append(out, PortalSearch{
			Source:    sources[i],
			URL:       PortalSearchURL(&sources[i], q.Canonical),
			Templated: sources[i].SearchTemplate != "",
		})
	}
	return out
}

// componentUnescaper undoes QueryEscape for the characters a URI component
// may carry literally: space becomes %20 and !'()* stay as they are.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeComponent percent-encodes s like encodeURIComponent: everything
// except letters, digits and -_.!~*'() is escaped, spaces as %20.
func EncodeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
