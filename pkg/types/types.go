// Package domain defines the core business types for the land-plot catalog.
package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// OriginKind represents where a listing was published.
type OriginKind string

// Origin kind constants.
const (
	OriginRemate OriginKind = "remate"
	OriginPortal OriginKind = "portal"
)

// ParseOriginKind converts a raw origin string into an OriginKind.
func ParseOriginKind(s string) (OriginKind, error) {
	switch OriginKind(s) {
	case OriginRemate, OriginPortal:
		return OriginKind(s), nil
	default:
		return "", fmt.Errorf("unknown origin %q", s)
	}
}

// UnmarshalJSON rejects origins outside the closed set.
func (o *OriginKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	kind, err := ParseOriginKind(s)
	if err != nil {
		return err
	}
	*o = kind
	return nil
}

// Listing represents one land-plot catalog entry.
type Listing struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	TerrainType string `json:"terrain_type"`
	Region      string `json:"region"`
	Commune     string `json:"commune"`

	// Origin
	Origin     OriginKind `json:"origin"`
	SourceName string     `json:"source_name"`
	URL        string     `json:"url,omitempty"`

	// Pricing
	PriceCLP  float64 `json:"price_clp"`
	SurfaceM2 float64 `json:"surface_m2"`

	// Appraisals
	FiscalValue     *float64 `json:"fiscal_value,omitempty"`
	CommercialValue *float64 `json:"commercial_value,omitempty"`

	Extra map[string]any `json:"extra,omitempty"`

	// InsertionRank is assigned by the catalog from arrival order.
	InsertionRank int `json:"insertion_rank"`
}

// PriceMM returns the price in millions of pesos.
func (l *Listing) PriceMM() float64 {
	return l.PriceCLP / 1_000_000
}

// PricePerM2 returns the asking price per square metre.
func (l *Listing) PricePerM2() float64 {
	if l.SurfaceM2 <= 0 {
		return 0
	}
	return l.PriceCLP / l.SurfaceM2
}

// IsRemate reports whether the listing is a forced or auction sale.
func (l *Listing) IsRemate() bool {
	return l.Origin == OriginRemate
}

// NormalizedURL returns the listing URL with an https scheme added when the
// published link omits one. The second result is false when there is no link.
func (l *Listing) NormalizedURL() (string, bool) {
	raw := strings.TrimSpace(l.URL)
	if raw == "" {
		return "", false
	}
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return raw, true
	}
	return "https://" + raw, true
}

// Validate checks the invariants a loaded listing must satisfy.
func (l *Listing) Validate() error {
	switch {
	case !(l.PriceCLP > 0) || math.IsInf(l.PriceCLP, 0):
		return fmt.Errorf("price_clp must be positive (got %v)", l.PriceCLP)
	case !(l.SurfaceM2 > 0) || math.IsInf(l.SurfaceM2, 0):
		return fmt.Errorf("surface_m2 must be positive (got %v)", l.SurfaceM2)
	case l.FiscalValue != nil && !(*l.FiscalValue >= 0):
		return fmt.Errorf("fiscal_value must be non-negative (got %v)", *l.FiscalValue)
	case l.CommercialValue != nil && !(*l.CommercialValue >= 0):
		return fmt.Errorf("commercial_value must be non-negative (got %v)", *l.CommercialValue)
	}
	if _, err := ParseOriginKind(string(l.Origin)); err != nil {
		return err
	}
	return nil
}

// Source is a curated external listings portal.
type Source struct {
	Name           string `json:"name"`
	Category       string `json:"category,omitempty"`
	Tag            string `json:"tag,omitempty"`
	URL            string `json:"url"`
	SearchTemplate string `json:"search_template,omitempty"`
}

// Meta joins the non-empty category and tag for display.
func (s *Source) Meta() string {
	parts := make([]string, 0, 2)
	if s.Category != "" {
		parts = append(parts, s.Category)
	}
	if s.Tag != "" {
		parts = append(parts, s.Tag)
	}
	return strings.Join(parts, " · ")
}

// Stats holds aggregate catalog counts.
type Stats struct {
	Total          int `json:"total"`
	Remates        int `json:"remates"`
	RemateSharePct int `json:"remate_share_pct"`
}

// DerivedQuery is the search projection of the active filters.
type DerivedQuery struct {
	Tokens    []string `json:"tokens"`
	Canonical string   `json:"canonical_query"`
	Summary   string   `json:"summary"`
}

// IsEmpty reports whether no filter produced a query token.
func (q DerivedQuery) IsEmpty() bool {
	return q.Canonical == ""
}
