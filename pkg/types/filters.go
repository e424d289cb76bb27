package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode"
)

// All is the selection sentinel that disables a categorical predicate.
const All Selection = "all"

// Selection is a categorical filter value. The zero value behaves like All.
type Selection string

// IsAll reports whether the selection imposes no constraint.
func (s Selection) IsAll() bool {
	return s == "" || s == All
}

// Matches reports whether v satisfies the selection.
func (s Selection) Matches(v string) bool {
	return s.IsAll() || string(s) == v
}

// String returns the selection value, normalizing the zero value to "all".
func (s Selection) String() string {
	if s.IsAll() {
		return string(All)
	}
	return string(s)
}

// SortMode selects the ordering of the visible listings.
type SortMode string

// Sort mode constants.
const (
	SortDefault     SortMode = "default"
	SortOpportunity SortMode = "opportunity"
	SortDiscount    SortMode = "discount"
)

// ParseSortMode converts a raw sort string into a SortMode.
// An empty string selects SortDefault.
func ParseSortMode(s string) (SortMode, error) {
	switch SortMode(s) {
	case "", SortDefault:
		return SortDefault, nil
	case SortOpportunity, SortDiscount:
		return SortMode(s), nil
	default:
		return "", fmt.Errorf("unknown sort mode %q (want default, opportunity or discount)", s)
	}
}

// FilterState is the user's current predicate, range and sort selection.
type FilterState struct {
	TerrainType Selection `json:"terrain_type"`
	Region      Selection `json:"region"`
	Commune     Selection `json:"commune"`
	Origin      Selection `json:"origin"`

	// Price bounds in millions of pesos.
	MinPriceMM *float64 `json:"min_price_mm,omitempty"`
	MaxPriceMM *float64 `json:"max_price_mm,omitempty"`

	// Area bounds in square metres.
	MinAreaM2 *float64 `json:"min_area_m2,omitempty"`
	MaxAreaM2 *float64 `json:"max_area_m2,omitempty"`

	// Keywords is the raw whitespace or comma delimited input.
	Keywords string `json:"keywords,omitempty"`

	Sort SortMode `json:"sort"`
}

// DefaultFilterState returns a state with every predicate disabled.
func DefaultFilterState() FilterState {
	return FilterState{
		TerrainType: All,
		Region:      All,
		Commune:     All,
		Origin:      All,
		Sort:        SortDefault,
	}
}

// WithRegion returns a copy of the state with the region changed and the
// commune reset, since a commune only belongs to one region.
func (f FilterState) WithRegion(region Selection) FilterState {
	f.Region = region
	f.Commune = All
	return f
}

// Validate rejects states the engine cannot evaluate.
func (f *FilterState) Validate() error {
	var errs []error

	if !f.Origin.IsAll() {
		if _, err := ParseOriginKind(string(f.Origin)); err != nil {
			errs = append(errs, fmt.Errorf("origin: %w", err))
		}
	}

	if _, err := ParseSortMode(string(f.Sort)); err != nil {
		errs = append(errs, err)
	}

	bounds := []struct {
		name string
		v    *float64
	}{
		{"min_price_mm", f.MinPriceMM},
		{"max_price_mm", f.MaxPriceMM},
		{"min_area_m2", f.MinAreaM2},
		{"max_area_m2", f.MaxAreaM2},
	}
	for _, b := range bounds {
		if b.v != nil && (math.IsNaN(*b.v) || math.IsInf(*b.v, 0)) {
			errs = append(errs, fmt.Errorf("%s must be a finite number", b.name))
		}
	}

	return errors.Join(errs...)
}

// KeywordTokens splits the keyword input on runs of whitespace or commas
// into non-empty lowercase tokens.
func (f *FilterState) KeywordTokens() []string {
	return strings.FieldsFunc(strings.ToLower(f.Keywords), func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}

// Match checks if a listing satisfies every active predicate.
func (f *FilterState) Match(l *Listing) bool {
	if !f.matchCategories(l) {
		return false
	}
	if !f.matchPrice(l) {
		return false
	}
	if !f.matchArea(l) {
		return false
	}
	return f.matchKeywords(l)
}

func (f *FilterState) matchCategories(l *Listing) bool {
	return f.TerrainType.Matches(l.TerrainType) &&
		f.Region.Matches(l.Region) &&
		f.Commune.Matches(l.Commune) &&
		f.Origin.Matches(string(l.Origin))
}

func (f *FilterState) matchPrice(l *Listing) bool {
	return inRange(l.PriceMM(), f.MinPriceMM, f.MaxPriceMM)
}

func (f *FilterState) matchArea(l *Listing) bool {
	return inRange(l.SurfaceM2, f.MinAreaM2, f.MaxAreaM2)
}

// matchKeywords requires every token to appear in the listing text. A plot
// titled "Parcela Los Aromos" matches "parcela aromos" but not "parcela río".
func (f *FilterState) matchKeywords(l *Listing) bool {
	tokens := f.KeywordTokens()
	if len(tokens) == 0 {
		return true
	}
	haystack := strings.ToLower(strings.Join(
		[]string{l.Title, l.TerrainType, l.Commune, l.Region}, " ",
	))
	for _, tok := range tokens {
		if !strings.Contains(haystack, tok) {
			return false
		}
	}
	return true
}

func inRange(v float64, lo, hi *float64) bool {
	if lo != nil && v < *lo {
		return false
	}
	if hi != nil && v > *hi {
		return false
	}
	return true
}
