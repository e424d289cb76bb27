package handlers

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	domain "github.com/donaldgifford/terrenos/pkg/types"
)

// FilterParams are the filter query parameters shared by the listing and
// search endpoints. Range bounds stay strings so an absent bound can be told
// apart from a zero bound; State parses them.
type FilterParams struct {
	Type       string `query:"type"         doc:"Terrain type, or all"`
	Region     string `query:"region"       doc:"Region, or all"`
	Commune    string `query:"commune"      doc:"Commune, or all"`
	Origin     string `query:"origin"       doc:"Listing origin"                           enum:"all,remate,portal,"`
	MinPriceMM string `query:"min_price_mm" doc:"Minimum price in millions of pesos"`
	MaxPriceMM string `query:"max_price_mm" doc:"Maximum price in millions of pesos"`
	MinAreaM2  string `query:"min_area_m2"  doc:"Minimum surface in square metres"`
	MaxAreaM2  string `query:"max_area_m2"  doc:"Maximum surface in square metres"`
	Keywords   string `query:"keywords"     doc:"Whitespace or comma separated keywords, all must match"`
	Sort       string `query:"sort"         doc:"Sort mode"                                enum:"default,opportunity,discount,"`
}

// filterKeys maps each query parameter to its field.
var filterKeys = map[string]func(*FilterParams) *string{
	"type":         func(p *FilterParams) *string { return &p.Type },
	"region":       func(p *FilterParams) *string { return &p.Region },
	"commune":      func(p *FilterParams) *string { return &p.Commune },
	"origin":       func(p *FilterParams) *string { return &p.Origin },
	"min_price_mm": func(p *FilterParams) *string { return &p.MinPriceMM },
	"max_price_mm": func(p *FilterParams) *string { return &p.MaxPriceMM },
	"min_area_m2":  func(p *FilterParams) *string { return &p.MinAreaM2 },
	"max_area_m2":  func(p *FilterParams) *string { return &p.MaxAreaM2 },
	"keywords":     func(p *FilterParams) *string { return &p.Keywords },
	"sort":         func(p *FilterParams) *string { return &p.Sort },
}

// ParseFilters parses CLI --filter flags into FilterParams. Each flag is
// key=value with the same keys as the query parameters:
//
//	type=Parcela
//	region=Valparaíso
//	min_price_mm=50
//	keywords=vista mar
//	sort=opportunity
//
// Numeric bounds are checked here so bad input fails before any request.
func ParseFilters(filters []string) (FilterParams, error) {
	var p FilterParams
	for _, f := range filters {
		key, value, ok := strings.Cut(f, "=")
		if !ok {
			return p, fmt.Errorf("invalid filter format %q: expected key=value", f)
		}
		field, known := filterKeys[strings.TrimSpace(key)]
		if !known {
			return p, fmt.Errorf("unknown filter key %q", key)
		}
		*field(&p) = value
	}

	if _, err := p.State(); err != nil {
		return p, err
	}
	return p, nil
}

// State converts the parameters into a validated FilterState.
func (p *FilterParams) State() (domain.FilterState, error) {
	state := domain.DefaultFilterState()
	var errs []error

	state.TerrainType = selection(p.Type)
	state.Region = selection(p.Region)
	state.Commune = selection(p.Commune)
	state.Origin = selection(p.Origin)
	state.Keywords = p.Keywords

	sort, err := domain.ParseSortMode(p.Sort)
	if err != nil {
		errs = append(errs, err)
	}
	state.Sort = sort

	bounds := []struct {
		name string
		raw  string
		dst  **float64
	}{
		{"min_price_mm", p.MinPriceMM, &state.MinPriceMM},
		{"max_price_mm", p.MaxPriceMM, &state.MaxPriceMM},
		{"min_area_m2", p.MinAreaM2, &state.MinAreaM2},
		{"max_area_m2", p.MaxAreaM2, &state.MaxAreaM2},
	}
	for _, b := range bounds {
		v, err := parseBound(b.name, b.raw)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		*b.dst = v
	}

	if err := errors.Join(errs...); err != nil {
		return domain.FilterState{}, err
	}
	if err := state.Validate(); err != nil {
		return domain.FilterState{}, err
	}
	return state, nil
}

// Values encodes the non-empty parameters as URL query values.
func (p *FilterParams) Values() url.Values {
	v := url.Values{}
	for key, field := range filterKeys {
		if s := *field(p); s != "" {
			v.Set(key, s)
		}
	}
	return v
}

func selection(s string) domain.Selection {
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.All
	}
	return domain.Selection(s)
}

func parseBound(name, raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("invalid %s %q: must be a number", name, raw)
	}
	return &v, nil
}
