package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func sampleListing() *Listing {
	return &Listing{
		Title:       "Parcela Los Aromos",
		TerrainType: "Parcela",
		Region:      "Valparaíso",
		Commune:     "Quillota",
		Origin:      OriginPortal,
		SourceName:  "PortalInmobiliario",
		PriceCLP:    45_000_000,
		SurfaceM2:   5000,
	}
}

func TestSelection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		sel   Selection
		value string
		want  bool
	}{
		{name: "all matches anything", sel: All, value: "Quillota", want: true},
		{name: "zero value matches anything", sel: "", value: "Quillota", want: true},
		{name: "exact value matches", sel: "Quillota", value: "Quillota", want: true},
		{name: "different value fails", sel: "Quillota", value: "Limache", want: false},
		{name: "match is case sensitive", sel: "quillota", value: "Quillota", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.sel.Matches(tt.value))
		})
	}
}

func TestParseSortMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    SortMode
		wantErr bool
	}{
		{input: "", want: SortDefault},
		{input: "default", want: SortDefault},
		{input: "opportunity", want: SortOpportunity},
		{input: "discount", want: SortDiscount},
		{input: "price", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseSortMode(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterState_KeywordTokens(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		keywords string
		want     []string
	}{
		{name: "empty", keywords: "", want: []string{}},
		{name: "only separators", keywords: " ,, \t", want: []string{}},
		{name: "spaces", keywords: "Vista  Mar", want: []string{"vista", "mar"}},
		{name: "commas and spaces", keywords: "agua, luz,camino", want: []string{"agua", "luz", "camino"}},
		{name: "newlines", keywords: "agua\nluz", want: []string{"agua", "luz"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := FilterState{Keywords: tt.keywords}
			got := f.KeywordTokens()
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterState_Match(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		state FilterState
		want  bool
	}{
		{name: "default state matches", state: DefaultFilterState(), want: true},
		{name: "zero state matches", state: FilterState{}, want: true},
		{name: "terrain type match", state: FilterState{TerrainType: "Parcela"}, want: true},
		{name: "terrain type mismatch", state: FilterState{TerrainType: "Sitio"}, want: false},
		{name: "region mismatch", state: FilterState{Region: "Maule"}, want: false},
		{name: "commune match", state: FilterState{Commune: "Quillota"}, want: true},
		{name: "commune mismatch", state: FilterState{Commune: "Limache"}, want: false},
		{name: "origin match", state: FilterState{Origin: "portal"}, want: true},
		{name: "origin mismatch", state: FilterState{Origin: "remate"}, want: false},
		{name: "price min inclusive", state: FilterState{MinPriceMM: ptr(45.0)}, want: true},
		{name: "price min above", state: FilterState{MinPriceMM: ptr(45.5)}, want: false},
		{name: "price max inclusive", state: FilterState{MaxPriceMM: ptr(45.0)}, want: true},
		{name: "price max below", state: FilterState{MaxPriceMM: ptr(44.9)}, want: false},
		{name: "price range contains", state: FilterState{MinPriceMM: ptr(10.0), MaxPriceMM: ptr(50.0)}, want: true},
		{name: "area min", state: FilterState{MinAreaM2: ptr(5000.0)}, want: true},
		{name: "area min above", state: FilterState{MinAreaM2: ptr(5001.0)}, want: false},
		{name: "area max below", state: FilterState{MaxAreaM2: ptr(4999.0)}, want: false},
		{name: "all keywords present", state: FilterState{Keywords: "parcela aromos"}, want: true},
		// Keyword tokens are ANDed: one missing token rejects the listing.
		{name: "one keyword missing", state: FilterState{Keywords: "parcela río"}, want: false},
		{name: "keywords match commune and region", state: FilterState{Keywords: "quillota, valparaíso"}, want: true},
		{name: "keywords are substrings", state: FilterState{Keywords: "arom"}, want: true},
		{name: "keywords ignore case", state: FilterState{Keywords: "PARCELA"}, want: true},
		{name: "keywords only separators", state: FilterState{Keywords: " , "}, want: true},
		{
			name: "all predicates combined",
			state: FilterState{
				TerrainType: "Parcela",
				Region:      "Valparaíso",
				Commune:     "Quillota",
				Origin:      "portal",
				MinPriceMM:  ptr(40.0),
				MaxPriceMM:  ptr(50.0),
				MinAreaM2:   ptr(1000.0),
				MaxAreaM2:   ptr(10000.0),
				Keywords:    "aromos",
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.state.Match(sampleListing()))
		})
	}
}

func TestFilterState_WithRegion(t *testing.T) {
	t.Parallel()

	f := DefaultFilterState()
	f.Commune = "Quillota"
	f.Keywords = "agua"

	got := f.WithRegion("Maule")
	assert.Equal(t, Selection("Maule"), got.Region)
	assert.Equal(t, All, got.Commune)
	assert.Equal(t, "agua", got.Keywords)
	assert.Equal(t, Selection("Quillota"), f.Commune, "original state must not change")
}

func TestFilterState_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		state   FilterState
		wantErr string
	}{
		{name: "default state is valid", state: DefaultFilterState()},
		{name: "zero state is valid", state: FilterState{}},
		{name: "known origin", state: FilterState{Origin: "remate"}},
		{name: "unknown origin", state: FilterState{Origin: "subasta"}, wantErr: "origin"},
		{name: "unknown sort", state: FilterState{Sort: "newest"}, wantErr: "unknown sort mode"},
		{name: "NaN bound", state: FilterState{MinPriceMM: ptr(math.NaN())}, wantErr: "min_price_mm"},
		{name: "infinite bound", state: FilterState{MaxAreaM2: ptr(math.Inf(1))}, wantErr: "max_area_m2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.state.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
