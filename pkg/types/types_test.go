package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListing_UnmarshalPayload(t *testing.T) {
	t.Parallel()

	raw := `{
		"id": "PORTALA-17",
		"title": "Parcela con vista",
		"terrain_type": "Parcela",
		"region": "Valparaíso",
		"commune": "Quillota",
		"price_clp": 45000000,
		"surface_m2": 5000,
		"origin": "portal",
		"source_name": "PortalInmobiliario",
		"url": "www.example.cl/p/17",
		"fiscal_value": null,
		"commercial_value": 60000000,
		"extra": {}
	}`

	var l Listing
	require.NoError(t, json.Unmarshal([]byte(raw), &l))
	assert.Equal(t, OriginPortal, l.Origin)
	assert.Nil(t, l.FiscalValue)
	require.NotNil(t, l.CommercialValue)
	assert.InDelta(t, 60_000_000.0, *l.CommercialValue, 0.1)
	assert.InDelta(t, 45.0, l.PriceMM(), 1e-9)
	assert.InDelta(t, 9000.0, l.PricePerM2(), 1e-9)
}

func TestListing_UnmarshalRejectsUnknownOrigin(t *testing.T) {
	t.Parallel()

	var l Listing
	err := json.Unmarshal([]byte(`{"origin": "subasta"}`), &l)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown origin")
}

func TestListing_NormalizedURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		url    string
		want   string
		wantOK bool
	}{
		{name: "empty", url: "", wantOK: false},
		{name: "blank", url: "   ", wantOK: false},
		{name: "https kept", url: "https://example.cl/a", want: "https://example.cl/a", wantOK: true},
		{name: "http kept", url: "HTTP://example.cl/a", want: "HTTP://example.cl/a", wantOK: true},
		{name: "scheme added", url: "www.example.cl/a", want: "https://www.example.cl/a", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l := Listing{URL: tt.url}
			got, ok := l.NormalizedURL()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestListing_Validate(t *testing.T) {
	t.Parallel()

	valid := func() Listing {
		return Listing{Origin: OriginRemate, PriceCLP: 1, SurfaceM2: 1}
	}

	tests := []struct {
		name    string
		mutate  func(*Listing)
		wantErr string
	}{
		{name: "valid", mutate: func(*Listing) {}},
		{name: "zero price", mutate: func(l *Listing) { l.PriceCLP = 0 }, wantErr: "price_clp"},
		{name: "negative surface", mutate: func(l *Listing) { l.SurfaceM2 = -3 }, wantErr: "surface_m2"},
		{name: "negative fiscal", mutate: func(l *Listing) { l.FiscalValue = ptr(-1.0) }, wantErr: "fiscal_value"},
		{name: "zero commercial allowed", mutate: func(l *Listing) { l.CommercialValue = ptr(0.0) }},
		{name: "negative commercial", mutate: func(l *Listing) { l.CommercialValue = ptr(-1.0) }, wantErr: "commercial_value"},
		{name: "missing origin", mutate: func(l *Listing) { l.Origin = "" }, wantErr: "unknown origin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l := valid()
			tt.mutate(&l)
			err := l.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSource_Meta(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  Source
		want string
	}{
		{name: "both", src: Source{Category: "Portal", Tag: "Nacional"}, want: "Portal · Nacional"},
		{name: "category only", src: Source{Category: "Remates"}, want: "Remates"},
		{name: "tag only", src: Source{Tag: "Sur"}, want: "Sur"},
		{name: "neither", src: Source{}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.src.Meta())
		})
	}
}

func TestDerivedQuery_IsEmpty(t *testing.T) {
	t.Parallel()

	assert.True(t, DerivedQuery{}.IsEmpty())
	assert.False(t, DerivedQuery{Tokens: []string{"Parcela"}, Canonical: "Parcela"}.IsEmpty())
}
