package aggregate

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/donaldgifford/terrenos/pkg/types"
)

const portalA = `[
  {"listing_id": 101, "title": "Parcela Los Aromos", "type": "Parcela", "region": "Valparaíso",
   "commune": "Quillota", "price_clp": 45000000, "surface_m2": 5000, "portal": "PortalInmobiliario",
   "url": "https://portal-a.test/101", "commercial_value": 60000000}
]`

const portalB = `[
  {"code": "B-7", "name": "Sitio urbano", "category": "Sitio",
   "location": {"region": "Maule", "commune": "Talca"}, "amount": 30000000, "size": 420.5,
   "source": "Yapo", "link": "portal-b.test/7", "avaluos": {"fiscal": 12000000}}
]`

const remates = `[
  {"id": "REM-1", "asset_name": "Terreno agrícola", "terrain_type": "Agrícola", "region": "Ñuble",
   "commune": "Chillán", "minimum_bid": 80000000, "surface": 100000, "entity": "Juzgado Civil",
   "docs": "https://remates.test/1", "auction_date": "2024-05-01",
   "avaluo_fiscal": 50000000, "avaluo_comercial": 120000000}
]`

func writeRaw(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	}
	return dir
}

func TestParsePortalA(t *testing.T) {
	t.Parallel()

	got, err := ParsePortalA(strings.NewReader(portalA))
	require.NoError(t, err)
	require.Len(t, got, 1)

	l := got[0]
	assert.Equal(t, "PORTALA-101", l.ID)
	assert.Equal(t, "Parcela", l.TerrainType)
	assert.Equal(t, domain.OriginPortal, l.Origin)
	assert.Equal(t, "PortalInmobiliario", l.SourceName)
	assert.Nil(t, l.FiscalValue)
	require.NotNil(t, l.CommercialValue)
	assert.InDelta(t, 60_000_000.0, *l.CommercialValue, 0.1)
	assert.NoError(t, l.Validate())
}

func TestParsePortalB(t *testing.T) {
	t.Parallel()

	got, err := ParsePortalB(strings.NewReader(portalB))
	require.NoError(t, err)
	require.Len(t, got, 1)

	l := got[0]
	assert.Equal(t, "PORTALB-B-7", l.ID)
	assert.Equal(t, "Maule", l.Region)
	assert.Equal(t, "Talca", l.Commune)
	assert.InDelta(t, 420.5, l.SurfaceM2, 1e-9)
	require.NotNil(t, l.FiscalValue)
	assert.Nil(t, l.CommercialValue)
	assert.NoError(t, l.Validate())
}

func TestParseRemates(t *testing.T) {
	t.Parallel()

	got, err := ParseRemates(strings.NewReader(remates))
	require.NoError(t, err)
	require.Len(t, got, 1)

	l := got[0]
	assert.Equal(t, "REM-1", l.ID)
	assert.Equal(t, domain.OriginRemate, l.Origin)
	assert.Equal(t, "Juzgado Civil", l.SourceName)
	assert.InDelta(t, 80_000_000.0, l.PriceCLP, 0.1)
	assert.Contains(t, l.Extra, "auction_date")
	assert.Contains(t, l.Extra, "entity")
	assert.NoError(t, l.Validate())
}

func TestParse_InvalidJSON(t *testing.T) {
	t.Parallel()

	_, err := ParsePortalA(strings.NewReader(`{"not": "an array"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding raw export")
}

func TestRun(t *testing.T) {
	t.Parallel()

	dir := writeRaw(t, map[string]string{
		"portal_a.json": portalA,
		"portal_b.json": portalB,
		"remates.json":  remates,
	})

	ds, err := Run(dir, DefaultParsers())
	require.NoError(t, err)
	assert.Equal(t, GeneratedFrom, ds.GeneratedFrom)

	ids := make([]string, len(ds.Listings))
	for i := range ds.Listings {
		ids[i] = ds.Listings[i].ID
	}
	assert.Equal(t, []string{"PORTALA-101", "PORTALB-B-7", "REM-1"}, ids)
}

func TestRun_MissingFile(t *testing.T) {
	t.Parallel()

	dir := writeRaw(t, map[string]string{"portal_a.json": portalA})

	_, err := Run(dir, DefaultParsers())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "portal_b.json")
}

func TestDataset_Write(t *testing.T) {
	t.Parallel()

	ds := &Dataset{
		GeneratedFrom: GeneratedFrom,
		Listings: []domain.Listing{
			{ID: "X", Title: "Lote <norte> & sur", Origin: domain.OriginPortal, PriceCLP: 1, SurfaceM2: 1},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, ds.Write(&buf))

	out := buf.String()
	assert.Contains(t, out, `"generated_from": "local samples"`)
	assert.Contains(t, out, "Lote <norte> & sur", "HTML characters are written verbatim")

	var back Dataset
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, "X", back.Listings[0].ID)
}

func TestDataset_Write_RecordShape(t *testing.T) {
	t.Parallel()

	fiscal := 9_000_000.0
	ds := &Dataset{
		GeneratedFrom: GeneratedFrom,
		Listings: []domain.Listing{
			{
				ID: "P-1", Title: "Parcela", Origin: domain.OriginPortal, SourceName: "Portal A",
				PriceCLP: 10, SurfaceM2: 5, InsertionRank: 3,
			},
			{
				ID: "R-1", Title: "Remate", Origin: domain.OriginRemate, SourceName: "Banco",
				URL: "https://example.cl/docs", PriceCLP: 10, SurfaceM2: 5, FiscalValue: &fiscal,
				Extra: map[string]any{"auction_date": nil, "entity": "Banco"},
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, ds.Write(&buf))

	var raw struct {
		Listings []map[string]json.RawMessage `json:"listings"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	require.Len(t, raw.Listings, 2)

	keys := []string{
		"id", "title", "terrain_type", "region", "commune", "price_clp", "surface_m2",
		"origin", "source_name", "url", "fiscal_value", "commercial_value", "extra",
	}
	for i, rec := range raw.Listings {
		assert.Len(t, rec, len(keys), "listing %d", i)
		for _, k := range keys {
			assert.Contains(t, rec, k, "listing %d", i)
		}
		assert.NotContains(t, rec, "insertion_rank", "listing %d", i)
	}

	portal := raw.Listings[0]
	assert.JSONEq(t, `{}`, string(portal["extra"]))
	assert.JSONEq(t, `null`, string(portal["fiscal_value"]))
	assert.JSONEq(t, `null`, string(portal["commercial_value"]))
	assert.JSONEq(t, `""`, string(portal["url"]))

	remate := raw.Listings[1]
	assert.JSONEq(t, `9000000`, string(remate["fiscal_value"]))
	assert.JSONEq(t, `{"auction_date": null, "entity": "Banco"}`, string(remate["extra"]))

	out := buf.String()
	assert.Less(t, strings.Index(out, `"surface_m2"`), strings.Index(out, `"origin"`),
		"keys keep the dataset column order")
}

func TestDataset_WriteFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "docs", "data", "listings.json")
	ds := &Dataset{GeneratedFrom: GeneratedFrom, Listings: []domain.Listing{}}

	require.NoError(t, ds.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"listings": []`)
}
