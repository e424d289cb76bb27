package store

import domain "github.com/donaldgifford/terrenos/pkg/types"

func testListing() domain.Listing {
	return domain.Listing{
		ID:          "REM-1",
		Title:       "Terreno agrícola",
		TerrainType: "Agrícola",
		Region:      "Ñuble",
		Commune:     "Chillán",
		Origin:      domain.OriginRemate,
		SourceName:  "Juzgado",
		PriceCLP:    80_000_000,
		SurfaceM2:   100_000,
		Extra:       map[string]any{"entity": "Juzgado"},
	}
}
