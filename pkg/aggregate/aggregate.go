// Package aggregate unifies raw portal and auction exports into the single
// listings dataset the catalog loads.
package aggregate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	domain "github.com/donaldgifford/terrenos/pkg/types"
)

// GeneratedFrom is the provenance label written into local datasets.
const GeneratedFrom = "local samples"

// Dataset is the unified listings payload.
type Dataset struct {
	GeneratedFrom string           `json:"generated_from"`
	Listings      []domain.Listing `json:"listings"`
}

// Parser converts one raw export into listings.
type Parser struct {
	// File is the raw export name, relative to the raw directory.
	File  string
	Parse func(r io.Reader) ([]domain.Listing, error)
}

// DefaultParsers returns the raw exports in dataset order.
func DefaultParsers() []Parser {
	return []Parser{
		{File: "portal_a.json", Parse: ParsePortalA},
		{File: "portal_b.json", Parse: ParsePortalB},
		{File: "remates.json", Parse: ParseRemates},
	}
}

// Run parses every raw export under rawDir, in parser order.
func Run(rawDir string, parsers []Parser) (*Dataset, error) {
	ds := &Dataset{GeneratedFrom: GeneratedFrom, Listings: []domain.Listing{}}

	for _, p := range parsers {
		listings, err := parseFile(filepath.Join(rawDir, p.File), p.Parse)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", p.File, err)
		}
		ds.Listings = append(ds.Listings, listings...)
	}

	return ds, nil
}

func parseFile(path string, parse func(io.Reader) ([]domain.Listing, error)) ([]domain.Listing, error) {
	f, err := os.Open(path) //nolint:gosec // raw dir from trusted CLI flag
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return parse(f)
}

// Write encodes the dataset as indented JSON without HTML escaping.
func (ds *Dataset) Write(w io.Writer) error {
	out := datasetFile{
		GeneratedFrom: ds.GeneratedFrom,
		Listings:      make([]record, 0, len(ds.Listings)),
	}
	for i := range ds.Listings {
		out.Listings = append(out.Listings, newRecord(&ds.Listings[i]))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}

// datasetFile is the on-disk shape of a Dataset.
type datasetFile struct {
	GeneratedFrom string   `json:"generated_from"`
	Listings      []record `json:"listings"`
}

// record is one listing as the dataset file carries it. Every key is always
// present: missing appraisals are null and extra is at least {}. The catalog
// insertion rank is not part of the file.
type record struct {
	ID              string            `json:"id"`
	Title           string            `json:"title"`
	TerrainType     string            `json:"terrain_type"`
	Region          string            `json:"region"`
	Commune         string            `json:"commune"`
	PriceCLP        float64           `json:"price_clp"`
	SurfaceM2       float64           `json:"surface_m2"`
	Origin          domain.OriginKind `json:"origin"`
	SourceName      string            `json:"source_name"`
	URL             string            `json:"url"`
	FiscalValue     *float64          `json:"fiscal_value"`
	CommercialValue *float64          `json:"commercial_value"`
	Extra           map[string]any    `json:"extra"`
}

func newRecord(l *domain.Listing) record {
	extra := l.Extra
	if extra == nil {
		extra = map[string]any{}
	}
	return record{
		ID:              l.ID,
		Title:           l.Title,
		TerrainType:     l.TerrainType,
		Region:          l.Region,
		Commune:         l.Commune,
		PriceCLP:        l.PriceCLP,
		SurfaceM2:       l.SurfaceM2,
		Origin:          l.Origin,
		SourceName:      l.SourceName,
		URL:             l.URL,
		FiscalValue:     l.FiscalValue,
		CommercialValue: l.CommercialValue,
		Extra:           extra,
	}
}

// WriteFile writes the dataset to path, creating parent directories.
func (ds *Dataset) WriteFile(path string) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.Create(path) //nolint:gosec // output path from trusted CLI flag
	if err != nil {
		return fmt.Errorf("creating dataset file: %w", err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	return ds.Write(f)
}

// ParsePortalA parses the portal A export.
func ParsePortalA(r io.Reader) ([]domain.Listing, error) {
	var items []struct {
		ListingID       rawID    `json:"listing_id"`
		Title           string   `json:"title"`
		Type            string   `json:"type"`
		Region          string   `json:"region"`
		Commune         string   `json:"commune"`
		PriceCLP        float64  `json:"price_clp"`
		SurfaceM2       float64  `json:"surface_m2"`
		Portal          string   `json:"portal"`
		URL             string   `json:"url"`
		FiscalValue     *float64 `json:"fiscal_value"`
		CommercialValue *float64 `json:"commercial_value"`
	}
	if err := decode(r, &items); err != nil {
		return nil, err
	}

	out := make([]domain.Listing, 0, len(items))
	for i := range items {
		it := &items[i]
		out = append(out, domain.Listing{
			ID:              "PORTALA-" + string(it.ListingID),
			Title:           it.Title,
			TerrainType:     it.Type,
			Region:          it.Region,
			Commune:         it.Commune,
			PriceCLP:        it.PriceCLP,
			SurfaceM2:       it.SurfaceM2,
			Origin:          domain.OriginPortal,
			SourceName:      it.Portal,
			URL:             it.URL,
			FiscalValue:     it.FiscalValue,
			CommercialValue: it.CommercialValue,
			Extra:           map[string]any{},
		})
	}
	return out, nil
}

// ParsePortalB parses the portal B export.
func ParsePortalB(r io.Reader) ([]domain.Listing, error) {
	var items []struct {
		Code     rawID  `json:"code"`
		Name     string `json:"name"`
		Category string `json:"category"`
		Location struct {
			Region  string `json:"region"`
			Commune string `json:"commune"`
		} `json:"location"`
		Amount  float64 `json:"amount"`
		Size    float64 `json:"size"`
		Source  string  `json:"source"`
		Link    string  `json:"link"`
		Avaluos struct {
			Fiscal     *float64 `json:"fiscal"`
			Commercial *float64 `json:"commercial"`
		} `json:"avaluos"`
	}
	if err := decode(r, &items); err != nil {
		return nil, err
	}

	out := make([]domain.Listing, 0, len(items))
	for i := range items {
		it := &items[i]
		out = append(out, domain.Listing{
			ID:              "PORTALB-" + string(it.Code),
			Title:           it.Name,
			TerrainType:     it.Category,
			Region:          it.Location.Region,
			Commune:         it.Location.Commune,
			PriceCLP:        it.Amount,
			SurfaceM2:       it.Size,
			Origin:          domain.OriginPortal,
			SourceName:      it.Source,
			URL:             it.Link,
			FiscalValue:     it.Avaluos.Fiscal,
			CommercialValue: it.Avaluos.Commercial,
			Extra:           map[string]any{},
		})
	}
	return out, nil
}

// ParseRemates parses the judicial auction export.
func ParseRemates(r io.Reader) ([]domain.Listing, error) {
	var items []struct {
		ID              string   `json:"id"`
		AssetName       string   `json:"asset_name"`
		TerrainType     string   `json:"terrain_type"`
		Region          string   `json:"region"`
		Commune         string   `json:"commune"`
		MinimumBid      float64  `json:"minimum_bid"`
		Surface         float64  `json:"surface"`
		Entity          *string  `json:"entity"`
		Docs            string   `json:"docs"`
		AuctionDate     *string  `json:"auction_date"`
		AvaluoFiscal    *float64 `json:"avaluo_fiscal"`
		AvaluoComercial *float64 `json:"avaluo_comercial"`
	}
	if err := decode(r, &items); err != nil {
		return nil, err
	}

	out := make([]domain.Listing, 0, len(items))
	for i := range items {
		it := &items[i]
		var sourceName string
		if it.Entity != nil {
			sourceName = *it.Entity
		}
		out = append(out, domain.Listing{
			ID:              it.ID,
			Title:           it.AssetName,
			TerrainType:     it.TerrainType,
			Region:          it.Region,
			Commune:         it.Commune,
			PriceCLP:        it.MinimumBid,
			SurfaceM2:       it.Surface,
			Origin:          domain.OriginRemate,
			SourceName:      sourceName,
			URL:             it.Docs,
			FiscalValue:     it.AvaluoFiscal,
			CommercialValue: it.AvaluoComercial,
			Extra: map[string]any{
				"auction_date": it.AuctionDate,
				"entity":       it.Entity,
			},
		})
	}
	return out, nil
}

// rawID accepts identifiers exported either as JSON strings or numbers.
type rawID string

func (id *rawID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = rawID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("identifier must be a string or number: %w", err)
	}
	*id = rawID(n.String())
	return nil
}

func decode(r io.Reader, dst any) error {
	if err := json.NewDecoder(r).Decode(dst); err != nil {
		return fmt.Errorf("decoding raw export: %w", err)
	}
	return nil
}
