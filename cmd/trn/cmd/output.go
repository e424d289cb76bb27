package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	apiclient "github.com/donaldgifford/terrenos/internal/api/client"
	"github.com/donaldgifford/terrenos/internal/engine"
	"github.com/donaldgifford/terrenos/pkg/query"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printListingsTable(w io.Writer, listings []engine.Ranked) error {
	tw := newTabWriter(w)
	tw.writef("ID\tTITLE\tTYPE\tCOMMUNE\tORIGIN\tPRICE MM\tAREA M2\tDISCOUNT\n")
	for i := range listings {
		l := &listings[i]
		tw.writef("%s\t%s\t%s\t%s\t%s\t%.1f\t%.0f\t%s\n",
			l.ID,
			truncate(l.Title, 40),
			l.TerrainType,
			l.Commune,
			l.Origin,
			l.PriceMM(),
			l.SurfaceM2,
			discount(l),
		)
	}
	return tw.finish()
}

func printListingDetail(w io.Writer, l *engine.Ranked) error {
	tw := newTabWriter(w)
	tw.writef("ID:\t%s\n", l.ID)
	tw.writef("Title:\t%s\n", l.Title)
	tw.writef("Type:\t%s\n", l.TerrainType)
	tw.writef("Location:\t%s, %s\n", l.Commune, l.Region)
	tw.writef("Origin:\t%s (%s)\n", l.Origin, l.SourceName)
	tw.writef("Price:\t%.1f MM\n", l.PriceMM())
	tw.writef("Surface:\t%.0f m2\n", l.SurfaceM2)
	tw.writef("Price/m2:\t%.0f\n", l.PricePerM2)
	if l.FiscalValue != nil {
		tw.writef("Fiscal value:\t%.1f MM\n", *l.FiscalValue/1_000_000)
	}
	if l.CommercialValue != nil {
		tw.writef("Commercial value:\t%.1f MM\n", *l.CommercialValue/1_000_000)
	}
	tw.writef("Discount:\t%s\n", discount(l))
	tw.writef("Opportunity:\t%v\n", l.Indicators.Opportunity)
	if l.NormalizedURL != "" {
		tw.writef("URL:\t%s\n", l.NormalizedURL)
	}
	return tw.finish()
}

func printSearchesTable(w io.Writer, searches []query.PortalSearch) error {
	tw := newTabWriter(w)
	tw.writef("SOURCE\tKIND\tURL\n")
	for i := range searches {
		kind := "listing page"
		if searches[i].Templated {
			kind = "search"
		}
		tw.writef("%s\t%s\t%s\n", searches[i].Source.Name, kind, searches[i].URL)
	}
	return tw.finish()
}

func printSourcesTable(w io.Writer, sources []apiclient.Source) error {
	tw := newTabWriter(w)
	tw.writef("NAME\tMETA\tURL\tSEARCH\n")
	for i := range sources {
		search := "no"
		if sources[i].SearchTemplate != "" {
			search = "yes"
		}
		tw.writef("%s\t%s\t%s\t%s\n", sources[i].Name, sources[i].Meta, sources[i].URL, search)
	}
	return tw.finish()
}

func printStats(w io.Writer, s *apiclient.StatsResponse) error {
	tw := newTabWriter(w)
	tw.writef("Listings:\t%d\n", s.Total)
	tw.writef("Remates:\t%d (%d%%)\n", s.Remates, s.RemateSharePct)
	tw.writef("Sources:\t%d\n", s.Sources)
	if s.GeneratedFrom != "" {
		tw.writef("Generated from:\t%s\n", s.GeneratedFrom)
	}
	tw.writef("Ready:\t%v\n", s.Ready)
	return tw.finish()
}

func printFacets(w io.Writer, f *apiclient.Facets) error {
	tw := newTabWriter(w)
	tw.writef("type:\t%s\n", strings.Join(f.TerrainTypes, ", "))
	tw.writef("region:\t%s\n", strings.Join(f.Regions, ", "))
	tw.writef("commune:\t%s\n", strings.Join(f.Communes, ", "))
	tw.writef("origin:\t%s\n", strings.Join(f.Origins, ", "))
	tw.writef("sort:\t%s\n", strings.Join(f.SortModes, ", "))
	return tw.finish()
}

func printLines(w io.Writer, lines []string) error {
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// discount renders the appraisal discount, or "-" when unappraised.
func discount(l *engine.Ranked) string {
	if l.Indicators.Discount == nil {
		return "-"
	}
	return fmt.Sprintf("%.0f%%", *l.Indicators.Discount*100)
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
