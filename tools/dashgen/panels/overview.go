package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
)

// single is a one-value stat panel coloured by its thresholds.
func single(title, description, expr string) *stat.PanelBuilder {
	b := stat.NewPanelBuilder().
		Title(title).
		Description(description).
		Datasource(datasource()).
		Height(statHeight).
		Span(statWidth).
		ColorScheme(colorBy(dashboard.FieldColorModeIdThresholds)).
		GraphMode(common.BigValueGraphModeNone)
	for _, t := range targets(series{expr: expr}) {
		b.WithTarget(t)
	}
	return b
}

// probe shows a 0/1 health gauge as a red or green tile.
func probe(title, description, metric string) *stat.PanelBuilder {
	return single(title, description, metric).
		Thresholds(atLeastOne()).
		ColorMode(common.BigValueColorModeBackground).
		TextMode(common.BigValueTextModeValue)
}

func HealthzStat() *stat.PanelBuilder {
	return probe("Healthz", "Health check status (1 = ok, 0 = failing)", "terrenos_healthz_up")
}

func ReadyzStat() *stat.PanelBuilder {
	return probe("Readyz", "Readiness check status (1 = catalog loaded, 0 = not ready)", "terrenos_readyz_up")
}

// CatalogListingsStat shows the size of the active catalog snapshot with a
// sparkline, so reloads that shrink the catalog stand out.
func CatalogListingsStat() *stat.PanelBuilder {
	return single("Listings", "Listings in the active catalog snapshot", "terrenos_catalog_listings").
		Thresholds(atLeastOne()).
		GraphMode(common.BigValueGraphModeArea)
}

func UptimeStat() *stat.PanelBuilder {
	return single("Uptime", "Time since process start", since("process_start_time_seconds")).
		Unit("s").
		Thresholds(thresholds("green"))
}
