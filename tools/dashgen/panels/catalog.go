package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/grafana/grafana-foundation-sdk/go/gauge"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// StaleCatalogSeconds is the reload age at which the catalog counts as stale.
const StaleCatalogSeconds = 6 * 3600

// RemateShareGauge shows remates as a percentage of the catalog.
func RemateShareGauge() *gauge.PanelBuilder {
	b := gauge.NewPanelBuilder().
		Title("Remate Share %").
		Description("Forced and auction sales as a percentage of the catalog").
		Datasource(datasource()).
		Height(statHeight).
		Span(statWidth).
		Unit("percent").
		Min(0).
		Max(100).
		Thresholds(thresholds("green")).
		ColorScheme(colorBy(dashboard.FieldColorModeIdThresholds))
	for _, t := range targets(series{expr: "terrenos_catalog_remates / clamp_min(terrenos_catalog_listings, 1) * 100"}) {
		b.WithTarget(t)
	}
	return b
}

func SourcesStat() *stat.PanelBuilder {
	return single("Sources", "Portals and auction sites in the active catalog", "terrenos_catalog_sources").
		Thresholds(atLeastOne())
}

// LastReload turns yellow at half the stale age and red once stale.
func LastReload() *stat.PanelBuilder {
	return single("Last Reload", "Time since the catalog was last loaded",
		since("terrenos_catalog_last_reload_timestamp_seconds")).
		Unit("s").
		Thresholds(warnAbove(StaleCatalogSeconds/2, StaleCatalogSeconds)).
		ColorMode(common.BigValueColorModeBackground)
}

func ReloadErrors() *timeseries.PanelBuilder {
	return lines("Catalog Reloads", "Successful and failed catalog reloads per hour", statWidth,
		series{"increase(terrenos_catalog_reloads_total[1h])", "ok"},
		series{"terrenos:catalog_reload_errors:rate5m * 3600", "failed"}).
		Tooltip(sharedTooltip())
}
