package panels

import "github.com/grafana/grafana-foundation-sdk/go/timeseries"

// RecomputeLatency plots p95 filter, sort and projection time per sort mode.
func RecomputeLatency() *timeseries.PanelBuilder {
	return lines("Recompute Duration (p95)", "95th percentile filter, sort and projection time by sort mode", thirdWidth,
		series{Quantile(0.95, "terrenos_recompute_duration_seconds", "sort"), "{{sort}}"}).
		Unit("s").
		Legend(tableLegend()).
		Tooltip(sharedTooltip())
}

func MatchedListings() *timeseries.PanelBuilder {
	return lines("Matched Listings (p50)", "Median listings surviving the filters per recomputation", thirdWidth,
		series{Quantile(0.50, "terrenos_matched_listings"), "p50"})
}

// RecomputeErrors counts filter states rejected before filtering ran.
func RecomputeErrors() *timeseries.PanelBuilder {
	return alarming(lines("Invalid Filters / min", "Recomputations rejected for an invalid filter state", thirdWidth,
		series{"terrenos:recompute_errors:rate5m * 60", "errors/min"}), 1, 10)
}
