package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// lines is a timeseries panel plotting every series with the classic palette.
func lines(title, description string, span uint32, s ...series) *timeseries.PanelBuilder {
	b := timeseries.NewPanelBuilder().
		Title(title).
		Description(description).
		Datasource(datasource()).
		Height(lineHeight).
		Span(span).
		FillOpacity(10).
		LineWidth(2).
		DrawStyle(common.GraphDrawStyleLine).
		Thresholds(thresholds("green")).
		ColorScheme(colorBy(dashboard.FieldColorModeIdPaletteClassic))
	for _, t := range targets(s...) {
		b.WithTarget(t)
	}
	return b
}

// alarming recolours a lines panel by its warn/crit thresholds.
func alarming(b *timeseries.PanelBuilder, warn, crit float64) *timeseries.PanelBuilder {
	return b.
		Thresholds(warnAbove(warn, crit)).
		ColorScheme(colorBy(dashboard.FieldColorModeIdThresholds))
}

func RequestRate() *timeseries.PanelBuilder {
	return lines("Request Rate", "HTTP requests per second", halfWidth,
		series{"terrenos:http_requests:rate5m", "req/s"}).
		Unit("reqps").
		Legend(tableLegend()).
		Tooltip(sharedTooltip())
}

// LatencyPercentiles plots p50, p95 and p99 HTTP latency.
func LatencyPercentiles() *timeseries.PanelBuilder {
	const metric = "terrenos_http_request_duration_seconds"
	return lines("Latency Percentiles", "HTTP request duration percentiles", halfWidth,
		series{Quantile(0.50, metric), "p50"},
		series{Quantile(0.95, metric), "p95"},
		series{Quantile(0.99, metric), "p99"}).
		Unit("s").
		Legend(tableLegend()).
		Tooltip(sharedTooltip())
}

func ErrorRate() *timeseries.PanelBuilder {
	return alarming(lines("Error Rate %", "HTTP 5xx responses as a percentage of all requests", halfWidth,
		series{"terrenos:http_errors:rate5m / terrenos:http_requests:rate5m * 100", "error %"}), 1, 5).
		Unit("percent")
}

func RateLimited() *timeseries.PanelBuilder {
	return alarming(lines("Rate Limited", "Requests rejected with 429 per second", halfWidth,
		series{"terrenos:http_rate_limited:rate5m", "429/s"}), 0.1, 1).
		Unit("reqps")
}
