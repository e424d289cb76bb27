package rules

// RecordingRules returns the 5m rates that the dashboard and the alerts
// share.
func RecordingRules() PrometheusRule {
	return resource("terrenos-recording-rules",
		record("terrenos:http_requests:rate5m",
			`sum(rate(terrenos_http_requests_total[5m]))`),
		record("terrenos:http_errors:rate5m",
			`sum(rate(terrenos_http_requests_total{status=~"5.."}[5m]))`),
		record("terrenos:http_rate_limited:rate5m",
			`sum(rate(terrenos_http_rate_limited_total[5m]))`),
		record("terrenos:recompute_errors:rate5m",
			`sum(rate(terrenos_recompute_errors_total[5m]))`),
		record("terrenos:catalog_reload_errors:rate5m",
			`sum(rate(terrenos_catalog_reload_errors_total[5m]))`),
	)
}
