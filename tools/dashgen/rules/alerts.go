package rules

// AlertRules returns the operational alerts for a terrenos deployment.
func AlertRules() PrometheusRule {
	return resource("terrenos-alerts",
		alert("TerrenosDown",
			`absent(up{job="terrenos"})`, "2m", "critical",
			"Terrenos API is down",
			"The terrenos job has been absent for more than 2 minutes."),
		alert("TerrenosReadinessDown",
			`terrenos_readyz_up == 0`, "5m", "critical",
			"Terrenos readiness check is failing",
			"No catalog has been loaded, or the catalog store is unreachable, for more than 5 minutes."),
		alert("TerrenosHighErrorRate",
			`terrenos:http_errors:rate5m / terrenos:http_requests:rate5m > 0.05`, "5m", "warning",
			"High HTTP error rate on terrenos",
			"More than 5% of HTTP requests are returning 5xx errors over the last 5 minutes."),
		alert("TerrenosCatalogReloadFailing",
			`terrenos:catalog_reload_errors:rate5m > 0`, "15m", "warning",
			"Catalog reloads are failing",
			"The scheduled catalog reload has failed for 15 minutes. The previous snapshot is still served."),
		alert("TerrenosCatalogEmpty",
			`terrenos_catalog_listings == 0 and terrenos_readyz_up == 1`, "10m", "warning",
			"The active catalog has no listings",
			"The catalog loaded successfully but holds no listings."),
		alert("TerrenosRateLimiting",
			`terrenos:http_rate_limited:rate5m > 1`, "10m", "info",
			"Clients are being rate limited",
			"More than one request per second has been rejected with 429 for 10 minutes."),
	)
}
