package main

import "errors"

// Metric names grouped by the subsystem that exports them.
var (
	httpMetrics = []string{
		"terrenos_http_request_duration_seconds",
		"terrenos_http_requests_total",
		"terrenos_http_rate_limited_total",
		"terrenos_healthz_up",
		"terrenos_readyz_up",
	}
	recomputeMetrics = []string{
		"terrenos_recompute_duration_seconds",
		"terrenos_recompute_errors_total",
		"terrenos_matched_listings",
	}
	catalogMetrics = []string{
		"terrenos_catalog_listings",
		"terrenos_catalog_sources",
		"terrenos_catalog_remates",
		"terrenos_catalog_reloads_total",
		"terrenos_catalog_reload_errors_total",
		"terrenos_catalog_last_reload_timestamp_seconds",
	}
	recordedSeries = []string{
		"terrenos:http_requests:rate5m",
		"terrenos:http_errors:rate5m",
		"terrenos:http_rate_limited:rate5m",
		"terrenos:recompute_errors:rate5m",
		"terrenos:catalog_reload_errors:rate5m",
	}
	// Scraped by Prometheus itself or the Go client's process collector.
	standardMetrics = []string{"up", "process_start_time_seconds"}
)

// KnownMetrics is every series name a generated expression may select.
var KnownMetrics = metricSet(httpMetrics, recomputeMetrics, catalogMetrics, recordedSeries, standardMetrics)

func metricSet(groups ...[]string) map[string]bool {
	set := make(map[string]bool)
	for _, g := range groups {
		for _, name := range g {
			set[name] = true
		}
	}
	return set
}

// Config selects the generated artifacts and their output root.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig writes everything under deploy/ at the repository root,
// relative to tools/dashgen.
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("nothing to generate: dashboard and rules are both disabled")
	}
	return nil
}
