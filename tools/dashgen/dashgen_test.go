package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/terrenos/tools/dashgen/dashboards"
	"github.com/donaldgifford/terrenos/tools/dashgen/rules"
	"github.com/donaldgifford/terrenos/tools/dashgen/validate"
)

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "defaults", cfg: DefaultConfig()},
		{name: "rules only", cfg: Config{OutputDir: "out", RulesEnabled: true}},
		{
			name:    "no output dir",
			cfg:     Config{DashboardEnabled: true},
			wantErr: "output directory",
		},
		{
			name:    "nothing enabled",
			cfg:     Config{OutputDir: "out"},
			wantErr: "nothing to generate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestKnownMetrics(t *testing.T) {
	t.Parallel()

	assert.True(t, KnownMetrics["terrenos_readyz_up"])
	assert.True(t, KnownMetrics["terrenos:http_errors:rate5m"])
	assert.True(t, KnownMetrics["up"])
	assert.False(t, KnownMetrics["terrenos_unknown"])
	assert.Len(t, KnownMetrics,
		len(httpMetrics)+len(recomputeMetrics)+len(catalogMetrics)+len(recordedSeries)+len(standardMetrics))
}

func TestBuildOverviewDashboard(t *testing.T) {
	t.Parallel()

	dash, err := dashboards.BuildOverview().Build()
	require.NoError(t, err)

	require.NotNil(t, dash.Uid)
	assert.Equal(t, "terrenos-overview", *dash.Uid)

	require.NotNil(t, dash.Title)
	assert.Equal(t, "Terrenos Overview", *dash.Title)

	require.NotNil(t, dash.Templating)
	assert.Len(t, dash.Templating.List, 1)
	assert.Equal(t, "datasource", dash.Templating.List[0].Name)

	assert.Len(t, dash.Panels, 4)

	totalPanels := 0
	for _, p := range dash.Panels {
		if p.RowPanel != nil {
			totalPanels += len(p.RowPanel.Panels)
		}
	}
	assert.Equal(t, 15, totalPanels)

	data, err := json.Marshal(dash)
	require.NoError(t, err)
	result := validate.Dashboard(data, KnownMetrics)
	assert.True(t, result.Ok(), "validation errors: %v", result.Errors)
	assert.Empty(t, result.Warnings, "unexpected warnings: %v", result.Warnings)
}

func TestRecordingRules(t *testing.T) {
	t.Parallel()

	cr := rules.RecordingRules()
	assert.Equal(t, "monitoring.coreos.com/v1", cr.APIVersion)
	assert.Equal(t, "PrometheusRule", cr.Kind)
	assert.Equal(t, "terrenos-recording-rules", cr.Metadata.Name)

	require.Len(t, cr.Spec.Groups, 1)
	group := cr.Spec.Groups[0]
	assert.Equal(t, cr.Metadata.Name, group.Name)

	expectedRecords := []string{
		"terrenos:http_requests:rate5m",
		"terrenos:http_errors:rate5m",
		"terrenos:http_rate_limited:rate5m",
		"terrenos:recompute_errors:rate5m",
		"terrenos:catalog_reload_errors:rate5m",
	}
	require.Len(t, group.Rules, len(expectedRecords))
	for i, rule := range group.Rules {
		assert.Equal(t, expectedRecords[i], rule.Record)
		assert.NotEmpty(t, rule.Expr)
	}

	result := validate.Rules(cr, KnownMetrics)
	assert.True(t, result.Ok(), "validation errors: %v", result.Errors)

	data, err := yaml.Marshal(cr)
	require.NoError(t, err)
	assert.Contains(t, string(data), "apiVersion: monitoring.coreos.com/v1")
}

func TestAlertRules(t *testing.T) {
	t.Parallel()

	cr := rules.AlertRules()
	assert.Equal(t, "terrenos-alerts", cr.Metadata.Name)

	require.Len(t, cr.Spec.Groups, 1)
	group := cr.Spec.Groups[0]
	assert.Equal(t, cr.Metadata.Name, group.Name)

	expectedAlerts := []string{
		"TerrenosDown",
		"TerrenosReadinessDown",
		"TerrenosHighErrorRate",
		"TerrenosCatalogReloadFailing",
		"TerrenosCatalogEmpty",
		"TerrenosRateLimiting",
	}
	require.Len(t, group.Rules, len(expectedAlerts))
	for i, rule := range group.Rules {
		assert.Equal(t, expectedAlerts[i], rule.Alert)
		assert.NotEmpty(t, rule.Expr)
		assert.NotEmpty(t, rule.Labels["severity"], "alert %s missing severity", rule.Alert)
		assert.NotEmpty(t, rule.Annotations["summary"], "alert %s missing summary", rule.Alert)
		assert.NotEmpty(t, rule.Annotations["description"], "alert %s missing description", rule.Alert)
	}

	result := validate.Rules(cr, KnownMetrics)
	assert.True(t, result.Ok(), "validation errors: %v", result.Errors)
	assert.Empty(t, result.Warnings)
}

func TestRun_WritesArtifacts(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.OutputDir = t.TempDir()
	require.NoError(t, run(cfg, false))

	dash, err := os.ReadFile(filepath.Join(cfg.OutputDir, dashboardPath))
	require.NoError(t, err)
	assert.True(t, json.Valid(dash))
	assert.Contains(t, string(dash), "terrenos-overview")

	for _, p := range []string{recordingPath, alertsPath} {
		data, err := os.ReadFile(filepath.Join(cfg.OutputDir, p))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), generatedHeader), p)

		var cr rules.PrometheusRule
		require.NoError(t, yaml.Unmarshal(data, &cr))
		assert.Equal(t, "PrometheusRule", cr.Kind)
	}
}

func TestRun_ValidateOnlyWritesNothing(t *testing.T) {
	t.Parallel()

	cfg := Config{OutputDir: t.TempDir(), RulesEnabled: true}
	require.NoError(t, run(cfg, true))

	entries, err := os.ReadDir(cfg.OutputDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
