package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/terrenos/tools/dashgen/rules"
)

var known = map[string]bool{
	"terrenos_http_requests_total":           true,
	"terrenos_http_request_duration_seconds": true,
	"terrenos:http_requests:rate5m":          true,
}

func TestDashboard(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		json       string
		wantErrors int
		wantWarn   bool
	}{
		{
			name: "known metrics",
			json: `{"panels":[{"targets":[{"expr":"sum(rate(terrenos_http_requests_total[5m]))"}]},
				{"panels":[{"targets":[{"expr":"histogram_quantile(0.95, sum(rate(terrenos_http_request_duration_seconds_bucket[5m])) by (le))"}]}]}]}`,
		},
		{
			name:       "unknown metric",
			json:       `{"panels":[{"targets":[{"expr":"legacy_healthz_up"}]}]}`,
			wantErrors: 1,
		},
		{
			name:       "bad promql",
			json:       `{"panels":[{"targets":[{"expr":"sum(rate(terrenos_http_requests_total[5m]"}]}]}`,
			wantErrors: 1,
		},
		{
			name:     "no queries",
			json:     `{"panels":[]}`,
			wantWarn: true,
		},
		{
			name:       "invalid json",
			json:       `{`,
			wantErrors: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := Dashboard([]byte(tt.json), known)
			assert.Len(t, r.Errors, tt.wantErrors, "errors: %v", r.Errors)
			assert.Equal(t, tt.wantWarn, len(r.Warnings) > 0)
			if tt.wantErrors > 0 {
				require.Error(t, r.Err())
			} else {
				require.NoError(t, r.Err())
			}
		})
	}
}

func TestRules(t *testing.T) {
	t.Parallel()

	cr := rules.PrometheusRule{Spec: rules.Spec{Groups: []rules.RuleGroup{{
		Name: "g",
		Rules: []rules.Rule{
			{Record: "terrenos:http_requests:rate5m", Expr: "sum(rate(terrenos_http_requests_total[5m]))"},
			{Record: "terrenos:unlisted:rate5m", Expr: "sum(rate(terrenos_http_requests_total[5m]))"},
			{Alert: "NoSeverity", Expr: "terrenos:http_requests:rate5m > 1"},
			{Expr: "up"},
		},
	}}}}

	r := Rules(cr, known)
	require.Len(t, r.Errors, 3, "errors: %v", r.Errors)
	assert.Contains(t, r.Errors[0], "terrenos:unlisted:rate5m")
	assert.Contains(t, r.Errors[1], "neither record nor alert")
	assert.Contains(t, r.Errors[2], `unknown metric "up"`)
	assert.Len(t, r.Warnings, 1)
}
