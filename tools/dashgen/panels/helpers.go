// Package panels builds the Grafana panels of the terrenos dashboard.
package panels

import (
	"fmt"
	"strings"

	"github.com/grafana/grafana-foundation-sdk/go/cog"
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/grafana/grafana-foundation-sdk/go/prometheus"
)

// Job is the scrape job label of the API server.
const Job = "terrenos"

// Grid sizes on Grafana's 24-column layout.
const (
	statWidth  = 6
	statHeight = 4
	lineHeight = 8
	halfWidth  = 12
	thirdWidth = 8
)

// series is one query plotted by a panel.
type series struct {
	expr   string
	legend string
}

// targets turns series into Prometheus targets with ref IDs A, B, C...
func targets(s ...series) []*prometheus.DataqueryBuilder {
	out := make([]*prometheus.DataqueryBuilder, 0, len(s))
	for i, q := range s {
		out = append(out, prometheus.NewDataqueryBuilder().
			Expr(q.expr).
			LegendFormat(q.legend).
			RefId(string(rune('A'+i))))
	}
	return out
}

func datasource() dashboard.DataSourceRef {
	return dashboard.DataSourceRef{
		Type: cog.ToPtr("prometheus"),
		Uid:  cog.ToPtr("${datasource}"),
	}
}

// step switches the panel colour once the value reaches at.
type step struct {
	at    float64
	color string
}

func thresholds(base string, steps ...step) cog.Builder[dashboard.ThresholdsConfig] {
	out := []dashboard.Threshold{{Color: base}}
	for _, s := range steps {
		out = append(out, dashboard.Threshold{Value: cog.ToPtr(s.at), Color: s.color})
	}
	return dashboard.NewThresholdsConfigBuilder().
		Mode(dashboard.ThresholdsModeAbsolute).
		Steps(out)
}

// atLeastOne is red at zero and green from one upward.
func atLeastOne() cog.Builder[dashboard.ThresholdsConfig] {
	return thresholds("red", step{1, "green"})
}

// warnAbove is green until warn, yellow until crit, red afterwards.
func warnAbove(warn, crit float64) cog.Builder[dashboard.ThresholdsConfig] {
	return thresholds("green", step{warn, "yellow"}, step{crit, "red"})
}

func colorBy(mode dashboard.FieldColorModeId) cog.Builder[dashboard.FieldColor] {
	return dashboard.NewFieldColorBuilder().Mode(mode)
}

func tableLegend() *common.VizLegendOptionsBuilder {
	return common.NewVizLegendOptionsBuilder().
		DisplayMode(common.LegendDisplayModeTable).
		Placement(common.LegendPlacementBottom).
		Calcs([]string{"mean", "max"})
}

func sharedTooltip() *common.VizTooltipOptionsBuilder {
	return common.NewVizTooltipOptionsBuilder().
		Mode(common.TooltipDisplayModeMulti).
		Sort(common.SortOrderDescending)
}

// Quantile returns a histogram_quantile expression over a terrenos histogram,
// aggregated by le plus the extra labels.
func Quantile(q float64, metric string, by ...string) string {
	labels := append([]string{"le"}, by...)
	return fmt.Sprintf(
		`histogram_quantile(%g, sum(rate(%s_bucket{job=%q}[5m])) by (%s))`,
		q, metric, Job, strings.Join(labels, ", "),
	)
}

// since is the age in seconds of a unix-timestamp gauge.
func since(metric string) string {
	return fmt.Sprintf(`time() - %s{job=%q}`, metric, Job)
}
