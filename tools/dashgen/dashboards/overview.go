// Package dashboards assembles the terrenos Grafana dashboards.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/cog"
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/donaldgifford/terrenos/tools/dashgen/panels"
)

type row struct {
	title  string
	panels []cog.Builder[dashboard.Panel]
}

// overviewRows lists the dashboard rows top to bottom.
func overviewRows() []row {
	return []row{
		{"Overview", []cog.Builder[dashboard.Panel]{
			panels.HealthzStat(),
			panels.ReadyzStat(),
			panels.CatalogListingsStat(),
			panels.UptimeStat(),
		}},
		{"HTTP", []cog.Builder[dashboard.Panel]{
			panels.RequestRate(),
			panels.LatencyPercentiles(),
			panels.ErrorRate(),
			panels.RateLimited(),
		}},
		{"Recompute", []cog.Builder[dashboard.Panel]{
			panels.RecomputeLatency(),
			panels.MatchedListings(),
			panels.RecomputeErrors(),
		}},
		{"Catalog", []cog.Builder[dashboard.Panel]{
			panels.RemateShareGauge(),
			panels.SourcesStat(),
			panels.LastReload(),
			panels.ReloadErrors(),
		}},
	}
}

// BuildOverview returns the single-page operational dashboard for the API
// server and its catalog.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("Terrenos Overview").
		Uid("terrenos-overview").
		Tags([]string{"terrenos"}).
		Refresh("30s").
		Time("now-6h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(dashboard.NewDatasourceVariableBuilder("datasource").
			Label("Datasource").
			Type("prometheus"))

	for _, r := range overviewRows() {
		rb := dashboard.NewRowBuilder(r.title)
		for _, p := range r.panels {
			rb.WithPanel(p)
		}
		b.WithRow(rb)
	}
	return b
}
