package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"
	ptestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	mw "github.com/donaldgifford/terrenos/internal/api/middleware"
	"github.com/donaldgifford/terrenos/internal/metrics"
)

// Metrics tests share the global registry, so they run serially and
// compare deltas.

func TestMetricsMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		route      string
		target     string
		handler    echo.HandlerFunc
		wantRoute  string
		wantStatus string
	}{
		{
			name:   "records route template",
			route:  "/api/v1/listings/:id",
			target: "/api/v1/listings/abc",
			handler: func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			},
			wantRoute:  "/api/v1/listings/:id",
			wantStatus: "200",
		},
		{
			name:   "records handler error status",
			route:  "/api/v1/stats",
			target: "/api/v1/stats",
			handler: func(_ echo.Context) error {
				return echo.NewHTTPError(http.StatusServiceUnavailable)
			},
			wantRoute:  "/api/v1/stats",
			wantStatus: "503",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			e.Use(mw.Metrics())
			e.GET(tt.route, tt.handler)

			counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, tt.wantRoute, tt.wantStatus)
			before := ptestutil.ToFloat64(counter)

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, http.NoBody))

			assert.Equal(t, tt.wantStatus, strconv.Itoa(rec.Code))
			assert.InDelta(t, before+1, ptestutil.ToFloat64(counter), 0)
		})
	}
}

func TestMetricsMiddleware_HealthGauges(t *testing.T) {
	ready := true

	e := echo.New()
	e.Use(mw.Metrics())
	e.GET("/readyz", func(c echo.Context) error {
		if ready {
			return c.NoContent(http.StatusOK)
		}
		return c.NoContent(http.StatusServiceUnavailable)
	})

	before := ptestutil.CollectAndCount(metrics.HTTPRequestsTotal)

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/readyz", http.NoBody))
	assert.InDelta(t, 1.0, ptestutil.ToFloat64(metrics.ReadyzUp), 0)

	ready = false
	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/readyz", http.NoBody))
	assert.InDelta(t, 0.0, ptestutil.ToFloat64(metrics.ReadyzUp), 0)

	assert.Equal(t, before, ptestutil.CollectAndCount(metrics.HTTPRequestsTotal),
		"probes must not add request series")
}
