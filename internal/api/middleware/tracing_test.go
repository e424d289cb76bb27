package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	mw "github.com/donaldgifford/terrenos/internal/api/middleware"
)

func TestTracingMiddleware(t *testing.T) {
	t.Parallel()

	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))

	e := echo.New()
	e.Use(mw.Tracing(tp.Tracer("test")))

	var handlerSpan trace.SpanContext
	e.GET("/api/v1/listings/:id", func(c echo.Context) error {
		handlerSpan = trace.SpanContextFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})
	e.GET("/api/v1/stats", func(_ echo.Context) error {
		return echo.NewHTTPError(http.StatusInternalServerError)
	})
	e.GET("/healthz", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/listings/x", http.NoBody))
	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/stats", http.NoBody))
	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody))

	spans := rec.Ended()
	require.Len(t, spans, 2, "probes are not traced")

	assert.Equal(t, "GET /api/v1/listings/:id", spans[0].Name())
	assert.Equal(t, trace.SpanKindServer, spans[0].SpanKind())
	assert.Equal(t, spans[0].SpanContext().TraceID(), handlerSpan.TraceID())
	assert.Contains(t, spans[0].Attributes(), attribute.Int("http.response.status_code", http.StatusOK))

	assert.Equal(t, codes.Error, spans[1].Status().Code)
}
