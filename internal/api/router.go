// Package api assembles the Echo server: middleware, the huma operations
// and the operational endpoints.
package api

import (
	"log/slog"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/donaldgifford/terrenos/api/openapi"
	"github.com/donaldgifford/terrenos/internal/api/handlers"
	"github.com/donaldgifford/terrenos/internal/api/middleware"
)

// Deps are the collaborators the router wires together.
type Deps struct {
	Engine handlers.Engine
	// Store is pinged by /readyz when set.
	Store       handlers.Pinger
	Logger      *slog.Logger
	Tracer      trace.Tracer
	RateLimiter *middleware.RateLimiter
	Version     string
}

// NewRouter builds the Echo instance serving the API.
func NewRouter(d Deps) *echo.Echo {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Tracer == nil {
		d.Tracer = noop.NewTracerProvider().Tracer("")
	}
	if d.Version == "" {
		d.Version = "dev"
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(d.Logger))
	e.Use(middleware.RequestLog(d.Logger))
	e.Use(middleware.Metrics())
	e.Use(middleware.Tracing(d.Tracer))
	if d.RateLimiter != nil {
		e.Use(middleware.RateLimit(d.RateLimiter))
	}

	health := handlers.NewHealthHandler(d.Engine, d.Store)
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	const title = "terrenos API"
	cfg := huma.DefaultConfig(title, d.Version)
	cfg.Info.Description = "Filter, rank and search Chilean land listings."
	api := humaecho.New(e, cfg)

	handlers.RegisterListingRoutes(api, handlers.NewListingsHandler(d.Engine))
	handlers.RegisterSearchRoutes(api, handlers.NewSearchesHandler(d.Engine))
	handlers.RegisterCatalogRoutes(api, handlers.NewCatalogHandler(d.Engine))

	openapi.RegisterRoutes(e, title, cfg.OpenAPIPath+".json")

	return e
}
