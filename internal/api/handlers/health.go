package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Readiness reports whether a catalog has been loaded.
type Readiness interface {
	Ready() bool
}

// Pinger checks a backing store connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StatusResponse is the body of both probes.
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// HealthHandler provides health and readiness endpoints.
type HealthHandler struct {
	ready Readiness
	store Pinger
}

// NewHealthHandler creates a new HealthHandler. The store may be nil when
// the catalog is served from files.
func NewHealthHandler(r Readiness, s Pinger) *HealthHandler {
	return &HealthHandler{ready: r, store: s}
}

// Healthz returns 200 if the process is running.
func (*HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, StatusResponse{Status: "ok"})
}

// Readyz returns 200 once a catalog is loaded and the store, if any, is
// reachable. It returns 503 otherwise.
func (h *HealthHandler) Readyz(c echo.Context) error {
	if !h.ready.Ready() {
		return unavailable(c)
	}
	if h.store != nil {
		if err := h.store.Ping(c.Request().Context()); err != nil {
			return unavailable(c)
		}
	}
	return c.JSON(http.StatusOK, StatusResponse{Status: "ready"})
}

func unavailable(c echo.Context) error {
	return c.JSON(http.StatusServiceUnavailable, StatusResponse{Status: "unavailable"})
}
