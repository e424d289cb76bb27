package openapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestRegisterRoutes(t *testing.T) {
	t.Parallel()

	e := echo.New()
	RegisterRoutes(e, "terrenos <API>", DefaultSpecPath)

	tests := []struct {
		target       string
		wantStatus   int
		wantBody     []string
		wantLocation string
	}{
		{
			target:     "/swagger/index.html",
			wantStatus: http.StatusOK,
			wantBody:   []string{`url: "/openapi.json"`, "terrenos &lt;API&gt;"},
		},
		{target: "/swagger", wantStatus: http.StatusMovedPermanently, wantLocation: "/swagger/index.html"},
		{target: "/swagger/", wantStatus: http.StatusMovedPermanently, wantLocation: "/swagger/index.html"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, http.NoBody))

			assert.Equal(t, tt.wantStatus, rec.Code)
			for _, w := range tt.wantBody {
				assert.Contains(t, rec.Body.String(), w)
			}
			if tt.wantLocation != "" {
				assert.Equal(t, tt.wantLocation, rec.Header().Get(echo.HeaderLocation))
			}
		})
	}
}
