// Package openapi serves a Swagger UI page for the OpenAPI 3.1 document the
// huma API publishes.
package openapi

import (
	"fmt"
	"html"
	"net/http"

	"github.com/labstack/echo/v4"
)

// DefaultSpecPath is where huma serves the generated document.
const DefaultSpecPath = "/openapi.json"

const swaggerUIHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>%s</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({
      url: %q,
      dom_id: "#swagger-ui",
      presets: [SwaggerUIBundle.presets.apis, SwaggerUIBundle.SwaggerUIStandalonePreset],
      layout: "BaseLayout",
    });
  </script>
</body>
</html>`

// RegisterRoutes adds the Swagger UI routes to the Echo instance. specPath is
// the URL of the OpenAPI document.
func RegisterRoutes(e *echo.Echo, title, specPath string) {
	page := fmt.Sprintf(swaggerUIHTML, html.EscapeString(title), specPath)

	e.GET("/swagger/index.html", func(c echo.Context) error {
		return c.HTML(http.StatusOK, page)
	})
	e.GET("/swagger", redirectToUI)
	e.GET("/swagger/", redirectToUI)
}

func redirectToUI(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
}
