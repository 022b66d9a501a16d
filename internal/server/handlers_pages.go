package server

import (
	"path/filepath"

	"github.com/labstack/echo/v4"
)

// pages maps routes to the HTML files served from the template directory.
var pages = map[string]string{
	"/":      "settings.html",
	"/main":  "main_screen.html",
	"/index": "index.html",
}

func (s *Server) registerPageRoutes() {
	for route, file := range pages {
		page := filepath.Join(s.config.TemplateDir, file)
		s.echo.GET(route, func(c echo.Context) error {
			return c.File(page)
		})
	}
}
