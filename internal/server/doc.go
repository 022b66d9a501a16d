// Package server implements the HTTP server using Echo framework.
//
// Routes: pages (settings, main screen, submit pad), doodle feed polling, settings read/update,
// realtime WebSocket (/ws), static assets, health and metrics.
// Handlers split by concern: handlers_pages.go, handlers_doodles.go, handlers_settings.go, handlers_ws.go, handlers_health.go.
package server
