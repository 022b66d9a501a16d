package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Naimul0307/DigitalPlaget-Wall/internal/domain"
	"github.com/Naimul0307/DigitalPlaget-Wall/internal/metrics"
	"github.com/Naimul0307/DigitalPlaget-Wall/internal/platform/config"
)

type appService interface {
	LatestDoodles(limit int) []string
	CurrentSettings(ctx context.Context) domain.Settings
	UpdateSettings(ctx context.Context, u domain.SettingsUpdate) error
}

type realtimeHub interface {
	Register(sessionID uuid.UUID, conn *websocket.Conn) error
	Unregister(sessionID uuid.UUID)
	HandleFrame(ctx context.Context, sessionID uuid.UUID, frame []byte)
	SendError(sessionID uuid.UUID, message string)
}

type Server struct {
	echo   *echo.Echo
	config *config.Config

	app     appService
	hub     realtimeHub
	limiter *GlobalConnectionLimiter

	upgrader     websocket.Upgrader
	httpMetrics  *metrics.HTTPMetrics
	healthChecks []HealthCheck
	startTime    time.Time
}

// NewServer wires the routes. HTTP metrics are registered on reg.
func NewServer(cfg *config.Config, app appService, hub realtimeHub, healthChecks []HealthCheck, reg prometheus.Registerer) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:    e,
		config:  cfg,
		app:     app,
		hub:     hub,
		limiter: NewGlobalConnectionLimiter(int64(cfg.MaxWebSocketConnections)),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     newCheckOrigin(cfg.AppEnv == "development"),
		},
		httpMetrics:  metrics.NewHTTPMetrics(reg),
		healthChecks: healthChecks,
		startTime:    time.Now(),
	}

	srv.registerRoutes()

	return srv
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start(addr string) error {
	slog.Info("Starting server", "addr", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}
