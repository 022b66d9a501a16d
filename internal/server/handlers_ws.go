package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/Naimul0307/DigitalPlaget-Wall/internal/broadcast"
	"github.com/Naimul0307/DigitalPlaget-Wall/internal/metrics"
	"github.com/Naimul0307/DigitalPlaget-Wall/internal/platform/correlation"
	apperrors "github.com/Naimul0307/DigitalPlaget-Wall/internal/platform/errors"
)

func (s *Server) handleWebSocket(c echo.Context) error {
	if !s.limiter.Acquire() {
		metrics.WebSocketConnectionsRejected.WithLabelValues("global_limit").Inc()
		metrics.WebSocketConnectionsTotal.WithLabelValues("rejected").Inc()
		return apperrors.UnavailableError("too many connections").
			WithContext("max_connections", s.limiter.Max())
	}
	defer func() {
		s.limiter.Release()
		metrics.WebSocketConnectionCapacity.Set(s.limiter.CapacityPct())
	}()
	metrics.WebSocketConnectionCapacity.Set(s.limiter.CapacityPct())

	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already written the HTTP error response.
		metrics.WebSocketConnectionsTotal.WithLabelValues("error").Inc()
		slog.Warn("WebSocket upgrade failed", "error", err, "remote_addr", c.RealIP())
		return nil
	}
	conn.SetReadLimit(s.config.MaxPayloadBytes)

	sessionID := uuid.New()
	if err := s.hub.Register(sessionID, conn); err != nil {
		metrics.WebSocketConnectionsTotal.WithLabelValues("error").Inc()
		slog.Error("Failed to register session", "session_id", sessionID.String(), "error", err)
		_ = conn.Close()
		return nil
	}
	metrics.WebSocketConnectionsTotal.WithLabelValues("success").Inc()

	start := time.Now()
	ctx := correlation.WithSession(c.Request().Context(), sessionID.String())
	slog.InfoContext(ctx, "Session connected", "remote_addr", c.RealIP())

	s.readPump(ctx, sessionID, conn)

	s.hub.Unregister(sessionID)
	metrics.WebSocketConnectionDuration.Observe(time.Since(start).Seconds())
	slog.InfoContext(ctx, "Session disconnected", "duration", time.Since(start))
	return nil
}

// readPump feeds inbound frames to the hub until the peer goes away.
func (s *Server) readPump(ctx context.Context, sessionID uuid.UUID, conn *websocket.Conn) {
	limiter := rate.NewLimiter(rate.Limit(s.config.SubmissionRate), s.config.SubmissionBurst)

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			switch {
			case errors.Is(err, websocket.ErrReadLimit):
				slog.WarnContext(ctx, "Frame exceeds payload limit", "limit_bytes", s.config.MaxPayloadBytes)
			case websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway):
				slog.DebugContext(ctx, "WebSocket read ended", "error", err)
			}
			return
		}

		if !limiter.Allow() {
			metrics.WebSocketFramesRateLimited.Inc()
			s.hub.SendError(sessionID, broadcast.MsgRateLimited)
			continue
		}

		frameCtx := correlation.WithID(ctx, correlation.NewID())
		s.hub.HandleFrame(frameCtx, sessionID, frame)
	}
}
