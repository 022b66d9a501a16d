package broadcast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/Naimul0307/DigitalPlaget-Wall/internal/domain"
	"github.com/Naimul0307/DigitalPlaget-Wall/internal/metrics"
)

const (
	commandTimeout  = 5 * time.Second
	stopTimeout     = 10 * time.Second
	cmdChannelSize  = 256
	depthWarnLevel  = 200 // 80% of cmdChannelSize
	shutdownMessage = "Server shutting down"
)

// Messages sent to a submitter whose frame could not be handled.
const (
	MsgMalformedFrame = "malformed message"
	MsgUnknownEvent   = "unknown event"
	MsgInternal       = "internal error"
	MsgRateLimited    = "rate limit exceeded"
)

// ErrHubStopped is returned by commands issued after Stop.
var ErrHubStopped = errors.New("hub stopped")

// hubCmd is the command interface for the Hub actor.
type hubCmd interface{ isHubCmd() }

type baseHubCmd struct{}

func (baseHubCmd) isHubCmd() {}

type registerCmd struct {
	baseHubCmd
	sessionID    uuid.UUID
	connection   *websocket.Conn
	errorChannel chan error
}

type unregisterCmd struct {
	baseHubCmd
	sessionID uuid.UUID
}

type sessionCountCmd struct {
	baseHubCmd
	replyChannel chan int
}

type broadcastCmd struct {
	baseHubCmd
	event string
	frame []byte
}

type sendCmd struct {
	baseHubCmd
	sessionID uuid.UUID
	event     string
	frame     []byte
}

type stopCmd struct {
	baseHubCmd
}

// Hub relays accepted doodles to every connected session.
type Hub struct {
	cmdCh       chan hubCmd
	clock       clockwork.Clock
	sessions    map[uuid.UUID]*clientWriter
	submitter   domain.DoodleSubmitter
	done        chan struct{}
	stopOnce    sync.Once
	stopTimeout time.Duration
}

// NewHub creates a hub and starts its actor goroutine.
func NewHub(submitter domain.DoodleSubmitter, clock clockwork.Clock) *Hub {
	h := &Hub{
		cmdCh:       make(chan hubCmd, cmdChannelSize),
		clock:       clock,
		sessions:    make(map[uuid.UUID]*clientWriter),
		submitter:   submitter,
		done:        make(chan struct{}),
		stopTimeout: stopTimeout,
	}
	go h.run()
	return h
}

// send enqueues cmd unless the actor has exited.
func (h *Hub) send(cmd hubCmd) bool {
	select {
	case <-h.done:
		return false
	default:
	}

	select {
	case h.cmdCh <- cmd:
		return true
	case <-h.done:
		return false
	}
}

// Register adds a connection under sessionID. The hub owns all writes to conn from now on.
func (h *Hub) Register(sessionID uuid.UUID, conn *websocket.Conn) error {
	errCh := make(chan error, 1)
	if !h.send(registerCmd{sessionID: sessionID, connection: conn, errorChannel: errCh}) {
		return ErrHubStopped
	}

	timer := h.clock.NewTimer(commandTimeout)
	defer timer.Stop()

	select {
	case err := <-errCh:
		return err
	case <-h.done:
		return ErrHubStopped
	case <-timer.Chan():
		return fmt.Errorf("register command timed out after %v", commandTimeout)
	}
}

// Unregister removes a session and closes its connection.
func (h *Hub) Unregister(sessionID uuid.UUID) {
	h.send(unregisterCmd{sessionID: sessionID})
}

// SessionCount returns the number of connected sessions, or -1 if the command times out.
func (h *Hub) SessionCount() int {
	replyCh := make(chan int, 1)
	if !h.send(sessionCountCmd{replyChannel: replyCh}) {
		return 0
	}

	timer := h.clock.NewTimer(commandTimeout)
	defer timer.Stop()

	select {
	case count := <-replyCh:
		return count
	case <-h.done:
		return 0
	case <-timer.Chan():
		slog.Warn("SessionCount timed out", "timeout", commandTimeout)
		return -1
	}
}

// Broadcast sends an event to every connected session.
func (h *Hub) Broadcast(event string, payload any) error {
	frame, err := domain.EncodeEvent(event, payload)
	if err != nil {
		return err
	}
	if !h.send(broadcastCmd{event: event, frame: frame}) {
		return ErrHubStopped
	}
	return nil
}

// SendTo sends an event to one session only. Unknown sessions are ignored.
func (h *Hub) SendTo(sessionID uuid.UUID, event string, payload any) error {
	frame, err := domain.EncodeEvent(event, payload)
	if err != nil {
		return err
	}
	if !h.send(sendCmd{sessionID: sessionID, event: event, frame: frame}) {
		return ErrHubStopped
	}
	return nil
}

// SendError reports a failure to one session as a doodle_error event.
func (h *Hub) SendError(sessionID uuid.UUID, message string) {
	if err := h.SendTo(sessionID, domain.EventDoodleError, domain.DoodleErrorPayload{Message: message}); err != nil {
		slog.Debug("Failed to send error to session", "session_id", sessionID.String(), "error", err)
	}
}

// HandleFrame dispatches one inbound frame from sessionID. Nothing a single frame does can
// stop the hub or reach other sessions, including a panic in the pipeline.
func (h *Hub) HandleFrame(ctx context.Context, sessionID uuid.UUID, frame []byte) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "Frame handler panic recovered", "panic", r)
			metrics.HubPanicsTotal.Inc()
			h.SendError(sessionID, MsgInternal)
		}
	}()

	var env domain.Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		h.SendError(sessionID, MsgMalformedFrame)
		return
	}

	switch env.Event {
	case domain.EventSubmitDoodle:
		var payload domain.SubmitDoodlePayload
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			h.SendError(sessionID, MsgMalformedFrame)
			return
		}
		h.OnSubmission(ctx, sessionID, payload)
	default:
		slog.DebugContext(ctx, "Ignoring unknown event", "event", env.Event)
		h.SendError(sessionID, MsgUnknownEvent)
	}
}

// OnSubmission runs the pipeline for one submission. Success is broadcast to every session,
// the submitter included; failure goes to the submitter only.
func (h *Hub) OnSubmission(ctx context.Context, sessionID uuid.UUID, payload domain.SubmitDoodlePayload) {
	path, err := h.submitter.SubmitDoodle(ctx, payload.Image)
	if err != nil {
		h.SendError(sessionID, submissionErrorMessage(err))
		return
	}

	if err := h.Broadcast(domain.EventNewDoodle, domain.NewDoodlePayload{Image: path}); err != nil {
		slog.WarnContext(ctx, "Failed to broadcast new doodle", "path", path, "error", err)
	}
}

// submissionErrorMessage keeps file system details out of client messages.
func submissionErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrDecode):
		return err.Error()
	case errors.Is(err, domain.ErrStorage):
		return domain.ErrStorage.Error()
	default:
		return MsgInternal
	}
}

// Stop shuts down the hub, sending every session a close frame.
// Blocks until the actor goroutine has exited or timeout is reached.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		if !h.send(stopCmd{}) {
			return
		}

		timeout := h.clock.NewTimer(h.stopTimeout)
		defer timeout.Stop()

		select {
		case <-h.done:
			slog.Info("Hub stopped gracefully")
		case <-timeout.Chan():
			slog.Warn("Hub stop timeout exceeded", "timeout", h.stopTimeout)
			metrics.HubStopTimeoutsTotal.Inc()
		}
	})
}

func (h *Hub) run() {
	defer close(h.done)
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Hub panic recovered", "panic", r)
			metrics.HubPanicsTotal.Inc()
			h.closeAllSessions("hub panic")
		}
	}()

	depthTicker := h.clock.NewTicker(1 * time.Second)
	defer depthTicker.Stop()

	for {
		select {
		case <-depthTicker.Chan():
			depth := len(h.cmdCh)
			metrics.HubCommandChannelDepth.Set(float64(depth))
			if depth > depthWarnLevel {
				slog.Warn("Command channel near capacity", "depth", depth, "capacity", cap(h.cmdCh))
			}

		case cmd := <-h.cmdCh:
			switch c := cmd.(type) {
			case registerCmd:
				h.handleRegister(c)
			case unregisterCmd:
				h.handleUnregister(c.sessionID)
			case sessionCountCmd:
				c.replyChannel <- len(h.sessions)
			case broadcastCmd:
				h.handleBroadcast(c)
			case sendCmd:
				h.handleSend(c)
			case stopCmd:
				h.handleStop()
				return
			default:
				slog.Warn("Hub received unknown command type", "command_type", fmt.Sprintf("%T", cmd))
			}
		}
	}
}

func (h *Hub) handleRegister(c registerCmd) {
	if _, exists := h.sessions[c.sessionID]; exists {
		c.errorChannel <- fmt.Errorf("session %s already registered", c.sessionID)
		return
	}

	h.sessions[c.sessionID] = newClientWriter(c.connection, h.clock)
	metrics.HubActiveSessions.Set(float64(len(h.sessions)))

	slog.Debug("Session registered", "session_id", c.sessionID.String(), "total_sessions", len(h.sessions))
	c.errorChannel <- nil
}

func (h *Hub) handleUnregister(sessionID uuid.UUID) {
	cw, exists := h.sessions[sessionID]
	if !exists {
		return
	}

	cw.stop()
	delete(h.sessions, sessionID)
	metrics.HubActiveSessions.Set(float64(len(h.sessions)))

	slog.Debug("Session unregistered", "session_id", sessionID.String(), "remaining_sessions", len(h.sessions))
}

func (h *Hub) handleBroadcast(c broadcastCmd) {
	var slow []uuid.UUID
	for sessionID, cw := range h.sessions {
		if !cw.enqueue(c.frame) {
			slow = append(slow, sessionID)
		}
	}
	metrics.HubMessagesTotal.WithLabelValues(c.event).Add(float64(len(h.sessions) - len(slow)))

	for _, sessionID := range slow {
		slog.Warn("Disconnecting slow client", "session_id", sessionID.String())
		metrics.HubSlowClientsEvicted.Inc()
		h.handleUnregister(sessionID)
	}
}

func (h *Hub) handleSend(c sendCmd) {
	cw, exists := h.sessions[c.sessionID]
	if !exists {
		return
	}
	if !cw.enqueue(c.frame) {
		slog.Warn("Disconnecting slow client", "session_id", c.sessionID.String())
		metrics.HubSlowClientsEvicted.Inc()
		h.handleUnregister(c.sessionID)
		return
	}
	metrics.HubMessagesTotal.WithLabelValues(c.event).Inc()
}

func (h *Hub) handleStop() {
	total := len(h.sessions)
	slog.Info("Hub shutting down", "sessions", total)
	h.closeAllSessions(shutdownMessage)
	slog.Info("Hub shutdown complete", "disconnected_sessions", total)
}

// closeAllSessions closes all connections with the given reason.
// Used during panic recovery and graceful shutdown.
func (h *Hub) closeAllSessions(reason string) {
	for sessionID, cw := range h.sessions {
		cw.stopGraceful(reason)
		delete(h.sessions, sessionID)
	}
	metrics.HubActiveSessions.Set(0)
}
