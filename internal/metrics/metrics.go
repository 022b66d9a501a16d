package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Doodle Pipeline Metrics
var (
	// DoodleSubmissionsTotal tracks submissions by result (accepted/decode_error/storage_error)
	DoodleSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "doodle_submissions_total",
			Help: "Total doodle submissions by result (accepted/decode_error/storage_error)",
		},
		[]string{"result"},
	)

	// DoodleRenderDuration tracks decode, resize and encode latency
	DoodleRenderDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "doodle_render_duration_seconds",
			Help:    "Doodle decode, resize and encode duration in seconds",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5},
		},
	)

	// DoodleFeedSize tracks current number of entries in the recent-doodles feed
	DoodleFeedSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "doodle_feed_entries",
			Help: "Current number of entries in the recent-doodles feed",
		},
	)
)

// Hub Metrics
var (
	// HubActiveSessions tracks number of connected realtime sessions
	HubActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hub_active_sessions",
			Help: "Number of connected realtime sessions",
		},
	)

	// HubMessagesTotal tracks outbound messages by event name
	HubMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hub_messages_total",
			Help: "Total outbound realtime messages by event",
		},
		[]string{"event"},
	)

	// HubSlowClientsEvicted tracks sessions evicted because their send buffer was full
	HubSlowClientsEvicted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hub_slow_clients_evicted_total",
			Help: "Total realtime sessions evicted due to buffer full",
		},
	)

	// HubCommandChannelDepth tracks current command channel depth
	HubCommandChannelDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hub_command_channel_depth",
			Help: "Current hub command channel depth",
		},
	)

	// HubPanicsTotal tracks panic recoveries in the hub and its frame handler
	HubPanicsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hub_panics_total",
			Help: "Total hub panic recoveries",
		},
	)

	// HubStopTimeoutsTotal tracks hub stops that exceeded timeout
	HubStopTimeoutsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hub_stop_timeouts_total",
			Help: "Hub stops that exceeded timeout",
		},
	)
)

// WebSocket Metrics
var (
	// WebSocketConnectionsTotal tracks upgrade attempts by result
	WebSocketConnectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_connections_total",
			Help: "Total WebSocket connection attempts by result (success/error/rejected)",
		},
		[]string{"result"},
	)

	// WebSocketConnectionsRejected tracks rejected connection attempts by reason
	WebSocketConnectionsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_connections_rejected_total",
			Help: "Total WebSocket connections rejected by reason (global_limit)",
		},
		[]string{"reason"},
	)

	// WebSocketConnectionCapacity tracks current connection capacity utilization as percentage
	WebSocketConnectionCapacity = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connection_capacity_percent",
			Help: "Current WebSocket connection capacity utilization (0-100%)",
		},
	)

	// WebSocketConnectionDuration tracks how long sessions stay connected
	WebSocketConnectionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "websocket_connection_duration_seconds",
			Help:    "WebSocket connection duration in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 300, 600, 1800, 3600},
		},
	)

	// WebSocketFramesRateLimited tracks inbound frames dropped by the per-session limiter
	WebSocketFramesRateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_frames_rate_limited_total",
			Help: "Total inbound frames rejected by the per-session rate limiter",
		},
	)
)

// Settings Metrics
var (
	// SettingsUpdatesTotal tracks per-field update outcomes (applied/no_match/error)
	SettingsUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "settings_updates_total",
			Help: "Total settings field updates by field and result (applied/no_match/error)",
		},
		[]string{"field", "result"},
	)

	// SettingsReadFallbacksTotal tracks reads that served defaults because of an error
	SettingsReadFallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "settings_read_fallbacks_total",
			Help: "Total settings reads that fell back to defaults",
		},
	)

	// SettingsFileEventsTotal tracks change notifications for the presentation files
	SettingsFileEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "settings_file_events_total",
			Help: "Total presentation file change events by file",
		},
		[]string{"file"},
	)

	// SettingsDriftedFields tracks fields whose scaffold is missing from the files on disk
	SettingsDriftedFields = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "settings_drifted_fields",
			Help: "Number of settings fields whose pattern no longer matches its file",
		},
	)
)

// HTTP Metrics
var (
	// HTTPErrorsTotal tracks error responses by error type
	HTTPErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Total HTTP error responses by type",
		},
		[]string{"type"},
	)
)

// Build Information Metrics
var (
	// BuildInfo is a gauge that always returns 1, with build metadata as labels
	BuildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "build_info",
			Help: "Build information with version, commit, build_time, and go_version labels (value is always 1)",
		},
		[]string{"version", "commit", "build_time", "go_version"},
	)
)
