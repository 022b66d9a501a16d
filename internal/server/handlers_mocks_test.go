package server

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/Naimul0307/DigitalPlaget-Wall/internal/broadcast"
	"github.com/Naimul0307/DigitalPlaget-Wall/internal/domain"
	"github.com/Naimul0307/DigitalPlaget-Wall/internal/platform/config"
)

// --- Mock implementations ---

type mockAppService struct {
	mu         sync.Mutex
	lastLimit  int
	doodles    []string
	settings   domain.Settings
	updateFn   func(ctx context.Context, u domain.SettingsUpdate) error
	lastUpdate *domain.SettingsUpdate
}

func (m *mockAppService) LatestDoodles(limit int) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastLimit = limit
	if len(m.doodles) > limit {
		return m.doodles[:limit]
	}
	return m.doodles
}

func (m *mockAppService) CurrentSettings(_ context.Context) domain.Settings {
	return m.settings
}

func (m *mockAppService) UpdateSettings(ctx context.Context, u domain.SettingsUpdate) error {
	m.mu.Lock()
	m.lastUpdate = &u
	m.mu.Unlock()
	if m.updateFn != nil {
		return m.updateFn(ctx, u)
	}
	return nil
}

type mockSubmitter struct {
	submitFn func(image string) (string, error)
}

func (m *mockSubmitter) SubmitDoodle(_ context.Context, image string) (string, error) {
	if m.submitFn != nil {
		return m.submitFn(image)
	}
	return "/static/doodles/doodle_20250101120000000000.png", nil
}

// --- Test server ---

type testServerOption func(*testServerConfig)

type testServerConfig struct {
	cfg          *config.Config
	submitter    *mockSubmitter
	healthChecks []HealthCheck
}

func withHealthChecks(checks ...HealthCheck) testServerOption {
	return func(c *testServerConfig) { c.healthChecks = checks }
}

func withConfig(fn func(cfg *config.Config)) testServerOption {
	return func(c *testServerConfig) { fn(c.cfg) }
}

func withSubmitter(s *mockSubmitter) testServerOption {
	return func(c *testServerConfig) { c.submitter = s }
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		AppEnv:                  "test",
		Port:                    5003,
		StaticDir:               t.TempDir(),
		PublicPrefix:            "/static",
		TemplateDir:             t.TempDir(),
		MaxImages:               18,
		MaxWebSocketConnections: 10,
		MaxPayloadBytes:         1 << 20,
		SubmissionRate:          100,
		SubmissionBurst:         100,
		SettingsRate:            100,
		SettingsBurst:           100,
	}
}

func newTestServer(t *testing.T, app *mockAppService, opts ...testServerOption) *Server {
	t.Helper()

	tc := &testServerConfig{cfg: testConfig(t), submitter: &mockSubmitter{}}
	for _, opt := range opts {
		opt(tc)
	}

	hub := broadcast.NewHub(tc.submitter, clockwork.NewRealClock())
	t.Cleanup(hub.Stop)

	return NewServer(tc.cfg, app, hub, tc.healthChecks, prometheus.NewRegistry())
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// dialWS opens a realtime connection against a live test server.
func dialWS(t *testing.T, ts *httptest.Server, origin string) (*websocket.Conn, int, error) {
	t.Helper()
	header := make(map[string][]string)
	if origin != "" {
		header["Origin"] = []string{origin}
	}
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	status := 0
	if resp != nil {
		status = resp.StatusCode
		_ = resp.Body.Close()
	}
	if conn != nil {
		t.Cleanup(func() { conn.Close() })
	}
	return conn, status, err
}
