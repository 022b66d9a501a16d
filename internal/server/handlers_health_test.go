package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Naimul0307/DigitalPlaget-Wall/internal/platform/version"
)

func healthOK(_ context.Context) error { return nil }

func healthErr(msg string) func(context.Context) error {
	return func(_ context.Context) error { return errors.New(msg) }
}

func TestHandleLiveness(t *testing.T) {
	srv := newTestServer(t, &mockAppService{})

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"status":"ok"`)
	assert.Contains(t, body, `"uptime"`)
	assert.Contains(t, body, `"connections":0`)
}

func TestHandleReadiness(t *testing.T) {
	srv := newTestServer(t, &mockAppService{},
		withHealthChecks(
			HealthCheck{Name: "static_dir", Check: healthOK},
			HealthCheck{Name: "hub", Check: healthOK},
		),
	)

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ready"}`, rec.Body.String())
}

func TestHandleReadiness_StaticDirMissing(t *testing.T) {
	srv := newTestServer(t, &mockAppService{},
		withHealthChecks(
			HealthCheck{Name: "static_dir", Check: healthErr("stat static: no such file or directory")},
			HealthCheck{Name: "hub", Check: healthOK},
		),
	)

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"unhealthy"`)
	assert.Contains(t, rec.Body.String(), `"failed_check":"static_dir"`)
}

func TestHandleVersion(t *testing.T) {
	srv := newTestServer(t, &mockAppService{})

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/version", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var info version.Info
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, version.Service, info.Service)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, &mockAppService{})

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "hub_active_sessions")
}
