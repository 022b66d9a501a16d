package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Naimul0307/DigitalPlaget-Wall/internal/domain"
	"github.com/Naimul0307/DigitalPlaget-Wall/internal/platform/config"
)

func serve(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func formRequest(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/update_settings", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestPages(t *testing.T) {
	cfg := testConfig(t)
	writeFile(t, filepath.Join(cfg.TemplateDir, "settings.html"), "<h1>settings</h1>")
	writeFile(t, filepath.Join(cfg.TemplateDir, "main_screen.html"), "<h1>wall</h1>")
	writeFile(t, filepath.Join(cfg.TemplateDir, "index.html"), "<h1>pad</h1>")

	srv := newTestServer(t, &mockAppService{}, withConfig(func(c *config.Config) { *c = *cfg }))

	tests := []struct {
		path string
		want string
	}{
		{"/", "settings"},
		{"/main", "wall"},
		{"/index", "pad"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := serve(srv, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
			assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
		})
	}
}

func TestPages_MissingTemplate(t *testing.T) {
	srv := newTestServer(t, &mockAppService{})
	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/main", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStaticAssets(t *testing.T) {
	cfg := testConfig(t)
	writeFile(t, filepath.Join(cfg.StaticDir, "doodles", "doodle_1.png"), "png-bytes")

	srv := newTestServer(t, &mockAppService{}, withConfig(func(c *config.Config) { *c = *cfg }))

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/static/doodles/doodle_1.png", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png-bytes", rec.Body.String())
}

func TestHandleLatestDoodles(t *testing.T) {
	app := &mockAppService{doodles: []string{"/static/doodles/b.png", "/static/doodles/a.png"}}
	srv := newTestServer(t, app, withConfig(func(c *config.Config) { c.MaxImages = 5 }))

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/get_latest_doodles", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"doodles":["/static/doodles/b.png","/static/doodles/a.png"]}`, rec.Body.String())
	assert.Equal(t, 5, app.lastLimit)
}

func TestHandleLatestDoodles_EmptyFeed(t *testing.T) {
	srv := newTestServer(t, &mockAppService{})

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/get_latest_doodles", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"doodles":[]}`, rec.Body.String())
}

func TestHandleCurrentSettings(t *testing.T) {
	app := &mockAppService{settings: domain.Settings{ImageWidth: "200px", ImageMargin: "10px", MaxImages: "12"}}
	srv := newTestServer(t, app)

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/get_current_settings", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"background_image": "",
		"doodle_image": "",
		"image_width": "200px",
		"image_margin": "10px",
		"max_images": "12"
	}`, rec.Body.String())
}

func TestHandleUpdateSettings_Success(t *testing.T) {
	app := &mockAppService{}
	srv := newTestServer(t, app)

	rec := serve(srv, formRequest(url.Values{
		"image_width":  {" 250px "},
		"image_margin": {""},
		"max_images":   {"12"},
	}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Settings updated successfully!", rec.Body.String())
	require.NotNil(t, app.lastUpdate)
	assert.Equal(t, "250px", app.lastUpdate.ImageWidth)
	assert.Empty(t, app.lastUpdate.ImageMargin)
	assert.Equal(t, "12", app.lastUpdate.MaxImages)
	assert.Nil(t, app.lastUpdate.Background)
}

func TestHandleUpdateSettings_WithBackground(t *testing.T) {
	var gotName, gotContent string
	app := &mockAppService{updateFn: func(_ context.Context, u domain.SettingsUpdate) error {
		if u.Background == nil {
			return errors.New("expected background")
		}
		data, err := io.ReadAll(u.Background.Content)
		if err != nil {
			return err
		}
		gotName, gotContent = u.Background.Filename, string(data)
		return nil
	}}
	srv := newTestServer(t, app)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("image_width", "300px"))
	part, err := w.CreateFormFile("bg_image_upload", "sunset.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("jpeg-bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/update_settings", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := serve(srv, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sunset.jpg", gotName)
	assert.Equal(t, "jpeg-bytes", gotContent)
	assert.Equal(t, "300px", app.lastUpdate.ImageWidth)
}

func TestHandleUpdateSettings_MultipartWithoutFile(t *testing.T) {
	app := &mockAppService{}
	srv := newTestServer(t, app)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("max_images", "7"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/update_settings", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := serve(srv, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, app.lastUpdate.Background)
	assert.Equal(t, "7", app.lastUpdate.MaxImages)
}

func TestHandleUpdateSettings_InvalidInput(t *testing.T) {
	app := &mockAppService{updateFn: func(context.Context, domain.SettingsUpdate) error {
		return fmt.Errorf("%w: max_images must be a positive integer", domain.ErrInvalidSettings)
	}}
	srv := newTestServer(t, app)

	rec := serve(srv, formRequest(url.Values{"max_images": {"abc"}}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "max_images must be a positive integer")
}

func TestHandleUpdateSettings_InternalFailure(t *testing.T) {
	app := &mockAppService{updateFn: func(context.Context, domain.SettingsUpdate) error {
		return errors.New("open static/css/main.css: permission denied")
	}}
	srv := newTestServer(t, app)

	rec := serve(srv, formRequest(url.Values{"image_width": {"200px"}}))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Error updating settings.", rec.Body.String())
}

func TestHandleUpdateSettings_BodyTooLarge(t *testing.T) {
	srv := newTestServer(t, &mockAppService{}, withConfig(func(c *config.Config) { c.MaxPayloadBytes = 16 }))

	rec := serve(srv, formRequest(url.Values{"image_width": {strings.Repeat("9", 64) + "px"}}))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestHandleUpdateSettings_RateLimited(t *testing.T) {
	srv := newTestServer(t, &mockAppService{}, withConfig(func(c *config.Config) {
		c.SettingsRate = 0.001
		c.SettingsBurst = 1
	}))

	first := serve(srv, formRequest(url.Values{"max_images": {"5"}}))
	second := serve(srv, formRequest(url.Values{"max_images": {"6"}}))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "rate limit exceeded", second.Body.String())
}
