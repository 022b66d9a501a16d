package settings

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"golang.org/x/sync/singleflight"

	"github.com/Naimul0307/DigitalPlaget-Wall/internal/domain"
	"github.com/Naimul0307/DigitalPlaget-Wall/internal/metrics"
)

// Reader re-derives the effective settings from the presentation files on every call.
// Concurrent calls share one read only while no update has completed in between: reads are
// keyed by the patcher's revision, so a call made after Apply returns never joins an older read.
type Reader struct {
	schema  *Schema
	files   Files
	patcher *Patcher
	group   singleflight.Group
}

// NewReader reads the files p writes.
func NewReader(p *Patcher) *Reader {
	return &Reader{schema: p.schema, files: p.files, patcher: p}
}

// Current never fails: a field whose pattern is absent gets its default, and any error
// reading the files yields the full default record.
func (r *Reader) Current(ctx context.Context) domain.Settings {
	key := strconv.FormatUint(r.patcher.Revision(), 10)
	v, _, _ := r.group.Do(key, func() (any, error) {
		settings, err := r.read()
		if err != nil {
			slog.ErrorContext(ctx, "Failed to read settings, serving defaults", "error", err)
			metrics.SettingsReadFallbacksTotal.Inc()
			return domain.DefaultSettings(), nil
		}
		return settings, nil
	})
	return v.(domain.Settings)
}

func (r *Reader) read() (settings domain.Settings, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic while reading settings: %v", rec)
		}
	}()

	css, err := os.ReadFile(r.files.StyleSheet)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("failed to read style sheet: %w", err)
	}
	js, err := os.ReadFile(r.files.ClientScript)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("failed to read client script: %w", err)
	}

	settings = domain.DefaultSettings()
	if v, ok := r.schema.ImageWidth.Read(string(css)); ok {
		settings.ImageWidth = v
	}
	if v, ok := r.schema.ImageMargin.Read(string(css)); ok {
		settings.ImageMargin = v
	}
	if v, ok := r.schema.MaxImages.Read(string(js)); ok {
		settings.MaxImages = v
	}
	return settings, nil
}
