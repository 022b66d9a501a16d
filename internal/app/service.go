package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/Naimul0307/DigitalPlaget-Wall/internal/domain"
	"github.com/Naimul0307/DigitalPlaget-Wall/internal/metrics"
)

// RenderFunc turns a submitted payload into the bytes that get stored.
type RenderFunc func(payload string) ([]byte, error)

// Service is the application layer. It is the only component that references multiple
// domain components.
type Service struct {
	render   RenderFunc
	store    domain.DoodleStore
	feed     domain.DoodleFeed
	settings domain.SettingsWriter
	reader   domain.SettingsReader
	clock    clockwork.Clock
}

// NewService creates the application layer service.
func NewService(render RenderFunc, store domain.DoodleStore, feed domain.DoodleFeed, settings domain.SettingsWriter, reader domain.SettingsReader, clock clockwork.Clock) *Service {
	return &Service{
		render:   render,
		store:    store,
		feed:     feed,
		settings: settings,
		reader:   reader,
		clock:    clock,
	}
}

// SubmitDoodle renders payload, stores it and records it in the feed. The feed only sees
// paths whose file write has completed. Errors wrap domain.ErrDecode or domain.ErrStorage.
func (s *Service) SubmitDoodle(ctx context.Context, payload string) (string, error) {
	start := s.clock.Now()
	data, err := s.render(payload)
	metrics.DoodleRenderDuration.Observe(s.clock.Since(start).Seconds())
	if err != nil {
		if !errors.Is(err, domain.ErrDecode) {
			err = fmt.Errorf("%w: %w", domain.ErrDecode, err)
		}
		metrics.DoodleSubmissionsTotal.WithLabelValues("decode_error").Inc()
		slog.WarnContext(ctx, "Rejected doodle submission", "error", err)
		return "", err
	}

	rec, err := s.store.Save(data)
	if err != nil {
		if !errors.Is(err, domain.ErrStorage) {
			err = fmt.Errorf("%w: %w", domain.ErrStorage, err)
		}
		metrics.DoodleSubmissionsTotal.WithLabelValues("storage_error").Inc()
		slog.ErrorContext(ctx, "Failed to store doodle", "error", err)
		return "", err
	}

	s.feed.Record(rec.Path)
	metrics.DoodleSubmissionsTotal.WithLabelValues("accepted").Inc()
	slog.InfoContext(ctx, "Doodle accepted", "path", rec.Path, "bytes", len(data))
	return rec.Path, nil
}

// LatestDoodles returns up to limit recent doodle paths, newest first.
func (s *Service) LatestDoodles(limit int) []string {
	return s.feed.Snapshot(limit)
}

// CurrentSettings re-derives the effective settings. It never fails.
func (s *Service) CurrentSettings(ctx context.Context) domain.Settings {
	return s.reader.Current(ctx)
}

// UpdateSettings applies u. An empty update is a no-op.
func (s *Service) UpdateSettings(ctx context.Context, u domain.SettingsUpdate) error {
	if u.IsEmpty() {
		return nil
	}
	return s.settings.Apply(ctx, u)
}
