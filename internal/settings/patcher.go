package settings

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/Naimul0307/DigitalPlaget-Wall/internal/domain"
	"github.com/Naimul0307/DigitalPlaget-Wall/internal/metrics"
	"github.com/Naimul0307/DigitalPlaget-Wall/internal/platform/fsutil"
)

type edit struct {
	field Field
	value string
}

// Patcher applies settings updates to the presentation files.
type Patcher struct {
	schema   *Schema
	files    Files
	lock     *fsutil.Lock
	revision atomic.Uint64
}

// NewPatcher creates a Patcher. lock is shared with every other file-backed writer.
func NewPatcher(schema *Schema, files Files, lock *fsutil.Lock) *Patcher {
	return &Patcher{schema: schema, files: files, lock: lock}
}

// Apply writes every non-empty field of u. Each field is independent: a field that fails
// validation, a field whose scaffold is missing and a failed background save are each
// skipped while the others still apply. Validation failures wrap domain.ErrInvalidSettings;
// the returned error joins them with any I/O failure.
func (p *Patcher) Apply(ctx context.Context, u domain.SettingsUpdate) error {
	var (
		edits []edit
		errs  []error
	)

	for _, candidate := range []edit{
		{p.schema.ImageWidth, u.ImageWidth},
		{p.schema.ImageMargin, u.ImageMargin},
		{p.schema.MaxImages, u.MaxImages},
	} {
		if candidate.value == "" {
			continue
		}
		if err := ValidateField(candidate.field.Name(), candidate.value); err != nil {
			slog.InfoContext(ctx, "Rejected settings field", "field", candidate.field.Name(), "error", err)
			metrics.SettingsUpdatesTotal.WithLabelValues(candidate.field.Name(), "invalid").Inc()
			errs = append(errs, err)
			continue
		}
		edits = append(edits, candidate)
	}

	if u.Background != nil {
		name, err := p.saveBackground(u.Background)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to save background image", "error", err)
			metrics.SettingsUpdatesTotal.WithLabelValues(FieldBackground, "error").Inc()
			errs = append(errs, err)
		} else {
			edits = append(edits, edit{p.schema.Background, name})
		}
	}

	byTarget := map[Target][]edit{}
	for _, e := range edits {
		byTarget[e.field.Target()] = append(byTarget[e.field.Target()], e)
	}

	for _, target := range []Target{StyleSheet, ClientScript} {
		if len(byTarget[target]) == 0 {
			continue
		}
		if err := p.patchFile(ctx, target, byTarget[target]); err != nil {
			for _, e := range byTarget[target] {
				metrics.SettingsUpdatesTotal.WithLabelValues(e.field.Name(), "error").Inc()
			}
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (p *Patcher) saveBackground(upload *domain.BackgroundUpload) (string, error) {
	data, err := io.ReadAll(upload.Content)
	if err != nil {
		return "", fmt.Errorf("failed to read background upload: %w", err)
	}

	name := BackgroundFileName(upload.Filename)
	err = p.lock.Do(func() error {
		if err := os.MkdirAll(p.files.BackgroundDir, 0o755); err != nil {
			return fmt.Errorf("failed to create background directory: %w", err)
		}
		return fsutil.WriteFileAtomic(filepath.Join(p.files.BackgroundDir, name), data, 0o644)
	})
	if err != nil {
		return "", fmt.Errorf("failed to save background image: %w", err)
	}

	slog.Info("Background image saved", "file", name, "bytes", len(data))
	return name, nil
}

// Revision counts completed file rewrites. It only ever increases.
func (p *Patcher) Revision() uint64 {
	return p.revision.Load()
}

// patchFile runs one read-modify-write cycle over the file backing target.
func (p *Patcher) patchFile(ctx context.Context, target Target, edits []edit) error {
	path := p.files.Path(target)

	return p.lock.Do(func() error {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", target, err)
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", target, err)
		}

		content := string(raw)
		var applied []edit
		for _, e := range edits {
			patched, ok := e.field.Patch(content, e.value)
			if !ok {
				slog.WarnContext(ctx, "Settings pattern not found, field left unchanged",
					"field", e.field.Name(), "file", filepath.Base(path), "error", domain.ErrPatchMismatch)
				metrics.SettingsUpdatesTotal.WithLabelValues(e.field.Name(), "no_match").Inc()
				continue
			}
			content = patched
			applied = append(applied, e)
		}

		if content != string(raw) {
			if err := fsutil.WriteFileAtomic(path, []byte(content), info.Mode().Perm()); err != nil {
				return fmt.Errorf("failed to write %s: %w", target, err)
			}
			p.revision.Add(1)
		}

		for _, e := range applied {
			metrics.SettingsUpdatesTotal.WithLabelValues(e.field.Name(), "applied").Inc()
			slog.InfoContext(ctx, "Settings field updated", "field", e.field.Name(), "value", e.value)
		}
		return nil
	})
}
