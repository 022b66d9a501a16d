package settings

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/Naimul0307/DigitalPlaget-Wall/internal/metrics"
)

// DriftWatcher reports fields whose scaffold disappears from the presentation files, which
// happens when the files are edited by hand. Patches to such fields silently do nothing.
type DriftWatcher struct {
	schema *Schema
	files  Files
}

func NewDriftWatcher(schema *Schema, files Files) *DriftWatcher {
	return &DriftWatcher{schema: schema, files: files}
}

// Check returns the names of fields whose pattern currently has no match.
func (w *DriftWatcher) Check() ([]string, error) {
	contents := map[Target]string{}
	for _, t := range []Target{StyleSheet, ClientScript} {
		raw, err := os.ReadFile(w.files.Path(t))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", t, err)
		}
		contents[t] = string(raw)
	}

	var drifted []string
	for _, f := range w.schema.Fields() {
		if _, ok := f.Read(contents[f.Target()]); !ok {
			drifted = append(drifted, f.Name())
		}
	}
	metrics.SettingsDriftedFields.Set(float64(len(drifted)))
	return drifted, nil
}

// Run watches the directories of both files until ctx is done. Editors often replace files
// by rename, so the parent directories are watched rather than the files.
func (w *DriftWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	watched := map[string]string{
		filepath.Clean(w.files.StyleSheet):   filepath.Base(w.files.StyleSheet),
		filepath.Clean(w.files.ClientScript): filepath.Base(w.files.ClientScript),
	}
	dirs := map[string]bool{}
	for path := range watched {
		dir := filepath.Dir(path)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	w.report(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name, tracked := watched[filepath.Clean(ev.Name)]
			if !tracked || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			metrics.SettingsFileEventsTotal.WithLabelValues(name).Inc()
			w.report(ctx)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.WarnContext(ctx, "Settings file watcher error", "error", err)
		}
	}
}

func (w *DriftWatcher) report(ctx context.Context) {
	drifted, err := w.Check()
	if err != nil {
		slog.WarnContext(ctx, "Failed to check settings files", "error", err)
		return
	}
	if len(drifted) > 0 {
		slog.WarnContext(ctx, "Settings fields no longer match their files", "fields", drifted)
	}
}
