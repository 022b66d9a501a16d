package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Naimul0307/DigitalPlaget-Wall/internal/app"
	"github.com/Naimul0307/DigitalPlaget-Wall/internal/broadcast"
	"github.com/Naimul0307/DigitalPlaget-Wall/internal/doodle"
	"github.com/Naimul0307/DigitalPlaget-Wall/internal/domain"
	"github.com/Naimul0307/DigitalPlaget-Wall/internal/imaging"
	"github.com/Naimul0307/DigitalPlaget-Wall/internal/metrics"
	"github.com/Naimul0307/DigitalPlaget-Wall/internal/netconfig"
	"github.com/Naimul0307/DigitalPlaget-Wall/internal/platform/config"
	"github.com/Naimul0307/DigitalPlaget-Wall/internal/platform/fsutil"
	"github.com/Naimul0307/DigitalPlaget-Wall/internal/platform/logging"
	"github.com/Naimul0307/DigitalPlaget-Wall/internal/platform/version"
	"github.com/Naimul0307/DigitalPlaget-Wall/internal/server"
	"github.com/Naimul0307/DigitalPlaget-Wall/internal/settings"
)

func runGracefulShutdown(srv *server.Server, hub *broadcast.Hub, stopWatcher context.CancelFunc) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		// close frames first; hijacked connections are not covered by the HTTP shutdown
		hub.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		stopWatcher()
		close(done)
	}()

	return done
}

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupNetwork(cfg *config.Config, lock *fsutil.Lock) netconfig.Network {
	network, err := netconfig.Resolve(cfg.Host, cfg.Port)
	if err != nil {
		slog.Error("Failed to resolve listen port", "error", err)
		os.Exit(1)
	}

	if err := netconfig.Persist(cfg.NetworkConfigPath(), network, lock); err != nil {
		// Viewers fall back to the page origin, so a stale file is not fatal.
		slog.Warn("Failed to persist network config", "path", cfg.NetworkConfigPath(), "error", err)
	}
	return network
}

func startDriftWatcher(ctx context.Context, watcher *settings.DriftWatcher) {
	go func() {
		if err := watcher.Run(ctx); err != nil {
			slog.Warn("Settings watcher stopped", "error", err)
		}
	}()
}

func healthChecks(cfg *config.Config, hub *broadcast.Hub) []server.HealthCheck {
	return []server.HealthCheck{
		{Name: "static_dir", Check: func(context.Context) error {
			for _, path := range []string{cfg.StyleSheetPath(), cfg.ScriptPath()} {
				if _, err := os.Stat(path); err != nil {
					return fmt.Errorf("settings file unavailable: %w", err)
				}
			}
			return nil
		}},
		{Name: "hub", Check: func(context.Context) error {
			if hub.SessionCount() < 0 {
				return errors.New("hub not responding")
			}
			return nil
		}},
	}
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	info := version.Get()
	metrics.BuildInfo.WithLabelValues(info.Version, info.Commit, info.BuildTime, info.GoVersion).Set(1)
	slog.Info("Application starting", "env", cfg.AppEnv, "version", info.Version)

	// One lock for every file-backed mutation: doodles, presentation files, network config.
	var lock fsutil.Lock

	network := setupNetwork(cfg, &lock)

	schema := settings.NewSchema(cfg.PublicPrefix)
	files := settings.Files{
		StyleSheet:    cfg.StyleSheetPath(),
		ClientScript:  cfg.ScriptPath(),
		BackgroundDir: cfg.BackgroundDir(),
	}

	store := doodle.NewStore(cfg.DoodleDir(), cfg.DoodlePublicPath(), clock, &lock)
	feed := doodle.NewFeed(domain.FeedCapacity)
	patcher := settings.NewPatcher(schema, files, &lock)
	reader := settings.NewReader(patcher)

	appSvc := app.NewService(imaging.Render, store, feed, patcher, reader, clock)
	hub := broadcast.NewHub(appSvc, clock)

	watchCtx, stopWatcher := context.WithCancel(context.Background())
	defer stopWatcher()
	if cfg.WatchSettings {
		startDriftWatcher(watchCtx, settings.NewDriftWatcher(schema, files))
	}

	srv := server.NewServer(cfg, appSvc, hub, healthChecks(cfg, hub), prometheus.DefaultRegisterer)

	done := runGracefulShutdown(srv, hub, stopWatcher)

	addr := network.Addr(cfg.Host)
	slog.Info("Doodle wall available", "url", fmt.Sprintf("http://%s:%d", network.IP, network.Port))
	if err := srv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
