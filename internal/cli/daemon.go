package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dangvu008/wattendo/internal/metrics"
	"github.com/dangvu008/wattendo/internal/reminders"
	"github.com/dangvu008/wattendo/internal/storage"
)

func newDaemonCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run the background reminder dispatcher and monitoring endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer app.Close()
			return runDaemon(app)
		},
	}
}

func runDaemon(app *App) error {
	logger := app.Logger.Level(zerolog.InfoLevel)
	cfg := app.Config

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Monitoring.HealthCheckPort == 0 {
		cfg.Monitoring.HealthCheckPort = 8090
	}
	go startHealthServer(ctx, cfg.Monitoring.HealthCheckPort, app.Store, &logger)

	if cfg.Monitoring.PrometheusEnabled {
		if cfg.Monitoring.PrometheusPort == 0 {
			cfg.Monitoring.PrometheusPort = 9090
		}
		metrics.Register()
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	if cfg.Backup.Enabled {
		if db, ok := app.Store.(*storage.SQLite); ok {
			backup := storage.NewBackupService(db.Path(), storage.BackupConfig{
				Enabled:       true,
				Interval:      cfg.BackupInterval(),
				Path:          cfg.Backup.Path,
				RetentionDays: cfg.Backup.RetentionDays,
			}, &logger)
			go backup.Start(ctx)
		} else {
			logger.Warn().Str("backend", cfg.Storage.Backend).Msg("file backup only supports the sqlite backend")
		}
	}

	var notifier reminders.Notifier = reminders.NewLogNotifier(logger)
	if cfg.Reminders.Telegram.BotToken != "" {
		tg, err := reminders.NewTelegramNotifier(cfg.Reminders.Telegram.BotToken, cfg.Reminders.Telegram.ChatID)
		if err != nil {
			return fmt.Errorf("create telegram notifier: %w", err)
		}
		notifier = tg
	}

	rcfg := reminders.DefaultConfig()
	rcfg.CheckInterval = cfg.ReminderCheckInterval()
	svc := reminders.NewService(rcfg, app.Shifts, app.Notes, notifier, app.Clock)
	svc.Start(ctx)

	logger.Info().Msg("daemon started")
	<-ctx.Done()
	svc.Stop()
	logger.Info().Msg("daemon stopped")
	return nil
}

func startHealthServer(ctx context.Context, port int, store storage.Store, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		ctxPing, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if _, err := store.Get(ctxPing, storage.LocaleKey); err != nil && !errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "storage not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("health server error")
	}
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
