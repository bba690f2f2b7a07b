// Package cli implements the wattendo command line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/dangvu008/wattendo/internal/attendance"
	"github.com/dangvu008/wattendo/internal/clock"
	"github.com/dangvu008/wattendo/internal/config"
	"github.com/dangvu008/wattendo/internal/events"
	"github.com/dangvu008/wattendo/internal/notes"
	"github.com/dangvu008/wattendo/internal/settings"
	"github.com/dangvu008/wattendo/internal/shift"
	"github.com/dangvu008/wattendo/internal/storage"
)

// App wires the stores and services a command works against.
type App struct {
	Config     *config.Config
	Logger     zerolog.Logger
	Bus        *events.Bus
	Clock      clock.Clock
	Store      storage.Store
	Attendance *attendance.Service
	Shifts     *shift.Registry
	Notes      *notes.Store
	Settings   *settings.Service

	closer io.Closer
}

// openApp loads config, opens the configured storage backend and
// constructs all services with their state loaded.
func openApp(ctx context.Context, opts *RootOptions) (*App, error) {
	logger := newLogger(opts.Verbose)

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	app := &App{
		Config: cfg,
		Logger: logger,
		Bus:    events.NewBus(),
		Clock:  clock.System(),
	}

	switch cfg.Storage.Backend {
	case "sqlite":
		db, err := storage.NewSQLite(cfg.Storage.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		app.Store = db
		app.closer = db
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		app.Store = storage.NewRedis(client, "wattendo")
		app.closer = client
	case "memory":
		app.Store = storage.NewMemory()
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	app.Shifts = shift.NewRegistry(app.Store, app.Clock, app.Bus, logger)
	if err := app.Shifts.Load(ctx); err != nil {
		app.Close()
		return nil, err
	}

	app.Attendance = attendance.NewService(app.Store, app.Clock, app.Bus, logger, attendance.Config{
		CheckInHold:  cfg.CheckInHold(),
		CheckOutHold: cfg.CheckOutHold(),
		SignButton: func() bool {
			if active := app.Shifts.ActiveForToday(); active != nil {
				return active.ShowSignButton
			}
			return false
		},
	})
	if err := app.Attendance.Load(ctx); err != nil {
		app.Close()
		return nil, err
	}

	app.Notes = notes.NewStore(app.Store, app.Clock, app.Bus, logger)
	if err := app.Notes.Load(ctx); err != nil {
		app.Close()
		return nil, err
	}

	app.Settings = settings.NewService(app.Store, logger)
	if err := app.Settings.Load(ctx); err != nil {
		app.Close()
		return nil, err
	}

	return app, nil
}

// Close releases the storage backend.
func (a *App) Close() {
	if a.closer != nil {
		_ = a.closer.Close()
	}
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// parseDay parses a positional date argument, accepting "today",
// "yesterday" or a yyyy-MM-dd key.
func parseDay(clk clock.Clock, arg string) (time.Time, error) {
	switch arg {
	case "", "today":
		return clk.Now(), nil
	case "yesterday":
		return clk.Now().AddDate(0, 0, -1), nil
	}
	return clock.ParseDateKey(arg)
}
