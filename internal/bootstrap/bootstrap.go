// Package bootstrap wires the database, repositories and scheduler of the application.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/decklearn/internal/config"
	"github.com/at-ishikawa/decklearn/internal/database"
	"github.com/at-ishikawa/decklearn/internal/deck"
	"github.com/at-ishikawa/decklearn/internal/review"
)

// App holds the connected components of one process.
type App struct {
	Config  *config.Config
	DB      *sqlx.DB
	Decks   deck.Repository
	Reviews review.Repository
	Oracle  *review.Oracle

	mu    sync.Mutex
	hooks []func(ctx context.Context) error
}

// New connects to the configured database and builds the repositories.
// The connection is closed by Close.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	scheduler, err := review.NewFSRSScheduler(cfg.Scheduler)
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	slog.Default().DebugContext(ctx, "connected to database", "driver", db.DriverName())

	app := &App{
		Config:  cfg,
		DB:      db,
		Decks:   deck.NewDBRepository(db),
		Reviews: review.NewDBRepository(db),
		Oracle:  review.NewOracle(scheduler),
	}
	app.AddShutdownHook(func(context.Context) error {
		if err := db.Close(); err != nil {
			return fmt.Errorf("close database: %w", err)
		}
		return nil
	})
	return app, nil
}

// AddShutdownHook registers a function to call on Close.
// Hooks run in reverse order (LIFO). Thread-safe.
func (a *App) AddShutdownHook(fn func(ctx context.Context) error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hooks = append(a.hooks, fn)
}

var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// Run executes run with a context cancelled on interrupt or SIGTERM, then closes the app.
// Errors from run and from the shutdown hooks are joined.
func (a *App) Run(ctx context.Context, run func(ctx context.Context) error) error {
	ctx, cancel := signal.NotifyContext(ctx, shutdownSignals...)
	defer cancel()

	runErr := run(ctx)
	return errors.Join(runErr, a.Close(context.WithoutCancel(ctx)))
}

// Close runs the shutdown hooks once.
func (a *App) Close(ctx context.Context) error {
	a.mu.Lock()
	hooks := a.hooks
	a.hooks = nil
	a.mu.Unlock()

	var errs []error
	for i := len(hooks) - 1; i >= 0; i-- {
		if err := hooks[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
