package uow

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/botstore/internal/config"
	"github.com/phrazzld/botstore/internal/platform/database"
	"github.com/phrazzld/botstore/internal/platform/logger"
	"github.com/phrazzld/botstore/internal/store"
	"golang.org/x/sync/errgroup"
)

// Dispatcher runs operations as isolated units of work. It is safe for
// concurrent use.
type Dispatcher struct {
	cfg config.Config
	// base is the caller's logger; logger adds the dispatcher component.
	base   *slog.Logger
	logger *slog.Logger

	// pool is the long-lived engine used in shared mode; nil in per-call mode.
	pool *database.Engine

	acquired atomic.Int64
	released atomic.Int64
}

// Stats counts session acquisitions and releases since the dispatcher opened.
type Stats struct {
	Acquired int64
	Released int64
}

// Open creates a dispatcher for cfg. The configuration is copied and never
// re-read. In shared mode the pool is opened and the schema ensured here; in
// per-call mode both happen on every Run.
func Open(ctx context.Context, cfg config.Config, log *slog.Logger) (*Dispatcher, error) {
	if log == nil {
		log = slog.Default()
	}
	base := log
	log = log.With(slog.String("component", "dispatcher"))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	d := &Dispatcher{cfg: cfg, base: base, logger: log}

	switch cfg.Dispatch.Mode {
	case config.ModePerCall:
		if _, err := database.DialectFor(cfg.Database.Driver); err != nil {
			return nil, err
		}
	case config.ModeShared:
		engine, err := database.Open(ctx, cfg.Database, log)
		if err != nil {
			return nil, err
		}
		if _, err := database.EnsureSchema(ctx, engine, log); err != nil {
			_ = engine.Close()
			return nil, err
		}
		d.pool = engine
	default:
		return nil, fmt.Errorf("%w: unknown dispatch mode %q", config.ErrInvalidConfig, cfg.Dispatch.Mode)
	}

	log.Info("dispatcher ready",
		slog.String("mode", cfg.Dispatch.Mode),
		slog.String("driver", cfg.Database.Driver))
	return d, nil
}

// Close releases the shared pool, if any.
func (d *Dispatcher) Close() error {
	if d.pool == nil {
		return nil
	}
	return d.pool.Close()
}

// Mode returns the configured dispatch mode.
func (d *Dispatcher) Mode() string {
	return d.cfg.Dispatch.Mode
}

// Stats returns acquisition counters.
func (d *Dispatcher) Stats() Stats {
	return Stats{Acquired: d.acquired.Load(), Released: d.released.Load()}
}

// Run executes op as one unit of work: it acquires a session factory,
// runs op as a single task, and releases the session unconditionally before
// returning. Errors from op are returned unchanged; a panic in op is re-raised
// once the session has been released. The result is nil when op produced none.
func Run[T any](ctx context.Context, d *Dispatcher, op Operation[T]) (*Result[T], error) {
	uowID := slog.String("uow_id", uuid.NewString())
	ctx = logger.WithLogger(ctx, d.base.With(uowID))
	log := d.logger.With(uowID)
	start := time.Now()

	sessions, release, err := d.acquire(ctx, log)
	if err != nil {
		log.Error("failed to acquire storage session", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := release(); err != nil {
			log.Warn("failed to release storage session", slog.String("error", err.Error()))
		}
		d.released.Add(1)
	}()

	var (
		result   *Result[T]
		panicked any
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer func() {
			if p := recover(); p != nil {
				panicked = p
			}
		}()
		var opErr error
		result, opErr = op(gctx, sessions)
		return opErr
	})
	err = g.Wait()

	if panicked != nil {
		log.Error("operation panicked", slog.Any("panic", panicked))
		panic(panicked)
	}

	if err != nil {
		log.Debug("unit of work failed",
			slog.String("error", err.Error()),
			slog.Duration("duration", time.Since(start)))
		return nil, err
	}

	log.Debug("unit of work completed", slog.Duration("duration", time.Since(start)))
	return result, nil
}

// acquire provisions the storage for one unit of work and returns its
// release function.
func (d *Dispatcher) acquire(ctx context.Context, log *slog.Logger) (SessionFactory, func() error, error) {
	if d.pool == nil {
		engine, err := database.Open(ctx, d.cfg.Database, log)
		if err != nil {
			return nil, nil, err
		}
		d.acquired.Add(1)

		if _, err := database.EnsureSchema(ctx, engine, log); err != nil {
			if closeErr := engine.Close(); closeErr != nil {
				log.Warn("failed to close engine", slog.String("error", closeErr.Error()))
			}
			d.released.Add(1)
			return nil, nil, err
		}
		return newSessionFactory(engine.DB, engine.Dialect, logger.FromContextOrDefault(ctx, d.base)), engine.Close, nil
	}

	conn, err := d.pool.DB.Conn(ctx)
	if err != nil {
		mapped := d.pool.Dialect.Map(err)
		if !store.IsTransientError(mapped) {
			mapped = fmt.Errorf("%w: %w", store.ErrTransient, mapped)
		}
		return nil, nil, fmt.Errorf("failed to check out connection: %w", mapped)
	}
	d.acquired.Add(1)
	return newSessionFactory(conn, d.pool.Dialect, logger.FromContextOrDefault(ctx, d.base)), conn.Close, nil
}
