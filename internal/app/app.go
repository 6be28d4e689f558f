// Package app provides the top-level application lifecycle management for the
// marketplace backend. It wires together all dependencies (engine, price feed,
// cache, archive storage, notifications, and the HTTP/WebSocket server) and
// runs them until the context is cancelled.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/teamfortytwo/atlas/internal/config"
	"github.com/teamfortytwo/atlas/internal/server"
	"github.com/teamfortytwo/atlas/internal/server/handler"
	"github.com/teamfortytwo/atlas/internal/server/ws"
)

// App is the root application object. It owns the configuration, logger, and a
// list of cleanup functions that are called in reverse order on shutdown.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	closers []func()
}

// New creates a new App from the given configuration and logger.
func New(cfg *config.Config, logger *slog.Logger) *App {
	return &App{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "app")),
	}
}

// Run is the main entry point. It wires all dependencies, starts the server
// and background goroutines, and blocks until the context is cancelled. On
// return it runs all registered cleanup functions.
func (a *App) Run(ctx context.Context) error {
	a.logger.InfoContext(ctx, "starting application",
		slog.String("log_level", a.cfg.LogLevel),
	)

	deps, cleanup, err := Wire(ctx, a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("app: wire dependencies: %w", err)
	}
	a.closers = append(a.closers, cleanup)

	if a.cfg.Market.Seed {
		view := deps.Engine.LoadFixtures()
		a.logger.InfoContext(ctx, "loaded demo fixtures",
			slog.Int("listings", len(view.Listings)),
			slog.Int("buy_orders", len(view.Buy)),
		)
	}

	g, ctx := errgroup.WithContext(ctx)

	// WebSocket hub.
	hub := ws.NewHub(a.logger)
	g.Go(func() error {
		return hub.Run(ctx)
	})

	// Event pump: fan engine events out to the hub and the notifier.
	g.Go(func() error {
		return a.pumpEvents(ctx, deps, hub)
	})

	// Node price refresher.
	if a.cfg.Kiln.Enabled {
		interval := a.cfg.Kiln.RefreshInterval.Duration
		g.Go(func() error {
			return deps.Prices.Run(ctx, interval)
		})
	}

	srv := server.NewServer(
		server.Config{
			Port:        a.cfg.Server.Port,
			CORSOrigins: a.cfg.Server.CORSOrigins,
			APIKey:      a.cfg.Server.APIKey,
		},
		server.Handlers{
			Health:   handler.NewHealthHandler(a.logger),
			Listings: handler.NewListingHandler(deps.Engine, a.logger),
			Orders:   handler.NewOrderHandler(deps.Engine, a.logger),
			History:  handler.NewHistoryHandler(deps.Engine, deps.Archiver, a.cfg.Server.AdminKey, a.logger),
			Users:    handler.NewUserHandler(deps.Engine, a.logger),
			Prices:   handler.NewPriceHandler(deps.Prices, a.logger),
		},
		hub,
		a.logger,
	)

	g.Go(func() error {
		return srv.Start()
	})
	g.Go(func() error {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})

	return g.Wait()
}

// pumpEvents reads the engine's event stream and forwards each event to the
// WebSocket hub and, when configured, the notifier. Notification failures are
// logged and never stall the stream.
func (a *App) pumpEvents(ctx context.Context, deps *Dependencies, hub *ws.Hub) error {
	events := deps.Engine.Events()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			hub.Broadcast(ev)
			if deps.Notifier != nil {
				if err := deps.Notifier.HandleEvent(ctx, ev); err != nil {
					a.logger.WarnContext(ctx, "notification failed",
						slog.String("event", string(ev.Type)),
						slog.String("error", err.Error()),
					)
				}
			}
		}
	}
}

// Close tears down all resources in reverse registration order. It is safe to
// call multiple times; subsequent calls are no-ops.
func (a *App) Close() {
	a.logger.Info("shutting down application")
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
