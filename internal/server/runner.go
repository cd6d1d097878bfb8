// Package server runs the daemon's long-lived components.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bggdog/sanctum-video-review/internal/events"
	"github.com/bggdog/sanctum-video-review/internal/handlers"
)

// Config for the runner.
type Config struct {
	Addr            string
	Retention       time.Duration // events older than this are pruned; 0 keeps all
	PruneInterval   time.Duration
	ShutdownTimeout time.Duration
}

// Runner serves HTTP, runs event handlers and prunes the event log until its
// context is cancelled.
type Runner struct {
	handler  http.Handler
	eventLog *events.EventLog
	handlers []handlers.Handler
	config   Config
	logger   *slog.Logger
}

// NewRunner creates a new runner. eventLog may be nil.
func NewRunner(cfg Config, handler http.Handler, eventLog *events.EventLog, logger *slog.Logger, hs ...handlers.Handler) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PruneInterval <= 0 {
		cfg.PruneInterval = time.Hour
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
	return &Runner{
		handler:  handler,
		eventLog: eventLog,
		handlers: hs,
		config:   cfg,
		logger:   logger,
	}
}

// Run listens on the configured address and blocks like Serve.
func (r *Runner) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", r.config.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", r.config.Addr, err)
	}
	return r.Serve(ctx, ln)
}

// Serve runs every component on ln until ctx is cancelled or one of them
// fails. A clean shutdown returns nil.
func (r *Runner) Serve(ctx context.Context, ln net.Listener) error {
	g, ctx := errgroup.WithContext(ctx)

	// Request contexts derive from ctx so open event streams end on shutdown.
	srv := &http.Server{
		Handler:           r.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g.Go(func() error {
		r.logger.Info("http server listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.config.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		r.logger.Info("http server stopped")
		return nil
	})

	for _, h := range r.handlers {
		g.Go(func() error {
			r.logger.Debug("handler starting", "handler", h.Name())
			err := h.Start(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("handler %s: %w", h.Name(), err)
			}
			r.logger.Debug("handler stopped", "handler", h.Name())
			return nil
		})
	}

	if r.eventLog != nil && r.config.Retention > 0 {
		g.Go(func() error {
			r.prune(ctx)
			return nil
		})
	}

	return g.Wait()
}

// prune deletes expired events now and then every PruneInterval.
func (r *Runner) prune(ctx context.Context) {
	log := r.logger.With("component", "pruner")
	ticker := time.NewTicker(r.config.PruneInterval)
	defer ticker.Stop()

	log.Info("event pruner started", "retention", r.config.Retention, "interval", r.config.PruneInterval)
	for {
		n, err := r.eventLog.Prune(r.config.Retention)
		switch {
		case err != nil:
			log.Error("prune events failed", "error", err)
		case n > 0:
			log.Info("pruned events", "count", n)
		}

		select {
		case <-ctx.Done():
			log.Info("event pruner stopped")
			return
		case <-ticker.C:
		}
	}
}
