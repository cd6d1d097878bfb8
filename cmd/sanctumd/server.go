package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	v1 "github.com/bggdog/sanctum-video-review/internal/api/v1"
	"github.com/bggdog/sanctum-video-review/internal/board"
	"github.com/bggdog/sanctum-video-review/internal/config"
	"github.com/bggdog/sanctum-video-review/internal/events"
	"github.com/bggdog/sanctum-video-review/internal/handlers"
	"github.com/bggdog/sanctum-video-review/internal/migrations"
	"github.com/bggdog/sanctum-video-review/internal/review"
	"github.com/bggdog/sanctum-video-review/internal/server"
)

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps the event stream working through the access log.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func logRequests(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(wrapped, r)
		if wrapped.status == 0 {
			wrapped.status = http.StatusOK
		}
		log.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.status,
			"user", r.Header.Get(v1.UserHeader),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// loadConfig loads path, or the discovered config when path is empty.
// With nothing to discover the defaults are used.
func loadConfig(path string) (*config.Config, string, error) {
	if path == "" {
		found, err := config.Discover()
		if err != nil {
			return config.Default(), "", nil
		}
		path = found
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

func openDB(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// newHandler builds the HTTP handler and the live board over db.
func newHandler(db *sql.DB, bus *events.Bus, eventLog *events.EventLog, cfg *config.Config, logger *slog.Logger) (http.Handler, *handlers.BoardHandler, error) {
	videos := review.NewStore(db)
	live := handlers.NewBoardHandler(bus, videos, board.Config{
		Rollback: board.RollbackPolicy(cfg.Board.Rollback),
	}, logger.With("component", "board"))

	api, err := v1.NewWithDeps(v1.ServerDeps{
		Videos:   videos,
		Bus:      bus,
		EventLog: eventLog,
		Board:    live,
		Logger:   logger,
	}, v1.Config{
		RequestsPerSecond: cfg.API.RequestsPerSecond,
		Burst:             cfg.API.Burst,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("api: %w", err)
	}

	mux := http.NewServeMux()
	api.RegisterRoutes(mux)
	return logRequests(mux, logger.With("component", "http")), live, nil
}

func runServer(configPath string) error {
	cfg, path, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Server.LogLevel),
	}))
	slog.SetDefault(logger)
	if path == "" {
		logger.Warn("no config file found, using defaults")
	}

	db, err := openDB(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	eventLog := events.NewEventLog(db)
	bus := events.NewBus(eventLog, logger.With("component", "bus"))
	defer func() { _ = bus.Close() }()

	handler, live, err := newHandler(db, bus, eventLog, cfg, logger)
	if err != nil {
		return err
	}

	runner := server.NewRunner(server.Config{
		Addr:          cfg.Addr(),
		Retention:     cfg.Events.Retention.Duration,
		PruneInterval: cfg.Events.PruneInterval.Duration,
	}, handler, eventLog, logger, live)

	logger.Info("server starting",
		"version", version,
		"config", path,
		"addr", cfg.Addr(),
		"database", cfg.Database.Path,
		"rollback", cfg.Board.Rollback,
		"rate_limit", cfg.API.RequestsPerSecond,
		"log_level", cfg.Server.LogLevel,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := runner.Run(ctx); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
