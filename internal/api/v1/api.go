// Package v1 implements the native REST API.
package v1

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/bggdog/sanctum-video-review/internal/events"
	"github.com/bggdog/sanctum-video-review/internal/review"
)

// UserHeader carries the caller's user ID. Authentication happens upstream.
const UserHeader = "X-User-ID"

// Config holds API server configuration.
type Config struct {
	RequestsPerSecond float64 // 0 disables rate limiting
	Burst             int
}

// Server is the v1 API server.
type Server struct {
	deps    ServerDeps
	cfg     Config
	limiter *rate.Limiter
	events  *events.Registry
	log     *slog.Logger
	started time.Time
}

// New creates a v1 API server backed by db with no event bus.
func New(db *sql.DB, cfg Config) *Server {
	srv, _ := NewWithDeps(ServerDeps{Videos: review.NewStore(db)}, cfg)
	return srv
}

// NewWithDeps creates a v1 API server with explicit dependencies.
func NewWithDeps(deps ServerDeps, cfg Config) (*Server, error) {
	if err := deps.Validate(); err != nil {
		return nil, err
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		deps:    deps,
		cfg:     cfg,
		events:  events.DefaultRegistry(),
		log:     logger.With("component", "api"),
		started: time.Now(),
	}
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	return s, nil
}

// RegisterRoutes registers API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	handle := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, s.rateLimit(h))
	}

	// Videos
	handle("GET /api/v1/videos", s.listVideos)
	handle("POST /api/v1/videos", s.addVideo)
	handle("GET /api/v1/videos/{id}", s.getVideo)
	handle("PATCH /api/v1/videos/{id}", s.updateVideo)
	handle("DELETE /api/v1/videos/{id}", s.deleteVideo)
	handle("GET /api/v1/videos/{id}/playback", s.getPlayback)

	// Board
	handle("GET /api/v1/board", s.getBoard)
	handle("POST /api/v1/board/moves", s.requireBoard(s.moveVideo))

	// Comments
	handle("GET /api/v1/videos/{id}/comments", s.listComments)
	handle("POST /api/v1/videos/{id}/comments", s.addComment)
	handle("DELETE /api/v1/comments/{id}", s.deleteComment)

	// Approvals
	handle("GET /api/v1/videos/{id}/approvals", s.listApprovals)
	handle("POST /api/v1/videos/{id}/approvals", s.upsertApproval)

	// Analytics
	handle("GET /api/v1/analytics", s.listAnalytics)
	handle("POST /api/v1/analytics", s.upsertAnalytics)
	handle("GET /api/v1/videos/{id}/analytics", s.listVideoAnalytics)

	// Events
	handle("GET /api/v1/events", s.requireEventLog(s.listEvents))
	handle("GET /api/v1/events/stream", s.requireBus(s.streamEvents))
	handle("GET /api/v1/videos/{id}/events", s.requireEventLog(s.listVideoEvents))

	// System
	handle("GET /api/v1/status", s.getStatus)
}

// Error response
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message, Code: errCode})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

// writeStoreError maps review store errors to HTTP responses.
func (s *Server) writeStoreError(w http.ResponseWriter, err error, notFound string) {
	switch {
	case errors.Is(err, review.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", notFound)
	case errors.Is(err, review.ErrInvalidStatus), errors.Is(err, review.ErrConstraint):
		writeError(w, http.StatusBadRequest, "VALIDATION", err.Error())
	case errors.Is(err, review.ErrDuplicate):
		writeError(w, http.StatusConflict, "DUPLICATE", err.Error())
	default:
		s.log.Error("store error", "error", err)
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
	}
}

// pathID extracts a UUID path parameter.
func pathID(r *http.Request, name string) (string, error) {
	idStr := r.PathValue(name)
	if idStr == "" {
		return "", fmt.Errorf("missing path parameter: %s", name)
	}
	if !validUUID(idStr) {
		return "", fmt.Errorf("invalid %s: %q", name, idStr)
	}
	return idStr, nil
}

func validUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// queryInt extracts an optional integer from query string.
func queryInt(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

// queryString extracts an optional string from query string.
func queryString(r *http.Request, name string) *string {
	val := r.URL.Query().Get(name)
	if val == "" {
		return nil
	}
	return &val
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return false
	}
	return true
}

// publish sends e on the bus when one is configured.
func (s *Server) publish(ctx context.Context, e events.Event) {
	if s.deps.Bus == nil {
		return
	}
	if err := s.deps.Bus.Publish(ctx, e); err != nil {
		s.log.Warn("publish event failed", "type", e.EventType(), "error", err)
	}
}

type statusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Uptime  string `json:"uptime"`
	Videos  int    `json:"videos"`
	Events  bool   `json:"events"`
}

// Version is reported by GET /status. Set at build time.
var Version = "dev"

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	_, total, err := s.deps.Videos.ListVideos(review.VideoFilter{Limit: 1})
	if err != nil {
		s.writeStoreError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{
		Status:  "ok",
		Version: Version,
		Uptime:  time.Since(s.started).Round(time.Second).String(),
		Videos:  total,
		Events:  s.deps.Bus != nil,
	})
}
