package v1

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bggdog/sanctum-video-review/internal/board"
	"github.com/bggdog/sanctum-video-review/internal/events"
	"github.com/bggdog/sanctum-video-review/internal/review"
)

// ErrMissingDependency is returned when a required dependency is nil.
var ErrMissingDependency = errors.New("missing required dependency")

// ServerDeps contains all dependencies for the API server.
// Required dependencies must be non-nil; optional dependencies may be nil.
type ServerDeps struct {
	// Required
	Videos *review.Store

	// Optional
	Bus      *events.Bus      // publishes review events and serves the SSE stream
	EventLog *events.EventLog // event audit log
	Board    BoardMover       // live board for optimistic moves
	Logger   *slog.Logger
}

// BoardMover applies optimistic status moves to a live board.
type BoardMover interface {
	State() board.State
	Move(ctx context.Context, videoID string, status review.Status) *board.Transition
}

// Validate checks that all required dependencies are provided.
func (d ServerDeps) Validate() error {
	if d.Videos == nil {
		return fmt.Errorf("%w: review store", ErrMissingDependency)
	}
	return nil
}
