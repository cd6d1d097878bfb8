// Package handlers runs long-lived components that react to bus events.
package handlers

import (
	"context"
	"log/slog"

	"github.com/bggdog/sanctum-video-review/internal/events"
)

// Handler processes events until its context is cancelled.
type Handler interface {
	// Start blocks, processing events until ctx is done.
	Start(ctx context.Context) error

	// Name identifies the handler in logs.
	Name() string
}

// BaseHandler holds what every handler needs.
type BaseHandler struct {
	bus    *events.Bus
	logger *slog.Logger
}

// NewBaseHandler creates a base handler. A nil logger uses slog.Default.
func NewBaseHandler(bus *events.Bus, logger *slog.Logger) *BaseHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &BaseHandler{bus: bus, logger: logger}
}

func (h *BaseHandler) Bus() *events.Bus     { return h.bus }
func (h *BaseHandler) Logger() *slog.Logger { return h.logger }
