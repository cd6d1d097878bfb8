package board

import (
	"context"
	"log/slog"

	"github.com/bggdog/sanctum-video-review/internal/events"
)

// LogNotifier writes notifications to a logger.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) logger() *slog.Logger {
	if n.Logger == nil {
		return slog.Default()
	}
	return n.Logger
}

func (n LogNotifier) NotifySuccess(msg string) { n.logger().Info(msg) }
func (n LogNotifier) NotifyFailure(msg string) { n.logger().Error(msg) }

// BusNotifier publishes notifications as board.notice events so remote
// subscribers (the SSE stream) can show them.
type BusNotifier struct {
	bus *events.Bus
}

// NewBusNotifier creates a notifier that publishes to bus.
func NewBusNotifier(bus *events.Bus) *BusNotifier {
	return &BusNotifier{bus: bus}
}

func (n *BusNotifier) NotifySuccess(msg string) { n.publish(events.NoticeSuccess, msg) }
func (n *BusNotifier) NotifyFailure(msg string) { n.publish(events.NoticeFailure, msg) }

func (n *BusNotifier) publish(level, msg string) {
	_ = n.bus.Publish(context.Background(), &events.BoardNotice{
		BaseEvent: events.NewBaseEvent(events.EventBoardNotice, events.EntityBoard, ""),
		Level:     level,
		Message:   msg,
	})
}

// Notifiers fans each notification out to every member in order.
type Notifiers []Notifier

func (ns Notifiers) NotifySuccess(msg string) {
	for _, n := range ns {
		n.NotifySuccess(msg)
	}
}

func (ns Notifiers) NotifyFailure(msg string) {
	for _, n := range ns {
		n.NotifyFailure(msg)
	}
}
