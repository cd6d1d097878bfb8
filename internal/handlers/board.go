package handlers

import (
	"context"
	"log/slog"

	"github.com/bggdog/sanctum-video-review/internal/board"
	"github.com/bggdog/sanctum-video-review/internal/events"
	"github.com/bggdog/sanctum-video-review/internal/review"
)

// BoardActor is recorded as changed_by on status changes made by the board.
const BoardActor = "board"

// BoardHandler owns the server-side board. Moves are applied optimistically
// and persisted in the background; outcomes go out as board.notice events.
// The board reloads whenever videos change through another path.
type BoardHandler struct {
	*BaseHandler
	ctrl *board.Controller
}

// NewBoardHandler creates a board over videos. Status changes it persists
// are published as video.status.changed with BoardActor as the author.
func NewBoardHandler(bus *events.Bus, videos *review.Store, cfg board.Config, logger *slog.Logger) *BoardHandler {
	base := NewBaseHandler(bus, logger)
	store := &publishingStore{ReviewStore: board.ReviewStore{Videos: videos}, bus: bus, log: base.Logger()}
	notifier := board.Notifiers{
		board.LogNotifier{Logger: base.Logger()},
		board.NewBusNotifier(bus),
	}
	return &BoardHandler{
		BaseHandler: base,
		ctrl:        board.NewController(store, notifier, cfg, base.Logger()),
	}
}

func (h *BoardHandler) Name() string { return "board" }

// Start loads the board and keeps it current until ctx is done. In-flight
// moves are allowed to settle before it returns.
func (h *BoardHandler) Start(ctx context.Context) error {
	ch := h.Bus().SubscribeAll(100)
	defer h.Bus().Unsubscribe(ch)

	_ = h.ctrl.Load(ctx)

	for {
		select {
		case <-ctx.Done():
			h.ctrl.Wait()
			return ctx.Err()
		case e, ok := <-ch:
			if !ok {
				h.ctrl.Wait()
				return nil
			}
			if stale(e) {
				h.Logger().Debug("reloading board", "cause", e.EventType(), "video_id", e.EntityID())
				_ = h.ctrl.Load(ctx)
			}
		}
	}
}

// stale reports whether e changed videos behind the board's back.
func stale(e events.Event) bool {
	switch ev := e.(type) {
	case *events.VideoCreated, *events.VideoUpdated, *events.VideoDeleted:
		return true
	case *events.VideoStatusChanged:
		return ev.ChangedBy != BoardActor
	}
	return false
}

// State returns the current board.
func (h *BoardHandler) State() board.State {
	return h.ctrl.State()
}

// Move requests a status change for a video on the board.
func (h *BoardHandler) Move(ctx context.Context, videoID string, status review.Status) *board.Transition {
	return h.ctrl.RequestTransition(ctx, videoID, status)
}

// Wait blocks until every in-flight move has settled.
func (h *BoardHandler) Wait() {
	h.ctrl.Wait()
}

// publishingStore announces the status changes it persists.
type publishingStore struct {
	board.ReviewStore
	bus *events.Bus
	log *slog.Logger
}

func (s *publishingStore) UpdateStatus(ctx context.Context, videoID string, status review.Status) (*review.Video, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	before, err := s.Videos.GetVideo(videoID)
	if err != nil {
		return nil, err
	}
	v, err := s.Videos.UpdateVideoStatus(videoID, status)
	if err != nil {
		return nil, err
	}

	err = s.bus.Publish(ctx, &events.VideoStatusChanged{
		BaseEvent: events.NewBaseEvent(events.EventVideoStatusChanged, events.EntityVideo, videoID),
		OldStatus: string(before.Status),
		NewStatus: string(v.Status),
		ChangedBy: BoardActor,
	})
	if err != nil {
		s.log.Warn("publish status change failed", "video_id", videoID, "error", err)
	}
	return v, nil
}
