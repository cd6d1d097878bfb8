package board

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/bggdog/sanctum-video-review/internal/review"
)

// RollbackPolicy selects what a failed transition restores.
type RollbackPolicy string

const (
	// RollbackVideo reverts only the failed video, and only if nothing has
	// moved it since.
	RollbackVideo RollbackPolicy = "video"
	// RollbackSnapshot restores the whole list captured when the transition
	// started. Transitions that completed in the meantime are undone locally.
	RollbackSnapshot RollbackPolicy = "snapshot"
)

// Valid reports whether p is a known policy.
func (p RollbackPolicy) Valid() bool {
	return p == RollbackVideo || p == RollbackSnapshot
}

// Config for the controller.
type Config struct {
	Rollback RollbackPolicy // defaults to RollbackVideo
}

// Controller owns the board state and is the only path by which a drag
// changes a video's status. State changes are applied locally first and
// reconciled with the store afterwards.
type Controller struct {
	store    Store
	notifier Notifier
	rollback RollbackPolicy
	log      *slog.Logger

	mu    sync.RWMutex
	state State
	subs  []chan State

	inflight sync.WaitGroup
}

// NewController creates a controller with an empty board.
// Call Load to populate it from the store.
func NewController(store Store, notifier Notifier, cfg Config, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.Rollback.Valid() {
		cfg.Rollback = RollbackVideo
	}
	return &Controller{
		store:    store,
		notifier: notifier,
		rollback: cfg.Rollback,
		log:      logger,
		state:    newState(nil),
	}
}

// State returns the current board snapshot.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Subscribe returns a channel that receives every new state.
// Delivery is non-blocking; a full channel misses updates.
func (c *Controller) Subscribe(bufferSize int) <-chan State {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan State, bufferSize)
	c.subs = append(c.subs, ch)
	return ch
}

// Unsubscribe removes and closes a subscription channel.
func (c *Controller) Unsubscribe(ch <-chan State) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, sub := range c.subs {
		if sub == ch {
			c.subs = append(c.subs[:i], c.subs[i+1:]...)
			close(sub)
			return
		}
	}
}

// Dispatch applies an action and publishes the resulting state.
func (c *Controller) Dispatch(a Action) {
	c.mu.Lock()
	c.dispatchLocked(a)
	c.mu.Unlock()
}

// dispatchLocked must be called with c.mu held for writing.
func (c *Controller) dispatchLocked(a Action) {
	next := a.reduce(c.state.Videos)
	c.state = newState(next)
	for _, ch := range c.subs {
		select {
		case ch <- c.state:
		default:
			c.log.Warn("board subscriber channel full, dropping state")
		}
	}
}

// Load replaces the board with the store's current list. A fetch error is
// logged and leaves an empty board; the error is returned for the caller's
// information only.
func (c *Controller) Load(ctx context.Context) error {
	videos, err := c.store.FetchAll(ctx)
	if err != nil {
		c.log.Error("fetch videos failed", "error", err)
		c.Dispatch(Loaded{})
		return fmt.Errorf("fetch videos: %w", err)
	}
	c.Dispatch(Loaded{Videos: videos})
	c.log.Debug("board loaded", "videos", len(videos))
	return nil
}

// RequestTransition moves a video to dest. The local board changes before
// this returns; the store update runs in the background and is reported
// through the notifier. Returns nil when there is nothing to do: the video
// is unknown, dest is not a workflow stage, or the video is already there.
func (c *Controller) RequestTransition(ctx context.Context, videoID string, dest review.Status) *Transition {
	if !dest.Valid() {
		c.log.Debug("transition ignored, unknown status", "video_id", videoID, "status", dest)
		return nil
	}

	c.mu.Lock()
	v, ok := c.state.Find(videoID)
	if !ok {
		c.mu.Unlock()
		c.log.Debug("transition ignored, unknown video", "video_id", videoID)
		return nil
	}
	if v.Status == dest {
		c.mu.Unlock()
		return nil
	}

	t := newTransition(videoID, v.Status, dest)
	snapshot := c.state.Videos
	c.dispatchLocked(StatusApplied{ID: videoID, Status: dest})
	t.setPhase(PhaseApplied)
	c.inflight.Add(1)
	c.mu.Unlock()

	c.log.Info("transition applied", "video_id", videoID, "from", t.From, "to", t.To)

	go c.persist(context.WithoutCancel(ctx), t, snapshot)
	return t
}

// Wait blocks until every in-flight transition has settled.
func (c *Controller) Wait() {
	c.inflight.Wait()
}

func (c *Controller) persist(ctx context.Context, t *Transition, snapshot []review.Video) {
	defer c.inflight.Done()

	err := c.update(ctx, t.VideoID, t.To)
	if err == nil {
		c.log.Info("transition confirmed", "video_id", t.VideoID, "status", t.To)
		t.settle(PhaseConfirmed, nil)
		c.notifySuccess(MsgStatusUpdated)
		t.finish()
		return
	}

	c.log.Error("transition failed, rolling back", "video_id", t.VideoID, "from", t.From, "to", t.To, "policy", c.rollback, "error", err)
	switch c.rollback {
	case RollbackSnapshot:
		c.Dispatch(Restored{Videos: snapshot})
	default:
		c.Dispatch(StatusReverted{ID: t.VideoID, From: t.To, To: t.From})
	}
	t.settle(PhaseRolledBack, err)
	c.notifyFailure(MsgStatusUpdateFailed)
	t.finish()
}

func (c *Controller) update(ctx context.Context, id string, status review.Status) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPersistPanic, r)
		}
	}()
	_, err = c.store.UpdateStatus(ctx, id, status)
	return err
}

func (c *Controller) notifySuccess(msg string) {
	if c.notifier != nil {
		c.notifier.NotifySuccess(msg)
	}
}

func (c *Controller) notifyFailure(msg string) {
	if c.notifier != nil {
		c.notifier.NotifyFailure(msg)
	}
}
