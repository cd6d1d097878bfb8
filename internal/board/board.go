// Package board keeps a local, optimistically updated view of the video
// workflow: videos partitioned by status, moved between columns by drag and
// drop, and reconciled with the authoritative store.
package board

import (
	"context"
	"errors"

	"github.com/bggdog/sanctum-video-review/internal/review"
)

//go:generate mockgen -source=board.go -destination=mocks/mock_board.go -package=mocks

// Store is the authoritative video collection.
type Store interface {
	// FetchAll returns every video.
	FetchAll(ctx context.Context) ([]review.Video, error)
	// UpdateStatus persists a status change for one video.
	UpdateStatus(ctx context.Context, videoID string, status review.Status) (*review.Video, error)
}

// Notifier surfaces transition outcomes to the user.
type Notifier interface {
	NotifySuccess(msg string)
	NotifyFailure(msg string)
}

// Messages emitted when a transition settles.
const (
	MsgStatusUpdated      = "Video status updated"
	MsgStatusUpdateFailed = "Failed to update video status"
)

// ErrPersistPanic wraps a panic raised by Store.UpdateStatus.
var ErrPersistPanic = errors.New("status update panicked")
