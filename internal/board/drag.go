package board

import (
	"context"
	"sync"

	"github.com/bggdog/sanctum-video-review/internal/review"
)

// DragAdapter turns drag-and-drop events into transitions. Drop targets are
// identified by container ID, which is the status value of the column.
type DragAdapter struct {
	ctrl *Controller

	mu     sync.Mutex
	active string
}

// NewDragAdapter creates an adapter over ctrl.
func NewDragAdapter(ctrl *Controller) *DragAdapter {
	return &DragAdapter{ctrl: ctrl}
}

// OnDragStart records the item being dragged.
func (d *DragAdapter) OnDragStart(itemID string) {
	d.mu.Lock()
	d.active = itemID
	d.mu.Unlock()
}

// Active returns the video currently being dragged, if any.
func (d *DragAdapter) Active() (review.Video, bool) {
	d.mu.Lock()
	id := d.active
	d.mu.Unlock()
	if id == "" {
		return review.Video{}, false
	}
	return d.ctrl.State().Find(id)
}

// OnDragEnd clears the active item and requests a transition to the drop
// target. A nil destination (dropped outside any column) or a container ID
// that is not a status does nothing.
func (d *DragAdapter) OnDragEnd(ctx context.Context, itemID string, destination *string) *Transition {
	d.mu.Lock()
	d.active = ""
	d.mu.Unlock()

	if destination == nil {
		return nil
	}
	status, ok := review.ParseStatus(*destination)
	if !ok {
		return nil
	}
	return d.ctrl.RequestTransition(ctx, itemID, status)
}
