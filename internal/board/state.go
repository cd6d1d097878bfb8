package board

import (
	"slices"

	"github.com/bggdog/sanctum-video-review/internal/review"
)

// State is a snapshot of the board. Videos is the full list in store order;
// Board is always Project(Videos). Snapshots are shared and must not be modified.
type State struct {
	Videos []review.Video
	Board  Projection
}

func newState(videos []review.Video) State {
	return State{Videos: videos, Board: Project(videos)}
}

// Find returns the video with the given ID.
func (s State) Find(id string) (review.Video, bool) {
	i := slices.IndexFunc(s.Videos, func(v review.Video) bool { return v.ID == id })
	if i < 0 {
		return review.Video{}, false
	}
	return s.Videos[i], true
}

// Action is a state change applied through Controller.Dispatch.
type Action interface {
	reduce(videos []review.Video) []review.Video
}

// Loaded replaces the whole list, as after a fetch.
type Loaded struct {
	Videos []review.Video
}

func (a Loaded) reduce([]review.Video) []review.Video {
	return slices.Clone(a.Videos)
}

// StatusApplied sets one video's status.
type StatusApplied struct {
	ID     string
	Status review.Status
}

func (a StatusApplied) reduce(videos []review.Video) []review.Video {
	return withStatus(videos, a.ID, func(review.Status) (review.Status, bool) { return a.Status, true })
}

// StatusReverted undoes one optimistic change: the video goes back to To,
// but only while it still carries From. A later change to the same video wins.
type StatusReverted struct {
	ID       string
	From, To review.Status
}

func (a StatusReverted) reduce(videos []review.Video) []review.Video {
	return withStatus(videos, a.ID, func(cur review.Status) (review.Status, bool) { return a.To, cur == a.From })
}

// Restored puts back a point-in-time list, discarding anything since.
type Restored struct {
	Videos []review.Video
}

func (a Restored) reduce([]review.Video) []review.Video {
	return slices.Clone(a.Videos)
}

// withStatus returns a copy of videos with the matching video's status
// rewritten by fn. The input slice is never modified.
func withStatus(videos []review.Video, id string, fn func(review.Status) (review.Status, bool)) []review.Video {
	i := slices.IndexFunc(videos, func(v review.Video) bool { return v.ID == id })
	if i < 0 {
		return videos
	}
	next, ok := fn(videos[i].Status)
	if !ok || next == videos[i].Status {
		return videos
	}
	out := slices.Clone(videos)
	out[i].Status = next
	return out
}
