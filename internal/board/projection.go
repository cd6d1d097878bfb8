package board

import (
	"github.com/bggdog/sanctum-video-review/internal/review"
)

// Projection partitions videos by status. It always holds exactly one
// bucket per workflow stage, possibly empty.
type Projection map[review.Status][]review.Video

// Project partitions videos by status, preserving input order within each
// bucket. Videos whose status is not a workflow stage are dropped.
func Project(videos []review.Video) Projection {
	p := make(Projection, len(review.Statuses))
	for _, s := range review.Statuses {
		p[s] = []review.Video{}
	}
	for _, v := range videos {
		if _, ok := review.ParseStatus(string(v.Status)); !ok {
			continue
		}
		p[v.Status] = append(p[v.Status], v)
	}
	return p
}

// Flatten reassembles the buckets into one list in column order.
func (p Projection) Flatten() []review.Video {
	var out []review.Video
	for _, s := range review.Statuses {
		out = append(out, p[s]...)
	}
	return out
}

// Counts returns the number of videos per status.
func (p Projection) Counts() map[review.Status]int {
	counts := make(map[review.Status]int, len(review.Statuses))
	for _, s := range review.Statuses {
		counts[s] = len(p[s])
	}
	return counts
}

// IDs returns the video IDs in one bucket, in order.
func (p Projection) IDs(s review.Status) []string {
	ids := make([]string, 0, len(p[s]))
	for _, v := range p[s] {
		ids = append(ids, v.ID)
	}
	return ids
}
