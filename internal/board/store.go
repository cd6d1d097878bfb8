package board

import (
	"context"

	"github.com/bggdog/sanctum-video-review/internal/review"
)

// ReviewStore adapts the SQLite review store to Store.
type ReviewStore struct {
	Videos *review.Store
}

// FetchAll returns every video, newest first.
func (s ReviewStore) FetchAll(ctx context.Context) ([]review.Video, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, _, err := s.Videos.ListVideos(review.VideoFilter{})
	if err != nil {
		return nil, err
	}
	out := make([]review.Video, 0, len(rows))
	for _, v := range rows {
		out = append(out, *v)
	}
	return out, nil
}

// UpdateStatus persists a status change.
func (s ReviewStore) UpdateStatus(ctx context.Context, videoID string, status review.Status) (*review.Video, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Videos.UpdateVideoStatus(videoID, status)
}
