package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	v1 "github.com/bggdog/sanctum-video-review/internal/api/v1"
	"github.com/bggdog/sanctum-video-review/internal/review"
	"github.com/bggdog/sanctum-video-review/pkg/title"
)

// httpStore serves the board from the server.
type httpStore struct {
	c *Client
}

func (s httpStore) FetchAll(ctx context.Context) ([]review.Video, error) {
	items, err := s.c.AllVideos(ctx)
	if err != nil {
		return nil, err
	}
	videos := make([]review.Video, len(items))
	for i, v := range items {
		videos[i] = toVideo(v)
	}
	return videos, nil
}

func (s httpStore) UpdateStatus(ctx context.Context, videoID string, status review.Status) (*review.Video, error) {
	resp, err := s.c.UpdateVideoStatus(ctx, videoID, status)
	if err != nil {
		return nil, err
	}
	v := toVideo(*resp)
	return &v, nil
}

func toVideo(r v1.VideoResponse) review.Video {
	return review.Video{
		ID:           r.ID,
		Title:        r.Title,
		Description:  r.Description,
		MediaURL:     r.MediaURL,
		ThumbnailURL: r.ThumbnailURL,
		UploadedBy:   r.UploadedBy,
		Status:       review.Status(r.Status),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// resolveVideo picks a video by ID, or by title when arg is not an ID.
// Title matches must be confident and unambiguous.
func resolveVideo(arg string, videos []review.Video) (review.Video, error) {
	if _, err := uuid.Parse(arg); err == nil {
		for _, v := range videos {
			if v.ID == arg {
				return v, nil
			}
		}
		return review.Video{}, fmt.Errorf("video %s: %w", arg, review.ErrNotFound)
	}

	candidates := make([]title.Candidate, len(videos))
	for i, v := range videos {
		candidates[i] = title.Candidate{ID: v.ID, Title: v.Title}
	}
	m := title.Match(arg, candidates)
	switch {
	case m.Confidence == title.ConfidenceNone:
		return review.Video{}, fmt.Errorf("no video matches %q: %w", arg, review.ErrNotFound)
	case m.Ambiguous:
		return review.Video{}, fmt.Errorf("%q matches more than one video, use the ID", arg)
	case m.Confidence == title.ConfidenceLow:
		return review.Video{}, fmt.Errorf("no close match for %q (did you mean %q?)", arg, m.Candidate.Title)
	}
	for _, v := range videos {
		if v.ID == m.Candidate.ID {
			return v, nil
		}
	}
	return review.Video{}, fmt.Errorf("video %s: %w", m.Candidate.ID, review.ErrNotFound)
}

// lookupVideo resolves arg against the server. IDs are fetched directly.
func lookupVideo(ctx context.Context, c *Client, arg string) (review.Video, error) {
	if _, err := uuid.Parse(arg); err == nil {
		resp, err := c.Video(ctx, arg)
		if err != nil {
			return review.Video{}, err
		}
		return toVideo(*resp), nil
	}
	videos, err := httpStore{c}.FetchAll(ctx)
	if err != nil {
		return review.Video{}, err
	}
	return resolveVideo(arg, videos)
}

// parseStatusArg accepts a status value or its column title in any case,
// with spaces or hyphens for underscores.
func parseStatusArg(s string) (review.Status, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	if st, ok := review.ParseStatus(norm); ok {
		return st, nil
	}

	names := make([]string, len(review.Statuses))
	for i, st := range review.Statuses {
		names[i] = string(st)
	}
	return "", fmt.Errorf("unknown status %q (want one of: %s)", s, strings.Join(names, ", "))
}
