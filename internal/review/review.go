// Package review tracks videos through the review workflow, along with their
// comments, approvals and per-platform analytics.
package review

import (
	"time"
)

// Status is the workflow stage a video occupies.
type Status string

const (
	StatusIdeation       Status = "ideation"
	StatusPriming        Status = "priming"
	StatusReadyForReview Status = "ready_for_review"
	StatusScheduled      Status = "scheduled"
	StatusPosted         Status = "posted"
)

// Statuses is the fixed display order of the workflow stages.
var Statuses = []Status{
	StatusIdeation,
	StatusPriming,
	StatusReadyForReview,
	StatusScheduled,
	StatusPosted,
}

var statusTitles = map[Status]string{
	StatusIdeation:       "Ideation",
	StatusPriming:        "Priming",
	StatusReadyForReview: "Ready for Review",
	StatusScheduled:      "Scheduled",
	StatusPosted:         "Posted",
}

// ParseStatus decodes a raw status value.
// Unrecognized values are returned unchanged with ok=false.
func ParseStatus(s string) (Status, bool) {
	st := Status(s)
	return st, st.Valid()
}

// Valid reports whether s is one of the five workflow stages.
func (s Status) Valid() bool {
	_, ok := statusTitles[s]
	return ok
}

// Title returns the column heading for the status.
func (s Status) Title() string {
	if t, ok := statusTitles[s]; ok {
		return t
	}
	return string(s)
}

func (s Status) String() string { return string(s) }

// Video is a video link tracked through the workflow.
type Video struct {
	ID           string
	Title        string
	Description  *string
	MediaURL     string
	ThumbnailURL *string
	UploadedBy   string
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CommentType classifies review comments.
type CommentType string

const (
	CommentNote     CommentType = "note"
	CommentCritique CommentType = "critique"
	CommentApproval CommentType = "approval"
)

// Valid reports whether t is a known comment type.
func (t CommentType) Valid() bool {
	switch t {
	case CommentNote, CommentCritique, CommentApproval:
		return true
	}
	return false
}

// Comment is a note left at a point in the video.
type Comment struct {
	ID        string
	VideoID   string
	UserID    string
	Timestamp float64 // seconds into the video
	Content   string
	Type      CommentType
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Approval is one reviewer's verdict on a video.
type Approval struct {
	ID         string
	VideoID    string
	UserID     string
	Approved   bool
	ApprovedAt *time.Time // set only when Approved
	Notes      *string
	CreatedAt  time.Time
}

// Platform is a publishing destination analytics are recorded for.
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
	PlatformYouTube   Platform = "youtube"
)

// Valid reports whether p is a known platform.
func (p Platform) Valid() bool {
	switch p {
	case PlatformInstagram, PlatformTikTok, PlatformYouTube:
		return true
	}
	return false
}

// Analytics is one day of metrics for a video, optionally per platform.
type Analytics struct {
	ID            string
	VideoID       string
	Date          string    // YYYY-MM-DD
	Platform      *Platform // nil for cross-platform totals
	Views         int64
	WatchTime     int64 // seconds
	Likes         int64
	Shares        int64
	CommentsCount int64
	CustomMetrics map[string]any

	Instagram InstagramMetrics
	TikTok    TikTokMetrics
	YouTube   YouTubeMetrics

	CreatedAt time.Time
}

// InstagramMetrics holds Instagram-specific counters. Nil means not recorded.
type InstagramMetrics struct {
	Views      *int64
	Likes      *int64
	ViewRate3s *float64 // percentage
	Comments   *int64
	Shares     *int64
	Reposts    *int64
}

// TikTokMetrics holds TikTok-specific counters.
type TikTokMetrics struct {
	Views            *int64
	Likes            *int64
	Comments         *int64
	AvgWatchTime     *float64 // seconds
	FullVideoPercent *float64
}

// YouTubeMetrics holds YouTube-specific counters.
type YouTubeMetrics struct {
	Views    *int64
	Comments *int64
}

// AnalyticsTotals sums the cross-platform counters over a set of rows.
type AnalyticsTotals struct {
	Views     int64
	WatchTime int64
	Likes     int64
	Shares    int64
	Comments  int64
}

// Totals sums views, watch time, likes, shares and comments.
func Totals(rows []*Analytics) AnalyticsTotals {
	var t AnalyticsTotals
	for _, a := range rows {
		t.Views += a.Views
		t.WatchTime += a.WatchTime
		t.Likes += a.Likes
		t.Shares += a.Shares
		t.Comments += a.CommentsCount
	}
	return t
}
