package v1

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/bggdog/sanctum-video-review/internal/media"
	"github.com/bggdog/sanctum-video-review/internal/review"
)

// VideoResponse is the API representation of a video.
type VideoResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  *string   `json:"description"`
	MediaURL     string    `json:"media_url"`
	ThumbnailURL *string   `json:"thumbnail_url"`
	UploadedBy   string    `json:"uploaded_by"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ListVideosResponse is the response for GET /videos.
type ListVideosResponse struct {
	Items  []VideoResponse `json:"items"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

// BoardColumn is one status column of the board.
type BoardColumn struct {
	Status string          `json:"status"`
	Title  string          `json:"title"`
	Count  int             `json:"count"`
	Videos []VideoResponse `json:"videos"`
}

// BoardResponse is the response for GET /board, columns in workflow order.
type BoardResponse struct {
	Columns []BoardColumn `json:"columns"`
	Total   int           `json:"total"`
}

// MoveResponse is the response for POST /board/moves.
type MoveResponse struct {
	VideoID string `json:"video_id"`
	From    string `json:"from"`
	To      string `json:"to"`
	Phase   string `json:"phase"`
	Applied bool   `json:"applied"`
}

// PlaybackResponse is the response for GET /videos/{id}/playback.
type PlaybackResponse struct {
	Kind   string `json:"kind"`
	Source string `json:"source"`
	URL    string `json:"url"`
}

// CommentResponse is the API representation of a comment.
type CommentResponse struct {
	ID          string    `json:"id"`
	VideoID     string    `json:"video_id"`
	UserID      string    `json:"user_id,omitempty"`
	Timestamp   float64   `json:"timestamp"`
	Content     string    `json:"content"`
	CommentType string    `json:"comment_type"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ApprovalResponse is the API representation of an approval.
type ApprovalResponse struct {
	ID         string     `json:"id"`
	VideoID    string     `json:"video_id"`
	UserID     string     `json:"user_id"`
	Approved   bool       `json:"approved"`
	ApprovedAt *time.Time `json:"approved_at"`
	Notes      *string    `json:"notes"`
	CreatedAt  time.Time  `json:"created_at"`
}

// AnalyticsResponse is the API representation of one analytics row.
type AnalyticsResponse struct {
	ID            string         `json:"id"`
	VideoID       string         `json:"video_id"`
	Date          string         `json:"date"`
	Platform      *string        `json:"platform"`
	Views         int64          `json:"views"`
	WatchTime     int64          `json:"watch_time"`
	Likes         int64          `json:"likes"`
	Shares        int64          `json:"shares"`
	CommentsCount int64          `json:"comments_count"`
	CustomMetrics map[string]any `json:"custom_metrics"`
	platformMetrics
	CreatedAt time.Time `json:"created_at"`
}

// platformMetrics are the optional per-platform columns shared by requests
// and responses.
type platformMetrics struct {
	InstagramViews      *int64   `json:"instagram_views,omitempty"`
	InstagramLikes      *int64   `json:"instagram_likes,omitempty"`
	InstagramViewRate3s *float64 `json:"instagram_view_rate_3s,omitempty"`
	InstagramComments   *int64   `json:"instagram_comments,omitempty"`
	InstagramShares     *int64   `json:"instagram_shares,omitempty"`
	InstagramReposts    *int64   `json:"instagram_reposts,omitempty"`
	TikTokViews         *int64   `json:"tiktok_views,omitempty"`
	TikTokLikes         *int64   `json:"tiktok_likes,omitempty"`
	TikTokComments      *int64   `json:"tiktok_comments,omitempty"`
	TikTokAvgWatchTime  *float64 `json:"tiktok_avg_watch_time,omitempty"`
	TikTokFullVideoPct  *float64 `json:"tiktok_full_video_percentage,omitempty"`
	YouTubeViews        *int64   `json:"youtube_views,omitempty"`
	YouTubeComments     *int64   `json:"youtube_comments,omitempty"`
}

// AnalyticsTotalsResponse sums the cross-platform counters.
type AnalyticsTotalsResponse struct {
	TotalViews     int64 `json:"total_views"`
	TotalWatchTime int64 `json:"total_watch_time"`
	TotalLikes     int64 `json:"total_likes"`
	TotalShares    int64 `json:"total_shares"`
	TotalComments  int64 `json:"total_comments"`
}

// ListAnalyticsResponse is the response for GET /analytics.
type ListAnalyticsResponse struct {
	Items  []AnalyticsResponse     `json:"items"`
	Totals AnalyticsTotalsResponse `json:"totals"`
}

// EventResponse is the API representation of a logged event.
type EventResponse struct {
	ID         int64  `json:"id"`
	EventType  string `json:"event_type"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	Payload    string `json:"payload"`
	OccurredAt string `json:"occurred_at"`
}

type listEventsResponse struct {
	Items  []EventResponse `json:"items"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

// Requests

type addVideoRequest struct {
	Title        string  `json:"title"`
	Description  *string `json:"description"`
	MediaURL     string  `json:"media_url"`
	Status       *string `json:"status"`
	ThumbnailURL *string `json:"thumbnail_url"`
}

func (r addVideoRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 500)),
		validation.Field(&r.MediaURL, validation.Required, validation.By(mediaReference)),
		validation.Field(&r.Status, validation.NilOrNotEmpty, validation.In(statusValues()...)),
		validation.Field(&r.ThumbnailURL, validation.By(mediaReference)),
	)
}

type updateVideoRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	MediaURL     *string `json:"media_url"`
	Status       *string `json:"status"`
	ThumbnailURL *string `json:"thumbnail_url"`
}

func (r updateVideoRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty, validation.Length(1, 500)),
		validation.Field(&r.MediaURL, validation.NilOrNotEmpty, validation.By(mediaReference)),
		validation.Field(&r.Status, validation.NilOrNotEmpty, validation.In(statusValues()...)),
		validation.Field(&r.ThumbnailURL, validation.By(mediaReference)),
	)
}

func (r updateVideoRequest) empty() bool {
	return r.Title == nil && r.Description == nil && r.MediaURL == nil && r.Status == nil && r.ThumbnailURL == nil
}

type moveRequest struct {
	VideoID string `json:"video_id"`
	Status  string `json:"status"`
}

func (r moveRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.VideoID, validation.Required, validation.By(uuidString)),
		validation.Field(&r.Status, validation.Required, validation.In(statusValues()...)),
	)
}

type addCommentRequest struct {
	Timestamp   *float64 `json:"timestamp"`
	Content     string   `json:"content"`
	CommentType string   `json:"comment_type"`
}

func (r addCommentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Timestamp, validation.NotNil, validation.Min(0.0)),
		validation.Field(&r.Content, validation.Required),
		validation.Field(&r.CommentType, validation.In(
			string(review.CommentNote), string(review.CommentCritique), string(review.CommentApproval))),
	)
}

type approvalRequest struct {
	Approved *bool   `json:"approved"`
	Notes    *string `json:"notes"`
}

func (r approvalRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Approved, validation.NotNil),
	)
}

type analyticsRequest struct {
	VideoID       string         `json:"video_id"`
	Date          string         `json:"date"`
	Platform      *string        `json:"platform"`
	Views         int64          `json:"views"`
	WatchTime     int64          `json:"watch_time"`
	Likes         int64          `json:"likes"`
	Shares        int64          `json:"shares"`
	CommentsCount int64          `json:"comments_count"`
	CustomMetrics map[string]any `json:"custom_metrics"`
	platformMetrics
}

func (r analyticsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.VideoID, validation.Required, validation.By(uuidString)),
		validation.Field(&r.Date, validation.Required, validation.Date(time.DateOnly)),
		validation.Field(&r.Platform, validation.NilOrNotEmpty, validation.In(
			string(review.PlatformInstagram), string(review.PlatformTikTok), string(review.PlatformYouTube))),
		validation.Field(&r.Views, validation.Min(int64(0))),
		validation.Field(&r.WatchTime, validation.Min(int64(0))),
		validation.Field(&r.Likes, validation.Min(int64(0))),
		validation.Field(&r.Shares, validation.Min(int64(0))),
		validation.Field(&r.CommentsCount, validation.Min(int64(0))),
	)
}

func statusValues() []any {
	vals := make([]any, len(review.Statuses))
	for i, s := range review.Statuses {
		vals[i] = string(s)
	}
	return vals
}

func mediaReference(value any) error {
	var ref string
	switch v := value.(type) {
	case string:
		ref = v
	case *string:
		if v == nil {
			return nil
		}
		ref = *v
	}
	if ref == "" || media.ValidReference(ref) {
		return nil
	}
	return validation.NewError("validation_media_reference", "must be a gs:// object or an http(s) URL")
}

func uuidString(value any) error {
	s, _ := value.(string)
	if s == "" || validUUID(s) {
		return nil
	}
	return validation.NewError("validation_uuid", "must be a valid id")
}

// Conversions

func videoToResponse(v *review.Video) VideoResponse {
	return VideoResponse{
		ID:           v.ID,
		Title:        v.Title,
		Description:  v.Description,
		MediaURL:     v.MediaURL,
		ThumbnailURL: v.ThumbnailURL,
		UploadedBy:   v.UploadedBy,
		Status:       string(v.Status),
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

func commentToResponse(c *review.Comment) CommentResponse {
	return CommentResponse{
		ID:          c.ID,
		VideoID:     c.VideoID,
		UserID:      c.UserID,
		Timestamp:   c.Timestamp,
		Content:     c.Content,
		CommentType: string(c.Type),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func approvalToResponse(a *review.Approval) ApprovalResponse {
	return ApprovalResponse{
		ID:         a.ID,
		VideoID:    a.VideoID,
		UserID:     a.UserID,
		Approved:   a.Approved,
		ApprovedAt: a.ApprovedAt,
		Notes:      a.Notes,
		CreatedAt:  a.CreatedAt,
	}
}

func analyticsToResponse(a *review.Analytics) AnalyticsResponse {
	resp := AnalyticsResponse{
		ID:            a.ID,
		VideoID:       a.VideoID,
		Date:          a.Date,
		Views:         a.Views,
		WatchTime:     a.WatchTime,
		Likes:         a.Likes,
		Shares:        a.Shares,
		CommentsCount: a.CommentsCount,
		CustomMetrics: a.CustomMetrics,
		platformMetrics: platformMetrics{
			InstagramViews:      a.Instagram.Views,
			InstagramLikes:      a.Instagram.Likes,
			InstagramViewRate3s: a.Instagram.ViewRate3s,
			InstagramComments:   a.Instagram.Comments,
			InstagramShares:     a.Instagram.Shares,
			InstagramReposts:    a.Instagram.Reposts,
			TikTokViews:         a.TikTok.Views,
			TikTokLikes:         a.TikTok.Likes,
			TikTokComments:      a.TikTok.Comments,
			TikTokAvgWatchTime:  a.TikTok.AvgWatchTime,
			TikTokFullVideoPct:  a.TikTok.FullVideoPercent,
			YouTubeViews:        a.YouTube.Views,
			YouTubeComments:     a.YouTube.Comments,
		},
		CreatedAt: a.CreatedAt,
	}
	if a.Platform != nil {
		p := string(*a.Platform)
		resp.Platform = &p
	}
	return resp
}

func (r analyticsRequest) toAnalytics() *review.Analytics {
	a := &review.Analytics{
		VideoID:       r.VideoID,
		Date:          r.Date,
		Views:         r.Views,
		WatchTime:     r.WatchTime,
		Likes:         r.Likes,
		Shares:        r.Shares,
		CommentsCount: r.CommentsCount,
		CustomMetrics: r.CustomMetrics,
		Instagram: review.InstagramMetrics{
			Views:      r.InstagramViews,
			Likes:      r.InstagramLikes,
			ViewRate3s: r.InstagramViewRate3s,
			Comments:   r.InstagramComments,
			Shares:     r.InstagramShares,
			Reposts:    r.InstagramReposts,
		},
		TikTok: review.TikTokMetrics{
			Views:            r.TikTokViews,
			Likes:            r.TikTokLikes,
			Comments:         r.TikTokComments,
			AvgWatchTime:     r.TikTokAvgWatchTime,
			FullVideoPercent: r.TikTokFullVideoPct,
		},
		YouTube: review.YouTubeMetrics{
			Views:    r.YouTubeViews,
			Comments: r.YouTubeComments,
		},
	}
	if r.Platform != nil && *r.Platform != "" {
		p := review.Platform(*r.Platform)
		a.Platform = &p
	}
	return a
}
