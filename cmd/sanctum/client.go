package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	v1 "github.com/bggdog/sanctum-video-review/internal/api/v1"
	"github.com/bggdog/sanctum-video-review/internal/review"
)

// Client wraps HTTP calls to the sanctum server.
type Client struct {
	baseURL    string
	user       string
	httpClient *http.Client
}

// NewClient creates a client for serverURL. user is sent as the caller's
// identity and may be empty.
func NewClient(serverURL, user string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(serverURL, "/"),
		user:    user,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("server error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("server error %d: %s", e.StatusCode, e.Message)
}

// Is maps a 404 onto review.ErrNotFound.
func (e *APIError) Is(target error) bool {
	return target == review.ErrNotFound && e.StatusCode == http.StatusNotFound
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal error: %w", err)
		}
		r = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return fmt.Errorf("request creation failed: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.user != "" {
		req.Header.Set(v1.UserHeader, c.user)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readAPIError(resp)
	}
	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func readAPIError(resp *http.Response) error {
	data, _ := io.ReadAll(resp.Body)
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(data))}
	var body struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if json.Unmarshal(data, &body) == nil && body.Error != "" {
		apiErr.Code = body.Code
		apiErr.Message = body.Error
	}
	return apiErr
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	return c.do(ctx, http.MethodGet, path, nil, result)
}

// System

func (c *Client) Status(ctx context.Context) (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.get(ctx, "/api/v1/status", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// StatusResponse mirrors GET /api/v1/status.
type StatusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
	Videos  int    `json:"videos"`
	Events  bool   `json:"events"`
}

// Videos

// VideoQuery filters Videos.
type VideoQuery struct {
	Status     string
	UploadedBy string
	Query      string
	Limit      int
	Offset     int
}

func (q VideoQuery) values() url.Values {
	v := url.Values{}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if q.UploadedBy != "" {
		v.Set("uploaded_by", q.UploadedBy)
	}
	if q.Query != "" {
		v.Set("q", q.Query)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	return v
}

func (c *Client) Videos(ctx context.Context, q VideoQuery) (*v1.ListVideosResponse, error) {
	path := "/api/v1/videos"
	if enc := q.values().Encode(); enc != "" {
		path += "?" + enc
	}
	var resp v1.ListVideosResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// pageSize is the largest page the server hands out.
const pageSize = 1000

// AllVideos pages through every video, newest first.
func (c *Client) AllVideos(ctx context.Context) ([]v1.VideoResponse, error) {
	var all []v1.VideoResponse
	for {
		page, err := c.Videos(ctx, VideoQuery{Limit: pageSize, Offset: len(all)})
		if err != nil {
			return nil, err
		}
		all = append(all, page.Items...)
		if len(page.Items) == 0 || len(all) >= page.Total {
			return all, nil
		}
	}
}

func (c *Client) Video(ctx context.Context, id string) (*v1.VideoResponse, error) {
	var resp v1.VideoResponse
	if err := c.get(ctx, "/api/v1/videos/"+url.PathEscape(id), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// NewVideo is the body of POST /api/v1/videos.
type NewVideo struct {
	Title        string  `json:"title"`
	Description  *string `json:"description,omitempty"`
	MediaURL     string  `json:"media_url"`
	Status       *string `json:"status,omitempty"`
	ThumbnailURL *string `json:"thumbnail_url,omitempty"`
}

func (c *Client) AddVideo(ctx context.Context, v NewVideo) (*v1.VideoResponse, error) {
	var resp v1.VideoResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/videos", v, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateVideoStatus(ctx context.Context, id string, status review.Status) (*v1.VideoResponse, error) {
	var resp v1.VideoResponse
	body := map[string]string{"status": string(status)}
	if err := c.do(ctx, http.MethodPatch, "/api/v1/videos/"+url.PathEscape(id), body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteVideo(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/videos/"+url.PathEscape(id), nil, nil)
}

func (c *Client) Playback(ctx context.Context, id string) (*v1.PlaybackResponse, error) {
	var resp v1.PlaybackResponse
	if err := c.get(ctx, "/api/v1/videos/"+url.PathEscape(id)+"/playback", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Board

func (c *Client) Board(ctx context.Context) (*v1.BoardResponse, error) {
	var resp v1.BoardResponse
	if err := c.get(ctx, "/api/v1/board", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// MoveLive asks the server's live board to move a video.
func (c *Client) MoveLive(ctx context.Context, id string, status review.Status) (*v1.MoveResponse, error) {
	var resp v1.MoveResponse
	body := map[string]string{"video_id": id, "status": string(status)}
	if err := c.do(ctx, http.MethodPost, "/api/v1/board/moves", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Comments

// ListResponse is the {items,total} envelope used by nested collections.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

func (c *Client) Comments(ctx context.Context, videoID string) (*ListResponse[v1.CommentResponse], error) {
	var resp ListResponse[v1.CommentResponse]
	if err := c.get(ctx, "/api/v1/videos/"+url.PathEscape(videoID)+"/comments", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) AddComment(ctx context.Context, videoID string, at float64, content, kind string) (*v1.CommentResponse, error) {
	body := map[string]any{"timestamp": at, "content": content}
	if kind != "" {
		body["comment_type"] = kind
	}
	var resp v1.CommentResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/videos/"+url.PathEscape(videoID)+"/comments", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteComment(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/comments/"+url.PathEscape(id), nil, nil)
}

// Approvals

func (c *Client) Approvals(ctx context.Context, videoID string) (*ListResponse[v1.ApprovalResponse], error) {
	var resp ListResponse[v1.ApprovalResponse]
	if err := c.get(ctx, "/api/v1/videos/"+url.PathEscape(videoID)+"/approvals", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) RecordApproval(ctx context.Context, videoID string, approved bool, notes string) (*v1.ApprovalResponse, error) {
	body := map[string]any{"approved": approved}
	if notes != "" {
		body["notes"] = notes
	}
	var resp v1.ApprovalResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/videos/"+url.PathEscape(videoID)+"/approvals", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Analytics

func (c *Client) VideoAnalytics(ctx context.Context, videoID string) (*ListResponse[v1.AnalyticsResponse], error) {
	var resp ListResponse[v1.AnalyticsResponse]
	if err := c.get(ctx, "/api/v1/videos/"+url.PathEscape(videoID)+"/analytics", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Analytics(ctx context.Context, from, to string) (*v1.ListAnalyticsResponse, error) {
	q := url.Values{"start_date": {from}, "end_date": {to}}
	var resp v1.ListAnalyticsResponse
	if err := c.get(ctx, "/api/v1/analytics?"+q.Encode(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AnalyticsRecord is the body of POST /api/v1/analytics.
type AnalyticsRecord struct {
	VideoID       string  `json:"video_id"`
	Date          string  `json:"date"`
	Platform      *string `json:"platform,omitempty"`
	Views         int64   `json:"views"`
	WatchTime     int64   `json:"watch_time"`
	Likes         int64   `json:"likes"`
	Shares        int64   `json:"shares"`
	CommentsCount int64   `json:"comments_count"`
}

func (c *Client) RecordAnalytics(ctx context.Context, rec AnalyticsRecord) (*v1.AnalyticsResponse, error) {
	var resp v1.AnalyticsResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/analytics", rec, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Events

// EventList mirrors GET /api/v1/events.
type EventList struct {
	Items  []v1.EventResponse `json:"items"`
	Total  int                `json:"total"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}

func (c *Client) Events(ctx context.Context, limit int, eventType string) (*EventList, error) {
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	if eventType != "" {
		q.Set("type", eventType)
	}
	var resp EventList
	if err := c.get(ctx, "/api/v1/events?"+q.Encode(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// StreamEvent is one server-sent event.
type StreamEvent struct {
	Type string
	Data string
}

// StreamEvents follows the server's event stream, calling fn for each event
// until ctx is cancelled, the server closes the stream or fn returns an error.
func (c *Client) StreamEvents(ctx context.Context, eventType string, fn func(StreamEvent) error) error {
	path := "/api/v1/events/stream"
	if eventType != "" {
		path += "?" + url.Values{"type": {eventType}}.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("request creation failed: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	// Streams are long-lived; only the context ends them.
	stream := &http.Client{Transport: c.httpClient.Transport}
	resp, err := stream.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return readAPIError(resp)
	}

	var cur StreamEvent
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if cur.Type != "" || cur.Data != "" {
				if err := fn(cur); err != nil {
					return err
				}
			}
			cur = StreamEvent{}
		case strings.HasPrefix(line, ":"):
			// heartbeat
		case strings.HasPrefix(line, "event: "):
			cur.Type = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			cur.Data = strings.TrimPrefix(line, "data: ")
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, context.Canceled) && ctx.Err() == nil {
		return fmt.Errorf("read stream: %w", err)
	}
	return nil
}
