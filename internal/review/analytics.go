package review

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const analyticsColumns = `id, video_id, date, platform, views, watch_time, likes, shares, comments_count, custom_metrics,
	instagram_views, instagram_likes, instagram_view_rate_3s, instagram_comments, instagram_shares, instagram_reposts,
	tiktok_views, tiktok_likes, tiktok_comments, tiktok_avg_watch_time, tiktok_full_video_percentage,
	youtube_views, youtube_comments, created_at`

func scanAnalytics(row scanner) (*Analytics, error) {
	a := &Analytics{}
	var custom string
	err := row.Scan(&a.ID, &a.VideoID, &a.Date, &a.Platform, &a.Views, &a.WatchTime, &a.Likes, &a.Shares, &a.CommentsCount, &custom,
		&a.Instagram.Views, &a.Instagram.Likes, &a.Instagram.ViewRate3s, &a.Instagram.Comments, &a.Instagram.Shares, &a.Instagram.Reposts,
		&a.TikTok.Views, &a.TikTok.Likes, &a.TikTok.Comments, &a.TikTok.AvgWatchTime, &a.TikTok.FullVideoPercent,
		&a.YouTube.Views, &a.YouTube.Comments, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	if custom != "" {
		if err := json.Unmarshal([]byte(custom), &a.CustomMetrics); err != nil {
			return nil, fmt.Errorf("decode custom metrics: %w", err)
		}
	}
	return a, nil
}

func analyticsArgs(a *Analytics, custom string) []any {
	return []any{
		a.VideoID, a.Date, a.Platform, a.Views, a.WatchTime, a.Likes, a.Shares, a.CommentsCount, custom,
		a.Instagram.Views, a.Instagram.Likes, a.Instagram.ViewRate3s, a.Instagram.Comments, a.Instagram.Shares, a.Instagram.Reposts,
		a.TikTok.Views, a.TikTok.Likes, a.TikTok.Comments, a.TikTok.AvgWatchTime, a.TikTok.FullVideoPercent,
		a.YouTube.Views, a.YouTube.Comments,
	}
}

// UpsertAnalytics records metrics for a video on a date. Rows are keyed by
// (video, date, platform) with a nil platform as its own key; an existing row
// is overwritten. The returned bool is true when a new row was created.
func (s *Store) UpsertAnalytics(a *Analytics) (bool, error) {
	var created bool
	err := s.withTx(func(t *Tx) error {
		var err error
		created, err = t.UpsertAnalytics(a)
		return err
	})
	return created, err
}

// UpsertAnalytics records metrics within a transaction.
func (t *Tx) UpsertAnalytics(a *Analytics) (bool, error) {
	if _, err := time.Parse(time.DateOnly, a.Date); err != nil {
		return false, fmt.Errorf("analytics date %q: %w", a.Date, ErrConstraint)
	}
	if _, err := getVideo(t.tx, a.VideoID); err != nil {
		return false, err
	}
	if a.CustomMetrics == nil {
		a.CustomMetrics = map[string]any{}
	}
	custom, err := json.Marshal(a.CustomMetrics)
	if err != nil {
		return false, fmt.Errorf("encode custom metrics: %w", err)
	}

	var existingID string
	var existingCreated time.Time
	err = t.tx.QueryRow(`
		SELECT id, created_at FROM video_analytics
		WHERE video_id = ? AND date = ? AND COALESCE(platform, '') = COALESCE(?, '')`,
		a.VideoID, a.Date, a.Platform,
	).Scan(&existingID, &existingCreated)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("find analytics: %w", mapSQLiteError(err))
	}

	if existingID == "" {
		a.ID = newID()
		a.CreatedAt = time.Now().UTC()
		args := append([]any{a.ID}, analyticsArgs(a, string(custom))...)
		args = append(args, a.CreatedAt)
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(args)), ", ")
		if _, err := t.tx.Exec("INSERT INTO video_analytics ("+analyticsColumns+") VALUES ("+placeholders+")", args...); err != nil {
			return false, fmt.Errorf("insert analytics: %w", mapSQLiteError(err))
		}
		return true, nil
	}

	a.ID = existingID
	a.CreatedAt = existingCreated
	args := append(analyticsArgs(a, string(custom)), a.ID)
	_, err = t.tx.Exec(`
		UPDATE video_analytics SET video_id = ?, date = ?, platform = ?, views = ?, watch_time = ?, likes = ?, shares = ?,
			comments_count = ?, custom_metrics = ?,
			instagram_views = ?, instagram_likes = ?, instagram_view_rate_3s = ?, instagram_comments = ?, instagram_shares = ?, instagram_reposts = ?,
			tiktok_views = ?, tiktok_likes = ?, tiktok_comments = ?, tiktok_avg_watch_time = ?, tiktok_full_video_percentage = ?,
			youtube_views = ?, youtube_comments = ?
		WHERE id = ?`, args...)
	if err != nil {
		return false, fmt.Errorf("update analytics %s: %w", a.ID, mapSQLiteError(err))
	}
	return false, nil
}

// ListAnalytics returns analytics rows matching the filter ordered by date.
func (s *Store) ListAnalytics(f AnalyticsFilter) ([]*Analytics, error) {
	var conditions []string
	var args []any

	if f.VideoID != nil {
		conditions = append(conditions, "video_id = ?")
		args = append(args, *f.VideoID)
	}
	if f.From != nil {
		conditions = append(conditions, "date >= ?")
		args = append(args, *f.From)
	}
	if f.To != nil {
		conditions = append(conditions, "date <= ?")
		args = append(args, *f.To)
	}

	query := "SELECT " + analyticsColumns + " FROM video_analytics"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	if f.Newest {
		query += " ORDER BY date DESC, created_at DESC"
	} else {
		query += " ORDER BY date ASC, created_at ASC"
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list analytics: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Analytics
	for rows.Next() {
		a, err := scanAnalytics(rows)
		if err != nil {
			return nil, fmt.Errorf("scan analytics: %w", err)
		}
		results = append(results, a)
	}
	return results, rows.Err()
}
