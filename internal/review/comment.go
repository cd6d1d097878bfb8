package review

import (
	"fmt"
	"time"
)

func addComment(q querier, c *Comment) error {
	if c.Type == "" {
		c.Type = CommentNote
	}
	if c.ID == "" {
		c.ID = newID()
	}
	now := time.Now().UTC()
	_, err := q.Exec(`
		INSERT INTO comments (id, video_id, user_id, timestamp, content, comment_type, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.VideoID, c.UserID, c.Timestamp, c.Content, c.Type, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert comment: %w", mapSQLiteError(err))
	}
	c.CreatedAt = now
	c.UpdatedAt = now
	return nil
}

// AddComment inserts a comment on an existing video.
// Returns ErrNotFound if the video does not exist.
func (s *Store) AddComment(c *Comment) error {
	return s.withTx(func(t *Tx) error { return t.AddComment(c) })
}

// AddComment inserts a comment within a transaction.
func (t *Tx) AddComment(c *Comment) error {
	if _, err := getVideo(t.tx, c.VideoID); err != nil {
		return err
	}
	return addComment(t.tx, c)
}

func getComment(q querier, id string) (*Comment, error) {
	c := &Comment{}
	err := q.QueryRow(`
		SELECT id, video_id, user_id, timestamp, content, comment_type, created_at, updated_at
		FROM comments WHERE id = ?`, id,
	).Scan(&c.ID, &c.VideoID, &c.UserID, &c.Timestamp, &c.Content, &c.Type, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get comment %s: %w", id, mapSQLiteError(err))
	}
	return c, nil
}

// GetComment retrieves a comment by ID.
func (s *Store) GetComment(id string) (*Comment, error) { return getComment(s.db, id) }

func listComments(q querier, videoID string) ([]*Comment, error) {
	rows, err := q.Query(`
		SELECT id, video_id, user_id, timestamp, content, comment_type, created_at, updated_at
		FROM comments WHERE video_id = ?
		ORDER BY timestamp ASC, created_at ASC`, videoID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Comment
	for rows.Next() {
		c := &Comment{}
		if err := rows.Scan(&c.ID, &c.VideoID, &c.UserID, &c.Timestamp, &c.Content, &c.Type, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		results = append(results, c)
	}
	return results, rows.Err()
}

// ListComments returns a video's comments in playback order.
func (s *Store) ListComments(videoID string) ([]*Comment, error) { return listComments(s.db, videoID) }

// DeleteComment removes a comment by ID. Idempotent.
func (s *Store) DeleteComment(id string) error {
	if _, err := s.db.Exec("DELETE FROM comments WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete comment %s: %w", id, mapSQLiteError(err))
	}
	return nil
}
