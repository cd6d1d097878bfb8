package review

import (
	"fmt"
	"strings"
	"time"
)

const videoColumns = "id, title, description, media_url, thumbnail_url, uploaded_by, status, created_at, updated_at"

type scanner interface {
	Scan(dest ...any) error
}

func scanVideo(row scanner) (*Video, error) {
	v := &Video{}
	err := row.Scan(&v.ID, &v.Title, &v.Description, &v.MediaURL, &v.ThumbnailURL, &v.UploadedBy, &v.Status, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func addVideo(q querier, v *Video) error {
	if v.Status == "" {
		v.Status = StatusIdeation
	}
	if !v.Status.Valid() {
		return fmt.Errorf("insert video: %w: %q", ErrInvalidStatus, v.Status)
	}
	if v.ID == "" {
		v.ID = newID()
	}
	now := time.Now().UTC()
	_, err := q.Exec(`
		INSERT INTO videos (`+videoColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.Title, v.Description, v.MediaURL, v.ThumbnailURL, v.UploadedBy, v.Status, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert video: %w", mapSQLiteError(err))
	}
	v.CreatedAt = now
	v.UpdatedAt = now
	return nil
}

// AddVideo inserts a new video. An empty status defaults to ideation.
// Sets ID (when empty), CreatedAt and UpdatedAt on the struct.
func (s *Store) AddVideo(v *Video) error { return addVideo(s.db, v) }

// AddVideo inserts a new video within a transaction.
func (t *Tx) AddVideo(v *Video) error { return addVideo(t.tx, v) }

func getVideo(q querier, id string) (*Video, error) {
	v, err := scanVideo(q.QueryRow("SELECT "+videoColumns+" FROM videos WHERE id = ?", id))
	if err != nil {
		return nil, fmt.Errorf("get video %s: %w", id, mapSQLiteError(err))
	}
	return v, nil
}

// GetVideo retrieves a video by ID.
// Returns ErrNotFound if the video does not exist.
func (s *Store) GetVideo(id string) (*Video, error) { return getVideo(s.db, id) }

// GetVideo retrieves a video by ID within a transaction.
func (t *Tx) GetVideo(id string) (*Video, error) { return getVideo(t.tx, id) }

func listVideos(q querier, f VideoFilter) ([]*Video, int, error) {
	var conditions []string
	var args []any

	if f.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, *f.Status)
	}
	if f.UploadedBy != nil {
		conditions = append(conditions, "uploaded_by = ?")
		args = append(args, *f.UploadedBy)
	}
	if f.Query != nil && strings.TrimSpace(*f.Query) != "" {
		conditions = append(conditions, "title LIKE ? ESCAPE '\\'")
		args = append(args, "%"+escapeLike(strings.TrimSpace(*f.Query))+"%")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := q.QueryRow("SELECT COUNT(*) FROM videos "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count videos: %w", err)
	}

	query := "SELECT " + videoColumns + " FROM videos " + whereClause + " ORDER BY created_at DESC, rowid DESC"
	switch {
	case f.Limit > 0:
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)
	case f.Offset > 0:
		query += fmt.Sprintf(" LIMIT -1 OFFSET %d", f.Offset)
	}

	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list videos: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Video
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan video: %w", err)
		}
		results = append(results, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate videos: %w", err)
	}

	return results, total, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// ListVideos returns videos matching the filter, newest first.
// Returns (results, totalCount, error).
func (s *Store) ListVideos(f VideoFilter) ([]*Video, int, error) { return listVideos(s.db, f) }

// ListVideos returns videos matching the filter within a transaction.
func (t *Tx) ListVideos(f VideoFilter) ([]*Video, int, error) { return listVideos(t.tx, f) }

func updateVideo(q querier, v *Video) error {
	// An unrecognized stored status may be kept, not introduced.
	if !v.Status.Valid() {
		var stored Status
		if err := q.QueryRow("SELECT status FROM videos WHERE id = ?", v.ID).Scan(&stored); err != nil {
			return fmt.Errorf("update video %s: %w", v.ID, mapSQLiteError(err))
		}
		if stored != v.Status {
			return fmt.Errorf("update video %s: %w: %q", v.ID, ErrInvalidStatus, v.Status)
		}
	}
	now := time.Now().UTC()
	result, err := q.Exec(`
		UPDATE videos SET title = ?, description = ?, media_url = ?, thumbnail_url = ?, status = ?, updated_at = ?
		WHERE id = ?`,
		v.Title, v.Description, v.MediaURL, v.ThumbnailURL, v.Status, now, v.ID,
	)
	if err != nil {
		return fmt.Errorf("update video %s: %w", v.ID, mapSQLiteError(err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update video %s: %w", v.ID, ErrNotFound)
	}
	v.UpdatedAt = now
	return nil
}

// UpdateVideo updates an existing video's mutable fields.
// Sets UpdatedAt on the struct.
// Returns ErrNotFound if the video does not exist.
func (s *Store) UpdateVideo(v *Video) error { return updateVideo(s.db, v) }

// UpdateVideo updates an existing video within a transaction.
func (t *Tx) UpdateVideo(v *Video) error { return updateVideo(t.tx, v) }

func updateVideoStatus(q querier, id string, status Status) (*Video, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("update video %s status: %w: %q", id, ErrInvalidStatus, status)
	}
	result, err := q.Exec(`UPDATE videos SET status = ?, updated_at = ? WHERE id = ?`, status, time.Now().UTC(), id)
	if err != nil {
		return nil, fmt.Errorf("update video %s status: %w", id, mapSQLiteError(err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("update video %s status: %w", id, ErrNotFound)
	}
	return getVideo(q, id)
}

// UpdateVideoStatus moves a video to another workflow stage and returns the
// updated record. Any stage may move to any other.
func (s *Store) UpdateVideoStatus(id string, status Status) (*Video, error) {
	return updateVideoStatus(s.db, id, status)
}

// UpdateVideoStatus moves a video to another workflow stage within a transaction.
func (t *Tx) UpdateVideoStatus(id string, status Status) (*Video, error) {
	return updateVideoStatus(t.tx, id, status)
}

func deleteVideo(q querier, id string) error {
	for _, table := range []string{"comments", "approvals", "video_analytics"} {
		if _, err := q.Exec("DELETE FROM "+table+" WHERE video_id = ?", id); err != nil {
			return fmt.Errorf("delete video %s %s: %w", id, table, mapSQLiteError(err))
		}
	}
	if _, err := q.Exec("DELETE FROM videos WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete video %s: %w", id, mapSQLiteError(err))
	}
	return nil
}

// DeleteVideo removes a video along with its comments, approvals and analytics.
// This operation is idempotent - no error is returned if the video does not exist.
func (s *Store) DeleteVideo(id string) error {
	return s.withTx(func(t *Tx) error { return deleteVideo(t.tx, id) })
}

// DeleteVideo removes a video and its dependents within a transaction.
func (t *Tx) DeleteVideo(id string) error { return deleteVideo(t.tx, id) }
