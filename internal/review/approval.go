package review

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const approvalColumns = "id, video_id, user_id, approved, approved_at, notes, created_at"

func scanApproval(row scanner) (*Approval, error) {
	a := &Approval{}
	if err := row.Scan(&a.ID, &a.VideoID, &a.UserID, &a.Approved, &a.ApprovedAt, &a.Notes, &a.CreatedAt); err != nil {
		return nil, err
	}
	return a, nil
}

// UpsertApproval records a reviewer's verdict. Each user holds at most one
// approval per video; an existing one is overwritten. ApprovedAt is set only
// when Approved is true. The returned bool is true when a new row was created.
func (s *Store) UpsertApproval(a *Approval) (bool, error) {
	var created bool
	err := s.withTx(func(t *Tx) error {
		var err error
		created, err = t.UpsertApproval(a)
		return err
	})
	return created, err
}

// UpsertApproval records a reviewer's verdict within a transaction.
func (t *Tx) UpsertApproval(a *Approval) (bool, error) {
	if _, err := getVideo(t.tx, a.VideoID); err != nil {
		return false, err
	}

	now := time.Now().UTC()
	a.ApprovedAt = nil
	if a.Approved {
		a.ApprovedAt = &now
	}

	existing, err := scanApproval(t.tx.QueryRow(
		"SELECT "+approvalColumns+" FROM approvals WHERE video_id = ? AND user_id = ?", a.VideoID, a.UserID))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		a.ID = newID()
		a.CreatedAt = now
		_, err := t.tx.Exec(`
			INSERT INTO approvals (`+approvalColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			a.ID, a.VideoID, a.UserID, a.Approved, a.ApprovedAt, a.Notes, a.CreatedAt,
		)
		if err != nil {
			return false, fmt.Errorf("insert approval: %w", mapSQLiteError(err))
		}
		return true, nil
	case err != nil:
		return false, fmt.Errorf("get approval: %w", mapSQLiteError(err))
	}

	a.ID = existing.ID
	a.CreatedAt = existing.CreatedAt
	_, err = t.tx.Exec(`UPDATE approvals SET approved = ?, approved_at = ?, notes = ? WHERE id = ?`,
		a.Approved, a.ApprovedAt, a.Notes, a.ID)
	if err != nil {
		return false, fmt.Errorf("update approval %s: %w", a.ID, mapSQLiteError(err))
	}
	return false, nil
}

// ListApprovals returns all verdicts recorded for a video.
func (s *Store) ListApprovals(videoID string) ([]*Approval, error) {
	rows, err := s.db.Query("SELECT "+approvalColumns+" FROM approvals WHERE video_id = ? ORDER BY created_at ASC", videoID)
	if err != nil {
		return nil, fmt.Errorf("list approvals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Approval
	for rows.Next() {
		a, err := scanApproval(rows)
		if err != nil {
			return nil, fmt.Errorf("scan approval: %w", err)
		}
		results = append(results, a)
	}
	return results, rows.Err()
}
