package review

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/bggdog/sanctum-video-review/internal/migrations"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// each :memory: connection is a separate database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return db
}

// ptr is a helper to create pointer to value
func ptr[T any](v T) *T {
	return &v
}

func addTestVideo(t *testing.T, store *Store, title string, status Status) *Video {
	t.Helper()
	v := &Video{Title: title, MediaURL: "https://drive.google.com/file/d/" + title + "/view", Status: status, UploadedBy: "u1"}
	if err := store.AddVideo(v); err != nil {
		t.Fatalf("AddVideo: %v", err)
	}
	return v
}
