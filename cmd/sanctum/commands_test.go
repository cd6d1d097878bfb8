package main

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/bggdog/sanctum-video-review/internal/api/v1"
	"github.com/bggdog/sanctum-video-review/internal/config"
	"github.com/bggdog/sanctum-video-review/internal/review"
)

func TestVideosCommands(t *testing.T) {
	srv := newLiveServer(t)

	out, err := runCmd(t, srv.URL, "videos", "add", "Launch Teaser", "https://drive.google.com/file/d/abc123/view", "-s", "priming")
	require.NoError(t, err)
	assert.Contains(t, out, `Added "Launch Teaser"`)
	assert.Contains(t, out, "to Priming")

	out, err = runCmd(t, srv.URL, "videos", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Launch Teaser")
	assert.Contains(t, out, "alice")

	out, err = runCmd(t, srv.URL, "videos", "list", "--status", "posted")
	require.NoError(t, err)
	assert.Contains(t, out, "No videos found.")

	out, err = runCmd(t, srv.URL, "videos", "show", "launch teaser")
	require.NoError(t, err)
	assert.Contains(t, out, "Playback:  drive https://drive.google.com/file/d/abc123/preview")

	out, err = runCmd(t, srv.URL, "videos", "rm", "Launch Teaser")
	require.NoError(t, err)
	assert.Contains(t, out, `Deleted "Launch Teaser"`)

	_, total, err := srv.store.ListVideos(review.VideoFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestVideosAdd_InvalidMedia(t *testing.T) {
	srv := newLiveServer(t)
	_, err := runCmd(t, srv.URL, "videos", "add", "Teaser", "ftp://example.com/a.mp4")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VALIDATION")
}

func TestBoardCommand(t *testing.T) {
	srv := newLiveServer(t)
	srv.addVideo(t, "Launch Teaser", review.StatusScheduled)

	out, err := runCmd(t, srv.URL, "board")
	require.NoError(t, err)
	assert.Contains(t, out, "Scheduled (1)")
	assert.Contains(t, out, "Launch Teaser")

	out, err = runCmd(t, srv.URL, "--json", "board")
	require.NoError(t, err)
	var resp v1.BoardResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Columns, len(review.Statuses))
}

func TestMoveCommand(t *testing.T) {
	srv := newLiveServer(t)
	v := srv.addVideo(t, "Launch Teaser", review.StatusIdeation)

	out, err := runCmd(t, srv.URL, "move", "launch teaser", "ready for review")
	require.NoError(t, err)
	assert.Contains(t, out, "Launch Teaser: Ideation → Ready for Review")

	got, err := srv.store.GetVideo(v.ID)
	require.NoError(t, err)
	assert.Equal(t, review.StatusReadyForReview, got.Status)

	out, err = runCmd(t, srv.URL, "move", v.ID, "ready_for_review")
	require.NoError(t, err)
	assert.Contains(t, out, "already in Ready for Review")
}

func TestMoveCommand_RolledBack(t *testing.T) {
	video := v1.VideoResponse{
		ID:     "0f8e2c1a-4b7d-4e59-8a36-2d1c5b9e7f40",
		Title:  "Launch Teaser",
		Status: string(review.StatusIdeation),
	}
	srv := newMockServer(t).
		Handler(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				respondJSON(t, w, v1.ListVideosResponse{Items: []v1.VideoResponse{video}, Total: 1})
			case http.MethodPatch:
				respondError(w, http.StatusInternalServerError, "DB_ERROR", "disk full")
			}
		}).
		Build()

	_, err := runCmd(t, srv.URL, "move", "Launch Teaser", "posted")
	require.Error(t, err)
	assert.ErrorIs(t, err, errMoveRolledBack)
	assert.Contains(t, err.Error(), "disk full")
}

func TestMoveCommand_Errors(t *testing.T) {
	srv := newLiveServer(t)
	srv.addVideo(t, "Launch Teaser", review.StatusIdeation)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown status", []string{"move", "Launch Teaser", "archived"}, "unknown status"},
		{"unknown video", []string{"move", "xyzzy", "posted"}, "no video matches"},
		{"bad policy", []string{"move", "--rollback", "never", "Launch Teaser", "posted"}, "invalid rollback policy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCmd(t, srv.URL, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestMoveCommand_Live(t *testing.T) {
	srv := newLiveServer(t)
	v := srv.addVideo(t, "Launch Teaser", review.StatusIdeation)
	require.Eventually(t, func() bool {
		_, ok := srv.board.State().Find(v.ID)
		return ok
	}, time.Second, 10*time.Millisecond)

	out, err := runCmd(t, srv.URL, "move", "--live", "Launch Teaser", "scheduled")
	require.NoError(t, err)
	assert.Contains(t, out, "Ideation → Scheduled (pending on server)")

	require.Eventually(t, func() bool {
		got, err := srv.store.GetVideo(v.ID)
		return err == nil && got.Status == review.StatusScheduled
	}, time.Second, 10*time.Millisecond)
	srv.board.Wait()

	out, err = runCmd(t, srv.URL, "move", "--live", v.ID, "scheduled")
	require.NoError(t, err)
	assert.Contains(t, out, "already in Scheduled")
}

func TestCommentsCommands(t *testing.T) {
	srv := newLiveServer(t)
	v := srv.addVideo(t, "Launch Teaser", review.StatusReadyForReview)

	out, err := runCmd(t, srv.URL, "comments", "add", "Launch Teaser", "1:23", "Logo too small", "-t", "critique")
	require.NoError(t, err)
	assert.Contains(t, out, "Added critique at 1:23")

	_, err = runCmd(t, srv.URL, "comments", "add", "Launch Teaser", "0:05", "Nice hook")
	require.NoError(t, err)

	out, err = runCmd(t, srv.URL, "comments", "list", v.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "[0:05] note")
	assert.Contains(t, out, "alice: Logo too small")
	assert.Less(t, strings.Index(out, "Nice hook"), strings.Index(out, "Logo too small"))

	comments, err := srv.store.ListComments(v.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)

	out, err = runCmd(t, srv.URL, "comments", "rm", comments[0].ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Comment deleted")

	_, err = runCmd(t, srv.URL, "comments", "add", "Launch Teaser", "soon", "x")
	assert.ErrorContains(t, err, "invalid timestamp")
}

func TestApprovalCommands(t *testing.T) {
	srv := newLiveServer(t)
	srv.addVideo(t, "Launch Teaser", review.StatusReadyForReview)

	out, err := runCmd(t, srv.URL, "reject", "Launch Teaser", "-m", "Needs captions")
	require.NoError(t, err)
	assert.Contains(t, out, `alice rejected "Launch Teaser"`)

	out, err = runCmd(t, srv.URL, "approve", "Launch Teaser")
	require.NoError(t, err)
	assert.Contains(t, out, `alice approved "Launch Teaser"`)

	out, err = runCmd(t, srv.URL, "approvals", "Launch Teaser")
	require.NoError(t, err)
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "approved")
	assert.NotContains(t, out, "rejected")
}

func TestAnalyticsCommands(t *testing.T) {
	srv := newLiveServer(t)
	srv.addVideo(t, "Launch Teaser", review.StatusPosted)

	out, err := runCmd(t, srv.URL, "analytics", "record", "Launch Teaser",
		"--date", "2024-03-01", "-p", "tiktok", "--views", "120", "--likes", "9")
	require.NoError(t, err)
	assert.Contains(t, out, "Recorded 2024-03-01")

	_, err = runCmd(t, srv.URL, "analytics", "record", "Launch Teaser", "--date", "2024-03-02", "--views", "80")
	require.NoError(t, err)

	out, err = runCmd(t, srv.URL, "analytics", "Launch Teaser")
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "2024-03-02"), strings.Index(out, "2024-03-01"))
	assert.Contains(t, out, "tiktok")

	out, err = runCmd(t, srv.URL, "analytics", "--from", "2024-03-01", "--to", "2024-03-31")
	require.NoError(t, err)
	assert.Contains(t, out, "200 views, 9 likes")
}

func TestEventsCommand(t *testing.T) {
	srv := newLiveServer(t)
	_, err := runCmd(t, srv.URL, "videos", "add", "Launch Teaser", "gs://sanctum/teaser.mp4")
	require.NoError(t, err)

	out, err := runCmd(t, srv.URL, "events", "-t", "video.created")
	require.NoError(t, err)
	assert.Contains(t, out, `"Launch Teaser" added to Ideation by alice`)

	out, err = runCmd(t, srv.URL, "--json", "events", "-t", "video.created")
	require.NoError(t, err)
	var list EventList
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Equal(t, 1, list.Total)
	assert.Contains(t, list.Items[0].Payload, "Launch Teaser")
}

func TestStatusCommand(t *testing.T) {
	srv := newLiveServer(t)
	srv.addVideo(t, "Launch Teaser", review.StatusIdeation)

	out, err := runCmd(t, srv.URL, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Videos:  1")
	assert.Contains(t, out, "Events:  on")

	_, err = runCmd(t, "http://127.0.0.1:1", "status")
	assert.ErrorContains(t, err, "unreachable")
}

func TestInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sanctum", "config.toml")

	out, err := runCmd(t, "http://unused", "init", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default().Server.Port, cfg.Server.Port)

	_, err = runCmd(t, "http://unused", "init", "--path", path)
	assert.ErrorContains(t, err, "already exists")

	require.NoError(t, os.WriteFile(path, []byte("junk"), 0o644))
	_, err = runCmd(t, "http://unused", "init", "--path", path, "--force")
	require.NoError(t, err)
}

func TestDescribeEvent(t *testing.T) {
	tests := []struct {
		name      string
		eventType string
		payload   string
		want      string
	}{
		{
			"status change",
			"video.status.changed",
			`{"entity_id":"0f8e2c1a-4b7d","old_status":"priming","new_status":"ready_for_review","changed_by":"board"}`,
			"video 0f8e2c1a moved Priming → Ready for Review by board",
		},
		{
			"comment",
			"comment.added",
			`{"video_id":"6a3d9b15-2e8c","timestamp":83,"comment_type":"critique"}`,
			"critique at 1:23 on video 6a3d9b15",
		},
		{
			"notice",
			"board.notice",
			`{"level":"failure","message":"Failed to update video status"}`,
			"Failed to update video status",
		},
		{"unknown type", "download.grabbed", `{"x":1}`, `{"x":1}`},
		{"bad payload", "video.created", `{oops`, `{oops`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, describeEvent(tt.eventType, tt.payload))
		})
	}
}
