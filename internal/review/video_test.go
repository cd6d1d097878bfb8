package review

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_AddVideo(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	v := &Video{
		Title:       "Launch teaser",
		Description: ptr("first cut"),
		MediaURL:    "https://drive.google.com/file/d/abc123/view",
		UploadedBy:  "user-1",
	}

	before := time.Now().UTC()
	require.NoError(t, store.AddVideo(v))
	after := time.Now().UTC()

	assert.NotEmpty(t, v.ID, "ID should be set after AddVideo")
	assert.Equal(t, StatusIdeation, v.Status, "empty status defaults to ideation")
	assert.False(t, v.CreatedAt.Before(before) || v.CreatedAt.After(after), "CreatedAt %v not in range", v.CreatedAt)

	got, err := store.GetVideo(v.ID)
	require.NoError(t, err)
	assert.Equal(t, "Launch teaser", got.Title)
	require.NotNil(t, got.Description)
	assert.Equal(t, "first cut", *got.Description)
	assert.Nil(t, got.ThumbnailURL)
	assert.Equal(t, StatusIdeation, got.Status)
}

func TestStore_AddVideo_InvalidStatus(t *testing.T) {
	store := NewStore(setupTestDB(t))

	err := store.AddVideo(&Video{Title: "x", MediaURL: "gs://b/x.mp4", Status: "archived"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestStore_AddVideo_DuplicateID(t *testing.T) {
	store := NewStore(setupTestDB(t))

	v := addTestVideo(t, store, "one", StatusIdeation)
	err := store.AddVideo(&Video{ID: v.ID, Title: "two", MediaURL: "gs://b/two.mp4"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestStore_GetVideo_NotFound(t *testing.T) {
	store := NewStore(setupTestDB(t))

	_, err := store.GetVideo("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_ListVideos(t *testing.T) {
	store := NewStore(setupTestDB(t))

	first := addTestVideo(t, store, "Cooking reel", StatusIdeation)
	second := addTestVideo(t, store, "Gym vlog", StatusPriming)
	third := addTestVideo(t, store, "Cooking short", StatusPosted)

	all, total, err := store.ListVideos(VideoFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, all, 3)
	// newest first
	assert.Equal(t, []string{third.ID, second.ID, first.ID}, []string{all[0].ID, all[1].ID, all[2].ID})

	st := StatusPriming
	byStatus, total, err := store.ListVideos(VideoFilter{Status: &st})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, second.ID, byStatus[0].ID)

	cooking, total, err := store.ListVideos(VideoFilter{Query: ptr("cooking")})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, cooking, 2)

	page, total, err := store.ListVideos(VideoFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page, 1)
	assert.Equal(t, second.ID, page[0].ID)
}

func TestStore_ListVideos_LikeWildcardsEscaped(t *testing.T) {
	store := NewStore(setupTestDB(t))
	addTestVideo(t, store, "plain", StatusIdeation)

	got, total, err := store.ListVideos(VideoFilter{Query: ptr("%")})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, got)
}

func TestStore_ListVideos_UnknownStatusReturnedVerbatim(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	now := time.Now().UTC()
	_, err := db.Exec(`INSERT INTO videos (id, title, media_url, uploaded_by, status, created_at, updated_at)
		VALUES ('legacy', 'Old', 'gs://b/old.mp4', '', 'archived', ?, ?)`, now, now)
	require.NoError(t, err)

	got, err := store.GetVideo("legacy")
	require.NoError(t, err)
	assert.Equal(t, Status("archived"), got.Status)
	_, ok := ParseStatus(string(got.Status))
	assert.False(t, ok)
}

func TestStore_UpdateVideoStatus(t *testing.T) {
	store := NewStore(setupTestDB(t))
	v := addTestVideo(t, store, "clip", StatusIdeation)

	// any stage may move to any other, including backwards
	for _, st := range []Status{StatusPosted, StatusIdeation, StatusScheduled, StatusReadyForReview} {
		got, err := store.UpdateVideoStatus(v.ID, st)
		require.NoError(t, err)
		assert.Equal(t, st, got.Status)
	}

	_, err := store.UpdateVideoStatus(v.ID, "archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = store.UpdateVideoStatus("missing", StatusPosted)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_UpdateVideo(t *testing.T) {
	store := NewStore(setupTestDB(t))
	v := addTestVideo(t, store, "clip", StatusIdeation)

	v.Title = "clip v2"
	v.ThumbnailURL = ptr("https://example.com/thumb.jpg")
	require.NoError(t, store.UpdateVideo(v))

	got, err := store.GetVideo(v.ID)
	require.NoError(t, err)
	assert.Equal(t, "clip v2", got.Title)
	require.NotNil(t, got.ThumbnailURL)

	err = store.UpdateVideo(&Video{ID: "missing", Status: StatusIdeation})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestStore_UpdateVideo_UnknownStoredStatus(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	now := time.Now().UTC()
	_, err := db.Exec(`INSERT INTO videos (id, title, media_url, uploaded_by, status, created_at, updated_at)
		VALUES ('legacy', 'Old', 'gs://b/old.mp4', '', 'archived', ?, ?)`, now, now)
	require.NoError(t, err)

	v, err := store.GetVideo("legacy")
	require.NoError(t, err)
	v.Title = "Old, renamed"
	require.NoError(t, store.UpdateVideo(v))

	got, err := store.GetVideo("legacy")
	require.NoError(t, err)
	assert.Equal(t, "Old, renamed", got.Title)
	assert.Equal(t, Status("archived"), got.Status)

	v.Status = "retired"
	assert.ErrorIs(t, store.UpdateVideo(v), ErrInvalidStatus)

	valid := addTestVideo(t, store, "clip", StatusIdeation)
	valid.Status = "archived"
	assert.ErrorIs(t, store.UpdateVideo(valid), ErrInvalidStatus)

	assert.ErrorIs(t, store.UpdateVideo(&Video{ID: "missing", Status: "archived"}), ErrNotFound)
}

func TestStore_ListVideos_OffsetWithoutLimit(t *testing.T) {
	store := NewStore(setupTestDB(t))
	for _, title := range []string{"a", "b", "c"} {
		addTestVideo(t, store, title, StatusIdeation)
	}

	got, total, err := store.ListVideos(VideoFilter{Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, got, 2)
	// newest first, so skipping one drops "c"
	assert.Equal(t, "b", got[0].Title)
	assert.Equal(t, "a", got[1].Title)
}

func TestStore_DeleteVideo_Cascades(t *testing.T) {
	store := NewStore(setupTestDB(t))
	v := addTestVideo(t, store, "clip", StatusIdeation)

	require.NoError(t, store.AddComment(&Comment{VideoID: v.ID, Timestamp: 1.5, Content: "cut here"}))
	_, err := store.UpsertApproval(&Approval{VideoID: v.ID, UserID: "u1", Approved: true})
	require.NoError(t, err)
	_, err = store.UpsertAnalytics(&Analytics{VideoID: v.ID, Date: "2025-01-02", Views: 10})
	require.NoError(t, err)

	require.NoError(t, store.DeleteVideo(v.ID))

	_, err = store.GetVideo(v.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	comments, err := store.ListComments(v.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
	approvals, err := store.ListApprovals(v.ID)
	require.NoError(t, err)
	assert.Empty(t, approvals)
	rows, err := store.ListAnalytics(AnalyticsFilter{VideoID: &v.ID})
	require.NoError(t, err)
	assert.Empty(t, rows)

	// idempotent
	assert.NoError(t, store.DeleteVideo(v.ID))
}
