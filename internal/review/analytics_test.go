package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_UpsertAnalytics(t *testing.T) {
	store := NewStore(setupTestDB(t))
	v := addTestVideo(t, store, "clip", StatusPosted)

	tiktok := PlatformTikTok
	row := &Analytics{
		VideoID:       v.ID,
		Date:          "2025-03-01",
		Platform:      &tiktok,
		Views:         1000,
		WatchTime:     3600,
		CustomMetrics: map[string]any{"saves": float64(12)},
		TikTok:        TikTokMetrics{Views: ptr(int64(1000)), FullVideoPercent: ptr(34.5)},
	}
	created, err := store.UpsertAnalytics(row)
	require.NoError(t, err)
	assert.True(t, created)

	// same key overwrites
	again := &Analytics{VideoID: v.ID, Date: "2025-03-01", Platform: &tiktok, Views: 1500}
	created, err = store.UpsertAnalytics(again)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, row.ID, again.ID)

	// nil platform is a separate key
	created, err = store.UpsertAnalytics(&Analytics{VideoID: v.ID, Date: "2025-03-01", Views: 2000})
	require.NoError(t, err)
	assert.True(t, created)
	created, err = store.UpsertAnalytics(&Analytics{VideoID: v.ID, Date: "2025-03-01", Views: 2100})
	require.NoError(t, err)
	assert.False(t, created)

	rows, err := store.ListAnalytics(AnalyticsFilter{VideoID: &v.ID})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	var tk *Analytics
	for _, r := range rows {
		if r.Platform != nil {
			tk = r
		}
	}
	require.NotNil(t, tk)
	assert.Equal(t, int64(1500), tk.Views)
	assert.Nil(t, tk.TikTok.FullVideoPercent, "overwrite replaces platform fields")
	assert.Equal(t, map[string]any{}, tk.CustomMetrics)
}

func TestStore_ListAnalytics_DateRange(t *testing.T) {
	store := NewStore(setupTestDB(t))
	v := addTestVideo(t, store, "clip", StatusPosted)

	for _, d := range []string{"2025-01-01", "2025-01-15", "2025-02-01"} {
		_, err := store.UpsertAnalytics(&Analytics{VideoID: v.ID, Date: d, Views: 10})
		require.NoError(t, err)
	}

	rows, err := store.ListAnalytics(AnalyticsFilter{From: ptr("2025-01-01"), To: ptr("2025-01-31")})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2025-01-01", rows[0].Date)
	assert.Equal(t, "2025-01-15", rows[1].Date)

	newest, err := store.ListAnalytics(AnalyticsFilter{VideoID: &v.ID, Newest: true})
	require.NoError(t, err)
	require.Len(t, newest, 3)
	assert.Equal(t, "2025-02-01", newest[0].Date)
}

func TestStore_UpsertAnalytics_Validation(t *testing.T) {
	store := NewStore(setupTestDB(t))
	v := addTestVideo(t, store, "clip", StatusPosted)

	_, err := store.UpsertAnalytics(&Analytics{VideoID: v.ID, Date: "03/01/2025"})
	assert.ErrorIs(t, err, ErrConstraint)

	_, err = store.UpsertAnalytics(&Analytics{VideoID: "missing", Date: "2025-03-01"})
	assert.ErrorIs(t, err, ErrNotFound)

	bad := Platform("myspace")
	_, err = store.UpsertAnalytics(&Analytics{VideoID: v.ID, Date: "2025-03-01", Platform: &bad})
	assert.ErrorIs(t, err, ErrConstraint)
}
