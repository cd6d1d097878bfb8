package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_UpsertApproval(t *testing.T) {
	store := NewStore(setupTestDB(t))
	v := addTestVideo(t, store, "clip", StatusReadyForReview)

	a := &Approval{VideoID: v.ID, UserID: "reviewer", Approved: true, Notes: ptr("ship it")}
	created, err := store.UpsertApproval(a)
	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, a.ApprovedAt)
	firstID := a.ID

	// same reviewer changes their mind
	b := &Approval{VideoID: v.ID, UserID: "reviewer", Approved: false}
	created, err = store.UpsertApproval(b)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, firstID, b.ID)
	assert.Nil(t, b.ApprovedAt)

	// another reviewer gets their own row
	_, err = store.UpsertApproval(&Approval{VideoID: v.ID, UserID: "other", Approved: true})
	require.NoError(t, err)

	got, err := store.ListApprovals(v.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "reviewer", got[0].UserID)
	assert.False(t, got[0].Approved)
	assert.Nil(t, got[0].ApprovedAt)
	assert.Nil(t, got[0].Notes)
	assert.True(t, got[1].Approved)
	assert.NotNil(t, got[1].ApprovedAt)
}

func TestStore_UpsertApproval_UnknownVideo(t *testing.T) {
	store := NewStore(setupTestDB(t))

	_, err := store.UpsertApproval(&Approval{VideoID: "missing", UserID: "u", Approved: true})
	assert.ErrorIs(t, err, ErrNotFound)
}
