package board

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bggdog/sanctum-video-review/internal/review"
)

func seedVideos(statuses ...review.Status) []review.Video {
	out := make([]review.Video, len(statuses))
	for i, s := range statuses {
		out[i] = review.Video{ID: string(rune('a' + i)), Title: "Video " + string(rune('A'+i)), Status: s}
	}
	return out
}

func TestProject_HasEveryBucket(t *testing.T) {
	p := Project(nil)

	assert.Len(t, p, len(review.Statuses))
	for _, s := range review.Statuses {
		assert.NotNil(t, p[s], s)
		assert.Empty(t, p[s], s)
	}
}

func TestProject_Partition(t *testing.T) {
	in := seedVideos(
		review.StatusIdeation,
		review.StatusPosted,
		review.Status("archived"),
		review.StatusIdeation,
		review.StatusReadyForReview,
		review.Status(""),
		review.StatusScheduled,
		review.StatusPriming,
	)

	p := Project(in)

	seen := map[string]review.Status{}
	for status, bucket := range p {
		for _, v := range bucket {
			_, dup := seen[v.ID]
			assert.False(t, dup, "video %s in more than one bucket", v.ID)
			seen[v.ID] = status
			assert.Equal(t, v.Status, status)
		}
	}

	var want []string
	for _, v := range in {
		if v.Status.Valid() {
			want = append(want, v.ID)
		}
	}
	got := make([]string, 0, len(seen))
	for id := range seen {
		got = append(got, id)
	}
	assert.ElementsMatch(t, want, got)
	assert.NotContains(t, seen, "c") // "archived"
	assert.NotContains(t, seen, "f") // empty status
}

func TestProject_PreservesOrderWithinBucket(t *testing.T) {
	in := seedVideos(review.StatusPriming, review.StatusIdeation, review.StatusPriming, review.StatusPriming)

	p := Project(in)

	assert.Equal(t, []string{"a", "c", "d"}, p.IDs(review.StatusPriming))
	assert.Equal(t, []string{"b"}, p.IDs(review.StatusIdeation))
}

func TestProject_ReprojectFlattened(t *testing.T) {
	in := seedVideos(
		review.StatusPosted,
		review.StatusIdeation,
		review.Status("unknown"),
		review.StatusScheduled,
		review.StatusIdeation,
		review.StatusReadyForReview,
	)

	first := Project(in)
	second := Project(first.Flatten())

	assert.Equal(t, first, second)
}

func TestProjection_Counts(t *testing.T) {
	p := Project(seedVideos(review.StatusIdeation, review.StatusIdeation, review.StatusPosted, review.Status("x")))

	counts := p.Counts()
	assert.Equal(t, 2, counts[review.StatusIdeation])
	assert.Equal(t, 0, counts[review.StatusPriming])
	assert.Equal(t, 1, counts[review.StatusPosted])
	assert.Len(t, counts, len(review.Statuses))
}

func TestProjection_FlattenColumnOrder(t *testing.T) {
	p := Project(seedVideos(review.StatusPosted, review.StatusIdeation, review.StatusScheduled))

	var got []review.Status
	for _, v := range p.Flatten() {
		got = append(got, v.Status)
	}
	assert.Equal(t, []review.Status{review.StatusIdeation, review.StatusScheduled, review.StatusPosted}, got)
}
