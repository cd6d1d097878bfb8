package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in     string
		want   Status
		wantOK bool
	}{
		{"ideation", StatusIdeation, true},
		{"priming", StatusPriming, true},
		{"ready_for_review", StatusReadyForReview, true},
		{"scheduled", StatusScheduled, true},
		{"posted", StatusPosted, true},
		{"archived", Status("archived"), false},
		{"Posted", Status("Posted"), false},
		{"", Status(""), false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseStatus(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestStatuses_Order(t *testing.T) {
	assert.Equal(t, []Status{StatusIdeation, StatusPriming, StatusReadyForReview, StatusScheduled, StatusPosted}, Statuses)
	for _, s := range Statuses {
		assert.True(t, s.Valid(), s)
	}
}

func TestStatus_Title(t *testing.T) {
	assert.Equal(t, "Ready for Review", StatusReadyForReview.Title())
	assert.Equal(t, "Ideation", StatusIdeation.Title())
	assert.Equal(t, "mystery", Status("mystery").Title())
}

func TestTotals(t *testing.T) {
	rows := []*Analytics{
		{Views: 100, WatchTime: 30, Likes: 5, Shares: 1, CommentsCount: 2},
		{Views: 50, WatchTime: 10, Likes: 2, Shares: 0, CommentsCount: 1},
	}
	assert.Equal(t, AnalyticsTotals{Views: 150, WatchTime: 40, Likes: 7, Shares: 1, Comments: 3}, Totals(rows))
	assert.Equal(t, AnalyticsTotals{}, Totals(nil))
}
