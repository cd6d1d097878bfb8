package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/bggdog/sanctum-video-review/internal/api/v1"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"0", 0, false},
		{"83.5", 83.5, false},
		{"1:23", 83, false},
		{"01:02:03", 3723, false},
		{"0:59.5", 59.5, false},
		{"1:60", 0, true},
		{"-4", 0, true},
		{"1:2:3:4", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseTimestamp(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	assert.Equal(t, "0:00", formatTimestamp(0))
	assert.Equal(t, "1:23", formatTimestamp(83.4))
	assert.Equal(t, "1:02:03", formatTimestamp(3723))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a long...", truncate("a long title", 9))
	assert.Equal(t, "ab", truncate("abcdef", 2))
	assert.Equal(t, "déjà...", truncate("déjà vu again", 7))
}

func TestFormatTimeAgo(t *testing.T) {
	now := time.Now()
	assert.Equal(t, "just now", formatTimeAgo(now))
	assert.Equal(t, "5m ago", formatTimeAgo(now.Add(-5*time.Minute-time.Second)))
	assert.Equal(t, "3h ago", formatTimeAgo(now.Add(-3*time.Hour-time.Second)))
	assert.Equal(t, "2d ago", formatTimeAgo(now.Add(-49*time.Hour)))
}

func TestRenderBoard(t *testing.T) {
	resp := &v1.BoardResponse{
		Columns: []v1.BoardColumn{
			{Status: "ideation", Title: "Ideation", Count: 1, Videos: []v1.VideoResponse{{Title: "Launch Teaser"}}},
			{Status: "priming", Title: "Priming"},
		},
		Total: 1,
	}
	out := renderBoard(resp)
	assert.Contains(t, out, "Ideation (1)")
	assert.Contains(t, out, "Priming (0)")
	assert.Contains(t, out, "Launch Teaser")
	assert.Contains(t, out, "empty")

	// Columns sit side by side: both headings share a line.
	var shared bool
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "Ideation") && strings.Contains(line, "Priming") {
			shared = true
		}
	}
	assert.True(t, shared)
}
