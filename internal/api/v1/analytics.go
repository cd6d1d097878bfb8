package v1

import (
	"net/http"
	"time"

	"github.com/bggdog/sanctum-video-review/internal/events"
	"github.com/bggdog/sanctum-video-review/internal/review"
)

// listAnalytics returns rows for a date range with their totals.
func (s *Server) listAnalytics(w http.ResponseWriter, r *http.Request) {
	from := queryString(r, "start_date")
	to := queryString(r, "end_date")
	if from == nil || to == nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "start_date and end_date are required")
		return
	}
	for _, d := range []string{*from, *to} {
		if _, err := time.Parse(time.DateOnly, d); err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION", "dates must be YYYY-MM-DD")
			return
		}
	}

	rows, err := s.deps.Videos.ListAnalytics(review.AnalyticsFilter{From: from, To: to})
	if err != nil {
		s.writeStoreError(w, err, "")
		return
	}

	totals := review.Totals(rows)
	resp := ListAnalyticsResponse{
		Items: make([]AnalyticsResponse, len(rows)),
		Totals: AnalyticsTotalsResponse{
			TotalViews:     totals.Views,
			TotalWatchTime: totals.WatchTime,
			TotalLikes:     totals.Likes,
			TotalShares:    totals.Shares,
			TotalComments:  totals.Comments,
		},
	}
	for i, a := range rows {
		resp.Items[i] = analyticsToResponse(a)
	}

	writeJSON(w, http.StatusOK, resp)
}

// listVideoAnalytics returns one video's rows, newest date first.
func (s *Server) listVideoAnalytics(w http.ResponseWriter, r *http.Request) {
	videoID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	rows, err := s.deps.Videos.ListAnalytics(review.AnalyticsFilter{VideoID: &videoID, Newest: true})
	if err != nil {
		s.writeStoreError(w, err, "")
		return
	}

	items := make([]AnalyticsResponse, len(rows))
	for i, a := range rows {
		items[i] = analyticsToResponse(a)
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
}

func (s *Server) upsertAnalytics(w http.ResponseWriter, r *http.Request) {
	var req analyticsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	a := req.toAnalytics()
	created, err := s.deps.Videos.UpsertAnalytics(a)
	if err != nil {
		s.writeStoreError(w, err, "Video not found")
		return
	}

	var platform string
	if a.Platform != nil {
		platform = string(*a.Platform)
	}
	s.publish(r.Context(), &events.AnalyticsRecorded{
		BaseEvent: events.NewBaseEvent(events.EventAnalyticsRecorded, events.EntityAnalytics, a.ID),
		VideoID:   a.VideoID,
		Date:      a.Date,
		Platform:  platform,
		Views:     a.Views,
	})

	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	writeJSON(w, code, analyticsToResponse(a))
}
