package v1

import (
	"net/http"

	"github.com/bggdog/sanctum-video-review/internal/events"
	"github.com/bggdog/sanctum-video-review/internal/review"
)

func (s *Server) listApprovals(w http.ResponseWriter, r *http.Request) {
	videoID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	approvals, err := s.deps.Videos.ListApprovals(videoID)
	if err != nil {
		s.writeStoreError(w, err, "")
		return
	}

	items := make([]ApprovalResponse, len(approvals))
	for i, a := range approvals {
		items[i] = approvalToResponse(a)
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
}

// upsertApproval records the caller's verdict: 201 when it is their first
// on this video, 200 when it replaces an earlier one.
func (s *Server) upsertApproval(w http.ResponseWriter, r *http.Request) {
	videoID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req approvalRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	a := &review.Approval{
		VideoID:  videoID,
		UserID:   user,
		Approved: *req.Approved,
		Notes:    emptyToNil(req.Notes),
	}
	created, err := s.deps.Videos.UpsertApproval(a)
	if err != nil {
		s.writeStoreError(w, err, "Video not found")
		return
	}

	s.publish(r.Context(), &events.ApprovalRecorded{
		BaseEvent: events.NewBaseEvent(events.EventApprovalRecorded, events.EntityApproval, a.ID),
		VideoID:   a.VideoID,
		UserID:    a.UserID,
		Approved:  a.Approved,
		Created:   created,
	})

	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	writeJSON(w, code, approvalToResponse(a))
}
