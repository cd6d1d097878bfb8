package v1

import (
	"net/http"

	"github.com/bggdog/sanctum-video-review/internal/board"
	"github.com/bggdog/sanctum-video-review/internal/review"
)

// getBoard returns every video partitioned by status. Videos with a status
// outside the workflow are left out.
func (s *Server) getBoard(w http.ResponseWriter, r *http.Request) {
	items, _, err := s.deps.Videos.ListVideos(review.VideoFilter{})
	if err != nil {
		s.writeStoreError(w, err, "")
		return
	}

	videos := make([]review.Video, len(items))
	for i, v := range items {
		videos[i] = *v
	}
	proj := board.Project(videos)

	resp := BoardResponse{Columns: make([]BoardColumn, 0, len(review.Statuses))}
	for _, st := range review.Statuses {
		col := BoardColumn{
			Status: string(st),
			Title:  st.Title(),
			Count:  len(proj[st]),
			Videos: make([]VideoResponse, len(proj[st])),
		}
		for i := range proj[st] {
			col.Videos[i] = videoToResponse(&proj[st][i])
		}
		resp.Total += col.Count
		resp.Columns = append(resp.Columns, col)
	}

	writeJSON(w, http.StatusOK, resp)
}

// moveVideo applies a status move to the live board. The board changes
// immediately and the store update runs in the background; its outcome is
// published as a board.notice event. Responds 202 when a move was started
// and 200 when the video is already in that column.
func (s *Server) moveVideo(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	v, ok := s.deps.Board.State().Find(req.VideoID)
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Video not on board")
		return
	}

	t := s.deps.Board.Move(r.Context(), req.VideoID, review.Status(req.Status))
	if t == nil {
		writeJSON(w, http.StatusOK, MoveResponse{
			VideoID: v.ID,
			From:    string(v.Status),
			To:      string(v.Status),
			Phase:   board.PhaseIdle.String(),
		})
		return
	}

	s.log.Info("board move", "video_id", t.VideoID, "from", t.From, "to", t.To, "user", userID(r))
	writeJSON(w, http.StatusAccepted, MoveResponse{
		VideoID: t.VideoID,
		From:    string(t.From),
		To:      string(t.To),
		Phase:   t.Phase().String(),
		Applied: true,
	})
}
