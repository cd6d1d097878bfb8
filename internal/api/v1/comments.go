package v1

import (
	"net/http"

	"github.com/bggdog/sanctum-video-review/internal/events"
	"github.com/bggdog/sanctum-video-review/internal/review"
)

func (s *Server) listComments(w http.ResponseWriter, r *http.Request) {
	videoID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}
	if _, err := s.deps.Videos.GetVideo(videoID); err != nil {
		s.writeStoreError(w, err, "Video not found")
		return
	}

	comments, err := s.deps.Videos.ListComments(videoID)
	if err != nil {
		s.writeStoreError(w, err, "")
		return
	}

	items := make([]CommentResponse, len(comments))
	for i, c := range comments {
		items[i] = commentToResponse(c)
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
}

func (s *Server) addComment(w http.ResponseWriter, r *http.Request) {
	videoID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	var req addCommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	c := &review.Comment{
		VideoID:   videoID,
		UserID:    userID(r),
		Timestamp: *req.Timestamp,
		Content:   req.Content,
		Type:      review.CommentType(req.CommentType),
	}
	if err := s.deps.Videos.AddComment(c); err != nil {
		s.writeStoreError(w, err, "Video not found")
		return
	}

	s.publish(r.Context(), &events.CommentAdded{
		BaseEvent:   events.NewBaseEvent(events.EventCommentAdded, events.EntityComment, c.ID),
		VideoID:     c.VideoID,
		UserID:      c.UserID,
		Timestamp:   c.Timestamp,
		CommentType: string(c.Type),
	})

	writeJSON(w, http.StatusCreated, commentToResponse(c))
}

func (s *Server) deleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	if err := s.deps.Videos.DeleteComment(id); err != nil {
		s.writeStoreError(w, err, "")
		return
	}

	s.publish(r.Context(), &events.CommentDeleted{
		BaseEvent: events.NewBaseEvent(events.EventCommentDeleted, events.EntityComment, id),
	})

	w.WriteHeader(http.StatusNoContent)
}
