package v1

import (
	"net/http"

	"github.com/bggdog/sanctum-video-review/internal/events"
	"github.com/bggdog/sanctum-video-review/internal/media"
	"github.com/bggdog/sanctum-video-review/internal/review"
)

const maxLimit = 1000

func (s *Server) listVideos(w http.ResponseWriter, r *http.Request) {
	filter := review.VideoFilter{
		Limit:      queryInt(r, "limit", 50),
		Offset:     queryInt(r, "offset", 0),
		UploadedBy: queryString(r, "uploaded_by"),
		Query:      queryString(r, "q"),
	}
	if filter.Limit < 0 || filter.Offset < 0 {
		writeError(w, http.StatusBadRequest, "INVALID_PAGINATION", "limit and offset must be non-negative")
		return
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}
	if statusStr := queryString(r, "status"); statusStr != nil {
		st, ok := review.ParseStatus(*statusStr)
		if !ok {
			writeError(w, http.StatusBadRequest, "VALIDATION", "unknown status: "+*statusStr)
			return
		}
		filter.Status = &st
	}

	items, total, err := s.deps.Videos.ListVideos(filter)
	if err != nil {
		s.writeStoreError(w, err, "")
		return
	}

	resp := ListVideosResponse{
		Items:  make([]VideoResponse, len(items)),
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	for i, v := range items {
		resp.Items[i] = videoToResponse(v)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getVideo(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	v, err := s.deps.Videos.GetVideo(id)
	if err != nil {
		s.writeStoreError(w, err, "Video not found")
		return
	}

	writeJSON(w, http.StatusOK, videoToResponse(v))
}

func (s *Server) addVideo(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req addVideoRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	v := &review.Video{
		Title:        req.Title,
		Description:  req.Description,
		MediaURL:     req.MediaURL,
		ThumbnailURL: req.ThumbnailURL,
		UploadedBy:   user,
	}
	if req.Status != nil {
		v.Status = review.Status(*req.Status)
	}

	if err := s.deps.Videos.AddVideo(v); err != nil {
		s.writeStoreError(w, err, "")
		return
	}

	s.log.Info("video added", "video_id", v.ID, "title", v.Title, "status", v.Status)
	s.publish(r.Context(), &events.VideoCreated{
		BaseEvent:  events.NewBaseEvent(events.EventVideoCreated, events.EntityVideo, v.ID),
		Title:      v.Title,
		Status:     string(v.Status),
		UploadedBy: v.UploadedBy,
	})

	writeJSON(w, http.StatusCreated, videoToResponse(v))
}

// updateVideo applies a partial update. A status change is published as
// video.status.changed, other field changes as video.updated.
func (s *Server) updateVideo(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	var req updateVideoRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}
	if req.empty() {
		writeError(w, http.StatusBadRequest, "VALIDATION", "no fields to update")
		return
	}

	tx, err := s.deps.Videos.Begin()
	if err != nil {
		s.writeStoreError(w, err, "")
		return
	}
	defer func() { _ = tx.Rollback() }()

	v, err := tx.GetVideo(id)
	if err != nil {
		s.writeStoreError(w, err, "Video not found")
		return
	}

	oldStatus := v.Status
	var fields []string
	if req.Title != nil && *req.Title != v.Title {
		v.Title = *req.Title
		fields = append(fields, "title")
	}
	if req.Description != nil {
		v.Description = emptyToNil(req.Description)
		fields = append(fields, "description")
	}
	if req.MediaURL != nil && *req.MediaURL != v.MediaURL {
		v.MediaURL = *req.MediaURL
		fields = append(fields, "media_url")
	}
	if req.ThumbnailURL != nil {
		v.ThumbnailURL = emptyToNil(req.ThumbnailURL)
		fields = append(fields, "thumbnail_url")
	}
	if req.Status != nil {
		v.Status = review.Status(*req.Status)
	}

	if err := tx.UpdateVideo(v); err != nil {
		s.writeStoreError(w, err, "Video not found")
		return
	}
	if err := tx.Commit(); err != nil {
		s.writeStoreError(w, err, "")
		return
	}

	ctx := r.Context()
	if v.Status != oldStatus {
		s.log.Info("video status changed", "video_id", v.ID, "from", oldStatus, "to", v.Status)
		s.publish(ctx, &events.VideoStatusChanged{
			BaseEvent: events.NewBaseEvent(events.EventVideoStatusChanged, events.EntityVideo, v.ID),
			OldStatus: string(oldStatus),
			NewStatus: string(v.Status),
			ChangedBy: userID(r),
		})
	}
	if len(fields) > 0 {
		s.publish(ctx, &events.VideoUpdated{
			BaseEvent: events.NewBaseEvent(events.EventVideoUpdated, events.EntityVideo, v.ID),
			Fields:    fields,
		})
	}

	writeJSON(w, http.StatusOK, videoToResponse(v))
}

func (s *Server) deleteVideo(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	v, err := s.deps.Videos.GetVideo(id)
	if err != nil {
		s.writeStoreError(w, err, "Video not found")
		return
	}
	if err := s.deps.Videos.DeleteVideo(id); err != nil {
		s.writeStoreError(w, err, "")
		return
	}

	s.log.Info("video deleted", "video_id", id)
	s.publish(r.Context(), &events.VideoDeleted{
		BaseEvent: events.NewBaseEvent(events.EventVideoDeleted, events.EntityVideo, id),
		Title:     v.Title,
	})

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getPlayback(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	v, err := s.deps.Videos.GetVideo(id)
	if err != nil {
		s.writeStoreError(w, err, "Video not found")
		return
	}

	p := media.Resolve(v.MediaURL)
	writeJSON(w, http.StatusOK, PlaybackResponse{Kind: string(p.Kind), Source: p.Source, URL: p.URL})
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
