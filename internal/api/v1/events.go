package v1

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/bggdog/sanctum-video-review/internal/events"
)

// streamHeartbeat is how often an idle SSE stream sends a comment line.
var streamHeartbeat = 15 * time.Second

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	if limit < 0 || offset < 0 {
		writeError(w, http.StatusBadRequest, "INVALID_PAGINATION", "limit and offset must be non-negative")
		return
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	eventType, ok := s.eventTypeParam(w, r)
	if !ok {
		return
	}

	q := events.Query{
		EventType:  eventType,
		EntityType: r.URL.Query().Get("entity_type"),
		EntityID:   r.URL.Query().Get("entity_id"),
		Limit:      limit,
		Offset:     offset,
	}
	raws, total, err := s.deps.EventLog.Recent(r.Context(), q)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "EVENT_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, listEventsResponse{
		Items:  eventsToResponse(raws),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

func (s *Server) listVideoEvents(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	// Deleted videos keep their history, so no existence check.
	raws, err := s.deps.EventLog.ForEntity(events.EntityVideo, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "EVENT_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, listEventsResponse{
		Items: eventsToResponse(raws),
		Total: len(raws),
		Limit: len(raws),
	})
}

// eventTypeParam reads ?type= and rejects types no event is published as.
func (s *Server) eventTypeParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	t := r.URL.Query().Get("type")
	if t != "" && !s.events.Known(t) {
		writeError(w, http.StatusBadRequest, "UNKNOWN_EVENT_TYPE", "unknown event type: "+t)
		return "", false
	}
	return t, true
}

func eventsToResponse(raws []events.RawEvent) []EventResponse {
	items := make([]EventResponse, len(raws))
	for i, e := range raws {
		items[i] = EventResponse{
			ID:         e.ID,
			EventType:  e.EventType,
			EntityType: e.EntityType,
			EntityID:   e.EntityID,
			Payload:    e.Payload,
			OccurredAt: e.OccurredAt.Format(time.RFC3339),
		}
	}
	return items
}

// streamEvents relays bus events as server-sent events until the client
// disconnects. ?type= limits the stream to one event type.
func (s *Server) streamEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "STREAMING_UNSUPPORTED", "Streaming not supported")
		return
	}
	t, ok := s.eventTypeParam(w, r)
	if !ok {
		return
	}

	var ch <-chan events.Event
	if t != "" {
		ch = s.deps.Bus.Subscribe(t, 64)
	} else {
		ch = s.deps.Bus.SubscribeAll(64)
	}
	defer s.deps.Bus.Unsubscribe(ch)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	s.log.Debug("event stream opened", "remote", r.RemoteAddr)
	defer s.log.Debug("event stream closed", "remote", r.RemoteAddr)

	heartbeat := time.NewTicker(streamHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case e, ok := <-ch:
			if !ok {
				return
			}
			data, err := json.Marshal(e)
			if err != nil {
				s.log.Warn("marshal event for stream", "type", e.EventType(), "error", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.EventType(), data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
