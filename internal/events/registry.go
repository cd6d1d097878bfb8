package events

import (
	"encoding/json"
	"fmt"
)

// EventFactory creates a new zero-value event of a specific type.
type EventFactory func() Event

// Registry maps event types to their factories for deserialization.
type Registry struct {
	factories map[string]EventFactory
}

// NewRegistry creates a new event registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]EventFactory),
	}
}

// Register adds an event type to the registry.
func (r *Registry) Register(eventType string, factory EventFactory) {
	r.factories[eventType] = factory
}

// Known reports whether eventType has been registered.
func (r *Registry) Known(eventType string) bool {
	_, ok := r.factories[eventType]
	return ok
}

// Unmarshal deserializes a raw event into its concrete type.
func (r *Registry) Unmarshal(raw RawEvent) (Event, error) {
	factory, ok := r.factories[raw.EventType]
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", raw.EventType)
	}

	event := factory()
	if err := json.Unmarshal([]byte(raw.Payload), event); err != nil {
		return nil, fmt.Errorf("unmarshal event payload: %w", err)
	}

	return event, nil
}

// DefaultRegistry returns a registry with every review event type registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register(EventVideoCreated, func() Event { return &VideoCreated{} })
	r.Register(EventVideoUpdated, func() Event { return &VideoUpdated{} })
	r.Register(EventVideoStatusChanged, func() Event { return &VideoStatusChanged{} })
	r.Register(EventVideoDeleted, func() Event { return &VideoDeleted{} })

	r.Register(EventCommentAdded, func() Event { return &CommentAdded{} })
	r.Register(EventCommentDeleted, func() Event { return &CommentDeleted{} })
	r.Register(EventApprovalRecorded, func() Event { return &ApprovalRecorded{} })
	r.Register(EventAnalyticsRecorded, func() Event { return &AnalyticsRecorded{} })

	r.Register(EventBoardNotice, func() Event { return &BoardNotice{} })

	return r
}

// Types returns the registered event types in no particular order.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.factories))
	for t := range r.factories {
		types = append(types, t)
	}
	return types
}
