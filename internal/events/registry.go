package events

import (
	"encoding/json"
	"fmt"
)

// EventFactory creates a new zero-value event of a specific type.
type EventFactory func() Event

// Registry maps event types to factories so persisted payloads can be
// decoded back into their concrete types.
type Registry struct {
	factories map[string]EventFactory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]EventFactory)}
}

// Register adds an event type.
func (r *Registry) Register(eventType string, factory EventFactory) {
	r.factories[eventType] = factory
}

// Unmarshal decodes a raw event into its concrete type.
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

// DefaultRegistry knows every archive event type.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(EventRunStarted, func() Event { return &RunStarted{} })
	r.Register(EventPlaylistListed, func() Event { return &PlaylistListed{} })
	r.Register(EventItemDownloadStarted, func() Event { return &ItemDownloadStarted{} })
	r.Register(EventItemDownloadRetry, func() Event { return &ItemDownloadRetry{} })
	r.Register(EventItemDownloaded, func() Event { return &ItemDownloaded{} })
	r.Register(EventItemSkipped, func() Event { return &ItemSkipped{} })
	r.Register(EventFileUploadRetry, func() Event { return &FileUploadRetry{} })
	r.Register(EventFileUploaded, func() Event { return &FileUploaded{} })
	r.Register(EventItemCompleted, func() Event { return &ItemCompleted{} })
	r.Register(EventRunCompleted, func() Event { return &RunCompleted{} })
	r.Register(EventRunAborted, func() Event { return &RunAborted{} })
	return r
}
