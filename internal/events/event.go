// Package events carries pipeline progress from the archive orchestrator to
// the progress reporter and the run journal.
package events

import "time"

// Entity types.
const (
	EntityItem = "item" // id is the 1-based playlist index
	EntityRun  = "run"  // id is the journal run id
)

// Event is implemented by everything published on the Bus.
type Event interface {
	EventType() string
	EntityType() string
	EntityID() int64
	OccurredAt() time.Time
}

// BaseEvent provides common fields for all events.
type BaseEvent struct {
	Type      string    `json:"type"`
	Entity    string    `json:"entity_type"`
	ID        int64     `json:"entity_id"`
	Timestamp time.Time `json:"occurred_at"`
}

func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) EntityType() string    { return e.Entity }
func (e BaseEvent) EntityID() int64       { return e.ID }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// NewBaseEvent creates a BaseEvent stamped with the current time.
func NewBaseEvent(eventType, entityType string, entityID int64) BaseEvent {
	return BaseEvent{
		Type:      eventType,
		Entity:    entityType,
		ID:        entityID,
		Timestamp: time.Now(),
	}
}

// ItemEvent is shorthand for a BaseEvent about a playlist item.
func ItemEvent(eventType string, index int) BaseEvent {
	return NewBaseEvent(eventType, EntityItem, int64(index))
}

// RunEvent is shorthand for a BaseEvent about a run.
func RunEvent(eventType string, runID int64) BaseEvent {
	return NewBaseEvent(eventType, EntityRun, runID)
}
