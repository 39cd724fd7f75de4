package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_UnmarshalUnknownType(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.Unmarshal(RawEvent{EventType: "unknown.event", Payload: `{}`})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown event type")
}

func TestRegistry_UnmarshalInvalidJSON(t *testing.T) {
	registry := DefaultRegistry()

	_, err := registry.Unmarshal(RawEvent{EventType: EventItemSkipped, Payload: `{invalid json`})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal event payload")
}

func TestDefaultRegistry(t *testing.T) {
	registry := DefaultRegistry()

	eventTypes := []string{
		EventRunStarted,
		EventPlaylistListed,
		EventItemDownloadStarted,
		EventItemDownloadRetry,
		EventItemDownloaded,
		EventItemSkipped,
		EventFileUploadRetry,
		EventFileUploaded,
		EventItemCompleted,
		EventRunCompleted,
		EventRunAborted,
	}

	for _, eventType := range eventTypes {
		t.Run(eventType, func(t *testing.T) {
			raw := RawEvent{
				EventType: eventType,
				Payload:   `{"type":"` + eventType + `","entity_type":"item","entity_id":1,"occurred_at":"2024-01-01T00:00:00Z"}`,
			}
			event, err := registry.Unmarshal(raw)
			require.NoError(t, err, "failed to unmarshal %s", eventType)
			assert.Equal(t, eventType, event.EventType())
		})
	}
}

func TestRegistry_RoundTripThroughLog(t *testing.T) {
	db := setupTestDB(t)
	log := NewEventLog(db)

	_, err := log.Append(&FileUploaded{
		BaseEvent: ItemEvent(EventFileUploaded, 4),
		Index:     4,
		Path:      "/tmp/ytarchive-1/Mix/004 - Song.mp4",
		Key:       "music/004-song.mp4",
		Size:      2048,
		Attempts:  2,
	})
	require.NoError(t, err)

	raws, err := log.Recent(1)
	require.NoError(t, err)
	require.Len(t, raws, 1)

	event, err := DefaultRegistry().Unmarshal(raws[0])
	require.NoError(t, err)

	uploaded, ok := event.(*FileUploaded)
	require.True(t, ok)
	assert.Equal(t, "music/004-song.mp4", uploaded.Key)
	assert.Equal(t, int64(2048), uploaded.Size)
	assert.Equal(t, 2, uploaded.Attempts)
	assert.Equal(t, int64(4), uploaded.EntityID())
}
