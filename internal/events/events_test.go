package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesSubscribers(t *testing.T) {
	bus := NewBus()

	var got []Event
	bus.Subscribe(TopicAttendanceUpdated, func(e Event) {
		got = append(got, e)
	})
	bus.Subscribe(TopicNotesChanged, func(e Event) {
		t.Fatal("handler for another topic must not fire")
	})

	bus.Publish(Event{Type: TopicAttendanceUpdated})

	require.Len(t, got, 1)
	assert.Equal(t, TopicAttendanceUpdated, got[0].Type)
	assert.False(t, got[0].CreatedAt.IsZero())
}

func TestPublishJSONCarriesPayload(t *testing.T) {
	bus := NewBus()

	var payload []byte
	bus.Subscribe(TopicShiftsChanged, func(e Event) {
		payload = e.Payload
	})

	bus.PublishJSON(TopicShiftsChanged, map[string]int{"count": 3})

	assert.JSONEq(t, `{"count":3}`, string(payload))
}

func TestPublishWithoutSubscribersIsNoop(t *testing.T) {
	bus := NewBus()
	assert.NotPanics(t, func() {
		bus.Publish(Event{Type: TopicNotesChanged})
	})
}
