package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesTopicSubscribers(t *testing.T) {
	h := NewHub()
	a, cleanupA := h.Subscribe("dashboard")
	defer cleanupA()
	other, cleanupOther := h.Subscribe("other")
	defer cleanupOther()

	h.Publish("dashboard", Event{Event: "rotation", Data: 1})

	select {
	case ev := <-a:
		assert.Equal(t, "rotation", ev.Event)
		assert.Equal(t, "dashboard", ev.Topic)
	default:
		t.Fatal("expected an event")
	}
	select {
	case <-other:
		t.Fatal("other topic must not receive the event")
	default:
	}
}

func TestHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	h := NewHub()
	_, cleanup := h.Subscribe("dashboard")
	defer cleanup()

	for i := 0; i < 100; i++ {
		h.Publish("dashboard", Event{Event: "progress", Data: i})
	}
	assert.Equal(t, 1, h.SubscriberCount("dashboard"))
}

func TestHub_CleanupIsIdempotent(t *testing.T) {
	h := NewHub()
	ch, cleanup := h.Subscribe("dashboard")
	_, cleanup2 := h.Subscribe("dashboard")
	require.Equal(t, 2, h.TotalSubscribers())

	cleanup()
	cleanup()
	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 1, h.SubscriberCount("dashboard"))

	cleanup2()
	assert.Equal(t, 0, h.TotalSubscribers())
}
