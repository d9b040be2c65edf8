package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcaster_PublishSubscribe(t *testing.T) {
	b := NewBroadcaster()
	ch1 := b.Subscribe()
	ch2 := b.Subscribe()
	defer b.Unsubscribe(ch1)
	defer b.Unsubscribe(ch2)

	assert.Equal(t, 2, b.Count())

	b.Publish(Event{Type: EventFileCreated, ID: "42"})

	for _, ch := range []chan Event{ch1, ch2} {
		ev := <-ch
		assert.Equal(t, EventFileCreated, ev.Type)
		assert.Equal(t, "42", ev.ID)
		assert.NotZero(t, ev.Timestamp)
	}
}

func TestBroadcaster_Unsubscribe(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Subscribe()
	b.Unsubscribe(ch)

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, b.Count())

	// second unsubscribe must not panic on a closed channel
	b.Unsubscribe(ch)
}

func TestBroadcaster_DropsForSlowConsumer(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	for i := 0; i < 100; i++ {
		b.Publish(Event{Type: EventUploadProgress})
	}
	require.Len(t, ch, cap(ch))
}
