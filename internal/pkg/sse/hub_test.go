package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesAllSubscribers(t *testing.T) {
	hub := NewHub()

	first, cleanupFirst := hub.Subscribe("anomalies")
	defer cleanupFirst()
	second, cleanupSecond := hub.Subscribe("anomalies")
	defer cleanupSecond()

	hub.Publish("anomalies", Event{Topic: "anomalies", Event: "anomaly.proposed", Data: "x"})

	for _, ch := range []chan Event{first, second} {
		select {
		case event := <-ch:
			assert.Equal(t, "anomaly.proposed", event.Event)
		default:
			t.Fatal("subscriber did not receive the event")
		}
	}
}

func TestHub_SubscriberCountTracksCleanup(t *testing.T) {
	hub := NewHub()
	require.Zero(t, hub.SubscriberCount("anomalies"))

	_, cleanupFirst := hub.Subscribe("anomalies")
	_, cleanupSecond := hub.Subscribe("anomalies")
	assert.Equal(t, 2, hub.SubscriberCount("anomalies"))

	cleanupFirst()
	assert.Equal(t, 1, hub.SubscriberCount("anomalies"))

	cleanupSecond()
	assert.Zero(t, hub.SubscriberCount("anomalies"))
}

func TestHub_PublishToFullSubscriberDoesNotBlock(t *testing.T) {
	hub := NewHub()

	ch, cleanup := hub.Subscribe("anomalies")
	defer cleanup()

	// The channel buffer holds 10 events; the extras are dropped
	// instead of blocking the publisher.
	for i := 0; i < 15; i++ {
		hub.Publish("anomalies", Event{Topic: "anomalies", Event: "anomaly.proposed"})
	}

	assert.Len(t, ch, 10)
}
