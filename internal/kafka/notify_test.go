package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-calendar/internal/config"
	"ms-calendar/internal/models"
)

type recordedMessage struct {
	topic string
	key   string
	value []byte
}

type recordingPublisher struct {
	messages []recordedMessage
	err      error
}

func (r *recordingPublisher) Publish(topic, key string, value []byte) error {
	if r.err != nil {
		return r.err
	}
	r.messages = append(r.messages, recordedMessage{topic: topic, key: key, value: value})
	return nil
}

func testTopics() config.TopicConfig {
	return config.TopicConfig{
		SubscriptionCreated:   "agora.subscription.created",
		SubscriptionRemoved:   "agora.subscription.removed",
		SubscriptionActivated: "agora.subscription.activated",
		RSVPUpdated:           "agora.rsvp.updated",
	}
}

func TestNotifierRoutesToTopics(t *testing.T) {
	rec := &recordingPublisher{}
	n := NewNotifier(rec, testTopics())

	sub := models.UserSubscription{ID: "sub1", UserID: "user1", Subsector: "Banking"}
	resp := models.UserEventResponse{ID: "r1", UserID: "user1", EventID: "evt1", ResponseStatus: models.ResponseAccepted, ResponseDate: time.Now()}

	require.NoError(t, n.SubscriptionCreated(sub))
	require.NoError(t, n.SubscriptionRemoved(sub))
	require.NoError(t, n.SubscriptionActivated(sub))
	require.NoError(t, n.RSVPUpdated(resp))

	require.Len(t, rec.messages, 4)
	assert.Equal(t, "agora.subscription.created", rec.messages[0].topic)
	assert.Equal(t, "agora.subscription.removed", rec.messages[1].topic)
	assert.Equal(t, "agora.subscription.activated", rec.messages[2].topic)
	assert.Equal(t, "agora.rsvp.updated", rec.messages[3].topic)

	// Messages are keyed by user so one user's events stay ordered.
	for _, msg := range rec.messages {
		assert.Equal(t, "user1", msg.key)
	}
}

func TestNotifierPayloadIsJSON(t *testing.T) {
	rec := &recordingPublisher{}
	n := NewNotifier(rec, testTopics())

	sub := models.UserSubscription{ID: "sub1", UserID: "user1", Subsector: "Banking"}
	require.NoError(t, n.SubscriptionCreated(sub))

	var decoded models.UserSubscription
	require.NoError(t, json.Unmarshal(rec.messages[0].value, &decoded))
	assert.Equal(t, "sub1", decoded.ID)
	assert.Equal(t, "Banking", decoded.Subsector)
}

func TestNotifierPropagatesPublishError(t *testing.T) {
	rec := &recordingPublisher{err: assert.AnError}
	n := NewNotifier(rec, testTopics())

	err := n.SubscriptionCreated(models.UserSubscription{ID: "sub1", UserID: "user1"})
	assert.ErrorIs(t, err, assert.AnError)
}
