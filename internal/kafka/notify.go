package kafka

import (
	"encoding/json"

	"ms-calendar/internal/config"
	"ms-calendar/internal/models"
)

// publisher is the narrow surface Notifier needs from Producer. Tests swap in
// a recorder.
type publisher interface {
	Publish(topic string, key string, value []byte) error
}

// Notifier publishes domain events for the downstream notification dispatcher.
// Every method is fire-and-forget: errors bubble up so callers can log them,
// but no business operation depends on a publish succeeding.
type Notifier struct {
	producer publisher
	topics   config.TopicConfig
}

func NewNotifier(producer publisher, topics config.TopicConfig) *Notifier {
	return &Notifier{producer: producer, topics: topics}
}

func (n *Notifier) SubscriptionCreated(sub models.UserSubscription) error {
	return n.publish(n.topics.SubscriptionCreated, sub.UserID, sub)
}

func (n *Notifier) SubscriptionRemoved(sub models.UserSubscription) error {
	return n.publish(n.topics.SubscriptionRemoved, sub.UserID, sub)
}

func (n *Notifier) SubscriptionActivated(sub models.UserSubscription) error {
	return n.publish(n.topics.SubscriptionActivated, sub.UserID, sub)
}

func (n *Notifier) RSVPUpdated(resp models.UserEventResponse) error {
	return n.publish(n.topics.RSVPUpdated, resp.UserID, resp)
}

func (n *Notifier) publish(topic, key string, payload interface{}) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return n.producer.Publish(topic, key, value)
}
