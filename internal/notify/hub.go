package notify

import (
	"github.com/juju/pubsub/v2"
)

// changedTopic carries invalidation signals only. Subscribers get the user id
// whose notifications may have changed and are expected to re-fetch; no
// notification data travels on the hub.
const changedTopic = "notifications.changed"

// Hub fans out notification-change signals to every interested subscriber.
// It replaces ad-hoc cross-component signalling with one explicit
// subscription point; delivery is best effort and unordered.
type Hub struct {
	hub *pubsub.SimpleHub
}

func NewHub() *Hub {
	return &Hub{hub: pubsub.NewSimpleHub(nil)}
}

// Invalidate signals that the user's notifications may have changed. The
// returned channel closes once all current subscribers have run; callers
// normally ignore it.
func (h *Hub) Invalidate(userID string) <-chan struct{} {
	return pubsub.Wait(h.hub.Publish(changedTopic, userID))
}

// OnChange registers a handler for invalidation signals and returns its
// unsubscribe function. Callers must unsubscribe on teardown.
func (h *Hub) OnChange(fn func(userID string)) func() {
	return h.hub.Subscribe(changedTopic, func(_ string, data interface{}) {
		userID, ok := data.(string)
		if !ok {
			return
		}
		fn(userID)
	})
}
