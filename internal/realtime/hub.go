// Package realtime delivers notification payloads to connected WebSocket
// clients. Delivery is best-effort: publishing never blocks and never
// reports failure to the caller.
package realtime

import (
	"encoding/json"
	"fmt"
	"sync"

	"spentra/internal/logger"
)

// Publisher is the message-publishing contract the alert evaluator depends
// on. The in-process hub implements it; an external broker can be swapped
// in behind the same interface.
type Publisher interface {
	Publish(topic string, payload interface{})
}

// NotificationTopic returns the per-user notification topic name.
func NotificationTopic(userID string) string {
	return fmt.Sprintf("notifications_%s", userID)
}

// Hub fans published messages out to subscribed clients, grouped by topic.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[*Client]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subscribers: make(map[string]map[*Client]struct{})}
}

// Publish marshals payload to JSON and sends it to every client subscribed
// to topic. Clients whose send buffer is full are skipped; a topic with no
// subscribers is a no-op.
func (h *Hub) Publish(topic string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Get().Errorw("failed to marshal realtime payload", "topic", topic, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.subscribers[topic] {
		select {
		case client.send <- data:
		default:
			logger.Get().Warnw("dropping realtime message, slow client", "topic", topic)
		}
	}
}

// SubscriberCount returns the number of clients subscribed to topic.
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[topic])
}

func (h *Hub) subscribe(topic string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subscribers[topic] == nil {
		h.subscribers[topic] = make(map[*Client]struct{})
	}
	h.subscribers[topic][c] = struct{}{}
}

func (h *Hub) unsubscribe(topic string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.subscribers[topic]; ok {
		delete(clients, c)
		if len(clients) == 0 {
			delete(h.subscribers, topic)
		}
	}
}
