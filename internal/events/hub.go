package events

import (
	"sync"

	"go.uber.org/zap"

	"github.com/interview-studio/backend/pkg/logger"
)

// Event is a notification pushed to connected clients of a topic, typically
// the owning user's id.
type Event struct {
	Type      string `json:"type"`
	TaskID    string `json:"task_id,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	Detail    string `json:"detail,omitempty"`
}

const (
	TypeRenderCompleted = "render_completed"
	TypeSessionReady    = "session_ready"
)

// Hub fans events out to per-topic subscribers. Slow subscribers are skipped
// rather than blocking the publisher.
type Hub struct {
	mu     sync.RWMutex
	topics map[string]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{topics: make(map[string]map[chan Event]struct{})}
}

func (h *Hub) Subscribe(topic string) chan Event {
	ch := make(chan Event, 16)
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.topics[topic]
	if !ok {
		subs = make(map[chan Event]struct{})
		h.topics[topic] = subs
	}
	subs[ch] = struct{}{}
	return ch
}

func (h *Hub) Unsubscribe(topic string, ch chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs, ok := h.topics[topic]; ok {
		delete(subs, ch)
		if len(subs) == 0 {
			delete(h.topics, topic)
		}
	}
	close(ch)
}

func (h *Hub) Publish(topic string, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.topics[topic] {
		select {
		case ch <- ev:
		default:
			logger.Warn("Dropping event for slow subscriber",
				zap.String("topic", topic),
				zap.String("type", ev.Type),
			)
		}
	}
}
