package gateway

import (
	"log/slog"
	"sync"
	"time"

	"study-auth/app/domain"
)

// subscriberBuffer is sized so a briefly slow consumer does not force the
// hub to drop transitions during a login burst.
const subscriberBuffer = 16

// SessionEventHub implements port.SessionEvents as an in-process typed
// broadcast channel. Events carry a monotonically increasing sequence
// number assigned at publish time, so consumers can order notifications
// without timing assumptions.
type SessionEventHub struct {
	mu          sync.Mutex
	subscribers map[uint64]chan domain.SessionEvent
	nextID      uint64
	seq         uint64
	logger      *slog.Logger
}

// NewSessionEventHub creates a new broadcast hub.
func NewSessionEventHub(logger *slog.Logger) *SessionEventHub {
	return &SessionEventHub{
		subscribers: make(map[uint64]chan domain.SessionEvent),
		logger:      logger.With("component", "session_event_hub"),
	}
}

// Publish delivers an event to every subscriber. Delivery is non-blocking:
// a subscriber whose buffer is full loses the event, which is acceptable
// because consumers reconcile from the latest state rather than replaying
// history.
func (h *SessionEventHub) Publish(event domain.SessionEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.seq++
	event.Seq = h.seq
	if event.At.IsZero() {
		event.At = time.Now()
	}

	for id, ch := range h.subscribers {
		select {
		case ch <- event:
		default:
			h.logger.Warn("dropping session event for slow subscriber",
				"subscriber_id", id,
				"event_type", event.Type,
				"seq", event.Seq)
		}
	}
}

// Subscribe registers a new subscriber and returns its channel together
// with a cancel function. The cancel function is idempotent.
func (h *SessionEventHub) Subscribe() (<-chan domain.SessionEvent, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan domain.SessionEvent, subscriberBuffer)
	h.subscribers[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if sub, ok := h.subscribers[id]; ok {
				delete(h.subscribers, id)
				close(sub)
			}
		})
	}

	return ch, cancel
}

// SubscriberCount returns the number of active subscribers.
func (h *SessionEventHub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.subscribers)
}
