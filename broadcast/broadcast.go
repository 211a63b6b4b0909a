// Package broadcast is a minimal in-process fan-out used for cross-component
// notifications such as cart changes. Delivery is fire-and-forget: sends
// never block and late subscribers miss earlier signals.
package broadcast

import "sync"

type Hub struct {
	mu   sync.Mutex
	subs []chan struct{}
}

func New() *Hub {
	return &Hub{}
}

// Subscribe returns a channel that receives one signal per Notify. The
// channel is buffered; a subscriber that falls behind drops signals rather
// than blocking the sender.
func (h *Hub) Subscribe() <-chan struct{} {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan struct{}, 1)
	h.subs = append(h.subs, ch)
	return ch
}

func (h *Hub) Notify() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
