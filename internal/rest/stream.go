package rest

import (
	"sync"

	"github.com/Guyuepp/recipe-engagement/domain"
)

// badgeHub turns the single notification subscription into per-user wake-ups
// for open SSE connections.
type badgeHub struct {
	mu        sync.Mutex
	listeners map[int64]map[chan struct{}]struct{}

	done      chan struct{}
	closeOnce sync.Once
}

func newBadgeHub() *badgeHub {
	return &badgeHub{
		listeners: make(map[int64]map[chan struct{}]struct{}),
		done:      make(chan struct{}),
	}
}

// close ends every open stream.
func (h *badgeHub) close() {
	h.closeOnce.Do(func() { close(h.done) })
}

func (h *badgeHub) listen(userID int64) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	h.mu.Lock()
	set, ok := h.listeners[userID]
	if !ok {
		set = make(map[chan struct{}]struct{})
		h.listeners[userID] = set
	}
	set[ch] = struct{}{}
	h.mu.Unlock()

	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(set, ch)
		if len(set) == 0 {
			delete(h.listeners, userID)
		}
	}
}

// notify never blocks; a listener with a pending wake-up already has one.
func (h *badgeHub) notify(n domain.Notification) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.listeners[n.RecipientID] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	return nil
}
