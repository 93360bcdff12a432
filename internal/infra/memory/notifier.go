package memory

import (
	"sync"

	"livequiz-service/internal/app"
	"livequiz-service/internal/domain"
)

// Hub is the in-process push transport: an implementation of
// app.Notifier that fans snapshots out to subscribed channels. Sends
// never block; when a subscriber's buffer is full the stale snapshot is
// dropped in favor of the fresh one, so slow clients only ever lag, they
// never stall a mutation.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[chan domain.Snapshot]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan domain.Snapshot]struct{})}
}

func topic(gameID string, to app.Recipient) string {
	key := gameID + "/" + string(to.Scope)
	if to.Scope == app.ScopePlayer {
		key += "/" + to.PlayerID
	}
	return key
}

// Subscribe registers one channel under every given recipient address.
// The caller must invoke the returned cancel function to avoid leaks.
func (h *Hub) Subscribe(gameID string, recipients ...app.Recipient) (<-chan domain.Snapshot, func()) {
	ch := make(chan domain.Snapshot, 8)
	topics := make([]string, 0, len(recipients))
	for _, to := range recipients {
		topics = append(topics, topic(gameID, to))
	}

	h.mu.Lock()
	for _, t := range topics {
		if h.subs[t] == nil {
			h.subs[t] = make(map[chan domain.Snapshot]struct{})
		}
		h.subs[t][ch] = struct{}{}
	}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			for _, t := range topics {
				if set, ok := h.subs[t]; ok {
					delete(set, ch)
					if len(set) == 0 {
						delete(h.subs, t)
					}
				}
			}
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Send delivers the snapshot to every subscriber of the recipient.
func (h *Hub) Send(gameID string, to app.Recipient, snap domain.Snapshot) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[topic(gameID, to)] {
		select {
		case ch <- snap:
		default:
			// drop the oldest queued snapshot, keep the freshest
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}
