// Package fanout implements multicast-update distribution: every
// authenticated connection can subscribe to receive MULTICAST_UPDATE
// frames, and a handler that changes shared state (a seat reservation, a
// price change, a vehicle update) publishes one frame that reaches every
// current subscriber.
//
// Grounded on the register/unregister/broadcast channel loop of
// internal/shared/ws.Hub in the retrieved ride-hailing corpus, adapted
// from a websocket JSON hub to the framed protocol.Message wire format
// and from HTTP upgrade connections to the raw transport.Conn this
// module's connections already are.
package fanout

import (
	"sync"

	"github.com/ap876/protokol-javni-prevoz/internal/logger"
	"github.com/ap876/protokol-javni-prevoz/internal/protocol"
)

// Subscriber is anything a hub can push a MULTICAST_UPDATE frame to. The
// dispatcher subscribes each authenticated *transport.Conn directly, which
// implements this interface.
type Subscriber interface {
	ID() string
	Send(m *protocol.Message) error
}

// Hub tracks every subscribed connection and fans MULTICAST_UPDATE frames
// out to all of them. Unlike ws.Hub it has no goroutine of its own:
// Subscribe/Unsubscribe/Publish all take the lock directly, since sends
// here are already synchronous per-connection writes guarded by
// transport.Conn's own write mutex, not queued through a per-client
// buffered channel.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]Subscriber
	log  *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{subs: make(map[string]Subscriber), log: log}
}

func (h *Hub) Subscribe(s Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subs[s.ID()] = s
}

func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, id)
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Publish sends a MULTICAST_UPDATE frame to every current subscriber. A
// subscriber whose Send fails is dropped from the hub immediately — the
// connection is presumed dead, and a broken multicast target is pruned
// rather than retried.
func (h *Hub) Publish(updateType string, data map[string]string) {
	msg := protocol.NewMulticastUpdate(updateType, data)

	h.mu.Lock()
	defer h.mu.Unlock()

	for id, sub := range h.subs {
		if err := sub.Send(msg); err != nil {
			delete(h.subs, id)
			h.log.Warn(logger.Entry{
				Action:  "fanout_send_failed",
				Message: "dropping dead subscriber",
				ConnID:  id,
				Error:   &logger.ErrObj{Msg: err.Error()},
			})
		}
	}
}
