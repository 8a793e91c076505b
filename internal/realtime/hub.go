package realtime

import (
	"sync"

	"github.com/wizix/pickem-pool/internal/platform/logging"
)

// Hub tracks connected websocket clients and fans broadcast payloads out to
// them. A client that cannot keep up with the broadcast rate is dropped
// rather than allowed to stall the hub.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	clients    map[*Client]struct{}
	logger     *logging.Logger

	done      chan struct{}
	closeOnce sync.Once

	countMu sync.RWMutex
	count   int
}

func NewHub(logger *logging.Logger) *Hub {
	if logger == nil {
		logger = logging.Default()
	}
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		clients:    make(map[*Client]struct{}),
		logger:     logger,
		done:       make(chan struct{}),
	}
}

// Run owns the client set. It must run in its own goroutine and exits when
// Close is called.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			h.setCount(0)
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.setCount(len(h.clients))
			h.logger.Debug("realtime client connected", "clients", len(h.clients))
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.setCount(len(h.clients))
				h.logger.Debug("realtime client disconnected", "clients", len(h.clients))
			}
		case payload := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- payload:
				default:
					delete(h.clients, c)
					close(c.send)
					h.setCount(len(h.clients))
					h.logger.Warn("realtime client dropped, send buffer full")
				}
			}
		}
	}
}

// Broadcast queues a payload for every connected client. Payloads are dropped
// when the hub is shutting down or saturated; realtime delivery is best
// effort on top of the polled API.
func (h *Hub) Broadcast(payload []byte) {
	select {
	case <-h.done:
	case h.broadcast <- payload:
	default:
		h.logger.Warn("realtime broadcast queue full, dropping payload")
	}
}

func (h *Hub) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
	})
}

func (h *Hub) ClientCount() int {
	h.countMu.RLock()
	defer h.countMu.RUnlock()
	return h.count
}

func (h *Hub) setCount(n int) {
	h.countMu.Lock()
	h.count = n
	h.countMu.Unlock()
}
