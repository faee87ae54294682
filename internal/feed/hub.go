package feed

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"lorehub/internal/logging"
)

const (
	writeTimeout = 2 * time.Second
	sendBuffer   = 64
)

// Hub fans query events out to TCP and websocket subscribers. Publish only
// queues; each subscriber has its own writer goroutine.
type Hub struct {
	mu        sync.Mutex
	clients   map[net.Conn]*subscriber
	wsClients map[*websocket.Conn]*subscriber
	logger    *slog.Logger
}

type Stats struct {
	TCPClients int `json:"tcp_clients"`
	WSClients  int `json:"ws_clients"`
}

type subscriber struct {
	addr  string
	send  chan []byte
	done  chan struct{}
	once  sync.Once
	write func([]byte) error
	close func() error
}

func (s *subscriber) stop() {
	s.once.Do(func() {
		close(s.done)
		_ = s.close()
	})
}

func NewHub(logger *slog.Logger) *Hub {
	logger = logging.Default(logger)
	return &Hub{
		clients:   make(map[net.Conn]*subscriber),
		wsClients: make(map[*websocket.Conn]*subscriber),
		logger:    logger.With("component", "feed"),
	}
}

// Add subscribes conn. The first line it receives is a welcome.
func (h *Hub) Add(conn net.Conn) {
	sub := &subscriber{
		addr: conn.RemoteAddr().String(),
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
		write: func(b []byte) error {
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			_, err := conn.Write(b)
			return err
		},
		close: conn.Close,
	}

	h.mu.Lock()
	h.clients[conn] = sub
	sub.send <- h.welcomeLocked("tcp")
	h.mu.Unlock()

	go h.pump(sub, func() { h.Remove(conn) })
}

func (h *Hub) Remove(conn net.Conn) {
	h.mu.Lock()
	sub, ok := h.clients[conn]
	delete(h.clients, conn)
	h.mu.Unlock()
	if ok {
		sub.stop()
		return
	}
	_ = conn.Close()
}

// AddWS subscribes ws. The hub becomes its only writer.
func (h *Hub) AddWS(ws *websocket.Conn) {
	sub := &subscriber{
		addr: ws.RemoteAddr().String(),
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
		write: func(b []byte) error {
			_ = ws.SetWriteDeadline(time.Now().Add(writeTimeout))
			return ws.WriteMessage(websocket.TextMessage, b)
		},
		close: ws.Close,
	}

	h.mu.Lock()
	h.wsClients[ws] = sub
	sub.send <- h.welcomeLocked("websocket")
	h.mu.Unlock()

	go h.pump(sub, func() { h.RemoveWS(ws) })
}

func (h *Hub) RemoveWS(ws *websocket.Conn) {
	h.mu.Lock()
	sub, ok := h.wsClients[ws]
	delete(h.wsClients, ws)
	h.mu.Unlock()
	if ok {
		sub.stop()
		return
	}
	_ = ws.Close()
}

// pump writes queued messages until the subscriber is stopped or a write
// fails, in which case remove drops it.
func (h *Hub) pump(sub *subscriber, remove func()) {
	for {
		select {
		case <-sub.done:
			return
		case b := <-sub.send:
			if err := sub.write(b); err != nil {
				h.logger.Debug("dropping subscriber", "addr", sub.addr, "error", err)
				remove()
				return
			}
		}
	}
}

// Publish queues ev for every subscriber as one JSON line. It never waits
// on a subscriber socket; a subscriber whose queue is full misses the event.
func (h *Hub) Publish(ev QueryEvent) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	b, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("marshal event", "error", err)
		return
	}
	b = append(b, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, sub := range h.clients {
		h.enqueue(sub, b)
	}
	for _, sub := range h.wsClients {
		h.enqueue(sub, b)
	}
}

func (h *Hub) enqueue(sub *subscriber, b []byte) {
	select {
	case sub.send <- b:
	default:
		h.logger.Debug("subscriber lagging, event dropped", "addr", sub.addr)
	}
}

func (h *Hub) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Stats{
		TCPClients: len(h.clients),
		WSClients:  len(h.wsClients),
	}
}

// welcomeLocked expects h.mu to be held.
func (h *Hub) welcomeLocked(transport string) []byte {
	return []byte(fmt.Sprintf("{\"type\":\"welcome\",\"transport\":%q,\"clients\":%d}\n",
		transport, len(h.clients)+len(h.wsClients)))
}
