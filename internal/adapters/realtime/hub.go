package realtime

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/andrescamacho/voidfleet-go/internal/domain/game"
)

// EventSource is the turn event feed a hub relays. TurnEventBus satisfies it.
type EventSource interface {
	Subscribe(gameID string) <-chan game.TurnEvent
	Unsubscribe(gameID string, ch <-chan game.TurnEvent)
}

type HubConfig struct {
	// Outbound messages buffered per connection before events are dropped
	SendBuffer int

	// Largest frame accepted from a client
	MaxMessageSize int64
}

// Hub relays turn events to WebSocket clients. Each connection follows
// exactly one game for its whole lifetime.
type Hub struct {
	source   EventSource
	cfg      HubConfig
	log      *logrus.Entry
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*Client]struct{}
}

func NewHub(source EventSource, cfg HubConfig, log *logrus.Logger) *Hub {
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = 64
	}
	if cfg.MaxMessageSize <= 0 {
		cfg.MaxMessageSize = 4096
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Hub{
		source: source,
		cfg:    cfg,
		log:    log.WithField("component", "ws_hub"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*Client]struct{}),
	}
}

// ServeWS upgrades the request and streams gameID's events to it.
// The subscription is taken before the handshake so no event published after
// the client sees the upgrade response is missed.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, gameID string) error {
	events := h.source.Subscribe(gameID)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.source.Unsubscribe(gameID, events)
		return fmt.Errorf("websocket upgrade failed: %w", err)
	}

	c := newClient(h, conn, gameID, events)
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	h.log.WithFields(logrus.Fields{"game_id": gameID, "remote": conn.RemoteAddr().String()}).Info("client connected")

	go c.forward()
	go c.writePump()
	go c.readPump()
	return nil
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()

	if ok {
		// closes c.events, which ends forward and then writePump
		h.source.Unsubscribe(c.gameID, c.events)
		h.log.WithField("game_id", c.gameID).Info("client disconnected")
	}
}

func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close drops every connection; their pumps unregister themselves
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.conn.Close()
	}
}
