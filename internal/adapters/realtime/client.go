package realtime

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/andrescamacho/voidfleet-go/internal/domain/game"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Client is one WebSocket connection following a single game
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	gameID string
	events <-chan game.TurnEvent
	send   chan []byte
}

func newClient(hub *Hub, conn *websocket.Conn, gameID string, events <-chan game.TurnEvent) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		gameID: gameID,
		events: events,
		send:   make(chan []byte, hub.cfg.SendBuffer),
	}
}

// forward encodes bus events into the send buffer. A client too slow to
// drain its buffer loses events rather than stalling the others.
func (c *Client) forward() {
	defer close(c.send)
	for ev := range c.events {
		msg, err := json.Marshal(ev)
		if err != nil {
			c.hub.log.WithError(err).Warn("failed to encode turn event")
			continue
		}
		select {
		case c.send <- msg:
		default:
			c.hub.log.WithField("game_id", c.gameID).Warn("client send buffer full, dropping event")
		}
	}
}

// readPump only services control frames; clients have nothing to say after the handshake
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.hub.cfg.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.WithError(err).Debug("websocket read error")
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.hub.log.WithError(err).Debug("websocket write failed")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
