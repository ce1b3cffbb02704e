package websocket

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// SubscribeRequest is the only message a client sends. It replaces the set of
// equipment the client watches; an empty list means every item.
type SubscribeRequest struct {
	Equipment []uuid.UUID `json:"equipment"`
}

// Client is one availability subscriber.
type Client struct {
	Hub    *Hub
	Conn   *websocket.Conn
	Send   chan []byte
	UserID uuid.UUID

	mu      sync.RWMutex
	watched map[uuid.UUID]struct{}
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID, equipment []uuid.UUID) *Client {
	c := &Client{
		Hub:    hub,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		UserID: userID,
	}
	c.Watch(equipment)
	return c
}

// Watch replaces the watched set.
func (c *Client) Watch(equipment []uuid.UUID) {
	watched := make(map[uuid.UUID]struct{}, len(equipment))
	for _, id := range equipment {
		watched[id] = struct{}{}
	}
	c.mu.Lock()
	c.watched = watched
	c.mu.Unlock()
}

// Wants reports whether a change to equipmentID should reach this client.
// uuid.Nil addresses every client.
func (c *Client) Wants(equipmentID uuid.UUID) bool {
	if equipmentID == uuid.Nil {
		return true
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.watched) == 0 {
		return true
	}
	_, ok := c.watched[equipmentID]
	return ok
}

func (c *Client) ReadPump() {
	defer func() {
		select {
		case c.Hub.unregister <- c:
		case <-c.Hub.done:
		}
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { return c.Conn.SetReadDeadline(time.Now().Add(pongWait)) })
	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Debug("websocket read failed", zap.Error(err))
			}
			return
		}

		var req SubscribeRequest
		if err := jsoniter.ConfigFastest.Unmarshal(data, &req); err != nil {
			c.Hub.logger.Debug("ignoring malformed subscribe request", zap.String("userID", c.UserID.String()))
			continue
		}
		c.Watch(req.Equipment)
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
