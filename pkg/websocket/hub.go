package websocket

import (
	"context"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

type outbound struct {
	equipmentID uuid.UUID
	data        []byte
}

// Hub keeps the connected clients and routes each availability change to the
// clients watching that equipment. All client bookkeeping happens on the Run
// goroutine.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan outbound
	Register   chan *Client
	unregister chan *Client
	done       chan struct{}
	logger     *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan outbound, 64),
		Register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			for client := range h.clients {
				close(client.Send)
				delete(h.clients, client)
			}
			return
		case client := <-h.Register:
			h.clients[client] = true
			h.logger.Debug("websocket client registered", zap.String("userID", client.UserID.String()))
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				h.logger.Debug("websocket client left", zap.String("userID", client.UserID.String()))
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				if !client.Wants(message.equipmentID) {
					continue
				}
				select {
				case client.Send <- message.data:
				default:
					// slow consumer
					close(client.Send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// Broadcast queues a message about equipmentID (uuid.Nil for everyone). It
// never blocks the caller: when the queue is full the message is dropped.
func (h *Hub) Broadcast(equipmentID uuid.UUID, messageType string, payload interface{}) error {
	messageBytes, err := jsoniter.ConfigFastest.Marshal(Envelope{
		Type:      messageType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	select {
	case h.broadcast <- outbound{equipmentID: equipmentID, data: messageBytes}:
	default:
		h.logger.Warn("websocket broadcast queue full, message dropped", zap.String("type", messageType))
	}
	return nil
}
