package listeners

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"equipment-rental/internal/events"
	"equipment-rental/pkg/eventbus"
	"equipment-rental/pkg/websocket"
)

type broadcaster interface {
	Broadcast(equipmentID uuid.UUID, messageType string, payload interface{}) error
}

// AvailabilityListener pushes every committed ledger change to the websocket
// clients watching that equipment.
type AvailabilityListener struct {
	hub    broadcaster
	logger *zap.Logger
}

func NewAvailabilityListener(hub broadcaster, logger *zap.Logger) *AvailabilityListener {
	return &AvailabilityListener{hub: hub, logger: logger}
}

func (l *AvailabilityListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.EquipmentStatusChanged, l.handleStatusChanged)
	l.logger.Info("AvailabilityListener subscribed", zap.String("event", events.EquipmentStatusChanged))
}

func (l *AvailabilityListener) handleStatusChanged(_ context.Context, event eventbus.Event) error {
	e, ok := event.(events.EquipmentStatusChangedEvent)
	if !ok {
		return nil
	}

	payload := websocket.AvailabilityPayload{
		EquipmentID:       e.Entry.EquipmentID.String(),
		Reference:         e.Reference,
		Status:            string(e.Entry.Status),
		Quantity:          e.Entry.Quantity,
		QuantityTotal:     e.Total,
		QuantityAvailable: e.Available,
	}
	if e.Entry.RelatedEventID != nil {
		payload.RelatedEventID = e.Entry.RelatedEventID.String()
	}
	return l.hub.Broadcast(e.Entry.EquipmentID, websocket.MessageAvailabilityChanged, payload)
}
