package listeners

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"equipment-rental/internal/events"
	"equipment-rental/pkg/eventbus"
	"equipment-rental/pkg/mq"
)

type jsonPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// EquipmentStatusMessage is the body published on the ledger exchange.
type EquipmentStatusMessage struct {
	EntryID              uuid.UUID  `json:"entry_id"`
	EquipmentID          uuid.UUID  `json:"equipment_id"`
	Reference            string     `json:"reference"`
	Status               string     `json:"status"`
	Quantity             int        `json:"quantity"`
	AvailableDelta       int        `json:"available_delta"`
	QuantityTotal        int        `json:"quantity_total"`
	QuantityAvailable    int        `json:"quantity_available"`
	RelatedEventID       *uuid.UUID `json:"related_event_id,omitempty"`
	RelatedMaintenanceID *uuid.UUID `json:"related_maintenance_id,omitempty"`
	Notes                string     `json:"notes,omitempty"`
	ChangedAt            time.Time  `json:"changed_at"`
}

// MQListener forwards ledger changes to RabbitMQ. It is only registered when
// AMQP_URL is configured.
type MQListener struct {
	publisher jsonPublisher
	logger    *zap.Logger
}

func NewMQListener(publisher jsonPublisher, logger *zap.Logger) *MQListener {
	return &MQListener{publisher: publisher, logger: logger}
}

func (l *MQListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.EquipmentStatusChanged, l.handleStatusChanged)
	l.logger.Info("MQListener subscribed", zap.String("event", events.EquipmentStatusChanged))
}

func (l *MQListener) handleStatusChanged(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.EquipmentStatusChangedEvent)
	if !ok {
		return nil
	}
	msg := EquipmentStatusMessage{
		EntryID:              e.Entry.ID,
		EquipmentID:          e.Entry.EquipmentID,
		Reference:            e.Reference,
		Status:               string(e.Entry.Status),
		Quantity:             e.Entry.Quantity,
		AvailableDelta:       e.Entry.AvailableDelta,
		QuantityTotal:        e.Total,
		QuantityAvailable:    e.Available,
		RelatedEventID:       e.Entry.RelatedEventID,
		RelatedMaintenanceID: e.Entry.RelatedMaintenanceID,
		Notes:                e.Entry.Notes,
		ChangedAt:            e.Entry.ChangedAt,
	}
	return l.publisher.PublishJSON(ctx, mq.EquipmentStatusKey(msg.Status), msg)
}
