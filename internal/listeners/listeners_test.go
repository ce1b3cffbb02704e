package listeners

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"equipment-rental/internal/entities"
	"equipment-rental/internal/events"
	"equipment-rental/pkg/eventbus"
	"equipment-rental/pkg/websocket"
)

type recordingActivityRepo struct {
	mu   sync.Mutex
	logs []entities.ActivityLog
}

func (r *recordingActivityRepo) Create(_ context.Context, log *entities.ActivityLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, *log)
	return nil
}

type recordingHub struct {
	mu       sync.Mutex
	targets  []uuid.UUID
	types    []string
	payloads []interface{}
}

func (h *recordingHub) Broadcast(equipmentID uuid.UUID, messageType string, payload interface{}) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.targets = append(h.targets, equipmentID)
	h.types = append(h.types, messageType)
	h.payloads = append(h.payloads, payload)
	return nil
}

type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
	msgs []any
}

func (p *recordingPublisher) PublishJSON(_ context.Context, key string, v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	p.msgs = append(p.msgs, v)
	return nil
}

func statusChanged() events.EquipmentStatusChangedEvent {
	eventID := uuid.New()
	return events.EquipmentStatusChangedEvent{
		Entry: entities.EquipmentStatus{
			ID:             uuid.New(),
			EquipmentID:    uuid.New(),
			Status:         entities.StatusEnLocation,
			Quantity:       5,
			AvailableDelta: -5,
			RelatedEventID: &eventID,
		},
		Reference: "EQ-SON-001",
		Total:     10,
		Available: 3,
	}
}

func TestListenersReceiveLedgerEvents(t *testing.T) {
	logger := zap.NewNop()
	bus := eventbus.New(logger)

	activity := &recordingActivityRepo{}
	hub := &recordingHub{}
	publisher := &recordingPublisher{}
	NewActivityListener(activity, logger).Register(bus)
	NewAvailabilityListener(hub, logger).Register(bus)
	NewMQListener(publisher, logger).Register(bus)

	change := statusChanged()
	actor := uuid.New()
	bus.Publish(context.Background(), change)
	bus.Publish(context.Background(), events.ActivityRecordedEvent{
		ActorID:     &actor,
		Action:      "RESERVE",
		EntityType:  "reservation",
		EntityID:    &change.Entry.ID,
		Description: "5 x EQ-SON-001 reserved",
	})
	bus.Wait()

	require.Len(t, activity.logs, 1)
	assert.Equal(t, "RESERVE", activity.logs[0].Action)
	assert.Equal(t, &actor, activity.logs[0].UserID)

	require.Len(t, hub.payloads, 1)
	assert.Equal(t, websocket.MessageAvailabilityChanged, hub.types[0])
	assert.Equal(t, change.Entry.EquipmentID, hub.targets[0])
	payload := hub.payloads[0].(websocket.AvailabilityPayload)
	assert.Equal(t, "EQ-SON-001", payload.Reference)
	assert.Equal(t, 3, payload.QuantityAvailable)
	assert.Equal(t, change.Entry.RelatedEventID.String(), payload.RelatedEventID)

	require.Len(t, publisher.keys, 1)
	assert.Equal(t, "equipment.status.en_location", publisher.keys[0])
	msg := publisher.msgs[0].(EquipmentStatusMessage)
	assert.Equal(t, -5, msg.AvailableDelta)
	assert.Equal(t, 10, msg.QuantityTotal)
}
