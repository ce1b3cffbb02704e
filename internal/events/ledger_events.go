package events

import (
	"github.com/google/uuid"

	"equipment-rental/internal/entities"
)

const (
	EquipmentStatusChanged = "equipment.status.changed"
	ActivityRecorded       = "activity.recorded"
)

// EquipmentStatusChangedEvent is published after the transaction that appended
// Entry has committed. Total and Available are the counters right after it.
type EquipmentStatusChangedEvent struct {
	Entry     entities.EquipmentStatus
	Reference string
	Total     int
	Available int
}

func (e EquipmentStatusChangedEvent) Name() string {
	return EquipmentStatusChanged
}

// ActivityRecordedEvent describes a user action worth keeping in the activity log.
type ActivityRecordedEvent struct {
	ActorID     *uuid.UUID
	Action      string
	EntityType  string
	EntityID    *uuid.UUID
	Description string
}

func (e ActivityRecordedEvent) Name() string {
	return ActivityRecorded
}
