package entities

import (
	"time"

	"github.com/google/uuid"
)

type EquipmentStatusKind string

const (
	StatusDisponible    EquipmentStatusKind = "DISPONIBLE"
	StatusEnLocation    EquipmentStatusKind = "EN_LOCATION"
	StatusEnMaintenance EquipmentStatusKind = "EN_MAINTENANCE"
	StatusManquant      EquipmentStatusKind = "MANQUANT"
)

func (s EquipmentStatusKind) IsValid() bool {
	switch s {
	case StatusDisponible, StatusEnLocation, StatusEnMaintenance, StatusManquant:
		return true
	}
	return false
}

// EquipmentStatus is one append-only entry of an item's ledger. AvailableDelta
// is the signed change applied to quantity_available, so the deltas of an item
// sum to its current counter.
type EquipmentStatus struct {
	ID                   uuid.UUID           `json:"id" db:"id"`
	EquipmentID          uuid.UUID           `json:"equipment_id" db:"equipment_id"`
	Status               EquipmentStatusKind `json:"status" db:"status"`
	Quantity             int                 `json:"quantity" db:"quantity"`
	AvailableDelta       int                 `json:"available_delta" db:"available_delta"`
	RelatedEventID       *uuid.UUID          `json:"related_event_id,omitempty" db:"related_event_id"`
	RelatedMaintenanceID *uuid.UUID          `json:"related_maintenance_id,omitempty" db:"related_maintenance_id"`
	Notes                string              `json:"notes" db:"notes"`
	ChangedBy            *uuid.UUID          `json:"changed_by,omitempty" db:"changed_by"`
	ChangedAt            time.Time           `json:"changed_at" db:"changed_at"`
}
