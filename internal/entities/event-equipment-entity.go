package entities

import (
	"github.com/google/uuid"

	"equipment-rental/pkg/types"
)

type ReservationStatus string

const (
	ReservationReserve  ReservationStatus = "RESERVE"
	ReservationLivre    ReservationStatus = "LIVRE"
	ReservationRetourne ReservationStatus = "RETOURNE"
)

func (s ReservationStatus) IsValid() bool {
	switch s {
	case ReservationReserve, ReservationLivre, ReservationRetourne:
		return true
	}
	return false
}

// EventEquipment is a reservation of an equipment quantity for one event.
// There is at most one per (event, equipment).
type EventEquipment struct {
	ID               uuid.UUID         `json:"id" db:"id"`
	EventID          uuid.UUID         `json:"event_id" db:"event_id"`
	EquipmentID      uuid.UUID         `json:"equipment_id" db:"equipment_id"`
	QuantityReserved int               `json:"quantity_reserved" db:"quantity_reserved"`
	QuantityReturned int               `json:"quantity_returned" db:"quantity_returned"`
	Status           ReservationStatus `json:"status" db:"status"`
	Notes            *string           `json:"notes,omitempty" db:"notes"`

	types.BaseEntity

	EquipmentName      string `json:"equipment_name,omitempty" db:"-"`
	EquipmentReference string `json:"equipment_reference,omitempty" db:"-"`
}

// Outstanding is the quantity still out with the client.
func (r EventEquipment) Outstanding() int {
	return r.QuantityReserved - r.QuantityReturned
}
