package entities

import (
	"time"

	"github.com/google/uuid"

	"equipment-rental/pkg/types"
)

type EventCategory string

const (
	EventCategorySon     EventCategory = "SON"
	EventCategoryVideo   EventCategory = "VIDEO"
	EventCategoryLumiere EventCategory = "LUMIERE"
	EventCategoryMixte   EventCategory = "MIXTE"
)

type EventStatus string

const (
	EventPlanifie EventStatus = "PLANIFIE"
	EventEnCours  EventStatus = "EN_COURS"
	EventTermine  EventStatus = "TERMINE"
	EventAnnule   EventStatus = "ANNULE"
)

type Event struct {
	ID               uuid.UUID     `json:"id" db:"id"`
	EventName        string        `json:"event_name" db:"event_name"`
	ClientName       string        `json:"client_name" db:"client_name"`
	ContactPerson    *string       `json:"contact_person,omitempty" db:"contact_person"`
	Phone            *string       `json:"phone,omitempty" db:"phone"`
	Email            *string       `json:"email,omitempty" db:"email"`
	Address          *string       `json:"address,omitempty" db:"address"`
	InstallationDate time.Time     `json:"installation_date" db:"installation_date"`
	EventDate        time.Time     `json:"event_date" db:"event_date"`
	DismantlingDate  time.Time     `json:"dismantling_date" db:"dismantling_date"`
	Category         EventCategory `json:"category" db:"category"`
	Status           EventStatus   `json:"status" db:"status"`
	Notes            *string       `json:"notes,omitempty" db:"notes"`
	CreatedBy        *uuid.UUID    `json:"created_by,omitempty" db:"created_by"`

	types.BaseEntity

	Equipment []EventEquipment `json:"equipment,omitempty" db:"-"`
}

// AcceptsReservations is false once the event is finished or cancelled.
func (e Event) AcceptsReservations() bool {
	return e.Status != EventTermine && e.Status != EventAnnule
}

// CanTransition allows PLANIFIE -> EN_COURS -> TERMINE, and ANNULE from any
// state that is not final. Staying in the same status is always allowed.
func (s EventStatus) CanTransition(to EventStatus) bool {
	if s == to {
		return true
	}
	switch s {
	case EventPlanifie:
		return to == EventEnCours || to == EventAnnule
	case EventEnCours:
		return to == EventTermine || to == EventAnnule
	default:
		return false
	}
}
