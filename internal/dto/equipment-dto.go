package dto

import (
	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
)

type CreateEquipmentDTO struct {
	Name             string  `json:"name" validate:"required,max=255"`
	Reference        string  `json:"reference" validate:"omitempty,max=100"`
	Category         string  `json:"category" validate:"required,max=100"`
	Brand            *string `json:"brand,omitempty" validate:"omitempty,max=100"`
	Model            *string `json:"model,omitempty" validate:"omitempty,max=100"`
	Description      *string `json:"description,omitempty"`
	DailyRentalPrice float64 `json:"daily_rental_price" validate:"gte=0"`
	QuantityTotal    int     `json:"quantity_total" validate:"gte=0"`
}

// UpdateEquipmentDTO changes only the fields that are present. quantity_available
// is not accepted: it follows quantity_total through the ledger.
type UpdateEquipmentDTO struct {
	Name             null.String  `json:"name" validate:"omitempty,min=1,max=255"`
	Category         null.String  `json:"category" validate:"omitempty,min=1,max=100"`
	Brand            null.String  `json:"brand" validate:"omitempty,max=100"`
	Model            null.String  `json:"model" validate:"omitempty,max=100"`
	Description      null.String  `json:"description"`
	DailyRentalPrice null.Float64 `json:"daily_rental_price" validate:"omitempty,gte=0"`
	QuantityTotal    null.Int     `json:"quantity_total" validate:"omitempty,gte=0"`
}

type StatusOverrideDTO struct {
	Status               string     `json:"status" validate:"required,equipment_status"`
	Quantity             int        `json:"quantity" validate:"gte=0"`
	Notes                string     `json:"notes" validate:"max=1000"`
	RelatedEventID       *uuid.UUID `json:"related_event_id,omitempty"`
	RelatedMaintenanceID *uuid.UUID `json:"related_maintenance_id,omitempty"`
}

// AvailabilityDTO splits quantity_total into where the units are. Untracked is
// what manual EN_LOCATION overrides hold: committed units no reservation, ticket
// or maintenance override accounts for.
type AvailabilityDTO struct {
	EquipmentID       uuid.UUID `json:"equipment_id"`
	Reference         string    `json:"reference"`
	QuantityTotal     int       `json:"quantity_total"`
	QuantityAvailable int       `json:"quantity_available"`
	Reserved          int       `json:"reserved"`
	InMaintenance     int       `json:"in_maintenance"`
	Untracked         int       `json:"untracked"`
}
