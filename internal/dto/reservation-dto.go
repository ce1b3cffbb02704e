package dto

import (
	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
)

type CreateReservationDTO struct {
	EquipmentID uuid.UUID `json:"equipment_id" validate:"required"`
	Quantity    int       `json:"quantity" validate:"required,gte=1"`
	Notes       *string   `json:"notes,omitempty"`
}

type UpdateReservationDTO struct {
	QuantityReserved null.Int    `json:"quantity_reserved" validate:"omitempty,gte=1"`
	QuantityReturned null.Int    `json:"quantity_returned" validate:"omitempty,gte=0"`
	Status           null.String `json:"status" validate:"omitempty,reservation_status"`
	Notes            null.String `json:"notes"`
}

type ReturnEquipmentDTO struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}
