package dto

import (
	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
)

type CreateMaintenanceDTO struct {
	EquipmentID        uuid.UUID  `json:"equipment_id" validate:"required"`
	ProblemDescription string     `json:"problem_description" validate:"required"`
	TechnicianID       *uuid.UUID `json:"technician_id,omitempty"`
	Priority           string     `json:"priority" validate:"omitempty,oneof=BASSE MOYENNE HAUTE"`
	ExpectedEndDate    string     `json:"expected_end_date" validate:"omitempty,ymd_date"`
	Cost               *float64   `json:"cost,omitempty" validate:"omitempty,gte=0"`
}

// UpdateMaintenanceDTO never completes a ticket; that goes through the complete endpoint.
type UpdateMaintenanceDTO struct {
	ProblemDescription  null.String  `json:"problem_description" validate:"omitempty,min=1"`
	TechnicianID        *uuid.UUID   `json:"technician_id,omitempty"`
	Priority            null.String  `json:"priority" validate:"omitempty,oneof=BASSE MOYENNE HAUTE"`
	Status              null.String  `json:"status" validate:"omitempty,oneof=EN_ATTENTE EN_COURS"`
	ExpectedEndDate     null.String  `json:"expected_end_date" validate:"omitempty,ymd_date"`
	Cost                null.Float64 `json:"cost" validate:"omitempty,gte=0"`
	SolutionDescription null.String  `json:"solution_description"`
}

type CompleteMaintenanceDTO struct {
	SolutionDescription *string  `json:"solution_description,omitempty"`
	Cost                *float64 `json:"cost,omitempty" validate:"omitempty,gte=0"`
}

type CreateMaintenanceLogDTO struct {
	Content string `json:"content" validate:"required,max=2000"`
}
