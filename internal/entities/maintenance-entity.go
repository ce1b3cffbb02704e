package entities

import (
	"time"

	"github.com/google/uuid"

	"equipment-rental/pkg/types"
)

type MaintenancePriority string

const (
	PriorityBasse   MaintenancePriority = "BASSE"
	PriorityMoyenne MaintenancePriority = "MOYENNE"
	PriorityHaute   MaintenancePriority = "HAUTE"
)

type MaintenanceStatus string

const (
	MaintenanceEnAttente MaintenanceStatus = "EN_ATTENTE"
	MaintenanceEnCours   MaintenanceStatus = "EN_COURS"
	MaintenanceTermine   MaintenanceStatus = "TERMINE"
)

type Maintenance struct {
	ID                  uuid.UUID           `json:"id" db:"id"`
	EquipmentID         uuid.UUID           `json:"equipment_id" db:"equipment_id"`
	ProblemDescription  string              `json:"problem_description" db:"problem_description"`
	TechnicianID        *uuid.UUID          `json:"technician_id,omitempty" db:"technician_id"`
	Priority            MaintenancePriority `json:"priority" db:"priority"`
	Status              MaintenanceStatus   `json:"status" db:"status"`
	QuantityHeld        int                 `json:"quantity_held" db:"quantity_held"`
	StartDate           time.Time           `json:"start_date" db:"start_date"`
	ExpectedEndDate     *time.Time          `json:"expected_end_date,omitempty" db:"expected_end_date"`
	ActualEndDate       *time.Time          `json:"actual_end_date,omitempty" db:"actual_end_date"`
	Cost                *float64            `json:"cost,omitempty" db:"cost"`
	SolutionDescription *string             `json:"solution_description,omitempty" db:"solution_description"`

	types.BaseEntity

	Logs []MaintenanceLog `json:"logs,omitempty" db:"-"`
}

func (m Maintenance) IsOpen() bool {
	return m.Status != MaintenanceTermine
}

type MaintenanceLogType string

const (
	MaintenanceLogComment      MaintenanceLogType = "COMMENT"
	MaintenanceLogStatusChange MaintenanceLogType = "STATUS_CHANGE"
)

type MaintenanceLog struct {
	ID            uuid.UUID          `json:"id" db:"id"`
	MaintenanceID uuid.UUID          `json:"maintenance_id" db:"maintenance_id"`
	UserID        *uuid.UUID         `json:"user_id,omitempty" db:"user_id"`
	Content       string             `json:"content" db:"content"`
	Type          MaintenanceLogType `json:"type" db:"type"`
	CreatedAt     time.Time          `json:"created_at" db:"created_at"`
}
