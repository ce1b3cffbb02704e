package entities

import (
	"time"

	"github.com/google/uuid"
)

type ActivityLog struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	UserID      *uuid.UUID `json:"user_id,omitempty" db:"user_id"`
	Action      string     `json:"action" db:"action"`
	EntityType  string     `json:"entity_type" db:"entity_type"`
	EntityID    *uuid.UUID `json:"entity_id,omitempty" db:"entity_id"`
	Description string     `json:"description" db:"description"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}
