package entities

import (
	"github.com/google/uuid"

	"equipment-rental/pkg/types"
)

const (
	RoleAdmin       = "ADMIN"
	RoleMaintenance = "MAINTENANCE"
	RoleTechnicien  = "TECHNICIEN"
	RoleCommercial  = "COMMERCIAL"
)

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	FullName     string    `json:"full_name" db:"full_name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	IsActive     bool      `json:"is_active" db:"is_active"`

	types.BaseEntity
}
