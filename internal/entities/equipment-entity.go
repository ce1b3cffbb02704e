package entities

import (
	"github.com/google/uuid"

	"equipment-rental/pkg/types"
)

// Equipment is a rentable inventory item. QuantityAvailable is only ever
// changed through the ledger rules and always stays within [0, QuantityTotal].
// QuantityOverrideHeld counts units put into maintenance by a manual status
// entry rather than a ticket; it never exceeds the committed units.
type Equipment struct {
	ID                uuid.UUID `json:"id" db:"id"`
	Name              string    `json:"name" db:"name"`
	Reference         string    `json:"reference" db:"reference"`
	Category          string    `json:"category" db:"category"`
	Brand             *string   `json:"brand,omitempty" db:"brand"`
	Model             *string   `json:"model,omitempty" db:"model"`
	Description       *string   `json:"description,omitempty" db:"description"`
	DailyRentalPrice  float64   `json:"daily_rental_price" db:"daily_rental_price"`
	QuantityTotal     int       `json:"quantity_total" db:"quantity_total"`
	QuantityAvailable int       `json:"quantity_available" db:"quantity_available"`
	// a field of its own so later unrelated entries cannot hide the hold
	QuantityOverrideHeld int `json:"quantity_override_held" db:"quantity_override_held"`

	types.BaseEntity

	StatusHistory []EquipmentStatus `json:"status_history,omitempty" db:"-"`
}

// Committed is the number of units currently out of the pool.
func (e Equipment) Committed() int {
	return e.QuantityTotal - e.QuantityAvailable
}

// UnderMaintenanceOverride reports whether manually held maintenance units
// are still out of the pool.
func (e Equipment) UnderMaintenanceOverride() bool {
	return e.QuantityOverrideHeld > 0
}
