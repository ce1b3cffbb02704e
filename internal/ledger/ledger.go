// Package ledger holds the availability rules for rentable equipment.
//
// Every function works on an already locked entities.Equipment: it validates
// the request, mutates QuantityAvailable and returns the status entry the caller
// must append in the same transaction. Nothing here touches storage, so a
// rejected call leaves the equipment exactly as it was.
package ledger

import (
	"fmt"
	"strings"

	"equipment-rental/internal/entities"
	apperrors "equipment-rental/pkg/errors"
)

// MaintenancePolicy decides how many units a new maintenance ticket removes from the pool.
type MaintenancePolicy string

const (
	PolicyPerUnit  MaintenancePolicy = "per_unit"
	PolicyAllUnits MaintenancePolicy = "all_units"
)

// ParsePolicy maps a configured policy name to its MaintenancePolicy. An empty
// name means PolicyPerUnit; anything else unknown is an error.
func ParsePolicy(s string) (MaintenancePolicy, error) {
	switch p := MaintenancePolicy(strings.TrimSpace(s)); p {
	case "":
		return PolicyPerUnit, nil
	case PolicyPerUnit, PolicyAllUnits:
		return p, nil
	default:
		return "", fmt.Errorf("unknown maintenance policy %q, want %s or %s", s, PolicyPerUnit, PolicyAllUnits)
	}
}

const (
	noteInitialCreation = "Initial equipment creation"
	noteTotalIncreased  = "Total quantity increased"
	noteTotalDecreased  = "Total quantity decreased"
)

func entry(eq *entities.Equipment, kind entities.EquipmentStatusKind, quantity, delta int, notes string) entities.EquipmentStatus {
	return entities.EquipmentStatus{
		EquipmentID:    eq.ID,
		Status:         kind,
		Quantity:       quantity,
		AvailableDelta: delta,
		Notes:          notes,
	}
}

// restore adds up to q units back to the pool, never above the total, and
// returns how many were actually added.
func restore(eq *entities.Equipment, q int) int {
	room := eq.QuantityTotal - eq.QuantityAvailable
	if q > room {
		q = room
	}
	if q < 0 {
		q = 0
	}
	eq.QuantityAvailable += q
	clampOverrideHold(eq)
	return q
}

// clampOverrideHold keeps the manual maintenance hold within the committed
// units. It only bites when the counter had drifted.
func clampOverrideHold(eq *entities.Equipment) {
	if eq.QuantityOverrideHeld > eq.Committed() {
		eq.QuantityOverrideHeld = eq.Committed()
	}
	if eq.QuantityOverrideHeld < 0 {
		eq.QuantityOverrideHeld = 0
	}
}

func take(eq *entities.Equipment, q int) {
	eq.QuantityAvailable -= q
}

// Create initialises the counter of a new item: everything is available.
func Create(eq *entities.Equipment) (entities.EquipmentStatus, error) {
	if eq.QuantityTotal < 0 {
		return entities.EquipmentStatus{}, apperrors.NewValidationError("quantity_total must be >= 0, got %d", eq.QuantityTotal)
	}
	eq.QuantityAvailable = eq.QuantityTotal

	kind := entities.StatusDisponible
	if eq.QuantityTotal == 0 {
		kind = entities.StatusManquant
	}
	return entry(eq, kind, eq.QuantityTotal, eq.QuantityTotal, noteInitialCreation), nil
}

// AdjustTotal changes quantity_total while keeping every committed unit
// committed. It returns nil when the total does not change.
func AdjustTotal(eq *entities.Equipment, newTotal int) (*entities.EquipmentStatus, error) {
	if newTotal < 0 {
		return nil, apperrors.NewValidationError("quantity_total must be >= 0, got %d", newTotal)
	}
	committed := eq.Committed()
	if newTotal < committed {
		return nil, apperrors.NewValidationError(
			"quantity_total cannot drop to %d: %d units are reserved or in maintenance", newTotal, committed)
	}

	delta := newTotal - eq.QuantityTotal
	if delta == 0 {
		return nil, nil
	}
	eq.QuantityTotal = newTotal
	eq.QuantityAvailable += delta

	var e entities.EquipmentStatus
	if delta > 0 {
		e = entry(eq, entities.StatusDisponible, delta, delta, noteTotalIncreased)
	} else {
		e = entry(eq, entities.StatusManquant, -delta, delta, noteTotalDecreased)
	}
	return &e, nil
}

func clampNote(notes string, requested, applied int) string {
	if requested == applied {
		return notes
	}
	clamp := fmt.Sprintf("requested %d, applied %d", requested, applied)
	if notes == "" {
		return clamp
	}
	return notes + " (" + clamp + ")"
}
