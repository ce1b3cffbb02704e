package ledger

import (
	"equipment-rental/internal/entities"
	apperrors "equipment-rental/pkg/errors"
)

// Override records a manual status change. EN_LOCATION and EN_MAINTENANCE take
// units (never below zero), DISPONIBLE gives units back (never above the
// total), MANQUANT only leaves a trace. The entry carries the quantity that was
// actually applied.
//
// EN_MAINTENANCE units are added to QuantityOverrideHeld and DISPONIBLE
// releases that hold first, so the item stays blocked for new reservations
// until the held units are declared available again.
func Override(eq *entities.Equipment, kind entities.EquipmentStatusKind, quantity int, notes string) (entities.EquipmentStatus, error) {
	if !kind.IsValid() {
		return entities.EquipmentStatus{}, apperrors.NewValidationError("unknown status %q", kind)
	}
	if quantity < 0 {
		return entities.EquipmentStatus{}, apperrors.NewValidationError("quantity must be >= 0, got %d", quantity)
	}
	if kind == entities.StatusEnLocation && quantity > eq.QuantityAvailable {
		return entities.EquipmentStatus{}, apperrors.NewValidationError(
			"cannot rent %d units of %s: only %d available", quantity, eq.Reference, eq.QuantityAvailable)
	}

	switch kind {
	case entities.StatusEnLocation, entities.StatusEnMaintenance:
		applied := quantity
		if applied > eq.QuantityAvailable {
			applied = eq.QuantityAvailable
		}
		take(eq, applied)
		if kind == entities.StatusEnMaintenance {
			eq.QuantityOverrideHeld += applied
		}
		return entry(eq, kind, applied, -applied, clampNote(notes, quantity, applied)), nil
	case entities.StatusDisponible:
		release := quantity
		if release > eq.QuantityOverrideHeld {
			release = eq.QuantityOverrideHeld
		}
		eq.QuantityOverrideHeld -= release
		applied := restore(eq, quantity)
		return entry(eq, kind, applied, applied, clampNote(notes, quantity, applied)), nil
	default:
		return entry(eq, kind, quantity, 0, notes), nil
	}
}
