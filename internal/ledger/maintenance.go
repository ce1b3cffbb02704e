package ledger

import (
	"equipment-rental/internal/entities"
	apperrors "equipment-rental/pkg/errors"
)

const (
	noteMaintenanceOpened    = "Sent to maintenance"
	noteMaintenanceCompleted = "Maintenance completed"
	noteMaintenanceCancelled = "Maintenance ticket deleted"
)

// OpenMaintenance removes units from the pool for a new ticket and returns how
// many were held. The ticket must store that number.
func OpenMaintenance(eq *entities.Equipment, policy MaintenancePolicy) (int, entities.EquipmentStatus, error) {
	if eq.QuantityAvailable < 1 {
		return 0, entities.EquipmentStatus{}, apperrors.NewValidationError(
			"equipment %s has no available unit to send to maintenance", eq.Reference)
	}

	held := 1
	if policy == PolicyAllUnits {
		held = eq.QuantityAvailable
	}
	take(eq, held)
	return held, entry(eq, entities.StatusEnMaintenance, held, -held, noteMaintenanceOpened), nil
}

// CompleteMaintenance gives back what the ticket held, whatever the policy is now.
func CompleteMaintenance(eq *entities.Equipment, m *entities.Maintenance) (entities.EquipmentStatus, error) {
	return releaseHold(eq, m, noteMaintenanceCompleted)
}

// CancelMaintenance releases the hold of an open ticket that is being deleted.
func CancelMaintenance(eq *entities.Equipment, m *entities.Maintenance) (entities.EquipmentStatus, error) {
	return releaseHold(eq, m, noteMaintenanceCancelled)
}

func releaseHold(eq *entities.Equipment, m *entities.Maintenance, notes string) (entities.EquipmentStatus, error) {
	if !m.IsOpen() {
		return entities.EquipmentStatus{}, apperrors.NewValidationError("maintenance %s is already completed", m.ID)
	}
	applied := restore(eq, m.QuantityHeld)
	return entry(eq, entities.StatusDisponible, m.QuantityHeld, applied, notes), nil
}
