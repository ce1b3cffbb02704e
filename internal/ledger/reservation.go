package ledger

import (
	"equipment-rental/internal/entities"
	apperrors "equipment-rental/pkg/errors"
)

const (
	noteReservation        = "Reserved for event"
	noteReservationRaised  = "Reservation quantity increased"
	noteReservationReduced = "Reservation quantity reduced"
	notePartialReturn      = "Partial return"
	noteFullReturn         = "Returned from event"
	noteReturnCorrection   = "Return corrected, units back out"
	noteReservationRemoved = "Reservation removed"
)

// Reserve takes quantity units for a new reservation.
// maintenanceOutstanding must be true when the item has an open ticket or
// units held by a manual EN_MAINTENANCE entry.
func Reserve(eq *entities.Equipment, quantity int, maintenanceOutstanding bool) (entities.EquipmentStatus, error) {
	if quantity < 1 {
		return entities.EquipmentStatus{}, apperrors.NewValidationError("quantity must be at least 1, got %d", quantity)
	}
	if maintenanceOutstanding {
		return entities.EquipmentStatus{}, apperrors.NewValidationError(
			"equipment %s is under maintenance and cannot be reserved", eq.Reference)
	}
	if quantity > eq.QuantityAvailable {
		return entities.EquipmentStatus{}, apperrors.NewValidationError(
			"insufficient stock for %s: requested %d, available %d", eq.Reference, quantity, eq.QuantityAvailable)
	}

	take(eq, quantity)
	return entry(eq, entities.StatusEnLocation, quantity, -quantity, noteReservation), nil
}

// ChangeReserved moves quantity_reserved of res to newReserved. Raising it is a
// new allocation and follows the Reserve preconditions. Returns nil when nothing changes.
func ChangeReserved(eq *entities.Equipment, res *entities.EventEquipment, newReserved int, maintenanceOutstanding bool) (*entities.EquipmentStatus, error) {
	if newReserved < 1 {
		return nil, apperrors.NewValidationError("quantity_reserved must be at least 1, got %d", newReserved)
	}
	if newReserved < res.QuantityReturned {
		return nil, apperrors.NewValidationError(
			"quantity_reserved (%d) cannot be lower than quantity_returned (%d)", newReserved, res.QuantityReturned)
	}

	delta := newReserved - res.QuantityReserved
	if delta == 0 {
		return nil, nil
	}

	var e entities.EquipmentStatus
	if delta > 0 {
		if maintenanceOutstanding {
			return nil, apperrors.NewValidationError(
				"equipment %s is under maintenance and cannot be reserved", eq.Reference)
		}
		if delta > eq.QuantityAvailable {
			return nil, apperrors.NewValidationError(
				"insufficient stock for %s: %d more requested, available %d", eq.Reference, delta, eq.QuantityAvailable)
		}
		take(eq, delta)
		e = entry(eq, entities.StatusEnLocation, delta, -delta, noteReservationRaised)
	} else {
		applied := restore(eq, -delta)
		e = entry(eq, entities.StatusDisponible, -delta, applied, noteReservationReduced)
	}

	res.QuantityReserved = newReserved
	syncReservationStatus(res)
	return &e, nil
}

// ChangeReturned sets quantity_returned directly. An increase is processed as
// a return of the difference, a decrease re-issues units to the event and is
// refused while maintenance is outstanding, like any other allocation.
func ChangeReturned(eq *entities.Equipment, res *entities.EventEquipment, newReturned int, maintenanceOutstanding bool) (*entities.EquipmentStatus, error) {
	if newReturned < 0 {
		return nil, apperrors.NewValidationError("quantity_returned must be >= 0, got %d", newReturned)
	}
	if newReturned > res.QuantityReserved {
		return nil, apperrors.NewValidationError(
			"quantity_returned (%d) cannot exceed quantity_reserved (%d)", newReturned, res.QuantityReserved)
	}

	delta := newReturned - res.QuantityReturned
	switch {
	case delta == 0:
		return nil, nil
	case delta > 0:
		e, err := Return(eq, res, delta)
		if err != nil {
			return nil, err
		}
		return &e, nil
	}

	reissue := -delta
	if maintenanceOutstanding {
		return nil, apperrors.NewValidationError(
			"equipment %s is under maintenance, returned units cannot go back out", eq.Reference)
	}
	if reissue > eq.QuantityAvailable {
		return nil, apperrors.NewValidationError(
			"cannot re-issue %d units of %s: only %d available", reissue, eq.Reference, eq.QuantityAvailable)
	}
	take(eq, reissue)
	res.QuantityReturned = newReturned
	syncReservationStatus(res)
	e := entry(eq, entities.StatusEnLocation, reissue, -reissue, noteReturnCorrection)
	return &e, nil
}

// Return brings quantity units back from the event.
func Return(eq *entities.Equipment, res *entities.EventEquipment, quantity int) (entities.EquipmentStatus, error) {
	if quantity < 1 {
		return entities.EquipmentStatus{}, apperrors.NewValidationError("quantity must be at least 1, got %d", quantity)
	}
	if outstanding := res.Outstanding(); quantity > outstanding {
		return entities.EquipmentStatus{}, apperrors.NewValidationError(
			"cannot return %d units: only %d still out", quantity, outstanding)
	}

	applied := restore(eq, quantity)
	res.QuantityReturned += quantity
	syncReservationStatus(res)

	if res.Status == entities.ReservationRetourne {
		return entry(eq, entities.StatusDisponible, quantity, applied, noteFullReturn), nil
	}
	return entry(eq, entities.StatusEnLocation, quantity, applied, notePartialReturn), nil
}

// Release gives back whatever res still holds before the reservation is deleted.
func Release(eq *entities.Equipment, res *entities.EventEquipment) entities.EquipmentStatus {
	outstanding := res.Outstanding()
	applied := restore(eq, outstanding)
	return entry(eq, entities.StatusDisponible, outstanding, applied, noteReservationRemoved)
}

func syncReservationStatus(res *entities.EventEquipment) {
	switch {
	case res.QuantityReturned == res.QuantityReserved:
		res.Status = entities.ReservationRetourne
	case res.Status == entities.ReservationRetourne:
		res.Status = entities.ReservationLivre
	}
}
