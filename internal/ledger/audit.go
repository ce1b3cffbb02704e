package ledger

import (
	"fmt"

	"github.com/google/uuid"

	"equipment-rental/internal/entities"
)

const noteReconcileCorrection = "Reconciliation correction"

// Drift describes an item whose stored counter disagrees with its history.
type Drift struct {
	EquipmentID uuid.UUID `json:"equipment_id"`
	Reference   string    `json:"reference"`
	Total       int       `json:"quantity_total"`
	Stored      int       `json:"stored_available"`
	Replayed    int       `json:"replayed_available"`
	Tracked     int       `json:"tracked_commitments"`
	Problems    []string  `json:"problems"`
}

// Replay sums the available deltas of a status log.
func Replay(entries []entities.EquipmentStatus) int {
	sum := 0
	for _, e := range entries {
		sum += e.AvailableDelta
	}
	return sum
}

// Audit compares the stored counter with the replayed log and with the
// commitments the database can account for (outstanding reservations, ticket
// holds and manual maintenance holds). Manual EN_LOCATION overrides are not
// tracked anywhere else, so tracked may be lower than the committed quantity
// but never higher.
func Audit(eq entities.Equipment, replayed, tracked int) *Drift {
	var problems []string

	if eq.QuantityAvailable < 0 || eq.QuantityAvailable > eq.QuantityTotal {
		problems = append(problems, fmt.Sprintf("available %d outside [0, %d]", eq.QuantityAvailable, eq.QuantityTotal))
	}
	if replayed != eq.QuantityAvailable {
		problems = append(problems, fmt.Sprintf("status log sums to %d, counter is %d", replayed, eq.QuantityAvailable))
	}
	if tracked > eq.Committed() {
		problems = append(problems, fmt.Sprintf("%d units reserved or held but only %d committed", tracked, eq.Committed()))
	}

	if len(problems) == 0 {
		return nil
	}
	return &Drift{
		EquipmentID: eq.ID,
		Reference:   eq.Reference,
		Total:       eq.QuantityTotal,
		Stored:      eq.QuantityAvailable,
		Replayed:    replayed,
		Tracked:     tracked,
		Problems:    problems,
	}
}

// Fix resets the counter to the replayed value clamped to [0, total]. When
// clamping was needed it returns the correcting entry that keeps the log summing
// to the counter.
func Fix(eq *entities.Equipment, replayed int) *entities.EquipmentStatus {
	target := replayed
	if target < 0 {
		target = 0
	}
	if target > eq.QuantityTotal {
		target = eq.QuantityTotal
	}
	eq.QuantityAvailable = target
	clampOverrideHold(eq)

	correction := target - replayed
	if correction == 0 {
		return nil
	}

	kind := entities.StatusDisponible
	quantity := correction
	if correction < 0 {
		kind = entities.StatusManquant
		quantity = -correction
	}
	e := entry(eq, kind, quantity, correction, noteReconcileCorrection)
	return &e
}
