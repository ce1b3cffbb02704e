package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"equipment-rental/internal/entities"
	"equipment-rental/internal/events"
	"equipment-rental/internal/repositories"
	"equipment-rental/pkg/eventbus"
	"equipment-rental/pkg/utils"
)

// outbox collects what a transaction produced. It is published only after commit.
type outbox struct {
	changes    []events.EquipmentStatusChangedEvent
	activities []events.ActivityRecordedEvent
}

func (o *outbox) activity(ctx context.Context, action, entityType string, entityID uuid.UUID, description string) {
	id := entityID
	o.activities = append(o.activities, events.ActivityRecordedEvent{
		ActorID:     actorID(ctx),
		Action:      action,
		EntityType:  entityType,
		EntityID:    &id,
		Description: description,
	})
}

// LedgerWriter persists the decisions of the ledger rules. Every service that
// moves quantity_available goes through it.
type LedgerWriter struct {
	equipmentRepo   repositories.EquipmentRepositoryInterface
	statusRepo      repositories.EquipmentStatusRepositoryInterface
	maintenanceRepo repositories.MaintenanceRepositoryInterface
	availability    AvailabilityServiceInterface
	bus             *eventbus.Bus
	logger          *zap.Logger
}

func NewLedgerWriter(
	equipmentRepo repositories.EquipmentRepositoryInterface,
	statusRepo repositories.EquipmentStatusRepositoryInterface,
	maintenanceRepo repositories.MaintenanceRepositoryInterface,
	availability AvailabilityServiceInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) *LedgerWriter {
	return &LedgerWriter{
		equipmentRepo:   equipmentRepo,
		statusRepo:      statusRepo,
		maintenanceRepo: maintenanceRepo,
		availability:    availability,
		bus:             bus,
		logger:          logger,
	}
}

func actorID(ctx context.Context) *uuid.UUID {
	id, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil
	}
	return &id
}

// apply stores the new counters of eq and appends entry.
func (w *LedgerWriter) apply(ctx context.Context, tx pgx.Tx, eq *entities.Equipment, entry entities.EquipmentStatus, out *outbox) error {
	if err := w.equipmentRepo.UpdateInTx(ctx, tx, eq); err != nil {
		return err
	}
	return w.appendEntry(ctx, tx, eq, entry, out)
}

// appendEntry only writes the log entry. Used when eq was just inserted.
func (w *LedgerWriter) appendEntry(ctx context.Context, tx pgx.Tx, eq *entities.Equipment, entry entities.EquipmentStatus, out *outbox) error {
	entry.ChangedBy = actorID(ctx)
	if err := w.statusRepo.AppendInTx(ctx, tx, &entry); err != nil {
		return err
	}
	out.changes = append(out.changes, events.EquipmentStatusChangedEvent{
		Entry:     entry,
		Reference: eq.Reference,
		Total:     eq.QuantityTotal,
		Available: eq.QuantityAvailable,
	})
	return nil
}

// maintenanceOutstanding is true when the locked item has an open ticket or
// units held by a manual EN_MAINTENANCE entry.
func (w *LedgerWriter) maintenanceOutstanding(ctx context.Context, tx pgx.Tx, eq *entities.Equipment) (bool, error) {
	if eq.UnderMaintenanceOverride() {
		return true, nil
	}
	return w.maintenanceRepo.HasOpenInTx(ctx, tx, eq.ID)
}

// publish runs after commit: drops cached snapshots and fans the changes out.
func (w *LedgerWriter) publish(ctx context.Context, out *outbox) {
	invalidated := make(map[uuid.UUID]struct{}, len(out.changes))
	for _, change := range out.changes {
		id := change.Entry.EquipmentID
		if _, done := invalidated[id]; !done {
			w.availability.Invalidate(ctx, id)
			invalidated[id] = struct{}{}
		}
		w.logger.Info("ledger entry recorded",
			zap.String("equipmentID", id.String()),
			zap.String("status", string(change.Entry.Status)),
			zap.Int("quantity", change.Entry.Quantity),
			zap.Int("available", change.Available),
		)
		w.bus.Publish(ctx, change)
	}
	for _, a := range out.activities {
		w.bus.Publish(ctx, a)
	}
}
