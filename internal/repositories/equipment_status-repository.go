package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"equipment-rental/internal/entities"
)

type EquipmentStatusRepositoryInterface interface {
	AppendInTx(ctx context.Context, tx pgx.Tx, entry *entities.EquipmentStatus) error
	History(ctx context.Context, equipmentID uuid.UUID, limit int) ([]entities.EquipmentStatus, error)
	SumDeltasInTx(ctx context.Context, tx pgx.Tx, equipmentID uuid.UUID) (int, error)
}

// EquipmentStatusRepository only ever inserts and reads. Entries are ordered by seq.
type EquipmentStatusRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewEquipmentStatusRepository(storage *pgxpool.Pool, logger *zap.Logger) EquipmentStatusRepositoryInterface {
	return &EquipmentStatusRepository{storage: storage, logger: logger}
}

func (r *EquipmentStatusRepository) AppendInTx(ctx context.Context, tx pgx.Tx, entry *entities.EquipmentStatus) error {
	query := `
		INSERT INTO equipment_status (equipment_id, status, quantity, available_delta, related_event_id, related_maintenance_id, notes, changed_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, changed_at`
	err := tx.QueryRow(ctx, query,
		entry.EquipmentID, entry.Status, entry.Quantity, entry.AvailableDelta,
		entry.RelatedEventID, entry.RelatedMaintenanceID, entry.Notes, entry.ChangedBy,
	).Scan(&entry.ID, &entry.ChangedAt)
	if err != nil {
		return mapPgError(fmt.Errorf("append status entry: %w", err), "")
	}
	return nil
}

// History returns the newest entries first. limit <= 0 means all of them.
func (r *EquipmentStatusRepository) History(ctx context.Context, equipmentID uuid.UUID, limit int) ([]entities.EquipmentStatus, error) {
	query := `
		SELECT id, equipment_id, status, quantity, available_delta, related_event_id, related_maintenance_id, notes, changed_by, changed_at
		FROM equipment_status
		WHERE equipment_id = $1
		ORDER BY seq DESC`
	args := []interface{}{equipmentID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]entities.EquipmentStatus, 0)
	for rows.Next() {
		var s entities.EquipmentStatus
		if err := rows.Scan(
			&s.ID, &s.EquipmentID, &s.Status, &s.Quantity, &s.AvailableDelta,
			&s.RelatedEventID, &s.RelatedMaintenanceID, &s.Notes, &s.ChangedBy, &s.ChangedAt,
		); err != nil {
			return nil, fmt.Errorf("scan status entry: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// SumDeltasInTx replays the log: the value quantity_available should have.
func (r *EquipmentStatusRepository) SumDeltasInTx(ctx context.Context, tx pgx.Tx, equipmentID uuid.UUID) (int, error) {
	var sum int
	err := pick(r.storage, tx).QueryRow(ctx,
		"SELECT COALESCE(SUM(available_delta), 0) FROM equipment_status WHERE equipment_id = $1",
		equipmentID,
	).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum status deltas: %w", err)
	}
	return sum, nil
}
