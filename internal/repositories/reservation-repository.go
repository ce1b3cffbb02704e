package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"equipment-rental/internal/entities"
	apperrors "equipment-rental/pkg/errors"
)

const reservationSelect = `
	SELECT ee.id, ee.event_id, ee.equipment_id, ee.quantity_reserved, ee.quantity_returned, ee.status, ee.notes,
	       ee.created_at, ee.updated_at
	FROM event_equipment ee`

type ReservationRepositoryInterface interface {
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]entities.EventEquipment, error)
	ListByEventForUpdate(ctx context.Context, tx pgx.Tx, eventID uuid.UUID) ([]entities.EventEquipment, error)
	FindForUpdate(ctx context.Context, tx pgx.Tx, eventID, id uuid.UUID) (*entities.EventEquipment, error)
	ExistsInTx(ctx context.Context, tx pgx.Tx, eventID, equipmentID uuid.UUID) (bool, error)
	CreateInTx(ctx context.Context, tx pgx.Tx, res *entities.EventEquipment) error
	UpdateInTx(ctx context.Context, tx pgx.Tx, res *entities.EventEquipment) error
	DeleteInTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
	OutstandingByEquipment(ctx context.Context, tx pgx.Tx, equipmentID uuid.UUID) (int, error)
}

type ReservationRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewReservationRepository(storage *pgxpool.Pool, logger *zap.Logger) ReservationRepositoryInterface {
	return &ReservationRepository{storage: storage, logger: logger}
}

func scanReservation(row pgx.Row) (*entities.EventEquipment, error) {
	var r entities.EventEquipment
	err := row.Scan(
		&r.ID, &r.EventID, &r.EquipmentID, &r.QuantityReserved, &r.QuantityReturned, &r.Status, &r.Notes,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan reservation: %w", err)
	}
	return &r, nil
}

func (r *ReservationRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]entities.EventEquipment, error) {
	query := `
		SELECT ee.id, ee.event_id, ee.equipment_id, ee.quantity_reserved, ee.quantity_returned, ee.status, ee.notes,
		       ee.created_at, ee.updated_at, e.name, e.reference
		FROM event_equipment ee
		JOIN equipment e ON e.id = ee.equipment_id
		WHERE ee.event_id = $1
		ORDER BY e.name`
	rows, err := r.storage.Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]entities.EventEquipment, 0)
	for rows.Next() {
		var res entities.EventEquipment
		if err := rows.Scan(
			&res.ID, &res.EventID, &res.EquipmentID, &res.QuantityReserved, &res.QuantityReturned, &res.Status, &res.Notes,
			&res.CreatedAt, &res.UpdatedAt, &res.EquipmentName, &res.EquipmentReference,
		); err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		list = append(list, res)
	}
	return list, rows.Err()
}

// ListByEventForUpdate locks every reservation of the event, ordered by
// equipment id so callers lock the equipment rows in the same order.
func (r *ReservationRepository) ListByEventForUpdate(ctx context.Context, tx pgx.Tx, eventID uuid.UUID) ([]entities.EventEquipment, error) {
	rows, err := tx.Query(ctx, reservationSelect+" WHERE ee.event_id = $1 ORDER BY ee.equipment_id FOR UPDATE", eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []entities.EventEquipment
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *res)
	}
	return list, rows.Err()
}

func (r *ReservationRepository) FindForUpdate(ctx context.Context, tx pgx.Tx, eventID, id uuid.UUID) (*entities.EventEquipment, error) {
	res, err := scanReservation(tx.QueryRow(ctx, reservationSelect+" WHERE ee.id = $1 AND ee.event_id = $2 FOR UPDATE", id, eventID))
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NewNotFoundError("reservation", id)
	}
	return res, err
}

func (r *ReservationRepository) ExistsInTx(ctx context.Context, tx pgx.Tx, eventID, equipmentID uuid.UUID) (bool, error) {
	var exists bool
	err := pick(r.storage, tx).QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM event_equipment WHERE event_id = $1 AND equipment_id = $2)",
		eventID, equipmentID,
	).Scan(&exists)
	return exists, err
}

func (r *ReservationRepository) CreateInTx(ctx context.Context, tx pgx.Tx, res *entities.EventEquipment) error {
	query := `
		INSERT INTO event_equipment (event_id, equipment_id, quantity_reserved, quantity_returned, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`
	err := tx.QueryRow(ctx, query,
		res.EventID, res.EquipmentID, res.QuantityReserved, res.QuantityReturned, res.Status, res.Notes,
	).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return mapPgError(err, "equipment is already reserved for this event")
	}
	return nil
}

func (r *ReservationRepository) UpdateInTx(ctx context.Context, tx pgx.Tx, res *entities.EventEquipment) error {
	query := `
		UPDATE event_equipment
		SET quantity_reserved = $1, quantity_returned = $2, status = $3, notes = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at`
	err := tx.QueryRow(ctx, query,
		res.QuantityReserved, res.QuantityReturned, res.Status, res.Notes, res.ID,
	).Scan(&res.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFoundError("reservation", res.ID)
	}
	if err != nil {
		return mapPgError(err, "reservation update conflicts with an existing record")
	}
	return nil
}

func (r *ReservationRepository) DeleteInTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	result, err := tx.Exec(ctx, "DELETE FROM event_equipment WHERE id = $1", id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("reservation", id)
	}
	return nil
}

// OutstandingByEquipment is the number of units still out with clients across all events.
func (r *ReservationRepository) OutstandingByEquipment(ctx context.Context, tx pgx.Tx, equipmentID uuid.UUID) (int, error) {
	var n int
	err := pick(r.storage, tx).QueryRow(ctx,
		"SELECT COALESCE(SUM(quantity_reserved - quantity_returned), 0) FROM event_equipment WHERE equipment_id = $1",
		equipmentID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("outstanding reservations: %w", err)
	}
	return n, nil
}
