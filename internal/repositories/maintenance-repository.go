package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"equipment-rental/internal/entities"
	bd "equipment-rental/internal/infrastructure/bd"
	apperrors "equipment-rental/pkg/errors"
	"equipment-rental/pkg/types"
)

const maintenanceTable = "maintenance"

var maintenanceColumns = []string{
	"m.id", "m.equipment_id", "m.problem_description", "m.technician_id", "m.priority", "m.status",
	"m.quantity_held", "m.start_date", "m.expected_end_date", "m.actual_end_date", "m.cost",
	"m.solution_description", "m.created_at", "m.updated_at",
}

var maintenanceMap = map[string]string{
	"id":                "m.id",
	"equipment_id":      "m.equipment_id",
	"technician_id":     "m.technician_id",
	"priority":          "m.priority",
	"status":            "m.status",
	"start_date":        "m.start_date",
	"expected_end_date": "m.expected_end_date",
	"created_at":        "m.created_at",
}

type MaintenanceRepositoryInterface interface {
	GetMaintenances(ctx context.Context, filter types.Filter) ([]entities.Maintenance, uint64, error)
	FindMaintenance(ctx context.Context, id uuid.UUID) (*entities.Maintenance, error)
	FindForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*entities.Maintenance, error)
	CreateInTx(ctx context.Context, tx pgx.Tx, m *entities.Maintenance) error
	UpdateInTx(ctx context.Context, tx pgx.Tx, m *entities.Maintenance) error
	DeleteInTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
	HasOpenInTx(ctx context.Context, tx pgx.Tx, equipmentID uuid.UUID) (bool, error)
	HeldByEquipment(ctx context.Context, tx pgx.Tx, equipmentID uuid.UUID) (int, error)
}

type MaintenanceRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewMaintenanceRepository(storage *pgxpool.Pool, logger *zap.Logger) MaintenanceRepositoryInterface {
	return &MaintenanceRepository{storage: storage, logger: logger}
}

func scanMaintenance(row pgx.Row) (*entities.Maintenance, error) {
	var m entities.Maintenance
	err := row.Scan(
		&m.ID, &m.EquipmentID, &m.ProblemDescription, &m.TechnicianID, &m.Priority, &m.Status,
		&m.QuantityHeld, &m.StartDate, &m.ExpectedEndDate, &m.ActualEndDate, &m.Cost,
		&m.SolutionDescription, &m.CreatedAt, &m.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan maintenance: %w", err)
	}
	return &m, nil
}

func (r *MaintenanceRepository) GetMaintenances(ctx context.Context, filter types.Filter) ([]entities.Maintenance, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	applySearch := func(b sq.SelectBuilder) sq.SelectBuilder {
		return bd.ApplySearch(b, filter.Search, "m.problem_description")
	}

	countFilter := filter
	countFilter.WithPagination = false
	countFilter.Sort = nil
	countBuilder := applySearch(psql.Select("COUNT(m.id)").From(maintenanceTable + " AS m"))
	countBuilder = bd.ApplyListParams(countBuilder, countFilter, maintenanceMap)

	sqlCount, argsCount, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.Maintenance{}, 0, nil
	}

	selectBuilder := applySearch(psql.Select(maintenanceColumns...).From(maintenanceTable + " AS m"))
	if len(filter.Sort) == 0 {
		selectBuilder = selectBuilder.OrderBy("m.start_date DESC")
	}
	selectBuilder = bd.ApplyListParams(selectBuilder, filter, maintenanceMap)

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := make([]entities.Maintenance, 0, filter.Limit)
	for rows.Next() {
		m, err := scanMaintenance(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *m)
	}
	return list, total, rows.Err()
}

func (r *MaintenanceRepository) findOne(ctx context.Context, q Querier, id uuid.UUID, forUpdate bool) (*entities.Maintenance, error) {
	b := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(maintenanceColumns...).
		From(maintenanceTable + " AS m").
		Where(sq.Eq{"m.id": id})
	if forUpdate {
		b = b.Suffix("FOR UPDATE")
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	m, err := scanMaintenance(q.QueryRow(ctx, query, args...))
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NewNotFoundError("maintenance", id)
	}
	return m, err
}

func (r *MaintenanceRepository) FindMaintenance(ctx context.Context, id uuid.UUID) (*entities.Maintenance, error) {
	return r.findOne(ctx, r.storage, id, false)
}

func (r *MaintenanceRepository) FindForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*entities.Maintenance, error) {
	return r.findOne(ctx, tx, id, true)
}

func (r *MaintenanceRepository) CreateInTx(ctx context.Context, tx pgx.Tx, m *entities.Maintenance) error {
	query := `
		INSERT INTO maintenance (equipment_id, problem_description, technician_id, priority, status, quantity_held,
		                         start_date, expected_end_date, cost)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`
	err := tx.QueryRow(ctx, query,
		m.EquipmentID, m.ProblemDescription, m.TechnicianID, m.Priority, m.Status, m.QuantityHeld,
		m.StartDate, m.ExpectedEndDate, m.Cost,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return mapPgError(err, "maintenance ticket already exists")
	}
	return nil
}

func (r *MaintenanceRepository) UpdateInTx(ctx context.Context, tx pgx.Tx, m *entities.Maintenance) error {
	query := `
		UPDATE maintenance
		SET problem_description = $1, technician_id = $2, priority = $3, status = $4, expected_end_date = $5,
		    actual_end_date = $6, cost = $7, solution_description = $8, updated_at = NOW()
		WHERE id = $9
		RETURNING updated_at`
	err := tx.QueryRow(ctx, query,
		m.ProblemDescription, m.TechnicianID, m.Priority, m.Status, m.ExpectedEndDate,
		m.ActualEndDate, m.Cost, m.SolutionDescription, m.ID,
	).Scan(&m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFoundError("maintenance", m.ID)
	}
	if err != nil {
		return mapPgError(err, "maintenance update conflicts with an existing record")
	}
	return nil
}

func (r *MaintenanceRepository) DeleteInTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	result, err := tx.Exec(ctx, "DELETE FROM maintenance WHERE id = $1", id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("maintenance", id)
	}
	return nil
}

func (r *MaintenanceRepository) HasOpenInTx(ctx context.Context, tx pgx.Tx, equipmentID uuid.UUID) (bool, error) {
	var exists bool
	err := pick(r.storage, tx).QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM maintenance WHERE equipment_id = $1 AND status <> 'TERMINE')",
		equipmentID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("open maintenance: %w", err)
	}
	return exists, nil
}

// HeldByEquipment sums quantity_held over the open tickets of an item.
func (r *MaintenanceRepository) HeldByEquipment(ctx context.Context, tx pgx.Tx, equipmentID uuid.UUID) (int, error) {
	var n int
	err := pick(r.storage, tx).QueryRow(ctx,
		"SELECT COALESCE(SUM(quantity_held), 0) FROM maintenance WHERE equipment_id = $1 AND status <> 'TERMINE'",
		equipmentID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("held in maintenance: %w", err)
	}
	return n, nil
}
