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

const equipmentTable = "equipment"

var equipmentColumns = []string{
	"e.id", "e.name", "e.reference", "e.category", "e.brand", "e.model", "e.description",
	"e.daily_rental_price", "e.quantity_total", "e.quantity_available", "e.quantity_override_held",
	"e.created_at", "e.updated_at",
}

var equipmentMap = map[string]string{
	"id":                 "e.id",
	"name":               "e.name",
	"reference":          "e.reference",
	"category":           "e.category",
	"brand":              "e.brand",
	"daily_rental_price": "e.daily_rental_price",
	"quantity_total":     "e.quantity_total",
	"quantity_available": "e.quantity_available",
	"created_at":         "e.created_at",
	"updated_at":         "e.updated_at",
}

// EquipmentAuditRow is one item with everything reconciliation needs.
type EquipmentAuditRow struct {
	Equipment   entities.Equipment
	LogSum      int
	Outstanding int
	Held        int
}

type EquipmentRepositoryInterface interface {
	GetEquipments(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error)
	FindEquipment(ctx context.Context, id uuid.UUID) (*entities.Equipment, error)
	FindForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*entities.Equipment, error)
	CreateInTx(ctx context.Context, tx pgx.Tx, eq *entities.Equipment) error
	UpdateInTx(ctx context.Context, tx pgx.Tx, eq *entities.Equipment) error
	DeleteInTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
	MaxReferenceSeq(ctx context.Context, tx pgx.Tx, prefix string) (int, error)
	ListAll(ctx context.Context) ([]entities.Equipment, error)
	AuditRows(ctx context.Context) ([]EquipmentAuditRow, error)
}

type EquipmentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewEquipmentRepository(storage *pgxpool.Pool, logger *zap.Logger) EquipmentRepositoryInterface {
	return &EquipmentRepository{storage: storage, logger: logger}
}

func scanEquipment(row pgx.Row) (*entities.Equipment, error) {
	var e entities.Equipment
	err := row.Scan(
		&e.ID, &e.Name, &e.Reference, &e.Category, &e.Brand, &e.Model, &e.Description,
		&e.DailyRentalPrice, &e.QuantityTotal, &e.QuantityAvailable, &e.QuantityOverrideHeld, &e.CreatedAt, &e.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan equipment: %w", err)
	}
	return &e, nil
}

func (r *EquipmentRepository) GetEquipments(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	// status is derived from the counters, not a column
	listFilter := filter
	listFilter.Filter = make(map[string]interface{}, len(filter.Filter))
	var statusFilter string
	for k, v := range filter.Filter {
		if k == "status" {
			statusFilter, _ = v.(string)
			continue
		}
		listFilter.Filter[k] = v
	}

	applyWhere := func(b sq.SelectBuilder) sq.SelectBuilder {
		b = bd.ApplySearch(b, listFilter.Search, "e.name", "e.reference")
		switch entities.EquipmentStatusKind(statusFilter) {
		case entities.StatusDisponible:
			b = b.Where(sq.Gt{"e.quantity_available": 0})
		case entities.StatusManquant:
			b = b.Where(sq.Eq{"e.quantity_available": 0})
		}
		return b
	}

	countFilter := listFilter
	countFilter.WithPagination = false
	countFilter.Sort = nil
	countBuilder := applyWhere(psql.Select("COUNT(e.id)").From(equipmentTable + " AS e"))
	countBuilder = bd.ApplyListParams(countBuilder, countFilter, equipmentMap)

	sqlCount, argsCount, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.Equipment{}, 0, nil
	}

	selectBuilder := applyWhere(psql.Select(equipmentColumns...).From(equipmentTable + " AS e"))
	if len(listFilter.Sort) == 0 {
		selectBuilder = selectBuilder.OrderBy("e.name ASC")
	}
	selectBuilder = bd.ApplyListParams(selectBuilder, listFilter, equipmentMap)

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := make([]entities.Equipment, 0, filter.Limit)
	for rows.Next() {
		eq, err := scanEquipment(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *eq)
	}
	return list, total, rows.Err()
}

func (r *EquipmentRepository) findOne(ctx context.Context, q Querier, id uuid.UUID, forUpdate bool) (*entities.Equipment, error) {
	b := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(equipmentColumns...).
		From(equipmentTable + " AS e").
		Where(sq.Eq{"e.id": id})
	if forUpdate {
		b = b.Suffix("FOR UPDATE")
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	eq, err := scanEquipment(q.QueryRow(ctx, query, args...))
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NewNotFoundError("equipment", id)
	}
	return eq, err
}

func (r *EquipmentRepository) FindEquipment(ctx context.Context, id uuid.UUID) (*entities.Equipment, error) {
	return r.findOne(ctx, r.storage, id, false)
}

// FindForUpdate locks the row until tx ends. Every read of quantity_available
// that precedes a write must go through here.
func (r *EquipmentRepository) FindForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*entities.Equipment, error) {
	return r.findOne(ctx, tx, id, true)
}

func (r *EquipmentRepository) CreateInTx(ctx context.Context, tx pgx.Tx, eq *entities.Equipment) error {
	query := `
		INSERT INTO equipment (name, reference, category, brand, model, description, daily_rental_price, quantity_total, quantity_available)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`
	err := tx.QueryRow(ctx, query,
		eq.Name, eq.Reference, eq.Category, eq.Brand, eq.Model, eq.Description,
		eq.DailyRentalPrice, eq.QuantityTotal, eq.QuantityAvailable,
	).Scan(&eq.ID, &eq.CreatedAt, &eq.UpdatedAt)
	if err != nil {
		return mapPgError(err, fmt.Sprintf("reference %s already exists", eq.Reference))
	}
	return nil
}

func (r *EquipmentRepository) UpdateInTx(ctx context.Context, tx pgx.Tx, eq *entities.Equipment) error {
	query := `
		UPDATE equipment
		SET name = $1, category = $2, brand = $3, model = $4, description = $5, daily_rental_price = $6,
		    quantity_total = $7, quantity_available = $8, quantity_override_held = $9, updated_at = NOW()
		WHERE id = $10
		RETURNING updated_at`
	err := tx.QueryRow(ctx, query,
		eq.Name, eq.Category, eq.Brand, eq.Model, eq.Description, eq.DailyRentalPrice,
		eq.QuantityTotal, eq.QuantityAvailable, eq.QuantityOverrideHeld, eq.ID,
	).Scan(&eq.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFoundError("equipment", eq.ID)
	}
	if err != nil {
		return mapPgError(err, "equipment update conflicts with an existing record")
	}
	return nil
}

func (r *EquipmentRepository) DeleteInTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	result, err := tx.Exec(ctx, "DELETE FROM equipment WHERE id = $1", id)
	if isForeignKeyViolation(err) {
		return apperrors.NewConflictError("equipment is still referenced by reservations or maintenance tickets")
	}
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("equipment", id)
	}
	return nil
}

// MaxReferenceSeq returns the highest NNN used in references EQ-<prefix>-NNN, 0 if none.
// Inside a transaction it first takes an advisory lock on the prefix, held
// until tx ends, so two creations in one category cannot pick the same number.
func (r *EquipmentRepository) MaxReferenceSeq(ctx context.Context, tx pgx.Tx, prefix string) (int, error) {
	if tx != nil {
		if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext('equipment_reference:' || $1))", prefix); err != nil {
			return 0, fmt.Errorf("lock reference prefix: %w", err)
		}
	}
	query := `
		SELECT COALESCE(MAX(CAST(SUBSTRING(reference FROM '^EQ-' || $1 || '-([0-9]+)$') AS INTEGER)), 0)
		FROM equipment
		WHERE reference LIKE 'EQ-' || $1 || '-%'`
	var seq int
	if err := pick(r.storage, tx).QueryRow(ctx, query, prefix).Scan(&seq); err != nil {
		return 0, fmt.Errorf("max reference seq: %w", err)
	}
	return seq, nil
}

func (r *EquipmentRepository) ListAll(ctx context.Context) ([]entities.Equipment, error) {
	query, args, err := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(equipmentColumns...).From(equipmentTable+" AS e").OrderBy("e.category", "e.reference").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []entities.Equipment
	for rows.Next() {
		eq, err := scanEquipment(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *eq)
	}
	return list, rows.Err()
}

func (r *EquipmentRepository) AuditRows(ctx context.Context) ([]EquipmentAuditRow, error) {
	query := `
		SELECT e.id, e.name, e.reference, e.category, e.brand, e.model, e.description,
		       e.daily_rental_price, e.quantity_total, e.quantity_available, e.quantity_override_held, e.created_at, e.updated_at,
		       COALESCE((SELECT SUM(s.available_delta) FROM equipment_status s WHERE s.equipment_id = e.id), 0),
		       COALESCE((SELECT SUM(ee.quantity_reserved - ee.quantity_returned) FROM event_equipment ee WHERE ee.equipment_id = e.id), 0),
		       COALESCE((SELECT SUM(m.quantity_held) FROM maintenance m WHERE m.equipment_id = e.id AND m.status <> 'TERMINE'), 0)
		FROM equipment e
		ORDER BY e.reference`
	rows, err := r.storage.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []EquipmentAuditRow
	for rows.Next() {
		var row EquipmentAuditRow
		e := &row.Equipment
		if err := rows.Scan(
			&e.ID, &e.Name, &e.Reference, &e.Category, &e.Brand, &e.Model, &e.Description,
			&e.DailyRentalPrice, &e.QuantityTotal, &e.QuantityAvailable, &e.QuantityOverrideHeld, &e.CreatedAt, &e.UpdatedAt,
			&row.LogSum, &row.Outstanding, &row.Held,
		); err != nil {
			return nil, fmt.Errorf("scan audit row: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
