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

type MaintenanceLogRepositoryInterface interface {
	CreateInTx(ctx context.Context, tx pgx.Tx, log *entities.MaintenanceLog) error
	ListByMaintenance(ctx context.Context, maintenanceID uuid.UUID) ([]entities.MaintenanceLog, error)
}

type MaintenanceLogRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewMaintenanceLogRepository(storage *pgxpool.Pool, logger *zap.Logger) MaintenanceLogRepositoryInterface {
	return &MaintenanceLogRepository{storage: storage, logger: logger}
}

func (r *MaintenanceLogRepository) CreateInTx(ctx context.Context, tx pgx.Tx, log *entities.MaintenanceLog) error {
	query := `
		INSERT INTO maintenance_logs (maintenance_id, user_id, content, type)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	err := pick(r.storage, tx).QueryRow(ctx, query,
		log.MaintenanceID, log.UserID, log.Content, log.Type,
	).Scan(&log.ID, &log.CreatedAt)
	if err != nil {
		return mapPgError(fmt.Errorf("create maintenance log: %w", err), "")
	}
	return nil
}

func (r *MaintenanceLogRepository) ListByMaintenance(ctx context.Context, maintenanceID uuid.UUID) ([]entities.MaintenanceLog, error) {
	rows, err := r.storage.Query(ctx, `
		SELECT id, maintenance_id, user_id, content, type, created_at
		FROM maintenance_logs
		WHERE maintenance_id = $1
		ORDER BY created_at, id`, maintenanceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]entities.MaintenanceLog, 0)
	for rows.Next() {
		var l entities.MaintenanceLog
		if err := rows.Scan(&l.ID, &l.MaintenanceID, &l.UserID, &l.Content, &l.Type, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan maintenance log: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}
