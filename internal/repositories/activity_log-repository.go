package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"equipment-rental/internal/entities"
)

type ActivityLogRepositoryInterface interface {
	Create(ctx context.Context, log *entities.ActivityLog) error
}

type ActivityLogRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewActivityLogRepository(storage *pgxpool.Pool, logger *zap.Logger) ActivityLogRepositoryInterface {
	return &ActivityLogRepository{storage: storage, logger: logger}
}

func (r *ActivityLogRepository) Create(ctx context.Context, log *entities.ActivityLog) error {
	query := `
		INSERT INTO activity_logs (user_id, action, entity_type, entity_id, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`
	err := r.storage.QueryRow(ctx, query,
		log.UserID, log.Action, log.EntityType, log.EntityID, log.Description,
	).Scan(&log.ID, &log.CreatedAt)
	if err != nil {
		return fmt.Errorf("create activity log: %w", err)
	}
	return nil
}
