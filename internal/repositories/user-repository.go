package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"equipment-rental/internal/entities"
	apperrors "equipment-rental/pkg/errors"
)

const userSelectFields = "id, full_name, email, password_hash, role, is_active, created_at, updated_at"

// UserRepositoryInterface covers what the ledger needs from users: seeding and
// resolving the acting user. Account management lives elsewhere.
type UserRepositoryInterface interface {
	FindUser(ctx context.Context, id uuid.UUID) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	Upsert(ctx context.Context, user *entities.User) error
}

type UserRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &UserRepository{storage: storage, logger: logger}
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var u entities.User
	err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) FindUser(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	u, err := scanUser(r.storage.QueryRow(ctx, "SELECT "+userSelectFields+" FROM users WHERE id = $1", id))
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NewNotFoundError("user", id)
	}
	return u, err
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	return scanUser(r.storage.QueryRow(ctx,
		"SELECT "+userSelectFields+" FROM users WHERE LOWER(email) = $1", strings.ToLower(email)))
}

// Upsert inserts the user or refreshes name, role and password of an existing
// one with the same email. It fills ID and timestamps.
func (r *UserRepository) Upsert(ctx context.Context, user *entities.User) error {
	query := `
		INSERT INTO users (full_name, email, password_hash, role, is_active)
		VALUES ($1, LOWER($2), $3, $4, $5)
		ON CONFLICT (email) DO UPDATE
		SET full_name = EXCLUDED.full_name, password_hash = EXCLUDED.password_hash, role = EXCLUDED.role,
		    is_active = EXCLUDED.is_active, updated_at = NOW()
		RETURNING id, created_at, updated_at`
	err := r.storage.QueryRow(ctx, query,
		user.FullName, user.Email, user.PasswordHash, user.Role, user.IsActive,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return mapPgError(err, fmt.Sprintf("user %s already exists", user.Email))
	}
	return nil
}
