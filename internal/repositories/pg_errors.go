package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	apperrors "equipment-rental/pkg/errors"
)

const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
	pgForeignKey      = "23503"
)

// mapPgError turns constraint violations into domain errors so they reach the
// client as 409/400 instead of 500.
func mapPgError(err error, conflictMessage string) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return apperrors.NewConflictError("%s", conflictMessage)
	case pgCheckViolation:
		return apperrors.NewValidationError("constraint %s violated", pgErr.ConstraintName)
	case pgForeignKey:
		return apperrors.NewValidationError("referenced record does not exist (%s)", pgErr.ConstraintName)
	}
	return err
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKey
}
