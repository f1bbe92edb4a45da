package repo

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pkordes/tripbook/backend/internal/domain"
)

// SQLSTATE codes Postgres raises for constraint violations.
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// uniqueFields maps unique constraint names to the input field they guard.
var uniqueFields = map[string]string{
	"trips_slug_key":  "slug",
	"users_email_key": "email",
}

// translateUnique turns a unique violation on a known constraint into the
// same ValidationError the service pre-check would have produced. The
// constraint is the source of truth when two writers race past the pre-check.
// Any other error is returned unchanged.
func translateUnique(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return err
	}
	field, ok := uniqueFields[pgErr.ConstraintName]
	if !ok {
		return err
	}
	return domain.NewValidationError(field, "the "+field+" has already been taken")
}

// foreignKeyErrors maps foreign key constraint names to the error a missing
// parent row stands for.
var foreignKeyErrors = map[string]error{
	"bookings_trip_id_fkey": domain.ErrNotFound,
	"bookings_user_id_fkey": domain.ErrUnknownCaller,
}

// translateForeignKey turns a foreign key violation on a known constraint
// into the sentinel for the missing parent. This happens when the parent is
// deleted after it was looked up. Any other error is returned unchanged.
func translateForeignKey(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgForeignKeyViolation {
		return err
	}
	if sentinel, ok := foreignKeyErrors[pgErr.ConstraintName]; ok {
		return sentinel
	}
	return err
}
