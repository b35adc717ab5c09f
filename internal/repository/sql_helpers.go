package repository

import (
	"errors"

	seau_errors "sea-u/pkg/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// translateError maps driver errors onto the package error taxonomy.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return seau_errors.ErrNotFound
	case isUniqueViolation(err):
		return seau_errors.ErrAlreadyExists
	default:
		return err
	}
}
