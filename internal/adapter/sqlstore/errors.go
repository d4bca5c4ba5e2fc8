package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/heartmarshall/transcribe-dashboard/internal/domain"
)

// MapError converts driver errors to domain errors.
// context.DeadlineExceeded and context.Canceled pass through.
func MapError(err error, entity, key string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", entity, key, err)
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", entity, key, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s %s: %w", entity, key, domain.ErrAlreadyExists)
		case "23514": // check_violation
			return fmt.Errorf("%s %s: %w", entity, key, domain.ErrValidation)
		}
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%s %s: %w", entity, key, domain.ErrAlreadyExists)
		case sqlite3.SQLITE_CONSTRAINT_CHECK:
			return fmt.Errorf("%s %s: %w", entity, key, domain.ErrValidation)
		}
	}

	return fmt.Errorf("%s %s: %w", entity, key, err)
}
