package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Store-level outcomes. Callers compare with errors.Is.
var (
	ErrUserNotFound   = errors.New("repository: user not found")
	ErrPostNotFound   = errors.New("repository: post not found")
	ErrDuplicateEmail = errors.New("repository: email already in use")
	// ErrUserMissing means a write referenced a user row that no longer exists.
	ErrUserMissing = errors.New("repository: referenced user does not exist")
)

// PostgreSQL SQLSTATE codes.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Translate maps an engine error to one of the store sentinels. Errors that
// are not constraint violations are returned unchanged.
func Translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrPostNotFound),
		errors.Is(err, ErrDuplicateEmail),
		errors.Is(err, ErrUserMissing):
		return err
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueConstraintError(err):
		return ErrDuplicateEmail
	case errors.Is(err, gorm.ErrForeignKeyViolated), isForeignKeyError(err):
		return ErrUserMissing
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return ErrDuplicateEmail
		case pgForeignKeyViolation:
			return ErrUserMissing
		}
	}
	return err
}

// IsStoreOutcome reports whether err is one of the sentinels above.
func IsStoreOutcome(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrPostNotFound) ||
		errors.Is(err, ErrDuplicateEmail) ||
		errors.Is(err, ErrUserMissing)
}

// isUniqueConstraintError matches driver messages for unique violations that
// reach us without a typed error. Postgres codes are handled via pgconn.
func isUniqueConstraintError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint")
}

func isForeignKeyError(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint")
}
