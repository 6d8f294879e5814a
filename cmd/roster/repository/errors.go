package repository

import (
	"errors"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

// Text codes attached to store errors
const (
	TextCodeNotFound     = "PERSON_NOT_FOUND"
	TextCodeDuplicate    = "DUPLICATE_RECORD"
	TextCodeStoreFailure = "STORE_FAILURE"
)

const pgUniqueViolation = "23505"

func notFoundError(message string, metadata map[string]any) error {
	err := goerrors.New(message, goerrors.CategoryNotFound).
		WithCode(http.StatusNotFound).
		WithTextCode(TextCodeNotFound)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

// PersonNotFound is returned when no record exists for personID
func PersonNotFound(personID string) error {
	return notFoundError("person not found", map[string]any{"person_id": personID})
}

// storeError classifies a driver error: unique violations become conflicts,
// everything else is an internal store failure.
func storeError(source error, message string, metadata map[string]any) error {
	if isUniqueViolation(source) {
		err := goerrors.Wrap(source, goerrors.CategoryConflict, message).
			WithCode(http.StatusConflict).
			WithTextCode(TextCodeDuplicate)
		if len(metadata) > 0 {
			err.WithMetadata(metadata)
		}
		return err
	}

	err := goerrors.Wrap(source, goerrors.CategoryInternal, message).
		WithCode(http.StatusInternalServerError).
		WithTextCode(TextCodeStoreFailure)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint failed") ||
		strings.Contains(message, "duplicate key value violates unique constraint")
}

func hasCategory(err error, category goerrors.Category) bool {
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return false
	}
	return rich.Category == category
}

// IsNotFound reports whether err means the referenced person does not exist
func IsNotFound(err error) bool {
	return hasCategory(err, goerrors.CategoryNotFound)
}

// IsConflict reports whether err is a uniqueness violation
func IsConflict(err error) bool {
	return hasCategory(err, goerrors.CategoryConflict)
}
