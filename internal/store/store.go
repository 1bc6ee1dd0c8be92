// Package store provides database access methods for all course review
// entities. Each store struct wraps a *sql.DB and exposes typed query methods.
package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"coursereview/internal/apperr"
)

// PostgreSQL SQLSTATE codes the stores translate into domain errors.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeInvalidText         = "22P02"
)

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// pgError returns the typed driver error in err's chain, if any.
func pgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// translate maps constraint violations to domain errors. values supplies
// the offending value per unique constraint name for the Duplicate message.
// Any other error is returned unchanged.
func translate(err error, values map[string]string) error {
	pgErr, ok := pgError(err)
	if !ok {
		return err
	}
	switch pgErr.Code {
	case codeUniqueViolation:
		if v, ok := values[pgErr.ConstraintName]; ok {
			return apperr.Duplicate(v)
		}
		return apperr.Wrap(apperr.Conflict, "Duplicate Error", err)
	case codeForeignKeyViolation:
		switch pgErr.ConstraintName {
		case "courses_category_id_fkey":
			return apperr.Missing("Category not found")
		case "reviews_course_id_fkey":
			return apperr.Missing("Course not found")
		}
		return apperr.Wrap(apperr.NotFound, "Referenced resource not found", err)
	case codeCheckViolation:
		return apperr.Wrap(apperr.InvalidRequest, "Validation Error", err)
	case codeInvalidText:
		return apperr.Wrap(apperr.InvalidRequest, "Invalid ID", err)
	}
	return err
}
