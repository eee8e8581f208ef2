package sql

import (
	"errors"

	"github.com/iyhunko/product-reviews/internal/repository"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// PostgreSQL error codes. See https://www.postgresql.org/docs/16/errcodes-appendix.html
const (
	pqUniqueViolationErrCode     = "23505"
	pqForeignKeyViolationErrCode = "23503"
)

// classifyError maps constraint violations reported by either the pgx or the
// lib/pq driver to repository errors. Other errors are returned unchanged.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	var code, detail string
	var pgErr *pgconn.PgError
	var pqErr *pq.Error
	switch {
	case errors.As(err, &pgErr):
		code, detail = pgErr.Code, pgErr.Detail
	case errors.As(err, &pqErr):
		code, detail = string(pqErr.Code), pqErr.Detail
	default:
		return err
	}

	switch code {
	case pqUniqueViolationErrCode:
		return &repository.UniqueConstraintError{Detail: detail}
	case pqForeignKeyViolationErrCode:
		return &repository.ForeignKeyError{Detail: detail}
	default:
		return err
	}
}
