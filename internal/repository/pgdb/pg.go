package pgdb

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// Имена уникальных ограничений из миграций.
const (
	constraintProductName    = "products_name_lower_key"
	constraintOrderReference = "orders_reference_key"
	constraintLeadReference  = "leads_reference_key"
)

func postgresDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// duplicateConstraint возвращает имя нарушенного уникального ограничения,
// либо пустую строку, если ошибка не о дубликате.
func duplicateConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return pgErr.ConstraintName
	}

	return ""
}
