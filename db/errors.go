package db

import (
	"errors"

	"github.com/lib/pq"
)

// Postgres error codes relevant to the upsert race resolution.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// IsUniqueViolation reports whether err is a unique-constraint violation.
// Concurrent upserts racing on the same external id surface here; callers
// treat it as a recoverable condition and fall back to an update.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}

// IsForeignKeyViolation reports whether err is a foreign-key violation,
// i.e. an upsert naming a non-existent parent row.
func IsForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqForeignKeyViolation
}
