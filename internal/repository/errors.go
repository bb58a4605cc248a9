// Package repository holds the Postgres-backed persistence layer.
// Sentinel errors defined here let services distinguish constraint
// failures from plain storage errors without inspecting driver
// internals themselves: ErrDuplicate maps unique-key violations
// (duplicate guest phone, duplicate admin login, duplicate reference
// names) and ErrReferenced maps foreign-key restrictions such as
// deleting a nationality that guests still point at.
package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicate is returned when an insert or update violates a unique
// constraint. Services translate this into a conflict response.
var ErrDuplicate = errors.New("duplicate record")

// ErrReferenced is returned when a delete is blocked by dependent
// rows. Services translate this into a conflict response.
var ErrReferenced = errors.New("record is referenced")

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// mapConstraintError rewrites Postgres constraint violations into the
// package sentinels; every other error passes through untouched.
func mapConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return ErrDuplicate
	case pgForeignKeyViolation:
		return ErrReferenced
	}
	return err
}
