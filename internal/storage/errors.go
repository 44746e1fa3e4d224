package storage

import (
	"errors"

	"modernc.org/sqlite"
)

// SQLite result codes relevant to constraint handling. Kept local to avoid
// pulling the whole generated constant set out of the driver's lib package.
const (
	sqliteConstraint           = 19
	sqliteConstraintPrimaryKey = 1555
	sqliteConstraintUnique     = 2067
)

// IsUniqueViolation reports whether err is a unique (or primary key)
// constraint violation raised by the database. Services use this to translate
// a commit-time conflict into the same domain error their pre-check produces.
func IsUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() {
	case sqliteConstraint, sqliteConstraintPrimaryKey, sqliteConstraintUnique:
		return true
	}
	return false
}
