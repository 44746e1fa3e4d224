// Package services holds the domain operations between the HTTP handlers and
// storage. Every mutation follows the same shape: trim, validate, pre-check
// for conflicts, then write inside a transaction. The pre-check gives fast
// errors; the database unique indexes are what actually guarantee uniqueness,
// so a constraint violation at commit is translated into the same conflict
// error the pre-check would have produced.
package services

import (
	"context"
	"errors"

	"bookkeeper/internal/core"
	"bookkeeper/internal/events"
	"bookkeeper/internal/log"
)

var (
	ErrUserExists     = errors.New("a user with this name already exists")
	ErrProfileExists  = errors.New("a profile with this name already exists for this user")
	ErrCategoryExists = errors.New("a category with this name already exists")

	// ErrOwnerNotFound means a profile operation named an owner that does not
	// exist. Distinct from a conflict.
	ErrOwnerNotFound = errors.New("owner user not found")

	// ErrAuthenticationFailed covers both unknown user and password mismatch
	// so the two cases are indistinguishable to a caller.
	ErrAuthenticationFailed = errors.New("user not found or password mismatch")
)

// ErrUnknownCategory rejects an entry that names a category with no row.
var ErrUnknownCategory = core.ValidationError("category does not exist")

// publishChange emits an entity change notification after a committed
// mutation. Failures are logged and never surfaced to the caller.
func publishChange(ctx context.Context, pub events.Publisher, logger *log.Logger, entity, action string, id int64, name string) {
	if pub == nil {
		return
	}
	msg := events.NewEntityChange(entity, action, id, name)
	if err := pub.PublishEntityChange(ctx, msg); err != nil {
		logger.ErrorContext(ctx, "failed to publish entity change",
			log.FieldError, err,
			"entity", entity,
			"action", action,
			"id", id)
	}
}
