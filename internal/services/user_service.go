package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"bookkeeper/internal/auth"
	"bookkeeper/internal/core"
	"bookkeeper/internal/events"
	"bookkeeper/internal/log"
	"bookkeeper/internal/storage"
)

// UserService owns the user write path: bcrypt hashing, global name
// uniqueness, and password clearing on every read.
type UserService struct {
	store      *storage.Store
	publisher  events.Publisher
	bcryptCost int
	logger     *log.Logger
}

func NewUserService(store *storage.Store, publisher events.Publisher, bcryptCost int, logger *log.Logger) *UserService {
	return &UserService{
		store:      store,
		publisher:  publisher,
		bcryptCost: bcryptCost,
		logger:     logger.WithComponent(log.ComponentService),
	}
}

// Create registers a new user. The plaintext password is hashed before any
// storage access and never written back to the result.
func (s *UserService) Create(ctx context.Context, u core.User) (*core.User, error) {
	u.Name = strings.TrimSpace(u.Name)
	if u.Role == "" {
		u.Role = core.RoleUser
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.store.Queries().GetUserByName(ctx, u.Name); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	hash, err := auth.HashPassword(u.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	var created core.User
	err = s.store.WithTx(ctx, func(q *storage.Queries) error {
		var txErr error
		created, txErr = q.CreateUser(ctx, storage.CreateUserParams{
			Name:     u.Name,
			Password: hash,
			Role:     u.Role,
		})
		if storage.IsUniqueViolation(txErr) {
			return ErrUserExists
		}
		return txErr
	})
	if err != nil {
		return nil, err
	}

	created.Password = ""
	s.logger.InfoContext(ctx, "user created",
		log.FieldOperation, log.OpCreate, log.FieldUserName, created.Name)
	publishChange(ctx, s.publisher, s.logger, events.EntityUser, events.ActionCreated, created.ID, created.Name)
	return &created, nil
}

// Get returns a user by name, or (nil, nil) when absent.
func (s *UserService) Get(ctx context.Context, name string, includeProfiles bool) (*core.User, error) {
	users, err := s.store.Queries().ListUsers(ctx, storage.ListUsersOptions{
		Filter:          storage.UserFilter{Name: strings.TrimSpace(name)},
		IncludeProfiles: includeProfiles,
	})
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if len(users) == 0 {
		return nil, nil
	}
	users[0].Password = ""
	return &users[0], nil
}

// List returns users matching opts with passwords cleared.
func (s *UserService) List(ctx context.Context, opts storage.ListUsersOptions) ([]core.User, error) {
	users, err := s.store.Queries().ListUsers(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	for i := range users {
		users[i].Password = ""
	}
	return users, nil
}

// Update replaces the mutable fields of the user currently named name. The
// row identity and role stay as they are; an absent user yields (nil, nil)
// with no write at all.
func (s *UserService) Update(ctx context.Context, name string, replacement core.User) (*core.User, error) {
	existing, err := s.store.Queries().GetUserByName(ctx, strings.TrimSpace(name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	replacement.Name = strings.TrimSpace(replacement.Name)
	replacement.Role = existing.Role
	if err := replacement.Validate(); err != nil {
		return nil, err
	}

	if replacement.Name != existing.Name {
		if _, err := s.store.Queries().GetUserByName(ctx, replacement.Name); err == nil {
			return nil, ErrUserExists
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("check existing user: %w", err)
		}
	}

	hash, err := auth.HashPassword(replacement.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	err = s.store.WithTx(ctx, func(q *storage.Queries) error {
		txErr := q.UpdateUser(ctx, storage.UpdateUserParams{
			ID:       existing.ID,
			Name:     replacement.Name,
			Password: hash,
		})
		if storage.IsUniqueViolation(txErr) {
			return ErrUserExists
		}
		return txErr
	})
	if err != nil {
		return nil, err
	}

	updated := existing
	updated.Name = replacement.Name
	updated.Password = ""
	s.logger.InfoContext(ctx, "user updated",
		log.FieldOperation, log.OpUpdate, log.FieldUserName, updated.Name)
	publishChange(ctx, s.publisher, s.logger, events.EntityUser, events.ActionUpdated, updated.ID, updated.Name)
	return &updated, nil
}

// Delete removes a user by name. Owned profiles and their entries go with it
// through the cascading foreign keys. A missing user reports sql.ErrNoRows.
func (s *UserService) Delete(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	existing, err := s.store.Queries().GetUserByName(ctx, name)
	if err != nil {
		return err
	}

	err = s.store.WithTx(ctx, func(q *storage.Queries) error {
		return q.DeleteUserByName(ctx, name)
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "user deleted",
		log.FieldOperation, log.OpDelete, log.FieldUserName, name)
	publishChange(ctx, s.publisher, s.logger, events.EntityUser, events.ActionDeleted, existing.ID, name)
	return nil
}
