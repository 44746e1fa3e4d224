package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"bookkeeper/internal/core"
)

type CreateUserParams struct {
	Name     string
	Password string
	Role     string
}

// CreateUser inserts a user row. A duplicate name surfaces as a unique
// violation from the database; callers translate it with IsUniqueViolation.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (core.User, error) {
	now := time.Now().UTC()
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO users (user_name, user_password, user_role, created_at)
		VALUES (?, ?, ?, ?)
	`, arg.Name, arg.Password, arg.Role, now)
	if err != nil {
		return core.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.User{}, fmt.Errorf("last insert id: %w", err)
	}
	return core.User{
		ID:        id,
		Name:      arg.Name,
		Password:  arg.Password,
		Role:      arg.Role,
		CreatedAt: now,
	}, nil
}

// GetUserByName returns the user with the given name, or sql.ErrNoRows.
func (q *Queries) GetUserByName(ctx context.Context, name string) (core.User, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT user_id, user_name, user_password, user_role, created_at
		FROM users
		WHERE user_name = ?
	`, name)

	var u core.User
	if err := row.Scan(&u.ID, &u.Name, &u.Password, &u.Role, &u.CreatedAt); err != nil {
		return core.User{}, err
	}
	return u, nil
}

// UserFilter narrows ListUsers; zero fields match everything.
type UserFilter struct {
	Name string
	Role string
}

// ListUsersOptions controls filtering, ordering and eager loading.
type ListUsersOptions struct {
	Filter          UserFilter
	OrderByNewest   bool
	IncludeProfiles bool
}

// ListUsers returns users matching the filter, ordered by name unless
// OrderByNewest is set. With IncludeProfiles each user's profiles are loaded.
func (q *Queries) ListUsers(ctx context.Context, opts ListUsersOptions) ([]core.User, error) {
	query := `
		SELECT user_id, user_name, user_password, user_role, created_at
		FROM users`
	var conds []string
	var args []any
	if opts.Filter.Name != "" {
		conds = append(conds, "user_name = ?")
		args = append(args, opts.Filter.Name)
	}
	if opts.Filter.Role != "" {
		conds = append(conds, "user_role = ?")
		args = append(args, opts.Filter.Role)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	if opts.OrderByNewest {
		query += " ORDER BY created_at DESC"
	} else {
		query += " ORDER BY user_name"
	}

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []core.User
	for rows.Next() {
		var u core.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Password, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if opts.IncludeProfiles {
		for i := range users {
			profiles, err := q.ListProfiles(ctx, ListProfilesOptions{
				Filter: ProfileFilter{UserID: users[i].ID},
			})
			if err != nil {
				return nil, fmt.Errorf("load profiles for user %q: %w", users[i].Name, err)
			}
			users[i].Profiles = profiles
		}
	}

	return users, nil
}

type UpdateUserParams struct {
	ID       int64
	Name     string
	Password string
}

// UpdateUser rewrites the mutable fields of a user row. Identity (user_id),
// role and creation timestamp stay untouched.
func (q *Queries) UpdateUser(ctx context.Context, arg UpdateUserParams) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE users
		SET user_name = ?, user_password = ?
		WHERE user_id = ?
	`, arg.Name, arg.Password, arg.ID)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteUserByName removes a user and, through the schema's cascade, all of
// the user's profiles and their entries.
func (q *Queries) DeleteUserByName(ctx context.Context, name string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM users WHERE user_name = ?`, name)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
