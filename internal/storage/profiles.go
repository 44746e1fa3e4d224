package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"bookkeeper/internal/core"
)

type CreateProfileParams struct {
	UserID         int64
	Name           string
	OpeningBalance *core.Money
}

func (q *Queries) CreateProfile(ctx context.Context, arg CreateProfileParams) (core.Profile, error) {
	now := time.Now().UTC()
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, profile_name, opening_balance_cents, created_at)
		VALUES (?, ?, ?, ?)
	`, arg.UserID, arg.Name, balanceArg(arg.OpeningBalance), now)
	if err != nil {
		return core.Profile{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Profile{}, fmt.Errorf("last insert id: %w", err)
	}
	return core.Profile{
		ID:             id,
		UserID:         arg.UserID,
		Name:           arg.Name,
		OpeningBalance: arg.OpeningBalance,
		CreatedAt:      now,
	}, nil
}

// GetProfileByName returns the named profile of the given owner, or
// sql.ErrNoRows.
func (q *Queries) GetProfileByName(ctx context.Context, userID int64, name string) (core.Profile, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT profile_id, user_id, profile_name, opening_balance_cents, created_at
		FROM profiles
		WHERE user_id = ? AND profile_name = ?
	`, userID, name)
	return scanProfile(row)
}

// ProfileFilter narrows ListProfiles; zero fields match everything.
type ProfileFilter struct {
	UserID    int64
	OwnerName string
	Name      string
}

// ListProfilesOptions controls filtering, ordering and eager loading of the
// profile's entry collections.
type ListProfilesOptions struct {
	Filter         ProfileFilter
	OrderByNewest  bool
	IncludeEntries bool
}

func (q *Queries) ListProfiles(ctx context.Context, opts ListProfilesOptions) ([]core.Profile, error) {
	query := `
		SELECT p.profile_id, p.user_id, p.profile_name, p.opening_balance_cents, p.created_at
		FROM profiles p`
	var conds []string
	var args []any
	if opts.Filter.OwnerName != "" {
		query += ` JOIN users u ON u.user_id = p.user_id`
		conds = append(conds, "u.user_name = ?")
		args = append(args, opts.Filter.OwnerName)
	}
	if opts.Filter.UserID != 0 {
		conds = append(conds, "p.user_id = ?")
		args = append(args, opts.Filter.UserID)
	}
	if opts.Filter.Name != "" {
		conds = append(conds, "p.profile_name = ?")
		args = append(args, opts.Filter.Name)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	if opts.OrderByNewest {
		query += " ORDER BY p.created_at DESC"
	} else {
		query += " ORDER BY p.profile_name"
	}

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []core.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if opts.IncludeEntries {
		for i := range profiles {
			expenses, err := q.ListEntries(ctx, ExpenseKind, profiles[i].ID)
			if err != nil {
				return nil, fmt.Errorf("load expenses for profile %q: %w", profiles[i].Name, err)
			}
			incomes, err := q.ListEntries(ctx, IncomeKind, profiles[i].ID)
			if err != nil {
				return nil, fmt.Errorf("load incomes for profile %q: %w", profiles[i].Name, err)
			}
			profiles[i].Expenses = expenses
			profiles[i].Incomes = incomes
		}
	}

	return profiles, nil
}

type UpdateProfileParams struct {
	ID             int64
	Name           string
	OpeningBalance *core.Money
}

// UpdateProfile rewrites the mutable fields of a profile row. The owner and
// creation timestamp stay untouched.
func (q *Queries) UpdateProfile(ctx context.Context, arg UpdateProfileParams) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE profiles
		SET profile_name = ?, opening_balance_cents = ?
		WHERE profile_id = ?
	`, arg.Name, balanceArg(arg.OpeningBalance), arg.ID)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteProfile removes a profile; its entries go with it via the cascade.
func (q *Queries) DeleteProfile(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM profiles WHERE profile_id = ?`, id)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func balanceArg(m *core.Money) any {
	if m == nil {
		return nil
	}
	return m.Cents
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (core.Profile, error) {
	var (
		p       core.Profile
		balance sql.NullInt64
	)
	if err := row.Scan(&p.ID, &p.UserID, &p.Name, &balance, &p.CreatedAt); err != nil {
		return core.Profile{}, err
	}
	if balance.Valid {
		p.OpeningBalance = &core.Money{Cents: balance.Int64}
	}
	return p, nil
}
