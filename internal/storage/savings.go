package storage

import (
	"context"

	"bookkeeper/internal/core"
)

// ListSavings reads the savings_result view for every profile owned by the
// given user.
func (q *Queries) ListSavings(ctx context.Context, userID int64) ([]core.SavingsResult, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT profile_id, profile_name, user_id,
		       total_income_cents, total_expense_cents, total_economy_cents
		FROM savings_result
		WHERE user_id = ?
		ORDER BY profile_name
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []core.SavingsResult
	for rows.Next() {
		s, err := scanSavings(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, s)
	}
	return results, rows.Err()
}

// GetSavingsByProfile reads the view for a single profile, scoped to its
// owner. Returns sql.ErrNoRows when the profile is absent or not theirs.
func (q *Queries) GetSavingsByProfile(ctx context.Context, userID int64, profileName string) (core.SavingsResult, error) {
	return scanSavings(q.db.QueryRowContext(ctx, `
		SELECT profile_id, profile_name, user_id,
		       total_income_cents, total_expense_cents, total_economy_cents
		FROM savings_result
		WHERE user_id = ? AND profile_name = ?
	`, userID, profileName))
}

func scanSavings(row rowScanner) (core.SavingsResult, error) {
	var s core.SavingsResult
	if err := row.Scan(&s.ProfileID, &s.ProfileName, &s.UserID,
		&s.TotalIncome.Cents, &s.TotalExpense.Cents, &s.TotalEconomy.Cents); err != nil {
		return core.SavingsResult{}, err
	}
	return s, nil
}
