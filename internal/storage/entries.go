package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"bookkeeper/internal/core"
)

// EntryKind selects which ledger table an operation targets. Expenses and
// incomes have identical shapes and differ only by table.
type EntryKind string

const (
	ExpenseKind EntryKind = "expense"
	IncomeKind  EntryKind = "income"
)

const entryDateLayout = "2006-01-02"

func (k EntryKind) table() string {
	if k == IncomeKind {
		return "incomes"
	}
	return "expenses"
}

func (k EntryKind) idColumn() string {
	if k == IncomeKind {
		return "income_id"
	}
	return "expense_id"
}

type CreateEntryParams struct {
	ProfileID   int64
	Date        time.Time
	Title       string
	AmountCents int64
	Description string
	CategoryID  *int64
}

func (q *Queries) CreateEntry(ctx context.Context, kind EntryKind, arg CreateEntryParams) (core.Entry, error) {
	now := time.Now().UTC()
	query := fmt.Sprintf(`
		INSERT INTO %s (profile_id, category_id, entry_date, title, amount_cents, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, kind.table())
	res, err := q.db.ExecContext(ctx, query,
		arg.ProfileID, categoryArg(arg.CategoryID), arg.Date.Format(entryDateLayout),
		arg.Title, arg.AmountCents, nullIfEmpty(arg.Description), now)
	if err != nil {
		return core.Entry{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Entry{}, fmt.Errorf("last insert id: %w", err)
	}
	return core.Entry{
		ID:          id,
		ProfileID:   arg.ProfileID,
		Date:        arg.Date,
		Title:       arg.Title,
		Amount:      core.Money{Cents: arg.AmountCents},
		Description: arg.Description,
		CategoryID:  arg.CategoryID,
		CreatedAt:   now,
	}, nil
}

// GetEntry returns an entry scoped to its profile, or sql.ErrNoRows. The
// profile scope keeps one owner's entry IDs unreachable from another's URL.
func (q *Queries) GetEntry(ctx context.Context, kind EntryKind, profileID, id int64) (core.Entry, error) {
	query := fmt.Sprintf(`
		SELECT t.%s, t.profile_id, t.entry_date, t.title, t.amount_cents, t.description,
		       t.category_id, c.category_name, t.created_at
		FROM %s t
		LEFT JOIN categories c ON c.category_id = t.category_id
		WHERE t.%s = ? AND t.profile_id = ?
	`, kind.idColumn(), kind.table(), kind.idColumn())
	return scanEntry(q.db.QueryRowContext(ctx, query, id, profileID))
}

// ListEntries returns all entries under a profile, newest date first.
func (q *Queries) ListEntries(ctx context.Context, kind EntryKind, profileID int64) ([]core.Entry, error) {
	query := fmt.Sprintf(`
		SELECT t.%s, t.profile_id, t.entry_date, t.title, t.amount_cents, t.description,
		       t.category_id, c.category_name, t.created_at
		FROM %s t
		LEFT JOIN categories c ON c.category_id = t.category_id
		WHERE t.profile_id = ?
		ORDER BY t.entry_date DESC, t.%s DESC
	`, kind.idColumn(), kind.table(), kind.idColumn())

	rows, err := q.db.QueryContext(ctx, query, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []core.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

type UpdateEntryParams struct {
	ID          int64
	ProfileID   int64
	Date        time.Time
	Title       string
	AmountCents int64
	Description string
	CategoryID  *int64
}

func (q *Queries) UpdateEntry(ctx context.Context, kind EntryKind, arg UpdateEntryParams) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET entry_date = ?, title = ?, amount_cents = ?, description = ?, category_id = ?
		WHERE %s = ? AND profile_id = ?
	`, kind.table(), kind.idColumn())
	res, err := q.db.ExecContext(ctx, query,
		arg.Date.Format(entryDateLayout), arg.Title, arg.AmountCents,
		nullIfEmpty(arg.Description), categoryArg(arg.CategoryID), arg.ID, arg.ProfileID)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (q *Queries) DeleteEntry(ctx context.Context, kind EntryKind, profileID, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = ? AND profile_id = ?`, kind.table(), kind.idColumn())
	res, err := q.db.ExecContext(ctx, query, id, profileID)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func scanEntry(row rowScanner) (core.Entry, error) {
	var (
		e            core.Entry
		date         string
		description  sql.NullString
		categoryID   sql.NullInt64
		categoryName sql.NullString
	)
	if err := row.Scan(&e.ID, &e.ProfileID, &date, &e.Title, &e.Amount.Cents,
		&description, &categoryID, &categoryName, &e.CreatedAt); err != nil {
		return core.Entry{}, err
	}
	parsed, err := time.Parse(entryDateLayout, date)
	if err != nil {
		return core.Entry{}, fmt.Errorf("parse entry date %q: %w", date, err)
	}
	e.Date = parsed
	e.Description = description.String
	if categoryID.Valid {
		id := categoryID.Int64
		e.CategoryID = &id
	}
	e.CategoryName = categoryName.String
	return e, nil
}

func categoryArg(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
