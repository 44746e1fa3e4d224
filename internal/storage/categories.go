package storage

import (
	"context"
	"database/sql"
	"time"

	"bookkeeper/internal/core"
)

type CreateCategoryParams struct {
	Name        string
	Description string
}

func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) (core.Category, error) {
	now := time.Now().UTC()
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO categories (category_name, category_description, created_at)
		VALUES (?, ?, ?)
	`, arg.Name, nullIfEmpty(arg.Description), now)
	if err != nil {
		return core.Category{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Category{}, err
	}
	return core.Category{ID: id, Name: arg.Name, Description: arg.Description, CreatedAt: now}, nil
}

func (q *Queries) GetCategoryByName(ctx context.Context, name string) (core.Category, error) {
	return scanCategory(q.db.QueryRowContext(ctx, `
		SELECT category_id, category_name, category_description, created_at
		FROM categories WHERE category_name = ?
	`, name))
}

func (q *Queries) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT category_id, category_name, category_description, created_at
		FROM categories ORDER BY category_name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

type UpdateCategoryParams struct {
	ID          int64
	Name        string
	Description string
}

func (q *Queries) UpdateCategory(ctx context.Context, arg UpdateCategoryParams) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE categories SET category_name = ?, category_description = ?
		WHERE category_id = ?
	`, arg.Name, nullIfEmpty(arg.Description), arg.ID)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteCategory removes a category. Entries that referenced it keep their
// rows; the foreign key nulls the category link.
func (q *Queries) DeleteCategory(ctx context.Context, name string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM categories WHERE category_name = ?`, name)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func scanCategory(row rowScanner) (core.Category, error) {
	var (
		c           core.Category
		description sql.NullString
	)
	if err := row.Scan(&c.ID, &c.Name, &description, &c.CreatedAt); err != nil {
		return core.Category{}, err
	}
	c.Description = description.String
	return c, nil
}
