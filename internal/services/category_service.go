package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"bookkeeper/internal/core"
	"bookkeeper/internal/events"
	"bookkeeper/internal/log"
	"bookkeeper/internal/storage"
)

// CategoryService owns category CRUD with global name uniqueness.
type CategoryService struct {
	store     *storage.Store
	publisher events.Publisher
	logger    *log.Logger
}

func NewCategoryService(store *storage.Store, publisher events.Publisher, logger *log.Logger) *CategoryService {
	return &CategoryService{
		store:     store,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentService),
	}
}

func (s *CategoryService) Create(ctx context.Context, c core.Category) (*core.Category, error) {
	c.Name = strings.TrimSpace(c.Name)
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.store.Queries().GetCategoryByName(ctx, c.Name); err == nil {
		return nil, ErrCategoryExists
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("check existing category: %w", err)
	}

	var created core.Category
	err := s.store.WithTx(ctx, func(q *storage.Queries) error {
		var txErr error
		created, txErr = q.CreateCategory(ctx, storage.CreateCategoryParams{
			Name:        c.Name,
			Description: c.Description,
		})
		if storage.IsUniqueViolation(txErr) {
			return ErrCategoryExists
		}
		return txErr
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "category created",
		log.FieldOperation, log.OpCreate, log.FieldCategory, created.Name)
	publishChange(ctx, s.publisher, s.logger, events.EntityCategory, events.ActionCreated, created.ID, created.Name)
	return &created, nil
}

// Get returns a category by name, or (nil, nil) when absent.
func (s *CategoryService) Get(ctx context.Context, name string) (*core.Category, error) {
	category, err := s.store.Queries().GetCategoryByName(ctx, strings.TrimSpace(name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	return &category, nil
}

func (s *CategoryService) List(ctx context.Context) ([]core.Category, error) {
	categories, err := s.store.Queries().ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// Update renames a category or changes its description. A missing category
// yields a nil result with no error.
func (s *CategoryService) Update(ctx context.Context, name string, replacement core.Category) (*core.Category, error) {
	existing, err := s.store.Queries().GetCategoryByName(ctx, strings.TrimSpace(name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}

	replacement.Name = strings.TrimSpace(replacement.Name)
	if err := replacement.Validate(); err != nil {
		return nil, err
	}

	if replacement.Name != existing.Name {
		if _, err := s.store.Queries().GetCategoryByName(ctx, replacement.Name); err == nil {
			return nil, ErrCategoryExists
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("check existing category: %w", err)
		}
	}

	err = s.store.WithTx(ctx, func(q *storage.Queries) error {
		txErr := q.UpdateCategory(ctx, storage.UpdateCategoryParams{
			ID:          existing.ID,
			Name:        replacement.Name,
			Description: replacement.Description,
		})
		if storage.IsUniqueViolation(txErr) {
			return ErrCategoryExists
		}
		return txErr
	})
	if err != nil {
		return nil, err
	}

	updated := existing
	updated.Name = replacement.Name
	updated.Description = replacement.Description
	s.logger.InfoContext(ctx, "category updated",
		log.FieldOperation, log.OpUpdate, log.FieldCategory, updated.Name)
	publishChange(ctx, s.publisher, s.logger, events.EntityCategory, events.ActionUpdated, updated.ID, updated.Name)
	return &updated, nil
}

// Delete removes a category by name. Entries that used it keep their rows
// with the category link nulled. A missing category reports sql.ErrNoRows.
func (s *CategoryService) Delete(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	existing, err := s.store.Queries().GetCategoryByName(ctx, name)
	if err != nil {
		return err
	}

	err = s.store.WithTx(ctx, func(q *storage.Queries) error {
		return q.DeleteCategory(ctx, name)
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "category deleted",
		log.FieldOperation, log.OpDelete, log.FieldCategory, name)
	publishChange(ctx, s.publisher, s.logger, events.EntityCategory, events.ActionDeleted, existing.ID, name)
	return nil
}
