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

// EntryService covers expenses and incomes. The two differ only in which
// table they live in, so one service parameterized by kind serves both.
type EntryService struct {
	store     *storage.Store
	kind      storage.EntryKind
	publisher events.Publisher
	logger    *log.Logger
}

func NewExpenseService(store *storage.Store, publisher events.Publisher, logger *log.Logger) *EntryService {
	return newEntryService(store, storage.ExpenseKind, publisher, logger)
}

func NewIncomeService(store *storage.Store, publisher events.Publisher, logger *log.Logger) *EntryService {
	return newEntryService(store, storage.IncomeKind, publisher, logger)
}

func newEntryService(store *storage.Store, kind storage.EntryKind, publisher events.Publisher, logger *log.Logger) *EntryService {
	return &EntryService{
		store:     store,
		kind:      kind,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentService),
	}
}

func (s *EntryService) entity() string {
	if s.kind == storage.IncomeKind {
		return events.EntityIncome
	}
	return events.EntityExpense
}

// resolveProfile finds the named profile under the named owner. Either being
// absent surfaces as sql.ErrNoRows.
func (s *EntryService) resolveProfile(ctx context.Context, ownerName, profileName string) (core.Profile, error) {
	owner, err := s.store.Queries().GetUserByName(ctx, strings.TrimSpace(ownerName))
	if err != nil {
		return core.Profile{}, err
	}
	return s.store.Queries().GetProfileByName(ctx, owner.ID, strings.TrimSpace(profileName))
}

// resolveCategory maps an optional category name to its ID. An unknown name
// is a validation error, not a conflict.
func (s *EntryService) resolveCategory(ctx context.Context, name string) (*int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	category, err := s.store.Queries().GetCategoryByName(ctx, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUnknownCategory
	}
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	return &category.ID, nil
}

// Add records an entry under the caller's profile, optionally labeled with an
// existing category.
func (s *EntryService) Add(ctx context.Context, ownerName, profileName string, e core.Entry, categoryName string) (*core.Entry, error) {
	e.Title = strings.TrimSpace(e.Title)
	if err := e.Validate(); err != nil {
		return nil, err
	}

	profile, err := s.resolveProfile(ctx, ownerName, profileName)
	if err != nil {
		return nil, err
	}

	categoryID, err := s.resolveCategory(ctx, categoryName)
	if err != nil {
		return nil, err
	}

	var created core.Entry
	err = s.store.WithTx(ctx, func(q *storage.Queries) error {
		var txErr error
		created, txErr = q.CreateEntry(ctx, s.kind, storage.CreateEntryParams{
			ProfileID:   profile.ID,
			Date:        e.Date,
			Title:       e.Title,
			AmountCents: e.Amount.Cents,
			Description: e.Description,
			CategoryID:  categoryID,
		})
		return txErr
	})
	if err != nil {
		return nil, err
	}
	created.CategoryName = strings.TrimSpace(categoryName)

	s.logger.InfoContext(ctx, "entry created",
		log.FieldOperation, log.OpCreate,
		log.FieldProfile, profile.Name,
		log.FieldEntryID, created.ID,
		log.FieldAmount, created.Amount.Cents)
	publishChange(ctx, s.publisher, s.logger, s.entity(), events.ActionCreated, created.ID, created.Title)
	return &created, nil
}

// Get returns one entry scoped to the caller's profile.
func (s *EntryService) Get(ctx context.Context, ownerName, profileName string, id int64) (*core.Entry, error) {
	profile, err := s.resolveProfile(ctx, ownerName, profileName)
	if err != nil {
		return nil, err
	}
	entry, err := s.store.Queries().GetEntry(ctx, s.kind, profile.ID, id)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// List returns all entries under the caller's profile, newest first.
func (s *EntryService) List(ctx context.Context, ownerName, profileName string) ([]core.Entry, error) {
	profile, err := s.resolveProfile(ctx, ownerName, profileName)
	if err != nil {
		return nil, err
	}
	return s.store.Queries().ListEntries(ctx, s.kind, profile.ID)
}

// Update replaces the mutable fields of an entry. The profile link never
// changes.
func (s *EntryService) Update(ctx context.Context, ownerName, profileName string, id int64, e core.Entry, categoryName string) (*core.Entry, error) {
	e.Title = strings.TrimSpace(e.Title)
	if err := e.Validate(); err != nil {
		return nil, err
	}

	profile, err := s.resolveProfile(ctx, ownerName, profileName)
	if err != nil {
		return nil, err
	}

	categoryID, err := s.resolveCategory(ctx, categoryName)
	if err != nil {
		return nil, err
	}

	err = s.store.WithTx(ctx, func(q *storage.Queries) error {
		return q.UpdateEntry(ctx, s.kind, storage.UpdateEntryParams{
			ID:          id,
			ProfileID:   profile.ID,
			Date:        e.Date,
			Title:       e.Title,
			AmountCents: e.Amount.Cents,
			Description: e.Description,
			CategoryID:  categoryID,
		})
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.store.Queries().GetEntry(ctx, s.kind, profile.ID, id)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "entry updated",
		log.FieldOperation, log.OpUpdate,
		log.FieldProfile, profile.Name,
		log.FieldEntryID, id)
	publishChange(ctx, s.publisher, s.logger, s.entity(), events.ActionUpdated, id, updated.Title)
	return &updated, nil
}

// Remove deletes an entry scoped to the caller's profile. Deleting an absent
// entry reports sql.ErrNoRows.
func (s *EntryService) Remove(ctx context.Context, ownerName, profileName string, id int64) error {
	profile, err := s.resolveProfile(ctx, ownerName, profileName)
	if err != nil {
		return err
	}

	err = s.store.WithTx(ctx, func(q *storage.Queries) error {
		return q.DeleteEntry(ctx, s.kind, profile.ID, id)
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "entry deleted",
		log.FieldOperation, log.OpDelete,
		log.FieldProfile, profile.Name,
		log.FieldEntryID, id)
	publishChange(ctx, s.publisher, s.logger, s.entity(), events.ActionDeleted, id, "")
	return nil
}
