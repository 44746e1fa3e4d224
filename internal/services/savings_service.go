package services

import (
	"context"
	"strings"

	"bookkeeper/internal/core"
	"bookkeeper/internal/log"
	"bookkeeper/internal/storage"
)

// SavingsService reads the savings_result view. It has no write path.
type SavingsService struct {
	store  *storage.Store
	logger *log.Logger
}

func NewSavingsService(store *storage.Store, logger *log.Logger) *SavingsService {
	return &SavingsService{
		store:  store,
		logger: logger.WithComponent(log.ComponentService),
	}
}

// List returns the savings row for every profile owned by the named user.
// An unknown owner reports sql.ErrNoRows.
func (s *SavingsService) List(ctx context.Context, ownerName string) ([]core.SavingsResult, error) {
	owner, err := s.store.Queries().GetUserByName(ctx, strings.TrimSpace(ownerName))
	if err != nil {
		return nil, err
	}
	return s.store.Queries().ListSavings(ctx, owner.ID)
}

// Get returns the savings row for one profile, scoped to its owner. Missing
// owner or profile reports sql.ErrNoRows.
func (s *SavingsService) Get(ctx context.Context, ownerName, profileName string) (*core.SavingsResult, error) {
	owner, err := s.store.Queries().GetUserByName(ctx, strings.TrimSpace(ownerName))
	if err != nil {
		return nil, err
	}
	result, err := s.store.Queries().GetSavingsByProfile(ctx, owner.ID, strings.TrimSpace(profileName))
	if err != nil {
		return nil, err
	}
	return &result, nil
}
