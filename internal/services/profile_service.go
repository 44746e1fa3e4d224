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

// ProfileService owns profile CRUD. Profile names are unique per owner, so
// every operation resolves the owning user by name first.
type ProfileService struct {
	store     *storage.Store
	publisher events.Publisher
	logger    *log.Logger
}

func NewProfileService(store *storage.Store, publisher events.Publisher, logger *log.Logger) *ProfileService {
	return &ProfileService{
		store:     store,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentService),
	}
}

func (s *ProfileService) owner(ctx context.Context, name string) (core.User, error) {
	owner, err := s.store.Queries().GetUserByName(ctx, strings.TrimSpace(name))
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, ErrOwnerNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("find owner: %w", err)
	}
	return owner, nil
}

// Create adds a profile under the named owner.
func (s *ProfileService) Create(ctx context.Context, ownerName string, p core.Profile) (*core.Profile, error) {
	p.Name = strings.TrimSpace(p.Name)
	if err := p.Validate(); err != nil {
		return nil, err
	}

	owner, err := s.owner(ctx, ownerName)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.Queries().GetProfileByName(ctx, owner.ID, p.Name); err == nil {
		return nil, ErrProfileExists
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("check existing profile: %w", err)
	}

	var created core.Profile
	err = s.store.WithTx(ctx, func(q *storage.Queries) error {
		var txErr error
		created, txErr = q.CreateProfile(ctx, storage.CreateProfileParams{
			UserID:         owner.ID,
			Name:           p.Name,
			OpeningBalance: p.OpeningBalance,
		})
		if storage.IsUniqueViolation(txErr) {
			return ErrProfileExists
		}
		return txErr
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "profile created",
		log.FieldOperation, log.OpCreate,
		log.FieldUserName, owner.Name,
		log.FieldProfile, created.Name)
	publishChange(ctx, s.publisher, s.logger, events.EntityProfile, events.ActionCreated, created.ID, created.Name)
	return &created, nil
}

// Get returns the named profile under the named owner, or (nil, nil) when
// either is absent.
func (s *ProfileService) Get(ctx context.Context, ownerName, name string, includeEntries bool) (*core.Profile, error) {
	owner, err := s.owner(ctx, ownerName)
	if errors.Is(err, ErrOwnerNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	profiles, err := s.store.Queries().ListProfiles(ctx, storage.ListProfilesOptions{
		Filter:         storage.ProfileFilter{UserID: owner.ID, Name: strings.TrimSpace(name)},
		IncludeEntries: includeEntries,
	})
	if err != nil {
		return nil, fmt.Errorf("find profile: %w", err)
	}
	if len(profiles) == 0 {
		return nil, nil
	}
	return &profiles[0], nil
}

// List returns profiles filtered by owner name; an empty owner name lists
// every profile.
func (s *ProfileService) List(ctx context.Context, ownerName string, includeEntries bool) ([]core.Profile, error) {
	profiles, err := s.store.Queries().ListProfiles(ctx, storage.ListProfilesOptions{
		Filter:         storage.ProfileFilter{OwnerName: strings.TrimSpace(ownerName)},
		IncludeEntries: includeEntries,
	})
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return profiles, nil
}

// Update replaces the name and opening balance of an existing profile. The
// owner link and creation time are never touched. Absent owner or profile
// yields (nil, nil) without writing.
func (s *ProfileService) Update(ctx context.Context, ownerName, name string, replacement core.Profile) (*core.Profile, error) {
	owner, err := s.owner(ctx, ownerName)
	if errors.Is(err, ErrOwnerNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	existing, err := s.store.Queries().GetProfileByName(ctx, owner.ID, strings.TrimSpace(name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find profile: %w", err)
	}

	replacement.Name = strings.TrimSpace(replacement.Name)
	if err := replacement.Validate(); err != nil {
		return nil, err
	}

	if replacement.Name != existing.Name {
		if _, err := s.store.Queries().GetProfileByName(ctx, owner.ID, replacement.Name); err == nil {
			return nil, ErrProfileExists
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("check existing profile: %w", err)
		}
	}

	err = s.store.WithTx(ctx, func(q *storage.Queries) error {
		txErr := q.UpdateProfile(ctx, storage.UpdateProfileParams{
			ID:             existing.ID,
			Name:           replacement.Name,
			OpeningBalance: replacement.OpeningBalance,
		})
		if storage.IsUniqueViolation(txErr) {
			return ErrProfileExists
		}
		return txErr
	})
	if err != nil {
		return nil, err
	}

	updated := existing
	updated.Name = replacement.Name
	updated.OpeningBalance = replacement.OpeningBalance
	s.logger.InfoContext(ctx, "profile updated",
		log.FieldOperation, log.OpUpdate,
		log.FieldUserName, owner.Name,
		log.FieldProfile, updated.Name)
	publishChange(ctx, s.publisher, s.logger, events.EntityProfile, events.ActionUpdated, updated.ID, updated.Name)
	return &updated, nil
}

// Delete removes the named profile under the named owner. Entries under it
// go through the cascading foreign key. A missing profile reports sql.ErrNoRows.
func (s *ProfileService) Delete(ctx context.Context, ownerName, name string) error {
	owner, err := s.store.Queries().GetUserByName(ctx, strings.TrimSpace(ownerName))
	if err != nil {
		return err
	}

	existing, err := s.store.Queries().GetProfileByName(ctx, owner.ID, strings.TrimSpace(name))
	if err != nil {
		return err
	}

	err = s.store.WithTx(ctx, func(q *storage.Queries) error {
		return q.DeleteProfile(ctx, existing.ID)
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "profile deleted",
		log.FieldOperation, log.OpDelete,
		log.FieldUserName, owner.Name,
		log.FieldProfile, existing.Name)
	publishChange(ctx, s.publisher, s.logger, events.EntityProfile, events.ActionDeleted, existing.ID, existing.Name)
	return nil
}
