// Package app contains the application services that drive the domain.
package app

import (
	"context"
	"errors"
	"fmt"

	"caltrack/internal/domain"
)

// ProfileService encapsulates the singleton profile use cases.
type ProfileService struct {
	repo   domain.ProfileRepository
	events domain.EventPublisher
}

// NewProfileService creates a ProfileService backed by the given repository.
func NewProfileService(repo domain.ProfileRepository, events domain.EventPublisher) *ProfileService {
	return &ProfileService{repo: repo, events: events}
}

// Get returns the profile, or nil when onboarding has not happened yet.
func (s *ProfileService) Get(ctx context.Context) (*domain.Profile, error) {
	return s.repo.Get(ctx)
}

// Setup validates and stores the profile. The first call creates it; later
// calls overwrite every field of the existing record.
func (s *ProfileService) Setup(ctx context.Context, in domain.ProfileInput) (*domain.Profile, error) {
	p, err := domain.NewProfile(in)
	if err != nil {
		return nil, err
	}

	id, err := s.repo.Create(ctx, p)
	switch {
	case err == nil:
		p.ID = id
	case errors.Is(err, domain.ErrConflict):
		existing, getErr := s.repo.Get(ctx)
		if getErr != nil {
			return nil, getErr
		}
		if existing == nil {
			return nil, fmt.Errorf("profile create conflict but none found: %w", domain.ErrNotFound)
		}
		p.ID = existing.ID
		if err := s.repo.Update(ctx, p); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	s.events.Publish(domain.Event{Kind: domain.EventProfileUpdated})
	return p, nil
}

// UpdateSettings patches the adjustable daily targets and returns the
// updated profile. Returns ErrNotFound when no profile exists yet.
func (s *ProfileService) UpdateSettings(ctx context.Context, patch domain.SettingsPatch) (*domain.Profile, error) {
	if err := domain.Validate(patch); err != nil {
		return nil, err
	}
	if err := s.repo.Patch(ctx, patch); err != nil {
		return nil, err
	}
	s.events.Publish(domain.Event{Kind: domain.EventProfileUpdated})
	return s.repo.Get(ctx)
}
