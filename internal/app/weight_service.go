package app

import (
	"context"
	"fmt"

	"caltrack/internal/domain"
)

// WeightService encapsulates weight-tracking use cases.
type WeightService struct {
	weights  domain.WeightRepository
	profiles domain.ProfileRepository
	events   domain.EventPublisher
}

// NewWeightService creates a WeightService backed by the given repositories.
func NewWeightService(weights domain.WeightRepository, profiles domain.ProfileRepository, events domain.EventPublisher) *WeightService {
	return &WeightService{weights: weights, profiles: profiles, events: events}
}

// Upsert validates and stores a weight measurement. A second write for the
// same date overwrites the stored weight instead of creating a duplicate.
func (s *WeightService) Upsert(ctx context.Context, in domain.WeightInput) (*domain.WeightEntry, error) {
	if err := domain.Validate(in); err != nil {
		return nil, err
	}
	profile, err := s.profiles.Get(ctx)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("no profile: %w", domain.ErrNotFound)
	}

	entry := &domain.WeightEntry{
		Date:      in.Date,
		WeightKg:  in.WeightKg,
		ProfileID: profile.ID,
	}
	id, err := s.weights.Upsert(ctx, entry)
	if err != nil {
		return nil, err
	}
	entry.ID = id

	s.events.Publish(domain.Event{Kind: domain.EventWeightUpdated, Date: in.Date})
	return entry, nil
}

// Recent returns the most recent weight entries up to limit, newest first.
func (s *WeightService) Recent(ctx context.Context, limit int) ([]domain.WeightEntry, error) {
	return s.weights.ListRecent(ctx, limit)
}

// Latest returns the most recent weight entry, or nil when none exists.
func (s *WeightService) Latest(ctx context.Context) (*domain.WeightEntry, error) {
	return s.weights.Latest(ctx)
}

// TrendSummary is the derived read model for the weight page.
type TrendSummary struct {
	CurrentWeightKg float64 `json:"currentWeightKg"`
	GoalWeightKg    float64 `json:"goalWeightKg"`
	TotalLostKg     float64 `json:"totalLostKg"`
	ToGoKg          float64 `json:"toGoKg"`
	RatePerWeekKg   float64 `json:"ratePerWeekKg"`
	DaysToGoal      *int    `json:"daysToGoal,omitempty"`
	Samples         int     `json:"samples"`
}

// Summary assembles the trend read model from the full weight history. The
// current weight falls back to the profile's start weight before any entry
// is logged.
func (s *WeightService) Summary(ctx context.Context) (*TrendSummary, error) {
	profile, err := s.profiles.Get(ctx)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("no profile: %w", domain.ErrNotFound)
	}

	entries, err := s.weights.ListRecent(ctx, 0)
	if err != nil {
		return nil, err
	}

	current := profile.StartWeightKg
	if len(entries) > 0 {
		current = entries[0].WeightKg
	}

	out := &TrendSummary{
		CurrentWeightKg: current,
		GoalWeightKg:    profile.GoalWeightKg,
		TotalLostKg:     TotalLost(profile.StartWeightKg, current),
		ToGoKg:          current - profile.GoalWeightKg,
		RatePerWeekKg:   LossRatePerWeek(entries),
		Samples:         len(entries),
	}
	if days, ok := DaysToGoal(current, profile.GoalWeightKg, out.RatePerWeekKg); ok {
		out.DaysToGoal = &days
	}
	return out, nil
}
