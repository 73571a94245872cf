package app_test

import (
	"context"
	"testing"

	"caltrack/internal/app"
	"caltrack/internal/domain"
)

type mockProfileRepo struct {
	getFn    func(ctx context.Context) (*domain.Profile, error)
	createFn func(ctx context.Context, p *domain.Profile) (int64, error)
	updateFn func(ctx context.Context, p *domain.Profile) error
	patchFn  func(ctx context.Context, patch domain.SettingsPatch) error
}

func (m *mockProfileRepo) Get(ctx context.Context) (*domain.Profile, error) {
	if m.getFn != nil {
		return m.getFn(ctx)
	}
	return nil, nil
}

func (m *mockProfileRepo) Create(ctx context.Context, p *domain.Profile) (int64, error) {
	if m.createFn != nil {
		return m.createFn(ctx, p)
	}
	return 1, nil
}

func (m *mockProfileRepo) Update(ctx context.Context, p *domain.Profile) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, p)
	}
	return nil
}

func (m *mockProfileRepo) Patch(ctx context.Context, patch domain.SettingsPatch) error {
	if m.patchFn != nil {
		return m.patchFn(ctx, patch)
	}
	return nil
}

func validProfileInput() domain.ProfileInput {
	return domain.ProfileInput{
		Name:            "Jaco",
		Age:             46,
		Sex:             "male",
		HeightCm:        178,
		StartWeightKg:   90,
		GoalWeightKg:    77,
		TdeeKcal:        2550,
		BmrKcal:         1820,
		DailyCalorieMin: 1900,
		DailyCalorieMax: 2000,
	}
}

func TestSetup_Creates(t *testing.T) {
	events := &eventRecorder{}
	svc := app.NewProfileService(&mockProfileRepo{}, events)

	p, err := svc.Setup(context.Background(), validProfileInput())
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if p.ID != 1 {
		t.Fatalf("id = %d, want 1", p.ID)
	}
	if p.DailyWaterGlassTarget != domain.DefaultWaterGlassTarget {
		t.Fatalf("water target = %d, want default %d", p.DailyWaterGlassTarget, domain.DefaultWaterGlassTarget)
	}
	if len(events.events) != 1 || events.events[0].Kind != domain.EventProfileUpdated {
		t.Fatalf("events = %v", events.events)
	}
}

func TestSetup_OverwritesExisting(t *testing.T) {
	var updated *domain.Profile
	repo := &mockProfileRepo{
		createFn: func(context.Context, *domain.Profile) (int64, error) {
			return 0, domain.ErrConflict
		},
		getFn: func(context.Context) (*domain.Profile, error) {
			return &domain.Profile{ID: 1, Name: "old"}, nil
		},
		updateFn: func(_ context.Context, p *domain.Profile) error {
			updated = p
			return nil
		},
	}
	svc := app.NewProfileService(repo, &eventRecorder{})

	p, err := svc.Setup(context.Background(), validProfileInput())
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if updated == nil || updated.Name != "Jaco" {
		t.Fatalf("update not called with new fields: %+v", updated)
	}
	if p.ID != 1 {
		t.Fatalf("id = %d, want 1", p.ID)
	}
}

func TestSetup_Validation(t *testing.T) {
	svc := app.NewProfileService(&mockProfileRepo{}, &eventRecorder{})

	tests := []struct {
		name   string
		mutate func(in *domain.ProfileInput)
	}{
		{"missing name", func(in *domain.ProfileInput) { in.Name = "" }},
		{"zero age", func(in *domain.ProfileInput) { in.Age = 0 }},
		{"negative height", func(in *domain.ProfileInput) { in.HeightCm = -1 }},
		{"max below min", func(in *domain.ProfileInput) { in.DailyCalorieMax = 1800 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := validProfileInput()
			tc.mutate(&in)
			if _, err := svc.Setup(context.Background(), in); !domain.IsValidation(err) {
				t.Fatalf("want validation error, got %v", err)
			}
		})
	}
}

func TestUpdateSettings(t *testing.T) {
	var got domain.SettingsPatch
	stored := &domain.Profile{ID: 1, Name: "Jaco", DailyStepTarget: 9000}
	repo := &mockProfileRepo{
		patchFn: func(_ context.Context, patch domain.SettingsPatch) error {
			got = patch
			return nil
		},
		getFn: func(context.Context) (*domain.Profile, error) {
			return stored, nil
		},
	}
	events := &eventRecorder{}
	svc := app.NewProfileService(repo, events)

	steps := 9000
	p, err := svc.UpdateSettings(context.Background(), domain.SettingsPatch{DailyStepTarget: &steps})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.DailyStepTarget == nil || *got.DailyStepTarget != 9000 {
		t.Fatalf("patch not forwarded: %+v", got)
	}
	if p.DailyStepTarget != 9000 {
		t.Fatalf("returned profile stale: %+v", p)
	}
	if len(events.events) != 1 {
		t.Fatalf("events = %v", events.events)
	}
}

func TestUpdateSettings_Validation(t *testing.T) {
	svc := app.NewProfileService(&mockProfileRepo{}, &eventRecorder{})

	negative := -1
	_, err := svc.UpdateSettings(context.Background(), domain.SettingsPatch{DailyCalorieMin: &negative})
	if !domain.IsValidation(err) {
		t.Fatalf("want validation error, got %v", err)
	}
}
