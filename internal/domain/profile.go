// Package domain contains the core entities and the ports the application
// services depend on.
package domain

import "context"

// Profile is the single user's configuration record. At most one exists.
type Profile struct {
	ID                    int64    `json:"id"`
	Name                  string   `json:"name"`
	Age                   int      `json:"age"`
	Sex                   string   `json:"sex"`
	HeightCm              float64  `json:"heightCm"`
	StartWeightKg         float64  `json:"startWeightKg"`
	GoalWeightKg          float64  `json:"goalWeightKg"`
	TdeeKcal              int      `json:"tdeeKcal"`
	BmrKcal               int      `json:"bmrKcal"`
	DailyCalorieMin       int      `json:"dailyCalorieMin"`
	DailyCalorieMax       int      `json:"dailyCalorieMax"`
	DailyProteinTargetG   float64  `json:"dailyProteinTargetG"`
	DailyStepTarget       int      `json:"dailyStepTarget"`
	DailyWaterGlassTarget int      `json:"dailyWaterGlassTarget"`
	IfWindow              string   `json:"ifWindow,omitempty"`
	CheatMealsPerWeek     *int     `json:"cheatMealsPerWeek,omitempty"`
	Notes                 string   `json:"notes,omitempty"`
}

// DefaultWaterGlassTarget is used when the profile does not set one.
const DefaultWaterGlassTarget = 8

// ProfileInput carries the full set of profile fields for create/upsert.
type ProfileInput struct {
	Name                  string  `json:"name" validate:"required"`
	Age                   int     `json:"age" validate:"required,gt=0,lt=150"`
	Sex                   string  `json:"sex" validate:"required"`
	HeightCm              float64 `json:"heightCm" validate:"required,gt=0"`
	StartWeightKg         float64 `json:"startWeightKg" validate:"required,gt=0"`
	GoalWeightKg          float64 `json:"goalWeightKg" validate:"required,gt=0"`
	TdeeKcal              int     `json:"tdeeKcal" validate:"required,gt=0"`
	BmrKcal               int     `json:"bmrKcal" validate:"required,gt=0"`
	DailyCalorieMin       int     `json:"dailyCalorieMin" validate:"min=0"`
	DailyCalorieMax       int     `json:"dailyCalorieMax" validate:"min=0,gtefield=DailyCalorieMin"`
	DailyProteinTargetG   float64 `json:"dailyProteinTargetG" validate:"min=0"`
	DailyStepTarget       int     `json:"dailyStepTarget" validate:"min=0"`
	DailyWaterGlassTarget int     `json:"dailyWaterGlassTarget" validate:"min=0"`
	IfWindow              string  `json:"ifWindow"`
	CheatMealsPerWeek     *int    `json:"cheatMealsPerWeek" validate:"omitempty,min=0"`
	Notes                 string  `json:"notes"`
}

// NewProfile validates the input and builds a Profile, applying defaults.
func NewProfile(in ProfileInput) (*Profile, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	target := in.DailyWaterGlassTarget
	if target == 0 {
		target = DefaultWaterGlassTarget
	}
	return &Profile{
		Name:                  in.Name,
		Age:                   in.Age,
		Sex:                   in.Sex,
		HeightCm:              in.HeightCm,
		StartWeightKg:         in.StartWeightKg,
		GoalWeightKg:          in.GoalWeightKg,
		TdeeKcal:              in.TdeeKcal,
		BmrKcal:               in.BmrKcal,
		DailyCalorieMin:       in.DailyCalorieMin,
		DailyCalorieMax:       in.DailyCalorieMax,
		DailyProteinTargetG:   in.DailyProteinTargetG,
		DailyStepTarget:       in.DailyStepTarget,
		DailyWaterGlassTarget: target,
		IfWindow:              in.IfWindow,
		CheatMealsPerWeek:     in.CheatMealsPerWeek,
		Notes:                 in.Notes,
	}, nil
}

// SettingsPatch updates the adjustable daily targets. Nil fields are left
// unchanged.
type SettingsPatch struct {
	DailyCalorieMin       *int     `json:"dailyCalorieMin" validate:"omitempty,min=0"`
	DailyCalorieMax       *int     `json:"dailyCalorieMax" validate:"omitempty,min=0"`
	DailyProteinTargetG   *float64 `json:"dailyProteinTargetG" validate:"omitempty,min=0"`
	DailyStepTarget       *int     `json:"dailyStepTarget" validate:"omitempty,min=0"`
	DailyWaterGlassTarget *int     `json:"dailyWaterGlassTarget" validate:"omitempty,min=1"`
}

// ProfileRepository is the port for the singleton profile record.
type ProfileRepository interface {
	// Get returns the profile, or nil when none has been created yet.
	Get(ctx context.Context) (*Profile, error)
	// Create inserts the profile. Returns ErrConflict once one exists.
	Create(ctx context.Context, p *Profile) (int64, error)
	// Update overwrites every field of the existing profile.
	Update(ctx context.Context, p *Profile) error
	// Patch applies a SettingsPatch. Returns ErrNotFound when no profile
	// exists, even for an all-nil patch.
	Patch(ctx context.Context, patch SettingsPatch) error
}
