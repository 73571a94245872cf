package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"caltrack/internal/domain"
)

func TestParseDay(t *testing.T) {
	if _, err := domain.ParseDay("2026-02-16"); err != nil {
		t.Fatalf("valid date rejected: %v", err)
	}
	for _, s := range []string{"", "16-02-2026", "2026-2-16", "2026-02-30T00:00:00Z"} {
		if _, err := domain.ParseDay(s); !domain.IsValidation(err) {
			t.Fatalf("date %q: want validation error, got %v", s, err)
		}
	}
}

func TestNewProfile_Defaults(t *testing.T) {
	p, err := domain.NewProfile(domain.ProfileInput{
		Name:          "Jaco",
		Age:           46,
		Sex:           "male",
		HeightCm:      178,
		StartWeightKg: 90,
		GoalWeightKg:  77,
		TdeeKcal:      2550,
		BmrKcal:       1820,
	})
	if err != nil {
		t.Fatalf("new profile: %v", err)
	}
	if p.DailyWaterGlassTarget != domain.DefaultWaterGlassTarget {
		t.Fatalf("water target = %d, want %d", p.DailyWaterGlassTarget, domain.DefaultWaterGlassTarget)
	}
}

func TestNewProfile_CalorieRange(t *testing.T) {
	_, err := domain.NewProfile(domain.ProfileInput{
		Name:            "Jaco",
		Age:             46,
		Sex:             "male",
		HeightCm:        178,
		StartWeightKg:   90,
		GoalWeightKg:    77,
		TdeeKcal:        2550,
		BmrKcal:         1820,
		DailyCalorieMin: 2000,
		DailyCalorieMax: 1900,
	})
	if !domain.IsValidation(err) {
		t.Fatalf("want validation error, got %v", err)
	}
}

func TestNewFoodEntry_RangeOrder(t *testing.T) {
	low, high := 600, 500
	_, err := domain.NewFoodEntry(1, domain.FoodEntryInput{
		TimeLocal:     "13:30",
		Item:          "lunch",
		KcalEstimate:  550,
		KcalRangeLow:  &low,
		KcalRangeHigh: &high,
		Category:      domain.CategoryMeal,
	})
	if !domain.IsValidation(err) {
		t.Fatalf("want validation error, got %v", err)
	}
}

func TestNewFoodEntry_Valid(t *testing.T) {
	e, err := domain.NewFoodEntry(7, domain.FoodEntryInput{
		TimeLocal:    "08:29",
		Item:         "cappuccino",
		KcalEstimate: 170,
		Category:     domain.CategoryDrink,
	})
	if err != nil {
		t.Fatalf("new entry: %v", err)
	}
	if e.DailyLogID != 7 || e.Category != domain.CategoryDrink {
		t.Fatalf("entry = %+v", e)
	}
}

func TestIsValidation_Wrapped(t *testing.T) {
	err := fmt.Errorf("outer: %w", domain.NewValidationError("date", "bad"))
	if !domain.IsValidation(err) {
		t.Fatal("wrapped validation error not detected")
	}
	if domain.IsValidation(errors.New("plain")) {
		t.Fatal("plain error reported as validation")
	}
	if domain.IsValidation(nil) {
		t.Fatal("nil reported as validation")
	}
}

func TestStorageError_Unwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := &domain.StorageError{Op: "logs.get", Err: inner}
	if !errors.Is(err, inner) {
		t.Fatal("unwrap broken")
	}
}
