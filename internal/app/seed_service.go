package app

import (
	"context"

	"caltrack/internal/domain"
)

// SeedService bootstraps a demo profile with a first day of data so a fresh
// install has something to render.
type SeedService struct {
	profiles *ProfileService
	weights  *WeightService
	logs     *LogService
}

// NewSeedService creates a SeedService over the application services.
func NewSeedService(profiles *ProfileService, weights *WeightService, logs *LogService) *SeedService {
	return &SeedService{profiles: profiles, weights: weights, logs: logs}
}

func intp(v int) *int { return &v }

func floatp(v float64) *float64 { return &v }

// Seed creates the demo data. It returns false without touching anything
// when a profile already exists.
func (s *SeedService) Seed(ctx context.Context) (bool, error) {
	existing, err := s.profiles.Get(ctx)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	cheats := 2
	if _, err := s.profiles.Setup(ctx, domain.ProfileInput{
		Name:                  "Jaco",
		Age:                   46,
		Sex:                   "male",
		HeightCm:              178,
		StartWeightKg:         90,
		GoalWeightKg:          77,
		TdeeKcal:              2550,
		BmrKcal:               1820,
		DailyCalorieMin:       1900,
		DailyCalorieMax:       2000,
		DailyProteinTargetG:   160,
		DailyStepTarget:       7000,
		DailyWaterGlassTarget: 8,
		IfWindow:              "lunch + dinner",
		CheatMealsPerWeek:     &cheats,
	}); err != nil {
		return false, err
	}

	if _, err := s.weights.Upsert(ctx, domain.WeightInput{Date: "2026-02-15", WeightKg: 90}); err != nil {
		return false, err
	}

	const day = "2026-02-16"
	entries := []domain.FoodEntryInput{
		{
			TimeLocal:     "08:29",
			Item:          "Seattle Coffee tall cappuccino",
			Details:       "full cream milk, no sugar",
			KcalEstimate:  170,
			KcalRangeLow:  intp(150),
			KcalRangeHigh: intp(190),
			ProteinG:      floatp(9),
			CarbsG:        floatp(14),
			FatsG:         floatp(9),
			Category:      domain.CategoryDrink,
		},
		{
			TimeLocal:    "09:00",
			Item:         "Tea",
			Details:      "full cream milk + 1/2 tsp sugar",
			KcalEstimate: 25,
			ProteinG:     floatp(1),
			CarbsG:       floatp(3),
			FatsG:        floatp(1),
			Category:     domain.CategoryDrink,
		},
		{
			TimeLocal:     "13:30",
			Item:          "Restaurant lunch",
			Details:       "grilled chicken + avocado + greek-style side salad + small pumpkin/butternut portion; left part of meal",
			KcalEstimate:  690,
			KcalRangeLow:  intp(600),
			KcalRangeHigh: intp(780),
			ProteinG:      floatp(52),
			CarbsG:        floatp(30),
			FatsG:         floatp(38),
			Category:      domain.CategoryMeal,
		},
		{
			TimeLocal:     "14:10",
			Item:          "Seattle Coffee tall cappuccino + Coke Zero",
			Details:       "full cream milk, no sugar",
			KcalEstimate:  170,
			KcalRangeLow:  intp(150),
			KcalRangeHigh: intp(190),
			ProteinG:      floatp(9),
			CarbsG:        floatp(14),
			FatsG:         floatp(9),
			Category:      domain.CategoryDrink,
		},
		{
			TimeLocal:    "15:30",
			Item:         "Dry wors stick",
			KcalEstimate: 70,
			ProteinG:     floatp(6),
			CarbsG:       floatp(0),
			FatsG:        floatp(5),
			Category:     domain.CategorySnack,
		},
		{
			TimeLocal:     "19:00",
			Item:          "Spaghetti bolognese + cheese",
			Details:       "left about 1/3 on plate",
			KcalEstimate:  620,
			KcalRangeLow:  intp(520),
			KcalRangeHigh: intp(700),
			ProteinG:      floatp(32),
			CarbsG:        floatp(55),
			FatsG:         floatp(24),
			Category:      domain.CategoryMeal,
		},
		{
			TimeLocal:     "21:00",
			Item:          "Rooibos tea",
			Details:       "milk + 1/2 tsp honey",
			KcalEstimate:  30,
			KcalRangeLow:  intp(25),
			KcalRangeHigh: intp(35),
			ProteinG:      floatp(1),
			CarbsG:        floatp(5),
			FatsG:         floatp(0),
			Category:      domain.CategoryDrink,
		},
	}
	for _, in := range entries {
		if _, err := s.logs.AddFoodEntry(ctx, day, in); err != nil {
			return false, err
		}
	}

	steps := 2245
	burned := 2525
	notes := "First tracked day"
	if _, err := s.logs.UpdateDay(ctx, day, domain.DailyLogPatch{
		StepsCount: &steps,
		KcalBurned: &burned,
		Notes:      &notes,
	}); err != nil {
		return false, err
	}

	return true, nil
}
