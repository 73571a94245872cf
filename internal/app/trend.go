package app

import (
	"math"

	"caltrack/internal/domain"
)

// LossRatePerWeek computes the weight loss rate in kg/week from entries
// sorted newest-first. It returns 0 when fewer than two samples exist or the
// span between the newest and oldest sample is under one day. A positive
// rate means weight is decreasing.
func LossRatePerWeek(entries []domain.WeightEntry) float64 {
	if len(entries) < 2 {
		return 0
	}
	newest, err := domain.ParseDay(entries[0].Date)
	if err != nil {
		return 0
	}
	oldest, err := domain.ParseDay(entries[len(entries)-1].Date)
	if err != nil {
		return 0
	}
	days := newest.Sub(oldest).Hours() / 24
	if days < 1 {
		return 0
	}
	return (entries[len(entries)-1].WeightKg - entries[0].WeightKg) / days * 7
}

// DaysToGoal projects the days until goal weight at the given rate. The
// second return is false when ratePerWeek is non-positive and no projection
// exists. The projection may be negative when the goal is already passed.
func DaysToGoal(currentKg, goalKg, ratePerWeek float64) (int, bool) {
	if ratePerWeek <= 0 {
		return 0, false
	}
	return int(math.Ceil((currentKg - goalKg) / ratePerWeek * 7)), true
}

// TotalLost returns start minus current weight; negative when weight went up.
func TotalLost(startKg, currentKg float64) float64 {
	return startKg - currentKg
}
