package domain

import "context"

// Category classifies a food entry.
type Category string

// Allowed food entry categories.
const (
	CategoryMeal  Category = "meal"
	CategoryDrink Category = "drink"
	CategorySnack Category = "snack"
)

// FoodEntry is a single logged meal, drink or snack. It is owned by exactly
// one DailyLog and never mutated in place.
type FoodEntry struct {
	ID            int64    `json:"id"`
	DailyLogID    int64    `json:"dailyLogId"`
	TimeLocal     string   `json:"timeLocal"`
	Item          string   `json:"item"`
	Details       string   `json:"details,omitempty"`
	KcalEstimate  int      `json:"kcalEstimate"`
	KcalRangeLow  *int     `json:"kcalRangeLow,omitempty"`
	KcalRangeHigh *int     `json:"kcalRangeHigh,omitempty"`
	ProteinG      *float64 `json:"proteinG,omitempty"`
	CarbsG        *float64 `json:"carbsG,omitempty"`
	FatsG         *float64 `json:"fatsG,omitempty"`
	PhotoID       string   `json:"photoId,omitempty"`
	Category      Category `json:"category"`
}

// FoodEntryInput carries the caller-supplied fields for a new entry.
type FoodEntryInput struct {
	TimeLocal     string   `json:"timeLocal" validate:"required,datetime=15:04"`
	Item          string   `json:"item" validate:"required"`
	Details       string   `json:"details"`
	KcalEstimate  int      `json:"kcalEstimate" validate:"min=0"`
	KcalRangeLow  *int     `json:"kcalRangeLow" validate:"omitempty,min=0"`
	KcalRangeHigh *int     `json:"kcalRangeHigh" validate:"omitempty,min=0"`
	ProteinG      *float64 `json:"proteinG" validate:"omitempty,min=0"`
	CarbsG        *float64 `json:"carbsG" validate:"omitempty,min=0"`
	FatsG         *float64 `json:"fatsG" validate:"omitempty,min=0"`
	PhotoID       string   `json:"photoId" validate:"omitempty,uuid4"`
	Category      Category `json:"category" validate:"required,oneof=meal drink snack"`
}

// NewFoodEntry validates the input and builds an entry owned by dailyLogID.
func NewFoodEntry(dailyLogID int64, in FoodEntryInput) (*FoodEntry, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	if in.KcalRangeLow != nil && in.KcalRangeHigh != nil && *in.KcalRangeHigh < *in.KcalRangeLow {
		return nil, NewValidationError("kcalRangeHigh", "must not be below kcalRangeLow")
	}
	return &FoodEntry{
		DailyLogID:    dailyLogID,
		TimeLocal:     in.TimeLocal,
		Item:          in.Item,
		Details:       in.Details,
		KcalEstimate:  in.KcalEstimate,
		KcalRangeLow:  in.KcalRangeLow,
		KcalRangeHigh: in.KcalRangeHigh,
		ProteinG:      in.ProteinG,
		CarbsG:        in.CarbsG,
		FatsG:         in.FatsG,
		PhotoID:       in.PhotoID,
		Category:      in.Category,
	}, nil
}

// FoodEntryRepository is the port for food entry persistence.
type FoodEntryRepository interface {
	// Insert stores a new entry and returns its id.
	Insert(ctx context.Context, e *FoodEntry) (int64, error)
	// Get returns an entry by id, or nil when none exists.
	Get(ctx context.Context, id int64) (*FoodEntry, error)
	// Delete removes an entry. Returns false when the id was not present.
	Delete(ctx context.Context, id int64) (bool, error)
	// ListByDailyLog returns the log's entries ordered by time of day.
	ListByDailyLog(ctx context.Context, dailyLogID int64) ([]FoodEntry, error)
}
