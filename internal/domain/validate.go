package domain

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
)

// DayFormat is the calendar-date key format used by DailyLog and WeightEntry.
const DayFormat = "2006-01-02"

// TimeFormat is the local wall-clock format on a FoodEntry.
const TimeFormat = "15:04"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate runs struct-tag validation and converts the first failure into a
// ValidationError.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		return NewValidationError(errs[0].Field(), "failed "+errs[0].Tag()+" check")
	}
	return NewValidationError("input", err.Error())
}

// ParseDay parses a YYYY-MM-DD date key.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DayFormat, s)
	if err != nil {
		return time.Time{}, NewValidationError("date", "must be YYYY-MM-DD")
	}
	return t, nil
}

// Today returns the current local calendar date key.
func Today() string {
	return time.Now().In(time.Local).Format(DayFormat)
}
