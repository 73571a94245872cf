package domain

import "context"

// WeightEntry is a single weight measurement keyed by calendar date.
// A second write for the same date overwrites the stored weight.
type WeightEntry struct {
	ID        int64   `json:"id"`
	Date      string  `json:"date"`
	WeightKg  float64 `json:"weightKg"`
	ProfileID int64   `json:"profileId"`
}

// WeightInput carries the caller-supplied fields for logging a weight.
type WeightInput struct {
	Date     string  `json:"date" validate:"required,datetime=2006-01-02"`
	WeightKg float64 `json:"weightKg" validate:"required,gt=0"`
}

// WeightRepository is the port for weight persistence. The date column
// carries a unique constraint.
type WeightRepository interface {
	// Upsert inserts the entry, or overwrites weight_kg when the date exists.
	// Returns the entry's id either way.
	Upsert(ctx context.Context, e *WeightEntry) (int64, error)
	// GetByDate returns the entry for a date, or nil when none exists.
	GetByDate(ctx context.Context, date string) (*WeightEntry, error)
	// ListRecent returns entries ordered by date descending, up to limit.
	// A non-positive limit returns all entries.
	ListRecent(ctx context.Context, limit int) ([]WeightEntry, error)
	// Latest returns the most recent entry, or nil when none exists.
	Latest(ctx context.Context) (*WeightEntry, error)
}
