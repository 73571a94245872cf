package domain

import "context"

// DailyLog is the per-calendar-date aggregate of the day's metrics.
// KcalTotal is derived from the log's food entries and must only be written
// by the aggregation service.
type DailyLog struct {
	ID           int64  `json:"id"`
	Date         string `json:"date"`
	ProfileID    int64  `json:"profileId"`
	StepsCount   *int   `json:"stepsCount,omitempty"`
	KcalTotal    int    `json:"kcalTotal"`
	KcalBurned   *int   `json:"kcalBurned,omitempty"`
	DeficitKcal  *int   `json:"deficitKcal,omitempty"`
	WaterGlasses int    `json:"waterGlasses"`
	Notes        string `json:"notes,omitempty"`
}

// DailyLogPatch applies partial updates to a DailyLog. Nil fields are left
// unchanged.
type DailyLogPatch struct {
	StepsCount   *int    `json:"stepsCount" validate:"omitempty,min=0"`
	KcalTotal    *int    `json:"-"`
	KcalBurned   *int    `json:"kcalBurned" validate:"omitempty,min=0"`
	DeficitKcal  *int    `json:"-"`
	WaterGlasses *int    `json:"-"`
	Notes        *string `json:"notes"`
}

// DailyLogRepository is the port for date-keyed daily log persistence.
// The date column carries a unique constraint; Create surfaces a duplicate
// date as ErrConflict.
type DailyLogRepository interface {
	// GetByDate returns the log for a date, or nil when none exists.
	GetByDate(ctx context.Context, date string) (*DailyLog, error)
	// GetByID returns the log by id, or nil when none exists.
	GetByID(ctx context.Context, id int64) (*DailyLog, error)
	// Create inserts a new log and returns its id.
	Create(ctx context.Context, log *DailyLog) (int64, error)
	// Patch applies partial updates. Returns ErrNotFound for an unknown id,
	// even for an all-nil patch.
	Patch(ctx context.Context, id int64, patch DailyLogPatch) error
	// ListRecent returns logs ordered by date descending, up to limit.
	ListRecent(ctx context.Context, limit int) ([]DailyLog, error)
}

// TxRunner runs a function inside one storage transaction. Repository calls
// made with the context passed to fn join that transaction; fn returning an
// error rolls everything back.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
