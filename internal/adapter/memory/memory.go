// Package memory implements in-memory repositories for development and
// testing.
package memory

import (
	"context"
	"sort"
	"sync"

	"caltrack/internal/domain"
)

// DB holds the mutex-guarded store shared by the per-table repositories.
type DB struct {
	mu   sync.Mutex
	txMu sync.Mutex

	profile *domain.Profile
	logs    []domain.DailyLog
	food    []domain.FoodEntry
	weights []domain.WeightEntry

	logIDCounter    int64
	foodIDCounter   int64
	weightIDCounter int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{}
}

// Ensure interfaces are met.
var _ domain.TxRunner = (*DB)(nil)
var _ domain.ProfileRepository = (*ProfileRepo)(nil)
var _ domain.DailyLogRepository = (*DailyLogRepo)(nil)
var _ domain.FoodEntryRepository = (*FoodRepo)(nil)
var _ domain.WeightRepository = (*WeightRepo)(nil)

// RunInTx serializes logical transactions against each other. Individual
// operations are already atomic under the store mutex; rollback is not
// simulated.
func (db *DB) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	db.txMu.Lock()
	defer db.txMu.Unlock()
	return fn(ctx)
}

// Profiles returns the profile repository.
func (db *DB) Profiles() *ProfileRepo { return &ProfileRepo{db: db} }

// DailyLogs returns the daily log repository.
func (db *DB) DailyLogs() *DailyLogRepo { return &DailyLogRepo{db: db} }

// FoodEntries returns the food entry repository.
func (db *DB) FoodEntries() *FoodRepo { return &FoodRepo{db: db} }

// Weights returns the weight repository.
func (db *DB) Weights() *WeightRepo { return &WeightRepo{db: db} }

// ProfileRepo implements the singleton profile port.
type ProfileRepo struct {
	db *DB
}

// Get returns the profile, or nil when none exists.
func (r *ProfileRepo) Get(ctx context.Context) (*domain.Profile, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if r.db.profile == nil {
		return nil, nil
	}
	p := *r.db.profile
	return &p, nil
}

// Create inserts the singleton profile.
func (r *ProfileRepo) Create(ctx context.Context, p *domain.Profile) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if r.db.profile != nil {
		return 0, domain.ErrConflict
	}
	cp := *p
	cp.ID = 1
	r.db.profile = &cp
	return cp.ID, nil
}

// Update overwrites the existing profile.
func (r *ProfileRepo) Update(ctx context.Context, p *domain.Profile) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if r.db.profile == nil {
		return domain.ErrNotFound
	}
	cp := *p
	cp.ID = r.db.profile.ID
	r.db.profile = &cp
	return nil
}

// Patch applies a settings patch to the existing profile.
func (r *ProfileRepo) Patch(ctx context.Context, patch domain.SettingsPatch) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	p := r.db.profile
	if p == nil {
		return domain.ErrNotFound
	}
	if patch.DailyCalorieMin != nil {
		p.DailyCalorieMin = *patch.DailyCalorieMin
	}
	if patch.DailyCalorieMax != nil {
		p.DailyCalorieMax = *patch.DailyCalorieMax
	}
	if patch.DailyProteinTargetG != nil {
		p.DailyProteinTargetG = *patch.DailyProteinTargetG
	}
	if patch.DailyStepTarget != nil {
		p.DailyStepTarget = *patch.DailyStepTarget
	}
	if patch.DailyWaterGlassTarget != nil {
		p.DailyWaterGlassTarget = *patch.DailyWaterGlassTarget
	}
	return nil
}

// DailyLogRepo implements the date-keyed daily log port.
type DailyLogRepo struct {
	db *DB
}

// GetByDate returns the log for a date, or nil.
func (r *DailyLogRepo) GetByDate(ctx context.Context, date string) (*domain.DailyLog, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i := range r.db.logs {
		if r.db.logs[i].Date == date {
			cp := r.db.logs[i]
			return &cp, nil
		}
	}
	return nil, nil
}

// GetByID returns the log by id, or nil.
func (r *DailyLogRepo) GetByID(ctx context.Context, id int64) (*domain.DailyLog, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i := range r.db.logs {
		if r.db.logs[i].ID == id {
			cp := r.db.logs[i]
			return &cp, nil
		}
	}
	return nil, nil
}

// Create inserts a new daily log, enforcing the unique date key.
func (r *DailyLogRepo) Create(ctx context.Context, log *domain.DailyLog) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i := range r.db.logs {
		if r.db.logs[i].Date == log.Date {
			return 0, domain.ErrConflict
		}
	}
	r.db.logIDCounter++
	cp := *log
	cp.ID = r.db.logIDCounter
	r.db.logs = append(r.db.logs, cp)
	return cp.ID, nil
}

// Patch applies partial updates to a daily log.
func (r *DailyLogRepo) Patch(ctx context.Context, id int64, patch domain.DailyLogPatch) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i := range r.db.logs {
		if r.db.logs[i].ID != id {
			continue
		}
		l := &r.db.logs[i]
		if patch.StepsCount != nil {
			l.StepsCount = patch.StepsCount
		}
		if patch.KcalTotal != nil {
			l.KcalTotal = *patch.KcalTotal
		}
		if patch.KcalBurned != nil {
			l.KcalBurned = patch.KcalBurned
		}
		if patch.DeficitKcal != nil {
			l.DeficitKcal = patch.DeficitKcal
		}
		if patch.WaterGlasses != nil {
			l.WaterGlasses = *patch.WaterGlasses
		}
		if patch.Notes != nil {
			l.Notes = *patch.Notes
		}
		return nil
	}
	return domain.ErrNotFound
}

// ListRecent returns daily logs ordered by date descending.
func (r *DailyLogRepo) ListRecent(ctx context.Context, limit int) ([]domain.DailyLog, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	result := make([]domain.DailyLog, len(r.db.logs))
	copy(result, r.db.logs)

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date > result[j].Date
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// FoodRepo implements the food entry port.
type FoodRepo struct {
	db *DB
}

// Insert stores a new food entry.
func (r *FoodRepo) Insert(ctx context.Context, e *domain.FoodEntry) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.foodIDCounter++
	cp := *e
	cp.ID = r.db.foodIDCounter
	r.db.food = append(r.db.food, cp)
	return cp.ID, nil
}

// Get returns a food entry by id, or nil.
func (r *FoodRepo) Get(ctx context.Context, id int64) (*domain.FoodEntry, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i := range r.db.food {
		if r.db.food[i].ID == id {
			cp := r.db.food[i]
			return &cp, nil
		}
	}
	return nil, nil
}

// Delete removes a food entry by id.
func (r *FoodRepo) Delete(ctx context.Context, id int64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i := range r.db.food {
		if r.db.food[i].ID == id {
			r.db.food = append(r.db.food[:i], r.db.food[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// ListByDailyLog returns a log's entries ordered by time of day.
func (r *FoodRepo) ListByDailyLog(ctx context.Context, dailyLogID int64) ([]domain.FoodEntry, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	result := make([]domain.FoodEntry, 0)
	for i := range r.db.food {
		if r.db.food[i].DailyLogID == dailyLogID {
			result = append(result, r.db.food[i])
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].TimeLocal != result[j].TimeLocal {
			return result[i].TimeLocal < result[j].TimeLocal
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// WeightRepo implements the date-keyed weight port.
type WeightRepo struct {
	db *DB
}

// Upsert inserts a weight entry or overwrites the weight for its date.
func (r *WeightRepo) Upsert(ctx context.Context, e *domain.WeightEntry) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i := range r.db.weights {
		if r.db.weights[i].Date == e.Date {
			r.db.weights[i].WeightKg = e.WeightKg
			return r.db.weights[i].ID, nil
		}
	}
	r.db.weightIDCounter++
	cp := *e
	cp.ID = r.db.weightIDCounter
	r.db.weights = append(r.db.weights, cp)
	return cp.ID, nil
}

// GetByDate returns the weight entry for a date, or nil.
func (r *WeightRepo) GetByDate(ctx context.Context, date string) (*domain.WeightEntry, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i := range r.db.weights {
		if r.db.weights[i].Date == date {
			cp := r.db.weights[i]
			return &cp, nil
		}
	}
	return nil, nil
}

// ListRecent returns weight entries ordered by date descending.
func (r *WeightRepo) ListRecent(ctx context.Context, limit int) ([]domain.WeightEntry, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	result := make([]domain.WeightEntry, len(r.db.weights))
	copy(result, r.db.weights)

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date > result[j].Date
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// Latest returns the most recent weight entry, or nil.
func (r *WeightRepo) Latest(ctx context.Context) (*domain.WeightEntry, error) {
	entries, err := r.ListRecent(ctx, 1)
	if err != nil || len(entries) == 0 {
		return nil, err
	}
	return &entries[0], nil
}
