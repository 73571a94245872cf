package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"caltrack/internal/domain"
)

// LogService is the aggregation service. It owns every write to a DailyLog's
// derived fields: kcalTotal is always recomputed from the log's current food
// entries inside the same transaction as the triggering mutation, and
// deficitKcal follows as kcalBurned minus kcalTotal.
type LogService struct {
	logs     domain.DailyLogRepository
	food     domain.FoodEntryRepository
	profiles domain.ProfileRepository
	photos   domain.PhotoStore
	tx       domain.TxRunner
	events   domain.EventPublisher
	logger   *slog.Logger
}

// NewLogService creates a LogService wired to the given ports.
func NewLogService(
	logs domain.DailyLogRepository,
	food domain.FoodEntryRepository,
	profiles domain.ProfileRepository,
	photos domain.PhotoStore,
	tx domain.TxRunner,
	events domain.EventPublisher,
	logger *slog.Logger,
) *LogService {
	return &LogService{
		logs:     logs,
		food:     food,
		profiles: profiles,
		photos:   photos,
		tx:       tx,
		events:   events,
		logger:   logger,
	}
}

// GetOrCreateDailyLog returns the log for date, creating an empty one when
// none exists. Calling it repeatedly for the same date yields the same
// record.
func (s *LogService) GetOrCreateDailyLog(ctx context.Context, date string) (*domain.DailyLog, error) {
	if _, err := domain.ParseDay(date); err != nil {
		return nil, err
	}
	var out *domain.DailyLog
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		log, err := s.getOrCreate(ctx, date)
		if err != nil {
			return err
		}
		out = log
		return nil
	})
	return out, err
}

func (s *LogService) getOrCreate(ctx context.Context, date string) (*domain.DailyLog, error) {
	log, err := s.logs.GetByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if log != nil {
		return log, nil
	}

	profile, err := s.profiles.Get(ctx)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("no profile: %w", domain.ErrNotFound)
	}

	fresh := &domain.DailyLog{Date: date, ProfileID: profile.ID}
	id, err := s.logs.Create(ctx, fresh)
	if errors.Is(err, domain.ErrConflict) {
		// Lost the insert race; the row exists now.
		return s.logs.GetByDate(ctx, date)
	}
	if err != nil {
		return nil, err
	}
	fresh.ID = id
	return fresh, nil
}

// AddFoodEntry validates the entry, stores it under date's log (creating the
// log when needed) and writes back the recomputed kcal total. Entry and
// total commit together or not at all.
func (s *LogService) AddFoodEntry(ctx context.Context, date string, in domain.FoodEntryInput) (*domain.FoodEntry, error) {
	if _, err := domain.ParseDay(date); err != nil {
		return nil, err
	}
	entry, err := domain.NewFoodEntry(0, in)
	if err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		log, err := s.getOrCreate(ctx, date)
		if err != nil {
			return err
		}
		entry.DailyLogID = log.ID
		id, err := s.food.Insert(ctx, entry)
		if err != nil {
			return err
		}
		entry.ID = id
		return s.recompute(ctx, log)
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(domain.Event{Kind: domain.EventDayUpdated, Date: date})
	return entry, nil
}

// RemoveFoodEntry deletes the entry and writes back the recomputed total on
// its owning log. Removing an unknown id is a no-op. Any photo blob is
// deleted best-effort after the commit.
func (s *LogService) RemoveFoodEntry(ctx context.Context, entryID int64) error {
	var (
		photoKey string
		date     string
	)
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		entry, err := s.food.Get(ctx, entryID)
		if err != nil {
			return err
		}
		if entry == nil {
			return nil
		}
		photoKey = entry.PhotoID

		if _, err := s.food.Delete(ctx, entryID); err != nil {
			return err
		}

		log, err := s.logs.GetByID(ctx, entry.DailyLogID)
		if err != nil {
			return err
		}
		if log == nil {
			return nil
		}
		date = log.Date
		return s.recompute(ctx, log)
	})
	if err != nil {
		return err
	}

	if photoKey != "" {
		if err := s.photos.Delete(ctx, photoKey); err != nil {
			s.logger.Warn("orphaned photo blob", "key", photoKey, "error", err)
		}
	}
	if date != "" {
		s.events.Publish(domain.Event{Kind: domain.EventDayUpdated, Date: date})
	}
	return nil
}

// AddWaterGlass increments the water counter on date's log, creating the log
// when needed.
func (s *LogService) AddWaterGlass(ctx context.Context, date string) (*domain.DailyLog, error) {
	if _, err := domain.ParseDay(date); err != nil {
		return nil, err
	}
	var out *domain.DailyLog
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		log, err := s.getOrCreate(ctx, date)
		if err != nil {
			return err
		}
		n := log.WaterGlasses + 1
		if err := s.logs.Patch(ctx, log.ID, domain.DailyLogPatch{WaterGlasses: &n}); err != nil {
			return err
		}
		log.WaterGlasses = n
		out = log
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.events.Publish(domain.Event{Kind: domain.EventDayUpdated, Date: date})
	return out, nil
}

// RemoveWaterGlass decrements the water counter, clamping at zero. When no
// log exists for date nothing is created and nil is returned.
func (s *LogService) RemoveWaterGlass(ctx context.Context, date string) (*domain.DailyLog, error) {
	if _, err := domain.ParseDay(date); err != nil {
		return nil, err
	}
	var (
		out     *domain.DailyLog
		changed bool
	)
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		log, err := s.logs.GetByDate(ctx, date)
		if err != nil {
			return err
		}
		if log == nil {
			return nil
		}
		if log.WaterGlasses > 0 {
			n := log.WaterGlasses - 1
			if err := s.logs.Patch(ctx, log.ID, domain.DailyLogPatch{WaterGlasses: &n}); err != nil {
				return err
			}
			log.WaterGlasses = n
			changed = true
		}
		out = log
		return nil
	})
	if err != nil {
		return nil, err
	}
	if changed {
		s.events.Publish(domain.Event{Kind: domain.EventDayUpdated, Date: date})
	}
	return out, nil
}

// UpdateDay patches the independently settable fields (steps, kcal burned,
// notes) on date's log, creating it when needed. Derived fields in the patch
// are ignored; the deficit is recomputed here when kcal burned changes.
func (s *LogService) UpdateDay(ctx context.Context, date string, patch domain.DailyLogPatch) (*domain.DailyLog, error) {
	if _, err := domain.ParseDay(date); err != nil {
		return nil, err
	}
	if err := domain.Validate(patch); err != nil {
		return nil, err
	}
	patch.KcalTotal = nil
	patch.DeficitKcal = nil
	patch.WaterGlasses = nil

	var out *domain.DailyLog
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		log, err := s.getOrCreate(ctx, date)
		if err != nil {
			return err
		}
		if patch.KcalBurned != nil {
			d := *patch.KcalBurned - log.KcalTotal
			patch.DeficitKcal = &d
		}
		if err := s.logs.Patch(ctx, log.ID, patch); err != nil {
			return err
		}
		out, err = s.logs.GetByID(ctx, log.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.events.Publish(domain.Event{Kind: domain.EventDayUpdated, Date: date})
	return out, nil
}

// Day returns the read model for one date: the log (nil when absent) and its
// food entries.
func (s *LogService) Day(ctx context.Context, date string) (*domain.DailyLog, []domain.FoodEntry, error) {
	if _, err := domain.ParseDay(date); err != nil {
		return nil, nil, err
	}
	log, err := s.logs.GetByDate(ctx, date)
	if err != nil {
		return nil, nil, err
	}
	if log == nil {
		return nil, []domain.FoodEntry{}, nil
	}
	entries, err := s.food.ListByDailyLog(ctx, log.ID)
	if err != nil {
		return nil, nil, err
	}
	return log, entries, nil
}

// Recent returns the most recent daily logs up to limit, newest first.
func (s *LogService) Recent(ctx context.Context, limit int) ([]domain.DailyLog, error) {
	return s.logs.ListRecent(ctx, limit)
}

// recompute reads every entry under the log and writes back the summed kcal
// total, plus the deficit when kcal burned is known. Full rescan rather than
// an incremental counter so the total cannot drift from the entry set.
func (s *LogService) recompute(ctx context.Context, log *domain.DailyLog) error {
	entries, err := s.food.ListByDailyLog(ctx, log.ID)
	if err != nil {
		return err
	}
	total := 0
	for _, e := range entries {
		total += e.KcalEstimate
	}
	patch := domain.DailyLogPatch{KcalTotal: &total}
	if log.KcalBurned != nil {
		d := *log.KcalBurned - total
		patch.DeficitKcal = &d
	}
	return s.logs.Patch(ctx, log.ID, patch)
}
