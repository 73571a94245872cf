package postgres

import (
	"context"
	"database/sql"
	"errors"

	"caltrack/internal/domain"
)

// FoodRepo implements domain.FoodEntryRepository.
type FoodRepo struct {
	db *DB
}

// NewFoodRepo creates the food entry repository.
func NewFoodRepo(db *DB) *FoodRepo {
	return &FoodRepo{db: db}
}

var _ domain.FoodEntryRepository = (*FoodRepo)(nil)

const foodColumns = `id, daily_log_id, time_local, item, details, kcal_estimate,
	kcal_range_low, kcal_range_high, protein_g, carbs_g, fats_g, photo_id, category`

// Insert stores a new food entry and returns its id.
func (r *FoodRepo) Insert(ctx context.Context, e *domain.FoodEntry) (int64, error) {
	var id int64
	err := r.db.q(ctx).QueryRowContext(ctx,
		`INSERT INTO food_entries(daily_log_id, time_local, item, details, kcal_estimate,
			kcal_range_low, kcal_range_high, protein_g, carbs_g, fats_g, photo_id, category)
		 VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id;`,
		e.DailyLogID, e.TimeLocal, e.Item, e.Details, e.KcalEstimate,
		e.KcalRangeLow, e.KcalRangeHigh, e.ProteinG, e.CarbsG, e.FatsG,
		e.PhotoID, string(e.Category),
	).Scan(&id)
	if err != nil {
		return 0, storageErr("food_entries.insert", err)
	}
	return id, nil
}

// Get returns a food entry by id, or nil when none exists.
func (r *FoodRepo) Get(ctx context.Context, id int64) (*domain.FoodEntry, error) {
	row := r.db.q(ctx).QueryRowContext(ctx,
		`SELECT `+foodColumns+` FROM food_entries WHERE id = $1;`, id)

	e, err := scanFoodEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("food_entries.get", err)
	}
	return e, nil
}

// Delete removes a food entry. Returns false when the id was not present.
func (r *FoodRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.q(ctx).ExecContext(ctx, `DELETE FROM food_entries WHERE id = $1;`, id)
	if err != nil {
		return false, storageErr("food_entries.delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, storageErr("food_entries.delete", err)
	}
	return n > 0, nil
}

// ListByDailyLog returns a log's entries ordered by time of day.
func (r *FoodRepo) ListByDailyLog(ctx context.Context, dailyLogID int64) ([]domain.FoodEntry, error) {
	rows, err := r.db.q(ctx).QueryContext(ctx,
		`SELECT `+foodColumns+` FROM food_entries WHERE daily_log_id = $1 ORDER BY time_local, id;`,
		dailyLogID)
	if err != nil {
		return nil, storageErr("food_entries.list", err)
	}
	defer rows.Close()

	out := make([]domain.FoodEntry, 0)
	for rows.Next() {
		e, err := scanFoodEntry(rows)
		if err != nil {
			return nil, storageErr("food_entries.list", err)
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("food_entries.list", err)
	}
	return out, nil
}

func scanFoodEntry(row rowScanner) (*domain.FoodEntry, error) {
	var (
		e                    domain.FoodEntry
		low, high            sql.NullInt64
		protein, carbs, fats sql.NullFloat64
		category             string
	)
	err := row.Scan(&e.ID, &e.DailyLogID, &e.TimeLocal, &e.Item, &e.Details,
		&e.KcalEstimate, &low, &high, &protein, &carbs, &fats, &e.PhotoID, &category)
	if err != nil {
		return nil, err
	}
	e.Category = domain.Category(category)
	if low.Valid {
		v := int(low.Int64)
		e.KcalRangeLow = &v
	}
	if high.Valid {
		v := int(high.Int64)
		e.KcalRangeHigh = &v
	}
	if protein.Valid {
		e.ProteinG = &protein.Float64
	}
	if carbs.Valid {
		e.CarbsG = &carbs.Float64
	}
	if fats.Valid {
		e.FatsG = &fats.Float64
	}
	return &e, nil
}
