package postgres

import (
	"context"
	"database/sql"
	"errors"

	"caltrack/internal/domain"
)

// WeightRepo implements domain.WeightRepository.
type WeightRepo struct {
	db *DB
}

// NewWeightRepo creates the weight repository.
func NewWeightRepo(db *DB) *WeightRepo {
	return &WeightRepo{db: db}
}

var _ domain.WeightRepository = (*WeightRepo)(nil)

// Upsert inserts the entry, or overwrites weight_kg when the date exists.
func (r *WeightRepo) Upsert(ctx context.Context, e *domain.WeightEntry) (int64, error) {
	var id int64
	err := r.db.q(ctx).QueryRowContext(ctx,
		`INSERT INTO weight_entries(date, weight_kg, profile_id)
		 VALUES($1, $2, $3)
		 ON CONFLICT (date) DO UPDATE SET weight_kg = EXCLUDED.weight_kg
		 RETURNING id;`,
		e.Date, e.WeightKg, e.ProfileID,
	).Scan(&id)
	if err != nil {
		return 0, storageErr("weight_entries.upsert", err)
	}
	return id, nil
}

// GetByDate returns the entry for a date, or nil when none exists.
func (r *WeightRepo) GetByDate(ctx context.Context, date string) (*domain.WeightEntry, error) {
	row := r.db.q(ctx).QueryRowContext(ctx,
		`SELECT id, date, weight_kg, profile_id FROM weight_entries WHERE date = $1;`, date)

	var e domain.WeightEntry
	err := row.Scan(&e.ID, &e.Date, &e.WeightKg, &e.ProfileID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("weight_entries.get_by_date", err)
	}
	return &e, nil
}

// ListRecent returns entries ordered by date descending, up to limit.
// A non-positive limit returns all entries.
func (r *WeightRepo) ListRecent(ctx context.Context, limit int) ([]domain.WeightEntry, error) {
	query := `SELECT id, date, weight_kg, profile_id FROM weight_entries ORDER BY date DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}
	rows, err := r.db.q(ctx).QueryContext(ctx, query+";", args...)
	if err != nil {
		return nil, storageErr("weight_entries.list_recent", err)
	}
	defer rows.Close()

	out := make([]domain.WeightEntry, 0)
	for rows.Next() {
		var e domain.WeightEntry
		if err := rows.Scan(&e.ID, &e.Date, &e.WeightKg, &e.ProfileID); err != nil {
			return nil, storageErr("weight_entries.list_recent", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("weight_entries.list_recent", err)
	}
	return out, nil
}

// Latest returns the most recent entry, or nil when none exists.
func (r *WeightRepo) Latest(ctx context.Context) (*domain.WeightEntry, error) {
	row := r.db.q(ctx).QueryRowContext(ctx,
		`SELECT id, date, weight_kg, profile_id FROM weight_entries ORDER BY date DESC LIMIT 1;`)

	var e domain.WeightEntry
	err := row.Scan(&e.ID, &e.Date, &e.WeightKg, &e.ProfileID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("weight_entries.latest", err)
	}
	return &e, nil
}
