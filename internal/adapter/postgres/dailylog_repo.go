package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"caltrack/internal/domain"
)

// DailyLogRepo implements domain.DailyLogRepository.
type DailyLogRepo struct {
	db *DB
}

// NewDailyLogRepo creates the daily log repository.
func NewDailyLogRepo(db *DB) *DailyLogRepo {
	return &DailyLogRepo{db: db}
}

var _ domain.DailyLogRepository = (*DailyLogRepo)(nil)

const dailyLogColumns = `id, date, profile_id, steps_count, kcal_total, kcal_burned,
	deficit_kcal, water_glasses, notes`

// GetByDate returns the log for a date, or nil when none exists.
func (r *DailyLogRepo) GetByDate(ctx context.Context, date string) (*domain.DailyLog, error) {
	row := r.db.q(ctx).QueryRowContext(ctx,
		`SELECT `+dailyLogColumns+` FROM daily_logs WHERE date = $1;`, date)
	return scanDailyLogRow(row, "daily_logs.get_by_date")
}

// GetByID returns the log by id, or nil when none exists.
func (r *DailyLogRepo) GetByID(ctx context.Context, id int64) (*domain.DailyLog, error) {
	row := r.db.q(ctx).QueryRowContext(ctx,
		`SELECT `+dailyLogColumns+` FROM daily_logs WHERE id = $1;`, id)
	return scanDailyLogRow(row, "daily_logs.get_by_id")
}

// Create inserts a new daily log, surfacing a duplicate date as ErrConflict.
// The insert uses ON CONFLICT DO NOTHING rather than letting the unique
// index raise: a raised violation would abort the surrounding transaction
// and the caller could no longer re-read the existing row.
func (r *DailyLogRepo) Create(ctx context.Context, log *domain.DailyLog) (int64, error) {
	var id int64
	err := r.db.q(ctx).QueryRowContext(ctx,
		`INSERT INTO daily_logs(date, profile_id, steps_count, kcal_total, kcal_burned,
			deficit_kcal, water_glasses, notes)
		 VALUES($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (date) DO NOTHING
		 RETURNING id;`,
		log.Date, log.ProfileID, log.StepsCount, log.KcalTotal,
		log.KcalBurned, log.DeficitKcal, log.WaterGlasses, log.Notes,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrConflict
	}
	if err != nil {
		return 0, storageErr("daily_logs.create", err)
	}
	return id, nil
}

// Patch applies partial updates to a daily log.
func (r *DailyLogRepo) Patch(ctx context.Context, id int64, patch domain.DailyLogPatch) error {
	sets := make([]string, 0, 6)
	args := make([]any, 0, 7)
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s=$%d", col, len(args)))
	}
	if patch.StepsCount != nil {
		add("steps_count", *patch.StepsCount)
	}
	if patch.KcalTotal != nil {
		add("kcal_total", *patch.KcalTotal)
	}
	if patch.KcalBurned != nil {
		add("kcal_burned", *patch.KcalBurned)
	}
	if patch.DeficitKcal != nil {
		add("deficit_kcal", *patch.DeficitKcal)
	}
	if patch.WaterGlasses != nil {
		add("water_glasses", *patch.WaterGlasses)
	}
	if patch.Notes != nil {
		add("notes", *patch.Notes)
	}
	if len(sets) == 0 {
		var one int
		err := r.db.q(ctx).QueryRowContext(ctx, `SELECT 1 FROM daily_logs WHERE id = $1;`, id).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		if err != nil {
			return storageErr("daily_logs.patch", err)
		}
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE daily_logs SET %s WHERE id = $%d;", strings.Join(sets, ", "), len(args))
	res, err := r.db.q(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return storageErr("daily_logs.patch", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("daily_logs.patch", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListRecent returns daily logs ordered by date descending, up to limit.
func (r *DailyLogRepo) ListRecent(ctx context.Context, limit int) ([]domain.DailyLog, error) {
	query := `SELECT ` + dailyLogColumns + ` FROM daily_logs ORDER BY date DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}
	rows, err := r.db.q(ctx).QueryContext(ctx, query+";", args...)
	if err != nil {
		return nil, storageErr("daily_logs.list_recent", err)
	}
	defer rows.Close()

	out := make([]domain.DailyLog, 0)
	for rows.Next() {
		log, err := scanDailyLog(rows)
		if err != nil {
			return nil, storageErr("daily_logs.list_recent", err)
		}
		out = append(out, *log)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("daily_logs.list_recent", err)
	}
	return out, nil
}

func scanDailyLogRow(row rowScanner, op string) (*domain.DailyLog, error) {
	log, err := scanDailyLog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr(op, err)
	}
	return log, nil
}

func scanDailyLog(row rowScanner) (*domain.DailyLog, error) {
	var (
		l                     domain.DailyLog
		steps, burned, defcit sql.NullInt64
	)
	err := row.Scan(&l.ID, &l.Date, &l.ProfileID, &steps, &l.KcalTotal,
		&burned, &defcit, &l.WaterGlasses, &l.Notes)
	if err != nil {
		return nil, err
	}
	if steps.Valid {
		v := int(steps.Int64)
		l.StepsCount = &v
	}
	if burned.Valid {
		v := int(burned.Int64)
		l.KcalBurned = &v
	}
	if defcit.Valid {
		v := int(defcit.Int64)
		l.DeficitKcal = &v
	}
	return &l, nil
}
