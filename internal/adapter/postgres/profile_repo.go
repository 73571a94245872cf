package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"caltrack/internal/domain"
)

// ProfileRepo implements domain.ProfileRepository.
type ProfileRepo struct {
	db *DB
}

// NewProfileRepo creates the profile repository.
func NewProfileRepo(db *DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

var _ domain.ProfileRepository = (*ProfileRepo)(nil)

const profileColumns = `id, name, age, sex, height_cm, start_weight_kg, goal_weight_kg,
	tdee_kcal, bmr_kcal, daily_calorie_min, daily_calorie_max,
	daily_protein_target_g, daily_step_target, daily_water_glass_target,
	if_window, cheat_meals_per_week, notes`

// Get returns the singleton profile, or nil when none exists.
func (r *ProfileRepo) Get(ctx context.Context) (*domain.Profile, error) {
	row := r.db.q(ctx).QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = 1;`)

	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("profiles.get", err)
	}
	return p, nil
}

// Create inserts the singleton row. A second insert trips the primary key
// and is surfaced as ErrConflict.
func (r *ProfileRepo) Create(ctx context.Context, p *domain.Profile) (int64, error) {
	var id int64
	err := r.db.q(ctx).QueryRowContext(ctx,
		`INSERT INTO profiles(id, name, age, sex, height_cm, start_weight_kg, goal_weight_kg,
			tdee_kcal, bmr_kcal, daily_calorie_min, daily_calorie_max,
			daily_protein_target_g, daily_step_target, daily_water_glass_target,
			if_window, cheat_meals_per_week, notes)
		 VALUES(1, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		 RETURNING id;`,
		p.Name, p.Age, p.Sex, p.HeightCm, p.StartWeightKg, p.GoalWeightKg,
		p.TdeeKcal, p.BmrKcal, p.DailyCalorieMin, p.DailyCalorieMax,
		p.DailyProteinTargetG, p.DailyStepTarget, p.DailyWaterGlassTarget,
		p.IfWindow, p.CheatMealsPerWeek, p.Notes,
	).Scan(&id)
	if isUniqueViolation(err) {
		return 0, domain.ErrConflict
	}
	if err != nil {
		return 0, storageErr("profiles.create", err)
	}
	return id, nil
}

// Update overwrites every field of the existing profile.
func (r *ProfileRepo) Update(ctx context.Context, p *domain.Profile) error {
	res, err := r.db.q(ctx).ExecContext(ctx,
		`UPDATE profiles SET name=$1, age=$2, sex=$3, height_cm=$4,
			start_weight_kg=$5, goal_weight_kg=$6, tdee_kcal=$7, bmr_kcal=$8,
			daily_calorie_min=$9, daily_calorie_max=$10, daily_protein_target_g=$11,
			daily_step_target=$12, daily_water_glass_target=$13,
			if_window=$14, cheat_meals_per_week=$15, notes=$16
		 WHERE id = 1;`,
		p.Name, p.Age, p.Sex, p.HeightCm, p.StartWeightKg, p.GoalWeightKg,
		p.TdeeKcal, p.BmrKcal, p.DailyCalorieMin, p.DailyCalorieMax,
		p.DailyProteinTargetG, p.DailyStepTarget, p.DailyWaterGlassTarget,
		p.IfWindow, p.CheatMealsPerWeek, p.Notes,
	)
	if err != nil {
		return storageErr("profiles.update", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("profiles.update", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Patch applies a settings patch to the existing profile.
func (r *ProfileRepo) Patch(ctx context.Context, patch domain.SettingsPatch) error {
	sets := make([]string, 0, 5)
	args := make([]any, 0, 5)
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s=$%d", col, len(args)))
	}
	if patch.DailyCalorieMin != nil {
		add("daily_calorie_min", *patch.DailyCalorieMin)
	}
	if patch.DailyCalorieMax != nil {
		add("daily_calorie_max", *patch.DailyCalorieMax)
	}
	if patch.DailyProteinTargetG != nil {
		add("daily_protein_target_g", *patch.DailyProteinTargetG)
	}
	if patch.DailyStepTarget != nil {
		add("daily_step_target", *patch.DailyStepTarget)
	}
	if patch.DailyWaterGlassTarget != nil {
		add("daily_water_glass_target", *patch.DailyWaterGlassTarget)
	}
	if len(sets) == 0 {
		var one int
		err := r.db.q(ctx).QueryRowContext(ctx, `SELECT 1 FROM profiles WHERE id = 1;`).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		if err != nil {
			return storageErr("profiles.patch", err)
		}
		return nil
	}

	query := "UPDATE profiles SET " + strings.Join(sets, ", ") + " WHERE id = 1;"
	res, err := r.db.q(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return storageErr("profiles.patch", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("profiles.patch", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*domain.Profile, error) {
	var (
		p      domain.Profile
		cheats sql.NullInt64
	)
	err := row.Scan(&p.ID, &p.Name, &p.Age, &p.Sex, &p.HeightCm,
		&p.StartWeightKg, &p.GoalWeightKg, &p.TdeeKcal, &p.BmrKcal,
		&p.DailyCalorieMin, &p.DailyCalorieMax, &p.DailyProteinTargetG,
		&p.DailyStepTarget, &p.DailyWaterGlassTarget,
		&p.IfWindow, &cheats, &p.Notes)
	if err != nil {
		return nil, err
	}
	if cheats.Valid {
		v := int(cheats.Int64)
		p.CheatMealsPerWeek = &v
	}
	return &p, nil
}
