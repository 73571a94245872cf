// Package postgres implements the repository ports over PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"caltrack/internal/domain"
)

// DB wraps a *sql.DB and hands out transaction-aware repositories.
type DB struct {
	sql *sql.DB
}

// Open connects to PostgreSQL, pings, and runs migrations.
func Open(connStr string) (*DB, error) {
	s, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	s.SetMaxOpenConns(10)
	s.SetMaxIdleConns(5)
	s.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	d := &DB{sql: s}
	if err := d.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			id BIGINT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
			name TEXT NOT NULL,
			age INT NOT NULL CHECK (age > 0),
			sex TEXT NOT NULL,
			height_cm DOUBLE PRECISION NOT NULL CHECK (height_cm > 0),
			start_weight_kg DOUBLE PRECISION NOT NULL CHECK (start_weight_kg > 0),
			goal_weight_kg DOUBLE PRECISION NOT NULL CHECK (goal_weight_kg > 0),
			tdee_kcal INT NOT NULL,
			bmr_kcal INT NOT NULL,
			daily_calorie_min INT NOT NULL,
			daily_calorie_max INT NOT NULL,
			daily_protein_target_g DOUBLE PRECISION NOT NULL,
			daily_step_target INT NOT NULL,
			daily_water_glass_target INT NOT NULL DEFAULT 8,
			if_window TEXT NOT NULL DEFAULT '',
			cheat_meals_per_week INT,
			notes TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS daily_logs (
			id BIGSERIAL PRIMARY KEY,
			date TEXT NOT NULL,
			profile_id BIGINT NOT NULL REFERENCES profiles(id),
			steps_count INT,
			kcal_total INT NOT NULL DEFAULT 0 CHECK (kcal_total >= 0),
			kcal_burned INT,
			deficit_kcal INT,
			water_glasses INT NOT NULL DEFAULT 0 CHECK (water_glasses >= 0),
			notes TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_daily_logs_date ON daily_logs(date);`,
		`CREATE TABLE IF NOT EXISTS food_entries (
			id BIGSERIAL PRIMARY KEY,
			daily_log_id BIGINT NOT NULL REFERENCES daily_logs(id) ON DELETE CASCADE,
			time_local TEXT NOT NULL,
			item TEXT NOT NULL,
			details TEXT NOT NULL DEFAULT '',
			kcal_estimate INT NOT NULL CHECK (kcal_estimate >= 0),
			kcal_range_low INT,
			kcal_range_high INT,
			protein_g DOUBLE PRECISION,
			carbs_g DOUBLE PRECISION,
			fats_g DOUBLE PRECISION,
			photo_id TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL CHECK (category IN ('meal','drink','snack'))
		);`,
		`CREATE INDEX IF NOT EXISTS idx_food_entries_daily_log ON food_entries(daily_log_id);`,
		`CREATE TABLE IF NOT EXISTS weight_entries (
			id BIGSERIAL PRIMARY KEY,
			date TEXT NOT NULL,
			weight_kg DOUBLE PRECISION NOT NULL CHECK (weight_kg > 0),
			profile_id BIGINT NOT NULL REFERENCES profiles(id)
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_weight_entries_date ON weight_entries(date);`,
	}

	for _, stmt := range stmts {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

type txKey struct{}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// q returns the transaction bound to ctx, or the bare connection pool.
func (d *DB) q(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return d.sql
}

var _ domain.TxRunner = (*DB)(nil)

// RunInTx runs fn inside one transaction; repository calls made with the
// context passed to fn join it. Nested calls reuse the outer transaction.
func (d *DB) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return &domain.StorageError{Op: "begin tx", Err: err}
	}
	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return &domain.StorageError{Op: "commit tx", Err: err}
	}
	return nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func storageErr(op string, err error) error {
	return &domain.StorageError{Op: op, Err: err}
}
