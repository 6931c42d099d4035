// internal/infra/database/run_repository.go
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"work_hours_logger/internal/domain/history"
)

// Fixed-width UTC layout so stored timestamps sort as text in SQLite.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLRunRepository stores run history in PostgreSQL or SQLite.
type SQLRunRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewSQLRunRepository(db *sql.DB, dialect Dialect) *SQLRunRepository {
	return &SQLRunRepository{db: db, dialect: dialect}
}

// OpenRunRepository opens dsn, creates the schema and returns the repository.
func OpenRunRepository(ctx context.Context, dsn string) (*SQLRunRepository, error) {
	db, dialect, err := Open(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := EnsureSchema(ctx, db, dialect); err != nil {
		db.Close()
		return nil, err
	}
	return NewSQLRunRepository(db, dialect), nil
}

// rebind rewrites ? placeholders to $n for PostgreSQL.
func (r *SQLRunRepository) rebind(query string) string {
	if r.dialect != Postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

func (r *SQLRunRepository) SaveRun(ctx context.Context, run *history.Run) error {
	txn, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for run %s: %w", run.ID, err)
	}
	defer txn.Rollback() // Rollback if not committed

	query := r.rebind(`INSERT INTO work_log_runs (id, mode, days, status, succeeded, total, error, screenshot, started_at, finished_at)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
               ON CONFLICT (id) DO UPDATE SET
                   mode = EXCLUDED.mode, days = EXCLUDED.days, status = EXCLUDED.status,
                   succeeded = EXCLUDED.succeeded, total = EXCLUDED.total, error = EXCLUDED.error,
                   screenshot = EXCLUDED.screenshot, started_at = EXCLUDED.started_at, finished_at = EXCLUDED.finished_at`)
	if _, err := txn.ExecContext(ctx, query,
		run.ID, run.Mode, run.Days, run.Status, run.Succeeded, run.Total, run.Error, run.Screenshot,
		formatTime(run.StartedAt), formatTime(run.FinishedAt),
	); err != nil {
		return fmt.Errorf("error saving run %s: %w", run.ID, err)
	}

	if _, err := txn.ExecContext(ctx, r.rebind(`DELETE FROM work_log_day_outcomes WHERE run_id = ?`), run.ID); err != nil {
		return fmt.Errorf("error clearing outcomes of run %s: %w", run.ID, err)
	}

	if len(run.Outcomes) > 0 {
		stmt, err := txn.PrepareContext(ctx, r.rebind(`INSERT INTO work_log_day_outcomes (run_id, position, day, outcome, reason)
                                         VALUES (?, ?, ?, ?, ?)`))
		if err != nil {
			return fmt.Errorf("failed to prepare statement for outcomes: %w", err)
		}
		defer stmt.Close()

		for _, o := range run.Outcomes {
			if _, err := stmt.ExecContext(ctx, run.ID, o.Position, o.Day, o.Outcome, o.Reason); err != nil {
				return fmt.Errorf("error saving outcome for run %s day %s: %w", run.ID, o.Day, err)
			}
		}
	}

	return txn.Commit()
}

func (r *SQLRunRepository) GetRun(ctx context.Context, id string) (*history.Run, error) {
	query := r.rebind(`SELECT id, mode, days, status, succeeded, total, error, screenshot, started_at, finished_at
              FROM work_log_runs WHERE id = ?`)
	run, err := scanRun(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, history.ErrRunNotFound
		}
		return nil, fmt.Errorf("error getting run by ID: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, r.rebind(`SELECT position, day, outcome, reason
              FROM work_log_day_outcomes WHERE run_id = ? ORDER BY position`), id)
	if err != nil {
		return nil, fmt.Errorf("error getting outcomes of run %s: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var o history.DayOutcome
		if err := rows.Scan(&o.Position, &o.Day, &o.Outcome, &o.Reason); err != nil {
			return nil, fmt.Errorf("error scanning outcome row: %w", err)
		}
		run.Outcomes = append(run.Outcomes, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating outcome rows: %w", err)
	}
	return run, nil
}

func (r *SQLRunRepository) ListRecent(ctx context.Context, limit int) ([]*history.Run, error) {
	query := r.rebind(`SELECT id, mode, days, status, succeeded, total, error, screenshot, started_at, finished_at
              FROM work_log_runs ORDER BY started_at DESC LIMIT ?`)
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing runs: %w", err)
	}
	defer rows.Close()

	var runs []*history.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning run row: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run rows: %w", err)
	}
	return runs, nil
}

func (r *SQLRunRepository) Close() error {
	return r.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*history.Run, error) {
	run := &history.Run{}
	err := row.Scan(&run.ID, &run.Mode, &run.Days, &run.Status, &run.Succeeded, &run.Total, &run.Error, &run.Screenshot,
		timeScanner{&run.StartedAt}, timeScanner{&run.FinishedAt})
	if err != nil {
		return nil, err
	}
	return run, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// timeScanner reads a timestamp stored natively (PostgreSQL) or as text (SQLite).
type timeScanner struct {
	dst *time.Time
}

func (s timeScanner) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		*s.dst = v
	case string:
		return s.parse(v)
	case []byte:
		return s.parse(string(v))
	case nil:
		*s.dst = time.Time{}
	default:
		return fmt.Errorf("unsupported timestamp type %T", src)
	}
	return nil
}

func (s timeScanner) parse(v string) error {
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", v, err)
	}
	*s.dst = t
	return nil
}
