package app

import (
	"context"
	"fmt"

	"work_hours_logger/internal/domain/history"
	"work_hours_logger/internal/domain/weekday"
	"work_hours_logger/internal/domain/worklog"
)

// HistoryRecorder persists finished runs.
type HistoryRecorder struct {
	repo history.Repository
}

func NewHistoryRecorder(repo history.Repository) *HistoryRecorder {
	return &HistoryRecorder{repo: repo}
}

func (r *HistoryRecorder) ObserveRun(ctx context.Context, report *worklog.RunReport) error {
	if err := r.repo.SaveRun(ctx, ToHistoryRun(report)); err != nil {
		return fmt.Errorf("failed to record run %s: %w", report.ID, err)
	}
	return nil
}

// ToHistoryRun flattens a report into its stored form.
func ToHistoryRun(report *worklog.RunReport) *history.Run {
	succeeded, total := report.Counts()
	shot := report.VerificationShot
	if shot == "" {
		shot = report.ErrorShot
	}
	run := &history.Run{
		ID:         report.ID,
		Mode:       report.Mode,
		Days:       weekday.Join(report.Days),
		Status:     string(report.Status),
		Succeeded:  succeeded,
		Total:      total,
		Error:      report.Error,
		Screenshot: shot,
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
	}
	if report.Ledger != nil {
		for i, e := range report.Ledger.Entries() {
			run.Outcomes = append(run.Outcomes, history.DayOutcome{
				Position: i,
				Day:      string(e.Day),
				Outcome:  string(e.Outcome.Kind),
				Reason:   e.Outcome.Reason,
			})
		}
	}
	return run
}
