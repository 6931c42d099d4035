// internal/domain/history/repository.go
package history

import (
	"context"
	"errors"
	"time"
)

var ErrRunNotFound = errors.New("run not found")

// Run is one persisted orchestrator run.
type Run struct {
	ID         string
	Mode       string
	Days       string // day codes joined with ", "
	Status     string
	Succeeded  int
	Total      int
	Error      string
	Screenshot string
	StartedAt  time.Time
	FinishedAt time.Time
	Outcomes   []DayOutcome
}

// DayOutcome is one per-day row of a run.
type DayOutcome struct {
	Position int
	Day      string
	Outcome  string
	Reason   string
}

// Repository stores run history.
type Repository interface {
	// SaveRun persists the run and its day outcomes in one transaction.
	SaveRun(ctx context.Context, run *Run) error
	// GetRun returns ErrRunNotFound for an unknown id.
	GetRun(ctx context.Context, id string) (*Run, error)
	// ListRecent returns up to limit runs, newest first, without outcomes.
	ListRecent(ctx context.Context, limit int) ([]*Run, error)
	Close() error
}
