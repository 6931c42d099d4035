package worklog

import (
	"time"

	"work_hours_logger/internal/domain/weekday"
)

// RunState tracks how far a run progressed.
type RunState string

const (
	StateInit          RunState = "INIT"
	StateDaysResolved  RunState = "DAYS_RESOLVED"
	StateTasksFetched  RunState = "TASKS_FETCHED"
	StateSessionOpen   RunState = "SESSION_OPEN"
	StateAuthenticated RunState = "AUTHENTICATED"
	StateRunComplete   RunState = "RUN_COMPLETE"
	StateTornDown      RunState = "TORN_DOWN"
)

// RunStatus is the final classification of a run.
type RunStatus string

const (
	RunCompleted RunStatus = "completed" // every day submitted or skipped
	RunPartial   RunStatus = "partial"   // at least one day failed
	RunNoop      RunStatus = "noop"      // weekend "today" run
	RunAborted   RunStatus = "aborted"   // failed before a session was opened
	RunCrashed   RunStatus = "crashed"   // unexpected error after the session opened
)

// RunReport summarises one orchestrator run.
type RunReport struct {
	ID                string
	Mode              string
	Days              []weekday.Code
	Task              string
	Override          bool
	Ledger            *Ledger
	State             RunState
	Status            RunStatus
	Error             string
	VerificationShot  string
	ErrorShot         string
	NotificationsSent bool
	StartedAt         time.Time
	FinishedAt        time.Time
}

// Duration is zero until the run finished.
func (r *RunReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Counts returns succeeded and total days; zero for runs without a ledger.
func (r *RunReport) Counts() (succeeded, total int) {
	if r.Ledger == nil {
		return 0, len(r.Days)
	}
	return r.Ledger.SucceededCount(), r.Ledger.Requested()
}
