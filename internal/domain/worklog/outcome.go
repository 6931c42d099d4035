// internal/domain/worklog/outcome.go
package worklog

import (
	"fmt"
	"strings"

	"work_hours_logger/internal/domain/weekday"
)

// OutcomeKind is the result of processing one day.
type OutcomeKind string

const (
	OutcomeSkipped   OutcomeKind = "SKIPPED"
	OutcomeSubmitted OutcomeKind = "SUBMITTED"
	OutcomeFailed    OutcomeKind = "FAILED"
)

// Outcome is the per-day result. Reason is only set for failures.
type Outcome struct {
	Kind   OutcomeKind
	Reason string
}

func Skipped() Outcome { return Outcome{Kind: OutcomeSkipped} }
func Submitted() Outcome { return Outcome{Kind: OutcomeSubmitted} }

func Failed(reason string) Outcome {
	return Outcome{Kind: OutcomeFailed, Reason: reason}
}

// Succeeded treats a skipped day as a success: the hours already exist.
func (o Outcome) Succeeded() bool {
	return o.Kind == OutcomeSubmitted || o.Kind == OutcomeSkipped
}

func (o Outcome) String() string {
	if o.Kind == OutcomeFailed {
		return fmt.Sprintf("%s: %s", o.Kind, o.Reason)
	}
	return string(o.Kind)
}

// EntryState is what the UI currently shows for a day's entry form.
type EntryState struct {
	Task string
	Time string
}

// EmptyEntry is the state used whenever the form could not be read.
var EmptyEntry = EntryState{}

// NewEntryState trims both values before storing them.
func NewEntryState(task, timeValue string) EntryState {
	return EntryState{Task: strings.TrimSpace(task), Time: strings.TrimSpace(timeValue)}
}

// Populated requires both the task and the time field to hold text.
func (s EntryState) Populated() bool {
	return strings.TrimSpace(s.Task) != "" && strings.TrimSpace(s.Time) != ""
}

// Entry is one recorded row of a Ledger.
type Entry struct {
	Day     weekday.Code
	Outcome Outcome
}
