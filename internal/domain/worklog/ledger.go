package worklog

import (
	"fmt"

	"work_hours_logger/internal/domain/weekday"
)

// ErrDayAlreadyRecorded guards the append-only contract of Ledger.
var ErrDayAlreadyRecorded = fmt.Errorf("outcome for day already recorded")

// Ledger keeps per-day outcomes in processing order. Entries are never
// rewritten once appended.
type Ledger struct {
	requested []weekday.Code
	entries   []Entry
	index     map[weekday.Code]int
}

// NewLedger creates a ledger for the days a run was asked to process.
func NewLedger(requested []weekday.Code) *Ledger {
	req := make([]weekday.Code, len(requested))
	copy(req, requested)
	return &Ledger{
		requested: req,
		index:     make(map[weekday.Code]int, len(requested)),
	}
}

// Record appends the outcome for day.
func (l *Ledger) Record(day weekday.Code, outcome Outcome) error {
	if _, exists := l.index[day]; exists {
		return fmt.Errorf("%w: %s", ErrDayAlreadyRecorded, day)
	}
	l.index[day] = len(l.entries)
	l.entries = append(l.entries, Entry{Day: day, Outcome: outcome})
	return nil
}

// Get returns the outcome for day, if recorded.
func (l *Ledger) Get(day weekday.Code) (Outcome, bool) {
	i, ok := l.index[day]
	if !ok {
		return Outcome{}, false
	}
	return l.entries[i].Outcome, true
}

// Entries returns a copy of the recorded rows in processing order.
func (l *Ledger) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *Ledger) Requested() int { return len(l.requested) }

// Count returns how many days ended with the given kind.
func (l *Ledger) Count(kind OutcomeKind) int {
	n := 0
	for _, e := range l.entries {
		if e.Outcome.Kind == kind {
			n++
		}
	}
	return n
}

// SucceededCount counts submitted and skipped days.
func (l *Ledger) SucceededCount() int {
	return l.Count(OutcomeSubmitted) + l.Count(OutcomeSkipped)
}

// FailedDays lists the days whose outcome is Failed, in processing order.
func (l *Ledger) FailedDays() []weekday.Code {
	var days []weekday.Code
	for _, e := range l.entries {
		if e.Outcome.Kind == OutcomeFailed {
			days = append(days, e.Day)
		}
	}
	return days
}

// AllSucceeded is true when no day failed and every requested day has a
// successful outcome.
func (l *Ledger) AllSucceeded() bool {
	return l.Count(OutcomeFailed) == 0 && l.SucceededCount() == len(l.requested)
}
