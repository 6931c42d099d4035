package worklog

import (
	"errors"
	"testing"

	"work_hours_logger/internal/domain/weekday"
)

func TestLedger_AllSucceeded(t *testing.T) {
	days := []weekday.Code{weekday.Monday, weekday.Tuesday, weekday.Wednesday}

	tests := []struct {
		name     string
		outcomes []Outcome
		want     bool
	}{
		{name: "all submitted", outcomes: []Outcome{Submitted(), Submitted(), Submitted()}, want: true},
		{name: "skipped counts as success", outcomes: []Outcome{Skipped(), Submitted(), Skipped()}, want: true},
		{name: "one failure", outcomes: []Outcome{Submitted(), Failed("boom"), Skipped()}, want: false},
		{name: "missing day", outcomes: []Outcome{Submitted(), Submitted()}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLedger(days)
			for i, o := range tt.outcomes {
				if err := l.Record(days[i], o); err != nil {
					t.Fatalf("Record failed: %v", err)
				}
			}
			if got := l.AllSucceeded(); got != tt.want {
				t.Errorf("AllSucceeded() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLedger_AppendOnly(t *testing.T) {
	l := NewLedger([]weekday.Code{weekday.Friday})
	if err := l.Record(weekday.Friday, Failed("first")); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	err := l.Record(weekday.Friday, Submitted())
	if !errors.Is(err, ErrDayAlreadyRecorded) {
		t.Fatalf("expected ErrDayAlreadyRecorded, got %v", err)
	}
	got, _ := l.Get(weekday.Friday)
	if got.Kind != OutcomeFailed || got.Reason != "first" {
		t.Errorf("original outcome was overwritten: %v", got)
	}
}

func TestLedger_EntriesKeepOrder(t *testing.T) {
	order := []weekday.Code{weekday.Friday, weekday.Saturday, weekday.Sunday, weekday.Monday}
	l := NewLedger(order)
	for _, d := range order {
		_ = l.Record(d, Submitted())
	}
	entries := l.Entries()
	for i, e := range entries {
		if e.Day != order[i] {
			t.Errorf("entry %d: expected %s, got %s", i, order[i], e.Day)
		}
	}
	entries[0].Outcome = Failed("mutated")
	if o, _ := l.Get(weekday.Friday); o.Kind != OutcomeSubmitted {
		t.Errorf("Entries() exposed internal storage")
	}
}

func TestEntryState_Populated(t *testing.T) {
	tests := []struct {
		task, time string
		want       bool
	}{
		{"Standup", "8h", true},
		{"  ", "8h", false},
		{"Standup", "\t", false},
		{"", "", false},
	}
	for _, tt := range tests {
		if got := NewEntryState(tt.task, tt.time).Populated(); got != tt.want {
			t.Errorf("Populated(%q, %q) = %v, want %v", tt.task, tt.time, got, tt.want)
		}
	}
}
