package app

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"work_hours_logger/internal/domain/history"
	"work_hours_logger/internal/domain/weekday"
	"work_hours_logger/internal/domain/worklog"
)

type memRepo struct {
	runs map[string]*history.Run
}

func newMemRepo() *memRepo { return &memRepo{runs: map[string]*history.Run{}} }

func (m *memRepo) SaveRun(_ context.Context, run *history.Run) error {
	m.runs[run.ID] = run
	return nil
}

func (m *memRepo) GetRun(_ context.Context, id string) (*history.Run, error) {
	r, ok := m.runs[id]
	if !ok {
		return nil, history.ErrRunNotFound
	}
	return r, nil
}

func (m *memRepo) ListRecent(_ context.Context, limit int) ([]*history.Run, error) {
	var out []*history.Run
	for _, r := range m.runs {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memRepo) Close() error { return nil }

func TestHistoryRecorder_PersistsLedger(t *testing.T) {
	repo := newMemRepo()
	ledger := worklog.NewLedger([]weekday.Code{weekday.Monday, weekday.Tuesday})
	_ = ledger.Record(weekday.Monday, worklog.Submitted())
	_ = ledger.Record(weekday.Tuesday, worklog.Failed("could not find Tu element"))
	report := &worklog.RunReport{
		ID:        "3f1c2a9e-0000-4000-8000-000000000001",
		Mode:      "interval Mo-Tu",
		Days:      []weekday.Code{weekday.Monday, weekday.Tuesday},
		Ledger:    ledger,
		Status:    worklog.RunPartial,
		ErrorShot: "screenshots/error.png",
		StartedAt: wednesday,
	}

	if err := NewHistoryRecorder(repo).ObserveRun(context.Background(), report); err != nil {
		t.Fatalf("ObserveRun failed: %v", err)
	}
	got := repo.runs[report.ID]
	if got == nil {
		t.Fatal("run was not saved")
	}
	if got.Days != "Mo, Tu" || got.Succeeded != 1 || got.Total != 2 || got.Status != "partial" {
		t.Errorf("unexpected stored run %+v", got)
	}
	if got.Screenshot != "screenshots/error.png" {
		t.Errorf("expected error screenshot fallback, got %q", got.Screenshot)
	}
	if len(got.Outcomes) != 2 || got.Outcomes[1].Outcome != "FAILED" || got.Outcomes[1].Position != 1 {
		t.Errorf("unexpected outcomes %+v", got.Outcomes)
	}
}

func TestHistoryService_Disabled(t *testing.T) {
	svc := NewHistoryService(nil, 42)
	if _, err := svc.Recent(context.Background(), 5); !errors.Is(err, ErrHistoryDisabled) {
		t.Errorf("expected ErrHistoryDisabled, got %v", err)
	}
	if _, err := svc.Run(context.Background(), "x"); !errors.Is(err, ErrHistoryDisabled) {
		t.Errorf("expected ErrHistoryDisabled, got %v", err)
	}
}

func TestHistoryService_Authorize(t *testing.T) {
	if err := NewHistoryService(nil, 42).Authorize(42); err != nil {
		t.Errorf("owner must be authorized: %v", err)
	}
	if err := NewHistoryService(nil, 42).Authorize(7); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("expected ErrNotAuthorized, got %v", err)
	}
	if err := NewHistoryService(nil, 0).Authorize(0); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("no owner configured must reject everyone, got %v", err)
	}
}

func TestHistoryService_RecentAndPrefixLookup(t *testing.T) {
	repo := newMemRepo()
	base := time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)
	ids := []string{"aaaa1111-x", "aaaa2222-y", "bbbb3333-z"}
	for i, id := range ids {
		_ = repo.SaveRun(context.Background(), &history.Run{ID: id, Status: "completed", StartedAt: base.Add(time.Duration(i) * time.Hour)})
	}
	svc := NewHistoryService(repo, 42)

	runs, err := svc.Recent(context.Background(), 0)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(runs) != 3 || runs[0].ID != "bbbb3333-z" {
		t.Errorf("expected newest first, got %v", runs)
	}

	run, err := svc.Run(context.Background(), "bbbb3333")
	if err != nil || run.ID != "bbbb3333-z" {
		t.Errorf("prefix lookup failed: %v %v", run, err)
	}
	if _, err := svc.Run(context.Background(), "aaaa"); !errors.Is(err, history.ErrRunNotFound) {
		t.Errorf("short prefixes are not expanded, got %v", err)
	}
	if _, err := svc.Run(context.Background(), "cccc4444"); !errors.Is(err, history.ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestFormatRun(t *testing.T) {
	run := &history.Run{
		ID:        "3f1c2a9e-0000-4000-8000-000000000001",
		Mode:      "full week",
		Status:    "partial",
		Succeeded: 1,
		Total:     2,
		StartedAt: wednesday,
		Outcomes: []history.DayOutcome{
			{Day: "Mo", Outcome: "SUBMITTED"},
			{Day: "Tu", Outcome: "FAILED", Reason: "could not find Tu element"},
		},
	}
	got := FormatRun(run)
	for _, want := range []string{"Run 3f1c2a9e", "partial  1/2", "Tu failed: could not find Tu element"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in\n%s", want, got)
		}
	}
}
