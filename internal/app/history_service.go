package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"work_hours_logger/internal/domain/history"
)

// Application-level errors for history queries.
var (
	ErrHistoryDisabled = errors.New("run history is not configured (set HISTORY_DSN)")
	ErrNotAuthorized   = errors.New("requester is not authorized to read run history")
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
)

// HistoryService answers questions about past runs for the CLI and the
// Telegram owner chat.
type HistoryService struct {
	repo        history.Repository
	ownerChatID int64
}

// NewHistoryService accepts a nil repo; every query then returns
// ErrHistoryDisabled.
func NewHistoryService(repo history.Repository, ownerChatID int64) *HistoryService {
	return &HistoryService{repo: repo, ownerChatID: ownerChatID}
}

// Authorize rejects any chat other than the configured owner.
func (s *HistoryService) Authorize(chatID int64) error {
	if s.ownerChatID == 0 || chatID != s.ownerChatID {
		return ErrNotAuthorized
	}
	return nil
}

// Recent returns up to limit runs, newest first. Out-of-range limits are
// clamped.
func (s *HistoryService) Recent(ctx context.Context, limit int) ([]*history.Run, error) {
	if s.repo == nil {
		return nil, ErrHistoryDisabled
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	runs, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// Run returns one run with its per-day outcomes. A unique id prefix of at
// least 8 characters is accepted, as printed by the summary.
func (s *HistoryService) Run(ctx context.Context, id string) (*history.Run, error) {
	if s.repo == nil {
		return nil, ErrHistoryDisabled
	}
	id = strings.TrimSpace(id)
	run, err := s.repo.GetRun(ctx, id)
	if err == nil {
		return run, nil
	}
	if !errors.Is(err, history.ErrRunNotFound) || len(id) < 8 {
		return nil, err
	}

	recent, err := s.repo.ListRecent(ctx, maxHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	var match string
	for _, r := range recent {
		if strings.HasPrefix(r.ID, id) {
			if match != "" {
				return nil, fmt.Errorf("run id prefix %q is ambiguous", id)
			}
			match = r.ID
		}
	}
	if match == "" {
		return nil, history.ErrRunNotFound
	}
	return s.repo.GetRun(ctx, match)
}

// FormatRun renders a run as plain text, one line per day.
func FormatRun(run *history.Run) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Run %s\n", shortID(run.ID))
	fmt.Fprintf(&b, "%s  %s  %d/%d\n", run.StartedAt.Format("2006-01-02 15:04"), run.Status, run.Succeeded, run.Total)
	if run.Mode != "" {
		fmt.Fprintf(&b, "Mode: %s\n", run.Mode)
	}
	for _, o := range run.Outcomes {
		line := fmt.Sprintf("  %s %s", o.Day, strings.ToLower(o.Outcome))
		if o.Reason != "" {
			line += ": " + o.Reason
		}
		b.WriteString(line + "\n")
	}
	if run.Error != "" {
		fmt.Fprintf(&b, "Error: %s\n", run.Error)
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatRunLine renders a run as one summary line.
func FormatRunLine(run *history.Run) string {
	return fmt.Sprintf("%s  %s  %-9s %d/%d  %s", shortID(run.ID), run.StartedAt.Format("2006-01-02 15:04"), run.Status, run.Succeeded, run.Total, run.Days)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
