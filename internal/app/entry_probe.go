package app

import (
	"context"

	"work_hours_logger/internal/domain/browser"
	"work_hours_logger/internal/domain/weekday"
	"work_hours_logger/internal/domain/worklog"

	"github.com/sirupsen/logrus"
)

// EntryProbe reads what the UI currently shows for a day. Probing is
// advisory: every failure degrades to an empty entry.
type EntryProbe struct {
	selectors browser.Selectors
	timings   browser.Timings
	logger    *logrus.Entry
}

func NewEntryProbe(selectors browser.Selectors, timings browser.Timings, logger *logrus.Entry) *EntryProbe {
	return &EntryProbe{selectors: selectors, timings: timings, logger: logger}
}

// Probe opens the day's form and returns its current task and time values.
func (p *EntryProbe) Probe(ctx context.Context, session browser.Session, day weekday.Code) worklog.EntryState {
	logCtx := p.logger.WithField("day", day)
	logCtx.Infof("Checking if hours are already logged for %s (%s)...", day.FullName(), day)

	if _, err := clickDay(ctx, session, p.selectors.DayStrategies(string(day), false)); err != nil {
		logCtx.WithError(err).Warnf("Could not find %s element to check hours", day)
		return worklog.EmptyEntry
	}

	session.Pause(ctx, p.timings.FormSettle)

	task, err := session.InputValue(ctx, p.selectors.TaskInput)
	if err != nil {
		logCtx.WithError(err).Warnf("Error reading task field for %s", day)
		return worklog.EmptyEntry
	}
	timeValue, err := session.InputValue(ctx, p.selectors.TimeInput)
	if err != nil {
		logCtx.WithError(err).Warnf("Error reading time field for %s", day)
		return worklog.EmptyEntry
	}

	state := worklog.NewEntryState(task, timeValue)
	if state.Populated() {
		logCtx.Infof("Hours already logged for %s: %s - %s", day.FullName(), state.Time, truncate(state.Task, 50))
	} else {
		logCtx.Infof("No hours logged yet for %s", day.FullName())
	}
	return state
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
