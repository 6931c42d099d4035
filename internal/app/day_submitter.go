package app

import (
	"context"
	"fmt"

	"work_hours_logger/internal/domain/browser"
	"work_hours_logger/internal/domain/weekday"
	"work_hours_logger/internal/domain/worklog"
	"work_hours_logger/internal/infra/screenshots"

	"github.com/sirupsen/logrus"
)

// CanonicalTimeValue is entered for every submitted day.
const CanonicalTimeValue = "8h"

// DaySubmitter drives the entry form for one day.
type DaySubmitter struct {
	probe     *EntryProbe
	selectors browser.Selectors
	timings   browser.Timings
	shots     *screenshots.Dir
	logger    *logrus.Entry
}

func NewDaySubmitter(
	probe *EntryProbe,
	selectors browser.Selectors,
	timings browser.Timings,
	shots *screenshots.Dir,
	logger *logrus.Entry,
) *DaySubmitter {
	return &DaySubmitter{
		probe:     probe,
		selectors: selectors,
		timings:   timings,
		shots:     shots,
		logger:    logger,
	}
}

// Submit logs hours for day. Failures are returned as a Failed outcome so
// the remaining days still run.
func (s *DaySubmitter) Submit(ctx context.Context, session browser.Session, day weekday.Code, task string, override bool) worklog.Outcome {
	logCtx := s.logger.WithField("day", day)

	if !override {
		if s.probe.Probe(ctx, session, day).Populated() {
			logCtx.Infof("Skipping %s - hours already logged (use --override to relog)", day.FullName())
			return worklog.Skipped()
		}
	}

	logCtx.Infof("Logging hours for %s (%s)...", day.FullName(), day)

	// The probe may already have opened the form; navigate again so the
	// submit does not depend on it.
	if _, err := clickDay(ctx, session, s.selectors.DayStrategies(string(day), true)); err != nil {
		reason := fmt.Sprintf("could not find %s element", day)
		if path, shotErr := s.captureDebug(ctx, session, day); shotErr != nil {
			logCtx.WithError(shotErr).Warn("Failed to capture debug screenshot")
		} else {
			reason += fmt.Sprintf(", screenshot saved as %s", path)
		}
		logCtx.WithError(err).Errorf("Error logging hours for %s: %s", day, reason)
		return worklog.Failed(reason)
	}

	if err := s.fillAndSubmit(ctx, session, task); err != nil {
		logCtx.WithError(err).Errorf("Error logging hours for %s", day)
		return worklog.Failed(fmt.Sprintf("error logging hours for %s: %v", day, err))
	}

	action := "logged"
	if override {
		action = "updated"
	}
	logCtx.Infof("Successfully %s %s for %s", action, CanonicalTimeValue, day.FullName())
	return worklog.Submitted()
}

func (s *DaySubmitter) fillAndSubmit(ctx context.Context, session browser.Session, task string) error {
	if err := session.Fill(ctx, s.selectors.TaskInput, task); err != nil {
		return fmt.Errorf("failed to fill task field: %w", err)
	}
	if err := session.Fill(ctx, s.selectors.TimeInput, CanonicalTimeValue); err != nil {
		return fmt.Errorf("failed to fill time field: %w", err)
	}
	if err := session.Click(ctx, s.selectors.SubmitButton, s.timings.ActionTimeout); err != nil {
		return fmt.Errorf("failed to click submit: %w", err)
	}
	session.Pause(ctx, s.timings.SubmitSettle)
	return nil
}

func (s *DaySubmitter) captureDebug(ctx context.Context, session browser.Session, day weekday.Code) (string, error) {
	path, err := s.shots.DebugPath(string(day))
	if err != nil {
		return "", err
	}
	if err := session.Screenshot(ctx, path); err != nil {
		return "", fmt.Errorf("failed to save screenshot %s: %w", path, err)
	}
	return path, nil
}
