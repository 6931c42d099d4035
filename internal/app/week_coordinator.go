package app

import (
	"context"

	"work_hours_logger/internal/domain/browser"
	"work_hours_logger/internal/domain/weekday"
	"work_hours_logger/internal/domain/worklog"
	"work_hours_logger/internal/infra/screenshots"

	"github.com/sirupsen/logrus"
)

// WeekCoordinator submits a list of days one after another on a single
// session and captures the verification screenshot.
type WeekCoordinator struct {
	submitter *DaySubmitter
	selectors browser.Selectors
	timings   browser.Timings
	shots     *screenshots.Dir
	logger    *logrus.Entry
}

func NewWeekCoordinator(
	submitter *DaySubmitter,
	selectors browser.Selectors,
	timings browser.Timings,
	shots *screenshots.Dir,
	logger *logrus.Entry,
) *WeekCoordinator {
	return &WeekCoordinator{
		submitter: submitter,
		selectors: selectors,
		timings:   timings,
		shots:     shots,
		logger:    logger,
	}
}

// Run processes days in the given order. It returns the outcome ledger
// and the verification screenshot path ("" if the capture failed).
func (c *WeekCoordinator) Run(ctx context.Context, session browser.Session, days []weekday.Code, task string, override bool) (*worklog.Ledger, string) {
	ledger := worklog.NewLedger(days)

	if override {
		c.logger.Info("Mode: Override existing hours")
	} else {
		c.logger.Info("Mode: Skip days with existing hours")
	}

	for i, day := range days {
		outcome := c.submitter.Submit(ctx, session, day, task, override)
		if err := ledger.Record(day, outcome); err != nil {
			c.logger.WithError(err).Warnf("Day %s appears more than once in the run, keeping first outcome", day)
		}
		if i < len(days)-1 {
			session.Pause(ctx, c.timings.BetweenDays)
		}
	}

	c.logger.Info("Taking verification screenshot...")
	c.SettleUI(ctx, session)

	shot := ""
	path, err := c.shots.VerificationPath()
	if err != nil {
		c.logger.WithError(err).Error("Failed to prepare verification screenshot")
	} else if err := session.Screenshot(ctx, path); err != nil {
		c.logger.WithError(err).Error("Failed to save verification screenshot")
	} else {
		shot = path
		c.logger.Infof("Screenshot saved as '%s'", path)
	}

	succeeded, total := ledger.SucceededCount(), ledger.Requested()
	if ledger.AllSucceeded() {
		c.logger.Infof("Successfully processed hours for all %d day(s)!", total)
	} else {
		c.logger.Warnf("Processed hours for %d/%d day(s)", succeeded, total)
	}
	return ledger, shot
}

// SettleUI waits for the loading indicator to disappear. The indicator
// is not always rendered, so a failed wait falls back to a fixed pause.
func (c *WeekCoordinator) SettleUI(ctx context.Context, session browser.Session) {
	c.logger.Debug("Checking for loading spinner...")
	if err := session.WaitHidden(ctx, c.selectors.LoadingIndicator, c.timings.SpinnerWait); err != nil {
		c.logger.WithError(err).Warn("Could not confirm loading spinner finished, adding fallback wait")
		session.Pause(ctx, c.timings.FallbackSettle)
		return
	}
	c.logger.Info("Page loading completed and UI is ready")
}
