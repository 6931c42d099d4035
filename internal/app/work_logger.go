package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"work_hours_logger/internal/domain/browser"
	"work_hours_logger/internal/domain/issues"
	"work_hours_logger/internal/domain/weekday"
	"work_hours_logger/internal/domain/worklog"
	"work_hours_logger/internal/infra/screenshots"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SiteCredentials locate and unlock the time-tracking site.
type SiteCredentials struct {
	URL      string
	Username string
	Password string
}

// RunOptions are the per-run choices made on the command line.
type RunOptions struct {
	Mode     weekday.Mode
	Override bool
	Headless bool
}

// RunObserver is told about every finished run, e.g. to persist history
// or push metrics. Errors are logged and otherwise ignored.
type RunObserver interface {
	ObserveRun(ctx context.Context, report *worklog.RunReport) error
}

// WorkLogger runs the whole flow: resolve days, fetch the task text,
// open a browser, log in, submit the days, notify and tear down.
type WorkLogger struct {
	issueSource issues.Source
	launcher    browser.Launcher
	coordinator *WeekCoordinator
	notifier    NotificationService
	observers   []RunObserver
	shots       *screenshots.Dir
	site        SiteCredentials
	selectors   browser.Selectors
	timings     browser.Timings
	now         func() time.Time
	logger      *logrus.Entry
}

func NewWorkLogger(
	issueSource issues.Source,
	launcher browser.Launcher,
	coordinator *WeekCoordinator,
	notifier NotificationService,
	shots *screenshots.Dir,
	site SiteCredentials,
	selectors browser.Selectors,
	timings browser.Timings,
	logger *logrus.Entry,
	observers ...RunObserver,
) *WorkLogger {
	return &WorkLogger{
		issueSource: issueSource,
		launcher:    launcher,
		coordinator: coordinator,
		notifier:    notifier,
		observers:   observers,
		shots:       shots,
		site:        site,
		selectors:   selectors,
		timings:     timings,
		now:         time.Now,
		logger:      logger,
	}
}

// WithClock replaces the clock used for "today" and notification dates.
func (w *WorkLogger) WithClock(now func() time.Time) *WorkLogger {
	w.now = now
	return w
}

// Run executes one logging run. It returns an error only when the run
// is aborted before a browser session is opened (invalid day selection
// or task fetch failure). Anything that goes wrong later is contained:
// the report's Status is RunCrashed and the session is still released.
func (w *WorkLogger) Run(ctx context.Context, opts RunOptions) (*worklog.RunReport, error) {
	startedAt := w.now()
	report := &worklog.RunReport{
		ID:        uuid.NewString(),
		Override:  opts.Override,
		State:     worklog.StateInit,
		StartedAt: startedAt,
		Mode:      opts.Mode.Describe(startedAt),
	}
	logger := w.logger.WithField("run_id", report.ID)
	logger.Infof("=== Automated Work Logger Started at %s ===", startedAt.Format(time.RFC3339))

	defer func() {
		report.FinishedAt = w.now()
		w.observe(ctx, logger, report)
	}()

	days, err := weekday.Resolve(opts.Mode, startedAt)
	if errors.Is(err, weekday.ErrWeekend) {
		logger.Infof("Today is %s (weekend). No work hours to log.", weekday.FromTime(startedAt).FullName())
		report.Status = worklog.RunNoop
		w.transition(logger, report, worklog.StateTornDown)
		return report, nil
	}
	if err != nil {
		report.Status = worklog.RunAborted
		report.Error = err.Error()
		w.transition(logger, report, worklog.StateTornDown)
		return report, fmt.Errorf("failed to resolve days to log: %w", err)
	}
	report.Days = days
	logger.Infof("Mode: %s", report.Mode)
	w.transition(logger, report, worklog.StateDaysResolved)

	task, err := w.issueSource.FetchRecentSummary(ctx)
	if err != nil {
		report.Status = worklog.RunAborted
		report.Error = err.Error()
		w.transition(logger, report, worklog.StateTornDown)
		logger.WithError(err).Error("Failed to fetch task description, no browser session was opened")
		report.NotificationsSent = w.notifier.NotifyError(ctx, w.date(), fmt.Sprintf("could not fetch task description: %v", err), "")
		return report, fmt.Errorf("failed to fetch task description: %w", err)
	}
	report.Task = task
	logger.Infof("Task description: %s", task)
	w.transition(logger, report, worklog.StateTasksFetched)

	w.runSession(ctx, logger, report, opts)
	return report, nil
}

// runSession owns the browser session for the rest of the run and
// releases it on every path.
func (w *WorkLogger) runSession(ctx context.Context, logger *logrus.Entry, report *worklog.RunReport, opts RunOptions) {
	var session browser.Session

	defer func() {
		if session != nil {
			if err := session.Close(); err != nil {
				logger.WithError(err).Warn("Failed to release browser session")
			}
		}
		w.transition(logger, report, worklog.StateTornDown)
	}()

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("unexpected panic: %v", r)
			}
		}()

		browserMode := "visible"
		if opts.Headless {
			browserMode = "headless"
		}
		logger.Infof("Browser mode: %s", browserMode)

		session, err = w.launcher.Open(ctx, browser.DefaultLaunchOptions(opts.Headless))
		if err != nil {
			session = nil
			return fmt.Errorf("failed to open browser session: %w", err)
		}
		w.transition(logger, report, worklog.StateSessionOpen)

		if err := w.login(ctx, logger, session); err != nil {
			return err
		}
		w.transition(logger, report, worklog.StateAuthenticated)

		ledger, shot := w.coordinator.Run(ctx, session, report.Days, report.Task, opts.Override)
		report.Ledger = ledger
		report.VerificationShot = shot
		w.transition(logger, report, worklog.StateRunComplete)

		if ledger.AllSucceeded() {
			report.Status = worklog.RunCompleted
			logger.Info("Work logging completed successfully!")
			report.NotificationsSent = w.notifier.NotifySuccess(ctx, w.date(), shot, w.successDetail(ledger))
		} else {
			report.Status = worklog.RunPartial
			logger.Warn("Work logging completed with some errors.")
			report.NotificationsSent = w.notifier.NotifyError(ctx, w.date(), w.failureDetail(ledger), shot)
		}
		if !report.NotificationsSent {
			logger.Warn("Run notification was not delivered")
		}
		return nil
	}()

	if err != nil {
		w.handleCrash(ctx, logger, report, session, err)
	}
}

// login fills the login form when one is shown. A missing post-login
// marker is not fatal: the session may already be authenticated.
func (w *WorkLogger) login(ctx context.Context, logger *logrus.Entry, session browser.Session) error {
	logger.Info("Navigating to login page...")
	if err := session.Navigate(ctx, w.site.URL); err != nil {
		return fmt.Errorf("failed to open %s: %w", w.site.URL, err)
	}

	count, err := session.Count(ctx, w.selectors.LoginButton)
	if err != nil {
		return fmt.Errorf("failed to look up login form: %w", err)
	}
	if count != 1 {
		logger.Info("Already logged in.")
		return nil
	}

	logger.Info("Login required. Authenticating...")
	if err := w.submitLogin(ctx, logger, session); err != nil {
		logger.WithError(err).Error("Error logging in, will try to continue without login...")
		return nil
	}
	logger.Info("Login successful!")
	return nil
}

func (w *WorkLogger) submitLogin(ctx context.Context, logger *logrus.Entry, session browser.Session) error {
	if err := session.Fill(ctx, w.selectors.UsernameInput, w.site.Username); err != nil {
		return fmt.Errorf("failed to fill username: %w", err)
	}
	if err := session.Fill(ctx, w.selectors.PasswordInput, w.site.Password); err != nil {
		return fmt.Errorf("failed to fill password: %w", err)
	}
	if err := session.Click(ctx, w.selectors.LoginButton, w.timings.ActionTimeout); err != nil {
		return fmt.Errorf("failed to submit login form: %w", err)
	}
	logger.Info("Waiting for login to complete...")
	if err := session.WaitVisible(ctx, w.selectors.LoggedInMarker, w.timings.LoginWait); err != nil {
		return fmt.Errorf("post-login page did not appear: %w", err)
	}
	return nil
}

func (w *WorkLogger) handleCrash(ctx context.Context, logger *logrus.Entry, report *worklog.RunReport, session browser.Session, cause error) {
	report.Status = worklog.RunCrashed
	report.Error = cause.Error()
	logger.WithError(cause).Error("Error in main execution")

	shot := ""
	if session != nil {
		path, err := w.shots.ErrorPath()
		if err == nil {
			err = session.Screenshot(ctx, path)
		}
		if err != nil {
			logger.WithError(err).Warn("Failed to capture error screenshot")
		} else {
			shot = path
			report.ErrorShot = path
			logger.Errorf("Error screenshot saved as '%s'", path)
		}
	}

	report.NotificationsSent = w.notifier.NotifyError(ctx, w.date(), cause.Error(), shot)
}

func (w *WorkLogger) transition(logger *logrus.Entry, report *worklog.RunReport, next worklog.RunState) {
	logger.WithFields(logrus.Fields{"from": report.State, "to": next}).Debug("Run state changed")
	report.State = next
}

func (w *WorkLogger) observe(ctx context.Context, logger *logrus.Entry, report *worklog.RunReport) {
	for _, o := range w.observers {
		if err := o.ObserveRun(ctx, report); err != nil {
			logger.WithError(err).Warn("Run observer failed")
		}
	}
}

func (w *WorkLogger) date() string {
	return w.now().Format("2006-01-02")
}

func (w *WorkLogger) successDetail(ledger *worklog.Ledger) string {
	parts := make([]string, 0, ledger.Requested())
	for _, e := range ledger.Entries() {
		parts = append(parts, fmt.Sprintf("%s %s", e.Day, strings.ToLower(string(e.Outcome.Kind))))
	}
	return fmt.Sprintf("%d/%d day(s) processed: %s", ledger.SucceededCount(), ledger.Requested(), strings.Join(parts, ", "))
}

func (w *WorkLogger) failureDetail(ledger *worklog.Ledger) string {
	var failed []string
	for _, e := range ledger.Entries() {
		if e.Outcome.Kind == worklog.OutcomeFailed {
			failed = append(failed, fmt.Sprintf("%s (%s)", e.Day, e.Outcome.Reason))
		}
	}
	return fmt.Sprintf("logged hours for %d/%d day(s); failed: %s", ledger.SucceededCount(), ledger.Requested(), strings.Join(failed, "; "))
}
