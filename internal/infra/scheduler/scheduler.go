package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ErrRunInProgress is returned by RunNow while another run is active.
var ErrRunInProgress = errors.New("a work logging run is already in progress")

// Job is one scheduled work logging run.
type Job func(ctx context.Context) error

// WeeklyScheduler triggers the work logging job on a cron spec, by
// default every Friday at 10:00 local time. Runs never overlap.
type WeeklyScheduler struct {
	cronEngine *cron.Cron
	job        Job
	cronSpec   string
	jobTimeout time.Duration
	logger     *logrus.Entry

	mu      sync.Mutex // held while a run is active
	ctx     context.Context
	cancel  context.CancelFunc
	entryID cron.EntryID
}

func NewWeeklyScheduler(
	job Job,
	logger *logrus.Entry,
	cronSpec string, // e.g., "0 10 * * 5" (10:00 AM on Fridays)
	jobTimeout time.Duration,
) *WeeklyScheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &WeeklyScheduler{
		cronEngine: cron.New(cron.WithLocation(time.Local)), // Use server's local time for cron
		job:        job,
		cronSpec:   cronSpec,
		jobTimeout: jobTimeout,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start registers the job and starts the cron engine.
func (s *WeeklyScheduler) Start() error {
	s.logger.Info("Starting work logging scheduler...")

	id, err := s.cronEngine.AddFunc(s.cronSpec, func() {
		s.logger.Info("Cron job triggered for weekly work logging.")
		if err := s.RunNow(s.ctx); err != nil {
			if errors.Is(err, ErrRunInProgress) {
				s.logger.Warn("Previous run still in progress, skipping this trigger.")
				return
			}
			s.logger.WithError(err).Error("Scheduled work logging run failed")
		}
	})
	if err != nil {
		return fmt.Errorf("could not add weekly cron job %q: %w", s.cronSpec, err)
	}
	s.entryID = id

	s.cronEngine.Start()
	s.logger.WithField("next_run", s.NextRun().Format(time.RFC1123)).Info("Work logging scheduler started.")
	return nil
}

// RunNow executes the job immediately unless a run is already active.
// The job is cancelled when either ctx is done or the scheduler stops.
func (s *WeeklyScheduler) RunNow(ctx context.Context) error {
	if !s.mu.TryLock() {
		return ErrRunInProgress
	}
	defer s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.ctx, cancel)
	defer stop()

	if s.jobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.jobTimeout)
		defer cancel()
	}

	start := time.Now()
	err := s.job(ctx)
	s.logger.WithField("duration", time.Since(start).Round(time.Second)).Info("Work logging run finished.")
	return err
}

// NextRun returns the next scheduled trigger, or zero before Start.
func (s *WeeklyScheduler) NextRun() time.Time {
	if s.entryID == 0 {
		return time.Time{}
	}
	return s.cronEngine.Entry(s.entryID).Next
}

// Stop stops triggering new runs, cancels a run in progress and waits for it.
func (s *WeeklyScheduler) Stop() {
	s.logger.Info("Stopping work logging scheduler...")
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs.
	s.cancel()
	<-ctx.Done() // Wait for the running job to return
	// Manual runs are not tracked by cron; wait for them through the run lock.
	s.mu.Lock()
	s.mu.Unlock()
	s.logger.Info("Work logging scheduler gracefully stopped.")
}

// ValidateSpec reports whether spec is a valid five-field cron expression.
func ValidateSpec(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	return nil
}
