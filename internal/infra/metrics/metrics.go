// Package metrics records run outcomes as Prometheus metrics and, when a
// Pushgateway is configured, pushes them after every run.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"work_hours_logger/internal/domain/worklog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/sirupsen/logrus"
)

const jobName = "loghours"

// Recorder implements app.RunObserver.
type Recorder struct {
	registry *prometheus.Registry

	runs          *prometheus.CounterVec
	days          *prometheus.CounterVec
	runDuration   prometheus.Histogram
	lastSuccess   prometheus.Gauge
	lastRunFailed prometheus.Gauge

	pushURL string
	logger  *logrus.Entry
}

// NewRecorder registers the metrics on a private registry. An empty
// pushURL disables pushing.
func NewRecorder(pushURL string, logger *logrus.Entry) *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Recorder{
		registry: reg,
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "loghours_runs_total",
			Help: "The total number of work logging runs",
		}, []string{"status"}), // status: completed, partial, noop, aborted, crashed
		days: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "loghours_days_total",
			Help: "The total number of processed days",
		}, []string{"outcome"}), // outcome: submitted, skipped, failed
		runDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "loghours_run_duration_seconds",
			Help:    "Duration of a work logging run.",
			Buckets: prometheus.LinearBuckets(15, 15, 10),
		}),
		lastSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Name: "loghours_last_success_timestamp_seconds",
			Help: "Unix time of the last run in which every day succeeded.",
		}),
		lastRunFailed: factory.NewGauge(prometheus.GaugeOpts{
			Name: "loghours_last_run_failed_days",
			Help: "Number of failed days in the most recent run.",
		}),
		pushURL: strings.TrimRight(pushURL, "/"),
		logger:  logger,
	}
}

// ObserveRun updates the metrics from a finished run and pushes them.
func (r *Recorder) ObserveRun(ctx context.Context, report *worklog.RunReport) error {
	r.runs.WithLabelValues(string(report.Status)).Inc()
	if !report.FinishedAt.IsZero() {
		r.runDuration.Observe(report.Duration().Seconds())
	}

	failed := 0
	if report.Ledger != nil {
		for _, e := range report.Ledger.Entries() {
			r.days.WithLabelValues(strings.ToLower(string(e.Outcome.Kind))).Inc()
		}
		failed = len(report.Ledger.FailedDays())
	}
	r.lastRunFailed.Set(float64(failed))
	if report.Status == worklog.RunCompleted {
		r.lastSuccess.Set(float64(report.FinishedAt.Unix()))
	}

	if r.pushURL == "" {
		return nil
	}
	if err := push.New(r.pushURL, jobName).Gatherer(r.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", r.pushURL, err)
	}
	r.logger.WithField("run_id", report.ID).Debug("Metrics pushed")
	return nil
}

// Handler exposes the metrics for scraping, used by the scheduler daemon.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry returns the registry the metrics live on.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
