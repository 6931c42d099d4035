package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"work_hours_logger/internal/app"
	"work_hours_logger/internal/domain/weekday"
	"work_hours_logger/internal/infra/logger"
	"work_hours_logger/internal/infra/scheduler"
	"work_hours_logger/internal/infra/telegram"

	"github.com/spf13/cobra"
)

// A full week with login and settle delays stays well under this.
const scheduledRunTimeout = 30 * time.Minute

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run as a daemon and log the full week on a cron schedule",
	Long: `schedule keeps running and triggers a full-week run on LOGHOURS_CRON_SPEC
(default "0 10 * * 5", Fridays at 10:00 local time).

When Telegram is enabled the owner chat can use /runs, /run <id> and
/lognow. With METRICS_ADDR set, Prometheus metrics are served on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.Component("main")
		if err := scheduler.ValidateSpec(cfg.CronSpec); err != nil {
			return err
		}

		ctx, stop := commandContext(cmd)
		defer stop()

		c, err := build(ctx, cfg, true)
		if err != nil {
			return err
		}
		defer c.Close()

		weekly := scheduler.NewWeeklyScheduler(func(ctx context.Context) error {
			report, err := c.workLogger.Run(ctx, app.RunOptions{Mode: weekday.FullWeek(), Headless: flagHeadless})
			if report != nil {
				log.Info(renderPlainSummary(report))
			}
			if err != nil {
				return err
			}
			return exitStatus(report)
		}, logger.Component("scheduler"), cfg.CronSpec, scheduledRunTimeout)
		if err := weekly.Start(); err != nil {
			return err
		}

		if c.telegramBot != nil {
			telegram.NewCommandHandlers(c.history, weekly, logger.Component("telegram_commands")).Register(ctx, c.telegramBot)
			go c.telegramBot.Start()
			log.Info("Telegram command handlers registered.")
		}

		var metricsSrv *http.Server
		if cfg.MetricsAddr != "" {
			mux := http.NewServeMux()
			mux.Handle("/metrics", c.metrics.Handler())
			metricsSrv = &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
			go func() {
				if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.WithError(err).Error("Metrics server failed")
				}
			}()
			log.Infof("Serving metrics on %s/metrics", cfg.MetricsAddr)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Scheduler running (%s), next run %s. Press Ctrl+C to stop.\n",
			cfg.CronSpec, weekly.NextRun().Format("Mon 2006-01-02 15:04"))

		<-ctx.Done() // Block until a signal is received

		log.Info("Shutting down application...")
		if c.telegramBot != nil {
			c.telegramBot.Stop()
		}
		if metricsSrv != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = metricsSrv.Shutdown(shutdownCtx)
		}
		weekly.Stop()
		log.Info("Application shut down gracefully.")
		return nil
	},
}
