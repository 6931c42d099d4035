package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"work_hours_logger/internal/app"
	"work_hours_logger/internal/domain/weekday"
	"work_hours_logger/internal/domain/worklog"
	"work_hours_logger/internal/infra/config"
	"work_hours_logger/internal/infra/logger"

	"github.com/spf13/cobra"
)

// errRunCrashed makes the process exit non-zero after a contained crash.
var errRunCrashed = errors.New("work logging run crashed")

var (
	cfg *config.AppConfig

	flagToday    bool
	flagDay      string
	flagInterval string
	flagOverride bool
	flagHeadless bool
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "loghours",
	Short: "Log weekly work hours into the time-tracking site",
	Long: `loghours fills in the time-tracking site for the selected weekdays.

It builds the task description from recently updated issue tracker
tickets, logs in with a browser, submits 8h for every day that is still
empty (or every day with --override), and reports the result over
WhatsApp or Telegram.

Without a day selection the whole week (Monday to Friday) is logged.`,
	Example: `  loghours                 # Monday to Friday
  loghours --today         # only today, nothing on weekends
  loghours --day We        # only Wednesday
  loghours --interval Tu-Th --override`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if flagLogLevel != "" {
			cfg.LogLevel = flagLogLevel
		}
		logger.Init(cfg)
		return nil
	},
	RunE: runOnce,
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

func init() {
	rootCmd.Flags().BoolVar(&flagToday, "today", false, "log only today (weekends are a no-op)")
	rootCmd.Flags().StringVar(&flagDay, "day", "", "log a single day: Mo, Tu, We, Th, Fr, Sa or Su")
	rootCmd.Flags().StringVar(&flagInterval, "interval", "", "log an inclusive day range such as Tu-Fr (wraps past Sunday)")
	rootCmd.MarkFlagsMutuallyExclusive("today", "day", "interval")
	rootCmd.Flags().BoolVar(&flagOverride, "override", false, "submit every day even if hours are already logged")
	rootCmd.PersistentFlags().BoolVar(&flagHeadless, "headless", true, "run the browser without a window")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(notifyTestCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(secretCmd)
}

func runOnce(cmd *cobra.Command, args []string) error {
	mode, err := weekday.ParseMode(flagToday, flagDay, flagInterval)
	if err != nil {
		return err
	}

	ctx, stop := commandContext(cmd)
	defer stop()

	c, err := build(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer c.Close()

	report, err := c.workLogger.Run(ctx, app.RunOptions{Mode: mode, Override: flagOverride, Headless: flagHeadless})
	if report != nil {
		fmt.Fprintln(cmd.OutOrStdout(), renderSummary(report))
	}
	if err != nil {
		return err
	}
	return exitStatus(report)
}

func exitStatus(report *worklog.RunReport) error {
	if report.Status == worklog.RunCrashed {
		return fmt.Errorf("%w: %s", errRunCrashed, report.Error)
	}
	return nil
}

// commandContext returns a context cancelled on SIGINT or SIGTERM.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}
