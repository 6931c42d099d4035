package cli

import (
	"fmt"

	"work_hours_logger/internal/app"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "List recorded runs, or show one run's per-day outcomes",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := commandContext(cmd)
		defer stop()

		repo := openHistory(ctx, cfg)
		if repo != nil {
			defer repo.Close()
		}
		svc := app.NewHistoryService(repo, cfg.Telegram.ChatID)
		out := cmd.OutOrStdout()

		if len(args) == 1 {
			run, err := svc.Run(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(out, app.FormatRun(run))
			return nil
		}

		runs, err := svc.Recent(ctx, historyLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Fprintln(out, "No runs recorded yet.")
			return nil
		}
		fmt.Fprintln(out, titleStyle.Render("Recent runs"))
		for _, r := range runs {
			fmt.Fprintln(out, statusStyle(r.Status).Render(app.FormatRunLine(r)))
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of runs to list")
}
