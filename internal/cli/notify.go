package cli

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
)

var notifyTestCmd = &cobra.Command{
	Use:   "notify-test",
	Short: "Check notification transports and send a test message",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := commandContext(cmd)
		defer stop()

		c, err := build(ctx, cfg, false)
		if err != nil {
			return err
		}
		defer c.Close()

		out := cmd.OutOrStdout()
		if !c.notifier.Enabled() {
			fmt.Fprintln(out, "No notification transport is enabled (set WHATSAPP_ENABLED or TELEGRAM_ENABLED).")
			return nil
		}

		status := c.notifier.CheckConnection(ctx)
		names := make([]string, 0, len(status))
		for name := range status {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(out, "%-10s %s\n", name, connectionLabel(status[name]))
		}

		date := time.Now().Format("2006-01-02")
		if !c.notifier.NotifyDebug(ctx, date, "Test notification from loghours", "") {
			return fmt.Errorf("test notification was not delivered by every transport")
		}
		fmt.Fprintln(out, "Test notification sent.")
		return nil
	},
}

func connectionLabel(ok bool) string {
	if ok {
		return okStyle.Render("reachable")
	}
	return failStyle.Render("unreachable")
}
