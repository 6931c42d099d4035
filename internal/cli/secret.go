package cli

import (
	"bufio"
	"fmt"
	"strings"

	"work_hours_logger/internal/infra/config"

	"github.com/spf13/cobra"
)

var secretKeys = map[string]bool{
	"SYSTEM_PASSWORD": true,
	"JIRA_API_TOKEN":  true,
	"GITHUB_TOKEN":    true,
	"TELEGRAM_TOKEN":  true,
}

var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Manage secrets stored in the OS keyring",
	// Overrides the root hook: storing a secret must work even when the
	// rest of the configuration is invalid.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
}

var secretSetCmd = &cobra.Command{
	Use:   "set <KEY>",
	Short: "Store a secret read from stdin in the OS keyring",
	Long: `set stores one secret in the OS keyring so it does not need to live in .env.
Supported keys: SYSTEM_PASSWORD, JIRA_API_TOKEN, GITHUB_TOKEN, TELEGRAM_TOKEN.
An environment variable with the same name still takes precedence.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := strings.ToUpper(args[0])
		if !secretKeys[key] {
			return fmt.Errorf("unsupported secret %q", args[0])
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "Enter value for %s: ", key)
		value, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && value == "" {
			return fmt.Errorf("failed to read secret: %w", err)
		}
		if err := config.SetSecret(key, strings.TrimSpace(value)); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s stored in keyring service %q.\n", key, config.KeyringService)
		return nil
	},
}

func init() {
	secretCmd.AddCommand(secretSetCmd)
}
