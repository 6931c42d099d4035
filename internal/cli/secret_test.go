package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestSecretSetIgnoresInvalidConfig(t *testing.T) {
	t.Setenv("ISSUE_PROVIDER", "gitlab")
	t.Setenv("TELEGRAM_CHAT_ID", "not-a-number")

	var out bytes.Buffer
	rootCmd.SetArgs([]string{"secret", "set", "UNKNOWN_KEY"})
	rootCmd.SetIn(strings.NewReader("value\n"))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	if err == nil {
		t.Fatal("expected an error for an unsupported key")
	}
	if !strings.Contains(err.Error(), "unsupported secret") {
		t.Errorf("config validation must not run for secret set, got %v", err)
	}
}

func TestRootValidatesConfig(t *testing.T) {
	t.Setenv("ISSUE_PROVIDER", "gitlab")

	var out bytes.Buffer
	rootCmd.SetArgs([]string{"history"})
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "failed to load config") {
		t.Errorf("expected a config error, got %v", err)
	}
}
