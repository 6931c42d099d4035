package config

import (
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization

	"github.com/joho/godotenv"
)

// Issue tracker providers.
const (
	ProviderJira   = "jira"
	ProviderGitHub = "github"
)

// SiteConfig locates the time-tracking web application.
type SiteConfig struct {
	URL      string
	Username string
	Password string
}

type JiraConfig struct {
	URL            string
	Username       string // ticket assignee
	ServiceAccount string
	APIToken       string
	Project        string
}

type GitHubConfig struct {
	Token string
	Owner string
	Repo  string
}

type WhatsAppConfig struct {
	Enabled   bool
	APIURL    string
	APIKey    string
	Instance  string
	Recipient string
}

type TelegramConfig struct {
	Enabled bool
	Token   string
	ChatID  int64
	APIURL  string // empty means api.telegram.org
}

// AppConfig holds all configuration for the application. It is built
// once at start-up and passed to constructors, which never read the
// environment themselves.
type AppConfig struct {
	LogLevel       string
	Environment    string
	LogFile        string
	ScreenshotsDir string
	SelectorsFile  string
	Site           SiteConfig
	IssueProvider  string
	Jira           JiraConfig
	GitHub         GitHubConfig
	WhatsApp       WhatsAppConfig
	Telegram       TelegramConfig
	CronSpec       string
	HistoryDSN     string
	PushgatewayURL string
	MetricsAddr    string

	// Download the Playwright driver and Chromium on first use.
	InstallBrowsers bool

	// Problems that disabled an optional feature; logged once the logger is up.
	Warnings []string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()
	return load(os.Getenv, keyringSecret)
}

// load is split out so tests can supply the environment and keyring.
func load(getenv func(string) string, secret func(key string) string) (*AppConfig, error) {
	cfg := &AppConfig{}

	cfg.LogLevel = strings.ToLower(getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	cfg.LogFile = getenv("LOG_FILE")
	cfg.SelectorsFile = getenv("SELECTORS_FILE")

	cfg.ScreenshotsDir = getenv("SCREENSHOTS_DIR")
	if cfg.ScreenshotsDir == "" {
		cfg.ScreenshotsDir = "screenshots"
	}

	cfg.Site.URL = getenv("SYSTEM_URL")
	if cfg.Site.URL == "" {
		cfg.Site.URL = "https://service-management.coderfull.com"
	}
	cfg.Site.Username = getenv("SYSTEM_USERNAME")
	cfg.Site.Password = withSecret(getenv, secret, "SYSTEM_PASSWORD")

	cfg.IssueProvider = strings.ToLower(getenv("ISSUE_PROVIDER"))
	if cfg.IssueProvider == "" {
		cfg.IssueProvider = ProviderJira
	}
	if cfg.IssueProvider != ProviderJira && cfg.IssueProvider != ProviderGitHub {
		return nil, fmt.Errorf("invalid ISSUE_PROVIDER %q (use %s or %s)", cfg.IssueProvider, ProviderJira, ProviderGitHub)
	}

	// Missing issue tracker credentials are reported by the issue client
	// when the run starts, not here.
	cfg.Jira = JiraConfig{
		URL:            strings.TrimRight(getenv("JIRA_URL"), "/"),
		Username:       getenv("JIRA_USERNAME"),
		ServiceAccount: getenv("JIRA_SVC_ACCOUNT"),
		APIToken:       withSecret(getenv, secret, "JIRA_API_TOKEN"),
		Project:        getenv("JIRA_PROJECT"),
	}
	cfg.GitHub = GitHubConfig{
		Token: withSecret(getenv, secret, "GITHUB_TOKEN"),
		Owner: getenv("GITHUB_OWNER"),
		Repo:  getenv("GITHUB_REPO"),
	}

	cfg.WhatsApp = WhatsAppConfig{
		Enabled:   strings.ToLower(getenv("WHATSAPP_ENABLED")) == "true",
		APIURL:    strings.TrimRight(getenv("WHATSAPP_API_URL"), "/"),
		APIKey:    getenv("WHATSAPP_API_KEY"),
		Instance:  getenv("WHATSAPP_INSTANCE"),
		Recipient: getenv("WHATSAPP_RECIPIENT"),
	}
	if cfg.WhatsApp.Enabled {
		if missing := missingVars(
			[2]string{"WHATSAPP_API_URL", cfg.WhatsApp.APIURL},
			[2]string{"WHATSAPP_API_KEY", cfg.WhatsApp.APIKey},
			[2]string{"WHATSAPP_INSTANCE", cfg.WhatsApp.Instance},
			[2]string{"WHATSAPP_RECIPIENT", cfg.WhatsApp.Recipient},
		); len(missing) > 0 {
			cfg.WhatsApp.Enabled = false
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("WhatsApp notifications disabled, missing: %s", strings.Join(missing, ", ")))
		}
	}

	cfg.Telegram.Enabled = strings.ToLower(getenv("TELEGRAM_ENABLED")) == "true"
	cfg.Telegram.Token = withSecret(getenv, secret, "TELEGRAM_TOKEN")
	cfg.Telegram.APIURL = getenv("TELEGRAM_API_URL")
	if chatID := getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		cfg.Telegram.ChatID = id
	}
	if cfg.Telegram.Enabled && (cfg.Telegram.Token == "" || cfg.Telegram.ChatID == 0) {
		cfg.Telegram.Enabled = false
		cfg.Warnings = append(cfg.Warnings, "Telegram notifications disabled, TELEGRAM_TOKEN and TELEGRAM_CHAT_ID are required")
	}

	cfg.CronSpec = getenv("LOGHOURS_CRON_SPEC")
	if cfg.CronSpec == "" {
		cfg.CronSpec = "0 10 * * 5" // Default: Friday 10:00 AM
	}

	cfg.HistoryDSN = getenv("HISTORY_DSN")
	cfg.PushgatewayURL = getenv("PUSHGATEWAY_URL")
	cfg.MetricsAddr = getenv("METRICS_ADDR")
	cfg.InstallBrowsers = strings.ToLower(getenv("PLAYWRIGHT_INSTALL")) == "true"

	return cfg, nil
}

// missingVars returns the names of the name/value pairs whose value is empty.
func missingVars(vars ...[2]string) []string {
	var missing []string
	for _, v := range vars {
		if v[1] == "" {
			missing = append(missing, v[0])
		}
	}
	return missing
}

// withSecret prefers the environment and falls back to the OS keyring.
func withSecret(getenv func(string) string, secret func(string) string, key string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return secret(key)
}
