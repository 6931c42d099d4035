package cli

import (
	"context"

	"work_hours_logger/internal/app"
	"work_hours_logger/internal/domain/history"
	"work_hours_logger/internal/domain/issues"
	"work_hours_logger/internal/infra/config"
	idb "work_hours_logger/internal/infra/database"
	"work_hours_logger/internal/infra/github"
	"work_hours_logger/internal/infra/jira"
	"work_hours_logger/internal/infra/logger"
	"work_hours_logger/internal/infra/metrics"
	"work_hours_logger/internal/infra/playwright"
	"work_hours_logger/internal/infra/screenshots"
	"work_hours_logger/internal/infra/telegram"
	"work_hours_logger/internal/infra/whatsapp"

	"gopkg.in/telebot.v3"
)

// components is the wired application for one command invocation.
type components struct {
	workLogger  *app.WorkLogger
	notifier    *app.NotificationServiceImpl
	history     *app.HistoryService
	metrics     *metrics.Recorder
	telegramBot *telebot.Bot // nil unless Telegram is enabled

	historyRepo history.Repository
}

// build wires every component from cfg. Optional features (history,
// Telegram) that fail to initialise are logged and left out.
func build(ctx context.Context, cfg *config.AppConfig, pollTelegram bool) (*components, error) {
	log := logger.Component("main")

	selectors, timings, err := config.LoadSelectors(cfg.SelectorsFile)
	if err != nil {
		return nil, err
	}

	c := &components{}
	c.historyRepo = openHistory(ctx, cfg)
	c.history = app.NewHistoryService(c.historyRepo, cfg.Telegram.ChatID)

	if cfg.Telegram.Enabled {
		b, err := telegram.NewBot(cfg.Telegram, pollTelegram, logger.Component("telegram"))
		if err != nil {
			log.WithError(err).Warn("Telegram notifications disabled")
		} else {
			c.telegramBot = b
		}
	}
	c.notifier = app.NewNotificationServiceImpl(
		logger.Component("notifications"),
		whatsapp.NewClient(cfg.WhatsApp, logger.Component("whatsapp")),
		telegram.NewClient(c.telegramBot, cfg.Telegram, logger.Component("telegram")),
	)

	c.metrics = metrics.NewRecorder(cfg.PushgatewayURL, logger.Component("metrics"))
	observers := []app.RunObserver{c.metrics}
	if c.historyRepo != nil {
		observers = append(observers, app.NewHistoryRecorder(c.historyRepo))
	}

	shots := screenshots.New(cfg.ScreenshotsDir, logger.Component("screenshots"))
	probe := app.NewEntryProbe(selectors, timings, logger.Component("probe"))
	submitter := app.NewDaySubmitter(probe, selectors, timings, shots, logger.Component("submitter"))
	coordinator := app.NewWeekCoordinator(submitter, selectors, timings, shots, logger.Component("coordinator"))

	c.workLogger = app.NewWorkLogger(
		issueSource(cfg),
		playwright.NewLauncher(cfg.InstallBrowsers, logger.Component("browser")),
		coordinator,
		c.notifier,
		shots,
		app.SiteCredentials{URL: cfg.Site.URL, Username: cfg.Site.Username, Password: cfg.Site.Password},
		selectors,
		timings,
		logger.Component("work_logger"),
		observers...,
	)
	return c, nil
}

func issueSource(cfg *config.AppConfig) issues.Source {
	if cfg.IssueProvider == config.ProviderGitHub {
		return github.NewClient(cfg.GitHub, logger.Component("github"))
	}
	return jira.NewClient(cfg.Jira, logger.Component("jira"))
}

func openHistory(ctx context.Context, cfg *config.AppConfig) history.Repository {
	if cfg.HistoryDSN == "" {
		return nil
	}
	repo, err := idb.OpenRunRepository(ctx, cfg.HistoryDSN)
	if err != nil {
		logger.Component("main").WithError(err).Warn("Run history disabled")
		return nil
	}
	logger.Component("main").Debug("Run history database ready")
	return repo
}

// Close releases the history database.
func (c *components) Close() {
	if c.historyRepo == nil {
		return
	}
	if err := c.historyRepo.Close(); err != nil {
		logger.Component("main").WithError(err).Warn("Failed to close history database")
	}
}
