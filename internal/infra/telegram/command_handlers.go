// internal/infra/telegram/command_handlers.go
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"work_hours_logger/internal/app"
	"work_hours_logger/internal/domain/history"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// RunTrigger starts an out-of-schedule run.
type RunTrigger interface {
	RunNow(ctx context.Context) error
}

const unauthorizedReply = "Error: you are not allowed to use this command."

// CommandHandlers answers owner-chat commands while the scheduler runs.
type CommandHandlers struct {
	history *app.HistoryService
	trigger RunTrigger
	logger  *logrus.Entry
}

func NewCommandHandlers(historySvc *app.HistoryService, trigger RunTrigger, logger *logrus.Entry) *CommandHandlers {
	return &CommandHandlers{history: historySvc, trigger: trigger, logger: logger}
}

// Register attaches the handlers to b.
func (h *CommandHandlers) Register(ctx context.Context, b *telebot.Bot) {
	b.Handle("/start", h.wrap("/start", func(chatID int64, _ []string) string {
		return h.start(chatID)
	}))
	b.Handle("/help", h.wrap("/help", func(chatID int64, _ []string) string {
		return h.help(chatID)
	}))
	b.Handle("/runs", h.wrap("/runs", func(chatID int64, args []string) string {
		return h.runs(ctx, chatID, args)
	}))
	b.Handle("/run", h.wrap("/run", func(chatID int64, args []string) string {
		return h.run(ctx, chatID, args)
	}))
	b.Handle("/lognow", h.wrap("/lognow", func(chatID int64, _ []string) string {
		return h.logNow(ctx, chatID)
	}))
}

func (h *CommandHandlers) wrap(command string, reply func(chatID int64, args []string) string) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		chatID := c.Chat().ID
		h.logger.WithFields(logrus.Fields{
			"handler": command,
			"chat_id": chatID,
		}).Info("Command received")
		return c.Send(reply(chatID, c.Args()))
	}
}

func (h *CommandHandlers) start(chatID int64) string {
	if err := h.history.Authorize(chatID); err != nil {
		return "Hi! This bot reports automated work-hour logging runs to its owner only."
	}
	return "Hi! I will report every scheduled work logging run here. Use /help for the list of commands."
}

func (h *CommandHandlers) help(chatID int64) string {
	if err := h.history.Authorize(chatID); err != nil {
		return "No commands are available for you."
	}
	var helpText strings.Builder
	helpText.WriteString("Available commands:\n\n")
	helpText.WriteString("/runs [n] - show the last n runs (default 10)\n")
	helpText.WriteString("/run <id> - show per-day outcomes of a run\n")
	helpText.WriteString("/lognow - log the whole week now\n")
	helpText.WriteString("/help - show this message")
	return helpText.String()
}

func (h *CommandHandlers) runs(ctx context.Context, chatID int64, args []string) string {
	if err := h.history.Authorize(chatID); err != nil {
		h.logger.WithField("chat_id", chatID).Warn("Unauthorized access attempt")
		return unauthorizedReply
	}
	limit := 0
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return "Invalid format. Use: /runs [n]"
		}
		limit = n
	}

	recent, err := h.history.Recent(ctx, limit)
	if err != nil {
		return h.errorReply(err)
	}
	if len(recent) == 0 {
		return "No runs recorded yet."
	}
	lines := make([]string, 0, len(recent))
	for _, r := range recent {
		lines = append(lines, app.FormatRunLine(r))
	}
	return strings.Join(lines, "\n")
}

func (h *CommandHandlers) run(ctx context.Context, chatID int64, args []string) string {
	if err := h.history.Authorize(chatID); err != nil {
		h.logger.WithField("chat_id", chatID).Warn("Unauthorized access attempt")
		return unauthorizedReply
	}
	if len(args) != 1 {
		return "Invalid format. Use: /run <id>"
	}
	r, err := h.history.Run(ctx, args[0])
	if err != nil {
		return h.errorReply(err)
	}
	return app.FormatRun(r)
}

func (h *CommandHandlers) logNow(ctx context.Context, chatID int64) string {
	if err := h.history.Authorize(chatID); err != nil {
		h.logger.WithField("chat_id", chatID).Warn("Unauthorized access attempt")
		return unauthorizedReply
	}
	if h.trigger == nil {
		return "Manual runs are not available."
	}
	// The run reports through the regular notifications when it finishes.
	go func() {
		if err := h.trigger.RunNow(context.WithoutCancel(ctx)); err != nil {
			h.logger.WithError(err).Error("Manual run failed")
		}
	}()
	return "Run started. You will get the usual notification when it finishes."
}

func (h *CommandHandlers) errorReply(err error) string {
	switch {
	case errors.Is(err, app.ErrHistoryDisabled):
		return "Run history is not enabled."
	case errors.Is(err, history.ErrRunNotFound):
		return "Run not found."
	default:
		h.logger.WithError(err).Error("History query failed")
		return fmt.Sprintf("An error occurred: %s", err.Error())
	}
}
