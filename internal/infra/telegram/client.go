// internal/infra/telegram/client.go
package telegram

import (
	"context"
	"fmt"
	"os"
	"time"

	"work_hours_logger/internal/infra/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// NewBot builds a telebot instance for the configured token. With poll
// set, the bot long-polls for commands once Start is called; otherwise it
// is send-only and makes no request until the first message.
func NewBot(cfg config.TelegramConfig, poll bool, logger *logrus.Entry) (*telebot.Bot, error) {
	pref := telebot.Settings{
		Token:   cfg.Token,
		URL:     cfg.APIURL,
		Offline: !poll,
		OnError: func(err error, c telebot.Context) { // Global error handler
			entry := logger.WithError(err)
			if c != nil && c.Sender() != nil && c.Chat() != nil {
				entry = entry.WithFields(logrus.Fields{"sender_id": c.Sender().ID, "chat_id": c.Chat().ID})
			}
			entry.Error("Telegram bot error")
		},
	}
	if poll {
		pref.Poller = &telebot.LongPoller{Timeout: 10 * time.Second}
	}
	b, err := telebot.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return b, nil
}

// Client is the Telegram notification transport. It implements
// notification.Transport on top of the telebot library.
type Client struct {
	bot     *telebot.Bot
	chat    telebot.ChatID
	enabled bool
	logger  *logrus.Entry
}

// NewClient wraps b. A nil bot yields a disabled transport.
func NewClient(b *telebot.Bot, cfg config.TelegramConfig, logger *logrus.Entry) *Client {
	return &Client{
		bot:     b,
		chat:    telebot.ChatID(cfg.ChatID),
		enabled: cfg.Enabled && b != nil,
		logger:  logger,
	}
}

func (c *Client) Name() string  { return "telegram" }
func (c *Client) Enabled() bool { return c.enabled }

func (c *Client) SendText(ctx context.Context, message string) bool {
	if !c.enabled {
		c.logger.Debug("Telegram transport is disabled, skipping message")
		return false
	}
	if err := ctx.Err(); err != nil {
		return false
	}
	if _, err := c.bot.Send(c.chat, message); err != nil {
		c.logger.WithError(err).Error("Failed to send Telegram message")
		return false
	}
	c.logger.Info("Telegram message sent successfully")
	return true
}

// SendMedia uploads the image at path as a photo with caption.
func (c *Client) SendMedia(ctx context.Context, path, caption string) bool {
	if !c.enabled {
		c.logger.Debug("Telegram transport is disabled, skipping photo")
		return false
	}
	if err := ctx.Err(); err != nil {
		return false
	}
	if _, err := os.Stat(path); err != nil {
		c.logger.WithError(err).Errorf("Image file not found: %s", path)
		return false
	}
	photo := &telebot.Photo{File: telebot.FromDisk(path), Caption: caption}
	if _, err := c.bot.Send(c.chat, photo); err != nil {
		c.logger.WithError(err).Error("Failed to send Telegram photo")
		return false
	}
	c.logger.Info("Telegram photo sent successfully")
	return true
}

// CheckConnection calls getMe to validate the token.
func (c *Client) CheckConnection(ctx context.Context) bool {
	if !c.enabled {
		c.logger.Info("Telegram transport is disabled")
		return false
	}
	if err := ctx.Err(); err != nil {
		return false
	}
	if _, err := c.bot.Raw("getMe", nil); err != nil {
		c.logger.WithError(err).Error("Telegram API connection test failed")
		return false
	}
	c.logger.Info("Telegram API connection test successful")
	return true
}
