// Package whatsapp sends notifications through an Evolution API instance.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"work_hours_logger/internal/infra/config"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
)

const (
	textTimeout   = 30 * time.Second
	mediaTimeout  = 60 * time.Second
	statusTimeout = 10 * time.Second
	maxRetries    = 3
)

// Client is the WhatsApp notification transport.
type Client struct {
	cfg    config.WhatsAppConfig
	http   *retryablehttp.Client
	now    func() time.Time
	logger *logrus.Entry
}

type textPayload struct {
	Number string `json:"number"`
	Text   string `json:"text"`
}

type mediaPayload struct {
	Number    string `json:"number"`
	MediaType string `json:"mediatype"`
	MimeType  string `json:"mimeType"`
	Media     string `json:"media"`
	Caption   string `json:"caption"`
	FileName  string `json:"fileName"`
}

func NewClient(cfg config.WhatsAppConfig, logger *logrus.Entry) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = maxRetries
	rc.RetryWaitMin = time.Second
	rc.RetryWaitMax = 4 * time.Second
	rc.CheckRetry = checkRetry
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.Logger = leveledLogger{logger}

	if cfg.Enabled {
		logger.Infof("WhatsApp service configured for instance: %s", cfg.Instance)
	} else {
		logger.Info("WhatsApp notifications are disabled")
	}
	return &Client{cfg: cfg, http: rc, now: time.Now, logger: logger}
}

func (c *Client) Name() string  { return "whatsapp" }
func (c *Client) Enabled() bool { return c.cfg.Enabled }

// SendText posts a timestamped text message to the configured recipient.
func (c *Client) SendText(ctx context.Context, message string) bool {
	if !c.cfg.Enabled {
		c.logger.Debug("WhatsApp service is disabled, skipping message")
		return false
	}
	text := fmt.Sprintf("Work Logger - %s: %s", c.now().Format("2006-01-02 15:04:05"), message)
	c.logger.Infof("Sending WhatsApp text message to %s", c.cfg.Recipient)
	ok := c.post(ctx, "sendText", textPayload{Number: c.cfg.Recipient, Text: text}, textTimeout)
	if ok {
		c.logger.Info("WhatsApp text message sent successfully")
	}
	return ok
}

// SendMedia posts the image at path, base64 encoded, with a caption.
func (c *Client) SendMedia(ctx context.Context, path, caption string) bool {
	if !c.cfg.Enabled {
		c.logger.Debug("WhatsApp service is disabled, skipping image")
		return false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		c.logger.WithError(err).Errorf("Image file not readable: %s", path)
		return false
	}

	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = "image/png"
	}
	payload := mediaPayload{
		Number:    c.cfg.Recipient,
		MediaType: "image",
		MimeType:  mimeType,
		Media:     base64.StdEncoding.EncodeToString(data),
		Caption:   caption,
		FileName:  filepath.Base(path),
	}

	c.logger.Infof("Sending WhatsApp image to %s: %s", c.cfg.Recipient, payload.FileName)
	ok := c.post(ctx, "sendMedia", payload, mediaTimeout)
	if ok {
		c.logger.Info("WhatsApp image sent successfully")
	}
	return ok
}

// CheckConnection reports whether the API base URL answers 200.
func (c *Client) CheckConnection(ctx context.Context) bool {
	if !c.cfg.Enabled {
		c.logger.Info("WhatsApp service is disabled")
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, statusTimeout)
	defer cancel()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.cfg.APIURL, nil)
	if err != nil {
		c.logger.WithError(err).Error("WhatsApp API connection test failed")
		return false
	}
	req.Header.Set("apikey", c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WithError(err).Error("WhatsApp API connection test failed")
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		c.logger.Errorf("WhatsApp API connection test failed: %d", resp.StatusCode)
		return false
	}
	c.logger.Info("WhatsApp API connection test successful")
	return true
}

func (c *Client) post(ctx context.Context, endpoint string, payload interface{}, timeout time.Duration) bool {
	body, err := json.Marshal(payload)
	if err != nil {
		c.logger.WithError(err).Error("Failed to encode WhatsApp payload")
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	url := fmt.Sprintf("%s/message/%s/%s", c.cfg.APIURL, endpoint, c.cfg.Instance)
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		c.logger.WithError(err).Error("Failed to build WhatsApp request")
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WithError(err).Errorf("Error sending WhatsApp %s request", endpoint)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Errorf("Failed to send WhatsApp %s: %d - %s", endpoint, resp.StatusCode, string(respBody))
		return false
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return true
}

// checkRetry retries transport errors and the throttling and gateway
// statuses the Evolution API returns under load.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	}
	switch resp.StatusCode {
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true, nil
	}
	return false, nil
}

// leveledLogger routes retryablehttp's logging through logrus.
type leveledLogger struct {
	entry *logrus.Entry
}

func (l leveledLogger) fields(kv []interface{}) *logrus.Entry {
	e := l.entry
	for i := 0; i+1 < len(kv); i += 2 {
		e = e.WithField(fmt.Sprint(kv[i]), kv[i+1])
	}
	return e
}

func (l leveledLogger) Error(msg string, kv ...interface{}) { l.fields(kv).Error(msg) }
func (l leveledLogger) Warn(msg string, kv ...interface{})  { l.fields(kv).Warn(msg) }
func (l leveledLogger) Info(msg string, kv ...interface{})  { l.fields(kv).Debug(msg) }
func (l leveledLogger) Debug(msg string, kv ...interface{}) { l.fields(kv).Debug(msg) }
