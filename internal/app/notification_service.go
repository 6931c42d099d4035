// internal/app/notification_service.go
package app

import (
	"context"
	"os"

	"work_hours_logger/internal/domain/notification"

	"github.com/sirupsen/logrus"
)

// NotificationService delivers run notifications. Every method is
// best-effort: a false result is logged by the caller and never changes
// the outcome of a run.
type NotificationService interface {
	// NotifySuccess sends the text and the verification screenshot; both must arrive.
	NotifySuccess(ctx context.Context, date, screenshotPath, detail string) bool
	// NotifyError sends the failure reason and, if the file exists, the screenshot.
	NotifyError(ctx context.Context, date, message, screenshotPath string) bool
	NotifyDebug(ctx context.Context, date, info, screenshotPath string) bool
	Notify(ctx context.Context, event notification.Event) bool
	// CheckConnection reports reachability per enabled transport name.
	CheckConnection(ctx context.Context) map[string]bool
	Enabled() bool
}

// NotificationServiceImpl fans events out to every enabled transport.
type NotificationServiceImpl struct {
	transports []notification.Transport
	logger     *logrus.Entry
	fileExists func(path string) bool
}

func NewNotificationServiceImpl(logger *logrus.Entry, transports ...notification.Transport) *NotificationServiceImpl {
	return &NotificationServiceImpl{
		transports: transports,
		logger:     logger,
		fileExists: func(path string) bool {
			_, err := os.Stat(path)
			return err == nil
		},
	}
}

func (s *NotificationServiceImpl) enabledTransports() []notification.Transport {
	var enabled []notification.Transport
	for _, t := range s.transports {
		if t != nil && t.Enabled() {
			enabled = append(enabled, t)
		}
	}
	return enabled
}

func (s *NotificationServiceImpl) Enabled() bool {
	return len(s.enabledTransports()) > 0
}

func (s *NotificationServiceImpl) NotifySuccess(ctx context.Context, date, screenshotPath, detail string) bool {
	return s.Notify(ctx, notification.Success(date, screenshotPath, detail))
}

func (s *NotificationServiceImpl) NotifyError(ctx context.Context, date, message, screenshotPath string) bool {
	return s.Notify(ctx, notification.Error(date, message, screenshotPath))
}

func (s *NotificationServiceImpl) NotifyDebug(ctx context.Context, date, info, screenshotPath string) bool {
	return s.Notify(ctx, notification.Debug(date, info, screenshotPath))
}

// Notify sends the event to each enabled transport. The result is true
// only if every transport delivered every part it attempted; partial
// delivery is reported as failure.
func (s *NotificationServiceImpl) Notify(ctx context.Context, event notification.Event) bool {
	transports := s.enabledTransports()
	if len(transports) == 0 {
		s.logger.Debugf("Notifications are disabled, skipping %s notification", event.Kind)
		return false
	}

	delivered := true
	for _, t := range transports {
		logCtx := s.logger.WithFields(logrus.Fields{"transport": t.Name(), "event": event.Kind})

		textSent := t.SendText(ctx, event.Text())
		mediaSent := true
		switch {
		case event.MediaRequired():
			mediaSent = t.SendMedia(ctx, event.Screenshot, event.Caption())
		case event.Screenshot != "" && s.fileExists(event.Screenshot):
			mediaSent = t.SendMedia(ctx, event.Screenshot, event.Caption())
		}

		if textSent && mediaSent {
			logCtx.Info("Notification delivered")
			continue
		}
		logCtx.WithFields(logrus.Fields{"text_sent": textSent, "media_sent": mediaSent}).Warn("Notification only partially delivered")
		delivered = false
	}
	return delivered
}

func (s *NotificationServiceImpl) CheckConnection(ctx context.Context) map[string]bool {
	results := make(map[string]bool)
	for _, t := range s.enabledTransports() {
		results[t.Name()] = t.CheckConnection(ctx)
	}
	return results
}
