// internal/domain/notification/shared_types.go
package notification

import "fmt"

// EventKind identifies which ready-made message flow an event uses.
type EventKind string

const (
	EventSuccess EventKind = "SUCCESS"
	EventError   EventKind = "ERROR"
	EventDebug   EventKind = "DEBUG"
)

// Event is one notification about a run. Screenshot is optional for
// error and debug events; Detail carries the success detail, the error
// message or the debug info depending on Kind.
type Event struct {
	Kind       EventKind
	Date       string
	Detail     string
	Screenshot string
}

func Success(date, screenshot, detail string) Event {
	return Event{Kind: EventSuccess, Date: date, Screenshot: screenshot, Detail: detail}
}

func Error(date, message, screenshot string) Event {
	return Event{Kind: EventError, Date: date, Detail: message, Screenshot: screenshot}
}

func Debug(date, info, screenshot string) Event {
	return Event{Kind: EventDebug, Date: date, Detail: info, Screenshot: screenshot}
}

// Text renders the message body sent ahead of the attachment.
func (e Event) Text() string {
	switch e.Kind {
	case EventSuccess:
		msg := fmt.Sprintf("Hours logged successfully for %s", e.Date)
		if e.Detail != "" {
			msg += "\n" + e.Detail
		}
		return msg + "\nVerification screenshot attached"
	case EventError:
		msg := fmt.Sprintf("Failed to log hours for %s\nError: %s", e.Date, e.Detail)
		if e.Screenshot != "" {
			msg += "\nDebug screenshot attached"
		}
		return msg
	default:
		msg := fmt.Sprintf("Debug info for %s\n%s", e.Date, e.Detail)
		if e.Screenshot != "" {
			msg += "\nScreenshot saved for troubleshooting"
		}
		return msg
	}
}

// Caption is the text attached to the screenshot.
func (e Event) Caption() string {
	switch e.Kind {
	case EventSuccess:
		return fmt.Sprintf("Verification screenshot for %s", e.Date)
	case EventError:
		return fmt.Sprintf("Error screenshot for %s", e.Date)
	default:
		return fmt.Sprintf("Debug screenshot for %s", e.Date)
	}
}

// MediaRequired reports whether a failed attachment fails the whole
// notification. Success events always carry their screenshot.
func (e Event) MediaRequired() bool {
	return e.Kind == EventSuccess
}
