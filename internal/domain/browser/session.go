package browser

import (
	"context"
	"errors"
	"time"
)

// ErrSessionClosed is returned by operations on a session that was already released.
var ErrSessionClosed = errors.New("browser session is closed")

// Session is one page of a browser driving the time-tracking site.
// Implementations are not safe for concurrent use; the page is a single
// mutable cursor over the application.
type Session interface {
	Navigate(ctx context.Context, url string) error
	// Click waits up to timeout for selector and clicks it.
	Click(ctx context.Context, selector string, timeout time.Duration) error
	Fill(ctx context.Context, selector, value string) error
	// InputValue returns "" without error when no element matches.
	InputValue(ctx context.Context, selector string) (string, error)
	Count(ctx context.Context, selector string) (int, error)
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error
	WaitHidden(ctx context.Context, selector string, timeout time.Duration) error
	Pause(ctx context.Context, d time.Duration)
	Screenshot(ctx context.Context, path string) error
	Close() error
}

// LaunchOptions configures a new session.
type LaunchOptions struct {
	Headless       bool
	ViewportWidth  int
	ViewportHeight int
}

// Launcher opens sessions. The orchestrator owns each opened session
// exclusively and must Close it.
type Launcher interface {
	Open(ctx context.Context, opts LaunchOptions) (Session, error)
}

// DefaultLaunchOptions uses the minimum viewport the tracked site accepts.
func DefaultLaunchOptions(headless bool) LaunchOptions {
	return LaunchOptions{Headless: headless, ViewportWidth: 1366, ViewportHeight: 768}
}
