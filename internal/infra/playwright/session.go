// Package playwright drives the time-tracking site through a Chromium
// instance controlled by playwright-go.
package playwright

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"work_hours_logger/internal/domain/browser"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
)

// Launcher starts a fresh Playwright driver and Chromium per session.
type Launcher struct {
	installBrowsers bool
	logger          *logrus.Entry
}

// NewLauncher returns a launcher. With installBrowsers set, the driver and
// Chromium are downloaded on first use when missing.
func NewLauncher(installBrowsers bool, logger *logrus.Entry) *Launcher {
	return &Launcher{installBrowsers: installBrowsers, logger: logger}
}

func (l *Launcher) Open(ctx context.Context, opts browser.LaunchOptions) (browser.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if l.installBrowsers {
		if err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}, Verbose: false}); err != nil {
			return nil, fmt.Errorf("failed to install playwright browsers: %w", err)
		}
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}
	b, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to launch chromium: %w", err)
	}
	bctx, err := b.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{Width: opts.ViewportWidth, Height: opts.ViewportHeight},
	})
	if err != nil {
		_ = b.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}
	page, err := bctx.NewPage()
	if err != nil {
		_ = b.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	l.logger.WithFields(logrus.Fields{
		"headless": opts.Headless,
		"viewport": fmt.Sprintf("%dx%d", opts.ViewportWidth, opts.ViewportHeight),
	}).Debug("Browser session opened")

	return &Session{pw: pw, browser: b, page: page, logger: l.logger}, nil
}

// Session wraps one Playwright page. Not safe for concurrent use.
type Session struct {
	mu      sync.Mutex
	closed  bool
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page
	logger  *logrus.Entry
}

func (s *Session) ready(ctx context.Context) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return browser.ErrSessionClosed
	}
	return ctx.Err()
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if _, err := s.page.Goto(url, gotoOptions()); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

func (s *Session) Click(ctx context.Context, selector string, timeout time.Duration) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	return s.page.Locator(selector).First().Click(playwright.LocatorClickOptions{
		Timeout: millis(timeout),
	})
}

func (s *Session) Fill(ctx context.Context, selector, value string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	return s.page.Locator(selector).First().Fill(value)
}

func (s *Session) InputValue(ctx context.Context, selector string) (string, error) {
	if err := s.ready(ctx); err != nil {
		return "", err
	}
	loc := s.page.Locator(selector)
	n, err := loc.Count()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	return loc.First().InputValue()
}

func (s *Session) Count(ctx context.Context, selector string) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	return s.page.Locator(selector).Count()
}

func (s *Session) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	return s.waitFor(ctx, selector, playwright.WaitForSelectorStateVisible, timeout)
}

func (s *Session) WaitHidden(ctx context.Context, selector string, timeout time.Duration) error {
	return s.waitFor(ctx, selector, playwright.WaitForSelectorStateHidden, timeout)
}

func (s *Session) waitFor(ctx context.Context, selector string, state *playwright.WaitForSelectorState, timeout time.Duration) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	return s.page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   state,
		Timeout: millis(timeout),
	})
}

// Pause sleeps for d or until ctx is done.
func (s *Session) Pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func (s *Session) Screenshot(ctx context.Context, path string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if _, err := s.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	}); err != nil {
		return fmt.Errorf("failed to save screenshot %s: %w", path, err)
	}
	return nil
}

// Close releases the browser and the driver. Calling it twice is a no-op.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	var errs []error
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close browser: %w", err))
		}
	}
	if s.pw != nil {
		if err := s.pw.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop playwright: %w", err))
		}
	}
	if s.logger != nil {
		s.logger.Debug("Browser session closed")
	}
	return errors.Join(errs...)
}

func millis(d time.Duration) *float64 {
	return playwright.Float(float64(d.Milliseconds()))
}

// gotoOptions waits for the load event only. Pages that keep a socket or
// poll open never reach network idle.
func gotoOptions() playwright.PageGotoOptions {
	return playwright.PageGotoOptions{WaitUntil: playwright.WaitUntilStateLoad}
}
