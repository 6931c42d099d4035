package app

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"work_hours_logger/internal/domain/browser"
	"work_hours_logger/internal/domain/worklog"
	"work_hours_logger/internal/infra/screenshots"

	"github.com/sirupsen/logrus"
)

var errNotFound = errors.New("element not found")

// fakeSession records every call and answers from in-memory maps.
type fakeSession struct {
	mu sync.Mutex

	missing     map[string]bool   // selectors that never appear
	values      map[string]string // input values by selector
	fillErr     map[string]error
	counts      map[string]int
	waitHidden  error
	waitVisible error
	navigateErr error
	panicOn     string // selector whose Click panics

	calls       []string
	fills       map[string]string
	screenshots []string
	pauses      []time.Duration
	closed      bool
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		missing: make(map[string]bool),
		values:  make(map[string]string),
		fillErr: make(map[string]error),
		counts:  make(map[string]int),
		fills:   make(map[string]string),
	}
}

func (f *fakeSession) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeSession) Navigate(ctx context.Context, url string) error {
	f.record("navigate " + url)
	return f.navigateErr
}

func (f *fakeSession) Click(ctx context.Context, selector string, timeout time.Duration) error {
	f.record("click " + selector)
	if selector == f.panicOn {
		panic("page crashed")
	}
	if f.missing[selector] {
		return errNotFound
	}
	return nil
}

func (f *fakeSession) Fill(ctx context.Context, selector, value string) error {
	f.record("fill " + selector)
	if err := f.fillErr[selector]; err != nil {
		return err
	}
	f.fills[selector] = value
	return nil
}

func (f *fakeSession) InputValue(ctx context.Context, selector string) (string, error) {
	f.record("read " + selector)
	return f.values[selector], nil
}

func (f *fakeSession) Count(ctx context.Context, selector string) (int, error) {
	f.record("count " + selector)
	return f.counts[selector], nil
}

func (f *fakeSession) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	f.record("wait-visible " + selector)
	return f.waitVisible
}

func (f *fakeSession) WaitHidden(ctx context.Context, selector string, timeout time.Duration) error {
	f.record("wait-hidden " + selector)
	return f.waitHidden
}

func (f *fakeSession) Pause(ctx context.Context, d time.Duration) {
	f.pauses = append(f.pauses, d)
}

func (f *fakeSession) Screenshot(ctx context.Context, path string) error {
	f.record("screenshot " + path)
	f.screenshots = append(f.screenshots, path)
	return os.WriteFile(path, []byte("png"), 0o644)
}

func (f *fakeSession) Close() error {
	f.closed = true
	return nil
}

func (f *fakeSession) countCalls(prefix string) int {
	n := 0
	for _, c := range f.calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

type fakeLauncher struct {
	session *fakeSession
	err     error
	opened  int
	opts    browser.LaunchOptions
}

func (l *fakeLauncher) Open(ctx context.Context, opts browser.LaunchOptions) (browser.Session, error) {
	l.opened++
	l.opts = opts
	if l.err != nil {
		return nil, l.err
	}
	return l.session, nil
}

// fakeTransport implements notification.Transport.
type fakeTransport struct {
	name      string
	enabled   bool
	textOK    bool
	mediaOK   bool
	texts     []string
	media     []string
	connected bool
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{name: "fake", enabled: true, textOK: true, mediaOK: true, connected: true}
}

func (t *fakeTransport) Name() string  { return t.name }
func (t *fakeTransport) Enabled() bool { return t.enabled }

func (t *fakeTransport) SendText(ctx context.Context, message string) bool {
	t.texts = append(t.texts, message)
	return t.textOK
}

func (t *fakeTransport) SendMedia(ctx context.Context, path, caption string) bool {
	t.media = append(t.media, path)
	return t.mediaOK
}

func (t *fakeTransport) CheckConnection(ctx context.Context) bool { return t.connected }

func (t *fakeTransport) calls() int { return len(t.texts) + len(t.media) }

type fakeIssueSource struct {
	summary string
	err     error
	calls   int
}

func (s *fakeIssueSource) FetchRecentSummary(ctx context.Context) (string, error) {
	s.calls++
	return s.summary, s.err
}

type fakeObserver struct {
	reports []*worklog.RunReport
}

func (o *fakeObserver) ObserveRun(ctx context.Context, report *worklog.RunReport) error {
	o.reports = append(o.reports, report)
	return nil
}

func quietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

// fastTimings keeps the fake session's recorded pauses distinguishable.
func fastTimings() browser.Timings {
	return browser.Timings{
		LoginWait:      time.Millisecond,
		ActionTimeout:  time.Millisecond,
		FormSettle:     2 * time.Millisecond,
		SubmitSettle:   3 * time.Millisecond,
		BetweenDays:    5 * time.Millisecond,
		SpinnerWait:    time.Millisecond,
		FallbackSettle: 7 * time.Millisecond,
	}
}

type testRig struct {
	selectors   browser.Selectors
	timings     browser.Timings
	shots       *screenshots.Dir
	shotsDir    string
	probe       *EntryProbe
	submitter   *DaySubmitter
	coordinator *WeekCoordinator
}

func newTestRig(t *testing.T) *testRig {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "screenshots")
	logger := quietLogger()
	sel := browser.DefaultSelectors()
	tim := fastTimings()
	shots := screenshots.New(dir, logger)
	probe := NewEntryProbe(sel, tim, logger)
	submitter := NewDaySubmitter(probe, sel, tim, shots, logger)
	return &testRig{
		selectors:   sel,
		timings:     tim,
		shots:       shots,
		shotsDir:    dir,
		probe:       probe,
		submitter:   submitter,
		coordinator: NewWeekCoordinator(submitter, sel, tim, shots, logger),
	}
}

// hideDay makes both day locators fail for the given code.
func (r *testRig) hideDay(s *fakeSession, day string) {
	for _, st := range r.selectors.DayStrategies(day, false) {
		s.missing[st.Selector] = true
	}
}
