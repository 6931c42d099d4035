package screenshots

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const timestampLayout = "20060102_150405"

// Dir hands out screenshot paths inside one directory, creating it the
// first time a path is requested. Timestamped names keep files unique.
type Dir struct {
	root   string
	now    func() time.Time
	logger *logrus.Entry

	once sync.Once
	err  error
}

func New(root string, logger *logrus.Entry) *Dir {
	return &Dir{root: root, now: time.Now, logger: logger}
}

// WithClock replaces the timestamp source; used by tests.
func (d *Dir) WithClock(now func() time.Time) *Dir {
	d.now = now
	return d
}

func (d *Dir) Root() string { return d.root }

func (d *Dir) ensure() error {
	d.once.Do(func() {
		if _, err := os.Stat(d.root); err == nil {
			return
		}
		if err := os.MkdirAll(d.root, 0o755); err != nil {
			d.err = fmt.Errorf("failed to create screenshots directory %s: %w", d.root, err)
			return
		}
		d.logger.Infof("Created screenshots directory %s", d.root)
	})
	return d.err
}

func (d *Dir) path(name string) (string, error) {
	if err := d.ensure(); err != nil {
		return "", err
	}
	return filepath.Join(d.root, name), nil
}

// DebugPath is used when a day's element cannot be located.
func (d *Dir) DebugPath(day string) (string, error) {
	return d.path(fmt.Sprintf("debug_screenshot_%s.png", day))
}

// VerificationPath is the final capture of a run.
func (d *Dir) VerificationPath() (string, error) {
	return d.path(fmt.Sprintf("hours_logged_verification_%s.png", d.now().Format(timestampLayout)))
}

// ErrorPath is captured when a run crashes after the session opened.
func (d *Dir) ErrorPath() (string, error) {
	return d.path(fmt.Sprintf("error_screenshot_%s.png", d.now().Format(timestampLayout)))
}
