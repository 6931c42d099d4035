package screenshots

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func TestDir_CreatesLazily(t *testing.T) {
	root := filepath.Join(t.TempDir(), "screenshots")
	d := New(root, quietLogger())

	if _, err := os.Stat(root); !os.IsNotExist(err) {
		t.Fatalf("directory should not exist before first use, stat err: %v", err)
	}

	p, err := d.DebugPath("Mo")
	if err != nil {
		t.Fatalf("DebugPath failed: %v", err)
	}
	if p != filepath.Join(root, "debug_screenshot_Mo.png") {
		t.Errorf("unexpected path %s", p)
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		t.Fatalf("expected directory to be created, err: %v", err)
	}
}

func TestDir_TimestampedNames(t *testing.T) {
	fixed := time.Date(2025, 3, 7, 14, 5, 9, 0, time.UTC)
	d := New(t.TempDir(), quietLogger()).WithClock(func() time.Time { return fixed })

	v, err := d.VerificationPath()
	if err != nil {
		t.Fatalf("VerificationPath failed: %v", err)
	}
	if filepath.Base(v) != "hours_logged_verification_20250307_140509.png" {
		t.Errorf("unexpected verification name %s", filepath.Base(v))
	}

	e, err := d.ErrorPath()
	if err != nil {
		t.Fatalf("ErrorPath failed: %v", err)
	}
	if filepath.Base(e) != "error_screenshot_20250307_140509.png" {
		t.Errorf("unexpected error name %s", filepath.Base(e))
	}
}
