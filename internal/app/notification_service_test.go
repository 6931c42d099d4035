package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeShot(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "shot.png")
	if err := os.WriteFile(p, []byte("png"), 0o644); err != nil {
		t.Fatalf("failed to write screenshot: %v", err)
	}
	return p
}

func TestNotify_DisabledMakesNoCalls(t *testing.T) {
	tr := newFakeTransport()
	tr.enabled = false
	svc := NewNotificationServiceImpl(quietLogger(), tr)
	ctx := context.Background()
	shot := writeShot(t)

	if svc.NotifySuccess(ctx, "2025-01-15", shot, "detail") {
		t.Error("NotifySuccess should return false when disabled")
	}
	if svc.NotifyError(ctx, "2025-01-15", "boom", shot) {
		t.Error("NotifyError should return false when disabled")
	}
	if svc.NotifyDebug(ctx, "2025-01-15", "info", shot) {
		t.Error("NotifyDebug should return false when disabled")
	}
	if tr.calls() != 0 {
		t.Errorf("expected no transport calls, got %d", tr.calls())
	}
}

func TestNotify_NoTransports(t *testing.T) {
	svc := NewNotificationServiceImpl(quietLogger())
	if svc.Enabled() {
		t.Fatal("service without transports must report disabled")
	}
	if svc.NotifyError(context.Background(), "2025-01-15", "boom", "") {
		t.Error("expected false without transports")
	}
}

func TestNotifySuccess_SendsTextAndMedia(t *testing.T) {
	tr := newFakeTransport()
	svc := NewNotificationServiceImpl(quietLogger(), tr)
	shot := writeShot(t)

	if !svc.NotifySuccess(context.Background(), "2024-01-15", shot, "8 hours logged") {
		t.Fatal("expected success")
	}
	if len(tr.texts) != 1 || len(tr.media) != 1 {
		t.Fatalf("expected one text and one media send, got %d/%d", len(tr.texts), len(tr.media))
	}
	for _, want := range []string{"Hours logged successfully", "2024-01-15", "8 hours logged"} {
		if !strings.Contains(tr.texts[0], want) {
			t.Errorf("expected %q in message %q", want, tr.texts[0])
		}
	}
}

func TestNotifySuccess_FailedMediaFailsWholeNotification(t *testing.T) {
	tr := newFakeTransport()
	tr.mediaOK = false
	svc := NewNotificationServiceImpl(quietLogger(), tr)

	if svc.NotifySuccess(context.Background(), "2024-01-15", writeShot(t), "") {
		t.Fatal("expected false when media send fails")
	}
	if len(tr.texts) != 1 {
		t.Errorf("text should still have been sent, got %d", len(tr.texts))
	}
}

func TestNotifyError_ScreenshotOnlyWhenFileExists(t *testing.T) {
	ctx := context.Background()

	tr := newFakeTransport()
	tr.mediaOK = false
	svc := NewNotificationServiceImpl(quietLogger(), tr)
	missing := filepath.Join(t.TempDir(), "nope.png")

	if !svc.NotifyError(ctx, "2024-01-15", "Login failed", missing) {
		t.Fatal("missing screenshot should not fail the error notification")
	}
	if len(tr.media) != 0 {
		t.Errorf("expected no media send for a missing file, got %v", tr.media)
	}
	if !strings.Contains(tr.texts[0], "Login failed") {
		t.Errorf("expected reason in message, got %q", tr.texts[0])
	}

	if svc.NotifyError(ctx, "2024-01-15", "Login failed", writeShot(t)) {
		t.Error("expected false when an existing screenshot could not be sent")
	}
}

func TestNotifyDebug_WithoutScreenshot(t *testing.T) {
	tr := newFakeTransport()
	svc := NewNotificationServiceImpl(quietLogger(), tr)

	if !svc.NotifyDebug(context.Background(), "2024-01-15", "Element not found", "") {
		t.Fatal("expected debug notification to succeed")
	}
	if !strings.Contains(tr.texts[0], "Debug info for 2024-01-15") {
		t.Errorf("unexpected debug text %q", tr.texts[0])
	}
	if len(tr.media) != 0 {
		t.Errorf("expected no media, got %v", tr.media)
	}
}

func TestNotify_AllTransportsMustDeliver(t *testing.T) {
	ok := newFakeTransport()
	broken := newFakeTransport()
	broken.name = "broken"
	broken.textOK = false
	svc := NewNotificationServiceImpl(quietLogger(), ok, broken)

	if svc.NotifyDebug(context.Background(), "2024-01-15", "info", "") {
		t.Fatal("expected false when one transport fails")
	}
	if len(ok.texts) != 1 || len(broken.texts) != 1 {
		t.Errorf("every enabled transport should be attempted")
	}
}

func TestCheckConnection(t *testing.T) {
	up := newFakeTransport()
	up.name = "up"
	down := newFakeTransport()
	down.name = "down"
	down.connected = false
	off := newFakeTransport()
	off.name = "off"
	off.enabled = false

	got := NewNotificationServiceImpl(quietLogger(), up, down, off).CheckConnection(context.Background())
	if len(got) != 2 || !got["up"] || got["down"] {
		t.Errorf("unexpected connection results %v", got)
	}
}
