package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/m3rciful/whisperbot/core/logger"
	"github.com/m3rciful/whisperbot/internal/domain"
)

// captureLogs points the global logger at a buffer for the duration of a test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := logger.L
	logger.L = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	t.Cleanup(func() { logger.L = prev })
	return &buf
}

func assertLogged(t *testing.T, buf *bytes.Buffer, fragments ...string) {
	t.Helper()
	out := buf.String()
	for _, frag := range fragments {
		if !strings.Contains(out, frag) {
			t.Errorf("log output missing %q:\n%s", frag, out)
		}
	}
}

func TestBeginLogsStorageFailure(t *testing.T) {
	wf, ledger, _ := newWorkflow(CountBeforeSend)
	ledger.failAll = true
	buf := captureLogs(t)

	err := wf.Begin(context.Background(), 1, 2)
	if err == nil {
		t.Fatal("expected storage error from Begin")
	}
	if errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("storage failure misreported as unknown target: %v", err)
	}
	assertLogged(t, buf, "send.begin", "status=fail")
}

func TestCompleteLogsCountFailure(t *testing.T) {
	wf, ledger, _ := newWorkflow(CountBeforeSend)
	ctx := context.Background()
	ledger.users[2] = &domain.User{ID: 2}

	if err := wf.Begin(ctx, 1, 2); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	ledger.failAll = true
	buf := captureLogs(t)

	forwarded := false
	_, err := wf.Complete(ctx, 1, func(int64) error {
		forwarded = true
		return nil
	})
	if err == nil {
		t.Fatal("expected storage error from Complete")
	}
	if errors.Is(err, domain.ErrForwardFailed) {
		t.Fatalf("storage failure misreported as forward failure: %v", err)
	}
	if forwarded {
		t.Error("forward ran even though the counter update failed")
	}
	assertLogged(t, buf, "send.count", "status=fail")
}

func TestIncrementReceivedLogsFailure(t *testing.T) {
	ledger := newFakeLedger()
	ledger.failAll = true
	users := NewUsers(ledger, domain.DefaultLimits)
	buf := captureLogs(t)

	if err := users.IncrementReceived(context.Background(), 7); err == nil {
		t.Fatal("expected storage error from IncrementReceived")
	}
	assertLogged(t, buf, "received.increment", "status=fail")
}
