package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/m3rciful/whisperbot/core/telegram/state"
	"github.com/m3rciful/whisperbot/internal/domain"
)

// fakeLedger is an in-memory Ledger used by workflow tests.
type fakeLedger struct {
	users   map[int64]*domain.User
	inserts int
	failAll bool
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{users: make(map[int64]*domain.User)}
}

func (f *fakeLedger) EnsureUser(_ context.Context, id int64, username string) error {
	if f.failAll {
		return fmt.Errorf("storage down")
	}
	if _, ok := f.users[id]; ok {
		return nil
	}
	f.inserts++
	f.users[id] = &domain.User{ID: id, Username: username}
	return nil
}

func (f *fakeLedger) GetByID(_ context.Context, id int64) (*domain.User, error) {
	if f.failAll {
		return nil, fmt.Errorf("storage down")
	}
	user, ok := f.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeLedger) QuotaState(_ context.Context, id int64) (domain.QuotaState, error) {
	if f.failAll {
		return domain.QuotaState{}, fmt.Errorf("storage down")
	}
	user, ok := f.users[id]
	if !ok {
		return domain.QuotaState{}, domain.ErrUserNotFound
	}
	return domain.QuotaState{
		MessagesReceived: user.MessagesReceived,
		IsSubscribed:     user.IsSubscribed,
	}, nil
}

func (f *fakeLedger) IncrementReceived(_ context.Context, id int64) error {
	if f.failAll {
		return fmt.Errorf("storage down")
	}
	if user, ok := f.users[id]; ok {
		user.MessagesReceived++
	}
	return nil
}

func (f *fakeLedger) ActivateSubscription(_ context.Context, id int64) error {
	if f.failAll {
		return fmt.Errorf("storage down")
	}
	if user, ok := f.users[id]; ok {
		user.IsSubscribed = true
	}
	return nil
}

func (f *fakeLedger) ResetAllCounters(_ context.Context) (int64, error) {
	if f.failAll {
		return 0, fmt.Errorf("storage down")
	}
	for _, user := range f.users {
		user.MessagesReceived = 0
	}
	return int64(len(f.users)), nil
}

func (f *fakeLedger) received(t *testing.T, id int64) int {
	t.Helper()
	user, ok := f.users[id]
	if !ok {
		t.Fatalf("user %d missing from ledger", id)
	}
	return user.MessagesReceived
}

func newWorkflow(policy CountPolicy) (*Delivery, *fakeLedger, state.Manager) {
	ledger := newFakeLedger()
	users := NewUsers(ledger, domain.DefaultLimits)
	sessions := state.NewMemoryManager()
	return NewDelivery(users, sessions, policy), ledger, sessions
}

func TestBeginRejectsSelfSend(t *testing.T) {
	wf, ledger, sessions := newWorkflow(CountBeforeSend)
	ctx := context.Background()
	ledger.EnsureUser(ctx, 1, "alice")

	if err := wf.Begin(ctx, 1, 1); !errors.Is(err, domain.ErrSelfSend) {
		t.Fatalf("Begin self-send = %v, want ErrSelfSend", err)
	}
	if sessions.HasState(1) {
		t.Error("sender should remain idle after rejection")
	}
	if got := ledger.received(t, 1); got != 0 {
		t.Errorf("counter mutated on rejection: %d", got)
	}
}

func TestBeginRejectsUnknownTarget(t *testing.T) {
	wf, _, sessions := newWorkflow(CountBeforeSend)

	if err := wf.Begin(context.Background(), 2, 999); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("Begin unknown target = %v, want ErrUserNotFound", err)
	}
	if sessions.HasState(2) {
		t.Error("sender should remain idle after rejection")
	}
}

func TestBeginQuotaBoundary(t *testing.T) {
	wf, ledger, sessions := newWorkflow(CountBeforeSend)
	ctx := context.Background()
	ledger.EnsureUser(ctx, 1, "alice")
	ledger.users[1].MessagesReceived = 4

	// One below the free limit: accepted.
	if err := wf.Begin(ctx, 2, 1); err != nil {
		t.Fatalf("Begin at limit-1 = %v, want nil", err)
	}
	if !sessions.HasState(2) {
		t.Error("sender should be awaiting message")
	}

	// At the free limit: rejected.
	ledger.users[1].MessagesReceived = 5
	if err := wf.Begin(ctx, 3, 1); !errors.Is(err, domain.ErrQuotaExceeded) {
		t.Fatalf("Begin at limit = %v, want ErrQuotaExceeded", err)
	}
	if sessions.HasState(3) {
		t.Error("rejected sender should remain idle")
	}
}

func TestBeginSubscribedQuota(t *testing.T) {
	wf, ledger, _ := newWorkflow(CountBeforeSend)
	ctx := context.Background()
	ledger.EnsureUser(ctx, 1, "alice")
	ledger.users[1].IsSubscribed = true
	ledger.users[1].MessagesReceived = 29

	if err := wf.Begin(ctx, 2, 1); err != nil {
		t.Fatalf("Begin subscribed at 29 = %v, want nil", err)
	}

	ledger.users[1].MessagesReceived = 30
	if err := wf.Begin(ctx, 3, 1); !errors.Is(err, domain.ErrQuotaExceeded) {
		t.Fatalf("Begin subscribed at 30 = %v, want ErrQuotaExceeded", err)
	}
}

func TestCompleteWithoutPending(t *testing.T) {
	wf, ledger, _ := newWorkflow(CountBeforeSend)
	ctx := context.Background()
	ledger.EnsureUser(ctx, 1, "alice")

	forwarded := false
	_, err := wf.Complete(ctx, 2, func(int64) error {
		forwarded = true
		return nil
	})
	if !errors.Is(err, domain.ErrNoPendingSend) {
		t.Fatalf("Complete without pending = %v, want ErrNoPendingSend", err)
	}
	if forwarded {
		t.Error("forward must not run without a pending send")
	}
	if got := ledger.received(t, 1); got != 0 {
		t.Errorf("counter mutated without pending send: %d", got)
	}
}

func TestCompleteSuccess(t *testing.T) {
	wf, ledger, sessions := newWorkflow(CountBeforeSend)
	ctx := context.Background()
	ledger.EnsureUser(ctx, 1, "alice")

	if err := wf.Begin(ctx, 2, 1); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	var forwardedTo int64
	target, err := wf.Complete(ctx, 2, func(id int64) error {
		forwardedTo = id
		return nil
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if target != 1 || forwardedTo != 1 {
		t.Errorf("forwarded to %d (returned %d), want 1", forwardedTo, target)
	}
	if got := ledger.received(t, 1); got != 1 {
		t.Errorf("received = %d, want 1", got)
	}
	if sessions.HasState(2) {
		t.Error("sender should be idle after completion")
	}

	// The pending send is consumed exactly once.
	if _, err := wf.Complete(ctx, 2, func(int64) error { return nil }); !errors.Is(err, domain.ErrNoPendingSend) {
		t.Fatalf("second Complete = %v, want ErrNoPendingSend", err)
	}
	if got := ledger.received(t, 1); got != 1 {
		t.Errorf("received after replay = %d, want 1", got)
	}
}

func TestCompleteForwardFailureBeforeSend(t *testing.T) {
	wf, ledger, sessions := newWorkflow(CountBeforeSend)
	ctx := context.Background()
	ledger.EnsureUser(ctx, 1, "alice")

	if err := wf.Begin(ctx, 2, 1); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	_, err := wf.Complete(ctx, 2, func(int64) error {
		return fmt.Errorf("blocked by recipient")
	})
	if !errors.Is(err, domain.ErrForwardFailed) {
		t.Fatalf("Complete = %v, want ErrForwardFailed", err)
	}
	// before_send keeps the increment even when the forward fails.
	if got := ledger.received(t, 1); got != 1 {
		t.Errorf("received = %d, want 1 under before_send", got)
	}
	if sessions.HasState(2) {
		t.Error("sender should be idle after failure")
	}
}

func TestCompleteForwardFailureAfterSuccess(t *testing.T) {
	wf, ledger, _ := newWorkflow(CountAfterSuccess)
	ctx := context.Background()
	ledger.EnsureUser(ctx, 1, "alice")

	if err := wf.Begin(ctx, 2, 1); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	_, err := wf.Complete(ctx, 2, func(int64) error {
		return fmt.Errorf("blocked by recipient")
	})
	if !errors.Is(err, domain.ErrForwardFailed) {
		t.Fatalf("Complete = %v, want ErrForwardFailed", err)
	}
	if got := ledger.received(t, 1); got != 0 {
		t.Errorf("received = %d, want 0 under after_success", got)
	}
}

func TestBeginSupersedesPending(t *testing.T) {
	wf, ledger, _ := newWorkflow(CountBeforeSend)
	ctx := context.Background()
	ledger.EnsureUser(ctx, 1, "alice")
	ledger.EnsureUser(ctx, 2, "bob")

	if err := wf.Begin(ctx, 9, 1); err != nil {
		t.Fatalf("first Begin: %v", err)
	}
	if err := wf.Begin(ctx, 9, 2); err != nil {
		t.Fatalf("second Begin: %v", err)
	}

	target, err := wf.Complete(ctx, 9, func(int64) error { return nil })
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if target != 2 {
		t.Errorf("delivered to %d, want the superseding target 2", target)
	}
	if got := ledger.received(t, 1); got != 0 {
		t.Errorf("superseded target incremented: %d", got)
	}
	if got := ledger.received(t, 2); got != 1 {
		t.Errorf("received = %d, want 1", got)
	}
}

func TestEndToEndQuotaScenario(t *testing.T) {
	wf, ledger, _ := newWorkflow(CountBeforeSend)
	ctx := context.Background()

	// User A is one message below the free limit.
	ledger.EnsureUser(ctx, 100, "a")
	ledger.users[100].MessagesReceived = 4

	// User B follows A's link and submits "hello".
	if err := wf.Begin(ctx, 200, 100); err != nil {
		t.Fatalf("B Begin: %v", err)
	}
	var payload string
	if _, err := wf.Complete(ctx, 200, func(int64) error {
		payload = "hello"
		return nil
	}); err != nil {
		t.Fatalf("B Complete: %v", err)
	}
	if payload != "hello" {
		t.Fatalf("forward closure did not run")
	}
	if got := ledger.received(t, 100); got != 5 {
		t.Fatalf("received = %d, want 5", got)
	}

	// User C now hits the limit.
	if err := wf.Begin(ctx, 300, 100); !errors.Is(err, domain.ErrQuotaExceeded) {
		t.Fatalf("C Begin = %v, want ErrQuotaExceeded", err)
	}

	// The external reset reopens the quota.
	users := NewUsers(ledger, domain.DefaultLimits)
	if _, err := users.ResetAllCounters(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if err := wf.Begin(ctx, 300, 100); err != nil {
		t.Fatalf("C Begin after reset = %v, want nil", err)
	}
}
