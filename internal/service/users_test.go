package service

import (
	"context"
	"errors"
	"testing"

	"github.com/m3rciful/whisperbot/internal/domain"
)

func TestRegisterIsIdempotent(t *testing.T) {
	ledger := newFakeLedger()
	users := NewUsers(ledger, domain.DefaultLimits)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := users.Register(ctx, 7, "carol"); err != nil {
			t.Fatalf("Register: %v", err)
		}
	}
	if ledger.inserts != 1 {
		t.Errorf("inserts = %d, want 1", ledger.inserts)
	}

	st, err := users.QuotaState(ctx, 7)
	if err != nil {
		t.Fatalf("QuotaState: %v", err)
	}
	if st.MessagesReceived != 0 || st.IsSubscribed {
		t.Errorf("fresh user state = %+v, want zero counters and no subscription", st)
	}
}

func TestQuotaStateUnknownUser(t *testing.T) {
	users := NewUsers(newFakeLedger(), domain.DefaultLimits)
	if _, err := users.QuotaState(context.Background(), 404); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("QuotaState = %v, want ErrUserNotFound", err)
	}
}

func TestSubscribeRaisesLimit(t *testing.T) {
	ledger := newFakeLedger()
	users := NewUsers(ledger, domain.DefaultLimits)
	ctx := context.Background()

	users.Register(ctx, 7, "carol")
	if err := users.Subscribe(ctx, 7); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	// Second activation is a no-op.
	if err := users.Subscribe(ctx, 7); err != nil {
		t.Fatalf("repeat Subscribe: %v", err)
	}

	st, err := users.QuotaState(ctx, 7)
	if err != nil {
		t.Fatalf("QuotaState: %v", err)
	}
	if !st.IsSubscribed {
		t.Fatal("user should be subscribed")
	}
	if got := users.Limits().For(st.IsSubscribed); got != 30 {
		t.Errorf("effective limit = %d, want 30", got)
	}
}

func TestResetAllCountersKeepsSubscription(t *testing.T) {
	ledger := newFakeLedger()
	users := NewUsers(ledger, domain.DefaultLimits)
	ctx := context.Background()

	users.Register(ctx, 1, "a")
	users.Register(ctx, 2, "b")
	users.Subscribe(ctx, 2)
	ledger.users[1].MessagesReceived = 5
	ledger.users[2].MessagesReceived = 12

	affected, err := users.ResetAllCounters(ctx)
	if err != nil {
		t.Fatalf("ResetAllCounters: %v", err)
	}
	if affected != 2 {
		t.Errorf("affected = %d, want 2", affected)
	}
	for _, id := range []int64{1, 2} {
		st, err := users.QuotaState(ctx, id)
		if err != nil {
			t.Fatalf("QuotaState(%d): %v", id, err)
		}
		if st.MessagesReceived != 0 {
			t.Errorf("user %d counter = %d, want 0", id, st.MessagesReceived)
		}
	}
	st, _ := users.QuotaState(ctx, 2)
	if !st.IsSubscribed {
		t.Error("reset must not touch subscription flags")
	}
}

func TestIncrementReceivedCounts(t *testing.T) {
	ledger := newFakeLedger()
	users := NewUsers(ledger, domain.DefaultLimits)
	ctx := context.Background()

	users.Register(ctx, 5, "dave")
	for i := 0; i < 4; i++ {
		if err := users.IncrementReceived(ctx, 5); err != nil {
			t.Fatalf("IncrementReceived: %v", err)
		}
	}
	st, err := users.QuotaState(ctx, 5)
	if err != nil {
		t.Fatalf("QuotaState: %v", err)
	}
	if st.MessagesReceived != 4 {
		t.Errorf("received = %d, want 4", st.MessagesReceived)
	}

	// Incrementing an absent user is a no-op.
	if err := users.IncrementReceived(ctx, 404); err != nil {
		t.Fatalf("IncrementReceived absent user: %v", err)
	}
	if _, err := users.QuotaState(ctx, 404); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatal("absent user must stay absent")
	}
}
