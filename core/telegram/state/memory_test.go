package state

import "testing"

func TestMemoryManagerStates(t *testing.T) {
	mgr := NewMemoryManager()

	if mgr.HasState(1) {
		t.Error("fresh user should have no active state")
	}
	if got := mgr.GetState(1); got != StateIdle {
		t.Errorf("GetState = %q, want idle", got)
	}

	mgr.SetState(1, State("awaiting_message"))
	if !mgr.InProgress(1) {
		t.Error("user should be in progress after SetState")
	}
	if mgr.InProgress(2) {
		t.Error("state must not leak to other users")
	}

	mgr.ClearState(1)
	if mgr.InProgress(1) {
		t.Error("ClearState should return the user to idle")
	}
}

func TestMemoryManagerTempData(t *testing.T) {
	mgr := NewMemoryManager()

	if _, ok := mgr.GetTempInt64(1, "target_user_id"); ok {
		t.Error("no temp value expected for a fresh user")
	}

	mgr.SetTemp(1, "target_user_id", int64(42))
	got, ok := mgr.GetTempInt64(1, "target_user_id")
	if !ok || got != 42 {
		t.Fatalf("GetTempInt64 = (%d, %v), want (42, true)", got, ok)
	}

	// Overwrite supersedes the previous value.
	mgr.SetTemp(1, "target_user_id", int64(99))
	if got, _ := mgr.GetTempInt64(1, "target_user_id"); got != 99 {
		t.Errorf("superseded temp = %d, want 99", got)
	}

	// Non-int64 values do not satisfy the typed getter.
	mgr.SetTemp(1, "note", "hello")
	if _, ok := mgr.GetTempInt64(1, "note"); ok {
		t.Error("GetTempInt64 should reject non-int64 values")
	}

	mgr.Clear(1)
	if _, ok := mgr.GetTemp(1, "target_user_id"); ok {
		t.Error("Clear should drop the whole session")
	}
	if mgr.InProgress(1) {
		t.Error("cleared user should be idle")
	}
}
