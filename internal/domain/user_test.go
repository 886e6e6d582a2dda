package domain

import "testing"

func TestLimitsFor(t *testing.T) {
	if got := DefaultLimits.For(false); got != 5 {
		t.Errorf("free limit = %d, want 5", got)
	}
	if got := DefaultLimits.For(true); got != 30 {
		t.Errorf("subscribed limit = %d, want 30", got)
	}

	custom := Limits{Free: 3, Subscribed: 100}
	if got := custom.For(false); got != 3 {
		t.Errorf("custom free limit = %d, want 3", got)
	}
	if got := custom.For(true); got != 100 {
		t.Errorf("custom subscribed limit = %d, want 100", got)
	}
}

func TestLimitsReached(t *testing.T) {
	cases := []struct {
		name string
		st   QuotaState
		want bool
	}{
		{"fresh free user", QuotaState{MessagesReceived: 0}, false},
		{"free one below limit", QuotaState{MessagesReceived: 4}, false},
		{"free at limit", QuotaState{MessagesReceived: 5}, true},
		{"free over limit", QuotaState{MessagesReceived: 7}, true},
		{"subscribed at free limit", QuotaState{MessagesReceived: 5, IsSubscribed: true}, false},
		{"subscribed one below limit", QuotaState{MessagesReceived: 29, IsSubscribed: true}, false},
		{"subscribed at limit", QuotaState{MessagesReceived: 30, IsSubscribed: true}, true},
	}
	for _, tc := range cases {
		if got := DefaultLimits.Reached(tc.st); got != tc.want {
			t.Errorf("%s: Reached = %v, want %v", tc.name, got, tc.want)
		}
	}
}
