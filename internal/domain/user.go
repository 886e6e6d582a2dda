package domain

import (
	"errors"
	"time"
)

// User is a single ledger record: one row per Telegram user known to the bot.
type User struct {
	ID               int64     `db:"user_id"`
	Username         string    `db:"username"`
	MessagesReceived int       `db:"messages_received"`
	IsSubscribed     bool      `db:"is_subscribed"`
	JoinedAt         time.Time `db:"joined_at"`
}

// QuotaState is the slice of a user record a delivery decision depends on.
type QuotaState struct {
	MessagesReceived int  `db:"messages_received"`
	IsSubscribed     bool `db:"is_subscribed"`
}

// Limits holds the daily received-message quotas per subscription tier.
type Limits struct {
	Free       int
	Subscribed int
}

// DefaultLimits mirrors the product defaults: 5 messages free, 30 subscribed.
var DefaultLimits = Limits{Free: 5, Subscribed: 30}

// For returns the effective daily limit for the given subscription status.
func (l Limits) For(subscribed bool) int {
	if subscribed {
		return l.Subscribed
	}
	return l.Free
}

// Reached reports whether the quota state has exhausted its daily limit.
func (l Limits) Reached(st QuotaState) bool {
	return st.MessagesReceived >= l.For(st.IsSubscribed)
}

// Validation and delivery sentinels. Handlers map these to user-facing texts;
// anything else is treated as a storage failure.
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrSelfSend      = errors.New("cannot send a message to yourself")
	ErrQuotaExceeded = errors.New("recipient daily limit reached")
	ErrNoPendingSend = errors.New("no pending send for this sender")
	ErrForwardFailed = errors.New("forward to recipient failed")
)
