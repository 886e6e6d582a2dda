package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/whisperbot/internal/domain"
)

// UserRepository persists ledger records in the users table.
// Every operation is a single-row (or single-statement) atomic query; the
// quota check and the increment are intentionally not wrapped in one
// transaction, see the delivery workflow.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository wires a repository over an open sqlx connection.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// EnsureUser inserts a fresh record for the user unless one already exists.
func (r *UserRepository) EnsureUser(ctx context.Context, id int64, username string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (user_id, username) VALUES ($1, $2)
		 ON CONFLICT (user_id) DO NOTHING`,
		id, username,
	)
	if err != nil {
		return fmt.Errorf("ensure user %d: %w", id, err)
	}
	return nil
}

// GetByID returns the full ledger record for a user.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user,
		`SELECT user_id, username, messages_received, is_subscribed, joined_at
		 FROM users WHERE user_id = $1`,
		id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return &user, nil
}

// QuotaState returns the counters a delivery decision needs.
func (r *UserRepository) QuotaState(ctx context.Context, id int64) (domain.QuotaState, error) {
	var st domain.QuotaState
	err := r.db.GetContext(ctx, &st,
		`SELECT messages_received, is_subscribed FROM users WHERE user_id = $1`,
		id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return st, domain.ErrUserNotFound
	}
	if err != nil {
		return st, fmt.Errorf("quota state %d: %w", id, err)
	}
	return st, nil
}

// IncrementReceived atomically adds one to the user's received counter.
// A missing user makes this a no-op.
func (r *UserRepository) IncrementReceived(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET messages_received = messages_received + 1 WHERE user_id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("increment received %d: %w", id, err)
	}
	return nil
}

// ActivateSubscription marks the user as subscribed. Idempotent.
func (r *UserRepository) ActivateSubscription(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET is_subscribed = TRUE WHERE user_id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("activate subscription %d: %w", id, err)
	}
	return nil
}

// ResetAllCounters zeroes every user's received counter and reports how many
// rows were touched. Subscription flags are left untouched.
func (r *UserRepository) ResetAllCounters(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET messages_received = 0`)
	if err != nil {
		return 0, fmt.Errorf("reset counters: %w", err)
	}
	affected, _ := res.RowsAffected()
	return affected, nil
}
