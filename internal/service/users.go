package service

import (
	"context"
	"log/slog"

	"github.com/m3rciful/whisperbot/core/logger"
	"github.com/m3rciful/whisperbot/internal/domain"
)

// Ledger is the persistent per-user record store backing quota and
// subscription state.
type Ledger interface {
	EnsureUser(ctx context.Context, id int64, username string) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	QuotaState(ctx context.Context, id int64) (domain.QuotaState, error)
	IncrementReceived(ctx context.Context, id int64) error
	ActivateSubscription(ctx context.Context, id int64) error
	ResetAllCounters(ctx context.Context) (int64, error)
}

// Users wraps the ledger with quota arithmetic and service logging.
type Users struct {
	repo   Ledger
	limits domain.Limits
}

// NewUsers builds the user service with the configured quota limits.
func NewUsers(repo Ledger, limits domain.Limits) *Users {
	return &Users{repo: repo, limits: limits}
}

// Limits returns the configured quota limits.
func (s *Users) Limits() domain.Limits {
	return s.limits
}

// Register creates the ledger record on first contact. Idempotent.
func (s *Users) Register(ctx context.Context, id int64, username string) error {
	if err := s.repo.EnsureUser(ctx, id, username); err != nil {
		logger.Error(ctx, "service.users", "user.register",
			slog.String("status", "fail"),
			slog.Int64("user_id", id),
			slog.String("err", err.Error()),
		)
		return err
	}
	logger.Debug(ctx, "service.users", "user.register",
		slog.String("status", "ok"),
		slog.Int64("user_id", id),
	)
	return nil
}

// GetUserByTelegramID returns the full ledger record for a Telegram user.
func (s *Users) GetUserByTelegramID(ctx context.Context, tgID int64) (*domain.User, error) {
	return s.repo.GetByID(ctx, tgID)
}

// QuotaState returns the counters for a user, or domain.ErrUserNotFound.
func (s *Users) QuotaState(ctx context.Context, id int64) (domain.QuotaState, error) {
	return s.repo.QuotaState(ctx, id)
}

// IncrementReceived adds one received message to the user's counter.
func (s *Users) IncrementReceived(ctx context.Context, id int64) error {
	if err := s.repo.IncrementReceived(ctx, id); err != nil {
		logger.Error(ctx, "service.users", "received.increment",
			slog.String("status", "fail"),
			slog.Int64("user_id", id),
			slog.String("err", err.Error()),
		)
		return err
	}
	logger.Debug(ctx, "service.users", "received.increment",
		slog.String("status", "ok"),
		slog.Int64("user_id", id),
	)
	return nil
}

// Subscribe activates the user's subscription. Idempotent.
func (s *Users) Subscribe(ctx context.Context, id int64) error {
	if err := s.repo.ActivateSubscription(ctx, id); err != nil {
		logger.Error(ctx, "service.users", "subscription.activate",
			slog.String("status", "fail"),
			slog.Int64("user_id", id),
			slog.String("err", err.Error()),
		)
		return err
	}
	logger.Info(ctx, "service.users", "subscription.activate",
		slog.String("status", "ok"),
		slog.Int64("user_id", id),
		slog.Int("quota", s.limits.Subscribed),
	)
	return nil
}

// ResetAllCounters zeroes every received counter. Meant to be driven by an
// external schedule, not by user interaction.
func (s *Users) ResetAllCounters(ctx context.Context) (int64, error) {
	affected, err := s.repo.ResetAllCounters(ctx)
	if err != nil {
		logger.Error(ctx, "service.users", "counters.reset",
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
		)
		return 0, err
	}
	logger.Info(ctx, "service.users", "counters.reset",
		slog.String("status", "ok"),
		slog.Int64("users_reset", affected),
	)
	return affected, nil
}
