package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/m3rciful/whisperbot/core/logger"
	"github.com/m3rciful/whisperbot/core/telegram/state"
	"github.com/m3rciful/whisperbot/internal/domain"
)

// StateAwaitingMessage marks a sender who followed a valid recipient link and
// is expected to type the anonymous message next.
const StateAwaitingMessage = state.State("awaiting_message")

// tempTargetKey stores the pending recipient id in the sender's session.
const tempTargetKey = "target_user_id"

// CountPolicy decides when a delivery consumes recipient quota.
type CountPolicy string

const (
	// CountBeforeSend increments before the forward attempt; a failed
	// forward still consumes one unit of the recipient's quota.
	CountBeforeSend CountPolicy = "before_send"
	// CountAfterSuccess increments only once the forward succeeded.
	CountAfterSuccess CountPolicy = "after_success"
)

// Delivery runs the anonymous-send workflow: it validates a send attempt
// against the ledger, parks the sender while the message is composed, and
// settles counters when the message is submitted. Pending sends live in the
// in-memory session manager and do not survive a restart.
type Delivery struct {
	users    *Users
	sessions state.Manager
	policy   CountPolicy
}

// NewDelivery wires the workflow. An unknown policy falls back to
// before-send accounting.
func NewDelivery(users *Users, sessions state.Manager, policy CountPolicy) *Delivery {
	if policy != CountAfterSuccess {
		policy = CountBeforeSend
	}
	return &Delivery{users: users, sessions: sessions, policy: policy}
}

// Begin validates a send attempt from sender to target. On success the
// sender transitions to StateAwaitingMessage with the target recorded as the
// pending send; a repeated Begin supersedes any previous pending entry.
// Rejections leave the sender idle and return one of the domain sentinels.
func (s *Delivery) Begin(ctx context.Context, senderID, targetID int64) error {
	if senderID == targetID {
		s.logRejected(ctx, senderID, targetID, "self_send")
		return domain.ErrSelfSend
	}

	st, err := s.users.QuotaState(ctx, targetID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.logRejected(ctx, senderID, targetID, "unknown_target")
			return err
		}
		logger.Error(ctx, "service.delivery", "send.begin",
			slog.String("status", "fail"),
			slog.Int64("sender_id", senderID),
			slog.Int64("target_id", targetID),
			slog.String("err", err.Error()),
		)
		return err
	}

	limits := s.users.Limits()
	if limits.Reached(st) {
		s.logRejected(ctx, senderID, targetID, "quota_exceeded")
		return domain.ErrQuotaExceeded
	}

	s.sessions.SetTemp(senderID, tempTargetKey, targetID)
	s.sessions.SetState(senderID, StateAwaitingMessage)

	logger.Info(ctx, "service.delivery", "send.begin",
		slog.String("status", "ok"),
		slog.Int64("sender_id", senderID),
		slog.Int64("target_id", targetID),
		slog.Int("received", st.MessagesReceived),
		slog.Int("quota", limits.For(st.IsSubscribed)),
	)
	return nil
}

// Pending returns the recipient of the sender's pending send, if any.
func (s *Delivery) Pending(senderID int64) (int64, bool) {
	return s.sessions.GetTempInt64(senderID, tempTargetKey)
}

// Complete consumes the sender's pending send: it settles the recipient's
// counter according to the policy and runs the forward closure. The pending
// entry is cleared on every path. The returned target id is zero only when
// there was no pending send.
func (s *Delivery) Complete(ctx context.Context, senderID int64, forward func(targetID int64) error) (int64, error) {
	targetID, ok := s.Pending(senderID)
	if !ok {
		s.sessions.Clear(senderID)
		logger.Warn(ctx, "service.delivery", "send.complete",
			slog.String("status", "fail"),
			slog.Int64("sender_id", senderID),
			slog.String("err", "no pending send"),
		)
		return 0, domain.ErrNoPendingSend
	}
	defer s.sessions.Clear(senderID)

	if s.policy == CountBeforeSend {
		if err := s.users.IncrementReceived(ctx, targetID); err != nil {
			logger.Error(ctx, "service.delivery", "send.count",
				slog.String("status", "fail"),
				slog.Int64("sender_id", senderID),
				slog.Int64("target_id", targetID),
				slog.String("err", err.Error()),
			)
			return targetID, err
		}
	}

	if err := forward(targetID); err != nil {
		logger.Warn(ctx, "service.delivery", "send.forward",
			slog.String("status", "fail"),
			slog.Int64("sender_id", senderID),
			slog.Int64("target_id", targetID),
			slog.String("policy", string(s.policy)),
			slog.String("err", err.Error()),
		)
		return targetID, fmt.Errorf("%w: %v", domain.ErrForwardFailed, err)
	}

	if s.policy == CountAfterSuccess {
		if err := s.users.IncrementReceived(ctx, targetID); err != nil {
			// The message already reached the recipient; losing the count
			// is preferable to reporting a failure to the sender.
			logger.Error(ctx, "service.delivery", "send.count",
				slog.String("status", "fail"),
				slog.Int64("target_id", targetID),
				slog.String("err", err.Error()),
			)
		}
	}

	logger.Info(ctx, "service.delivery", "send.complete",
		slog.String("status", "ok"),
		slog.Int64("sender_id", senderID),
		slog.Int64("target_id", targetID),
		slog.String("policy", string(s.policy)),
	)
	return targetID, nil
}

func (s *Delivery) logRejected(ctx context.Context, senderID, targetID int64, reason string) {
	logger.Debug(ctx, "service.delivery", "send.rejected",
		slog.String("status", "skip"),
		slog.Int64("sender_id", senderID),
		slog.Int64("target_id", targetID),
		slog.String("reason", reason),
	)
}
