package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/phantomapp/rewards/internal/domain"
	"github.com/phantomapp/rewards/internal/progression"
)

// Reverse undoes the XP effect of a previous grant: debits the amount,
// recomputes the level, and deletes the ledger entry.
//
// A missing entry is an error, not a no-op. With ReverseRequired it
// propagates (the caller's delete aborts); with ReverseBestEffort it is
// logged and swallowed, returning (nil, nil) so the primary action still
// succeeds — an accepted consistency gap, flagged in the logs rather than
// hidden.
//
// Achievements granted as a side effect of the original grant are never
// retracted: the badge ratchet is one-way even when its XP is reversed.
func (e *Engine) Reverse(ctx context.Context, tx pgx.Tx, userID uuid.UUID, reason domain.RewardReason, mode domain.ReverseMode) (*domain.ReverseResult, error) {
	if err := reason.Validate(); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	user, err := e.LockUserForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, fmt.Errorf("reverse: %w", err)
	}

	reward, err := e.rewards.FindByReason(ctx, tx, userID, reason)
	if err != nil {
		return nil, fmt.Errorf("reverse find entry: %w", err)
	}
	if reward == nil {
		if mode == domain.ReverseBestEffort {
			e.logger.Warn("best-effort reversal found no ledger entry",
				"user_id", userID,
				"ref_type", reason.RefType,
				"ref_id", reason.RefID,
			)
			return nil, nil
		}
		return nil, domain.ErrNotFound("reward for "+string(reason.RefType), reason.RefID.String())
	}

	oldLevel := user.Level
	newXP := user.XP - reward.Amount
	newLevel := progression.LevelFor(newXP)

	upd := domain.ProgressionUpdate{XPDelta: -reward.Amount}
	if newLevel != oldLevel {
		upd.Level = &newLevel
	}
	updated, err := e.users.ApplyProgression(ctx, tx, userID, upd)
	if err != nil {
		return nil, fmt.Errorf("reverse apply xp: %w", err)
	}

	if err := e.rewards.Delete(ctx, tx, reward.ID); err != nil {
		return nil, fmt.Errorf("reverse delete entry: %w", err)
	}

	if err := e.outbox.Insert(ctx, tx, domain.NewRewardReversedEvent(reward)); err != nil {
		return nil, fmt.Errorf("reverse outbox: %w", err)
	}

	return &domain.ReverseResult{
		Reversed: reward,
		User:     updated,
		OldLevel: oldLevel,
		NewLevel: newLevel,
	}, nil
}
