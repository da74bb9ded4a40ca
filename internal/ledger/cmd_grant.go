package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/phantomapp/rewards/internal/domain"
	"github.com/phantomapp/rewards/internal/progression"
	"github.com/phantomapp/rewards/internal/repository"
)

// Grant credits XP for a user action and records the ledger entry.
//
// Steps, all within the caller's transaction:
//  1. Lock the user row
//  2. Apply the XP delta and recomputed level with server-side arithmetic
//  3. Insert the ledger entry carrying the post-update XP snapshot; the
//     unique reason index turns a duplicate grant into a Conflict
//  4. Grant one level-up badge per checkpoint crossed
//  5. Write the outbox events (level-up activity is fire-and-forget
//     downstream; it never blocks the triggering action)
func (e *Engine) Grant(ctx context.Context, tx pgx.Tx, params domain.GrantParams) (*domain.GrantResult, error) {
	if err := domain.ValidatePositiveAmount(params.Amount); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	if err := params.Reason.Validate(); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	user, err := e.LockUserForUpdate(ctx, tx, params.UserID)
	if err != nil {
		return nil, fmt.Errorf("grant: %w", err)
	}

	// The row lock makes this snapshot arithmetic race-free.
	oldLevel := user.Level
	newXP := user.XP + params.Amount
	newLevel := progression.LevelFor(newXP)

	upd := domain.ProgressionUpdate{XPDelta: params.Amount}
	if newLevel != oldLevel {
		upd.Level = &newLevel
	}
	updated, err := e.users.ApplyProgression(ctx, tx, params.UserID, upd)
	if err != nil {
		return nil, fmt.Errorf("grant apply xp: %w", err)
	}

	reward := &domain.Reward{
		ID:        uuid.New(),
		UserID:    params.UserID,
		Amount:    params.Amount,
		Reason:    params.Reason,
		XPAfter:   updated.XP,
		CreatedAt: time.Now(),
	}
	if err := e.rewards.Insert(ctx, tx, reward); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, domain.ErrConflict("reward already granted for this action")
		}
		return nil, fmt.Errorf("grant insert entry: %w", err)
	}

	result := &domain.GrantResult{
		Reward:   reward,
		User:     updated,
		OldLevel: oldLevel,
		NewLevel: newLevel,
	}

	for _, checkpoint := range progression.CheckpointsCrossed(oldLevel, newLevel) {
		badge := domain.Achievement{
			ID:        uuid.New(),
			UserID:    params.UserID,
			Type:      domain.AchievementLevelUp,
			CreatedAt: time.Now(),
		}
		if err := e.achievements.Insert(ctx, tx, &badge); err != nil {
			return nil, fmt.Errorf("grant level-up badge (level %d): %w", checkpoint, err)
		}
		result.Achievements = append(result.Achievements, badge)
	}

	if err := e.outbox.Insert(ctx, tx, domain.NewRewardGrantedEvent(reward)); err != nil {
		return nil, fmt.Errorf("grant outbox: %w", err)
	}
	if newLevel > oldLevel {
		if err := e.outbox.Insert(ctx, tx, domain.NewLevelUpEvent(params.UserID, oldLevel, newLevel, updated.XP)); err != nil {
			return nil, fmt.Errorf("grant level-up outbox: %w", err)
		}
	}

	return result, nil
}
