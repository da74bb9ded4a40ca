// Package ledger implements the XP reward ledger: idempotent grants tied to
// user actions and compensating reversals, with level recomputation riding
// the same transaction.
package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/phantomapp/rewards/internal/domain"
	"github.com/phantomapp/rewards/internal/repository"
)

// Engine provides the foundational ledger operations:
//  1. LockUserForUpdate — row-level pessimistic lock
//  2. Grant — ledger entry + XP credit + level recompute + level-up badges
//  3. Reverse — compensating XP debit + entry removal
//
// Grant and Reverse for the same user serialize on the row lock, so a
// reversal can never interleave with the grant it compensates.
type Engine struct {
	users        repository.UserRepository
	rewards      repository.RewardRepository
	achievements repository.AchievementRepository
	outbox       repository.OutboxRepository
	logger       *slog.Logger
}

// NewEngine creates a ledger engine with the given repositories.
func NewEngine(
	users repository.UserRepository,
	rewards repository.RewardRepository,
	achievements repository.AchievementRepository,
	outbox repository.OutboxRepository,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		users:        users,
		rewards:      rewards,
		achievements: achievements,
		outbox:       outbox,
		logger:       logger,
	}
}

// LockUserForUpdate acquires a row-level lock and returns the user.
// Must be called within a transaction.
func (e *Engine) LockUserForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*domain.User, error) {
	user, err := e.users.LockForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, fmt.Errorf("lock user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrNotFound("user", userID.String())
	}
	return user, nil
}
