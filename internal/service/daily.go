package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/phantomapp/rewards/internal/domain"
	"github.com/phantomapp/rewards/internal/progression"
	"github.com/phantomapp/rewards/internal/repository"
)

// DailyService handles the daily coin streak claim.
type DailyService struct {
	pool   *pgxpool.Pool
	users  repository.UserRepository
	coins  repository.CoinRewardRepository
	outbox repository.OutboxRepository
	logger *slog.Logger
}

// NewDailyService creates a DailyService.
func NewDailyService(
	pool *pgxpool.Pool,
	users repository.UserRepository,
	coins repository.CoinRewardRepository,
	outbox repository.OutboxRepository,
	logger *slog.Logger,
) *DailyService {
	return &DailyService{pool: pool, users: users, coins: coins, outbox: outbox, logger: logger}
}

// DailyClaimResult is the outcome of a successful daily claim.
type DailyClaimResult struct {
	Amount      int64 `json:"amount"`
	StreakCount int   `json:"streak_count"`
	CoinBalance int64 `json:"coin_balance"`
}

// Claim pays today's streak coin.
func (s *DailyService) Claim(ctx context.Context, userID uuid.UUID, now time.Time) (*DailyClaimResult, error) {
	var result *DailyClaimResult
	err := inTx(ctx, s.pool, func(tx pgx.Tx) error {
		var err error
		result, err = s.claim(ctx, tx, userID, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// claim is the transactional core. Two concurrent claims serialize on the
// user row lock; the loser re-reads a streak already claimed today and fails
// the eligibility check.
func (s *DailyService) claim(ctx context.Context, tx pgx.Tx, userID uuid.UUID, now time.Time) (*DailyClaimResult, error) {
	user, err := s.users.LockForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, fmt.Errorf("daily claim lock user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrNotFound("user", userID.String())
	}

	if !progression.Eligible(user.Streak, now) {
		return nil, domain.ErrValidation("already claimed today, try again tomorrow")
	}

	streak := progression.ApplyReset(user.Streak, now)
	amount := progression.AmountFor(streak.Count)
	newCount := streak.Count + 1
	today := progression.DateUTC(now)

	updated, err := s.users.ApplyProgression(ctx, tx, userID, domain.ProgressionUpdate{
		CoinDelta:   amount,
		StreakCount: &newCount,
		StreakDate:  &today,
	})
	if err != nil {
		return nil, fmt.Errorf("daily claim credit: %w", err)
	}

	if err := s.coins.Insert(ctx, tx, &domain.CoinReward{
		ID:        uuid.New(),
		UserID:    userID,
		Amount:    amount,
		Type:      domain.CoinRewardDaily,
		CreatedAt: now,
	}); err != nil {
		return nil, fmt.Errorf("daily claim coin row: %w", err)
	}

	if err := s.outbox.Insert(ctx, tx, domain.NewDailyClaimedEvent(userID, amount, newCount)); err != nil {
		return nil, fmt.Errorf("daily claim outbox: %w", err)
	}

	s.logger.Info("daily coin claimed",
		"user_id", userID,
		"amount", amount,
		"streak_count", newCount,
	)
	return &DailyClaimResult{
		Amount:      amount,
		StreakCount: newCount,
		CoinBalance: updated.CoinBalance,
	}, nil
}
