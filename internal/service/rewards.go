package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/phantomapp/rewards/internal/domain"
	"github.com/phantomapp/rewards/internal/mission"
	"github.com/phantomapp/rewards/internal/prize"
	"github.com/phantomapp/rewards/internal/progression"
	"github.com/phantomapp/rewards/internal/repository"
)

// RewardsService serves the read endpoints and wraps the mission and prize
// engines with their transactions.
type RewardsService struct {
	pool         *pgxpool.Pool
	users        repository.UserRepository
	rewards      repository.RewardRepository
	achievements repository.AchievementRepository
	coins        repository.CoinRewardRepository
	prizes       repository.PrizeRepository
	redemptions  repository.RedemptionRepository
	missions     *mission.Service
	prizeEngine  *prize.Service
}

// NewRewardsService creates a RewardsService.
func NewRewardsService(
	pool *pgxpool.Pool,
	users repository.UserRepository,
	rewards repository.RewardRepository,
	achievements repository.AchievementRepository,
	coins repository.CoinRewardRepository,
	prizes repository.PrizeRepository,
	redemptions repository.RedemptionRepository,
	missions *mission.Service,
	prizeEngine *prize.Service,
) *RewardsService {
	return &RewardsService{
		pool:         pool,
		users:        users,
		rewards:      rewards,
		achievements: achievements,
		coins:        coins,
		prizes:       prizes,
		redemptions:  redemptions,
		missions:     missions,
		prizeEngine:  prizeEngine,
	}
}

// ProgressionView is the GET /progression/me response.
type ProgressionView struct {
	XP          int64      `json:"xp"`
	Level       int        `json:"level"`
	RemainingXP int64      `json:"remaining_xp"`
	CoinBalance int64      `json:"coin_balance"`
	StreakCount int        `json:"streak_count"`
	LastClaim   *time.Time `json:"last_claim,omitempty"`
}

// Enroll provisions the progression row for a user the account system just
// created. Idempotent: a second call returns the existing row untouched.
func (s *RewardsService) Enroll(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	now := time.Now()
	user := &domain.User{ID: userID, Level: 1, CreatedAt: now, UpdatedAt: now}
	err := s.users.Create(ctx, s.pool, user)
	if err == nil {
		return user, nil
	}
	if errors.Is(err, repository.ErrDuplicate) {
		return s.users.FindByID(ctx, s.pool, userID)
	}
	return nil, fmt.Errorf("enroll user: %w", err)
}

// Progression returns a user's current progression snapshot.
func (s *RewardsService) Progression(ctx context.Context, userID uuid.UUID) (*ProgressionView, error) {
	user, err := s.users.FindByID(ctx, s.pool, userID)
	if err != nil {
		return nil, fmt.Errorf("progression: %w", err)
	}
	if user == nil {
		return nil, domain.ErrNotFound("user", userID.String())
	}
	return &ProgressionView{
		XP:          user.XP,
		Level:       user.Level,
		RemainingXP: progression.RemainingXP(user.XP),
		CoinBalance: user.CoinBalance,
		StreakCount: user.Streak.Count,
		LastClaim:   user.Streak.LastClaimDate,
	}, nil
}

// RewardHistory returns a page of the user's XP ledger, newest first.
func (s *RewardsService) RewardHistory(ctx context.Context, userID uuid.UUID, cursor *string, limit int) ([]domain.Reward, error) {
	return s.rewards.ListByUser(ctx, s.pool, userID, cursor, limit)
}

// Achievements returns all of a user's badges.
func (s *RewardsService) Achievements(ctx context.Context, userID uuid.UUID) ([]domain.Achievement, error) {
	return s.achievements.ListByUser(ctx, s.pool, userID)
}

// CoinHistory returns the user's recent coin grants.
func (s *RewardsService) CoinHistory(ctx context.Context, userID uuid.UUID, limit int) ([]domain.CoinReward, error) {
	return s.coins.ListByUser(ctx, s.pool, userID, limit)
}

// ActiveMissions returns claimable missions with the user's progress.
func (s *RewardsService) ActiveMissions(ctx context.Context, userID uuid.UUID) ([]mission.MissionWithProgress, error) {
	return s.missions.ListActive(ctx, s.pool, userID, time.Now())
}

// ClaimMission pays a completed mission's reward.
func (s *RewardsService) ClaimMission(ctx context.Context, userID, missionID uuid.UUID) (*domain.CoinReward, error) {
	var reward *domain.CoinReward
	err := inTx(ctx, s.pool, func(tx pgx.Tx) error {
		var err error
		reward, err = s.missions.Claim(ctx, tx, userID, missionID, time.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return reward, nil
}

// Prizes lists redeemable prizes.
func (s *RewardsService) Prizes(ctx context.Context) ([]domain.Prize, error) {
	return s.prizes.List(ctx, s.pool)
}

// Redeem spends coins on a prize and opens a pending redemption.
func (s *RewardsService) Redeem(ctx context.Context, userID, prizeID uuid.UUID) (*domain.PrizeRedemption, error) {
	var redemption *domain.PrizeRedemption
	err := inTx(ctx, s.pool, func(tx pgx.Tx) error {
		var err error
		redemption, err = s.prizeEngine.Redeem(ctx, tx, userID, prizeID, time.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return redemption, nil
}

// Redemptions returns the user's redemption history.
func (s *RewardsService) Redemptions(ctx context.Context, userID uuid.UUID) ([]domain.PrizeRedemption, error) {
	return s.redemptions.ListByUser(ctx, s.pool, userID)
}

// ReviewRedemption resolves a pending redemption (admin).
func (s *RewardsService) ReviewRedemption(ctx context.Context, redemptionID uuid.UUID, approve bool, note *string) (*domain.PrizeRedemption, error) {
	var redemption *domain.PrizeRedemption
	err := inTx(ctx, s.pool, func(tx pgx.Tx) error {
		var err error
		redemption, err = s.prizeEngine.Review(ctx, tx, redemptionID, approve, note, time.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return redemption, nil
}

// PendingRedemptions lists redemptions awaiting review (admin).
func (s *RewardsService) PendingRedemptions(ctx context.Context, limit int) ([]domain.PrizeRedemption, error) {
	return s.redemptions.ListByStatus(ctx, s.pool, domain.RedemptionPending, limit)
}
