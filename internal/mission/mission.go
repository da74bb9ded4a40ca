// Package mission tracks time-boxed tasks and pays their one-time coin
// rewards.
package mission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/phantomapp/rewards/internal/domain"
	"github.com/phantomapp/rewards/internal/repository"
)

// Service implements mission progress reads and the claim flow.
type Service struct {
	missions repository.MissionRepository
	stats    repository.StatsRepository
	coins    repository.CoinRewardRepository
	users    repository.UserRepository
	outbox   repository.OutboxRepository
	logger   *slog.Logger
}

// NewService creates a mission service.
func NewService(
	missions repository.MissionRepository,
	stats repository.StatsRepository,
	coins repository.CoinRewardRepository,
	users repository.UserRepository,
	outbox repository.OutboxRepository,
	logger *slog.Logger,
) *Service {
	return &Service{
		missions: missions,
		stats:    stats,
		coins:    coins,
		users:    users,
		outbox:   outbox,
		logger:   logger,
	}
}

// ListActive returns claimable missions with the user's progress attached.
func (s *Service) ListActive(ctx context.Context, db repository.DBTX, userID uuid.UUID, now time.Time) ([]MissionWithProgress, error) {
	missions, err := s.missions.ListActive(ctx, db, now)
	if err != nil {
		return nil, fmt.Errorf("list missions: %w", err)
	}

	out := make([]MissionWithProgress, 0, len(missions))
	for _, m := range missions {
		progress, err := s.Progress(ctx, db, userID, m)
		if err != nil {
			return nil, err
		}
		out = append(out, MissionWithProgress{Mission: m, Progress: progress})
	}
	return out, nil
}

// MissionWithProgress pairs a mission with one user's progress toward it.
type MissionWithProgress struct {
	domain.Mission
	Progress domain.MissionProgress `json:"progress"`
}

// Progress counts the user's qualifying actions since the mission window
// opened, capped at the task count.
func (s *Service) Progress(ctx context.Context, db repository.DBTX, userID uuid.UUID, m domain.Mission) (domain.MissionProgress, error) {
	ref, ok := domain.RefTypeForTask[m.TaskType]
	if !ok {
		return domain.MissionProgress{}, fmt.Errorf("mission %s: unknown task type %q", m.ID, m.TaskType)
	}

	since := m.StartsAt
	completed, err := s.stats.CountActions(ctx, db, userID, ref, &since)
	if err != nil {
		return domain.MissionProgress{}, fmt.Errorf("mission progress: %w", err)
	}
	if completed > m.TaskCount {
		completed = m.TaskCount
	}
	return domain.MissionProgress{Completed: completed, Total: m.TaskCount}, nil
}

// Claim pays the mission reward once the task is done.
//
// The coin_rewards row doubles as the claim marker: its partial unique
// index on (user, mission) turns a concurrent double claim into a
// Conflict, whichever transaction commits second.
func (s *Service) Claim(ctx context.Context, tx pgx.Tx, userID, missionID uuid.UUID, now time.Time) (*domain.CoinReward, error) {
	m, err := s.missions.FindByID(ctx, tx, missionID)
	if err != nil {
		return nil, fmt.Errorf("claim find mission: %w", err)
	}
	if m == nil {
		return nil, domain.ErrNotFound("mission", missionID.String())
	}
	if !m.ActiveAt(now) {
		return nil, domain.ErrValidation("mission is not active")
	}

	user, err := s.users.LockForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, fmt.Errorf("claim lock user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrNotFound("user", userID.String())
	}

	progress, err := s.Progress(ctx, tx, userID, *m)
	if err != nil {
		return nil, err
	}
	if !progress.Done() {
		return nil, domain.ErrForbidden("mission requirements not done")
	}

	reward := &domain.CoinReward{
		ID:        uuid.New(),
		UserID:    userID,
		Amount:    m.RewardAmount,
		Type:      domain.CoinRewardMission,
		MissionID: &m.ID,
		CreatedAt: now,
	}
	if err := s.coins.Insert(ctx, tx, reward); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, domain.ErrConflict("mission already rewarded")
		}
		return nil, fmt.Errorf("claim insert coin reward: %w", err)
	}

	if _, err := s.users.ApplyProgression(ctx, tx, userID, domain.ProgressionUpdate{CoinDelta: m.RewardAmount}); err != nil {
		return nil, fmt.Errorf("claim credit balance: %w", err)
	}

	if err := s.outbox.Insert(ctx, tx, domain.NewMissionClaimedEvent(userID, m.ID, m.RewardAmount)); err != nil {
		return nil, fmt.Errorf("claim outbox: %w", err)
	}

	s.logger.Info("mission claimed",
		"user_id", userID,
		"mission_id", m.ID,
		"amount", m.RewardAmount,
	)
	return reward, nil
}
