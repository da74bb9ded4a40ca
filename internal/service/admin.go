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
	"github.com/phantomapp/rewards/internal/repository"
)

// AdminService handles the back-office mission and prize management.
type AdminService struct {
	pool     *pgxpool.Pool
	missions repository.MissionRepository
	prizes   repository.PrizeRepository
	logger   *slog.Logger
}

// NewAdminService creates an AdminService.
func NewAdminService(pool *pgxpool.Pool, missions repository.MissionRepository, prizes repository.PrizeRepository, logger *slog.Logger) *AdminService {
	return &AdminService{pool: pool, missions: missions, prizes: prizes, logger: logger}
}

// CreateMissionInput holds the mission creation request.
type CreateMissionInput struct {
	Title        string                 `json:"title"`
	TaskType     domain.MissionTaskType `json:"task_type"`
	TaskCount    int                    `json:"task_count"`
	RewardAmount int64                  `json:"reward_amount"`
	StartsAt     time.Time              `json:"starts_at"`
	ExpiresAt    time.Time              `json:"expires_at"`
}

func (in CreateMissionInput) validate() error {
	if in.Title == "" {
		return domain.ErrValidation("title is required")
	}
	if _, ok := domain.RefTypeForTask[in.TaskType]; !ok {
		return domain.ErrValidation(fmt.Sprintf("unknown task type %q", in.TaskType))
	}
	if in.TaskCount <= 0 {
		return domain.ErrValidation("task count must be positive")
	}
	if in.RewardAmount <= 0 {
		return domain.ErrValidation("reward amount must be positive")
	}
	if !in.ExpiresAt.After(in.StartsAt) {
		return domain.ErrValidation("expiry must be after start")
	}
	return nil
}

// CreateMission publishes a new mission. Task fields are immutable after
// creation; fixing a mistake means deactivating and creating a new one.
func (s *AdminService) CreateMission(ctx context.Context, in CreateMissionInput) (*domain.Mission, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	m := &domain.Mission{
		ID:           uuid.New(),
		Title:        in.Title,
		TaskType:     in.TaskType,
		TaskCount:    in.TaskCount,
		RewardAmount: in.RewardAmount,
		StartsAt:     in.StartsAt,
		ExpiresAt:    in.ExpiresAt,
		Active:       true,
		CreatedAt:    time.Now(),
	}
	if err := s.missions.Create(ctx, s.pool, m); err != nil {
		return nil, fmt.Errorf("create mission: %w", err)
	}
	s.logger.Info("mission created", "mission_id", m.ID, "task_type", m.TaskType)
	return m, nil
}

// DeactivateMission pulls a mission from the active list.
func (s *AdminService) DeactivateMission(ctx context.Context, missionID uuid.UUID) error {
	m, err := s.missions.FindByID(ctx, s.pool, missionID)
	if err != nil {
		return fmt.Errorf("deactivate mission: %w", err)
	}
	if m == nil {
		return domain.ErrNotFound("mission", missionID.String())
	}
	if err := s.missions.Deactivate(ctx, s.pool, missionID); err != nil {
		return fmt.Errorf("deactivate mission: %w", err)
	}
	s.logger.Info("mission deactivated", "mission_id", missionID)
	return nil
}

// CreatePrizeInput holds the prize creation request.
type CreatePrizeInput struct {
	Title  string `json:"title"`
	Amount int64  `json:"amount"`
	Count  int    `json:"count"`
}

// CreatePrize adds a prize to the catalog.
func (s *AdminService) CreatePrize(ctx context.Context, in CreatePrizeInput) (*domain.Prize, error) {
	if in.Title == "" {
		return nil, domain.ErrValidation("title is required")
	}
	if in.Amount <= 0 {
		return nil, domain.ErrValidation("amount must be positive")
	}
	if in.Count < 0 {
		return nil, domain.ErrValidation("count must not be negative")
	}
	p := &domain.Prize{
		ID:        uuid.New(),
		Title:     in.Title,
		Amount:    in.Amount,
		Count:     in.Count,
		CreatedAt: time.Now(),
	}
	if err := s.prizes.Create(ctx, s.pool, p); err != nil {
		return nil, fmt.Errorf("create prize: %w", err)
	}
	s.logger.Info("prize created", "prize_id", p.ID, "count", p.Count)
	return p, nil
}

// AdjustPrizeStock applies a stock delta under the prize row lock. The guard
// refuses to push stock negative while redemptions are in flight.
func (s *AdminService) AdjustPrizeStock(ctx context.Context, prizeID uuid.UUID, delta int) (*domain.Prize, error) {
	var updated *domain.Prize
	err := inTx(ctx, s.pool, func(tx pgx.Tx) error {
		p, err := s.prizes.LockForUpdate(ctx, tx, prizeID)
		if err != nil {
			return fmt.Errorf("adjust stock lock: %w", err)
		}
		if p == nil {
			return domain.ErrNotFound("prize", prizeID.String())
		}
		updated, err = s.prizes.AdjustStock(ctx, tx, prizeID, delta)
		if err != nil {
			return fmt.Errorf("adjust stock: %w", err)
		}
		if updated == nil {
			return domain.ErrValidation("stock cannot go negative")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("prize stock adjusted", "prize_id", prizeID, "delta", delta, "count", updated.Count)
	return updated, nil
}
