package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/phantomapp/rewards/internal/achievement"
	"github.com/phantomapp/rewards/internal/domain"
	"github.com/phantomapp/rewards/internal/ledger"
	"github.com/phantomapp/rewards/internal/repository"
)

// ActionService handles XP-bearing user actions: each create writes the
// content row, grants its XP, and evaluates badges in one transaction; each
// delete soft-deletes the row and reverses the grant.
type ActionService struct {
	pool      *pgxpool.Pool
	content   repository.ContentRepository
	engine    *ledger.Engine
	evaluator *achievement.Evaluator
	logger    *slog.Logger
}

// NewActionService creates an ActionService.
func NewActionService(
	pool *pgxpool.Pool,
	content repository.ContentRepository,
	engine *ledger.Engine,
	evaluator *achievement.Evaluator,
	logger *slog.Logger,
) *ActionService {
	return &ActionService{
		pool:      pool,
		content:   content,
		engine:    engine,
		evaluator: evaluator,
		logger:    logger,
	}
}

// ActionResult is the outcome of an XP-bearing create.
type ActionResult struct {
	ContentID    uuid.UUID            `json:"content_id"`
	XPGranted    int64                `json:"xp_granted"`
	XP           int64                `json:"xp"`
	Level        int                  `json:"level"`
	Achievements []domain.Achievement `json:"achievements,omitempty"`
}

// CreateReview records a review and grants its XP.
func (s *ActionService) CreateReview(ctx context.Context, userID, placeID uuid.UUID) (*ActionResult, error) {
	now := time.Now()
	id := uuid.New()
	return s.create(ctx, userID, domain.RefReview, id, &placeID, now, func(tx pgx.Tx) error {
		return s.content.InsertReview(ctx, tx, id, userID, placeID, now)
	})
}

// CreateCheckIn records a check-in with its coordinates and grants its XP.
func (s *ActionService) CreateCheckIn(ctx context.Context, userID, placeID uuid.UUID, lat, lng float64) (*ActionResult, error) {
	now := time.Now()
	id := uuid.New()
	return s.create(ctx, userID, domain.RefCheckIn, id, &placeID, now, func(tx pgx.Tx) error {
		return s.content.InsertCheckIn(ctx, tx, id, userID, placeID, lat, lng, now)
	})
}

// CreateComment records a comment on another user's content.
func (s *ActionService) CreateComment(ctx context.Context, userID, targetUserID uuid.UUID) (*ActionResult, error) {
	now := time.Now()
	id := uuid.New()
	return s.create(ctx, userID, domain.RefComment, id, nil, now, func(tx pgx.Tx) error {
		return s.content.InsertComment(ctx, tx, id, userID, targetUserID, now)
	})
}

// CreateReaction records a reaction. The XP goes to the reacting user; the
// crowd-pleaser evaluation runs for the user who received the reaction.
func (s *ActionService) CreateReaction(ctx context.Context, userID, targetUserID uuid.UUID) (*ActionResult, error) {
	now := time.Now()
	id := uuid.New()

	var result *ActionResult
	err := inTx(ctx, s.pool, func(tx pgx.Tx) error {
		if err := s.content.InsertReaction(ctx, tx, id, userID, targetUserID, now); err != nil {
			return err
		}
		granted, err := s.engine.Grant(ctx, tx, domain.GrantParams{
			UserID: userID,
			Amount: domain.ActionXP[domain.RefReaction],
			Reason: domain.RewardReason{RefType: domain.RefReaction, RefID: id},
		})
		if err != nil {
			return err
		}

		badges, err := s.evaluator.Evaluate(ctx, tx, targetUserID, domain.RefReaction, now)
		if err != nil {
			return err
		}

		result = &ActionResult{
			ContentID:    id,
			XPGranted:    granted.Reward.Amount,
			XP:           granted.User.XP,
			Level:        granted.NewLevel,
			Achievements: append(granted.Achievements, badges...),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CreateHomemade records a homemade post and grants its XP.
func (s *ActionService) CreateHomemade(ctx context.Context, userID uuid.UUID) (*ActionResult, error) {
	now := time.Now()
	id := uuid.New()
	return s.create(ctx, userID, domain.RefHomemade, id, nil, now, func(tx pgx.Tx) error {
		return s.content.InsertHomemade(ctx, tx, id, userID, now)
	})
}

func (s *ActionService) create(ctx context.Context, userID uuid.UUID, ref domain.RefType, contentID uuid.UUID, placeID *uuid.UUID, now time.Time, insert func(tx pgx.Tx) error) (*ActionResult, error) {
	var result *ActionResult
	err := inTx(ctx, s.pool, func(tx pgx.Tx) error {
		if err := insert(tx); err != nil {
			return err
		}
		granted, err := s.engine.Grant(ctx, tx, domain.GrantParams{
			UserID: userID,
			Amount: domain.ActionXP[ref],
			Reason: domain.RewardReason{RefType: ref, RefID: contentID, PlaceID: placeID},
		})
		if err != nil {
			return err
		}

		badges, err := s.evaluator.Evaluate(ctx, tx, userID, ref, now)
		if err != nil {
			return err
		}

		result = &ActionResult{
			ContentID:    contentID,
			XPGranted:    granted.Reward.Amount,
			XP:           granted.User.XP,
			Level:        granted.NewLevel,
			Achievements: append(granted.Achievements, badges...),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// reverseModeFor maps each content type to its reversal strictness. Homemade
// posts tolerate a missing ledger entry (they predate the reward rollout);
// everything else aborts the delete when the entry is gone.
func reverseModeFor(ref domain.RefType) domain.ReverseMode {
	if ref == domain.RefHomemade {
		return domain.ReverseBestEffort
	}
	return domain.ReverseRequired
}

// Delete soft-deletes an owned content row and reverses its XP grant.
func (s *ActionService) Delete(ctx context.Context, userID uuid.UUID, ref domain.RefType, contentID uuid.UUID) error {
	now := time.Now()
	return inTx(ctx, s.pool, func(tx pgx.Tx) error {
		deleted, err := s.content.SoftDelete(ctx, tx, ref, contentID, userID, now)
		if err != nil {
			return err
		}
		if !deleted {
			return domain.ErrNotFound(string(ref), contentID.String())
		}

		reason := domain.RewardReason{RefType: ref, RefID: contentID}
		if _, err := s.engine.Reverse(ctx, tx, userID, reason, reverseModeFor(ref)); err != nil {
			return fmt.Errorf("delete %s: %w", ref, err)
		}
		return nil
	})
}
