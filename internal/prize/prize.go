// Package prize implements coin redemption: users spend their balance on
// stocked prizes, an admin verifies each request, and declines roll the
// money and the stock back.
package prize

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/phantomapp/rewards/internal/domain"
	"github.com/phantomapp/rewards/internal/repository"
)

// Service implements the redemption lifecycle.
type Service struct {
	prizes      repository.PrizeRepository
	redemptions repository.RedemptionRepository
	users       repository.UserRepository
	outbox      repository.OutboxRepository
	logger      *slog.Logger
}

// NewService creates a prize service.
func NewService(
	prizes repository.PrizeRepository,
	redemptions repository.RedemptionRepository,
	users repository.UserRepository,
	outbox repository.OutboxRepository,
	logger *slog.Logger,
) *Service {
	return &Service{
		prizes:      prizes,
		redemptions: redemptions,
		users:       users,
		outbox:      outbox,
		logger:      logger,
	}
}

// Redeem debits the prize cost, decrements stock, and opens a pending
// redemption for admin review.
//
// Both the balance debit and the stock decrement are guarded conditional
// updates under row locks, so concurrent redeemers of the last unit (or a
// user racing their own balance) resolve to exactly one winner.
func (s *Service) Redeem(ctx context.Context, tx pgx.Tx, userID, prizeID uuid.UUID, now time.Time) (*domain.PrizeRedemption, error) {
	prize, err := s.prizes.LockForUpdate(ctx, tx, prizeID)
	if err != nil {
		return nil, fmt.Errorf("redeem lock prize: %w", err)
	}
	if prize == nil {
		return nil, domain.ErrNotFound("prize", prizeID.String())
	}
	if prize.Count <= 0 {
		return nil, domain.ErrValidation("prize is finished")
	}

	user, err := s.users.LockForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, fmt.Errorf("redeem lock user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrNotFound("user", userID.String())
	}

	debited, err := s.users.ApplyProgression(ctx, tx, userID, domain.ProgressionUpdate{
		CoinDelta:    -prize.Amount,
		GuardBalance: true,
	})
	if err != nil {
		return nil, fmt.Errorf("redeem debit balance: %w", err)
	}
	if debited == nil {
		return nil, domain.ErrInsufficientBalance()
	}

	if _, err := s.prizes.AdjustStock(ctx, tx, prizeID, -1); err != nil {
		return nil, fmt.Errorf("redeem adjust stock: %w", err)
	}

	redemption := &domain.PrizeRedemption{
		ID:        uuid.New(),
		UserID:    userID,
		PrizeID:   prizeID,
		Status:    domain.RedemptionPending,
		CreatedAt: now,
	}
	if err := s.redemptions.Insert(ctx, tx, redemption); err != nil {
		return nil, fmt.Errorf("redeem insert redemption: %w", err)
	}

	if err := s.outbox.Insert(ctx, tx, domain.NewRedemptionRequestedEvent(redemption, prize)); err != nil {
		return nil, fmt.Errorf("redeem outbox: %w", err)
	}

	s.logger.Info("redemption opened",
		"user_id", userID,
		"prize_id", prizeID,
		"amount", prize.Amount,
		"balance_after", debited.CoinBalance,
	)
	return redemption, nil
}

// Review resolves a pending redemption to its terminal state. Declining
// compensates: the coins return to the user and the unit returns to stock.
// A redemption resolves exactly once; re-reviewing is a validation error
// naming the state it already reached.
func (s *Service) Review(ctx context.Context, tx pgx.Tx, redemptionID uuid.UUID, approve bool, note *string, now time.Time) (*domain.PrizeRedemption, error) {
	redemption, err := s.redemptions.LockForUpdate(ctx, tx, redemptionID)
	if err != nil {
		return nil, fmt.Errorf("review lock redemption: %w", err)
	}
	if redemption == nil {
		return nil, domain.ErrNotFound("redemption", redemptionID.String())
	}
	if redemption.Status != domain.RedemptionPending {
		return nil, domain.ErrValidation(fmt.Sprintf("already verified as %s", redemption.Status))
	}

	status := domain.RedemptionSuccessful
	if !approve {
		status = domain.RedemptionDeclined
	}

	if !approve {
		prize, err := s.prizes.LockForUpdate(ctx, tx, redemption.PrizeID)
		if err != nil {
			return nil, fmt.Errorf("review lock prize: %w", err)
		}
		if prize == nil {
			return nil, domain.ErrNotFound("prize", redemption.PrizeID.String())
		}

		user, err := s.users.LockForUpdate(ctx, tx, redemption.UserID)
		if err != nil {
			return nil, fmt.Errorf("review lock user: %w", err)
		}
		if user == nil {
			return nil, domain.ErrNotFound("user", redemption.UserID.String())
		}

		if _, err := s.users.ApplyProgression(ctx, tx, redemption.UserID, domain.ProgressionUpdate{
			CoinDelta: prize.Amount,
		}); err != nil {
			return nil, fmt.Errorf("review refund balance: %w", err)
		}
		if _, err := s.prizes.AdjustStock(ctx, tx, redemption.PrizeID, 1); err != nil {
			return nil, fmt.Errorf("review restore stock: %w", err)
		}
	}

	if err := s.redemptions.Resolve(ctx, tx, redemptionID, status, note, now); err != nil {
		return nil, fmt.Errorf("review resolve: %w", err)
	}
	redemption.Status = status
	redemption.Note = note
	redemption.ResolvedAt = &now

	if err := s.outbox.Insert(ctx, tx, domain.NewRedemptionResolvedEvent(redemption)); err != nil {
		return nil, fmt.Errorf("review outbox: %w", err)
	}

	s.logger.Info("redemption resolved",
		"redemption_id", redemptionID,
		"status", status,
	)
	return redemption, nil
}
