package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/phantomapp/rewards/internal/domain"
)

type coinRewardRepo struct{}

// NewCoinRewardRepository returns a pgx-backed CoinRewardRepository.
func NewCoinRewardRepository() CoinRewardRepository {
	return &coinRewardRepo{}
}

func (r *coinRewardRepo) Insert(ctx context.Context, db DBTX, cr *domain.CoinReward) error {
	_, err := db.Exec(ctx, `
		INSERT INTO coin_rewards (id, user_id, amount, type, mission_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		cr.ID, cr.UserID, cr.Amount, string(cr.Type), cr.MissionID, cr.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert coin reward: %w", mapInsertErr(err))
	}
	return nil
}

func (r *coinRewardRepo) ListByUser(ctx context.Context, db DBTX, userID uuid.UUID, limit int) ([]domain.CoinReward, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := db.Query(ctx, `
		SELECT id, user_id, amount, type, mission_id, created_at
		FROM coin_rewards
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query coin rewards: %w", err)
	}
	defer rows.Close()

	var out []domain.CoinReward
	for rows.Next() {
		var cr domain.CoinReward
		var typ string
		if err := rows.Scan(&cr.ID, &cr.UserID, &cr.Amount, &typ, &cr.MissionID, &cr.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan coin reward row: %w", err)
		}
		cr.Type = domain.CoinRewardType(typ)
		out = append(out, cr)
	}
	return out, rows.Err()
}
