package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/phantomapp/rewards/internal/domain"
)

type rewardRepo struct{}

// NewRewardRepository returns a pgx-backed RewardRepository.
func NewRewardRepository() RewardRepository {
	return &rewardRepo{}
}

const rewardColumns = `id, user_id, amount, ref_type, ref_id, user_activity_id, place_id, xp_after, created_at`

func (r *rewardRepo) Insert(ctx context.Context, db DBTX, reward *domain.Reward) error {
	_, err := db.Exec(ctx, `
		INSERT INTO rewards (id, user_id, amount, ref_type, ref_id, user_activity_id, place_id, xp_after, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		reward.ID, reward.UserID, reward.Amount,
		string(reward.Reason.RefType), reward.Reason.RefID,
		reward.Reason.UserActivityID, reward.Reason.PlaceID,
		reward.XPAfter, reward.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert reward: %w", mapInsertErr(err))
	}
	return nil
}

// FindByReason matches on the identifying subset of the reason tuple; the
// optional user_activity_id disambiguates repeatable actions like reactions.
func (r *rewardRepo) FindByReason(ctx context.Context, db DBTX, userID uuid.UUID, reason domain.RewardReason) (*domain.Reward, error) {
	row := db.QueryRow(ctx, `
		SELECT `+rewardColumns+`
		FROM rewards
		WHERE user_id = $1 AND ref_type = $2 AND ref_id = $3
		  AND user_activity_id IS NOT DISTINCT FROM $4`,
		userID, string(reason.RefType), reason.RefID, reason.UserActivityID)
	return scanReward(row)
}

func (r *rewardRepo) Delete(ctx context.Context, db DBTX, id uuid.UUID) error {
	tag, err := db.Exec(ctx, `DELETE FROM rewards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete reward: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete reward: no row %s", id)
	}
	return nil
}

func (r *rewardRepo) ListByUser(ctx context.Context, db DBTX, userID uuid.UUID, cursor *string, limit int) ([]domain.Reward, error) {
	// Callers fetch one row past the page to detect the next cursor, so the
	// hard cap is the max page size plus that extra row.
	if limit <= 0 {
		limit = 20
	}
	if limit > 101 {
		limit = 101
	}

	var rows pgx.Rows
	var err error
	if cursor != nil {
		rows, err = db.Query(ctx, `
			SELECT `+rewardColumns+`
			FROM rewards
			WHERE user_id = $1
			  AND (created_at, id) <= ((SELECT created_at, id FROM rewards WHERE id = $2))
			ORDER BY created_at DESC, id DESC
			LIMIT $3`, userID, *cursor, limit)
	} else {
		rows, err = db.Query(ctx, `
			SELECT `+rewardColumns+`
			FROM rewards
			WHERE user_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2`, userID, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("query rewards: %w", err)
	}
	defer rows.Close()

	var rewards []domain.Reward
	for rows.Next() {
		var rw domain.Reward
		var refType string
		if err := rows.Scan(&rw.ID, &rw.UserID, &rw.Amount, &refType, &rw.Reason.RefID,
			&rw.Reason.UserActivityID, &rw.Reason.PlaceID, &rw.XPAfter, &rw.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan reward row: %w", err)
		}
		rw.Reason.RefType = domain.RefType(refType)
		rewards = append(rewards, rw)
	}
	return rewards, rows.Err()
}

func scanReward(row pgx.Row) (*domain.Reward, error) {
	var rw domain.Reward
	var refType string
	err := row.Scan(&rw.ID, &rw.UserID, &rw.Amount, &refType, &rw.Reason.RefID,
		&rw.Reason.UserActivityID, &rw.Reason.PlaceID, &rw.XPAfter, &rw.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan reward: %w", err)
	}
	rw.Reason.RefType = domain.RefType(refType)
	return &rw, nil
}
