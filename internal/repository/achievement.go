package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/phantomapp/rewards/internal/domain"
)

type achievementRepo struct{}

// NewAchievementRepository returns a pgx-backed AchievementRepository.
func NewAchievementRepository() AchievementRepository {
	return &achievementRepo{}
}

func (r *achievementRepo) Insert(ctx context.Context, db DBTX, a *domain.Achievement) error {
	_, err := db.Exec(ctx, `
		INSERT INTO achievements (id, user_id, type, created_at)
		VALUES ($1, $2, $3, $4)`,
		a.ID, a.UserID, string(a.Type), a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert achievement: %w", err)
	}
	return nil
}

func (r *achievementRepo) ListByUser(ctx context.Context, db DBTX, userID uuid.UUID) ([]domain.Achievement, error) {
	rows, err := db.Query(ctx, `
		SELECT id, user_id, type, created_at
		FROM achievements
		WHERE user_id = $1
		ORDER BY created_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query achievements: %w", err)
	}
	defer rows.Close()

	var out []domain.Achievement
	for rows.Next() {
		var a domain.Achievement
		var typ string
		if err := rows.Scan(&a.ID, &a.UserID, &typ, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan achievement row: %w", err)
		}
		a.Type = domain.AchievementType(typ)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *achievementRepo) CountOfType(ctx context.Context, db DBTX, userID uuid.UUID, typ domain.AchievementType) (int, error) {
	var n int
	err := db.QueryRow(ctx, `
		SELECT count(*) FROM achievements
		WHERE user_id = $1 AND type = $2`, userID, string(typ)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count achievements: %w", err)
	}
	return n, nil
}

func (r *achievementRepo) LastOfType(ctx context.Context, db DBTX, userID uuid.UUID, typ domain.AchievementType) (*time.Time, error) {
	var last time.Time
	err := db.QueryRow(ctx, `
		SELECT created_at FROM achievements
		WHERE user_id = $1 AND type = $2
		ORDER BY created_at DESC
		LIMIT 1`, userID, string(typ)).Scan(&last)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("last achievement: %w", err)
	}
	return &last, nil
}
