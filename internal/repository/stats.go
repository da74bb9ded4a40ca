package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/phantomapp/rewards/internal/domain"
)

type statsRepo struct{}

// NewStatsRepository returns a pgx-backed StatsRepository.
func NewStatsRepository() StatsRepository {
	return &statsRepo{}
}

// refTables maps a content type to its table. Content rows are owned by the
// rest of the app; the engine only ever counts live (not soft-deleted) rows.
var refTables = map[domain.RefType]string{
	domain.RefReview:   "reviews",
	domain.RefCheckIn:  "check_ins",
	domain.RefComment:  "comments",
	domain.RefReaction: "reactions",
	domain.RefHomemade: "homemade_posts",
}

func (r *statsRepo) CountActions(ctx context.Context, db DBTX, userID uuid.UUID, ref domain.RefType, since *time.Time) (int, error) {
	table, ok := refTables[ref]
	if !ok {
		return 0, fmt.Errorf("unknown content type: %s", ref)
	}

	query := `SELECT count(*) FROM ` + table + ` WHERE user_id = $1 AND deleted_at IS NULL`
	args := []interface{}{userID}
	if since != nil {
		query += ` AND created_at >= $2`
		args = append(args, *since)
	}

	var n int
	if err := db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

func (r *statsRepo) ReactionsReceived(ctx context.Context, db DBTX, userID uuid.UUID) (int, error) {
	var n int
	err := db.QueryRow(ctx, `
		SELECT count(*) FROM reactions
		WHERE target_user_id = $1 AND user_id <> $1 AND deleted_at IS NULL`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count reactions received: %w", err)
	}
	return n, nil
}

func (r *statsRepo) LatestCheckIn(ctx context.Context, db DBTX, userID uuid.UUID) (*domain.CheckInPoint, error) {
	var p domain.CheckInPoint
	err := db.QueryRow(ctx, `
		SELECT id, latitude, longitude, created_at
		FROM check_ins
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT 1`, userID).Scan(&p.ID, &p.Latitude, &p.Longitude, &p.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("latest check-in: %w", err)
	}
	return &p, nil
}
