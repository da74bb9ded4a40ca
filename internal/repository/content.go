package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phantomapp/rewards/internal/domain"
)

// ContentRepository writes the minimal content rows the action controllers
// own. The full content models live elsewhere in the app; here only the
// columns the reward engine reads back (owner, place, coords, timestamps)
// are populated.
type ContentRepository interface {
	InsertReview(ctx context.Context, db DBTX, id, userID, placeID uuid.UUID, at time.Time) error
	InsertCheckIn(ctx context.Context, db DBTX, id, userID, placeID uuid.UUID, lat, lng float64, at time.Time) error
	InsertComment(ctx context.Context, db DBTX, id, userID, targetUserID uuid.UUID, at time.Time) error
	InsertReaction(ctx context.Context, db DBTX, id, userID, targetUserID uuid.UUID, at time.Time) error
	InsertHomemade(ctx context.Context, db DBTX, id, userID uuid.UUID, at time.Time) error

	// SoftDelete marks a content row deleted, verifying ownership. Returns
	// false when no live row matched.
	SoftDelete(ctx context.Context, db DBTX, ref domain.RefType, id, userID uuid.UUID, at time.Time) (bool, error)
}

type contentRepo struct{}

// NewContentRepository returns a pgx-backed ContentRepository.
func NewContentRepository() ContentRepository {
	return &contentRepo{}
}

func (r *contentRepo) InsertReview(ctx context.Context, db DBTX, id, userID, placeID uuid.UUID, at time.Time) error {
	_, err := db.Exec(ctx, `
		INSERT INTO reviews (id, user_id, place_id, created_at)
		VALUES ($1, $2, $3, $4)`, id, userID, placeID, at)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

func (r *contentRepo) InsertCheckIn(ctx context.Context, db DBTX, id, userID, placeID uuid.UUID, lat, lng float64, at time.Time) error {
	_, err := db.Exec(ctx, `
		INSERT INTO check_ins (id, user_id, place_id, latitude, longitude, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`, id, userID, placeID, lat, lng, at)
	if err != nil {
		return fmt.Errorf("insert check-in: %w", err)
	}
	return nil
}

func (r *contentRepo) InsertComment(ctx context.Context, db DBTX, id, userID, targetUserID uuid.UUID, at time.Time) error {
	_, err := db.Exec(ctx, `
		INSERT INTO comments (id, user_id, target_user_id, created_at)
		VALUES ($1, $2, $3, $4)`, id, userID, targetUserID, at)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (r *contentRepo) InsertReaction(ctx context.Context, db DBTX, id, userID, targetUserID uuid.UUID, at time.Time) error {
	_, err := db.Exec(ctx, `
		INSERT INTO reactions (id, user_id, target_user_id, created_at)
		VALUES ($1, $2, $3, $4)`, id, userID, targetUserID, at)
	if err != nil {
		return fmt.Errorf("insert reaction: %w", err)
	}
	return nil
}

func (r *contentRepo) InsertHomemade(ctx context.Context, db DBTX, id, userID uuid.UUID, at time.Time) error {
	_, err := db.Exec(ctx, `
		INSERT INTO homemade_posts (id, user_id, created_at)
		VALUES ($1, $2, $3)`, id, userID, at)
	if err != nil {
		return fmt.Errorf("insert homemade post: %w", err)
	}
	return nil
}

func (r *contentRepo) SoftDelete(ctx context.Context, db DBTX, ref domain.RefType, id, userID uuid.UUID, at time.Time) (bool, error) {
	table, ok := refTables[ref]
	if !ok {
		return false, fmt.Errorf("unknown content type: %s", ref)
	}
	tag, err := db.Exec(ctx,
		`UPDATE `+table+` SET deleted_at = $1 WHERE id = $2 AND user_id = $3 AND deleted_at IS NULL`,
		at, id, userID)
	if err != nil {
		return false, fmt.Errorf("soft delete %s: %w", table, err)
	}
	return tag.RowsAffected() > 0, nil
}
