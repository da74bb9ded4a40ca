package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/phantomapp/rewards/internal/domain"
)

type userRepo struct{}

// NewUserRepository returns a pgx-backed UserRepository.
func NewUserRepository() UserRepository {
	return &userRepo{}
}

const userColumns = `id, xp, level, coin_balance, streak_count, streak_last_claim, created_at, updated_at`

func (r *userRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.User, error) {
	row := db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *userRepo) LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.User, error) {
	row := tx.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users WHERE id = $1 FOR UPDATE`, id)
	return scanUser(row)
}

func (r *userRepo) Create(ctx context.Context, db DBTX, user *domain.User) error {
	_, err := db.Exec(ctx, `
		INSERT INTO users (id, xp, level, coin_balance, streak_count, streak_last_claim, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		user.ID, user.XP, user.Level, user.CoinBalance,
		user.Streak.Count, user.Streak.LastClaimDate,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", mapInsertErr(err))
	}
	return nil
}

// ApplyProgression uses server-side arithmetic with dynamic SET clauses so
// the mutation is a single conditional UPDATE, never read-modify-write.
func (r *userRepo) ApplyProgression(ctx context.Context, tx pgx.Tx, userID uuid.UUID, upd domain.ProgressionUpdate) (*domain.User, error) {
	setClauses := []string{"updated_at = now()"}
	args := []interface{}{}
	argIdx := 1

	if upd.XPDelta != 0 {
		setClauses = append(setClauses, fmt.Sprintf("xp = xp + $%d", argIdx))
		args = append(args, upd.XPDelta)
		argIdx++
	}
	if upd.Level != nil {
		setClauses = append(setClauses, fmt.Sprintf("level = $%d", argIdx))
		args = append(args, *upd.Level)
		argIdx++
	}
	if upd.CoinDelta != 0 {
		setClauses = append(setClauses, fmt.Sprintf("coin_balance = coin_balance + $%d", argIdx))
		args = append(args, upd.CoinDelta)
		argIdx++
	}
	if upd.StreakCount != nil {
		setClauses = append(setClauses, fmt.Sprintf("streak_count = $%d", argIdx))
		args = append(args, *upd.StreakCount)
		argIdx++
	}
	if upd.StreakDate != nil {
		setClauses = append(setClauses, fmt.Sprintf("streak_last_claim = $%d", argIdx))
		args = append(args, *upd.StreakDate)
		argIdx++
	}

	where := fmt.Sprintf("id = $%d", argIdx)
	args = append(args, userID)
	argIdx++

	if upd.GuardBalance && upd.CoinDelta < 0 {
		where += fmt.Sprintf(" AND coin_balance >= $%d", argIdx)
		args = append(args, -upd.CoinDelta)
	}

	query := fmt.Sprintf(`
		UPDATE users SET %s
		WHERE %s
		RETURNING `+userColumns,
		strings.Join(setClauses, ", "), where)

	row := tx.QueryRow(ctx, query, args...)
	return scanUser(row)
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.XP, &u.Level, &u.CoinBalance,
		&u.Streak.Count, &u.Streak.LastClaimDate, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}
