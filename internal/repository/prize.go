package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/phantomapp/rewards/internal/domain"
)

type prizeRepo struct{}

// NewPrizeRepository returns a pgx-backed PrizeRepository.
func NewPrizeRepository() PrizeRepository {
	return &prizeRepo{}
}

const prizeColumns = `id, title, amount, count, created_at`

func (r *prizeRepo) Create(ctx context.Context, db DBTX, p *domain.Prize) error {
	_, err := db.Exec(ctx, `
		INSERT INTO prizes (id, title, amount, count, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.Title, p.Amount, p.Count, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert prize: %w", err)
	}
	return nil
}

func (r *prizeRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Prize, error) {
	row := db.QueryRow(ctx, `SELECT `+prizeColumns+` FROM prizes WHERE id = $1`, id)
	return scanPrize(row)
}

func (r *prizeRepo) LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Prize, error) {
	row := tx.QueryRow(ctx, `SELECT `+prizeColumns+` FROM prizes WHERE id = $1 FOR UPDATE`, id)
	return scanPrize(row)
}

func (r *prizeRepo) List(ctx context.Context, db DBTX) ([]domain.Prize, error) {
	rows, err := db.Query(ctx, `SELECT `+prizeColumns+` FROM prizes ORDER BY amount ASC`)
	if err != nil {
		return nil, fmt.Errorf("query prizes: %w", err)
	}
	defer rows.Close()

	var out []domain.Prize
	for rows.Next() {
		var p domain.Prize
		if err := rows.Scan(&p.ID, &p.Title, &p.Amount, &p.Count, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan prize row: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// AdjustStock applies a guarded delta; the count >= 0 CHECK never fires
// because the WHERE clause refuses the update first.
func (r *prizeRepo) AdjustStock(ctx context.Context, tx pgx.Tx, id uuid.UUID, delta int) (*domain.Prize, error) {
	row := tx.QueryRow(ctx, `
		UPDATE prizes SET count = count + $1
		WHERE id = $2 AND count + $1 >= 0
		RETURNING `+prizeColumns, delta, id)
	return scanPrize(row)
}

func scanPrize(row pgx.Row) (*domain.Prize, error) {
	var p domain.Prize
	err := row.Scan(&p.ID, &p.Title, &p.Amount, &p.Count, &p.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan prize: %w", err)
	}
	return &p, nil
}

type redemptionRepo struct{}

// NewRedemptionRepository returns a pgx-backed RedemptionRepository.
func NewRedemptionRepository() RedemptionRepository {
	return &redemptionRepo{}
}

const redemptionColumns = `id, user_id, prize_id, status, note, created_at, resolved_at`

func (r *redemptionRepo) Insert(ctx context.Context, db DBTX, pr *domain.PrizeRedemption) error {
	_, err := db.Exec(ctx, `
		INSERT INTO prize_redemptions (id, user_id, prize_id, status, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		pr.ID, pr.UserID, pr.PrizeID, string(pr.Status), pr.Note, pr.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert redemption: %w", err)
	}
	return nil
}

func (r *redemptionRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.PrizeRedemption, error) {
	row := db.QueryRow(ctx, `SELECT `+redemptionColumns+` FROM prize_redemptions WHERE id = $1`, id)
	return scanRedemption(row)
}

func (r *redemptionRepo) LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.PrizeRedemption, error) {
	row := tx.QueryRow(ctx, `SELECT `+redemptionColumns+` FROM prize_redemptions WHERE id = $1 FOR UPDATE`, id)
	return scanRedemption(row)
}

func (r *redemptionRepo) Resolve(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.RedemptionStatus, note *string, at time.Time) error {
	tag, err := tx.Exec(ctx, `
		UPDATE prize_redemptions SET status = $1, note = $2, resolved_at = $3
		WHERE id = $4 AND status = $5`,
		string(status), note, at, id, string(domain.RedemptionPending))
	if err != nil {
		return fmt.Errorf("resolve redemption: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("resolve redemption: no pending row %s", id)
	}
	return nil
}

func (r *redemptionRepo) ListByUser(ctx context.Context, db DBTX, userID uuid.UUID) ([]domain.PrizeRedemption, error) {
	rows, err := db.Query(ctx, `
		SELECT `+redemptionColumns+`
		FROM prize_redemptions
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query redemptions: %w", err)
	}
	defer rows.Close()
	return collectRedemptions(rows)
}

func (r *redemptionRepo) ListByStatus(ctx context.Context, db DBTX, status domain.RedemptionStatus, limit int) ([]domain.PrizeRedemption, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := db.Query(ctx, `
		SELECT `+redemptionColumns+`
		FROM prize_redemptions
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2`, string(status), limit)
	if err != nil {
		return nil, fmt.Errorf("query redemptions by status: %w", err)
	}
	defer rows.Close()
	return collectRedemptions(rows)
}

func collectRedemptions(rows pgx.Rows) ([]domain.PrizeRedemption, error) {
	var out []domain.PrizeRedemption
	for rows.Next() {
		var pr domain.PrizeRedemption
		var status string
		if err := rows.Scan(&pr.ID, &pr.UserID, &pr.PrizeID, &status, &pr.Note, &pr.CreatedAt, &pr.ResolvedAt); err != nil {
			return nil, fmt.Errorf("scan redemption row: %w", err)
		}
		pr.Status = domain.RedemptionStatus(status)
		out = append(out, pr)
	}
	return out, rows.Err()
}

func scanRedemption(row pgx.Row) (*domain.PrizeRedemption, error) {
	var pr domain.PrizeRedemption
	var status string
	err := row.Scan(&pr.ID, &pr.UserID, &pr.PrizeID, &status, &pr.Note, &pr.CreatedAt, &pr.ResolvedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan redemption: %w", err)
	}
	pr.Status = domain.RedemptionStatus(status)
	return &pr, nil
}
