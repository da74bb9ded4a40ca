package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/phantomapp/rewards/internal/domain"
)

type missionRepo struct{}

// NewMissionRepository returns a pgx-backed MissionRepository.
func NewMissionRepository() MissionRepository {
	return &missionRepo{}
}

const missionColumns = `id, title, task_type, task_count, reward_amount, starts_at, expires_at, active, created_at`

func (r *missionRepo) Create(ctx context.Context, db DBTX, m *domain.Mission) error {
	_, err := db.Exec(ctx, `
		INSERT INTO missions (id, title, task_type, task_count, reward_amount, starts_at, expires_at, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		m.ID, m.Title, string(m.TaskType), m.TaskCount, m.RewardAmount,
		m.StartsAt, m.ExpiresAt, m.Active, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert mission: %w", err)
	}
	return nil
}

func (r *missionRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Mission, error) {
	row := db.QueryRow(ctx, `
		SELECT `+missionColumns+`
		FROM missions WHERE id = $1`, id)
	return scanMission(row)
}

func (r *missionRepo) ListActive(ctx context.Context, db DBTX, at time.Time) ([]domain.Mission, error) {
	rows, err := db.Query(ctx, `
		SELECT `+missionColumns+`
		FROM missions
		WHERE active = true AND starts_at <= $1 AND expires_at > $1
		ORDER BY expires_at ASC`, at)
	if err != nil {
		return nil, fmt.Errorf("query missions: %w", err)
	}
	defer rows.Close()

	var out []domain.Mission
	for rows.Next() {
		var m domain.Mission
		var taskType string
		if err := rows.Scan(&m.ID, &m.Title, &taskType, &m.TaskCount, &m.RewardAmount,
			&m.StartsAt, &m.ExpiresAt, &m.Active, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan mission row: %w", err)
		}
		m.TaskType = domain.MissionTaskType(taskType)
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *missionRepo) Deactivate(ctx context.Context, db DBTX, id uuid.UUID) error {
	tag, err := db.Exec(ctx, `UPDATE missions SET active = false WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate mission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("deactivate mission: no row %s", id)
	}
	return nil
}

func (r *missionRepo) DeactivateExpired(ctx context.Context, db DBTX, at time.Time) (int64, error) {
	tag, err := db.Exec(ctx, `
		UPDATE missions SET active = false
		WHERE active = true AND expires_at <= $1`, at)
	if err != nil {
		return 0, fmt.Errorf("deactivate expired missions: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanMission(row pgx.Row) (*domain.Mission, error) {
	var m domain.Mission
	var taskType string
	err := row.Scan(&m.ID, &m.Title, &taskType, &m.TaskCount, &m.RewardAmount,
		&m.StartsAt, &m.ExpiresAt, &m.Active, &m.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan mission: %w", err)
	}
	m.TaskType = domain.MissionTaskType(taskType)
	return &m, nil
}
