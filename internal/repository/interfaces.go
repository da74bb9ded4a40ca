package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phantomapp/rewards/internal/domain"
)

// DBTX abstracts pgx.Tx and pgxpool.Pool so repositories work with both.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// UserRepository provides access to the users progression rows.
type UserRepository interface {
	// FindByID returns a user by ID.
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.User, error)

	// LockForUpdate acquires a row-level lock (SELECT FOR UPDATE). Every
	// XP/coin mutation runs under this lock so grant and reverse for the
	// same user serialize.
	LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.User, error)

	// Create inserts a new user progression row.
	Create(ctx context.Context, db DBTX, user *domain.User) error

	// ApplyProgression atomically applies deltas with server-side
	// arithmetic. With GuardBalance set, the update carries a
	// coin_balance >= debit condition and returns nil when it fails.
	ApplyProgression(ctx context.Context, tx pgx.Tx, userID uuid.UUID, upd domain.ProgressionUpdate) (*domain.User, error)
}

// RewardRepository provides access to the XP ledger.
type RewardRepository interface {
	// Insert creates a ledger entry. A duplicate reason tuple violates the
	// unique index and surfaces as ErrDuplicate.
	Insert(ctx context.Context, db DBTX, reward *domain.Reward) error

	// FindByReason returns the live entry for a reason tuple, or nil.
	FindByReason(ctx context.Context, db DBTX, userID uuid.UUID, reason domain.RewardReason) (*domain.Reward, error)

	// Delete removes a ledger entry (compensating reversal).
	Delete(ctx context.Context, db DBTX, id uuid.UUID) error

	// ListByUser returns entries for a user, newest first, cursor paginated.
	ListByUser(ctx context.Context, db DBTX, userID uuid.UUID, cursor *string, limit int) ([]domain.Reward, error)
}

// AchievementRepository provides access to granted badges.
type AchievementRepository interface {
	Insert(ctx context.Context, db DBTX, a *domain.Achievement) error
	ListByUser(ctx context.Context, db DBTX, userID uuid.UUID) ([]domain.Achievement, error)

	// CountOfType returns how many badges of one type the user holds.
	CountOfType(ctx context.Context, db DBTX, userID uuid.UUID, typ domain.AchievementType) (int, error)

	// LastOfType returns the most recent grant time of a type, or nil.
	LastOfType(ctx context.Context, db DBTX, userID uuid.UUID, typ domain.AchievementType) (*time.Time, error)
}

// CoinRewardRepository provides access to coin grants.
type CoinRewardRepository interface {
	// Insert creates a coin grant. A second row for the same
	// (user, mission) violates the partial unique index → ErrDuplicate.
	Insert(ctx context.Context, db DBTX, cr *domain.CoinReward) error
	ListByUser(ctx context.Context, db DBTX, userID uuid.UUID, limit int) ([]domain.CoinReward, error)
}

// MissionRepository provides access to missions.
type MissionRepository interface {
	Create(ctx context.Context, db DBTX, m *domain.Mission) error
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Mission, error)
	ListActive(ctx context.Context, db DBTX, at time.Time) ([]domain.Mission, error)
	Deactivate(ctx context.Context, db DBTX, id uuid.UUID) error

	// DeactivateExpired flips active=false on missions past expiry and
	// returns how many rows changed. Used by the housekeeping sweep.
	DeactivateExpired(ctx context.Context, db DBTX, at time.Time) (int64, error)
}

// PrizeRepository provides access to prize stock.
type PrizeRepository interface {
	Create(ctx context.Context, db DBTX, p *domain.Prize) error
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Prize, error)
	LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Prize, error)
	List(ctx context.Context, db DBTX) ([]domain.Prize, error)

	// AdjustStock applies a guarded stock delta; returns nil when the guard
	// (count + delta >= 0) fails.
	AdjustStock(ctx context.Context, tx pgx.Tx, id uuid.UUID, delta int) (*domain.Prize, error)
}

// RedemptionRepository provides access to prize redemptions.
type RedemptionRepository interface {
	Insert(ctx context.Context, db DBTX, r *domain.PrizeRedemption) error
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.PrizeRedemption, error)
	LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.PrizeRedemption, error)
	Resolve(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.RedemptionStatus, note *string, at time.Time) error
	ListByUser(ctx context.Context, db DBTX, userID uuid.UUID) ([]domain.PrizeRedemption, error)
	ListByStatus(ctx context.Context, db DBTX, status domain.RedemptionStatus, limit int) ([]domain.PrizeRedemption, error)
}

// StatsRepository reads activity counts from the content stores. The engine
// never writes through it; achievement and mission evaluation are read-only
// consumers of reviews, check-ins, comments and reactions.
type StatsRepository interface {
	// CountActions counts live content rows of one type by a user, or since
	// a lower bound when since is non-nil.
	CountActions(ctx context.Context, db DBTX, userID uuid.UUID, ref domain.RefType, since *time.Time) (int, error)

	// ReactionsReceived counts reactions other users left on this user's
	// content.
	ReactionsReceived(ctx context.Context, db DBTX, userID uuid.UUID) (int, error)

	// LatestCheckIn returns the user's most recent check-in with
	// coordinates, or nil.
	LatestCheckIn(ctx context.Context, db DBTX, userID uuid.UUID) (*domain.CheckInPoint, error)
}

// OutboxRepository provides access to the event_outbox table.
type OutboxRepository interface {
	// Insert writes an outbox event within the caller's transaction.
	Insert(ctx context.Context, db DBTX, draft domain.OutboxDraft) error

	// FetchUnpublished returns pending events in insertion order.
	FetchUnpublished(ctx context.Context, db DBTX, limit int) ([]OutboxRow, error)

	// MarkPublished removes delivered events.
	MarkPublished(ctx context.Context, db DBTX, ids []int64) error
}

// OutboxRow is an outbox event with its sequence ID.
type OutboxRow struct {
	SeqID int64
	domain.OutboxDraft
}
