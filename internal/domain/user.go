package domain

import (
	"time"

	"github.com/google/uuid"
)

// User holds the progression state owned by this engine. Other subsystems
// read it; only the ledger, streak, mission, and prize components mutate it.
type User struct {
	ID          uuid.UUID `json:"id"`
	XP          int64     `json:"xp"`
	Level       int       `json:"level"`
	CoinBalance int64     `json:"coin_balance"`
	Streak      Streak    `json:"streak"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Streak is the consecutive daily-claim state.
type Streak struct {
	Count         int        `json:"count"`
	LastClaimDate *time.Time `json:"last_claim_date,omitempty"` // UTC calendar date
}

// ProgressionUpdate describes an atomic change to a user row. Deltas are
// applied with server-side arithmetic; streak fields are set absolutely.
type ProgressionUpdate struct {
	XPDelta      int64
	Level        *int
	CoinDelta    int64
	StreakCount  *int
	StreakDate   *time.Time
	GuardBalance bool // require coin_balance >= -CoinDelta (debits)
}
