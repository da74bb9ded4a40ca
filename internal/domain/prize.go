package domain

import (
	"time"

	"github.com/google/uuid"
)

// Prize is a redeemable reward with finite stock. Count is decremented on
// redemption and restored when an admin declines.
type Prize struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Amount    int64     `json:"amount"` // coin cost
	Count     int       `json:"count"`  // remaining stock
	CreatedAt time.Time `json:"created_at"`
}

// RedemptionStatus is the prize redemption state machine. Pending is the
// only state a transition is allowed from; declined and successful are
// terminal.
type RedemptionStatus string

const (
	RedemptionPending    RedemptionStatus = "pending"
	RedemptionDeclined   RedemptionStatus = "declined"
	RedemptionSuccessful RedemptionStatus = "successful"
)

// PrizeRedemption is one coins-for-prize exchange awaiting verification.
type PrizeRedemption struct {
	ID         uuid.UUID        `json:"id"`
	UserID     uuid.UUID        `json:"user_id"`
	PrizeID    uuid.UUID        `json:"prize_id"`
	Status     RedemptionStatus `json:"status"`
	Note       *string          `json:"note,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	ResolvedAt *time.Time       `json:"resolved_at,omitempty"`
}
