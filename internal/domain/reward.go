package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RefType identifies the kind of user action a reward is tied to.
type RefType string

const (
	RefReview   RefType = "review"
	RefCheckIn  RefType = "check_in"
	RefComment  RefType = "comment"
	RefReaction RefType = "reaction"
	RefHomemade RefType = "homemade"
)

// RewardReason uniquely identifies the originating action of an XP grant.
// At most one live reward may exist per (user, reason) tuple; the rewards
// table enforces this with a unique index.
type RewardReason struct {
	RefType        RefType    `json:"ref_type"`
	RefID          uuid.UUID  `json:"ref_id"`
	UserActivityID *uuid.UUID `json:"user_activity_id,omitempty"`
	PlaceID        *uuid.UUID `json:"place_id,omitempty"`
}

// Validate checks the reason carries enough to identify the source action.
func (r RewardReason) Validate() error {
	if r.RefType == "" {
		return fmt.Errorf("reward reason requires a ref type")
	}
	if r.RefID == uuid.Nil {
		return fmt.Errorf("reward reason requires a ref id")
	}
	return nil
}

// Reward is an append-only XP ledger entry. Immutable once created; a
// reversal deletes the row and restores the XP it accounted for.
type Reward struct {
	ID        uuid.UUID    `json:"id"`
	UserID    uuid.UUID    `json:"user_id"`
	Amount    int64        `json:"amount"`
	Reason    RewardReason `json:"reason"`
	XPAfter   int64        `json:"xp_after"`
	CreatedAt time.Time    `json:"created_at"`
}

// GrantParams are the inputs to a ledger grant.
type GrantParams struct {
	UserID uuid.UUID
	Amount int64
	Reason RewardReason
}

// ReverseMode controls how a missing ledger entry is reported.
type ReverseMode int

const (
	// ReverseRequired propagates ErrNotFound; the caller's delete aborts.
	ReverseRequired ReverseMode = iota
	// ReverseBestEffort lets the caller log and swallow a missing entry so
	// the primary action still succeeds.
	ReverseBestEffort
)

// GrantResult carries the outcome of a grant.
type GrantResult struct {
	Reward       *Reward
	User         *User
	OldLevel     int
	NewLevel     int
	Achievements []Achievement // level-up badges granted in the same call
}

// ReverseResult carries the outcome of a reversal.
type ReverseResult struct {
	Reversed *Reward
	User     *User
	OldLevel int
	NewLevel int
}

// ValidatePositiveAmount checks that an amount is positive.
func ValidatePositiveAmount(amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive, got %d", amount)
	}
	return nil
}
