package domain

import (
	"time"

	"github.com/google/uuid"
)

// CoinRewardType classifies a coin grant.
type CoinRewardType string

const (
	CoinRewardDaily    CoinRewardType = "daily"
	CoinRewardMission  CoinRewardType = "mission"
	CoinRewardReferral CoinRewardType = "referral"
)

// CoinReward is a coin-grant ledger entry. A row with MissionID set doubles
// as the "already claimed this mission" marker; the table enforces one per
// (user, mission) with a partial unique index.
type CoinReward struct {
	ID        uuid.UUID      `json:"id"`
	UserID    uuid.UUID      `json:"user_id"`
	Amount    int64          `json:"amount"`
	Type      CoinRewardType `json:"type"`
	MissionID *uuid.UUID     `json:"mission_id,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
