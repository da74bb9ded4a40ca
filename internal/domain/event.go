package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType enumerates all domain event types.
type EventType string

const (
	EventLevelUp             EventType = "rewards.progression.level_up"
	EventRewardGranted       EventType = "rewards.ledger.granted"
	EventRewardReversed      EventType = "rewards.ledger.reversed"
	EventAchievementGranted  EventType = "rewards.achievement.granted"
	EventDailyClaimed        EventType = "rewards.streak.claimed"
	EventMissionClaimed      EventType = "rewards.mission.claimed"
	EventRedemptionRequested EventType = "rewards.redemption.requested"
	EventRedemptionResolved  EventType = "rewards.redemption.resolved"
)

// AggregateType enumerates the aggregate root types for outbox events.
type AggregateType string

const (
	AggregateProgression AggregateType = "progression"
	AggregateRedemption  AggregateType = "redemption"
)

// OutboxDraft is the payload written to the event_outbox table.
type OutboxDraft struct {
	EventID       uuid.UUID       `json:"eventId"`
	AggregateType AggregateType   `json:"aggregateType"`
	AggregateID   string          `json:"aggregateId"`
	EventType     EventType       `json:"eventType"`
	PartitionKey  string          `json:"partitionKey"`
	Headers       json.RawMessage `json:"headers"`
	Payload       json.RawMessage `json:"payload"`
	OccurredAt    time.Time       `json:"occurredAt"`
}
