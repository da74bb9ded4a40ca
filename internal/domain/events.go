package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

func newDraft(agg AggregateType, aggID string, typ EventType, payload any) OutboxDraft {
	body, _ := json.Marshal(payload)
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: agg,
		AggregateID:   aggID,
		EventType:     typ,
		PartitionKey:  aggID,
		Headers:       json.RawMessage(`{}`),
		Payload:       body,
		OccurredAt:    time.Now(),
	}
}

// NewLevelUpEvent announces a checkpoint crossing to the activity subsystem.
// Fire-and-forget: delivery happens through the outbox, never blocking the
// grant that caused it.
func NewLevelUpEvent(userID uuid.UUID, oldLevel, newLevel int, xp int64) OutboxDraft {
	return newDraft(AggregateProgression, userID.String(), EventLevelUp, map[string]any{
		"user_id":   userID.String(),
		"old_level": oldLevel,
		"new_level": newLevel,
		"xp":        xp,
	})
}

// NewRewardGrantedEvent records an XP grant on the event stream.
func NewRewardGrantedEvent(reward *Reward) OutboxDraft {
	return newDraft(AggregateProgression, reward.UserID.String(), EventRewardGranted, reward)
}

// NewRewardReversedEvent records a compensating reversal.
func NewRewardReversedEvent(reward *Reward) OutboxDraft {
	return newDraft(AggregateProgression, reward.UserID.String(), EventRewardReversed, reward)
}

// NewAchievementGrantedEvent records a badge grant.
func NewAchievementGrantedEvent(a Achievement) OutboxDraft {
	return newDraft(AggregateProgression, a.UserID.String(), EventAchievementGranted, a)
}

// NewDailyClaimedEvent records a daily streak claim.
func NewDailyClaimedEvent(userID uuid.UUID, amount int64, streakCount int) OutboxDraft {
	return newDraft(AggregateProgression, userID.String(), EventDailyClaimed, map[string]any{
		"user_id":      userID.String(),
		"amount":       amount,
		"streak_count": streakCount,
	})
}

// NewMissionClaimedEvent records a mission reward claim.
func NewMissionClaimedEvent(userID, missionID uuid.UUID, amount int64) OutboxDraft {
	return newDraft(AggregateProgression, userID.String(), EventMissionClaimed, map[string]any{
		"user_id":    userID.String(),
		"mission_id": missionID.String(),
		"amount":     amount,
	})
}

// NewRedemptionRequestedEvent notifies the user that verification is in
// progress for a new redemption.
func NewRedemptionRequestedEvent(r *PrizeRedemption, prize *Prize) OutboxDraft {
	return newDraft(AggregateRedemption, r.ID.String(), EventRedemptionRequested, map[string]any{
		"redemption_id": r.ID.String(),
		"user_id":       r.UserID.String(),
		"prize_id":      r.PrizeID.String(),
		"prize_title":   prize.Title,
		"amount":        prize.Amount,
	})
}

// NewRedemptionResolvedEvent announces the terminal state of a redemption.
func NewRedemptionResolvedEvent(r *PrizeRedemption) OutboxDraft {
	payload := map[string]any{
		"redemption_id": r.ID.String(),
		"user_id":       r.UserID.String(),
		"prize_id":      r.PrizeID.String(),
		"status":        string(r.Status),
	}
	if r.Note != nil {
		payload["note"] = *r.Note
	}
	return newDraft(AggregateRedemption, r.ID.String(), EventRedemptionResolved, payload)
}
