package domain

import (
	"time"

	"github.com/google/uuid"
)

// AchievementType tags an eligibility rule in the evaluator registry.
type AchievementType string

const (
	// AchievementCritic is one-shot: awarded once at 5 published reviews.
	AchievementCritic AchievementType = "critic"
	// AchievementCrowdPleaser is countable: one badge per 25 reactions
	// received, additional copies as the count crosses each multiple.
	AchievementCrowdPleaser AchievementType = "crowd_pleaser"
	// AchievementExplorer is rolling-window: at most one per 7 days, gated
	// on 5 check-ins within that same window.
	AchievementExplorer AchievementType = "explorer"
	// AchievementNightOwl is local-time: check-in between midnight and 05:00
	// in the timezone of the check-in location, at most once per 12 hours.
	AchievementNightOwl AchievementType = "night_owl"
	// AchievementLevelUp is granted per checkpoint level crossed.
	AchievementLevelUp AchievementType = "level_up"
)

// Achievement is a granted badge row. Countable types may repeat per user;
// one-shot types have at most one row.
type Achievement struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Type      AchievementType `json:"type"`
	CreatedAt time.Time       `json:"created_at"`
}
