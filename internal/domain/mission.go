package domain

import (
	"time"

	"github.com/google/uuid"
)

// MissionTaskType names the resource a mission counts.
type MissionTaskType string

const (
	TaskReviews   MissionTaskType = "reviews"
	TaskCheckIns  MissionTaskType = "check_ins"
	TaskComments  MissionTaskType = "comments"
	TaskReactions MissionTaskType = "reactions"
	TaskHomemades MissionTaskType = "homemades"
)

// Mission is a time-boxed task with a one-time coin reward. Task fields are
// immutable once users may be tracking progress against it.
type Mission struct {
	ID           uuid.UUID       `json:"id"`
	Title        string          `json:"title"`
	TaskType     MissionTaskType `json:"task_type"`
	TaskCount    int             `json:"task_count"`
	RewardAmount int64           `json:"reward_amount"`
	StartsAt     time.Time       `json:"starts_at"`
	ExpiresAt    time.Time       `json:"expires_at"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ActiveAt reports whether the mission is claimable at the given instant.
func (m Mission) ActiveAt(t time.Time) bool {
	return m.Active && !t.Before(m.StartsAt) && t.Before(m.ExpiresAt)
}

// MissionProgress is a user's progress toward a mission task.
type MissionProgress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// Done reports whether the task target has been reached.
func (p MissionProgress) Done() bool { return p.Completed >= p.Total }
