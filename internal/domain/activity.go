package domain

import (
	"time"

	"github.com/google/uuid"
)

// CheckInPoint is the slice of a check-in the engine reads: where and when.
// Used by the local-time achievement rule to resolve the user's timezone.
type CheckInPoint struct {
	ID        uuid.UUID `json:"id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`
}

// RefTypeForTask maps a mission task to the content type it counts.
var RefTypeForTask = map[MissionTaskType]RefType{
	TaskReviews:   RefReview,
	TaskCheckIns:  RefCheckIn,
	TaskComments:  RefComment,
	TaskReactions: RefReaction,
	TaskHomemades: RefHomemade,
}
