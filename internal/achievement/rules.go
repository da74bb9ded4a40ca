// Package achievement evaluates badge eligibility after user actions.
//
// Each badge family is a Rule keyed by the action types that can trigger
// it. The evaluator runs the matching rules after an action commits its XP
// grant and persists any newly earned badges in the same transaction.
package achievement

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/phantomapp/rewards/internal/domain"
	"github.com/phantomapp/rewards/internal/repository"
)

// Rule is a single badge eligibility check.
type Rule interface {
	// Type identifies the badge this rule grants.
	Type() domain.AchievementType

	// TriggeredBy reports whether an action of the given type can earn
	// this badge. The evaluator skips rules whose trigger doesn't match.
	TriggeredBy(ref domain.RefType) bool

	// Eligible decides whether the user has earned a new copy of the badge
	// right now. Implementations read activity stats and prior grants; they
	// never write.
	Eligible(ctx context.Context, db repository.DBTX, userID uuid.UUID, now time.Time) (bool, error)
}
