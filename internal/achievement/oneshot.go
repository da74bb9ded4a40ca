package achievement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/phantomapp/rewards/internal/domain"
	"github.com/phantomapp/rewards/internal/repository"
)

// criticRule is one-shot: awarded the first time the user's published
// review count reaches the threshold, never again.
type criticRule struct {
	stats  repository.StatsRepository
	badges repository.AchievementRepository
}

// NewCriticRule builds the critic rule over the given stores.
func NewCriticRule(stats repository.StatsRepository, badges repository.AchievementRepository) Rule {
	return &criticRule{stats: stats, badges: badges}
}

func (r *criticRule) Type() domain.AchievementType { return domain.AchievementCritic }

func (r *criticRule) TriggeredBy(ref domain.RefType) bool { return ref == domain.RefReview }

func (r *criticRule) Eligible(ctx context.Context, db repository.DBTX, userID uuid.UUID, _ time.Time) (bool, error) {
	held, err := r.badges.CountOfType(ctx, db, userID, r.Type())
	if err != nil {
		return false, fmt.Errorf("critic held count: %w", err)
	}
	if held > 0 {
		return false, nil
	}

	reviews, err := r.stats.CountActions(ctx, db, userID, domain.RefReview, nil)
	if err != nil {
		return false, fmt.Errorf("critic review count: %w", err)
	}
	return reviews >= domain.CriticReviewThreshold, nil
}
