package achievement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/phantomapp/rewards/internal/domain"
	"github.com/phantomapp/rewards/internal/repository"
)

// crowdPleaserRule is countable: the user earns one badge per threshold
// multiple of reactions received. Eligibility compares badges earned by the
// current count against badges already held, so a burst of reactions still
// settles to the right total as each triggering action re-evaluates.
type crowdPleaserRule struct {
	stats  repository.StatsRepository
	badges repository.AchievementRepository
}

// NewCrowdPleaserRule builds the crowd-pleaser rule over the given stores.
func NewCrowdPleaserRule(stats repository.StatsRepository, badges repository.AchievementRepository) Rule {
	return &crowdPleaserRule{stats: stats, badges: badges}
}

func (r *crowdPleaserRule) Type() domain.AchievementType { return domain.AchievementCrowdPleaser }

func (r *crowdPleaserRule) TriggeredBy(ref domain.RefType) bool { return ref == domain.RefReaction }

func (r *crowdPleaserRule) Eligible(ctx context.Context, db repository.DBTX, userID uuid.UUID, _ time.Time) (bool, error) {
	received, err := r.stats.ReactionsReceived(ctx, db, userID)
	if err != nil {
		return false, fmt.Errorf("crowd-pleaser reactions: %w", err)
	}
	earned := received / domain.CrowdPleaserThreshold
	if earned == 0 {
		return false, nil
	}

	held, err := r.badges.CountOfType(ctx, db, userID, r.Type())
	if err != nil {
		return false, fmt.Errorf("crowd-pleaser held count: %w", err)
	}
	return earned > held, nil
}
