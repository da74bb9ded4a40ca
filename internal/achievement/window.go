package achievement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/phantomapp/rewards/internal/domain"
	"github.com/phantomapp/rewards/internal/repository"
)

// explorerRule is rolling-window: the user must log enough check-ins within
// the trailing window, and at most one badge is granted per window. The
// cooldown measures from the previous explorer grant, not calendar weeks.
type explorerRule struct {
	stats  repository.StatsRepository
	badges repository.AchievementRepository
}

// NewExplorerRule builds the explorer rule over the given stores.
func NewExplorerRule(stats repository.StatsRepository, badges repository.AchievementRepository) Rule {
	return &explorerRule{stats: stats, badges: badges}
}

func (r *explorerRule) Type() domain.AchievementType { return domain.AchievementExplorer }

func (r *explorerRule) TriggeredBy(ref domain.RefType) bool { return ref == domain.RefCheckIn }

func (r *explorerRule) Eligible(ctx context.Context, db repository.DBTX, userID uuid.UUID, now time.Time) (bool, error) {
	window := time.Duration(domain.ExplorerWindowDays) * 24 * time.Hour

	last, err := r.badges.LastOfType(ctx, db, userID, r.Type())
	if err != nil {
		return false, fmt.Errorf("explorer last grant: %w", err)
	}
	if last != nil && now.Sub(*last) < window {
		return false, nil
	}

	since := now.Add(-window)
	checkIns, err := r.stats.CountActions(ctx, db, userID, domain.RefCheckIn, &since)
	if err != nil {
		return false, fmt.Errorf("explorer check-in count: %w", err)
	}
	return checkIns >= domain.ExplorerCheckInThreshold, nil
}
