package achievement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/phantomapp/rewards/internal/domain"
	"github.com/phantomapp/rewards/internal/geo"
	"github.com/phantomapp/rewards/internal/repository"
)

// nightOwlRule is local-time: the triggering check-in must fall in the
// night window of the timezone at the check-in location. Wall-clock time
// where the user stands, not server time. A cooldown keeps one long night
// out from minting a badge per bar.
type nightOwlRule struct {
	stats  repository.StatsRepository
	badges repository.AchievementRepository
	zones  geo.Resolver
}

// NewNightOwlRule builds the night-owl rule over the given stores and
// timezone resolver.
func NewNightOwlRule(stats repository.StatsRepository, badges repository.AchievementRepository, zones geo.Resolver) Rule {
	return &nightOwlRule{stats: stats, badges: badges, zones: zones}
}

func (r *nightOwlRule) Type() domain.AchievementType { return domain.AchievementNightOwl }

func (r *nightOwlRule) TriggeredBy(ref domain.RefType) bool { return ref == domain.RefCheckIn }

func (r *nightOwlRule) Eligible(ctx context.Context, db repository.DBTX, userID uuid.UUID, now time.Time) (bool, error) {
	last, err := r.badges.LastOfType(ctx, db, userID, r.Type())
	if err != nil {
		return false, fmt.Errorf("night-owl last grant: %w", err)
	}
	if last != nil && now.Sub(*last) < domain.NightOwlCooldownHours*time.Hour {
		return false, nil
	}

	point, err := r.stats.LatestCheckIn(ctx, db, userID)
	if err != nil {
		return false, fmt.Errorf("night-owl latest check-in: %w", err)
	}
	if point == nil {
		return false, nil
	}

	loc, err := r.zones.Location(point.Latitude, point.Longitude)
	if err != nil {
		return false, fmt.Errorf("night-owl timezone: %w", err)
	}
	hour := point.CreatedAt.In(loc).Hour()
	return hour >= domain.NightOwlStartHour && hour < domain.NightOwlEndHour, nil
}
