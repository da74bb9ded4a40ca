package achievement

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/phantomapp/rewards/internal/domain"
	"github.com/phantomapp/rewards/internal/geo"
	"github.com/phantomapp/rewards/internal/repository"
)

// Evaluator runs badge rules after an action and persists new grants.
type Evaluator struct {
	rules  []Rule
	badges repository.AchievementRepository
	outbox repository.OutboxRepository
	logger *slog.Logger
}

// NewEvaluator creates an evaluator with the standard rule set.
func NewEvaluator(
	rules []Rule,
	badges repository.AchievementRepository,
	outbox repository.OutboxRepository,
	logger *slog.Logger,
) *Evaluator {
	return &Evaluator{rules: rules, badges: badges, outbox: outbox, logger: logger}
}

// Evaluate checks every rule triggered by the action type and grants the
// badges the user newly qualifies for, within the caller's transaction.
//
// A rule that fails to evaluate is logged and treated as not eligible: the
// action and its XP grant never fail because a badge check broke. Persisting
// an earned badge, however, is part of the transaction and does propagate.
func (e *Evaluator) Evaluate(ctx context.Context, db repository.DBTX, userID uuid.UUID, ref domain.RefType, now time.Time) ([]domain.Achievement, error) {
	var granted []domain.Achievement

	for _, rule := range e.rules {
		if !rule.TriggeredBy(ref) {
			continue
		}

		ok, err := rule.Eligible(ctx, db, userID, now)
		if err != nil {
			e.logger.Error("achievement rule evaluation failed",
				"type", rule.Type(),
				"user_id", userID,
				"error", err,
			)
			continue
		}
		if !ok {
			continue
		}

		badge := domain.Achievement{
			ID:        uuid.New(),
			UserID:    userID,
			Type:      rule.Type(),
			CreatedAt: now,
		}
		if err := e.badges.Insert(ctx, db, &badge); err != nil {
			return nil, fmt.Errorf("insert %s badge: %w", rule.Type(), err)
		}
		if err := e.outbox.Insert(ctx, db, domain.NewAchievementGrantedEvent(badge)); err != nil {
			return nil, fmt.Errorf("badge outbox: %w", err)
		}
		granted = append(granted, badge)
	}

	return granted, nil
}

// StandardRules wires the built-in rule set.
func StandardRules(stats repository.StatsRepository, badges repository.AchievementRepository, zones geo.Resolver) []Rule {
	return []Rule{
		NewCriticRule(stats, badges),
		NewCrowdPleaserRule(stats, badges),
		NewExplorerRule(stats, badges),
		NewNightOwlRule(stats, badges, zones),
	}
}
