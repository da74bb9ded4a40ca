package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/phantomapp/rewards/internal/domain"
	"github.com/phantomapp/rewards/internal/infra"
	"github.com/phantomapp/rewards/internal/notify"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("outbox consumer failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := infra.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if !cfg.KafkaEnabled {
		return fmt.Errorf("KAFKA_ENABLED must be true for the outbox consumer")
	}

	consumer, err := infra.NewKafkaConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, "reward-notifier", true, logger)
	if err != nil {
		return fmt.Errorf("create consumer: %w", err)
	}
	defer consumer.Close()

	dispatcher := notify.NewLogDispatcher(logger)
	logger.Info("outbox-consumer starting", "topic", cfg.KafkaTopic)

	for {
		msg, err := consumer.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				logger.Info("outbox-consumer shutting down")
				return nil
			}
			logger.Error("read message", "error", err)
			continue
		}

		var draft domain.OutboxDraft
		if err := json.Unmarshal(msg.Value, &draft); err != nil {
			logger.Error("malformed event", "offset", msg.Offset, "error", err)
			continue
		}

		n, ok := notificationFor(draft)
		if !ok {
			continue
		}
		if err := dispatcher.Dispatch(ctx, n); err != nil {
			logger.Error("dispatch notification",
				"event_id", draft.EventID, "event_type", draft.EventType, "error", err)
		}
	}
}

// eventBody covers the payload fields shared across event types. Payloads
// are produced in-house, so unknown fields simply stay zero.
type eventBody struct {
	UserID      string `json:"user_id"`
	OldLevel    int    `json:"old_level"`
	NewLevel    int    `json:"new_level"`
	Type        string `json:"type"`
	Amount      int64  `json:"amount"`
	StreakCount int    `json:"streak_count"`
	PrizeTitle  string `json:"prize_title"`
	Status      string `json:"status"`
}

// notificationFor maps a reward event to the user-facing notification it
// should produce. Ledger grant/reversal events are bookkeeping and produce
// none.
func notificationFor(draft domain.OutboxDraft) (notify.Notification, bool) {
	var body eventBody
	if err := json.Unmarshal(draft.Payload, &body); err != nil {
		return notify.Notification{}, false
	}
	userID, err := uuid.Parse(body.UserID)
	if err != nil {
		return notify.Notification{}, false
	}

	switch draft.EventType {
	case domain.EventLevelUp:
		return notify.Notification{
			UserID:  userID,
			Kind:    "level_up",
			Title:   "Level up!",
			Message: fmt.Sprintf("You reached level %d.", body.NewLevel),
		}, true
	case domain.EventAchievementGranted:
		return notify.Notification{
			UserID:  userID,
			Kind:    "achievement",
			Title:   "Achievement unlocked",
			Message: fmt.Sprintf("You earned the %s badge.", body.Type),
		}, true
	case domain.EventDailyClaimed:
		return notify.Notification{
			UserID:  userID,
			Kind:    "daily_claim",
			Title:   "Daily reward claimed",
			Message: fmt.Sprintf("You collected %d coins. Streak: %d days.", body.Amount, body.StreakCount),
		}, true
	case domain.EventMissionClaimed:
		return notify.Notification{
			UserID:  userID,
			Kind:    "mission",
			Title:   "Mission complete",
			Message: fmt.Sprintf("Mission reward of %d coins credited.", body.Amount),
		}, true
	case domain.EventRedemptionRequested:
		return notify.Notification{
			UserID:  userID,
			Kind:    "redemption",
			Title:   "Redemption received",
			Message: fmt.Sprintf("Your redemption for %q is being verified.", body.PrizeTitle),
		}, true
	case domain.EventRedemptionResolved:
		title := "Redemption approved"
		message := "Your prize is on its way."
		if body.Status == string(domain.RedemptionDeclined) {
			title = "Redemption declined"
			message = "Your coins have been refunded."
		}
		return notify.Notification{UserID: userID, Kind: "redemption", Title: title, Message: message}, true
	default:
		return notify.Notification{}, false
	}
}
