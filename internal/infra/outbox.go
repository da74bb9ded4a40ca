package infra

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/phantomapp/rewards/internal/repository"
)

// OutboxPoller drains the event_outbox table into Kafka. Events are written
// in the same transaction as the state change and delivered here, so a crash
// between commit and publish means redelivery, never loss.
type OutboxPoller struct {
	pool      *pgxpool.Pool
	outbox    repository.OutboxRepository
	producer  *KafkaProducer
	logger    *slog.Logger
	interval  time.Duration
	batchSize int
}

// NewOutboxPoller creates an outbox poller.
func NewOutboxPoller(pool *pgxpool.Pool, outbox repository.OutboxRepository, producer *KafkaProducer, interval time.Duration, logger *slog.Logger) *OutboxPoller {
	return &OutboxPoller{
		pool:      pool,
		outbox:    outbox,
		producer:  producer,
		logger:    logger,
		interval:  interval,
		batchSize: 100,
	}
}

// Start begins polling in a goroutine. Stops when ctx is cancelled. With the
// producer disabled the poller does not run at all: events stay in the table
// for delivery once Kafka is configured, instead of draining to nowhere.
func (p *OutboxPoller) Start(ctx context.Context) {
	if !p.producer.Enabled() {
		p.logger.Warn("outbox poller not started, kafka producer disabled, events will accumulate")
		return
	}

	p.logger.Info("outbox poller started", "interval", p.interval, "batch_size", p.batchSize)

	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				p.logger.Info("outbox poller stopped")
				return
			case <-ticker.C:
				if err := p.poll(ctx); err != nil {
					p.logger.Error("outbox poll error", "error", err)
				}
			}
		}
	}()
}

func (p *OutboxPoller) poll(ctx context.Context) error {
	events, err := p.outbox.FetchUnpublished(ctx, p.pool, p.batchSize)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return nil
	}

	var published []int64
	for _, e := range events {
		msg, err := json.Marshal(e.OutboxDraft)
		if err != nil {
			p.logger.Error("marshal outbox event", "event_id", e.EventID, "error", err)
			continue
		}

		if err := p.producer.Publish(ctx, []byte(e.PartitionKey), msg); err != nil {
			// stop the batch: publishing in order matters per partition key
			p.logger.Error("kafka publish failed", "event_id", e.EventID, "error", err)
			break
		}
		published = append(published, e.SeqID)
	}

	if err := p.outbox.MarkPublished(ctx, p.pool, published); err != nil {
		return err
	}

	p.logger.Debug("outbox poll complete", "published", len(published))
	return nil
}
