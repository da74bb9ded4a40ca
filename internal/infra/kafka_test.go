package infra

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phantomapp/rewards/internal/domain"
	"github.com/phantomapp/rewards/internal/repository"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewKafkaConsumer(t *testing.T) {
	t.Run("disabled consumer is fine without brokers", func(t *testing.T) {
		c, err := NewKafkaConsumer("", "rewards.events", "reward-notifier", false, discardLogger())
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.NoError(t, c.Close())
	})

	t.Run("enabled consumer without brokers is a config error", func(t *testing.T) {
		c, err := NewKafkaConsumer("", "rewards.events", "reward-notifier", true, discardLogger())
		assert.Error(t, err)
		assert.Nil(t, c)
	})

	t.Run("read on disabled consumer errors instead of panicking", func(t *testing.T) {
		c, err := NewKafkaConsumer("", "rewards.events", "reward-notifier", false, discardLogger())
		require.NoError(t, err)

		_, err = c.ReadMessage(context.Background())
		assert.Error(t, err)
	})
}

func TestKafkaProducerDisabled(t *testing.T) {
	p := NewKafkaProducer("", "rewards.events", false, discardLogger())
	assert.False(t, p.Enabled())
	assert.NoError(t, p.Publish(context.Background(), []byte("key"), []byte("value")))
	assert.NoError(t, p.Close())
}

// countingOutbox counts fetches so tests can tell whether the poller ran.
type countingOutbox struct {
	fetches atomic.Int64
}

func (o *countingOutbox) Insert(ctx context.Context, db repository.DBTX, draft domain.OutboxDraft) error {
	return nil
}

func (o *countingOutbox) FetchUnpublished(ctx context.Context, db repository.DBTX, limit int) ([]repository.OutboxRow, error) {
	o.fetches.Add(1)
	return nil, nil
}

func (o *countingOutbox) MarkPublished(ctx context.Context, db repository.DBTX, ids []int64) error {
	return nil
}

func TestOutboxPollerSkipsWhenProducerDisabled(t *testing.T) {
	outbox := &countingOutbox{}
	producer := NewKafkaProducer("", "rewards.events", false, discardLogger())
	poller := NewOutboxPoller(nil, outbox, producer, 5*time.Millisecond, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	poller.Start(ctx)
	time.Sleep(30 * time.Millisecond)

	assert.Zero(t, outbox.fetches.Load(), "outbox must not drain without a live producer")
}
