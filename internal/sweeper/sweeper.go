// Package sweeper runs periodic housekeeping: missions past their expiry
// are flipped inactive so list and claim endpoints never see them.
package sweeper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/phantomapp/rewards/internal/repository"
)

// Sweeper owns the background scheduler.
type Sweeper struct {
	pool     *pgxpool.Pool
	missions repository.MissionRepository
	interval time.Duration
	logger   *slog.Logger
	sched    gocron.Scheduler
}

// New creates a Sweeper running at the given interval.
func New(pool *pgxpool.Pool, missions repository.MissionRepository, interval time.Duration, logger *slog.Logger) (*Sweeper, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	return &Sweeper{
		pool:     pool,
		missions: missions,
		interval: interval,
		logger:   logger,
		sched:    sched,
	}, nil
}

// Start registers the expiry job and begins the schedule.
func (s *Sweeper) Start() error {
	_, err := s.sched.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(s.sweep),
	)
	if err != nil {
		return fmt.Errorf("register sweep job: %w", err)
	}
	s.sched.Start()
	s.logger.Info("mission sweeper started", "interval", s.interval)
	return nil
}

// Stop shuts the scheduler down, waiting for a running sweep.
func (s *Sweeper) Stop() error {
	return s.sched.Shutdown()
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := s.missions.DeactivateExpired(ctx, s.pool, time.Now())
	if err != nil {
		s.logger.Error("mission sweep failed", "error", err)
		return
	}
	if n > 0 {
		s.logger.Info("expired missions deactivated", "count", n)
	}
}
