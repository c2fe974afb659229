package worker

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const sweepBatchSize = 100

// Sweeper помечает просроченные задачи в фоне
type Sweeper struct {
	pool     *pgxpool.Pool
	logger   *zap.Logger
	count    int
	interval time.Duration
	wg       sync.WaitGroup
	stop     chan struct{}
}

func NewSweeper(pool *pgxpool.Pool, logger *zap.Logger, count int, interval time.Duration) *Sweeper {
	return &Sweeper{
		pool:     pool,
		logger:   logger,
		count:    count,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

func (s *Sweeper) Start(ctx context.Context) {
	s.logger.Info("Starting overdue sweeper", zap.Int("workers", s.count))

	for i := 0; i < s.count; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i)
	}
}

func (s *Sweeper) Stop() {
	s.logger.Info("Stopping overdue sweeper...")
	close(s.stop)
	s.wg.Wait()
	s.logger.Info("Overdue sweeper stopped")
}

func (s *Sweeper) worker(ctx context.Context, id int) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			flagged, err := s.sweep(ctx)
			if err != nil {
				s.logger.Error("sweep error", zap.Int("worker", id), zap.Error(err))
				continue
			}
			if flagged > 0 {
				s.logger.Info("Flagged overdue todos",
					zap.Int("worker", id),
					zap.Int64("flagged", flagged),
				)
			}
		}
	}
}

// sweep забирает партию просроченных задач; SKIP LOCKED - воркеры не мешают друг другу
func (s *Sweeper) sweep(ctx context.Context) (int64, error) {
	cmd, err := s.pool.Exec(ctx, `
		UPDATE todos
		SET overdue = TRUE
		WHERE id IN (
			SELECT id
			FROM todos
			WHERE due_date IS NOT NULL
			  AND due_date < now()
			  AND NOT completed
			  AND NOT overdue
			ORDER BY due_date
			FOR UPDATE SKIP LOCKED
			LIMIT $1
		)
	`, sweepBatchSize)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
