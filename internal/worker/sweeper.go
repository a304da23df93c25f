// Package worker holds the background loops: the delivery sweep and
// event reminders. Each worker owns a ticker goroutine with Start/Stop
// lifecycle control.
package worker

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/samedayramps/tiny-church-app/internal/pkg/distlock"
	"github.com/samedayramps/tiny-church-app/internal/pkg/logger"
	"github.com/samedayramps/tiny-church-app/internal/service/messaging"
)

// sweepLockKey serializes sweep ticks across processes.
const sweepLockKey = "messaging:sweep"

// Sweeper periodically delivers due scheduled emails and retries
// failed ones through the messaging service.
type Sweeper struct {
	svc      *messaging.Service
	lock     distlock.DistLock
	interval time.Duration

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
	mu      sync.Mutex
}

// NewSweeper creates a sweeper. redisClient may be nil; the lock then
// falls back to a PostgreSQL advisory lock on db.
func NewSweeper(svc *messaging.Service, redisClient *redis.Client, db *sql.DB, interval time.Duration) *Sweeper {
	return &Sweeper{
		svc:      svc,
		lock:     distlock.NewLock(redisClient, db, sweepLockKey, interval),
		interval: interval,
	}
}

// Start begins the sweep loop.
func (s *Sweeper) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return fmt.Errorf("sweeper already running")
	}
	s.running = true
	s.ctx, s.cancel = context.WithCancel(context.Background())

	logger.Info("sweeper starting", "interval", s.interval.String())

	s.wg.Add(1)
	go s.loop()
	return nil
}

// Stop gracefully stops the sweep loop, waiting for an in-flight tick.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
	logger.Info("sweeper stopped")
}

func (s *Sweeper) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

// tick runs one sweep pass under the distributed lock. Losing the lock
// race means another process is already sweeping; the rows stay due and
// the next tick picks them up (at-least-once).
func (s *Sweeper) tick() {
	ctx, cancel := context.WithTimeout(s.ctx, s.interval)
	defer cancel()

	acquired, err := s.lock.Acquire(ctx)
	if err != nil {
		logger.Error("sweep lock acquire failed", "error", err.Error())
		return
	}
	if !acquired {
		logger.Debug("sweep tick skipped, lock held elsewhere")
		return
	}
	defer s.lock.Release(ctx)

	outcomes, err := s.svc.Sweep(ctx)
	if err != nil {
		logger.Error("sweep failed", "error", err.Error())
		return
	}

	if len(outcomes) > 0 {
		var sent, failed int
		for _, o := range outcomes {
			if o.Error == "" {
				sent++
			} else {
				failed++
			}
		}
		logger.Info("sweep complete", "processed", len(outcomes), "sent", sent, "failed", failed)
	}
}
