package messaging

import (
	"context"
	"fmt"
	"sync"

	"github.com/samedayramps/tiny-church-app/internal/pkg/logger"
)

// SweepBatchSize caps the rows processed per sweep tick.
const SweepBatchSize = 50

// Sweep finds due pending/scheduled rows (first sends past their
// scheduled time and retries) and delivers each through the shared
// dispatcher. A fetch failure aborts the whole tick; delivery failures
// are per-row and leave the remaining rows untouched for the next tick.
func (s *Service) Sweep(ctx context.Context) ([]SweepOutcome, error) {
	due, err := s.logs.ListDue(ctx, s.now(), SweepBatchSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSweep, err)
	}
	if len(due) == 0 {
		return nil, nil
	}

	logger.Info("sweep tick", "due", len(due))

	outcomes := make([]SweepOutcome, len(due))
	var wg sync.WaitGroup
	for i := range due {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			row := due[i]
			updated, err := s.dispatcher.Deliver(ctx, &row)
			outcomes[i] = SweepOutcome{ID: row.ID, Status: updated.Status}
			if err != nil {
				outcomes[i].Error = err.Error()
			}
		}(i)
	}
	wg.Wait()

	return outcomes, nil
}
