package messaging

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samedayramps/tiny-church-app/internal/domain"
	"github.com/samedayramps/tiny-church-app/internal/pkg/logger"
)

// SendBatchSize bounds concurrent work within one send request.
// Recipients are dispatched in batches of this size; batch N completes
// before batch N+1 begins.
const SendBatchSize = 50

// Service is the send orchestrator. It validates inbound requests,
// resolves recipients, creates one log row per recipient, and either
// dispatches immediately or leaves rows scheduled for the sweep.
// All public methods are safe for concurrent use.
type Service struct {
	logs       LogRepository
	resolver   *Resolver
	dispatcher *Dispatcher
	now        func() time.Time
}

// NewService creates a messaging service.
func NewService(logs LogRepository, dir DirectoryReader, dispatcher *Dispatcher) *Service {
	return &Service{
		logs:       logs,
		resolver:   NewResolver(dir),
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

// Send drives one bulk send end to end. Validation or resolution
// failures abort before any log row is created; after that point each
// recipient's outcome is independent and captured in its result entry.
func (s *Service) Send(ctx context.Context, req *SendRequest) (*SendReport, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	recipients, err := s.resolver.Resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	now := s.now()
	future := req.ScheduledFor != nil && req.ScheduledFor.After(now)

	logger.Info("processing send request",
		"mode", string(req.To),
		"recipients", len(recipients),
		"scheduled", future,
		"is_test", req.IsTest,
	)

	results := make([]RecipientResult, len(recipients))
	for start := 0; start < len(recipients); start += SendBatchSize {
		end := start + SendBatchSize
		if end > len(recipients) {
			end = len(recipients)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i] = s.processRecipient(ctx, req, recipients[i], future)
			}(i)
		}
		wg.Wait()
	}

	report := &SendReport{Results: results, Summary: summarize(results)}
	logger.Info("send request complete",
		"total", report.Summary.Total,
		"successful", report.Summary.Successful,
		"scheduled", report.Summary.Scheduled,
		"failed", report.Summary.Failed,
	)
	return report, nil
}

// processRecipient creates the log row for one recipient and, when the
// row is due now, attempts immediate delivery. Errors are captured in
// the result, never propagated to sibling recipients.
func (s *Service) processRecipient(ctx context.Context, req *SendRequest, to string, future bool) RecipientResult {
	row := &domain.EmailLog{
		ID:             uuid.New().String(),
		RecipientEmail: to,
		Subject:        req.Subject,
		Body:           req.Content,
		Status:         domain.EmailPending,
		ScheduledFor:   req.ScheduledFor,
		IsTest:         req.IsTest,
		CreatedAt:      s.now(),
	}
	if future {
		row.Status = domain.EmailScheduled
	}

	if err := s.logs.Create(ctx, row); err != nil {
		logger.Error("failed to create email log", "recipient", to, "error", err.Error())
		return RecipientResult{To: to, Error: err.Error()}
	}

	if future {
		return RecipientResult{Success: true, To: to, Scheduled: true, Log: row}
	}

	updated, err := s.dispatcher.Deliver(ctx, row)
	if err != nil {
		return RecipientResult{To: to, Log: updated, Error: err.Error()}
	}
	return RecipientResult{Success: true, To: to, Log: updated}
}

func validate(req *SendRequest) error {
	if req.Subject == "" {
		return ErrSubjectRequired
	}
	if req.Content == "" {
		return ErrContentRequired
	}
	switch req.To {
	case ModeIndividual:
		if len(req.Recipients) == 0 {
			return ErrNoRecipients
		}
	case ModeGroup:
		if len(req.GroupIDs) == 0 {
			return ErrNoGroups
		}
	case ModeAll:
	default:
		return ErrUnknownMode
	}
	return nil
}

func summarize(results []RecipientResult) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch {
		case r.Success && r.Scheduled:
			s.Scheduled++
		case r.Success:
			s.Successful++
		default:
			s.Failed++
		}
	}
	return s
}

// Logs exposes paginated log listing for the logs endpoint.
func (s *Service) Logs(ctx context.Context, f LogFilter) ([]domain.EmailLog, int, error) {
	return s.logs.List(ctx, f)
}
