package messaging

import (
	"context"
	"fmt"
	"time"

	"github.com/samedayramps/tiny-church-app/internal/domain"
	"github.com/samedayramps/tiny-church-app/internal/mailer"
	"github.com/samedayramps/tiny-church-app/internal/pkg/logger"
)

// Dispatcher is the single shared send-and-update operation. Both the
// immediate send path and the sweep call Deliver, so the retry policy
// lives in exactly one place.
type Dispatcher struct {
	logs      LogRepository
	mail      mailer.Mailer
	fromName  string
	fromEmail string
	now       func() time.Time
}

// NewDispatcher creates a dispatcher sending as the given identity.
func NewDispatcher(logs LogRepository, mail mailer.Mailer, fromName, fromEmail string) *Dispatcher {
	return &Dispatcher{
		logs:      logs,
		mail:      mail,
		fromName:  fromName,
		fromEmail: fromEmail,
		now:       time.Now,
	}
}

// Deliver attempts delivery for one due row and updates it to reflect
// the outcome. On success the row becomes sent with sent_at set. On
// transport failure retry_count is incremented; at MaxSendAttempts the
// row becomes failed (terminal), otherwise it returns to scheduled for
// the next sweep pass. The returned row reflects the new state even
// when an error is returned.
func (d *Dispatcher) Deliver(ctx context.Context, row *domain.EmailLog) (*domain.EmailLog, error) {
	updated := *row
	if row.IsTerminal() {
		return &updated, nil
	}

	msg := &mailer.Message{
		FromName:  d.fromName,
		FromEmail: d.fromEmail,
		To:        row.RecipientEmail,
		Subject:   row.Subject,
		HTML:      row.Body,
	}

	if err := d.mail.Send(ctx, msg); err != nil {
		updated.RetryCount = row.RetryCount + 1
		updated.ErrorMessage = err.Error()
		if updated.RetryCount >= domain.MaxSendAttempts {
			updated.Status = domain.EmailFailed
		} else {
			updated.Status = domain.EmailScheduled
		}

		if uerr := d.logs.RecordFailure(ctx, row.ID, updated.RetryCount, updated.Status, updated.ErrorMessage); uerr != nil {
			return &updated, fmt.Errorf("record failure for %s: %w", row.ID, uerr)
		}

		logger.Warn("email delivery failed",
			"id", row.ID,
			"recipient", row.RecipientEmail,
			"retry_count", updated.RetryCount,
			"status", string(updated.Status),
		)
		return &updated, fmt.Errorf("deliver %s: %w", row.ID, err)
	}

	sentAt := d.now()
	updated.Status = domain.EmailSent
	updated.SentAt = &sentAt

	if err := d.logs.MarkSent(ctx, row.ID, sentAt); err != nil {
		return &updated, fmt.Errorf("mark sent for %s: %w", row.ID, err)
	}

	logger.Debug("email sent", "id", row.ID, "recipient", row.RecipientEmail)
	return &updated, nil
}
