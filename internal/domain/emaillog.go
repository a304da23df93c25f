package domain

import "time"

// EmailStatus enumerates the lifecycle states of an email log row.
//
// Allowed transitions:
//
//	created            -> pending   (due now)
//	created            -> scheduled (scheduled_for in the future)
//	pending, scheduled -> sent      (delivery succeeded)
//	pending, scheduled -> scheduled (delivery failed, retry_count < MaxSendAttempts)
//	pending, scheduled -> failed    (delivery failed, retry budget exhausted)
//
// sent and failed are terminal; nothing mutates a row after it reaches them.
type EmailStatus string

const (
	EmailPending   EmailStatus = "pending"
	EmailScheduled EmailStatus = "scheduled"
	EmailSent      EmailStatus = "sent"
	EmailFailed    EmailStatus = "failed"
)

// MaxSendAttempts is the delivery retry budget per log row. A row whose
// retry_count reaches this value on a failed attempt becomes failed.
const MaxSendAttempts = 3

// EmailLog is one row per (recipient, logical send). It is the unit of
// retry and audit: rows are created exactly once by the send orchestrator
// and mutated only by the shared send-and-update operation. Rows are never
// deleted in normal operation.
type EmailLog struct {
	ID             string      `json:"id" db:"id"`
	RecipientEmail string      `json:"recipient_email" db:"recipient_email"`
	Subject        string      `json:"subject" db:"subject"`
	Body           string      `json:"body" db:"body"`
	Status         EmailStatus `json:"status" db:"status"`
	ScheduledFor   *time.Time  `json:"scheduled_for" db:"scheduled_for"`
	SentAt         *time.Time  `json:"sent_at" db:"sent_at"`
	IsTest         bool        `json:"is_test" db:"is_test"`
	RetryCount     int         `json:"retry_count" db:"retry_count"`
	ErrorMessage   string      `json:"error_message,omitempty" db:"error_message"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"`
}

// IsTerminal reports whether the row is in a final state.
func (l *EmailLog) IsTerminal() bool {
	return l.Status == EmailSent || l.Status == EmailFailed
}

// Due reports whether the row is eligible for sending at the given time.
// A nil scheduled_for counts as due.
func (l *EmailLog) Due(now time.Time) bool {
	return l.ScheduledFor == nil || !l.ScheduledFor.After(now)
}
