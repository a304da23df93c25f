package messaging

import (
	"context"
	"time"

	"github.com/samedayramps/tiny-church-app/internal/domain"
)

// LogRepository defines the data access contract for email log rows.
// Implementations must be safe for concurrent use. Each mutation is
// atomic at the single-row level (update-by-id); no method takes a
// table-level lock, so the sweep and the immediate dispatcher may race
// on the same row (documented at-least-once behavior).
type LogRepository interface {
	// Create inserts a new log row. The service is the sole caller;
	// nothing else in the system creates email log rows.
	Create(ctx context.Context, row *domain.EmailLog) error

	// MarkSent transitions a row to sent and records sent_at.
	MarkSent(ctx context.Context, id string, sentAt time.Time) error

	// RecordFailure writes the retry outcome of a failed attempt:
	// the new retry count, the resulting status (scheduled or failed),
	// and the last error message.
	RecordFailure(ctx context.Context, id string, retryCount int, status domain.EmailStatus, errMsg string) error

	// ListDue returns up to limit rows with status pending or scheduled
	// whose scheduled_for is null or <= now, oldest first.
	ListDue(ctx context.Context, now time.Time, limit int) ([]domain.EmailLog, error)

	// List returns log rows matching the filter plus the total count.
	List(ctx context.Context, f LogFilter) ([]domain.EmailLog, int, error)
}

// LogFilter controls pagination and filtering for log listings.
type LogFilter struct {
	Status    string // a status name, or "all"/"" for no status filter
	Search    string // matches recipient email or subject
	ShowTests bool   // include is_test rows
	Limit     int
	Offset    int
}

// DirectoryReader is the read-only slice of the member directory the
// resolver needs. It never mutates member or membership records.
type DirectoryReader interface {
	// ActiveMemberEmails returns the emails of all active members,
	// ordered by email.
	ActiveMemberEmails(ctx context.Context) ([]string, error)

	// GroupMemberEmails returns the emails of all members linked to any
	// of the given groups (union). Members in several selected groups
	// appear once per link; the resolver does not collapse duplicates.
	GroupMemberEmails(ctx context.Context, groupIDs []string) ([]string, error)
}
