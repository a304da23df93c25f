// Package postgres implements the messaging repository interfaces
// against PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samedayramps/tiny-church-app/internal/domain"
	"github.com/samedayramps/tiny-church-app/internal/service/messaging"
)

// EmailLogRepo implements messaging.LogRepository against PostgreSQL.
// All mutations are single-row updates by id; nothing here takes a
// table-level lock.
type EmailLogRepo struct{ db *sql.DB }

// NewEmailLogRepo creates a Postgres-backed email log repository.
func NewEmailLogRepo(db *sql.DB) *EmailLogRepo { return &EmailLogRepo{db: db} }

const emailLogCols = `id, recipient_email, subject, body, status, scheduled_for,
	       sent_at, is_test, retry_count, COALESCE(error_message,''), created_at`

func (r *EmailLogRepo) Create(ctx context.Context, row *domain.EmailLog) error {
	if row.ID == "" {
		row.ID = uuid.New().String()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO email_logs
			(id, recipient_email, subject, body, status, scheduled_for, is_test, retry_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 0, NOW())
	`, row.ID, row.RecipientEmail, row.Subject, row.Body, row.Status, row.ScheduledFor, row.IsTest)
	if err != nil {
		return fmt.Errorf("create email log: %w", err)
	}
	return nil
}

func (r *EmailLogRepo) MarkSent(ctx context.Context, id string, sentAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE email_logs SET status = $1, sent_at = $2
		WHERE id = $3
	`, domain.EmailSent, sentAt, id)
	if err != nil {
		return fmt.Errorf("mark sent: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("mark sent: email log %s not found", id)
	}
	return nil
}

func (r *EmailLogRepo) RecordFailure(ctx context.Context, id string, retryCount int, status domain.EmailStatus, errMsg string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE email_logs SET status = $1, retry_count = $2, error_message = $3
		WHERE id = $4
	`, status, retryCount, errMsg, id)
	if err != nil {
		return fmt.Errorf("record failure: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("record failure: email log %s not found", id)
	}
	return nil
}

func (r *EmailLogRepo) ListDue(ctx context.Context, now time.Time, limit int) ([]domain.EmailLog, error) {
	if limit <= 0 {
		limit = messaging.SweepBatchSize
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+emailLogCols+`
		FROM email_logs
		WHERE status IN ($1, $2)
		  AND (scheduled_for IS NULL OR scheduled_for <= $3)
		ORDER BY created_at ASC
		LIMIT $4
	`, domain.EmailPending, domain.EmailScheduled, now, limit)
	if err != nil {
		return nil, fmt.Errorf("list due emails: %w", err)
	}
	defer rows.Close()

	return scanEmailLogs(rows)
}

func (r *EmailLogRepo) List(ctx context.Context, f messaging.LogFilter) ([]domain.EmailLog, int, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}

	where := " WHERE 1=1"
	args := []interface{}{}
	idx := 1

	if !f.ShowTests {
		where += " AND is_test = FALSE"
	}
	if f.Status != "" && f.Status != "all" {
		where += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, f.Status)
		idx++
	}
	if f.Search != "" {
		where += fmt.Sprintf(" AND (recipient_email ILIKE $%d OR subject ILIKE $%d)", idx, idx)
		args = append(args, "%"+f.Search+"%")
		idx++
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM email_logs"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count email logs: %w", err)
	}

	q := "SELECT " + emailLogCols + " FROM email_logs" + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list email logs: %w", err)
	}
	defer rows.Close()

	out, err := scanEmailLogs(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func scanEmailLogs(rows *sql.Rows) ([]domain.EmailLog, error) {
	var out []domain.EmailLog
	for rows.Next() {
		var l domain.EmailLog
		var scheduledFor, sentAt sql.NullTime
		if err := rows.Scan(
			&l.ID, &l.RecipientEmail, &l.Subject, &l.Body, &l.Status,
			&scheduledFor, &sentAt, &l.IsTest, &l.RetryCount, &l.ErrorMessage, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan email log: %w", err)
		}
		if scheduledFor.Valid {
			t := scheduledFor.Time
			l.ScheduledFor = &t
		}
		if sentAt.Valid {
			t := sentAt.Time
			l.SentAt = &t
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
