package directory

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/samedayramps/tiny-church-app/internal/domain"
)

const eventCols = `e.id, e.title, COALESCE(e.description,''), e.date, COALESCE(e.time,''),
		COALESCE(e.location,''), e.recurring, e.recurring_pattern, COALESCE(e.created_by,''), e.created_at,
		(SELECT COUNT(*) FROM event_attendees ea WHERE ea.event_id = e.id)`

// CreateEvent inserts a new event.
func (s *Store) CreateEvent(ctx context.Context, e *domain.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	var pattern interface{}
	if e.Recurring && e.Pattern != nil {
		b, err := json.Marshal(e.Pattern)
		if err != nil {
			return fmt.Errorf("encode recurrence pattern: %w", err)
		}
		pattern = string(b)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (id, title, description, date, time, location, recurring, recurring_pattern, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, e.ID, e.Title, e.Description, e.Date, e.Time, e.Location, e.Recurring, pattern, e.CreatedBy, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// GetEvent returns a single event with its attendee count.
func (s *Store) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+eventCols+` FROM events e WHERE e.id = $1`, id)
	e, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

// ListEvents returns events filtered by "upcoming" (date >= today,
// soonest first) or "past" (date < today, most recent first).
func (s *Store) ListEvents(ctx context.Context, filter string) ([]domain.Event, error) {
	q := `SELECT ` + eventCols + ` FROM events e`
	switch filter {
	case "past":
		q += " WHERE e.date < CURRENT_DATE ORDER BY e.date DESC"
	default:
		q += " WHERE e.date >= CURRENT_DATE ORDER BY e.date ASC"
	}

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var out []domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// EventsBetween returns events whose date falls in [from, to). Used by
// the reminder worker.
func (s *Store) EventsBetween(ctx context.Context, from, to time.Time) ([]domain.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+eventCols+` FROM events e
		WHERE e.date >= $1 AND e.date < $2
		ORDER BY e.date ASC
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("events between: %w", err)
	}
	defer rows.Close()

	var out []domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// UpdateEvent modifies an event's mutable fields.
func (s *Store) UpdateEvent(ctx context.Context, e *domain.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}

	var pattern interface{}
	if e.Recurring && e.Pattern != nil {
		b, err := json.Marshal(e.Pattern)
		if err != nil {
			return fmt.Errorf("encode recurrence pattern: %w", err)
		}
		pattern = string(b)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE events
		SET title = $1, description = $2, date = $3, time = $4, location = $5,
		    recurring = $6, recurring_pattern = $7
		WHERE id = $8
	`, e.Title, e.Description, e.Date, e.Time, e.Location, e.Recurring, pattern, e.ID)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteEvent removes an event and its attendance records.
func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// AddAttendee records a member as attending an event. Re-adding the
// same pair maps to ErrAlreadyLinked.
func (s *Store) AddAttendee(ctx context.Context, eventID, memberID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO event_attendees (event_id, member_id, added_at)
		VALUES ($1, $2, NOW())
	`, eventID, memberID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return ErrAlreadyLinked
		}
		return fmt.Errorf("add attendee: %w", err)
	}
	return nil
}

// RemoveAttendee removes a member from an event's attendance.
func (s *Store) RemoveAttendee(ctx context.Context, eventID, memberID string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM event_attendees WHERE event_id = $1 AND member_id = $2
	`, eventID, memberID)
	if err != nil {
		return fmt.Errorf("remove attendee: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// EventAttendees returns the attendees for an event with the member
// details the reminder worker needs.
func (s *Store) EventAttendees(ctx context.Context, eventID string) ([]domain.Attendee, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ea.event_id, ea.member_id, m.first_name, m.email, ea.added_at
		FROM event_attendees ea
		JOIN members m ON m.id = ea.member_id
		WHERE ea.event_id = $1
		ORDER BY m.last_name, m.first_name
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("event attendees: %w", err)
	}
	defer rows.Close()

	var out []domain.Attendee
	for rows.Next() {
		var a domain.Attendee
		if err := rows.Scan(&a.EventID, &a.MemberID, &a.FirstName, &a.Email, &a.AddedAt); err != nil {
			return nil, fmt.Errorf("scan attendee: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var pattern sql.NullString
	if err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.Date, &e.Time,
		&e.Location, &e.Recurring, &pattern, &e.CreatedBy, &e.CreatedAt,
		&e.AttendeeCount,
	); err != nil {
		return nil, err
	}
	if pattern.Valid && pattern.String != "" {
		var p domain.RecurrencePattern
		if err := json.Unmarshal([]byte(pattern.String), &p); err == nil {
			e.Pattern = &p
		}
	}
	return e, nil
}
