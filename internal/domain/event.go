package domain

import "time"

// RecurrencePattern describes how a recurring event repeats.
type RecurrencePattern struct {
	Frequency string     `json:"frequency"` // daily, weekly, monthly, yearly
	Interval  int        `json:"interval"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

// Event is a scheduled occurrence on the church calendar.
type Event struct {
	ID          string             `json:"id" db:"id"`
	Title       string             `json:"title" db:"title"`
	Description string             `json:"description" db:"description"`
	Date        time.Time          `json:"date" db:"date"`
	Time        string             `json:"time" db:"time"`
	Location    string             `json:"location" db:"location"`
	Recurring   bool               `json:"recurring" db:"recurring"`
	Pattern     *RecurrencePattern `json:"recurring_pattern,omitempty" db:"recurring_pattern"`
	CreatedBy   string             `json:"created_by" db:"created_by"`
	CreatedAt   time.Time          `json:"created_at" db:"created_at"`

	// AttendeeCount is derived from the attendance join table (read-only).
	AttendeeCount int `json:"attendee_count" db:"attendee_count"`
}

// Validate checks the required event fields.
func (e *Event) Validate() error {
	if e.Title == "" {
		return ErrEventTitleRequired
	}
	if e.Date.IsZero() {
		return ErrEventDateRequired
	}
	return nil
}

// Attendee links a member to an event they plan to attend.
type Attendee struct {
	EventID   string    `json:"event_id" db:"event_id"`
	MemberID  string    `json:"member_id" db:"member_id"`
	FirstName string    `json:"first_name" db:"first_name"`
	Email     string    `json:"email" db:"email"`
	AddedAt   time.Time `json:"added_at" db:"added_at"`
}
