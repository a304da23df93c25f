package directory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/samedayramps/tiny-church-app/internal/domain"
)

func eventColumns() []string {
	return []string{
		"id", "title", "description", "date", "time", "location",
		"recurring", "recurring_pattern", "created_by", "created_at", "attendee_count",
	}
}

func TestCreateEventWithPattern(t *testing.T) {
	store, mock, cleanup := setupMock(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO events").
		WillReturnResult(sqlmock.NewResult(1, 1))

	e := &domain.Event{
		Title:     "Bible Study",
		Date:      time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC),
		Recurring: true,
		Pattern:   &domain.RecurrencePattern{Frequency: "weekly", Interval: 1},
	}
	if err := store.CreateEvent(context.Background(), e); err != nil {
		t.Fatalf("create: %v", err)
	}
	if e.ID == "" {
		t.Error("expected generated id")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCreateEventValidation(t *testing.T) {
	store, _, cleanup := setupMock(t)
	defer cleanup()

	err := store.CreateEvent(context.Background(), &domain.Event{Title: "No date"})
	if !errors.Is(err, domain.ErrEventDateRequired) {
		t.Errorf("expected date-required error, got %v", err)
	}
}

func TestGetEventDecodesPattern(t *testing.T) {
	store, mock, cleanup := setupMock(t)
	defer cleanup()

	rows := sqlmock.NewRows(eventColumns()).
		AddRow("e1", "Bible Study", "", time.Now(), "19:00", "Room 4",
			true, `{"frequency":"weekly","interval":1}`, "", time.Now(), 12)
	mock.ExpectQuery("SELECT (.+) FROM events e WHERE e.id").
		WithArgs("e1").
		WillReturnRows(rows)

	e, err := store.GetEvent(context.Background(), "e1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if e.Pattern == nil || e.Pattern.Frequency != "weekly" {
		t.Errorf("expected decoded pattern, got %+v", e.Pattern)
	}
	if e.AttendeeCount != 12 {
		t.Errorf("expected attendee count 12, got %d", e.AttendeeCount)
	}
}

func TestListEventsPastOrdering(t *testing.T) {
	store, mock, cleanup := setupMock(t)
	defer cleanup()

	rows := sqlmock.NewRows(eventColumns()).
		AddRow("e2", "Picnic", "", time.Now().AddDate(0, 0, -7), "", "",
			false, nil, "", time.Now(), 0)
	mock.ExpectQuery("SELECT (.+) FROM events e WHERE e.date < CURRENT_DATE ORDER BY e.date DESC").
		WillReturnRows(rows)

	got, err := store.ListEvents(context.Background(), "past")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Picnic" {
		t.Errorf("unexpected events %v", got)
	}
}

func TestEventsBetween(t *testing.T) {
	store, mock, cleanup := setupMock(t)
	defer cleanup()

	from := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)
	rows := sqlmock.NewRows(eventColumns()).
		AddRow("e1", "Service", "", from.Add(10*time.Hour), "10:00", "Sanctuary",
			false, nil, "", time.Now(), 40)
	mock.ExpectQuery("SELECT (.+) FROM events e\\s+WHERE e.date >= (.+) AND e.date <").
		WithArgs(from, to).
		WillReturnRows(rows)

	got, err := store.EventsBetween(context.Background(), from, to)
	if err != nil {
		t.Fatalf("between: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got))
	}
}

func TestEventAttendees(t *testing.T) {
	store, mock, cleanup := setupMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"event_id", "member_id", "first_name", "email", "added_at"}).
		AddRow("e1", "m1", "Ana", "ana@example.org", time.Now()).
		AddRow("e1", "m2", "Ben", "ben@example.org", time.Now())
	mock.ExpectQuery("SELECT ea.event_id").
		WithArgs("e1").
		WillReturnRows(rows)

	got, err := store.EventAttendees(context.Background(), "e1")
	if err != nil {
		t.Fatalf("attendees: %v", err)
	}
	if len(got) != 2 || got[0].Email != "ana@example.org" {
		t.Errorf("unexpected attendees %v", got)
	}
}

func TestRemoveAttendeeNotFound(t *testing.T) {
	store, mock, cleanup := setupMock(t)
	defer cleanup()

	mock.ExpectExec("DELETE FROM event_attendees").
		WithArgs("e1", "m9").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := store.RemoveAttendee(context.Background(), "e1", "m9"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
