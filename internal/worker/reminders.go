package worker

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/samedayramps/tiny-church-app/internal/directory"
	"github.com/samedayramps/tiny-church-app/internal/domain"
	"github.com/samedayramps/tiny-church-app/internal/mailer"
	"github.com/samedayramps/tiny-church-app/internal/pkg/distlock"
	"github.com/samedayramps/tiny-church-app/internal/pkg/logger"
	"github.com/samedayramps/tiny-church-app/internal/service/messaging"
)

// reminderWindow is how far ahead the reminder pass looks for events.
const reminderWindow = 24 * time.Hour

// reminderLockKey keeps reminder passes from overlapping when both the
// API process and the standalone sweeper run the worker.
const reminderLockKey = "messaging:reminders"

// Reminders sends a per-attendee email for events starting within the
// next day. It rides the messaging pipeline in individual mode, so
// reminder deliveries land in the email log like any other send.
type Reminders struct {
	store    *directory.Store
	msg      *messaging.Service
	tmpl     *mailer.TemplateEngine
	lock     distlock.DistLock
	interval time.Duration
	now      func() time.Time

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
	mu      sync.Mutex
}

// NewReminders creates the reminder worker. redisClient may be nil; the
// lock then falls back to a PostgreSQL advisory lock on db.
func NewReminders(store *directory.Store, msg *messaging.Service, redisClient *redis.Client, db *sql.DB, interval time.Duration) *Reminders {
	return &Reminders{
		store:    store,
		msg:      msg,
		tmpl:     mailer.NewTemplateEngine(),
		lock:     distlock.NewLock(redisClient, db, reminderLockKey, interval),
		interval: interval,
		now:      time.Now,
	}
}

// Start begins the reminder loop.
func (r *Reminders) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return fmt.Errorf("reminders already running")
	}
	r.running = true
	r.ctx, r.cancel = context.WithCancel(context.Background())

	logger.Info("reminder worker starting", "interval", r.interval.String())

	r.wg.Add(1)
	go r.loop()
	return nil
}

// Stop gracefully stops the reminder loop.
func (r *Reminders) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	r.mu.Unlock()

	r.cancel()
	r.wg.Wait()
	logger.Info("reminder worker stopped")
}

func (r *Reminders) loop() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.tick()
		}
	}
}

// tick runs one reminder pass under the distributed lock so only one
// process sends reminders per interval.
func (r *Reminders) tick() {
	ctx, cancel := context.WithTimeout(r.ctx, r.interval)
	defer cancel()

	acquired, err := r.lock.Acquire(ctx)
	if err != nil {
		logger.Error("reminder lock acquire failed", "error", err.Error())
		return
	}
	if !acquired {
		logger.Debug("reminder pass skipped, lock held elsewhere")
		return
	}
	defer r.lock.Release(ctx)

	if err := r.RunOnce(ctx); err != nil {
		logger.Error("reminder pass failed", "error", err.Error())
	}
}

// RunOnce sends reminders for every event in the upcoming window. Each
// event is independent; one event's failure does not stop the rest.
func (r *Reminders) RunOnce(ctx context.Context) error {
	now := r.now()
	events, err := r.store.EventsBetween(ctx, now, now.Add(reminderWindow))
	if err != nil {
		return fmt.Errorf("load upcoming events: %w", err)
	}

	for _, event := range events {
		if err := r.remindEvent(ctx, &event); err != nil {
			logger.Error("event reminder failed", "event_id", event.ID, "error", err.Error())
		}
	}
	return nil
}

func (r *Reminders) remindEvent(ctx context.Context, event *domain.Event) error {
	attendees, err := r.store.EventAttendees(ctx, event.ID)
	if err != nil {
		return fmt.Errorf("load attendees: %w", err)
	}
	if len(attendees) == 0 {
		return nil
	}

	date := event.Date.Format("Monday, January 2")
	sent := 0
	for _, a := range attendees {
		body, err := r.tmpl.RenderReminder(a.FirstName, event.Title, date, event.Time, event.Location)
		if err != nil {
			return fmt.Errorf("render reminder: %w", err)
		}

		report, err := r.msg.Send(ctx, &messaging.SendRequest{
			To:         messaging.ModeIndividual,
			Recipients: []string{a.Email},
			Subject:    "Reminder: " + event.Title,
			Content:    body,
		})
		if err != nil {
			logger.Warn("reminder send rejected", "event_id", event.ID, "recipient", a.Email, "error", err.Error())
			continue
		}
		sent += report.Summary.Successful
	}

	logger.Info("event reminders sent", "event_id", event.ID, "attendees", len(attendees), "sent", sent)
	return nil
}
