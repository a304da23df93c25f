package messaging_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/samedayramps/tiny-church-app/internal/domain"
	"github.com/samedayramps/tiny-church-app/internal/mailer"
	"github.com/samedayramps/tiny-church-app/internal/service/messaging"
)

// memLogs is an in-memory email log repository for unit testing.
type memLogs struct {
	mu        sync.Mutex
	rows      map[string]*domain.EmailLog // keyed by id
	createErr error
	listErr   error
}

func newMemLogs() *memLogs {
	return &memLogs{rows: make(map[string]*domain.EmailLog)}
}

func (m *memLogs) Create(_ context.Context, row *domain.EmailLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	cp := *row
	m.rows[cp.ID] = &cp
	return nil
}

func (m *memLogs) MarkSent(_ context.Context, id string, sentAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return errors.New("not found")
	}
	row.Status = domain.EmailSent
	row.SentAt = &sentAt
	return nil
}

func (m *memLogs) RecordFailure(_ context.Context, id string, retryCount int, status domain.EmailStatus, errMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return errors.New("not found")
	}
	row.RetryCount = retryCount
	row.Status = status
	row.ErrorMessage = errMsg
	return nil
}

func (m *memLogs) ListDue(_ context.Context, now time.Time, limit int) ([]domain.EmailLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []domain.EmailLog
	for _, row := range m.rows {
		if row.IsTerminal() || !row.Due(now) {
			continue
		}
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memLogs) List(_ context.Context, f messaging.LogFilter) ([]domain.EmailLog, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.EmailLog
	for _, row := range m.rows {
		if row.IsTest && !f.ShowTests {
			continue
		}
		if f.Status != "" && f.Status != "all" && string(row.Status) != f.Status {
			continue
		}
		if f.Search != "" &&
			!strings.Contains(row.RecipientEmail, f.Search) &&
			!strings.Contains(row.Subject, f.Search) {
			continue
		}
		out = append(out, *row)
	}
	total := len(out)
	if f.Offset >= len(out) {
		return nil, total, nil
	}
	end := f.Offset + f.Limit
	if end > len(out) || f.Limit <= 0 {
		end = len(out)
	}
	return out[f.Offset:end], total, nil
}

// get returns a copy of a stored row.
func (m *memLogs) get(id string) (domain.EmailLog, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return domain.EmailLog{}, false
	}
	return *row, true
}

func (m *memLogs) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

func (m *memLogs) statusCounts() map[domain.EmailStatus]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[domain.EmailStatus]int)
	for _, row := range m.rows {
		counts[row.Status]++
	}
	return counts
}

// memDir is a canned directory reader.
type memDir struct {
	active  []string
	byGroup map[string][]string
	err     error
}

func (d *memDir) ActiveMemberEmails(_ context.Context) ([]string, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.active, nil
}

func (d *memDir) GroupMemberEmails(_ context.Context, groupIDs []string) ([]string, error) {
	if d.err != nil {
		return nil, d.err
	}
	var out []string
	for _, id := range groupIDs {
		out = append(out, d.byGroup[id]...)
	}
	return out, nil
}

// fakeMailer records sends and fails addresses listed in failFor until
// their counter reaches zero.
type fakeMailer struct {
	mu      sync.Mutex
	sent    []string
	failFor map[string]int // remaining failures per address; -1 fails forever
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{failFor: make(map[string]int)}
}

func (f *fakeMailer) Send(_ context.Context, msg *mailer.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n, ok := f.failFor[msg.To]; ok && n != 0 {
		if n > 0 {
			f.failFor[msg.To] = n - 1
		}
		return errors.New("smtp: connection refused")
	}
	f.sent = append(f.sent, msg.To)
	return nil
}

func (f *fakeMailer) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}
