package messaging_test

import (
	"context"
	"testing"
	"time"

	"github.com/samedayramps/tiny-church-app/internal/domain"
	"github.com/samedayramps/tiny-church-app/internal/service/messaging"
)

func seedRow(logs *memLogs, id, to string, status domain.EmailStatus, retries int) *domain.EmailLog {
	row := &domain.EmailLog{
		ID:             id,
		RecipientEmail: to,
		Subject:        "s",
		Body:           "c",
		Status:         status,
		RetryCount:     retries,
		CreatedAt:      time.Now(),
	}
	logs.Create(context.Background(), row)
	return row
}

func TestDeliverSuccess(t *testing.T) {
	logs := newMemLogs()
	mail := newFakeMailer()
	d := messaging.NewDispatcher(logs, mail, "Grace Chapel", "office@grace.org")

	row := seedRow(logs, "r1", "ana@x.org", domain.EmailPending, 0)
	updated, err := d.Deliver(context.Background(), row)
	if err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if updated.Status != domain.EmailSent || updated.SentAt == nil {
		t.Errorf("updated = %+v", updated)
	}
	stored, _ := logs.get("r1")
	if stored.Status != domain.EmailSent || stored.SentAt == nil {
		t.Errorf("stored = %+v", stored)
	}
}

func TestDeliverFailureReschedules(t *testing.T) {
	logs := newMemLogs()
	mail := newFakeMailer()
	mail.failFor["ana@x.org"] = -1
	d := messaging.NewDispatcher(logs, mail, "Grace Chapel", "office@grace.org")

	row := seedRow(logs, "r1", "ana@x.org", domain.EmailPending, 0)
	updated, err := d.Deliver(context.Background(), row)
	if err == nil {
		t.Fatal("expected delivery error")
	}
	if updated.Status != domain.EmailScheduled || updated.RetryCount != 1 {
		t.Errorf("updated = status %q retry %d", updated.Status, updated.RetryCount)
	}
	stored, _ := logs.get("r1")
	if stored.ErrorMessage == "" {
		t.Error("expected error message recorded")
	}
}

func TestDeliverExhaustsRetryBudget(t *testing.T) {
	logs := newMemLogs()
	mail := newFakeMailer()
	mail.failFor["ana@x.org"] = -1
	d := messaging.NewDispatcher(logs, mail, "Grace Chapel", "office@grace.org")

	row := seedRow(logs, "r1", "ana@x.org", domain.EmailPending, 0)
	for i := 0; i < domain.MaxSendAttempts; i++ {
		var err error
		row, err = d.Deliver(context.Background(), row)
		if err == nil {
			t.Fatalf("attempt %d: expected error", i+1)
		}
	}
	if row.Status != domain.EmailFailed || row.RetryCount != domain.MaxSendAttempts {
		t.Errorf("after budget: status %q retry %d", row.Status, row.RetryCount)
	}
	stored, _ := logs.get("r1")
	if stored.Status != domain.EmailFailed {
		t.Errorf("stored status %q, want failed", stored.Status)
	}
}

func TestDeliverRecoversAfterFailures(t *testing.T) {
	logs := newMemLogs()
	mail := newFakeMailer()
	mail.failFor["ana@x.org"] = 2
	d := messaging.NewDispatcher(logs, mail, "Grace Chapel", "office@grace.org")

	row := seedRow(logs, "r1", "ana@x.org", domain.EmailPending, 0)
	for i := 0; i < 2; i++ {
		row, _ = d.Deliver(context.Background(), row)
	}
	updated, err := d.Deliver(context.Background(), row)
	if err != nil {
		t.Fatalf("third attempt: %v", err)
	}
	if updated.Status != domain.EmailSent || updated.RetryCount != 2 {
		t.Errorf("updated = status %q retry %d, want sent/2", updated.Status, updated.RetryCount)
	}
}

func TestDeliverNeverTouchesTerminalRows(t *testing.T) {
	logs := newMemLogs()
	mail := newFakeMailer()
	d := messaging.NewDispatcher(logs, mail, "Grace Chapel", "office@grace.org")

	for _, status := range []domain.EmailStatus{domain.EmailSent, domain.EmailFailed} {
		row := seedRow(logs, "r-"+string(status), "ana@x.org", status, 1)
		updated, err := d.Deliver(context.Background(), row)
		if err != nil {
			t.Fatalf("deliver %s: %v", status, err)
		}
		if updated.Status != status || updated.RetryCount != 1 {
			t.Errorf("terminal row mutated: %+v", updated)
		}
	}
	if mail.sentCount() != 0 {
		t.Error("no mail may go out for terminal rows")
	}
}
