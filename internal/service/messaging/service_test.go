package messaging_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/samedayramps/tiny-church-app/internal/domain"
	"github.com/samedayramps/tiny-church-app/internal/service/messaging"
)

func newTestService(logs *memLogs, dir *memDir, mail *fakeMailer) *messaging.Service {
	d := messaging.NewDispatcher(logs, mail, "Grace Chapel", "office@grace.org")
	return messaging.NewService(logs, dir, d)
}

func TestSendValidation(t *testing.T) {
	svc := newTestService(newMemLogs(), &memDir{}, newFakeMailer())
	ctx := context.Background()

	cases := []struct {
		name string
		req  messaging.SendRequest
		want error
	}{
		{"missing subject", messaging.SendRequest{To: messaging.ModeAll, Content: "hi"}, messaging.ErrSubjectRequired},
		{"missing content", messaging.SendRequest{To: messaging.ModeAll, Subject: "hi"}, messaging.ErrContentRequired},
		{"individual without recipients", messaging.SendRequest{To: messaging.ModeIndividual, Subject: "s", Content: "c"}, messaging.ErrNoRecipients},
		{"group without groups", messaging.SendRequest{To: messaging.ModeGroup, Subject: "s", Content: "c"}, messaging.ErrNoGroups},
		{"unknown mode", messaging.SendRequest{To: "everyone", Subject: "s", Content: "c"}, messaging.ErrUnknownMode},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Send(ctx, &tc.req)
			if !errors.Is(err, tc.want) {
				t.Errorf("got %v, want %v", err, tc.want)
			}
			if !errors.Is(err, messaging.ErrValidation) {
				t.Errorf("expected error to wrap ErrValidation, got %v", err)
			}
		})
	}
}

func TestSendCreatesRowPerRecipient(t *testing.T) {
	logs := newMemLogs()
	mail := newFakeMailer()
	svc := newTestService(logs, &memDir{}, mail)

	report, err := svc.Send(context.Background(), &messaging.SendRequest{
		To:         messaging.ModeIndividual,
		Recipients: []string{"a@x.org", "b@x.org", "c@x.org"},
		Subject:    "Potluck",
		Content:    "<p>Sunday at noon</p>",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if logs.count() != 3 {
		t.Errorf("expected 3 log rows, got %d", logs.count())
	}
	if mail.sentCount() != 3 {
		t.Errorf("expected 3 deliveries, got %d", mail.sentCount())
	}
	want := messaging.Summary{Total: 3, Successful: 3}
	if report.Summary != want {
		t.Errorf("summary = %+v, want %+v", report.Summary, want)
	}
	for _, r := range report.Results {
		if r.Log == nil || r.Log.Status != domain.EmailSent || r.Log.SentAt == nil {
			t.Errorf("result %s: expected sent row with sent_at, got %+v", r.To, r.Log)
		}
	}
}

func TestSendBatchesLargeAudience(t *testing.T) {
	logs := newMemLogs()
	mail := newFakeMailer()

	var active []string
	for i := 0; i < 120; i++ {
		active = append(active, fmt.Sprintf("member%03d@x.org", i))
	}
	svc := newTestService(logs, &memDir{active: active}, mail)

	report, err := svc.Send(context.Background(), &messaging.SendRequest{
		To:      messaging.ModeAll,
		Subject: "Newsletter",
		Content: "<p>news</p>",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if report.Summary.Total != 120 || report.Summary.Successful != 120 {
		t.Errorf("summary = %+v", report.Summary)
	}
	if logs.count() != 120 {
		t.Errorf("expected 120 rows, got %d", logs.count())
	}
	// Results stay aligned with the resolved recipient order across batches.
	if report.Results[0].To != "member000@x.org" || report.Results[119].To != "member119@x.org" {
		t.Errorf("results out of order: first=%s last=%s", report.Results[0].To, report.Results[119].To)
	}
}

func TestSendPartialFailure(t *testing.T) {
	logs := newMemLogs()
	mail := newFakeMailer()
	mail.failFor["bad@x.org"] = -1
	svc := newTestService(logs, &memDir{}, mail)

	report, err := svc.Send(context.Background(), &messaging.SendRequest{
		To:         messaging.ModeIndividual,
		Recipients: []string{"good@x.org", "bad@x.org"},
		Subject:    "s",
		Content:    "c",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	want := messaging.Summary{Total: 2, Successful: 1, Failed: 1}
	if report.Summary != want {
		t.Errorf("summary = %+v, want %+v", report.Summary, want)
	}

	var bad *messaging.RecipientResult
	for i := range report.Results {
		if report.Results[i].To == "bad@x.org" {
			bad = &report.Results[i]
		}
	}
	if bad == nil || bad.Success || bad.Error == "" {
		t.Fatalf("expected failed result for bad@x.org, got %+v", bad)
	}
	// The row stays retryable: one failed attempt puts it back to scheduled.
	row, ok := logs.get(bad.Log.ID)
	if !ok {
		t.Fatal("row missing")
	}
	if row.Status != domain.EmailScheduled || row.RetryCount != 1 {
		t.Errorf("row = status %q retry %d, want scheduled/1", row.Status, row.RetryCount)
	}
}

func TestSendScheduledFutureSkipsDelivery(t *testing.T) {
	logs := newMemLogs()
	mail := newFakeMailer()
	svc := newTestService(logs, &memDir{}, mail)

	later := time.Now().Add(2 * time.Hour)
	report, err := svc.Send(context.Background(), &messaging.SendRequest{
		To:           messaging.ModeIndividual,
		Recipients:   []string{"a@x.org", "b@x.org"},
		Subject:      "s",
		Content:      "c",
		ScheduledFor: &later,
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if mail.sentCount() != 0 {
		t.Errorf("expected no immediate deliveries, got %d", mail.sentCount())
	}
	want := messaging.Summary{Total: 2, Scheduled: 2}
	if report.Summary != want {
		t.Errorf("summary = %+v, want %+v", report.Summary, want)
	}
	counts := logs.statusCounts()
	if counts[domain.EmailScheduled] != 2 {
		t.Errorf("expected 2 scheduled rows, got %+v", counts)
	}
}

func TestSendPastScheduledForDeliversNow(t *testing.T) {
	logs := newMemLogs()
	mail := newFakeMailer()
	svc := newTestService(logs, &memDir{}, mail)

	earlier := time.Now().Add(-time.Hour)
	report, err := svc.Send(context.Background(), &messaging.SendRequest{
		To:           messaging.ModeIndividual,
		Recipients:   []string{"a@x.org"},
		Subject:      "s",
		Content:      "c",
		ScheduledFor: &earlier,
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if mail.sentCount() != 1 {
		t.Errorf("expected immediate delivery, got %d sends", mail.sentCount())
	}
	if report.Summary.Successful != 1 || report.Summary.Scheduled != 0 {
		t.Errorf("summary = %+v", report.Summary)
	}
}

func TestSendCreateFailureCountsAsFailed(t *testing.T) {
	logs := newMemLogs()
	logs.createErr = errors.New("insert: connection reset")
	mail := newFakeMailer()
	svc := newTestService(logs, &memDir{}, mail)

	report, err := svc.Send(context.Background(), &messaging.SendRequest{
		To:         messaging.ModeIndividual,
		Recipients: []string{"a@x.org"},
		Subject:    "s",
		Content:    "c",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if report.Summary.Failed != 1 {
		t.Errorf("summary = %+v", report.Summary)
	}
	if mail.sentCount() != 0 {
		t.Error("delivery must not be attempted without a log row")
	}
}

func TestSendResolutionFailureAborts(t *testing.T) {
	logs := newMemLogs()
	dir := &memDir{err: errors.New("db down")}
	svc := newTestService(logs, dir, newFakeMailer())

	_, err := svc.Send(context.Background(), &messaging.SendRequest{
		To:      messaging.ModeAll,
		Subject: "s",
		Content: "c",
	})
	if !errors.Is(err, messaging.ErrResolution) {
		t.Errorf("expected ErrResolution, got %v", err)
	}
	if logs.count() != 0 {
		t.Error("no rows may be created when resolution fails")
	}
}

func TestLogsPassthrough(t *testing.T) {
	logs := newMemLogs()
	svc := newTestService(logs, &memDir{}, newFakeMailer())
	ctx := context.Background()

	if _, err := svc.Send(ctx, &messaging.SendRequest{
		To:         messaging.ModeIndividual,
		Recipients: []string{"a@x.org", "b@x.org"},
		Subject:    "s",
		Content:    "c",
	}); err != nil {
		t.Fatalf("send: %v", err)
	}

	rows, total, err := svc.Logs(ctx, messaging.LogFilter{Limit: 1})
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	if total != 2 || len(rows) != 1 {
		t.Errorf("got %d rows, total %d; want 1 row of 2", len(rows), total)
	}
}
