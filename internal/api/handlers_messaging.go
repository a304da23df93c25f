package api

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"github.com/samedayramps/tiny-church-app/internal/domain"
	"github.com/samedayramps/tiny-church-app/internal/pkg/httputil"
	"github.com/samedayramps/tiny-church-app/internal/service/messaging"
)

type sendPayload struct {
	To           string   `json:"to"`
	Recipients   []string `json:"recipients"`
	GroupIDs     []string `json:"groupIds"`
	Subject      string   `json:"subject"`
	Content      string   `json:"content"`
	ScheduledFor string   `json:"scheduledFor"`
	IsTest       bool     `json:"isTest"`
}

// authorizeService checks the Authorization header against the service
// token. An unset token authorizes nothing.
func (h *Handlers) authorizeService(w http.ResponseWriter, r *http.Request) bool {
	token := r.Header.Get("Authorization")
	if len(token) > 7 && token[:7] == "Bearer " {
		token = token[7:]
	}
	if h.serviceToken == "" ||
		subtle.ConstantTimeCompare([]byte(token), []byte(h.serviceToken)) != 1 {
		httputil.Unauthorized(w)
		return false
	}
	return true
}

// Send runs one bulk send request end to end and returns the
// per-recipient results with a summary. The send path runs with the
// service token rather than a browser session.
func (h *Handlers) Send(w http.ResponseWriter, r *http.Request) {
	if !h.authorizeService(w, r) {
		return
	}

	var p sendPayload
	if !httputil.Decode(w, r, &p) {
		return
	}

	req := &messaging.SendRequest{
		To:         messaging.Mode(p.To),
		Recipients: p.Recipients,
		GroupIDs:   p.GroupIDs,
		Subject:    p.Subject,
		Content:    p.Content,
		IsTest:     p.IsTest,
	}
	if p.ScheduledFor != "" {
		at, err := time.Parse(time.RFC3339, p.ScheduledFor)
		if err != nil {
			httputil.BadRequest(w, "scheduledFor must be an RFC 3339 timestamp")
			return
		}
		req.ScheduledFor = &at
	}

	report, err := h.msg.Send(r.Context(), req)
	if err != nil {
		if errors.Is(err, messaging.ErrValidation) {
			httputil.BadRequest(w, err.Error())
			return
		}
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, report)
}

// Logs returns paginated email log rows, filterable by status and a
// recipient/subject search term. Test sends are hidden unless
// showTests=true.
func (h *Handlers) Logs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := ParsePagination(r, 50, 200)

	// The filter parameter carries a status name, or "all" for no filter.
	status := q.Get("filter")
	if status == "all" {
		status = ""
	}

	rows, total, err := h.msg.Logs(r.Context(), messaging.LogFilter{
		Status:    status,
		Search:    q.Get("search"),
		ShowTests: q.Get("showTests") == "true",
		Limit:     params.Limit,
		Offset:    params.Offset,
	})
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if rows == nil {
		rows = []domain.EmailLog{}
	}
	httputil.OK(w, map[string]any{
		"logs":       rows,
		"pagination": NewPaginationMeta(params, total),
	})
}

// Sweep triggers one pass over due scheduled and retryable rows. It is
// called by the scheduler with the service token, not a browser session.
func (h *Handlers) Sweep(w http.ResponseWriter, r *http.Request) {
	if !h.authorizeService(w, r) {
		return
	}

	outcomes, err := h.msg.Sweep(r.Context())
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if outcomes == nil {
		outcomes = []messaging.SweepOutcome{}
	}
	httputil.OK(w, map[string]any{
		"processed": len(outcomes),
		"results":   outcomes,
	})
}
