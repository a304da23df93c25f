package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/samedayramps/tiny-church-app/internal/domain"
	"github.com/samedayramps/tiny-church-app/internal/pkg/httputil"
)

// ListEvents returns upcoming events by default; ?filter=past flips the
// window.
func (h *Handlers) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.store.ListEvents(r.Context(), r.URL.Query().Get("filter"))
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if events == nil {
		events = []domain.Event{}
	}
	httputil.OK(w, map[string]any{"events": events})
}

// CreateEvent adds a new event.
func (h *Handlers) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var e domain.Event
	if !httputil.Decode(w, r, &e) {
		return
	}
	if err := h.store.CreateEvent(r.Context(), &e); err != nil {
		writeDirectoryError(w, err)
		return
	}
	httputil.Created(w, &e)
}

// GetEvent returns one event by id.
func (h *Handlers) GetEvent(w http.ResponseWriter, r *http.Request) {
	e, err := h.store.GetEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDirectoryError(w, err)
		return
	}
	httputil.OK(w, e)
}

// UpdateEvent modifies an event.
func (h *Handlers) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var e domain.Event
	if !httputil.Decode(w, r, &e) {
		return
	}
	e.ID = chi.URLParam(r, "id")
	if err := h.store.UpdateEvent(r.Context(), &e); err != nil {
		writeDirectoryError(w, err)
		return
	}
	httputil.OK(w, &e)
}

// DeleteEvent removes an event and its attendance records.
func (h *Handlers) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteEvent(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDirectoryError(w, err)
		return
	}
	httputil.NoContent(w)
}

// EventAttendees lists the attendees of an event.
func (h *Handlers) EventAttendees(w http.ResponseWriter, r *http.Request) {
	attendees, err := h.store.EventAttendees(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if attendees == nil {
		attendees = []domain.Attendee{}
	}
	httputil.OK(w, map[string]any{"attendees": attendees})
}

// AddAttendee records a member as attending an event.
func (h *Handlers) AddAttendee(w http.ResponseWriter, r *http.Request) {
	err := h.store.AddAttendee(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "memberID"))
	if err != nil {
		writeDirectoryError(w, err)
		return
	}
	httputil.NoContent(w)
}

// RemoveAttendee removes a member from an event's attendance.
func (h *Handlers) RemoveAttendee(w http.ResponseWriter, r *http.Request) {
	err := h.store.RemoveAttendee(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "memberID"))
	if err != nil {
		writeDirectoryError(w, err)
		return
	}
	httputil.NoContent(w)
}
