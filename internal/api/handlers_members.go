package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/samedayramps/tiny-church-app/internal/directory"
	"github.com/samedayramps/tiny-church-app/internal/domain"
	"github.com/samedayramps/tiny-church-app/internal/pkg/httputil"
)

// ListMembers returns members filtered by status and search term.
func (h *Handlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	members, err := h.store.ListMembers(r.Context(), q.Get("status"), q.Get("search"))
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if members == nil {
		members = []domain.Member{}
	}
	httputil.OK(w, map[string]any{"members": members})
}

// CreateMember adds a new member to the directory.
func (h *Handlers) CreateMember(w http.ResponseWriter, r *http.Request) {
	var m domain.Member
	if !httputil.Decode(w, r, &m) {
		return
	}
	if err := h.store.CreateMember(r.Context(), &m); err != nil {
		writeDirectoryError(w, err)
		return
	}
	httputil.Created(w, &m)
}

// GetMember returns one member by id.
func (h *Handlers) GetMember(w http.ResponseWriter, r *http.Request) {
	m, err := h.store.GetMember(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDirectoryError(w, err)
		return
	}
	httputil.OK(w, m)
}

// UpdateMember modifies a member.
func (h *Handlers) UpdateMember(w http.ResponseWriter, r *http.Request) {
	var m domain.Member
	if !httputil.Decode(w, r, &m) {
		return
	}
	m.ID = chi.URLParam(r, "id")
	if err := h.store.UpdateMember(r.Context(), &m); err != nil {
		writeDirectoryError(w, err)
		return
	}
	httputil.OK(w, &m)
}

// DeactivateMember soft deletes a member.
func (h *Handlers) DeactivateMember(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeactivateMember(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDirectoryError(w, err)
		return
	}
	httputil.NoContent(w)
}

// writeDirectoryError maps store errors onto HTTP statuses.
func writeDirectoryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, directory.ErrNotFound):
		httputil.NotFound(w, err.Error())
	case errors.Is(err, directory.ErrDuplicateEmail),
		errors.Is(err, directory.ErrAlreadyLinked),
		errors.Is(err, domain.ErrMemberNameRequired),
		errors.Is(err, domain.ErrMemberEmailRequired),
		errors.Is(err, domain.ErrGroupNameRequired),
		errors.Is(err, domain.ErrEventTitleRequired),
		errors.Is(err, domain.ErrEventDateRequired):
		httputil.BadRequest(w, err.Error())
	default:
		httputil.InternalError(w, err)
	}
}
