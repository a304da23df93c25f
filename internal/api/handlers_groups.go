package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/samedayramps/tiny-church-app/internal/domain"
	"github.com/samedayramps/tiny-church-app/internal/pkg/httputil"
)

// ListGroups returns all groups with member counts.
func (h *Handlers) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.store.ListGroups(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if groups == nil {
		groups = []domain.Group{}
	}
	httputil.OK(w, map[string]any{"groups": groups})
}

// CreateGroup adds a new group.
func (h *Handlers) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var g domain.Group
	if !httputil.Decode(w, r, &g) {
		return
	}
	if err := h.store.CreateGroup(r.Context(), &g); err != nil {
		writeDirectoryError(w, err)
		return
	}
	httputil.Created(w, &g)
}

// GetGroup returns one group by id.
func (h *Handlers) GetGroup(w http.ResponseWriter, r *http.Request) {
	g, err := h.store.GetGroup(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDirectoryError(w, err)
		return
	}
	httputil.OK(w, g)
}

// UpdateGroup modifies a group.
func (h *Handlers) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	var g domain.Group
	if !httputil.Decode(w, r, &g) {
		return
	}
	g.ID = chi.URLParam(r, "id")
	if err := h.store.UpdateGroup(r.Context(), &g); err != nil {
		writeDirectoryError(w, err)
		return
	}
	httputil.OK(w, &g)
}

// DeleteGroup removes a group and its membership links.
func (h *Handlers) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteGroup(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDirectoryError(w, err)
		return
	}
	httputil.NoContent(w)
}

// GroupMembers lists the members currently in a group.
func (h *Handlers) GroupMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.store.GroupMembers(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if members == nil {
		members = []domain.Member{}
	}
	httputil.OK(w, map[string]any{"members": members})
}

// AddGroupMember links a member to a group.
func (h *Handlers) AddGroupMember(w http.ResponseWriter, r *http.Request) {
	err := h.store.AddGroupMember(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "memberID"))
	if err != nil {
		writeDirectoryError(w, err)
		return
	}
	httputil.NoContent(w)
}

// RemoveGroupMember unlinks a member from a group.
func (h *Handlers) RemoveGroupMember(w http.ResponseWriter, r *http.Request) {
	err := h.store.RemoveGroupMember(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "memberID"))
	if err != nil {
		writeDirectoryError(w, err)
		return
	}
	httputil.NoContent(w)
}
