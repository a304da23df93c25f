package api

import (
	"net/http"

	"github.com/samedayramps/tiny-church-app/internal/auth"
	"github.com/samedayramps/tiny-church-app/internal/domain"
	"github.com/samedayramps/tiny-church-app/internal/pkg/httputil"
)

// GetSettings returns the organization settings, creating the row with
// defaults if this is the first read.
func (h *Handlers) GetSettings(w http.ResponseWriter, r *http.Request) {
	set, err := h.store.GetSettings(r.Context())
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, set)
}

// UpdateSettings replaces the organization settings.
func (h *Handlers) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var set domain.OrganizationSettings
	if !httputil.Decode(w, r, &set) {
		return
	}

	current, err := h.store.GetSettings(r.Context())
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	set.ID = current.ID
	if s := auth.SessionFrom(r.Context()); s != nil {
		set.LastUpdatedBy = s.Email
	}

	if err := h.store.UpdateSettings(r.Context(), &set); err != nil {
		writeDirectoryError(w, err)
		return
	}
	httputil.OK(w, &set)
}
