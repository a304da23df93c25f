package api

import (
	"net/http"

	"github.com/samedayramps/tiny-church-app/internal/pkg/httputil"
	"github.com/samedayramps/tiny-church-app/internal/pkg/logger"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies the admin credential and issues a session cookie.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !httputil.Decode(w, r, &req) {
		return
	}

	if !h.sessions.Authenticate(req.Email, req.Password) {
		logger.Warn("login rejected", "email", req.Email)
		httputil.Unauthorized(w)
		return
	}

	id, err := h.sessions.Create(r.Context(), req.Email)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	h.sessions.SetCookie(w, id)
	httputil.OK(w, map[string]any{"email": req.Email})
}

// Logout destroys the current session and clears the cookie.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if id := h.sessions.SessionID(r); id != "" {
		if err := h.sessions.Destroy(r.Context(), id); err != nil {
			httputil.InternalError(w, err)
			return
		}
	}
	h.sessions.ClearCookie(w)
	httputil.NoContent(w)
}

// CurrentSession returns the session for the request cookie, if any.
func (h *Handlers) CurrentSession(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessions.FromRequest(r)
	if err != nil {
		httputil.Unauthorized(w)
		return
	}
	httputil.OK(w, s)
}
