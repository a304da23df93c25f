package api

import (
	"net/http"
	"time"

	"github.com/samedayramps/tiny-church-app/internal/auth"
	"github.com/samedayramps/tiny-church-app/internal/directory"
	"github.com/samedayramps/tiny-church-app/internal/pkg/httputil"
	"github.com/samedayramps/tiny-church-app/internal/service/messaging"
)

// Handlers holds the dependencies for all HTTP handlers.
type Handlers struct {
	store        *directory.Store
	msg          *messaging.Service
	sessions     *auth.Manager
	serviceToken string
	startTime    time.Time
}

// NewHandlers creates the handler set.
func NewHandlers(store *directory.Store, msg *messaging.Service, sessions *auth.Manager, serviceToken string) *Handlers {
	return &Handlers{
		store:        store,
		msg:          msg,
		sessions:     sessions,
		serviceToken: serviceToken,
		startTime:    time.Now(),
	}
}

// HealthCheck reports liveness.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, map[string]any{
		"status": "healthy",
		"uptime": time.Since(h.startTime).String(),
	})
}
