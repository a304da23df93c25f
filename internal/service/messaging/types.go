package messaging

import (
	"time"

	"github.com/samedayramps/tiny-church-app/internal/domain"
)

// Mode is how a send request addresses its audience.
type Mode string

const (
	ModeIndividual Mode = "individual"
	ModeGroup      Mode = "group"
	ModeAll        Mode = "all"
)

// SendRequest is a validated inbound bulk send.
type SendRequest struct {
	To           Mode       `json:"to"`
	Recipients   []string   `json:"recipients,omitempty"`
	GroupIDs     []string   `json:"groupIds,omitempty"`
	Subject      string     `json:"subject"`
	Content      string     `json:"content"`
	ScheduledFor *time.Time `json:"scheduledFor,omitempty"`
	IsTest       bool       `json:"isTest,omitempty"`
}

// RecipientResult is the outcome for one recipient of a send request.
// A recipient whose log row was created but whose delivery failed is
// reported as failed here even though the row remains eligible for retry.
type RecipientResult struct {
	Success   bool             `json:"success"`
	To        string           `json:"to"`
	Scheduled bool             `json:"scheduled"`
	Log       *domain.EmailLog `json:"log,omitempty"`
	Error     string           `json:"error,omitempty"`
}

// Summary aggregates per-recipient outcomes of one send request.
type Summary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Scheduled  int `json:"scheduled"`
	Failed     int `json:"failed"`
}

// SendReport is the full response for a send request.
type SendReport struct {
	Results []RecipientResult `json:"results"`
	Summary Summary           `json:"summary"`
}

// SweepOutcome is the result for one row processed by a sweep tick.
type SweepOutcome struct {
	ID     string             `json:"id"`
	Status domain.EmailStatus `json:"status"`
	Error  string             `json:"error,omitempty"`
}
