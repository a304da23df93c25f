package domain

import (
	"encoding/json"
	"time"
)

// MemberStatus enumerates the membership states of a congregant.
// Members are never hard-deleted through the API; removing someone
// flips their status to inactive so referential history survives.
type MemberStatus string

const (
	MemberActive   MemberStatus = "active"
	MemberInactive MemberStatus = "inactive"
)

// Member is the identity record for a congregant.
type Member struct {
	ID           string          `json:"id" db:"id"`
	FirstName    string          `json:"first_name" db:"first_name"`
	LastName     string          `json:"last_name" db:"last_name"`
	Email        string          `json:"email" db:"email"`
	Phone        string          `json:"phone" db:"phone"`
	Status       MemberStatus    `json:"status" db:"status"`
	DateAdded    time.Time       `json:"date_added" db:"date_added"`
	Address      json.RawMessage `json:"address,omitempty" db:"address"`
	CustomFields json.RawMessage `json:"custom_fields,omitempty" db:"custom_fields"`
	Notes        string          `json:"notes,omitempty" db:"notes"`
	PhotoURL     string          `json:"photo_url,omitempty" db:"photo_url"`
}

// Validate checks the required member fields.
func (m *Member) Validate() error {
	if m.FirstName == "" || m.LastName == "" {
		return ErrMemberNameRequired
	}
	if m.Email == "" {
		return ErrMemberEmailRequired
	}
	return nil
}
