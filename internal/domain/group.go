package domain

import "time"

// Group is a named collection of members: a ministry, fellowship,
// study, or service team.
type Group struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	GroupType   string    `json:"group_type" db:"group_type"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	// MemberCount is derived from membership links (read-only).
	MemberCount int `json:"member_count" db:"member_count"`
}

// Validate checks the required group fields.
func (g *Group) Validate() error {
	if g.Name == "" {
		return ErrGroupNameRequired
	}
	return nil
}

// Membership links a member to a group. A given (member, group) pair
// appears at most once; the database enforces the uniqueness.
type Membership struct {
	MemberID string    `json:"member_id" db:"member_id"`
	GroupID  string    `json:"group_id" db:"group_id"`
	JoinedAt time.Time `json:"joined_at" db:"joined_at"`
}
