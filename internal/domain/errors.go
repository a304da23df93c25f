package domain

import "errors"

// Validation sentinels shared by services and handlers.
var (
	ErrMemberNameRequired  = errors.New("first and last name are required")
	ErrMemberEmailRequired = errors.New("email is required")
	ErrGroupNameRequired   = errors.New("group name is required")
	ErrEventTitleRequired  = errors.New("event title is required")
	ErrEventDateRequired   = errors.New("event date is required")
)
