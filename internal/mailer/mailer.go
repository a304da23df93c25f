// Package mailer provides the outbound email transports. The messaging
// pipeline only sees the Mailer interface; SES and SMTP implementations
// are selected by configuration at startup.
package mailer

import "context"

// Message is a fully-rendered outbound email. By the time a message
// reaches this struct, all template substitution is complete.
type Message struct {
	FromName  string
	FromEmail string
	To        string
	Subject   string
	HTML      string
	Headers   map[string]string
}

// Mailer delivers a single rendered email. Implementations return an
// error for any transport-level failure; retry policy belongs to the
// caller, not the transport.
type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}
