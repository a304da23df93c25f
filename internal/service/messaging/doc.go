// Package messaging implements the bulk email pipeline: recipient
// resolution, per-recipient delivery logging, immediate dispatch, and the
// periodic sweep that resumes scheduled and retried sends.
//
// The service layer owns all business logic and depends only on the
// repository interfaces defined in this package and the mailer transport.
// Repository implementations live in repository/postgres.
//
// Delivery is at-least-once: the sweep selects due rows without a claim
// step, so a sweep tick overlapping an immediate dispatch can double-send
// a row. That is an accepted property for this domain (see DESIGN.md),
// not a bug to silently fix here.
package messaging
