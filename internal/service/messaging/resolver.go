package messaging

import (
	"context"
	"fmt"
)

// Resolver turns a send request's addressing mode into a concrete list
// of target email addresses. It performs read-only queries only.
type Resolver struct {
	dir DirectoryReader
}

// NewResolver creates a resolver over the given directory reader.
func NewResolver(dir DirectoryReader) *Resolver {
	return &Resolver{dir: dir}
}

// Resolve returns the target addresses for the request. Duplicates across
// overlapping groups are preserved: a member linked to two selected groups
// gets two log rows. A test send keeps only the first explicit address.
func (r *Resolver) Resolve(ctx context.Context, req *SendRequest) ([]string, error) {
	switch {
	case req.IsTest || req.To == ModeIndividual:
		recipients := req.Recipients
		if req.IsTest && len(recipients) > 1 {
			recipients = recipients[:1]
		}
		return recipients, nil

	case req.To == ModeAll:
		emails, err := r.dir.ActiveMemberEmails(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrResolution, err)
		}
		return emails, nil

	case req.To == ModeGroup:
		emails, err := r.dir.GroupMemberEmails(ctx, req.GroupIDs)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrResolution, err)
		}
		return emails, nil

	default:
		return nil, ErrUnknownMode
	}
}
