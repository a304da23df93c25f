package messaging

import (
	"errors"
	"fmt"
)

// Sentinel errors for the messaging service layer. Handlers map
// ErrValidation to 400; everything else surfaces as 500.
var (
	ErrValidation = errors.New("invalid send request")
	ErrResolution = errors.New("recipient resolution failed")
	ErrSweep      = errors.New("failed to fetch due emails")
)

// Validation failures, each wrapping ErrValidation.
var (
	ErrSubjectRequired = fmt.Errorf("%w: subject is required", ErrValidation)
	ErrContentRequired = fmt.Errorf("%w: email content is required", ErrValidation)
	ErrNoRecipients    = fmt.Errorf("%w: at least one recipient email is required for individual mode", ErrValidation)
	ErrNoGroups        = fmt.Errorf("%w: at least one group must be selected for group mode", ErrValidation)
	ErrUnknownMode     = fmt.Errorf("%w: unknown recipient mode", ErrValidation)
)
