package views

import "errors"

var (
	ErrValidation       = errors.New("validation failed")
	ErrIdentityConflict = errors.New("name does not match the email address on record")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrProfileRequired  = errors.New("a saved profile is required")
	ErrNoCoverLetter    = errors.New("no cover letter selected")
	ErrOperationPending = errors.New("operation already in progress")
	ErrCancelled        = errors.New("cancelled by user")
)

// ValidationError carries the message shown to the user. It matches
// ErrValidation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
