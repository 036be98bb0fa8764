package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the referenced schedule id does not exist.
	ErrNotFound = errors.New("schedule not found")
	// ErrAlreadySent means the schedule already completed its
	// pending -> sent transition. Callers racing on delivery treat
	// this as benign.
	ErrAlreadySent = errors.New("schedule already sent")
)

type ValidationKind string

const (
	KindMissingField     ValidationKind = "missing_field"
	KindPastDate         ValidationKind = "past_date"
	KindInvalidRecipient ValidationKind = "invalid_recipient"
)

// ValidationError rejects a create request before any side effect.
// Kind is machine-readable and maps 1:1 to the HTTP error body.
type ValidationError struct {
	Kind  ValidationKind
	Field string // set for missing_field
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation: %s (%s)", e.Kind, e.Field)
	}
	return fmt.Sprintf("validation: %s", e.Kind)
}

// AsValidation unwraps err into a *ValidationError if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
