package services

import (
	"errors"
	"fmt"
)

// Service-level error kinds. Handlers map these to HTTP statuses with
// errors.Is; batch operations carry them in per-item results instead of
// aborting.
var (
	ErrNotFound             = errors.New("not found")
	ErrAlreadyCompleted     = errors.New("already completed")
	ErrInvalidState         = errors.New("invalid state for operation")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrUnknownTier          = errors.New("unknown achievement tier")
	ErrRewardDeliveryFailed = errors.New("reward delivery failed")
)

// ValidationError rejects bad input before any mutation happens.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Msg)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
