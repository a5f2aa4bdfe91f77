package fees

import "errors"

var (
	ErrInvalidAmount       = errors.New("fees: amount must be positive")
	ErrInvalidBps          = errors.New("fees: basis points out of range")
	ErrFeeExceedsPrincipal = errors.New("fees: combined fees reach or exceed principal")
)
