package dispute

import "errors"

var (
	ErrNotFound         = errors.New("dispute: dispute not found")
	ErrDuplicateID      = errors.New("dispute: identifier already filed")
	ErrInvalidAmount    = errors.New("dispute: amount must be positive")
	ErrAlreadyResolved  = errors.New("dispute: already in terminal state")
	ErrNotYetResolvable = errors.New("dispute: resolution deadline not reached")
	ErrNilState         = errors.New("dispute: state not configured")
)
