package payments

import "errors"

var (
	ErrTransactionNotFound  = errors.New("payments: transaction not found")
	ErrDuplicateTransaction = errors.New("payments: transaction id already logged")
	ErrInvalidAmount        = errors.New("payments: amount must be positive")
	ErrNilState             = errors.New("payments: state not configured")
	ErrNilCollaborator      = errors.New("payments: collaborator not configured")
)
