package escrow

import "errors"

var (
	ErrNotFound      = errors.New("escrow: escrow not found")
	ErrDuplicateID   = errors.New("escrow: identifier already active")
	ErrInvalidAmount = errors.New("escrow: amount must be positive")
	ErrFundsLocked   = errors.New("escrow: funds locked until deadline")
	ErrNilState      = errors.New("escrow: state not configured")
	ErrNilLedger     = errors.New("escrow: ledger not configured")
)
