package bank

import "errors"

var (
	ErrInvalidAmount       = errors.New("bank: amount must be positive")
	ErrInsufficientBalance = errors.New("bank: insufficient balance")
	ErrAssetNotSupported   = errors.New("bank: asset not supported")
	ErrNilState            = errors.New("bank: state not configured")
)
