package escrow

import (
	"math/big"
	"strings"
)

// Account captures a single locked-fund record held by the vault. Once
// created, the balance is immutable until release or refund; those two
// transitions are mutually exclusive and terminal, removing the record from
// the active set.
type Account struct {
	ID          string
	Owner       [20]byte
	Asset       string
	Balance     *big.Int
	LockedUntil uint64
	CreatedAt   uint64
}

// Clone returns a deep copy of the account so callers can safely mutate the
// copy without affecting the stored instance.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	clone := *a
	if a.Balance != nil {
		clone.Balance = new(big.Int).Set(a.Balance)
	} else {
		clone.Balance = big.NewInt(0)
	}
	return &clone
}

// Sanitize validates and normalises the supplied account, returning a cloned
// instance with canonical asset casing and a non-nil balance. The function
// does not mutate the original value.
func Sanitize(a *Account) (*Account, error) {
	if a == nil {
		return nil, ErrNotFound
	}
	clone := a.Clone()
	clone.ID = strings.TrimSpace(clone.ID)
	if clone.ID == "" {
		return nil, ErrNotFound
	}
	clone.Asset = strings.ToUpper(strings.TrimSpace(clone.Asset))
	if clone.Balance == nil || clone.Balance.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	return clone, nil
}
