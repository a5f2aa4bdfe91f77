package state

import (
	"math/big"

	"paywow/native/escrow"
)

type storedEscrow struct {
	ID          string
	Owner       [20]byte
	Asset       string
	Balance     *big.Int
	LockedUntil uint64
	CreatedAt   uint64
}

func newStoredEscrow(acc *escrow.Account) *storedEscrow {
	if acc == nil {
		return nil
	}
	balance := big.NewInt(0)
	if acc.Balance != nil {
		balance = new(big.Int).Set(acc.Balance)
	}
	return &storedEscrow{
		ID:          acc.ID,
		Owner:       acc.Owner,
		Asset:       acc.Asset,
		Balance:     balance,
		LockedUntil: acc.LockedUntil,
		CreatedAt:   acc.CreatedAt,
	}
}

func (s *storedEscrow) toAccount() (*escrow.Account, error) {
	if s == nil {
		return nil, errNilRecord
	}
	out := &escrow.Account{
		ID:          s.ID,
		Owner:       s.Owner,
		Asset:       s.Asset,
		Balance:     big.NewInt(0),
		LockedUntil: s.LockedUntil,
		CreatedAt:   s.CreatedAt,
	}
	if s.Balance != nil {
		out.Balance = new(big.Int).Set(s.Balance)
	}
	return escrow.Sanitize(out)
}

// EscrowPut stores an active locked-fund record.
func (m *Manager) EscrowPut(acc *escrow.Account) error {
	sanitized, err := escrow.Sanitize(acc)
	if err != nil {
		return err
	}
	key, err := stringKey(escrowPrefix, sanitized.ID)
	if err != nil {
		return err
	}
	return m.putRLP(key, newStoredEscrow(sanitized))
}

// EscrowGet loads an active locked-fund record by id.
func (m *Manager) EscrowGet(id string) (*escrow.Account, bool, error) {
	key, err := stringKey(escrowPrefix, id)
	if err != nil {
		return nil, false, err
	}
	var stored storedEscrow
	ok, err := m.getRLP(key, &stored)
	if err != nil || !ok {
		return nil, false, err
	}
	acc, err := stored.toAccount()
	if err != nil {
		return nil, false, err
	}
	return acc, true, nil
}

// EscrowRemove drops the record from the active set. Removal is what makes a
// released or refunded id unresolvable afterwards.
func (m *Manager) EscrowRemove(id string) error {
	key, err := stringKey(escrowPrefix, id)
	if err != nil {
		return err
	}
	return m.db.Delete(key)
}
