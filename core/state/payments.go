package state

import (
	"math/big"

	"paywow/native/payments"
)

type storedTransaction struct {
	ID        string
	Payer     [20]byte
	Payee     [20]byte
	Amount    *big.Int
	Status    uint8
	Kind      uint8
	CreatedAt uint64
}

func newStoredTransaction(tx *payments.Transaction) *storedTransaction {
	if tx == nil {
		return nil
	}
	amount := big.NewInt(0)
	if tx.Amount != nil {
		amount = new(big.Int).Set(tx.Amount)
	}
	return &storedTransaction{
		ID:        tx.ID,
		Payer:     tx.Payer,
		Payee:     tx.Payee,
		Amount:    amount,
		Status:    uint8(tx.Status),
		Kind:      uint8(tx.Kind),
		CreatedAt: tx.CreatedAt,
	}
}

func (s *storedTransaction) toTransaction() (*payments.Transaction, error) {
	if s == nil {
		return nil, errNilRecord
	}
	out := &payments.Transaction{
		ID:        s.ID,
		Payer:     s.Payer,
		Payee:     s.Payee,
		Amount:    big.NewInt(0),
		Status:    payments.Status(s.Status),
		Kind:      payments.Kind(s.Kind),
		CreatedAt: s.CreatedAt,
	}
	if s.Amount != nil {
		out.Amount = new(big.Int).Set(s.Amount)
	}
	return payments.Sanitize(out)
}

// TransactionPut stores a transaction-log entry.
func (m *Manager) TransactionPut(tx *payments.Transaction) error {
	sanitized, err := payments.Sanitize(tx)
	if err != nil {
		return err
	}
	key, err := stringKey(transactionPrefix, sanitized.ID)
	if err != nil {
		return err
	}
	return m.putRLP(key, newStoredTransaction(sanitized))
}

// TransactionGet loads a transaction-log entry by id.
func (m *Manager) TransactionGet(id string) (*payments.Transaction, bool, error) {
	key, err := stringKey(transactionPrefix, id)
	if err != nil {
		return nil, false, err
	}
	var stored storedTransaction
	ok, err := m.getRLP(key, &stored)
	if err != nil || !ok {
		return nil, false, err
	}
	tx, err := stored.toTransaction()
	if err != nil {
		return nil, false, err
	}
	return tx, true, nil
}

// CollectedFees loads the accumulated platform fee pool.
func (m *Manager) CollectedFees() (*big.Int, error) {
	key := prefixedKey(collectedFeesKeyRaw, nil)
	var stored big.Int
	ok, err := m.getRLP(key, &stored)
	if err != nil {
		return nil, err
	}
	if !ok {
		return big.NewInt(0), nil
	}
	return new(big.Int).Set(&stored), nil
}

// SetCollectedFees stores the accumulated platform fee pool.
func (m *Manager) SetCollectedFees(amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return errNilRecord
	}
	key := prefixedKey(collectedFeesKeyRaw, nil)
	return m.putRLP(key, amount)
}
