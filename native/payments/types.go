package payments

import (
	"math/big"
	"strings"
)

// Status represents the lifecycle state of a logged transaction.
type Status uint8

const (
	StatusPending    Status = 0
	StatusCompleted  Status = 1
	StatusEscrowHeld Status = 2
	StatusDisputed   Status = 3
	StatusRefunded   Status = 4
)

// Valid reports whether the status value is within the supported range.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusEscrowHeld, StatusDisputed, StatusRefunded:
		return true
	default:
		return false
	}
}

// String returns the canonical lowercase name for the status.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusCompleted:
		return "completed"
	case StatusEscrowHeld:
		return "escrow_held"
	case StatusDisputed:
		return "disputed"
	case StatusRefunded:
		return "refunded"
	default:
		return "unknown"
	}
}

// Kind distinguishes the payment paths a transaction can take.
type Kind uint8

const (
	KindSimple      Kind = 0
	KindEscrow      Kind = 1
	KindConditional Kind = 2
)

// Valid reports whether the kind value is within the supported range.
func (k Kind) Valid() bool {
	switch k {
	case KindSimple, KindEscrow, KindConditional:
		return true
	default:
		return false
	}
}

// String returns the canonical lowercase name for the kind.
func (k Kind) String() string {
	switch k {
	case KindSimple:
		return "simple"
	case KindEscrow:
		return "escrow"
	case KindConditional:
		return "conditional"
	default:
		return "unknown"
	}
}

// Transaction is a single entry in the orchestrator's append-only log. The id
// and amount are immutable after creation; status transitions are the only
// mutation and entries are never deleted.
type Transaction struct {
	ID        string
	Payer     [20]byte
	Payee     [20]byte
	Amount    *big.Int
	Status    Status
	Kind      Kind
	CreatedAt uint64
}

// Clone returns a deep copy of the transaction record.
func (t *Transaction) Clone() *Transaction {
	if t == nil {
		return nil
	}
	clone := *t
	if t.Amount != nil {
		clone.Amount = new(big.Int).Set(t.Amount)
	} else {
		clone.Amount = big.NewInt(0)
	}
	return &clone
}

// Sanitize validates the record and returns a normalised clone.
func Sanitize(t *Transaction) (*Transaction, error) {
	if t == nil {
		return nil, ErrTransactionNotFound
	}
	clone := t.Clone()
	clone.ID = strings.TrimSpace(clone.ID)
	if clone.ID == "" {
		return nil, ErrTransactionNotFound
	}
	if clone.Amount == nil || clone.Amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	if !clone.Status.Valid() || !clone.Kind.Valid() {
		return nil, ErrTransactionNotFound
	}
	return clone, nil
}
