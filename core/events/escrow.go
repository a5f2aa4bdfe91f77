package events

import (
	"math/big"

	"paywow/core/types"
)

const (
	TypeEscrowCreated  = "escrow.created"
	TypeEscrowReleased = "escrow.released"
	TypeEscrowRefunded = "escrow.refunded"
)

// EscrowCreated is emitted when a new escrow record enters the active set.
type EscrowCreated struct {
	ID          string
	Owner       [20]byte
	Asset       string
	Amount      *big.Int
	LockedUntil uint64
	CreatedAt   uint64
}

func (EscrowCreated) EventType() string { return TypeEscrowCreated }

func (e EscrowCreated) Event() *types.Event {
	return &types.Event{
		Type: TypeEscrowCreated,
		Attributes: map[string]string{
			"id":          e.ID,
			"owner":       formatAddress(e.Owner),
			"asset":       e.Asset,
			"amount":      formatAmount(e.Amount),
			"lockedUntil": tickToString(e.LockedUntil),
			"createdAt":   tickToString(e.CreatedAt),
		},
	}
}

// EscrowReleased is emitted when escrowed funds are paid out to the recipient
// and the record leaves the active set.
type EscrowReleased struct {
	ID        string
	Recipient [20]byte
	Amount    *big.Int
}

func (EscrowReleased) EventType() string { return TypeEscrowReleased }

func (e EscrowReleased) Event() *types.Event {
	return &types.Event{
		Type: TypeEscrowReleased,
		Attributes: map[string]string{
			"id":        e.ID,
			"recipient": formatAddress(e.Recipient),
			"amount":    formatAmount(e.Amount),
		},
	}
}

// EscrowRefunded is emitted when escrowed funds return to the owner and the
// record leaves the active set.
type EscrowRefunded struct {
	ID     string
	Owner  [20]byte
	Amount *big.Int
}

func (EscrowRefunded) EventType() string { return TypeEscrowRefunded }

func (e EscrowRefunded) Event() *types.Event {
	return &types.Event{
		Type: TypeEscrowRefunded,
		Attributes: map[string]string{
			"id":     e.ID,
			"owner":  formatAddress(e.Owner),
			"amount": formatAmount(e.Amount),
		},
	}
}
