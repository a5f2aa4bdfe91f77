// Package escrow implements the fund-holding vault. Records are keyed by
// transaction id and enforce lock-until-deadline plus at-most-once
// release/refund: a terminal transition removes the record, so any later
// release or refund call fails with ErrNotFound.
package escrow

import (
	"fmt"
	"math/big"
	"strings"

	"paywow/core/clock"
	"paywow/core/events"
	"paywow/core/identity"
	"paywow/native/bank"
)

type vaultState interface {
	EscrowPut(*Account) error
	EscrowGet(id string) (*Account, bool, error)
	EscrowRemove(id string) error
}

// Vault wires the escrow business logic with external state, the value
// transfer ledger and the event emitter.
type Vault struct {
	state   vaultState
	ledger  bank.Ledger
	auth    identity.Verifier
	clock   clock.Clock
	emitter events.Emitter
}

// NewVault creates an escrow vault with a no-op emitter and strict identity
// verification. Callers can override both via the setters.
func NewVault() *Vault {
	return &Vault{
		auth:    identity.StrictVerifier{},
		emitter: events.NoopEmitter{},
	}
}

// SetState configures the state backend used by the vault.
func (v *Vault) SetState(state vaultState) { v.state = state }

// SetLedger configures the value-transfer collaborator.
func (v *Vault) SetLedger(ledger bank.Ledger) { v.ledger = ledger }

// SetClock configures the logical clock used for lock comparisons.
func (v *Vault) SetClock(c clock.Clock) { v.clock = c }

// SetVerifier configures the identity verification collaborator. Passing nil
// resets the verifier to strict caller/principal matching.
func (v *Vault) SetVerifier(auth identity.Verifier) {
	if auth == nil {
		v.auth = identity.StrictVerifier{}
		return
	}
	v.auth = auth
}

// SetEmitter configures the event emitter used by the vault. Passing nil
// resets the emitter to a no-op implementation.
func (v *Vault) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		v.emitter = events.NoopEmitter{}
		return
	}
	v.emitter = emitter
}

func (v *Vault) emit(evt events.Event) {
	if v == nil || v.emitter == nil || evt == nil {
		return
	}
	v.emitter.Emit(evt)
}

func (v *Vault) tick() uint64 {
	if v == nil || v.clock == nil {
		return 0
	}
	return v.clock.Tick()
}

func (v *Vault) load(id string) (*Account, error) {
	if v == nil || v.state == nil {
		return nil, ErrNilState
	}
	acc, ok, err := v.state.EscrowGet(strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return acc, nil
}

// Create inserts a new locked-fund record. The caller must hold the owner's
// authority; an id with an active record is rejected.
func (v *Vault) Create(caller [20]byte, id string, owner [20]byte, asset string, amount *big.Int, lockedUntil uint64) (*Account, error) {
	if v == nil || v.state == nil {
		return nil, ErrNilState
	}
	if err := v.auth.RequireAuthorization(caller, owner); err != nil {
		return nil, err
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return nil, fmt.Errorf("escrow: id required")
	}
	if _, ok, err := v.state.EscrowGet(trimmed); err != nil {
		return nil, err
	} else if ok {
		return nil, ErrDuplicateID
	}
	acc := &Account{
		ID:          trimmed,
		Owner:       owner,
		Asset:       strings.ToUpper(strings.TrimSpace(asset)),
		Balance:     new(big.Int).Set(amount),
		LockedUntil: lockedUntil,
		CreatedAt:   v.tick(),
	}
	sanitized, err := Sanitize(acc)
	if err != nil {
		return nil, err
	}
	if err := v.state.EscrowPut(sanitized); err != nil {
		return nil, err
	}
	v.emit(events.EscrowCreated{
		ID:          sanitized.ID,
		Owner:       sanitized.Owner,
		Asset:       sanitized.Asset,
		Amount:      sanitized.Balance,
		LockedUntil: sanitized.LockedUntil,
		CreatedAt:   sanitized.CreatedAt,
	})
	return sanitized.Clone(), nil
}

// Release pays the full balance from the owner to the recipient once the lock
// deadline has passed, then removes the record. Removal makes the id
// unresolvable to any future release or refund call.
func (v *Vault) Release(id string, recipient [20]byte) error {
	acc, err := v.load(id)
	if err != nil {
		return err
	}
	if v.tick() < acc.LockedUntil {
		return ErrFundsLocked
	}
	if v.ledger == nil {
		return ErrNilLedger
	}
	if err := v.ledger.Transfer(acc.Asset, acc.Owner, recipient, acc.Balance); err != nil {
		return fmt.Errorf("escrow: release transfer: %w", err)
	}
	if err := v.state.EscrowRemove(acc.ID); err != nil {
		return err
	}
	v.emit(events.EscrowReleased{ID: acc.ID, Recipient: recipient, Amount: acc.Balance})
	return nil
}

// Refund returns the full balance to the owner and removes the record. Only
// the owner may refund. Mutually exclusive with Release: whichever executes
// first wins, the other subsequently observes ErrNotFound.
func (v *Vault) Refund(caller [20]byte, id string) error {
	acc, err := v.load(id)
	if err != nil {
		return err
	}
	if err := v.auth.RequireAuthorization(caller, acc.Owner); err != nil {
		return err
	}
	if v.ledger == nil {
		return ErrNilLedger
	}
	if err := v.ledger.Transfer(acc.Asset, acc.Owner, acc.Owner, acc.Balance); err != nil {
		return fmt.Errorf("escrow: refund transfer: %w", err)
	}
	if err := v.state.EscrowRemove(acc.ID); err != nil {
		return err
	}
	v.emit(events.EscrowRefunded{ID: acc.ID, Owner: acc.Owner, Amount: acc.Balance})
	return nil
}

// IsLocked reports whether the record exists and its lock deadline has not yet
// been reached. A missing id returns false, never an error.
func (v *Vault) IsLocked(id string) bool {
	acc, err := v.load(id)
	if err != nil {
		return false
	}
	return v.tick() < acc.LockedUntil
}

// Get returns the active record for the id.
func (v *Vault) Get(id string) (*Account, error) {
	acc, err := v.load(id)
	if err != nil {
		return nil, err
	}
	return acc.Clone(), nil
}
