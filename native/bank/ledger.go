// Package bank implements the fungible-value transfer collaborator consumed
// by the payment engines. The engines only see the Ledger interface; the
// account-backed implementation here is the reference ledger used by the node
// and by tests.
package bank

import (
	"fmt"
	"math/big"
	"strings"

	"paywow/core/types"
)

// Ledger is the value-transfer contract the payment engines depend on. Any
// transfer failure is fatal to the enclosing operation.
type Ledger interface {
	Transfer(asset string, from, to [20]byte, amount *big.Int) error
	BalanceOf(asset string, addr [20]byte) (*big.Int, error)
}

// State is the account persistence surface the ledger requires.
type State interface {
	GetAccount(addr [20]byte) (*types.Account, error)
	PutAccount(addr [20]byte, account *types.Account) error
}

// NormalizeAsset canonicalises an asset symbol and rejects unsupported ones.
func NormalizeAsset(symbol string, supported string) (string, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(symbol))
	if trimmed == "" || trimmed != strings.ToUpper(strings.TrimSpace(supported)) {
		return "", ErrAssetNotSupported
	}
	return trimmed, nil
}

// StateLedger moves balances between accounts persisted in the keyed store.
type StateLedger struct {
	state State
	asset string
}

// NewStateLedger creates a ledger for a single supported payment asset.
func NewStateLedger(state State, asset string) *StateLedger {
	return &StateLedger{state: state, asset: strings.ToUpper(strings.TrimSpace(asset))}
}

// Asset returns the supported asset symbol.
func (l *StateLedger) Asset() string { return l.asset }

func ensureAccount(acc *types.Account) *types.Account {
	if acc == nil {
		return &types.Account{Balance: big.NewInt(0)}
	}
	if acc.Balance == nil {
		acc.Balance = big.NewInt(0)
	}
	return acc
}

// Transfer moves amount from one account to another. A self-transfer is a
// no-op balance-wise but still validated.
func (l *StateLedger) Transfer(asset string, from, to [20]byte, amount *big.Int) error {
	if l == nil || l.state == nil {
		return ErrNilState
	}
	if _, err := NormalizeAsset(asset, l.asset); err != nil {
		return err
	}
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	if amount.Sign() == 0 {
		return nil
	}
	fromAcc, err := l.state.GetAccount(from)
	if err != nil {
		return fmt.Errorf("bank: load sender: %w", err)
	}
	fromAcc = ensureAccount(fromAcc)
	if fromAcc.Balance.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	if from == to {
		return nil
	}
	toAcc, err := l.state.GetAccount(to)
	if err != nil {
		return fmt.Errorf("bank: load recipient: %w", err)
	}
	toAcc = ensureAccount(toAcc)
	fromAcc.Balance = new(big.Int).Sub(fromAcc.Balance, amount)
	toAcc.Balance = new(big.Int).Add(toAcc.Balance, amount)
	if err := l.state.PutAccount(from, fromAcc); err != nil {
		return fmt.Errorf("bank: store sender: %w", err)
	}
	if err := l.state.PutAccount(to, toAcc); err != nil {
		return fmt.Errorf("bank: store recipient: %w", err)
	}
	return nil
}

// BalanceOf reports the current balance for the account.
func (l *StateLedger) BalanceOf(asset string, addr [20]byte) (*big.Int, error) {
	if l == nil || l.state == nil {
		return nil, ErrNilState
	}
	if _, err := NormalizeAsset(asset, l.asset); err != nil {
		return nil, err
	}
	acc, err := l.state.GetAccount(addr)
	if err != nil {
		return nil, err
	}
	acc = ensureAccount(acc)
	return new(big.Int).Set(acc.Balance), nil
}

// Mint credits freshly issued funds to an account. It exists for genesis
// funding and tests; the payment engines never mint.
func (l *StateLedger) Mint(addr [20]byte, amount *big.Int) error {
	if l == nil || l.state == nil {
		return ErrNilState
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	acc, err := l.state.GetAccount(addr)
	if err != nil {
		return err
	}
	acc = ensureAccount(acc)
	acc.Balance = new(big.Int).Add(acc.Balance, amount)
	return l.state.PutAccount(addr, acc)
}
