// Package state persists every keyed entity table behind the engines' state
// interfaces. Records are RLP-encoded and stored under keccak-derived keys so
// backends remain oblivious to entity structure. Each key space is written by
// exactly one component; cross-component reads go through that component's
// public operations, never through this package directly.
package state

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"paywow/core/types"
	"paywow/storage"
)

var (
	accountPrefix         = []byte("account:")
	transactionPrefix     = []byte("payments:tx:")
	collectedFeesKeyRaw   = []byte("payments:collected-fees")
	escrowPrefix          = []byte("escrow:account:")
	disputePrefix         = []byte("dispute:record:")
	loyaltyPointsPrefix   = []byte("loyalty:points:")
	loyaltyRewardPrefix   = []byte("loyalty:reward:")
	loyaltyRewardCountKey = []byte("loyalty:reward-count")

	errNilRecord       = errors.New("state: nil record")
	errEmptyIdentifier = errors.New("state: empty identifier")
)

// Manager persists the keyed entity tables on top of a storage.Database.
type Manager struct {
	db storage.Database
}

// NewManager wraps the given database.
func NewManager(db storage.Database) *Manager {
	return &Manager{db: db}
}

func prefixedKey(prefix []byte, suffix []byte) []byte {
	buf := make([]byte, 0, len(prefix)+len(suffix))
	buf = append(buf, prefix...)
	buf = append(buf, suffix...)
	return ethcrypto.Keccak256(buf)
}

func stringKey(prefix []byte, id string) ([]byte, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return nil, errEmptyIdentifier
	}
	return prefixedKey(prefix, []byte(trimmed)), nil
}

func (m *Manager) getRLP(key []byte, out interface{}) (bool, error) {
	raw, err := m.db.Get(key)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := rlp.DecodeBytes(raw, out); err != nil {
		return false, fmt.Errorf("state: decode record: %w", err)
	}
	return true, nil
}

func (m *Manager) putRLP(key []byte, record interface{}) error {
	encoded, err := rlp.EncodeToBytes(record)
	if err != nil {
		return fmt.Errorf("state: encode record: %w", err)
	}
	return m.db.Put(key, encoded)
}

// --- Accounts (bank ledger key space) ---

type storedAccount struct {
	Nonce   uint64
	Balance *big.Int
}

// GetAccount loads the balance record for the address, returning a zeroed
// account when none is stored yet.
func (m *Manager) GetAccount(addr [20]byte) (*types.Account, error) {
	key := prefixedKey(accountPrefix, addr[:])
	var stored storedAccount
	ok, err := m.getRLP(key, &stored)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &types.Account{Balance: big.NewInt(0)}, nil
	}
	balance := big.NewInt(0)
	if stored.Balance != nil {
		balance = new(big.Int).Set(stored.Balance)
	}
	return &types.Account{Nonce: stored.Nonce, Balance: balance}, nil
}

// PutAccount stores the balance record for the address.
func (m *Manager) PutAccount(addr [20]byte, account *types.Account) error {
	if account == nil {
		return errNilRecord
	}
	balance := big.NewInt(0)
	if account.Balance != nil {
		balance = new(big.Int).Set(account.Balance)
	}
	if balance.Sign() < 0 {
		return fmt.Errorf("state: negative balance")
	}
	key := prefixedKey(accountPrefix, addr[:])
	return m.putRLP(key, &storedAccount{Nonce: account.Nonce, Balance: balance})
}
