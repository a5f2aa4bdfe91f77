package state

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"paywow/core/types"
	"paywow/native/dispute"
	"paywow/native/escrow"
	"paywow/native/loyalty"
	"paywow/native/payments"
	"paywow/storage"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	db := storage.NewMemDB()
	t.Cleanup(db.Close)
	return NewManager(db)
}

func testAddr(fill byte) [20]byte {
	var addr [20]byte
	for i := range addr {
		addr[i] = fill
	}
	return addr
}

func TestAccountRoundTrip(t *testing.T) {
	manager := newTestManager(t)
	addr := testAddr(0x01)

	acc, err := manager.GetAccount(addr)
	require.NoError(t, err)
	require.Equal(t, uint64(0), acc.Nonce)
	require.Zero(t, acc.Balance.Sign())

	acc.Nonce = 7
	acc.Balance = big.NewInt(12345)
	require.NoError(t, manager.PutAccount(addr, acc))

	loaded, err := manager.GetAccount(addr)
	require.NoError(t, err)
	require.Equal(t, uint64(7), loaded.Nonce)
	require.Equal(t, int64(12345), loaded.Balance.Int64())
}

func TestPutAccountRejectsNegativeBalance(t *testing.T) {
	manager := newTestManager(t)

	err := manager.PutAccount(testAddr(0x01), &types.Account{Balance: big.NewInt(-1)})
	require.Error(t, err)
}

func TestTransactionRoundTrip(t *testing.T) {
	manager := newTestManager(t)

	_, ok, err := manager.TransactionGet("tx-1")
	require.NoError(t, err)
	require.False(t, ok)

	tx := &payments.Transaction{
		ID:        "tx-1",
		Payer:     testAddr(0x01),
		Payee:     testAddr(0x02),
		Amount:    big.NewInt(1000),
		Status:    payments.StatusEscrowHeld,
		Kind:      payments.KindEscrow,
		CreatedAt: 99,
	}
	require.NoError(t, manager.TransactionPut(tx))

	loaded, ok, err := manager.TransactionGet("tx-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, tx.ID, loaded.ID)
	require.Equal(t, tx.Payer, loaded.Payer)
	require.Equal(t, tx.Payee, loaded.Payee)
	require.Zero(t, tx.Amount.Cmp(loaded.Amount))
	require.Equal(t, payments.StatusEscrowHeld, loaded.Status)
	require.Equal(t, payments.KindEscrow, loaded.Kind)
	require.Equal(t, uint64(99), loaded.CreatedAt)
}

func TestCollectedFeesDefaultsToZero(t *testing.T) {
	manager := newTestManager(t)

	collected, err := manager.CollectedFees()
	require.NoError(t, err)
	require.Zero(t, collected.Sign())

	require.NoError(t, manager.SetCollectedFees(big.NewInt(42)))
	collected, err = manager.CollectedFees()
	require.NoError(t, err)
	require.Equal(t, int64(42), collected.Int64())
}

func TestEscrowRoundTripAndRemove(t *testing.T) {
	manager := newTestManager(t)

	acc := &escrow.Account{
		ID:          "esc-1",
		Owner:       testAddr(0x01),
		Asset:       "WOW",
		Balance:     big.NewInt(500),
		LockedUntil: 200,
		CreatedAt:   100,
	}
	require.NoError(t, manager.EscrowPut(acc))

	loaded, ok, err := manager.EscrowGet("esc-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, acc.Owner, loaded.Owner)
	require.Equal(t, "WOW", loaded.Asset)
	require.Equal(t, uint64(200), loaded.LockedUntil)

	require.NoError(t, manager.EscrowRemove("esc-1"))
	_, ok, err = manager.EscrowGet("esc-1")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDisputeRoundTrip(t *testing.T) {
	manager := newTestManager(t)

	record := &dispute.Dispute{
		ID:                 "dsp-1",
		Claimant:           testAddr(0x01),
		Respondent:         testAddr(0x02),
		Amount:             big.NewInt(1000),
		Reason:             "item not received",
		Evidence:           "tracking-42",
		FiledAt:            200,
		ResolutionDeadline: 1200,
		Status:             dispute.StatusUnderReview,
		Recipient:          testAddr(0x01),
	}
	require.NoError(t, manager.DisputePut(record))

	loaded, ok, err := manager.DisputeGet("dsp-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, record.Reason, loaded.Reason)
	require.Equal(t, record.Evidence, loaded.Evidence)
	require.Equal(t, dispute.StatusUnderReview, loaded.Status)
	require.Equal(t, record.Recipient, loaded.Recipient)
	require.Equal(t, uint64(1200), loaded.ResolutionDeadline)
}

func TestLoyaltyPointsRoundTrip(t *testing.T) {
	manager := newTestManager(t)
	addr := testAddr(0x01)

	points, err := manager.LoyaltyPoints(addr)
	require.NoError(t, err)
	require.Zero(t, points)

	require.NoError(t, manager.SetLoyaltyPoints(addr, 1500))
	points, err = manager.LoyaltyPoints(addr)
	require.NoError(t, err)
	require.Equal(t, uint64(1500), points)

	require.NoError(t, manager.RemoveLoyaltyPoints(addr))
	points, err = manager.LoyaltyPoints(addr)
	require.NoError(t, err)
	require.Zero(t, points)
}

func TestLoyaltyRewardRoundTrip(t *testing.T) {
	manager := newTestManager(t)

	count, err := manager.LoyaltyRewardCount()
	require.NoError(t, err)
	require.Zero(t, count)

	reward := &loyalty.Reward{
		ReceiptID:     1,
		Owner:         testAddr(0x01),
		PointsEarned:  10,
		TotalPoints:   1010,
		Tier:          loyalty.TierSilver,
		TransactionID: "tx-1",
		IssuedAt:      99,
	}
	require.NoError(t, manager.LoyaltyRewardPut(reward))
	require.NoError(t, manager.SetLoyaltyRewardCount(1))

	loaded, ok, err := manager.LoyaltyRewardGet(1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, loyalty.TierSilver, loaded.Tier)
	require.Equal(t, "tx-1", loaded.TransactionID)
	require.Equal(t, uint64(1010), loaded.TotalPoints)

	count, err = manager.LoyaltyRewardCount()
	require.NoError(t, err)
	require.Equal(t, uint64(1), count)

	_, ok, err = manager.LoyaltyRewardGet(2)
	require.NoError(t, err)
	require.False(t, ok)
}
