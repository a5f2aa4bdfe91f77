package core

import (
	"errors"
	"math/big"
	"testing"

	"paywow/core/clock"
	"paywow/core/state"
	"paywow/native/dispute"
	"paywow/native/escrow"
	"paywow/native/loyalty"
	"paywow/native/payments"
	"paywow/storage"
)

func newTestAddress(fill byte) [20]byte {
	var addr [20]byte
	for i := range addr {
		addr[i] = fill
	}
	return addr
}

func newTestNode(t *testing.T) (*Node, *clock.Manual, [20]byte) {
	t.Helper()
	owner := newTestAddress(0xEE)
	db := storage.NewMemDB()
	t.Cleanup(db.Close)
	manual := clock.NewManual(0)
	node, err := NewNode(Params{
		State:         state.NewManager(db),
		Clock:         manual,
		Owner:         owner,
		Asset:         "WOW",
		PlatformBps:   100,
		DisputeWindow: 1000,
	})
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	return node, manual, owner
}

func TestSimplePaymentEndToEnd(t *testing.T) {
	node, _, owner := newTestNode(t)
	payer := newTestAddress(0x01)
	payee := newTestAddress(0x02)
	merchant := newTestAddress(0x03)
	if err := node.Mint(payer, big.NewInt(2000)); err != nil {
		t.Fatalf("mint: %v", err)
	}

	tx, err := node.ProcessSimple(payer, "tx-1", payer, payee, big.NewInt(1000), merchant, 200)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if tx.Status != payments.StatusCompleted {
		t.Fatalf("status = %v, want completed", tx.Status)
	}

	check := func(addr [20]byte, want int64) {
		t.Helper()
		got, err := node.Balance(addr)
		if err != nil {
			t.Fatalf("balance: %v", err)
		}
		if got.Int64() != want {
			t.Fatalf("balance = %s, want %d", got, want)
		}
	}
	check(payee, 1000)
	check(owner, 10)
	check(merchant, 20)
	check(payer, 970)

	points, err := node.LoyaltyPoints(payer)
	if err != nil {
		t.Fatalf("points: %v", err)
	}
	if points != 10 {
		t.Fatalf("points = %d, want 10", points)
	}
	collected, err := node.CollectedFees()
	if err != nil {
		t.Fatalf("collected: %v", err)
	}
	if collected.Int64() != 10 {
		t.Fatalf("collected = %s, want 10", collected)
	}
	if node.Events() == nil || len(node.Events()) == 0 {
		t.Fatal("expected audit events from the payment")
	}
}

func TestEscrowDisputeTimeoutEndToEnd(t *testing.T) {
	node, manual, _ := newTestNode(t)
	payer := newTestAddress(0x01)
	payee := newTestAddress(0x02)
	if err := node.Mint(payer, big.NewInt(5000)); err != nil {
		t.Fatalf("mint: %v", err)
	}

	if _, err := node.ProcessEscrow(payer, "tx-1", payer, payee, big.NewInt(1000), 500); err != nil {
		t.Fatalf("process escrow: %v", err)
	}
	if !node.EscrowIsLocked("tx-1") {
		t.Fatal("escrow should be locked at tick 0")
	}

	manual.Set(200)
	if _, err := node.FileDispute(payer, "tx-1", payer, payee, "item not received", ""); err != nil {
		t.Fatalf("file dispute: %v", err)
	}
	record, err := node.GetDispute("tx-1")
	if err != nil {
		t.Fatalf("get dispute: %v", err)
	}
	if record.ResolutionDeadline != 1200 {
		t.Fatalf("deadline = %d, want 1200", record.ResolutionDeadline)
	}

	manual.Set(1199)
	if node.DisputeIsResolvable("tx-1") {
		t.Fatal("dispute should not be resolvable at tick 1199")
	}
	if _, err := node.RefundDisputeOnTimeout("tx-1"); !errors.Is(err, dispute.ErrNotYetResolvable) {
		t.Fatalf("err = %v, want ErrNotYetResolvable", err)
	}

	manual.Set(1200)
	refunded, err := node.RefundDisputeOnTimeout("tx-1")
	if err != nil {
		t.Fatalf("timeout refund: %v", err)
	}
	if refunded.Status != dispute.StatusRefunded {
		t.Fatalf("dispute status = %v, want refunded", refunded.Status)
	}
	tx, err := node.GetTransaction("tx-1")
	if err != nil {
		t.Fatalf("get tx: %v", err)
	}
	if tx.Status != payments.StatusRefunded {
		t.Fatalf("tx status = %v, want refunded", tx.Status)
	}

	if _, err := node.ResolveDispute(newTestAddress(0xEE), "tx-1", true); !errors.Is(err, dispute.ErrAlreadyResolved) {
		t.Fatalf("resolve after timeout err = %v, want ErrAlreadyResolved", err)
	}
}

func TestEscrowReleaseEndToEnd(t *testing.T) {
	node, manual, _ := newTestNode(t)
	payer := newTestAddress(0x01)
	payee := newTestAddress(0x02)
	if err := node.Mint(payer, big.NewInt(5000)); err != nil {
		t.Fatalf("mint: %v", err)
	}

	if _, err := node.ProcessEscrow(payer, "tx-1", payer, payee, big.NewInt(1000), 500); err != nil {
		t.Fatalf("process escrow: %v", err)
	}
	if err := node.ReleaseEscrow("tx-1", payee); !errors.Is(err, escrow.ErrFundsLocked) {
		t.Fatalf("early release err = %v, want ErrFundsLocked", err)
	}

	manual.Set(500)
	if err := node.ReleaseEscrow("tx-1", payee); err != nil {
		t.Fatalf("release: %v", err)
	}
	balance, err := node.Balance(payee)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance.Int64() != 1000 {
		t.Fatalf("payee balance = %s, want 1000", balance)
	}
	if _, err := node.GetEscrow("tx-1"); !errors.Is(err, escrow.ErrNotFound) {
		t.Fatalf("escrow record after release err = %v, want ErrNotFound", err)
	}
}

func TestLoyaltyRedeemEndToEnd(t *testing.T) {
	node, _, owner := newTestNode(t)
	payer := newTestAddress(0x01)
	payee := newTestAddress(0x02)
	if err := node.Mint(payer, big.NewInt(500_000)); err != nil {
		t.Fatalf("mint: %v", err)
	}

	if _, err := node.ProcessSimple(payer, "tx-1", payer, payee, big.NewInt(120_000), payee, 0); err != nil {
		t.Fatalf("process: %v", err)
	}
	points, _ := node.LoyaltyPoints(payer)
	if points != 1200 {
		t.Fatalf("points = %d, want 1200", points)
	}
	tier, err := node.LoyaltyTier(payer)
	if err != nil {
		t.Fatalf("tier: %v", err)
	}
	if tier != loyalty.TierSilver {
		t.Fatalf("tier = %v, want silver", tier)
	}

	if err := node.RedeemLoyaltyPoints(owner, payer, 1000); err != nil {
		t.Fatalf("redeem: %v", err)
	}
	points, _ = node.LoyaltyPoints(payer)
	if points != 200 {
		t.Fatalf("points = %d, want 200", points)
	}

	total, err := node.LoyaltyTotalRewards()
	if err != nil {
		t.Fatalf("total rewards: %v", err)
	}
	if total != 1 {
		t.Fatalf("total rewards = %d, want 1", total)
	}
	reward, err := node.LoyaltyReward(1)
	if err != nil {
		t.Fatalf("reward: %v", err)
	}
	if reward.PointsEarned != 1200 {
		t.Fatalf("reward points = %d, want 1200", reward.PointsEarned)
	}
}
