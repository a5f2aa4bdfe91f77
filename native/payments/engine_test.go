package payments

import (
	"bytes"
	"errors"
	"math/big"
	"testing"

	"paywow/core/clock"
	"paywow/core/events"
	"paywow/core/identity"
	"paywow/core/types"
	"paywow/native/bank"
	"paywow/native/dispute"
	"paywow/native/escrow"
	"paywow/native/loyalty"
)

type mockState struct {
	txs       map[string]*Transaction
	collected *big.Int
}

func newMockState() *mockState {
	return &mockState{txs: make(map[string]*Transaction), collected: big.NewInt(0)}
}

func (m *mockState) TransactionPut(tx *Transaction) error {
	m.txs[tx.ID] = tx.Clone()
	return nil
}

func (m *mockState) TransactionGet(id string) (*Transaction, bool, error) {
	tx, ok := m.txs[id]
	if !ok {
		return nil, false, nil
	}
	return tx.Clone(), true, nil
}

func (m *mockState) CollectedFees() (*big.Int, error) {
	return new(big.Int).Set(m.collected), nil
}

func (m *mockState) SetCollectedFees(total *big.Int) error {
	m.collected = new(big.Int).Set(total)
	return nil
}

type escrowState struct {
	escrows map[string]*escrow.Account
}

func (s *escrowState) EscrowPut(acc *escrow.Account) error {
	s.escrows[acc.ID] = acc.Clone()
	return nil
}

func (s *escrowState) EscrowGet(id string) (*escrow.Account, bool, error) {
	acc, ok := s.escrows[id]
	if !ok {
		return nil, false, nil
	}
	return acc.Clone(), true, nil
}

func (s *escrowState) EscrowRemove(id string) error {
	delete(s.escrows, id)
	return nil
}

type disputeState struct {
	disputes map[string]*dispute.Dispute
}

func (s *disputeState) DisputePut(d *dispute.Dispute) error {
	s.disputes[d.ID] = d.Clone()
	return nil
}

func (s *disputeState) DisputeGet(id string) (*dispute.Dispute, bool, error) {
	d, ok := s.disputes[id]
	if !ok {
		return nil, false, nil
	}
	return d.Clone(), true, nil
}

type loyaltyState struct {
	points  map[[20]byte]uint64
	rewards map[uint64]*loyalty.Reward
	count   uint64
}

func (s *loyaltyState) LoyaltyPoints(addr [20]byte) (uint64, error) { return s.points[addr], nil }

func (s *loyaltyState) SetLoyaltyPoints(addr [20]byte, points uint64) error {
	s.points[addr] = points
	return nil
}

func (s *loyaltyState) RemoveLoyaltyPoints(addr [20]byte) error {
	delete(s.points, addr)
	return nil
}

func (s *loyaltyState) LoyaltyRewardPut(reward *loyalty.Reward) error {
	s.rewards[reward.ReceiptID] = reward.Clone()
	return nil
}

func (s *loyaltyState) LoyaltyRewardGet(id uint64) (*loyalty.Reward, bool, error) {
	reward, ok := s.rewards[id]
	if !ok {
		return nil, false, nil
	}
	return reward.Clone(), true, nil
}

func (s *loyaltyState) LoyaltyRewardCount() (uint64, error) { return s.count, nil }

func (s *loyaltyState) SetLoyaltyRewardCount(count uint64) error {
	s.count = count
	return nil
}

type accountState struct {
	accounts map[[20]byte]*types.Account
}

func (s *accountState) GetAccount(addr [20]byte) (*types.Account, error) {
	acc, ok := s.accounts[addr]
	if !ok {
		return &types.Account{Balance: big.NewInt(0)}, nil
	}
	return &types.Account{Nonce: acc.Nonce, Balance: new(big.Int).Set(acc.Balance)}, nil
}

func (s *accountState) PutAccount(addr [20]byte, account *types.Account) error {
	s.accounts[addr] = &types.Account{Nonce: account.Nonce, Balance: new(big.Int).Set(account.Balance)}
	return nil
}

func newTestAddress(fill byte) [20]byte {
	var addr [20]byte
	copy(addr[:], bytes.Repeat([]byte{fill}, 20))
	return addr
}

type harness struct {
	engine  *Engine
	ledger  *bank.StateLedger
	loyalty *loyalty.Engine
	clock   *clock.Manual
	sink    *events.MemorySink
	owner   [20]byte
}

func newHarness(t *testing.T, platformBps uint32, funded map[[20]byte]int64) *harness {
	t.Helper()
	owner := newTestAddress(0xEE)
	sink := events.NewMemorySink(0)
	manual := clock.NewManual(0)

	accounts := &accountState{accounts: make(map[[20]byte]*types.Account)}
	ledger := bank.NewStateLedger(accounts, "WOW")
	for addr, amount := range funded {
		if err := ledger.Mint(addr, big.NewInt(amount)); err != nil {
			t.Fatalf("mint: %v", err)
		}
	}

	vault := escrow.NewVault()
	vault.SetState(&escrowState{escrows: make(map[string]*escrow.Account)})
	vault.SetLedger(ledger)
	vault.SetClock(manual)
	vault.SetEmitter(sink)

	registry := dispute.NewRegistry(owner, 1000)
	registry.SetState(&disputeState{disputes: make(map[string]*dispute.Dispute)})
	registry.SetClock(manual)
	registry.SetEmitter(sink)

	rewards := loyalty.NewEngine(owner)
	rewards.SetState(&loyaltyState{
		points:  make(map[[20]byte]uint64),
		rewards: make(map[uint64]*loyalty.Reward),
	})
	rewards.SetClock(manual)
	rewards.SetEmitter(sink)

	engine, err := NewEngine(Config{Owner: owner, PlatformFeeBps: platformBps, Asset: "WOW"})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	engine.SetState(newMockState())
	engine.SetVault(vault)
	engine.SetDisputes(registry)
	engine.SetLoyalty(rewards)
	engine.SetLedger(ledger)
	engine.SetClock(manual)
	engine.SetEmitter(sink)
	engine.SetVerifier(identity.StrictVerifier{})

	return &harness{engine: engine, ledger: ledger, loyalty: rewards, clock: manual, sink: sink, owner: owner}
}

func (h *harness) balance(t *testing.T, addr [20]byte) int64 {
	t.Helper()
	got, err := h.ledger.BalanceOf("WOW", addr)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	return got.Int64()
}

func (h *harness) hasEvent(eventType string) bool {
	for _, record := range h.sink.Records() {
		if record.Event != nil && record.Event.Type == eventType {
			return true
		}
	}
	return false
}

func TestProcessSimpleSettlesPrincipalFeesAndPoints(t *testing.T) {
	payer := newTestAddress(0x01)
	payee := newTestAddress(0x02)
	merchant := newTestAddress(0x03)
	h := newHarness(t, 100, map[[20]byte]int64{payer: 2000})

	tx, err := h.engine.ProcessSimple(payer, "tx-1", payer, payee, big.NewInt(1000), merchant, 200)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if tx.Status != StatusCompleted {
		t.Fatalf("status = %v, want completed", tx.Status)
	}
	if got := h.balance(t, payee); got != 1000 {
		t.Fatalf("payee balance = %d, want 1000", got)
	}
	if got := h.balance(t, h.owner); got != 10 {
		t.Fatalf("owner balance = %d, want 10", got)
	}
	if got := h.balance(t, merchant); got != 20 {
		t.Fatalf("merchant balance = %d, want 20", got)
	}
	if got := h.balance(t, payer); got != 970 {
		t.Fatalf("payer balance = %d, want 970", got)
	}
	collected, err := h.engine.CollectedFees()
	if err != nil {
		t.Fatalf("collected: %v", err)
	}
	if collected.Int64() != 10 {
		t.Fatalf("collected fees = %s, want 10", collected)
	}
	points, err := h.loyalty.Points(payer)
	if err != nil {
		t.Fatalf("points: %v", err)
	}
	if points != 10 {
		t.Fatalf("points = %d, want 10", points)
	}
}

func TestProcessSimpleInsufficientFundsLeavesNoTrace(t *testing.T) {
	payer := newTestAddress(0x01)
	payee := newTestAddress(0x02)
	h := newHarness(t, 100, map[[20]byte]int64{payer: 1000})

	// 1000 principal + 10 platform fee exceeds the 1000 balance.
	_, err := h.engine.ProcessSimple(payer, "tx-1", payer, payee, big.NewInt(1000), payee, 0)
	if !errors.Is(err, bank.ErrInsufficientBalance) {
		t.Fatalf("err = %v, want ErrInsufficientBalance", err)
	}
	if got := h.balance(t, payer); got != 1000 {
		t.Fatalf("payer balance = %d, want 1000 untouched", got)
	}
	if got := h.balance(t, payee); got != 0 {
		t.Fatalf("payee balance = %d, want 0", got)
	}
	if _, err := h.engine.Get("tx-1"); !errors.Is(err, ErrTransactionNotFound) {
		t.Fatalf("get err = %v, want ErrTransactionNotFound", err)
	}
	points, _ := h.loyalty.Points(payer)
	if points != 0 {
		t.Fatalf("points = %d, want 0 after aborted payment", points)
	}
}

func TestProcessSimpleRejectsFeeReachingPrincipal(t *testing.T) {
	payer := newTestAddress(0x01)
	payee := newTestAddress(0x02)
	h := newHarness(t, 5000, map[[20]byte]int64{payer: 10_000})

	if _, err := h.engine.ProcessSimple(payer, "tx-1", payer, payee, big.NewInt(100), payee, 5000); err == nil {
		t.Fatal("expected fee validation error")
	}
	if got := h.balance(t, payer); got != 10_000 {
		t.Fatalf("payer balance = %d, want 10000 untouched", got)
	}
}

func TestProcessSimpleRejectsDuplicateID(t *testing.T) {
	payer := newTestAddress(0x01)
	payee := newTestAddress(0x02)
	h := newHarness(t, 0, map[[20]byte]int64{payer: 5000})

	if _, err := h.engine.ProcessSimple(payer, "tx-1", payer, payee, big.NewInt(100), payee, 0); err != nil {
		t.Fatalf("process: %v", err)
	}
	if _, err := h.engine.ProcessSimple(payer, "tx-1", payer, payee, big.NewInt(100), payee, 0); !errors.Is(err, ErrDuplicateTransaction) {
		t.Fatalf("err = %v, want ErrDuplicateTransaction", err)
	}
}

func TestProcessSimpleRequiresPayerAuthority(t *testing.T) {
	payer := newTestAddress(0x01)
	payee := newTestAddress(0x02)
	h := newHarness(t, 0, map[[20]byte]int64{payer: 5000})

	if _, err := h.engine.ProcessSimple(payee, "tx-1", payer, payee, big.NewInt(100), payee, 0); !errors.Is(err, identity.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestEscrowLifecycleRelease(t *testing.T) {
	payer := newTestAddress(0x01)
	payee := newTestAddress(0x02)
	h := newHarness(t, 100, map[[20]byte]int64{payer: 5000})

	tx, err := h.engine.ProcessEscrow(payer, "tx-1", payer, payee, big.NewInt(1000), 50)
	if err != nil {
		t.Fatalf("process escrow: %v", err)
	}
	if tx.Status != StatusEscrowHeld {
		t.Fatalf("status = %v, want escrow_held", tx.Status)
	}

	if err := h.engine.ReleaseEscrow("tx-1", payee); !errors.Is(err, escrow.ErrFundsLocked) {
		t.Fatalf("early release err = %v, want ErrFundsLocked", err)
	}

	h.clock.Set(50)
	if err := h.engine.ReleaseEscrow("tx-1", payee); err != nil {
		t.Fatalf("release: %v", err)
	}
	if got := h.balance(t, payee); got != 1000 {
		t.Fatalf("payee balance = %d, want 1000", got)
	}
	settled, err := h.engine.Get("tx-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if settled.Status != StatusCompleted {
		t.Fatalf("status = %v, want completed", settled.Status)
	}

	if err := h.engine.ReleaseEscrow("tx-1", payee); !errors.Is(err, escrow.ErrNotFound) {
		t.Fatalf("double release err = %v, want ErrNotFound", err)
	}
}

func TestEscrowLifecycleRefund(t *testing.T) {
	payer := newTestAddress(0x01)
	payee := newTestAddress(0x02)
	h := newHarness(t, 100, map[[20]byte]int64{payer: 5000})

	if _, err := h.engine.ProcessEscrow(payer, "tx-1", payer, payee, big.NewInt(1000), 50); err != nil {
		t.Fatalf("process escrow: %v", err)
	}
	if err := h.engine.RefundEscrow(payer, "tx-1"); err != nil {
		t.Fatalf("refund: %v", err)
	}
	if got := h.balance(t, payer); got != 5000 {
		t.Fatalf("payer balance = %d, want 5000", got)
	}
	refunded, err := h.engine.Get("tx-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if refunded.Status != StatusRefunded {
		t.Fatalf("status = %v, want refunded", refunded.Status)
	}

	h.clock.Set(50)
	if err := h.engine.ReleaseEscrow("tx-1", payee); !errors.Is(err, escrow.ErrNotFound) {
		t.Fatalf("release after refund err = %v, want ErrNotFound", err)
	}
}

func TestFileDisputeUsesLoggedAmount(t *testing.T) {
	payer := newTestAddress(0x01)
	payee := newTestAddress(0x02)
	h := newHarness(t, 0, map[[20]byte]int64{payer: 5000})

	if _, err := h.engine.ProcessSimple(payer, "tx-1", payer, payee, big.NewInt(1000), payee, 0); err != nil {
		t.Fatalf("process: %v", err)
	}
	d, err := h.engine.FileDispute(payer, "tx-1", payer, payee, "not as described", "")
	if err != nil {
		t.Fatalf("file: %v", err)
	}
	if d.Amount.Int64() != 1000 {
		t.Fatalf("dispute amount = %s, want the logged 1000", d.Amount)
	}
	disputed, _ := h.engine.Get("tx-1")
	if disputed.Status != StatusDisputed {
		t.Fatalf("status = %v, want disputed", disputed.Status)
	}
}

func TestFileDisputeUnknownTransaction(t *testing.T) {
	payer := newTestAddress(0x01)
	h := newHarness(t, 0, nil)

	if _, err := h.engine.FileDispute(payer, "missing", payer, newTestAddress(0x02), "r", ""); !errors.Is(err, ErrTransactionNotFound) {
		t.Fatalf("err = %v, want ErrTransactionNotFound", err)
	}
}

func TestResolveDisputeForClaimantMarksRefunded(t *testing.T) {
	payer := newTestAddress(0x01)
	payee := newTestAddress(0x02)
	h := newHarness(t, 0, map[[20]byte]int64{payer: 5000})

	if _, err := h.engine.ProcessSimple(payer, "tx-1", payer, payee, big.NewInt(1000), payee, 0); err != nil {
		t.Fatalf("process: %v", err)
	}
	if _, err := h.engine.FileDispute(payer, "tx-1", payer, payee, "r", ""); err != nil {
		t.Fatalf("file: %v", err)
	}
	if _, err := h.engine.ResolveDispute(h.owner, "tx-1", true); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	tx, _ := h.engine.Get("tx-1")
	if tx.Status != StatusRefunded {
		t.Fatalf("status = %v, want refunded", tx.Status)
	}

	if _, err := h.engine.ResolveDispute(h.owner, "tx-1", false); !errors.Is(err, dispute.ErrAlreadyResolved) {
		t.Fatalf("second resolve err = %v, want ErrAlreadyResolved", err)
	}
}

func TestResolveDisputeForRespondentMarksCompleted(t *testing.T) {
	payer := newTestAddress(0x01)
	payee := newTestAddress(0x02)
	h := newHarness(t, 0, map[[20]byte]int64{payer: 5000})

	if _, err := h.engine.ProcessSimple(payer, "tx-1", payer, payee, big.NewInt(1000), payee, 0); err != nil {
		t.Fatalf("process: %v", err)
	}
	if _, err := h.engine.FileDispute(payer, "tx-1", payer, payee, "r", ""); err != nil {
		t.Fatalf("file: %v", err)
	}
	if _, err := h.engine.ResolveDispute(h.owner, "tx-1", false); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	tx, _ := h.engine.Get("tx-1")
	if tx.Status != StatusCompleted {
		t.Fatalf("status = %v, want completed", tx.Status)
	}
}

func TestRefundDisputeOnTimeout(t *testing.T) {
	payer := newTestAddress(0x01)
	payee := newTestAddress(0x02)
	h := newHarness(t, 0, map[[20]byte]int64{payer: 5000})

	if _, err := h.engine.ProcessSimple(payer, "tx-1", payer, payee, big.NewInt(1000), payee, 0); err != nil {
		t.Fatalf("process: %v", err)
	}
	if _, err := h.engine.FileDispute(payer, "tx-1", payer, payee, "r", ""); err != nil {
		t.Fatalf("file: %v", err)
	}
	if _, err := h.engine.RefundDisputeOnTimeout("tx-1"); !errors.Is(err, dispute.ErrNotYetResolvable) {
		t.Fatalf("early refund err = %v, want ErrNotYetResolvable", err)
	}
	h.clock.Set(1000)
	if _, err := h.engine.RefundDisputeOnTimeout("tx-1"); err != nil {
		t.Fatalf("refund: %v", err)
	}
	tx, _ := h.engine.Get("tx-1")
	if tx.Status != StatusRefunded {
		t.Fatalf("status = %v, want refunded", tx.Status)
	}
	if _, err := h.engine.RefundDisputeOnTimeout("tx-1"); !errors.Is(err, dispute.ErrAlreadyResolved) {
		t.Fatalf("second refund err = %v, want ErrAlreadyResolved", err)
	}
}

func TestWithdrawFees(t *testing.T) {
	payer := newTestAddress(0x01)
	payee := newTestAddress(0x02)
	treasury := newTestAddress(0x04)
	h := newHarness(t, 100, map[[20]byte]int64{payer: 5000})

	if _, err := h.engine.ProcessSimple(payer, "tx-1", payer, payee, big.NewInt(1000), payee, 0); err != nil {
		t.Fatalf("process: %v", err)
	}
	if err := h.engine.WithdrawFees(h.owner, treasury, big.NewInt(10)); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if got := h.balance(t, treasury); got != 10 {
		t.Fatalf("treasury balance = %d, want 10", got)
	}
	collected, _ := h.engine.CollectedFees()
	if collected.Sign() != 0 {
		t.Fatalf("collected = %s, want 0", collected)
	}
	if err := h.engine.WithdrawFees(h.owner, treasury, big.NewInt(1)); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("over-withdraw err = %v, want ErrInvalidAmount", err)
	}
}

func TestWithdrawFeesRequiresOwner(t *testing.T) {
	stranger := newTestAddress(0x05)
	h := newHarness(t, 100, nil)

	if err := h.engine.WithdrawFees(stranger, stranger, big.NewInt(1)); !errors.Is(err, identity.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestLoyaltyAwardFailureIsBestEffort(t *testing.T) {
	payer := newTestAddress(0x01)
	payee := newTestAddress(0x02)
	h := newHarness(t, 0, map[[20]byte]int64{payer: 5000})

	// Rewire loyalty with a different administrator so the award is refused.
	broken := loyalty.NewEngine(newTestAddress(0x09))
	broken.SetState(&loyaltyState{
		points:  make(map[[20]byte]uint64),
		rewards: make(map[uint64]*loyalty.Reward),
	})
	h.engine.SetLoyalty(broken)

	tx, err := h.engine.ProcessSimple(payer, "tx-1", payer, payee, big.NewInt(1000), payee, 0)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if tx.Status != StatusCompleted {
		t.Fatalf("status = %v, want completed despite failed award", tx.Status)
	}
	if !h.hasEvent(events.TypeLoyaltyAwardFailed) {
		t.Fatal("expected a loyalty award failure event")
	}
}

func TestAmountBelowDivisorEarnsNoPoints(t *testing.T) {
	payer := newTestAddress(0x01)
	payee := newTestAddress(0x02)
	h := newHarness(t, 0, map[[20]byte]int64{payer: 5000})

	if _, err := h.engine.ProcessSimple(payer, "tx-1", payer, payee, big.NewInt(99), payee, 0); err != nil {
		t.Fatalf("process: %v", err)
	}
	points, _ := h.loyalty.Points(payer)
	if points != 0 {
		t.Fatalf("points = %d, want 0 for sub-divisor amount", points)
	}
	total, _ := h.loyalty.TotalRewards()
	if total != 0 {
		t.Fatalf("rewards issued = %d, want 0", total)
	}
}
