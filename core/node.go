// Package core assembles the payment engines into a single node and
// serializes access to them. Every mutating operation runs to completion
// under one mutex, so no two operations ever interleave on the same keyed
// state; races like a double escrow release are excluded by construction, not
// by per-record locking.
package core

import (
	"fmt"
	"math/big"
	"sync"

	"paywow/core/clock"
	"paywow/core/events"
	"paywow/core/state"
	"paywow/native/bank"
	"paywow/native/dispute"
	"paywow/native/escrow"
	"paywow/native/loyalty"
	"paywow/native/payments"
	"paywow/observability"
)

// Params carries everything a node needs at construction. Construction fails
// closed when a required field is missing.
type Params struct {
	State         *state.Manager
	Clock         clock.Clock
	Owner         [20]byte
	Asset         string
	PlatformBps   uint32
	DisputeWindow uint64
	// EventCap bounds the in-memory audit sink; <= 0 means unbounded.
	EventCap int
}

// Node owns the wired engine graph and the audit sink.
type Node struct {
	mu sync.Mutex

	state    *state.Manager
	clock    clock.Clock
	ledger   *bank.StateLedger
	vault    *escrow.Vault
	disputes *dispute.Registry
	loyalty  *loyalty.Engine
	payments *payments.Engine
	sink     *events.MemorySink
}

// NewNode wires the engines against the shared state manager.
func NewNode(p Params) (*Node, error) {
	if p.State == nil {
		return nil, fmt.Errorf("core: state manager required")
	}
	if p.Clock == nil {
		return nil, fmt.Errorf("core: clock required")
	}
	if p.DisputeWindow == 0 {
		return nil, fmt.Errorf("core: dispute window required")
	}
	cfg := payments.Config{Owner: p.Owner, PlatformFeeBps: p.PlatformBps, Asset: p.Asset}
	engine, err := payments.NewEngine(cfg)
	if err != nil {
		return nil, err
	}
	sink := events.NewMemorySink(p.EventCap)
	ledger := bank.NewStateLedger(p.State, p.Asset)

	vault := escrow.NewVault()
	vault.SetState(p.State)
	vault.SetLedger(ledger)
	vault.SetClock(p.Clock)
	vault.SetEmitter(sink)

	registry := dispute.NewRegistry(p.Owner, p.DisputeWindow)
	registry.SetState(p.State)
	registry.SetClock(p.Clock)
	registry.SetEmitter(sink)

	points := loyalty.NewEngine(p.Owner)
	points.SetState(p.State)
	points.SetClock(p.Clock)
	points.SetEmitter(sink)

	engine.SetState(p.State)
	engine.SetVault(vault)
	engine.SetDisputes(registry)
	engine.SetLoyalty(points)
	engine.SetLedger(ledger)
	engine.SetClock(p.Clock)
	engine.SetEmitter(sink)

	return &Node{
		state:    p.State,
		clock:    p.Clock,
		ledger:   ledger,
		vault:    vault,
		disputes: registry,
		loyalty:  points,
		payments: engine,
		sink:     sink,
	}, nil
}

// --- Orchestrated operations (serialized) ---

func (n *Node) ProcessSimple(caller [20]byte, id string, payer, payee [20]byte, amount *big.Int, merchant [20]byte, merchantFeeBps uint32) (*payments.Transaction, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	tx, err := n.payments.ProcessSimple(caller, id, payer, payee, amount, merchant, merchantFeeBps)
	observability.SettlementMetrics().RecordOperation("process_simple", err)
	if err == nil && n.payments.Config().PlatformFeeBps > 0 {
		observability.SettlementMetrics().RecordFee()
	}
	return tx, err
}

func (n *Node) ProcessEscrow(caller [20]byte, id string, payer, payee [20]byte, amount *big.Int, lockedUntil uint64) (*payments.Transaction, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	tx, err := n.payments.ProcessEscrow(caller, id, payer, payee, amount, lockedUntil)
	observability.SettlementMetrics().RecordOperation("process_escrow", err)
	return tx, err
}

func (n *Node) ReleaseEscrow(id string, payee [20]byte) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	err := n.payments.ReleaseEscrow(id, payee)
	observability.SettlementMetrics().RecordOperation("release_escrow", err)
	return err
}

func (n *Node) RefundEscrow(caller [20]byte, id string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	err := n.payments.RefundEscrow(caller, id)
	observability.SettlementMetrics().RecordOperation("refund_escrow", err)
	return err
}

func (n *Node) FileDispute(caller [20]byte, id string, claimant, respondent [20]byte, reason, evidence string) (*dispute.Dispute, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	d, err := n.payments.FileDispute(caller, id, claimant, respondent, reason, evidence)
	if err == nil {
		observability.SettlementMetrics().RecordDispute("filed")
	}
	return d, err
}

func (n *Node) ResolveDispute(caller [20]byte, id string, refundClaimant bool) (*dispute.Dispute, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	d, err := n.payments.ResolveDispute(caller, id, refundClaimant)
	if err == nil {
		outcome := "resolved_respondent"
		if refundClaimant {
			outcome = "resolved_claimant"
		}
		observability.SettlementMetrics().RecordDispute(outcome)
	}
	return d, err
}

func (n *Node) MarkDisputeUnderReview(caller [20]byte, id string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.disputes.MarkUnderReview(caller, id)
}

func (n *Node) RefundDisputeOnTimeout(id string) (*dispute.Dispute, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	d, err := n.payments.RefundDisputeOnTimeout(id)
	if err == nil {
		observability.SettlementMetrics().RecordDispute("timeout_refunded")
	}
	return d, err
}

func (n *Node) WithdrawFees(caller, to [20]byte, amount *big.Int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.payments.WithdrawFees(caller, to, amount)
}

func (n *Node) RedeemLoyaltyPoints(caller, customer [20]byte, points uint64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.loyalty.RedeemPoints(caller, customer, points)
}

// Mint credits genesis or faucet funds. Exposed for bootstrap only; payment
// flows never mint.
func (n *Node) Mint(addr [20]byte, amount *big.Int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.ledger.Mint(addr, amount)
}

// --- Read accessors (serialized against mutations) ---

func (n *Node) GetTransaction(id string) (*payments.Transaction, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.payments.Get(id)
}

func (n *Node) GetEscrow(id string) (*escrow.Account, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.vault.Get(id)
}

func (n *Node) EscrowIsLocked(id string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.vault.IsLocked(id)
}

func (n *Node) GetDispute(id string) (*dispute.Dispute, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.disputes.Get(id)
}

func (n *Node) DisputeIsResolvable(id string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.disputes.IsResolvable(id)
}

func (n *Node) LoyaltyPoints(customer [20]byte) (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.loyalty.Points(customer)
}

func (n *Node) LoyaltyTier(customer [20]byte) (loyalty.Tier, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.loyalty.TierOf(customer)
}

func (n *Node) LoyaltyReward(id uint64) (*loyalty.Reward, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.loyalty.Reward(id)
}

func (n *Node) LoyaltyTotalRewards() (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.loyalty.TotalRewards()
}

func (n *Node) CollectedFees() (*big.Int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.payments.CollectedFees()
}

func (n *Node) Balance(addr [20]byte) (*big.Int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.ledger.BalanceOf(n.payments.Config().Asset, addr)
}

// Events returns the retained audit records in emission order.
func (n *Node) Events() []events.Record {
	return n.sink.Records()
}

// CurrentTick reports the logical clock position.
func (n *Node) CurrentTick() uint64 {
	return n.clock.Tick()
}

// PaymentsConfig returns the orchestrator configuration.
func (n *Node) PaymentsConfig() payments.Config {
	return n.payments.Config()
}

// DisputeWindow reports the configured resolution window in ticks.
func (n *Node) DisputeWindow() uint64 {
	return n.disputes.Window()
}
