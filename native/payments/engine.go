// Package payments implements the payment orchestrator: the coordinator that
// drives a transaction through its lifecycle, computes and routes fees, and
// delegates fund holding and dispute bookkeeping to the vault and registry.
// The orchestrator exclusively owns the transaction log; it holds references
// into the other components' records, never copies of their state.
package payments

import (
	"fmt"
	"math/big"
	"strings"

	"paywow/core/clock"
	"paywow/core/events"
	"paywow/core/identity"
	"paywow/native/bank"
	"paywow/native/dispute"
	"paywow/native/escrow"
	"paywow/native/fees"
	"paywow/native/loyalty"
)

// LoyaltyDivisor converts a principal amount into loyalty points: one point
// per 100 units, floor-truncated.
const LoyaltyDivisor = 100

type engineState interface {
	TransactionPut(*Transaction) error
	TransactionGet(id string) (*Transaction, bool, error)
	CollectedFees() (*big.Int, error)
	SetCollectedFees(*big.Int) error
}

// Config carries the orchestrator-wide settings fixed at construction.
type Config struct {
	// Owner receives platform fees and administers disputes and loyalty.
	Owner [20]byte
	// PlatformFeeBps is the platform fee rate in basis points.
	PlatformFeeBps uint32
	// Asset is the payment asset reference handed to the vault and ledger.
	Asset string
}

// Validate fails closed when a required field is missing or out of range.
func (c Config) Validate() error {
	if c.Owner == ([20]byte{}) {
		return fmt.Errorf("payments: owner address required")
	}
	if c.PlatformFeeBps > fees.BpsDenominator {
		return fmt.Errorf("payments: platform fee bps out of range: %d", c.PlatformFeeBps)
	}
	if strings.TrimSpace(c.Asset) == "" {
		return fmt.Errorf("payments: payment asset required")
	}
	return nil
}

// Engine is the top-level payment coordinator.
type Engine struct {
	state    engineState
	vault    *escrow.Vault
	disputes *dispute.Registry
	loyalty  *loyalty.Engine
	ledger   bank.Ledger
	auth     identity.Verifier
	clock    clock.Clock
	emitter  events.Emitter
	cfg      Config
}

// NewEngine creates an orchestrator with the given configuration. The
// returned engine uses a no-op emitter and strict identity verification until
// overridden.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Asset = strings.ToUpper(strings.TrimSpace(cfg.Asset))
	return &Engine{
		auth:    identity.StrictVerifier{},
		emitter: events.NoopEmitter{},
		cfg:     cfg,
	}, nil
}

// SetState configures the transaction-log backend.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetVault configures the escrow collaborator.
func (e *Engine) SetVault(v *escrow.Vault) { e.vault = v }

// SetDisputes configures the dispute registry collaborator.
func (e *Engine) SetDisputes(r *dispute.Registry) { e.disputes = r }

// SetLoyalty configures the loyalty collaborator.
func (e *Engine) SetLoyalty(l *loyalty.Engine) { e.loyalty = l }

// SetLedger configures the value-transfer collaborator.
func (e *Engine) SetLedger(l bank.Ledger) { e.ledger = l }

// SetClock configures the logical clock stamped onto log entries.
func (e *Engine) SetClock(c clock.Clock) { e.clock = c }

// SetVerifier configures the identity verification collaborator. Passing nil
// resets the verifier to strict caller/principal matching.
func (e *Engine) SetVerifier(auth identity.Verifier) {
	if auth == nil {
		e.auth = identity.StrictVerifier{}
		return
	}
	e.auth = auth
}

// SetEmitter configures the event emitter. Passing nil resets the emitter to
// a no-op implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// Config returns the orchestrator configuration.
func (e *Engine) Config() Config { return e.cfg }

func (e *Engine) emit(evt events.Event) {
	if e == nil || e.emitter == nil || evt == nil {
		return
	}
	e.emitter.Emit(evt)
}

func (e *Engine) tick() uint64 {
	if e == nil || e.clock == nil {
		return 0
	}
	return e.clock.Tick()
}

func (e *Engine) loadTransaction(id string) (*Transaction, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	tx, ok, err := e.state.TransactionGet(strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrTransactionNotFound
	}
	return tx, nil
}

func (e *Engine) ensureNewTransaction(id string) (string, error) {
	if e == nil || e.state == nil {
		return "", ErrNilState
	}
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return "", fmt.Errorf("payments: transaction id required")
	}
	if _, ok, err := e.state.TransactionGet(trimmed); err != nil {
		return "", err
	} else if ok {
		return "", ErrDuplicateTransaction
	}
	return trimmed, nil
}

func (e *Engine) logTransaction(tx *Transaction) error {
	sanitized, err := Sanitize(tx)
	if err != nil {
		return err
	}
	return e.state.TransactionPut(sanitized)
}

func (e *Engine) setStatus(id string, status Status) error {
	tx, err := e.loadTransaction(id)
	if err != nil {
		return err
	}
	tx.Status = status
	return e.state.TransactionPut(tx)
}

// awardLoyalty credits points for the principal on a best-effort basis: a
// failing award never rolls back the already-committed transfers, it only
// surfaces as an event.
func (e *Engine) awardLoyalty(transactionID string, payer [20]byte, amount *big.Int) {
	if e.loyalty == nil {
		return
	}
	points := new(big.Int).Quo(amount, big.NewInt(LoyaltyDivisor)).Uint64()
	if points == 0 {
		return
	}
	if _, err := e.loyalty.AwardPoints(e.cfg.Owner, payer, transactionID, points); err != nil {
		e.emit(events.LoyaltyAwardFailed{
			TransactionID: transactionID,
			Customer:      payer,
			Points:        points,
			Reason:        err.Error(),
		})
	}
}

// ProcessSimple settles a direct payment: principal to the payee, platform
// fee to the owner, merchant fee to the merchant. The payer balance is
// checked up front so the three transfers commit as a unit; any delegated
// failure aborts with no log entry.
func (e *Engine) ProcessSimple(caller [20]byte, id string, payer, payee [20]byte, amount *big.Int, merchant [20]byte, merchantFeeBps uint32) (*Transaction, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	if e.ledger == nil {
		return nil, ErrNilCollaborator
	}
	if err := e.auth.RequireAuthorization(caller, payer); err != nil {
		return nil, err
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	trimmed, err := e.ensureNewTransaction(id)
	if err != nil {
		return nil, err
	}
	breakdown, err := fees.Compute(amount, e.cfg.PlatformFeeBps, merchantFeeBps)
	if err != nil {
		return nil, err
	}
	required := new(big.Int).Add(amount, breakdown.Total())
	balance, err := e.ledger.BalanceOf(e.cfg.Asset, payer)
	if err != nil {
		return nil, fmt.Errorf("payments: transfer failed: %w", err)
	}
	if balance.Cmp(required) < 0 {
		return nil, fmt.Errorf("payments: transfer failed: %w", bank.ErrInsufficientBalance)
	}
	if err := e.ledger.Transfer(e.cfg.Asset, payer, payee, amount); err != nil {
		return nil, fmt.Errorf("payments: transfer failed: %w", err)
	}
	if breakdown.PlatformFee.Sign() > 0 {
		if err := e.ledger.Transfer(e.cfg.Asset, payer, e.cfg.Owner, breakdown.PlatformFee); err != nil {
			return nil, fmt.Errorf("payments: transfer failed: %w", err)
		}
	}
	if breakdown.MerchantFee.Sign() > 0 {
		if err := e.ledger.Transfer(e.cfg.Asset, payer, merchant, breakdown.MerchantFee); err != nil {
			return nil, fmt.Errorf("payments: transfer failed: %w", err)
		}
	}
	if breakdown.PlatformFee.Sign() > 0 {
		collected, err := e.state.CollectedFees()
		if err != nil {
			return nil, err
		}
		if err := e.state.SetCollectedFees(new(big.Int).Add(collected, breakdown.PlatformFee)); err != nil {
			return nil, err
		}
	}
	e.awardLoyalty(trimmed, payer, amount)
	tx := &Transaction{
		ID:        trimmed,
		Payer:     payer,
		Payee:     payee,
		Amount:    new(big.Int).Set(amount),
		Status:    StatusCompleted,
		Kind:      KindSimple,
		CreatedAt: e.tick(),
	}
	if err := e.logTransaction(tx); err != nil {
		return nil, err
	}
	e.emit(events.PaymentSimple{
		TransactionID: trimmed,
		Payer:         payer,
		Payee:         payee,
		Amount:        tx.Amount,
		PlatformFee:   breakdown.PlatformFee,
		MerchantFee:   breakdown.MerchantFee,
	})
	return tx.Clone(), nil
}

// ProcessEscrow submits a held payment: the vault reserves the id first (the
// escrow id is the transaction id), then the transaction is logged with
// status EscrowHeld.
func (e *Engine) ProcessEscrow(caller [20]byte, id string, payer, payee [20]byte, amount *big.Int, lockedUntil uint64) (*Transaction, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	if e.vault == nil {
		return nil, ErrNilCollaborator
	}
	if err := e.auth.RequireAuthorization(caller, payer); err != nil {
		return nil, err
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	trimmed, err := e.ensureNewTransaction(id)
	if err != nil {
		return nil, err
	}
	if _, err := e.vault.Create(caller, trimmed, payer, e.cfg.Asset, amount, lockedUntil); err != nil {
		return nil, err
	}
	e.awardLoyalty(trimmed, payer, amount)
	tx := &Transaction{
		ID:        trimmed,
		Payer:     payer,
		Payee:     payee,
		Amount:    new(big.Int).Set(amount),
		Status:    StatusEscrowHeld,
		Kind:      KindEscrow,
		CreatedAt: e.tick(),
	}
	if err := e.logTransaction(tx); err != nil {
		return nil, err
	}
	e.emit(events.PaymentEscrow{
		TransactionID: trimmed,
		Payer:         payer,
		Payee:         payee,
		Amount:        tx.Amount,
		LockedUntil:   lockedUntil,
	})
	return tx.Clone(), nil
}

// ReleaseEscrow settles an escrow-held payment in favour of the payee and
// marks the transaction Completed.
func (e *Engine) ReleaseEscrow(id string, payee [20]byte) error {
	if e == nil || e.state == nil {
		return ErrNilState
	}
	if e.vault == nil {
		return ErrNilCollaborator
	}
	tx, err := e.loadTransaction(id)
	if err != nil {
		return err
	}
	if err := e.vault.Release(tx.ID, payee); err != nil {
		return err
	}
	tx.Status = StatusCompleted
	if err := e.state.TransactionPut(tx); err != nil {
		return err
	}
	e.emit(events.PaymentStatusChanged{
		Kind:          events.TypePaymentEscrowReleased,
		TransactionID: tx.ID,
		Recipient:     payee,
		Amount:        tx.Amount,
	})
	return nil
}

// RefundEscrow returns escrow-held funds to the payer and marks the
// transaction Refunded. The vault enforces owner authorization.
func (e *Engine) RefundEscrow(caller [20]byte, id string) error {
	if e == nil || e.state == nil {
		return ErrNilState
	}
	if e.vault == nil {
		return ErrNilCollaborator
	}
	tx, err := e.loadTransaction(id)
	if err != nil {
		return err
	}
	if err := e.vault.Refund(caller, tx.ID); err != nil {
		return err
	}
	tx.Status = StatusRefunded
	if err := e.state.TransactionPut(tx); err != nil {
		return err
	}
	e.emit(events.PaymentStatusChanged{
		Kind:          events.TypePaymentEscrowRefunded,
		TransactionID: tx.ID,
		Recipient:     tx.Payer,
		Amount:        tx.Amount,
	})
	return nil
}

// FileDispute opens a dispute against a logged transaction. The orchestrator
// is the source of truth for the disputed amount: the registry is handed the
// recorded principal, so a caller can never dispute more than was paid.
func (e *Engine) FileDispute(caller [20]byte, id string, claimant, respondent [20]byte, reason, evidence string) (*dispute.Dispute, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	if e.disputes == nil {
		return nil, ErrNilCollaborator
	}
	if err := e.auth.RequireAuthorization(caller, claimant); err != nil {
		return nil, err
	}
	tx, err := e.loadTransaction(id)
	if err != nil {
		return nil, err
	}
	d, err := e.disputes.File(caller, tx.ID, claimant, respondent, tx.Amount, reason, evidence)
	if err != nil {
		return nil, err
	}
	tx.Status = StatusDisputed
	if err := e.state.TransactionPut(tx); err != nil {
		return nil, err
	}
	e.emit(events.PaymentStatusChanged{
		Kind:          events.TypePaymentDisputed,
		TransactionID: tx.ID,
		Recipient:     claimant,
		Amount:        tx.Amount,
	})
	return d, nil
}

// ResolveDispute applies the admin ruling and reflects it in the transaction
// log: Refunded when the claimant prevails, Completed otherwise.
func (e *Engine) ResolveDispute(caller [20]byte, id string, refundClaimant bool) (*dispute.Dispute, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	if e.disputes == nil {
		return nil, ErrNilCollaborator
	}
	d, err := e.disputes.Resolve(caller, id, refundClaimant)
	if err != nil {
		return nil, err
	}
	status := StatusCompleted
	if refundClaimant {
		status = StatusRefunded
	}
	if err := e.setStatus(id, status); err != nil && err != ErrTransactionNotFound {
		return nil, err
	}
	e.emit(events.PaymentStatusChanged{
		Kind:          events.TypePaymentResolved,
		TransactionID: d.ID,
		Recipient:     d.Recipient,
		Amount:        d.Amount,
	})
	return d, nil
}

// RefundDisputeOnTimeout triggers the permissionless timeout refund and marks
// the transaction Refunded.
func (e *Engine) RefundDisputeOnTimeout(id string) (*dispute.Dispute, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	if e.disputes == nil {
		return nil, ErrNilCollaborator
	}
	d, err := e.disputes.RefundOnTimeout(id)
	if err != nil {
		return nil, err
	}
	if err := e.setStatus(id, StatusRefunded); err != nil && err != ErrTransactionNotFound {
		return nil, err
	}
	e.emit(events.PaymentStatusChanged{
		Kind:          events.TypePaymentRefunded,
		TransactionID: d.ID,
		Recipient:     d.Claimant,
		Amount:        d.Amount,
	})
	return d, nil
}

// WithdrawFees moves collected platform fees from the owner account to the
// destination. Owner only; the withdrawal can never exceed the collected
// total.
func (e *Engine) WithdrawFees(caller, to [20]byte, amount *big.Int) error {
	if e == nil || e.state == nil {
		return ErrNilState
	}
	if e.ledger == nil {
		return ErrNilCollaborator
	}
	if err := e.auth.RequireAuthorization(caller, e.cfg.Owner); err != nil {
		return err
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	collected, err := e.state.CollectedFees()
	if err != nil {
		return err
	}
	if amount.Cmp(collected) > 0 {
		return ErrInvalidAmount
	}
	if err := e.ledger.Transfer(e.cfg.Asset, e.cfg.Owner, to, amount); err != nil {
		return fmt.Errorf("payments: transfer failed: %w", err)
	}
	if err := e.state.SetCollectedFees(new(big.Int).Sub(collected, amount)); err != nil {
		return err
	}
	e.emit(events.FeesWithdrawn{Owner: e.cfg.Owner, To: to, Amount: amount})
	return nil
}

// CollectedFees reports the platform fee pool accumulated by simple payments.
func (e *Engine) CollectedFees() (*big.Int, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	return e.state.CollectedFees()
}

// Get returns the logged transaction for the id.
func (e *Engine) Get(id string) (*Transaction, error) {
	tx, err := e.loadTransaction(id)
	if err != nil {
		return nil, err
	}
	return tx.Clone(), nil
}
