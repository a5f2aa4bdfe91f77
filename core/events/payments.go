package events

import (
	"math/big"
	"strconv"

	"paywow/core/types"
)

const (
	// TypePaymentSimple marks a completed direct transfer with fee routing.
	TypePaymentSimple = "payment.simple"
	// TypePaymentEscrow marks a payment whose principal is held in escrow.
	TypePaymentEscrow = "payment.escrow"
	// TypePaymentEscrowReleased marks the settlement of an escrow-held payment.
	TypePaymentEscrowReleased = "payment.escrow_released"
	// TypePaymentEscrowRefunded marks the return of escrow-held funds.
	TypePaymentEscrowRefunded = "payment.escrow_refunded"
	// TypePaymentDisputed marks a transaction moved into dispute.
	TypePaymentDisputed = "payment.disputed"
	// TypePaymentResolved marks an admin ruling on a disputed transaction.
	TypePaymentResolved = "payment.resolved"
	// TypePaymentRefunded marks a timeout-driven refund of a disputed transaction.
	TypePaymentRefunded = "payment.refunded"
	// TypeFeesWithdrawn marks an owner withdrawal from the collected-fee pool.
	TypeFeesWithdrawn = "payment.fees_withdrawn"
	// TypeLoyaltyAwardFailed records a best-effort loyalty award that did not
	// complete; the enclosing payment is unaffected.
	TypeLoyaltyAwardFailed = "payment.loyalty_award_failed"
)

// PaymentSimple records a direct payer-to-payee settlement.
type PaymentSimple struct {
	TransactionID string
	Payer         [20]byte
	Payee         [20]byte
	Amount        *big.Int
	PlatformFee   *big.Int
	MerchantFee   *big.Int
}

func (PaymentSimple) EventType() string { return TypePaymentSimple }

func (e PaymentSimple) Event() *types.Event {
	return &types.Event{
		Type: TypePaymentSimple,
		Attributes: map[string]string{
			"id":          e.TransactionID,
			"payer":       formatAddress(e.Payer),
			"payee":       formatAddress(e.Payee),
			"amount":      formatAmount(e.Amount),
			"platformFee": formatAmount(e.PlatformFee),
			"merchantFee": formatAmount(e.MerchantFee),
		},
	}
}

// PaymentEscrow records an escrow-held payment submission.
type PaymentEscrow struct {
	TransactionID string
	Payer         [20]byte
	Payee         [20]byte
	Amount        *big.Int
	LockedUntil   uint64
}

func (PaymentEscrow) EventType() string { return TypePaymentEscrow }

func (e PaymentEscrow) Event() *types.Event {
	return &types.Event{
		Type: TypePaymentEscrow,
		Attributes: map[string]string{
			"id":          e.TransactionID,
			"payer":       formatAddress(e.Payer),
			"payee":       formatAddress(e.Payee),
			"amount":      formatAmount(e.Amount),
			"lockedUntil": tickToString(e.LockedUntil),
		},
	}
}

// PaymentStatusChanged records a transaction log status transition driven by a
// downstream registry outcome.
type PaymentStatusChanged struct {
	Kind          string
	TransactionID string
	Recipient     [20]byte
	Amount        *big.Int
}

func (e PaymentStatusChanged) EventType() string { return e.Kind }

func (e PaymentStatusChanged) Event() *types.Event {
	attrs := map[string]string{
		"id":     e.TransactionID,
		"amount": formatAmount(e.Amount),
	}
	if !zeroAddress(e.Recipient) {
		attrs["recipient"] = formatAddress(e.Recipient)
	}
	return &types.Event{Type: e.Kind, Attributes: attrs}
}

// FeesWithdrawn records an owner withdrawal from the collected platform fees.
type FeesWithdrawn struct {
	Owner  [20]byte
	To     [20]byte
	Amount *big.Int
}

func (FeesWithdrawn) EventType() string { return TypeFeesWithdrawn }

func (e FeesWithdrawn) Event() *types.Event {
	return &types.Event{
		Type: TypeFeesWithdrawn,
		Attributes: map[string]string{
			"owner":  formatAddress(e.Owner),
			"to":     formatAddress(e.To),
			"amount": formatAmount(e.Amount),
		},
	}
}

// LoyaltyAwardFailed records a loyalty award error swallowed by the
// best-effort award policy in the payment paths.
type LoyaltyAwardFailed struct {
	TransactionID string
	Customer      [20]byte
	Points        uint64
	Reason        string
}

func (LoyaltyAwardFailed) EventType() string { return TypeLoyaltyAwardFailed }

func (e LoyaltyAwardFailed) Event() *types.Event {
	return &types.Event{
		Type: TypeLoyaltyAwardFailed,
		Attributes: map[string]string{
			"id":       e.TransactionID,
			"customer": formatAddress(e.Customer),
			"points":   strconv.FormatUint(e.Points, 10),
			"reason":   e.Reason,
		},
	}
}
