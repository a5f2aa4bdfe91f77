package events

import (
	"math/big"

	"paywow/core/types"
)

const (
	TypeDisputeFiled       = "dispute.filed"
	TypeDisputeUnderReview = "dispute.under_review"
	TypeDisputeResolved    = "dispute.resolved"
	TypeDisputeRefunded    = "dispute.refunded"
)

// DisputeFiled is emitted when a claimant opens a dispute.
type DisputeFiled struct {
	ID                 string
	Claimant           [20]byte
	Respondent         [20]byte
	Amount             *big.Int
	ResolutionDeadline uint64
}

func (DisputeFiled) EventType() string { return TypeDisputeFiled }

func (e DisputeFiled) Event() *types.Event {
	return &types.Event{
		Type: TypeDisputeFiled,
		Attributes: map[string]string{
			"id":                 e.ID,
			"claimant":           formatAddress(e.Claimant),
			"respondent":         formatAddress(e.Respondent),
			"amount":             formatAmount(e.Amount),
			"resolutionDeadline": tickToString(e.ResolutionDeadline),
		},
	}
}

// DisputeUnderReview is emitted when an admin moves a dispute into triage.
type DisputeUnderReview struct {
	ID string
}

func (DisputeUnderReview) EventType() string { return TypeDisputeUnderReview }

func (e DisputeUnderReview) Event() *types.Event {
	return &types.Event{
		Type:       TypeDisputeUnderReview,
		Attributes: map[string]string{"id": e.ID},
	}
}

// DisputeResolved is emitted on an admin ruling. Recipient is advisory: the
// registry records who should receive funds but does not move them.
type DisputeResolved struct {
	ID        string
	Recipient [20]byte
	Amount    *big.Int
}

func (DisputeResolved) EventType() string { return TypeDisputeResolved }

func (e DisputeResolved) Event() *types.Event {
	return &types.Event{
		Type: TypeDisputeResolved,
		Attributes: map[string]string{
			"id":        e.ID,
			"recipient": formatAddress(e.Recipient),
			"amount":    formatAmount(e.Amount),
		},
	}
}

// DisputeRefunded is emitted when the resolution window lapses and the
// claimant reclaims via the permissionless timeout path.
type DisputeRefunded struct {
	ID       string
	Claimant [20]byte
	Amount   *big.Int
}

func (DisputeRefunded) EventType() string { return TypeDisputeRefunded }

func (e DisputeRefunded) Event() *types.Event {
	return &types.Event{
		Type: TypeDisputeRefunded,
		Attributes: map[string]string{
			"id":       e.ID,
			"claimant": formatAddress(e.Claimant),
			"amount":   formatAmount(e.Amount),
		},
	}
}
