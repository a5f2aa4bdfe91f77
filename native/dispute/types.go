package dispute

import (
	"math/big"
	"strings"
)

// Status represents the dispute lifecycle state. Resolved and Refunded are
// terminal: once reached, no further transition is permitted.
type Status uint8

const (
	StatusFiled Status = iota
	StatusUnderReview
	StatusResolved
	StatusRefunded
)

// Valid reports whether the status value is within the supported range.
func (s Status) Valid() bool {
	switch s {
	case StatusFiled, StatusUnderReview, StatusResolved, StatusRefunded:
		return true
	default:
		return false
	}
}

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusResolved || s == StatusRefunded
}

// String returns the canonical lowercase name for the status.
func (s Status) String() string {
	switch s {
	case StatusFiled:
		return "filed"
	case StatusUnderReview:
		return "under_review"
	case StatusResolved:
		return "resolved"
	case StatusRefunded:
		return "refunded"
	default:
		return "unknown"
	}
}

// Dispute is a single registry record. The identifier is conventionally the
// transaction id of the payment under dispute.
type Dispute struct {
	ID                 string
	Claimant           [20]byte
	Respondent         [20]byte
	Amount             *big.Int
	Reason             string
	Evidence           string
	FiledAt            uint64
	ResolutionDeadline uint64
	Status             Status
	// Recipient is advisory metadata recorded by a ruling: the registry
	// designates who should receive funds but does not move them.
	Recipient [20]byte
}

// Clone returns a deep copy of the dispute record.
func (d *Dispute) Clone() *Dispute {
	if d == nil {
		return nil
	}
	clone := *d
	if d.Amount != nil {
		clone.Amount = new(big.Int).Set(d.Amount)
	} else {
		clone.Amount = big.NewInt(0)
	}
	return &clone
}

// Sanitize validates the record and returns a normalised clone.
func Sanitize(d *Dispute) (*Dispute, error) {
	if d == nil {
		return nil, ErrNotFound
	}
	clone := d.Clone()
	clone.ID = strings.TrimSpace(clone.ID)
	if clone.ID == "" {
		return nil, ErrNotFound
	}
	if clone.Amount == nil || clone.Amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	if !clone.Status.Valid() {
		return nil, ErrAlreadyResolved
	}
	return clone, nil
}
