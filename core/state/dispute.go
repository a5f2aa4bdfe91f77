package state

import (
	"math/big"

	"paywow/native/dispute"
)

type storedDispute struct {
	ID                 string
	Claimant           [20]byte
	Respondent         [20]byte
	Amount             *big.Int
	Reason             string
	Evidence           string
	FiledAt            uint64
	ResolutionDeadline uint64
	Status             uint8
	Recipient          [20]byte
}

func newStoredDispute(d *dispute.Dispute) *storedDispute {
	if d == nil {
		return nil
	}
	amount := big.NewInt(0)
	if d.Amount != nil {
		amount = new(big.Int).Set(d.Amount)
	}
	return &storedDispute{
		ID:                 d.ID,
		Claimant:           d.Claimant,
		Respondent:         d.Respondent,
		Amount:             amount,
		Reason:             d.Reason,
		Evidence:           d.Evidence,
		FiledAt:            d.FiledAt,
		ResolutionDeadline: d.ResolutionDeadline,
		Status:             uint8(d.Status),
		Recipient:          d.Recipient,
	}
}

func (s *storedDispute) toDispute() (*dispute.Dispute, error) {
	if s == nil {
		return nil, errNilRecord
	}
	out := &dispute.Dispute{
		ID:                 s.ID,
		Claimant:           s.Claimant,
		Respondent:         s.Respondent,
		Amount:             big.NewInt(0),
		Reason:             s.Reason,
		Evidence:           s.Evidence,
		FiledAt:            s.FiledAt,
		ResolutionDeadline: s.ResolutionDeadline,
		Status:             dispute.Status(s.Status),
		Recipient:          s.Recipient,
	}
	if s.Amount != nil {
		out.Amount = new(big.Int).Set(s.Amount)
	}
	return dispute.Sanitize(out)
}

// DisputePut stores a dispute record. Records are never deleted.
func (m *Manager) DisputePut(d *dispute.Dispute) error {
	sanitized, err := dispute.Sanitize(d)
	if err != nil {
		return err
	}
	key, err := stringKey(disputePrefix, sanitized.ID)
	if err != nil {
		return err
	}
	return m.putRLP(key, newStoredDispute(sanitized))
}

// DisputeGet loads a dispute record by id.
func (m *Manager) DisputeGet(id string) (*dispute.Dispute, bool, error) {
	key, err := stringKey(disputePrefix, id)
	if err != nil {
		return nil, false, err
	}
	var stored storedDispute
	ok, err := m.getRLP(key, &stored)
	if err != nil || !ok {
		return nil, false, err
	}
	d, err := stored.toDispute()
	if err != nil {
		return nil, false, err
	}
	return d, true, nil
}
