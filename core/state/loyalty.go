package state

import (
	"encoding/binary"

	"paywow/native/loyalty"
)

func rewardKey(id uint64) []byte {
	var suffix [8]byte
	binary.BigEndian.PutUint64(suffix[:], id)
	return prefixedKey(loyaltyRewardPrefix, suffix[:])
}

// LoyaltyPoints loads the cumulative point balance for the customer, zero
// when no entry exists.
func (m *Manager) LoyaltyPoints(addr [20]byte) (uint64, error) {
	key := prefixedKey(loyaltyPointsPrefix, addr[:])
	var stored uint64
	ok, err := m.getRLP(key, &stored)
	if err != nil || !ok {
		return 0, err
	}
	return stored, nil
}

// SetLoyaltyPoints stores the cumulative point balance for the customer.
func (m *Manager) SetLoyaltyPoints(addr [20]byte, points uint64) error {
	key := prefixedKey(loyaltyPointsPrefix, addr[:])
	return m.putRLP(key, points)
}

// RemoveLoyaltyPoints drops the customer's point entry entirely.
func (m *Manager) RemoveLoyaltyPoints(addr [20]byte) error {
	key := prefixedKey(loyaltyPointsPrefix, addr[:])
	return m.db.Delete(key)
}

type storedReward struct {
	ReceiptID     uint64
	Owner         [20]byte
	PointsEarned  uint64
	TotalPoints   uint64
	Tier          uint8
	TransactionID string
	IssuedAt      uint64
}

// LoyaltyRewardPut stores a reward receipt.
func (m *Manager) LoyaltyRewardPut(r *loyalty.Reward) error {
	if r == nil {
		return errNilRecord
	}
	return m.putRLP(rewardKey(r.ReceiptID), &storedReward{
		ReceiptID:     r.ReceiptID,
		Owner:         r.Owner,
		PointsEarned:  r.PointsEarned,
		TotalPoints:   r.TotalPoints,
		Tier:          uint8(r.Tier),
		TransactionID: r.TransactionID,
		IssuedAt:      r.IssuedAt,
	})
}

// LoyaltyRewardGet loads a reward receipt by id.
func (m *Manager) LoyaltyRewardGet(id uint64) (*loyalty.Reward, bool, error) {
	var stored storedReward
	ok, err := m.getRLP(rewardKey(id), &stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return &loyalty.Reward{
		ReceiptID:     stored.ReceiptID,
		Owner:         stored.Owner,
		PointsEarned:  stored.PointsEarned,
		TotalPoints:   stored.TotalPoints,
		Tier:          loyalty.Tier(stored.Tier),
		TransactionID: stored.TransactionID,
		IssuedAt:      stored.IssuedAt,
	}, true, nil
}

// LoyaltyRewardCount loads the number of receipts issued so far.
func (m *Manager) LoyaltyRewardCount() (uint64, error) {
	key := prefixedKey(loyaltyRewardCountKey, nil)
	var stored uint64
	ok, err := m.getRLP(key, &stored)
	if err != nil || !ok {
		return 0, err
	}
	return stored, nil
}

// SetLoyaltyRewardCount stores the receipt counter.
func (m *Manager) SetLoyaltyRewardCount(count uint64) error {
	key := prefixedKey(loyaltyRewardCountKey, nil)
	return m.putRLP(key, count)
}
