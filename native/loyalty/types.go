package loyalty

// Tier buckets a customer's cumulative points.
type Tier uint8

const (
	TierBronze   Tier = 0 // 0-999 points
	TierSilver   Tier = 1 // 1000-4999 points
	TierGold     Tier = 2 // 5000-9999 points
	TierPlatinum Tier = 3 // 10000+ points
)

// String returns the canonical lowercase tier name.
func (t Tier) String() string {
	switch t {
	case TierBronze:
		return "bronze"
	case TierSilver:
		return "silver"
	case TierGold:
		return "gold"
	case TierPlatinum:
		return "platinum"
	default:
		return "unknown"
	}
}

// TierFor maps a cumulative point balance to its tier.
func TierFor(points uint64) Tier {
	switch {
	case points < 1_000:
		return TierBronze
	case points < 5_000:
		return TierSilver
	case points < 10_000:
		return TierGold
	default:
		return TierPlatinum
	}
}

// Reward is the non-fungible receipt issued for every award. Receipt ids are
// assigned from a monotonically increasing counter.
type Reward struct {
	ReceiptID     uint64
	Owner         [20]byte
	PointsEarned  uint64
	TotalPoints   uint64
	Tier          Tier
	TransactionID string
	IssuedAt      uint64
}

// Clone returns a copy of the reward record.
func (r *Reward) Clone() *Reward {
	if r == nil {
		return nil
	}
	clone := *r
	return &clone
}
