package events

import (
	"strconv"

	"paywow/core/types"
)

const (
	TypeLoyaltyAccrued  = "loyalty.accrued"
	TypeLoyaltyReward   = "loyalty.reward_issued"
	TypeLoyaltyRedeemed = "loyalty.redeemed"
)

// LoyaltyAccrued is emitted when a customer's point balance increases.
type LoyaltyAccrued struct {
	Customer [20]byte
	Points   uint64
	Total    uint64
}

func (LoyaltyAccrued) EventType() string { return TypeLoyaltyAccrued }

func (e LoyaltyAccrued) Event() *types.Event {
	return &types.Event{
		Type: TypeLoyaltyAccrued,
		Attributes: map[string]string{
			"customer": formatAddress(e.Customer),
			"points":   strconv.FormatUint(e.Points, 10),
			"total":    strconv.FormatUint(e.Total, 10),
		},
	}
}

// LoyaltyReward is emitted when an award issues a reward receipt.
type LoyaltyReward struct {
	ReceiptID uint64
	Customer  [20]byte
	Tier      uint8
}

func (LoyaltyReward) EventType() string { return TypeLoyaltyReward }

func (e LoyaltyReward) Event() *types.Event {
	return &types.Event{
		Type: TypeLoyaltyReward,
		Attributes: map[string]string{
			"receiptId": strconv.FormatUint(e.ReceiptID, 10),
			"customer":  formatAddress(e.Customer),
			"tier":      strconv.FormatUint(uint64(e.Tier), 10),
		},
	}
}

// LoyaltyRedeemed is emitted when the owner burns points on behalf of a
// customer redemption.
type LoyaltyRedeemed struct {
	Customer  [20]byte
	Points    uint64
	Remaining uint64
}

func (LoyaltyRedeemed) EventType() string { return TypeLoyaltyRedeemed }

func (e LoyaltyRedeemed) Event() *types.Event {
	return &types.Event{
		Type: TypeLoyaltyRedeemed,
		Attributes: map[string]string{
			"customer":  formatAddress(e.Customer),
			"points":    strconv.FormatUint(e.Points, 10),
			"remaining": strconv.FormatUint(e.Remaining, 10),
		},
	}
}
