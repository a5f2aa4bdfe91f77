// Package fees computes platform and merchant fee splits for a payment
// principal. The calculator is pure: identical inputs always produce identical
// outputs, a required property for audit replay.
package fees

import "math/big"

// BpsDenominator is the basis-point scale; 10000 bps = 100%.
const BpsDenominator = 10_000

// Breakdown carries the computed fee amounts for a single payment.
type Breakdown struct {
	PlatformFee *big.Int
	MerchantFee *big.Int
}

// Total returns the combined fee obligation.
func (b Breakdown) Total() *big.Int {
	total := big.NewInt(0)
	if b.PlatformFee != nil {
		total.Add(total, b.PlatformFee)
	}
	if b.MerchantFee != nil {
		total.Add(total, b.MerchantFee)
	}
	return total
}

// Compute derives the platform and merchant fees from the principal using
// floor-truncated bps math. big.Int keeps the intermediate product wide, so
// amounts near the 128-bit range cannot overflow. Compute fails when either
// rate exceeds 10000 bps or when the combined fees would reach the principal.
func Compute(amount *big.Int, platformBps, merchantBps uint32) (Breakdown, error) {
	if amount == nil || amount.Sign() <= 0 {
		return Breakdown{}, ErrInvalidAmount
	}
	if platformBps > BpsDenominator || merchantBps > BpsDenominator {
		return Breakdown{}, ErrInvalidBps
	}
	breakdown := Breakdown{
		PlatformFee: scale(amount, platformBps),
		MerchantFee: scale(amount, merchantBps),
	}
	if breakdown.Total().Cmp(amount) >= 0 {
		return Breakdown{}, ErrFeeExceedsPrincipal
	}
	return breakdown, nil
}

func scale(amount *big.Int, bps uint32) *big.Int {
	fee := new(big.Int).Mul(amount, new(big.Int).SetUint64(uint64(bps)))
	return fee.Quo(fee, big.NewInt(BpsDenominator))
}
