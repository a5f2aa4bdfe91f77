package events

import (
	"math/big"
	"strconv"

	"paywow/crypto"
)

func formatAmount(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func formatAddress(addr [20]byte) string {
	return crypto.NewAddress(crypto.PayPrefix, addr[:]).String()
}

func tickToString(v uint64) string {
	return strconv.FormatUint(v, 10)
}

func zeroAddress(addr [20]byte) bool {
	return addr == [20]byte{}
}
