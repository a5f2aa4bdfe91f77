package types

import "math/big"

// Account is the balance record maintained by the value-transfer ledger for a
// single participant address.
type Account struct {
	Nonce   uint64
	Balance *big.Int
}

// Event represents a structured state change broadcast to downstream
// observers. Attributes are flat string pairs so the payload stays
// transport-agnostic.
type Event struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}
