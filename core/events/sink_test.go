package events

import (
	"math/big"
	"testing"
)

func TestMemorySinkAssignsSequencesAndIDs(t *testing.T) {
	sink := NewMemorySink(0)
	payer := [20]byte{0x01}
	payee := [20]byte{0x02}

	sink.Emit(PaymentSimple{
		TransactionID: "tx-1",
		Payer:         payer,
		Payee:         payee,
		Amount:        big.NewInt(1000),
		PlatformFee:   big.NewInt(10),
		MerchantFee:   big.NewInt(20),
	})
	sink.Emit(LoyaltyAccrued{Customer: payer, Points: 10, Total: 10})

	records := sink.Records()
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[0].Sequence != 1 || records[1].Sequence != 2 {
		t.Fatalf("sequences = %d,%d, want 1,2", records[0].Sequence, records[1].Sequence)
	}
	if records[0].ID == "" || records[0].ID == records[1].ID {
		t.Fatal("each record needs a distinct non-empty id")
	}
	if records[0].Event.Type != TypePaymentSimple {
		t.Fatalf("type = %q, want %q", records[0].Event.Type, TypePaymentSimple)
	}
	if records[0].Event.Attributes["id"] != "tx-1" {
		t.Fatalf("id attribute = %q, want tx-1", records[0].Event.Attributes["id"])
	}
}

func TestMemorySinkRetentionCap(t *testing.T) {
	sink := NewMemorySink(2)
	for i := 0; i < 5; i++ {
		sink.Emit(LoyaltyAccrued{Customer: [20]byte{0x01}, Points: 1, Total: uint64(i + 1)})
	}
	records := sink.Records()
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2 retained", len(records))
	}
	if records[0].Sequence != 4 || records[1].Sequence != 5 {
		t.Fatalf("sequences = %d,%d, want 4,5", records[0].Sequence, records[1].Sequence)
	}
}

func TestNoopEmitterIsSafe(t *testing.T) {
	var emitter NoopEmitter
	emitter.Emit(nil)
	emitter.Emit(LoyaltyAccrued{})
}
