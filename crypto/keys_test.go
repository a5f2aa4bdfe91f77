package crypto

import (
	"bytes"
	"strings"
	"testing"
)

func TestAddressRoundTrip(t *testing.T) {
	raw := bytes.Repeat([]byte{0x01}, 20)
	addr := NewAddress(PayPrefix, raw)

	encoded := addr.String()
	if !strings.HasPrefix(encoded, "pay1") {
		t.Fatalf("encoded address %q missing pay prefix", encoded)
	}

	decoded, err := DecodeAddress(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(decoded.Bytes(), raw) {
		t.Fatalf("decoded bytes = %x, want %x", decoded.Bytes(), raw)
	}
	if decoded.Prefix() != PayPrefix {
		t.Fatalf("prefix = %q, want %q", decoded.Prefix(), PayPrefix)
	}
}

func TestDecodeAddressRejectsGarbage(t *testing.T) {
	if _, err := DecodeAddress("not-an-address"); err == nil {
		t.Fatal("expected error for malformed input")
	}
	// Valid bech32 but wrong payload length.
	if _, err := DecodeAddress("pay1qqqqsu8vct3"); err == nil {
		t.Fatal("expected error for short payload")
	}
}

func TestGeneratedKeyProducesAddress(t *testing.T) {
	key, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	addr := key.PubKey().Address()
	if len(addr.Bytes()) != 20 {
		t.Fatalf("address length = %d, want 20", len(addr.Bytes()))
	}
	if addr.Prefix() != PayPrefix {
		t.Fatalf("prefix = %q, want %q", addr.Prefix(), PayPrefix)
	}
}
