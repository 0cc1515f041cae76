package common

import (
	"testing"

	"github.com/zylith/core/internal/field"
)

func TestHexRoundTrip(t *testing.T) {
	b := []byte{0x00, 0x01, 0xde, 0xad, 0xbe, 0xef}
	s := BytesToHex(b)
	if s != "0x0001deadbeef" {
		t.Fatalf("unexpected encoding %q", s)
	}
	back, err := HexToBytes(s)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(back) != string(b) {
		t.Fatalf("round trip mismatch: %x vs %x", back, b)
	}
}

func TestHexToBytesAcceptsBarePrefix(t *testing.T) {
	for _, s := range []string{"0xff00", "0Xff00", "ff00"} {
		b, err := HexToBytes(s)
		if err != nil {
			t.Fatalf("decode %q: %v", s, err)
		}
		if len(b) != 2 || b[0] != 0xff || b[1] != 0x00 {
			t.Fatalf("decode %q: got %x", s, b)
		}
	}
	if _, err := HexToBytes("0xzz"); err == nil {
		t.Fatal("expected error for invalid hex")
	}
}

func TestFieldHexRoundTrip(t *testing.T) {
	e := field.FromUint64(123456789)
	s := FieldToHex(e)
	if len(s) != 2+64 {
		t.Fatalf("expected 32-byte hex encoding, got %q", s)
	}
	back, err := HexToField(s)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !back.Equal(e) {
		t.Fatalf("round trip mismatch: %s vs %s", back.String(), e.String())
	}
}

func TestRandomIDShapeAndUniqueness(t *testing.T) {
	a, err := RandomID()
	if err != nil {
		t.Fatalf("random id: %v", err)
	}
	b, err := RandomID()
	if err != nil {
		t.Fatalf("random id: %v", err)
	}
	if len(a) != 32 || len(b) != 32 {
		t.Fatalf("expected 32 hex chars, got %d and %d", len(a), len(b))
	}
	if a == b {
		t.Fatal("two random ids collided")
	}
}
