package tickmath

import (
	"math/big"
	"testing"
)

func TestSignedOffsetRoundTrip(t *testing.T) {
	for _, tick := range []int32{MinTick, -1000, -1, 0, 1, 1000, MaxTick} {
		offset, err := SignedToOffset(tick)
		if err != nil {
			t.Fatalf("offset %d: %v", tick, err)
		}
		back, err := OffsetToSigned(offset)
		if err != nil {
			t.Fatalf("signed %d: %v", offset, err)
		}
		if back != tick {
			t.Fatalf("round trip %d: got %d", tick, back)
		}
	}
}

func TestOffsetBounds(t *testing.T) {
	low, err := SignedToOffset(MinTick)
	if err != nil || low != 0 {
		t.Fatalf("MinTick offset: got %d, %v", low, err)
	}
	high, err := SignedToOffset(MaxTick)
	if err != nil || high != 1774544 {
		t.Fatalf("MaxTick offset: got %d, %v", high, err)
	}
}

func TestSignedToOffsetRejectsOutOfRange(t *testing.T) {
	for _, tick := range []int32{MinTick - 1, MaxTick + 1} {
		if _, err := SignedToOffset(tick); err != ErrTickOutOfRange {
			t.Fatalf("tick %d: expected ErrTickOutOfRange, got %v", tick, err)
		}
	}
	if _, err := OffsetToSigned(1774545); err != ErrTickOutOfRange {
		t.Fatalf("expected ErrTickOutOfRange for offset past MaxTick, got %v", err)
	}
}

func TestValidateRange(t *testing.T) {
	if err := ValidateRange(-1000, 1000); err != nil {
		t.Fatalf("valid range rejected: %v", err)
	}
	if err := ValidateRange(1000, -1000); err != ErrTickRange {
		t.Fatalf("expected ErrTickRange for inverted ticks, got %v", err)
	}
	if err := ValidateRange(500, 500); err != ErrTickRange {
		t.Fatalf("expected ErrTickRange for equal ticks, got %v", err)
	}
	if err := ValidateRange(MinTick-1, 0); err != ErrTickOutOfRange {
		t.Fatalf("expected ErrTickOutOfRange, got %v", err)
	}
}

func TestSplitCombineU256RoundTrip(t *testing.T) {
	max128 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	values := []*big.Int{
		big.NewInt(0),
		big.NewInt(1),
		big.NewInt(1_000_000),
		new(big.Int).Set(max128),
		new(big.Int).Add(max128, big.NewInt(1)),
		new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1)),
	}
	for _, v := range values {
		low, high, err := SplitU256(v)
		if err != nil {
			t.Fatalf("split %s: %v", v.String(), err)
		}
		if low.BitLen() > 128 || high.BitLen() > 128 {
			t.Fatalf("split %s produced halves wider than 128 bits", v.String())
		}
		if got := CombineU256(low, high); got.Cmp(v) != 0 {
			t.Fatalf("round trip %s: got %s", v.String(), got.String())
		}
	}
}

func TestSplitU256LowIsValueMod2Pow128(t *testing.T) {
	v := new(big.Int).Lsh(big.NewInt(7), 128)
	v.Add(v, big.NewInt(42))
	low, high, err := SplitU256(v)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if low.Int64() != 42 {
		t.Fatalf("low: got %s want 42", low.String())
	}
	if high.Int64() != 7 {
		t.Fatalf("high: got %s want 7", high.String())
	}
}

func TestSplitU256Rejects(t *testing.T) {
	if _, _, err := SplitU256(nil); err == nil {
		t.Fatal("expected error for nil")
	}
	if _, _, err := SplitU256(big.NewInt(-1)); err == nil {
		t.Fatal("expected error for negative")
	}
	if _, _, err := SplitU256(new(big.Int).Lsh(big.NewInt(1), 256)); err == nil {
		t.Fatal("expected error for 2^256")
	}
}
