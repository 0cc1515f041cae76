package poseidon

import (
	"testing"

	"github.com/zylith/core/internal/field"
)

func TestHashIsDeterministic(t *testing.T) {
	a := field.FromUint64(111)
	b := field.FromUint64(222)

	first, err := Hash(a, b)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := Hash(a, b)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !first.Equal(second) {
		t.Fatalf("same inputs produced different digests: %s vs %s", first.String(), second.String())
	}
}

func TestHashDependsOnOrderAndInputs(t *testing.T) {
	a := field.FromUint64(111)
	b := field.FromUint64(222)

	ab, err := Hash(a, b)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	ba, err := Hash(b, a)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if ab.Equal(ba) {
		t.Fatal("hash ignored input order")
	}

	ac, err := Hash(a, field.FromUint64(223))
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if ab.Equal(ac) {
		t.Fatal("hash ignored input value")
	}
}

func TestHashRejectsBadArity(t *testing.T) {
	if _, err := Hash(); err != ErrArity {
		t.Fatalf("expected ErrArity for zero inputs, got %v", err)
	}
	inputs := make([]field.Element, MaxArity+1)
	if _, err := Hash(inputs...); err != ErrArity {
		t.Fatalf("expected ErrArity for %d inputs, got %v", MaxArity+1, err)
	}
	if _, err := Hash(make([]field.Element, MaxArity)...); err != nil {
		t.Fatalf("expected %d inputs to be accepted, got %v", MaxArity, err)
	}
}

func TestHashPairMatchesHash(t *testing.T) {
	l := field.FromUint64(1)
	r := field.FromUint64(2)
	viaPair, err := HashPair(l, r)
	if err != nil {
		t.Fatalf("hash pair: %v", err)
	}
	viaHash, err := Hash(l, r)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !viaPair.Equal(viaHash) {
		t.Fatal("HashPair disagrees with Hash")
	}
}

func TestNullifierHashMatchesSingleInputHash(t *testing.T) {
	n := field.FromUint64(777)
	viaNullifier, err := NullifierHash(n)
	if err != nil {
		t.Fatalf("nullifier hash: %v", err)
	}
	viaHash, err := Hash(n)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !viaNullifier.Equal(viaHash) {
		t.Fatal("NullifierHash disagrees with Hash")
	}
}
