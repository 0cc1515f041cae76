package commitment

import (
	"testing"

	"github.com/zylith/core/internal/field"
	"github.com/zylith/core/internal/poseidon"
)

func TestNoteCommitmentEquation(t *testing.T) {
	secret := field.FromUint64(11)
	nullifier := field.FromUint64(22)
	amountLow := field.FromUint64(1_000_000)
	amountHigh := field.Zero
	token := field.FromUint64(0xdead)

	got, err := NoteCommitment(secret, nullifier, amountLow, amountHigh, token)
	if err != nil {
		t.Fatalf("note commitment: %v", err)
	}

	inner, err := poseidon.Hash(secret, nullifier)
	if err != nil {
		t.Fatalf("inner hash: %v", err)
	}
	want, err := poseidon.Hash(inner, amountLow, amountHigh, token)
	if err != nil {
		t.Fatalf("outer hash: %v", err)
	}
	if !got.Equal(want) {
		t.Fatalf("commitment equation broken: got %s want %s", got.String(), want.String())
	}
}

func TestNullifierHashEquation(t *testing.T) {
	nullifier := field.FromUint64(22)
	got, err := NullifierHash(nullifier)
	if err != nil {
		t.Fatalf("nullifier hash: %v", err)
	}
	want, err := poseidon.Hash(nullifier)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !got.Equal(want) {
		t.Fatal("nullifierHash != Poseidon(nullifier)")
	}
}

func TestPositionCommitmentEquation(t *testing.T) {
	secret := field.FromUint64(33)
	nullifier := field.FromUint64(44)
	tickLowerOffset := field.FromUint64(886272)  // tick -1000
	tickUpperOffset := field.FromUint64(888272)  // tick +1000
	liquidity := field.FromUint64(500_000)

	got, err := PositionCommitment(secret, nullifier, tickLowerOffset, tickUpperOffset, liquidity)
	if err != nil {
		t.Fatalf("position commitment: %v", err)
	}
	want, err := poseidon.Hash(secret, nullifier, tickLowerOffset, tickUpperOffset, liquidity)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !got.Equal(want) {
		t.Fatal("position commitment equation broken")
	}
}

func TestDistinctNotesProduceDistinctCommitments(t *testing.T) {
	base, err := NoteCommitment(field.FromUint64(1), field.FromUint64(2), field.FromUint64(3), field.Zero, field.FromUint64(4))
	if err != nil {
		t.Fatalf("note commitment: %v", err)
	}
	other, err := NoteCommitment(field.FromUint64(1), field.FromUint64(2), field.FromUint64(5), field.Zero, field.FromUint64(4))
	if err != nil {
		t.Fatalf("note commitment: %v", err)
	}
	if base.Equal(other) {
		t.Fatal("commitments collided for different amounts")
	}
}
