package merkletree

import (
	"testing"

	"github.com/zylith/core/internal/field"
	"github.com/zylith/core/internal/poseidon"
)

func TestEmptyTreeHasZeroRoot(t *testing.T) {
	tree := New()
	if !tree.Root().Equal(field.Zero) {
		t.Fatalf("expected zero root on empty tree, got %s", tree.Root().String())
	}
	if tree.Size() != 0 {
		t.Fatalf("expected size 0, got %d", tree.Size())
	}
}

func TestInsertAssignsSequentialIndices(t *testing.T) {
	tree := New()
	for i := uint64(0); i < 5; i++ {
		idx, err := tree.Insert(field.FromUint64(i + 1))
		if err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
		if idx != i {
			t.Fatalf("expected index %d, got %d", i, idx)
		}
	}
	if tree.Size() != 5 {
		t.Fatalf("expected size 5, got %d", tree.Size())
	}
}

func TestSingleLeafRootEqualsLeaf(t *testing.T) {
	tree := New()
	leaf := field.FromUint64(42)
	if _, err := tree.Insert(leaf); err != nil {
		t.Fatalf("insert: %v", err)
	}
	// With a single leaf, every sibling at every level is zero, so the
	// LeanIMT propagation rule means the root equals the leaf itself.
	if !tree.Root().Equal(leaf) {
		t.Fatalf("expected root to equal the lone leaf, got %s want %s", tree.Root().String(), leaf.String())
	}
}

func TestProofVerifiesAgainstRoot(t *testing.T) {
	tree := New()
	leaves := []field.Element{
		field.FromUint64(1),
		field.FromUint64(2),
		field.FromUint64(3),
		field.FromUint64(4),
		field.FromUint64(5),
	}
	for _, l := range leaves {
		if _, err := tree.Insert(l); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	for i, l := range leaves {
		proof, err := tree.Proof(uint64(i))
		if err != nil {
			t.Fatalf("proof %d: %v", i, err)
		}
		ok, err := Verify(l, proof)
		if err != nil {
			t.Fatalf("verify %d: %v", i, err)
		}
		if !ok {
			t.Fatalf("proof for leaf %d did not verify", i)
		}
	}
}

func TestProofFailsForWrongLeaf(t *testing.T) {
	tree := New()
	if _, err := tree.Insert(field.FromUint64(10)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := tree.Insert(field.FromUint64(20)); err != nil {
		t.Fatalf("insert: %v", err)
	}

	proof, err := tree.Proof(0)
	if err != nil {
		t.Fatalf("proof: %v", err)
	}
	ok, err := Verify(field.FromUint64(999), proof)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ok {
		t.Fatal("expected verification to fail for the wrong leaf")
	}
}

func TestProofInvalidPosition(t *testing.T) {
	tree := New()
	if _, err := tree.Insert(field.FromUint64(1)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := tree.Proof(5); err != ErrInvalidPosition {
		t.Fatalf("expected ErrInvalidPosition, got %v", err)
	}
}

func TestRootChangesAsLeavesAreAdded(t *testing.T) {
	tree := New()
	if _, err := tree.Insert(field.FromUint64(1)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	first := tree.Root()

	if _, err := tree.Insert(field.FromUint64(2)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	second := tree.Root()

	if first.Equal(second) {
		t.Fatal("expected root to change after a second insert")
	}
}

func TestVerifyRejectsNilProof(t *testing.T) {
	if _, err := Verify(field.FromUint64(1), nil); err != ErrInvalidProof {
		t.Fatalf("expected ErrInvalidProof, got %v", err)
	}
}

func TestSingleLeafProofIsAllZeros(t *testing.T) {
	tree := New()
	leaf, err := field.FromDecimalString("12345")
	if err != nil {
		t.Fatalf("parse leaf: %v", err)
	}
	if _, err := tree.Insert(leaf); err != nil {
		t.Fatalf("insert: %v", err)
	}

	if !tree.Root().Equal(leaf) {
		t.Fatalf("root = %s, want %s", tree.Root().String(), leaf.String())
	}

	proof, err := tree.Proof(0)
	if err != nil {
		t.Fatalf("proof: %v", err)
	}
	for level := 0; level < Height; level++ {
		if !proof.PathElements[level].IsZero() {
			t.Fatalf("path element %d is non-zero", level)
		}
		if proof.PathIndices[level] != 0 {
			t.Fatalf("path index %d = %d, want 0", level, proof.PathIndices[level])
		}
	}
	if !proof.Root.Equal(leaf) {
		t.Fatalf("proof root = %s, want the leaf itself", proof.Root.String())
	}

	ok, err := Verify(leaf, proof)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Fatal("single-leaf proof did not verify")
	}
}

func TestTwoLeafRootIsPoseidonOfPair(t *testing.T) {
	tree := New()
	leaf0, err := field.FromDecimalString("111")
	if err != nil {
		t.Fatalf("parse leaf: %v", err)
	}
	leaf1, err := field.FromDecimalString("222")
	if err != nil {
		t.Fatalf("parse leaf: %v", err)
	}
	if _, err := tree.Insert(leaf0); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := tree.Insert(leaf1); err != nil {
		t.Fatalf("insert: %v", err)
	}

	want, err := poseidon.HashPair(leaf0, leaf1)
	if err != nil {
		t.Fatalf("hash pair: %v", err)
	}
	if !tree.Root().Equal(want) {
		t.Fatalf("root = %s, want Poseidon(111, 222) = %s", tree.Root().String(), want.String())
	}

	proof, err := tree.Proof(1)
	if err != nil {
		t.Fatalf("proof: %v", err)
	}
	if !proof.PathElements[0].Equal(leaf0) {
		t.Fatalf("sibling at level 0 = %s, want %s", proof.PathElements[0].String(), leaf0.String())
	}
	if proof.PathIndices[0] != 1 {
		t.Fatalf("path index at level 0 = %d, want 1", proof.PathIndices[0])
	}
}
