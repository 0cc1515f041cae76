package circuit

import (
	"testing"

	"github.com/zylith/core/internal/field"
	"github.com/zylith/core/internal/merkletree"
)

func emptyWitness(leaf field.Element) *MerkleWitness {
	var proof merkletree.Proof
	proof.Root = leaf
	return &MerkleWitness{Leaf: leaf, Proof: &proof}
}

func TestBuildMembershipSignalCount(t *testing.T) {
	root := field.FromUint64(1)
	w := emptyWitness(field.FromUint64(2))

	s, err := BuildMembership(root, w)
	if err != nil {
		t.Fatalf("build membership: %v", err)
	}
	if s.PublicCount != MembershipPublicSignalCount {
		t.Fatalf("expected %d public signals, got %d", MembershipPublicSignalCount, s.PublicCount)
	}
	if s.Values["merkleRoot"] != root.String() {
		t.Fatal("merkleRoot signal mismatch")
	}
}

func TestBuildSwapRejectsSameToken(t *testing.T) {
	in := &SwapInput{
		Root:             field.FromUint64(1),
		InputWitness:     emptyWitness(field.FromUint64(2)),
		InputNullifier:   field.FromUint64(3),
		TokenIn:          field.FromUint64(9),
		TokenOut:         field.FromUint64(9),
		OutputNullifier:  field.FromUint64(4),
		ChangeNullifier:  field.FromUint64(5),
		OutputCommitment: field.FromUint64(6),
		ChangeCommitment: field.FromUint64(7),
	}
	if _, err := BuildSwap(in); err != ErrSameToken {
		t.Fatalf("expected ErrSameToken, got %v", err)
	}
}

func TestBuildSwapRejectsDuplicateNullifiers(t *testing.T) {
	dup := field.FromUint64(3)
	in := &SwapInput{
		Root:             field.FromUint64(1),
		InputWitness:     emptyWitness(field.FromUint64(2)),
		InputNullifier:   dup,
		TokenIn:          field.FromUint64(9),
		TokenOut:         field.FromUint64(10),
		OutputNullifier:  dup,
		ChangeNullifier:  field.FromUint64(5),
		OutputCommitment: field.FromUint64(6),
		ChangeCommitment: field.FromUint64(7),
	}
	if _, err := BuildSwap(in); err == nil {
		t.Fatal("expected duplicate nullifier error")
	}
}

func TestBuildSwapHappyPathSignalCount(t *testing.T) {
	in := &SwapInput{
		Root:             field.FromUint64(1),
		InputWitness:     emptyWitness(field.FromUint64(2)),
		InputNullifier:   field.FromUint64(3),
		InputAmountLow:   field.FromUint64(1000),
		TokenIn:          field.FromUint64(9),
		TokenOut:         field.FromUint64(10),
		OutputNullifier:  field.FromUint64(4),
		ChangeNullifier:  field.FromUint64(5),
		OutputCommitment: field.FromUint64(6),
		ChangeCommitment: field.FromUint64(7),
		AmountIn:         field.FromUint64(100),
	}
	s, err := BuildSwap(in)
	if err != nil {
		t.Fatalf("build swap: %v", err)
	}
	if s.PublicCount != SwapPublicSignalCount {
		t.Fatalf("expected %d public signals, got %d", SwapPublicSignalCount, s.PublicCount)
	}
}

func TestBuildSwapRejectsAmountBeyondBalance(t *testing.T) {
	in := &SwapInput{
		Root:             field.FromUint64(1),
		InputWitness:     emptyWitness(field.FromUint64(2)),
		InputNullifier:   field.FromUint64(3),
		InputAmountLow:   field.FromUint64(500),
		TokenIn:          field.FromUint64(9),
		TokenOut:         field.FromUint64(10),
		OutputNullifier:  field.FromUint64(4),
		ChangeNullifier:  field.FromUint64(5),
		OutputCommitment: field.FromUint64(6),
		ChangeCommitment: field.FromUint64(7),
		AmountIn:         field.FromUint64(600),
	}
	if _, err := BuildSwap(in); err != ErrAmountExceedsBalance {
		t.Fatalf("expected ErrAmountExceedsBalance, got %v", err)
	}
}

func TestBuildMintRejectsBadTokenOrder(t *testing.T) {
	in := &MintInput{
		Root:          field.FromUint64(1),
		InputWitness0: emptyWitness(field.FromUint64(2)),
		InputWitness1: emptyWitness(field.FromUint64(3)),
		Token0:        field.FromUint64(10),
		Token1:        field.FromUint64(5),
		TickLower:     -100,
		TickUpper:     100,
	}
	if _, err := BuildMint(in); err != ErrTokenOrder {
		t.Fatalf("expected ErrTokenOrder, got %v", err)
	}
}

func TestBuildMintRejectsBadTickRange(t *testing.T) {
	in := &MintInput{
		Root:          field.FromUint64(1),
		InputWitness0: emptyWitness(field.FromUint64(2)),
		InputWitness1: emptyWitness(field.FromUint64(3)),
		Token0:        field.FromUint64(5),
		Token1:        field.FromUint64(10),
		TickLower:     100,
		TickUpper:     -100,
	}
	if _, err := BuildMint(in); err == nil {
		t.Fatal("expected tick range error")
	}
}

func TestBuildMintHappyPathSignalCount(t *testing.T) {
	in := &MintInput{
		Root:               field.FromUint64(1),
		InputWitness0:      emptyWitness(field.FromUint64(2)),
		InputWitness1:      emptyWitness(field.FromUint64(3)),
		InputNullifier0:    field.FromUint64(11),
		InputNullifier1:    field.FromUint64(12),
		Token0:             field.FromUint64(5),
		Token1:             field.FromUint64(10),
		TickLower:          -100,
		TickUpper:          100,
		Liquidity:          field.FromUint64(1000),
		PositionNullifier:  field.FromUint64(13),
		PositionCommitment: field.FromUint64(14),
		ChangeNullifier0:   field.FromUint64(15),
		ChangeCommitment0:  field.FromUint64(16),
		ChangeNullifier1:   field.FromUint64(17),
		ChangeCommitment1:  field.FromUint64(18),
	}
	s, err := BuildMint(in)
	if err != nil {
		t.Fatalf("build mint: %v", err)
	}
	if s.PublicCount != MintPublicSignalCount {
		t.Fatalf("expected %d public signals, got %d", MintPublicSignalCount, s.PublicCount)
	}
}

func TestBuildMintRejectsDuplicateNullifiers(t *testing.T) {
	dup := field.FromUint64(11)
	in := &MintInput{
		Root:               field.FromUint64(1),
		InputWitness0:      emptyWitness(field.FromUint64(2)),
		InputWitness1:      emptyWitness(field.FromUint64(3)),
		InputNullifier0:    dup,
		InputNullifier1:    field.FromUint64(12),
		Token0:             field.FromUint64(5),
		Token1:             field.FromUint64(10),
		TickLower:          -100,
		TickUpper:          100,
		Liquidity:          field.FromUint64(1000),
		PositionNullifier:  dup,
		PositionCommitment: field.FromUint64(14),
		ChangeNullifier0:   field.FromUint64(15),
		ChangeCommitment0:  field.FromUint64(16),
		ChangeNullifier1:   field.FromUint64(17),
		ChangeCommitment1:  field.FromUint64(18),
	}
	if _, err := BuildMint(in); err == nil {
		t.Fatal("expected duplicate nullifier error")
	}
}

func TestBuildBurnHappyPathSignalCount(t *testing.T) {
	in := &BurnInput{
		Root:              field.FromUint64(1),
		PositionWitness:   emptyWitness(field.FromUint64(2)),
		PositionNullifier: field.FromUint64(3),
		Token0:            field.FromUint64(5),
		Token1:            field.FromUint64(10),
		Output0Nullifier:  field.FromUint64(6),
		Output0Commitment: field.FromUint64(7),
		Output1Nullifier:  field.FromUint64(8),
		Output1Commitment: field.FromUint64(9),
	}
	s, err := BuildBurn(in)
	if err != nil {
		t.Fatalf("build burn: %v", err)
	}
	if s.PublicCount != BurnPublicSignalCount {
		t.Fatalf("expected %d public signals, got %d", BurnPublicSignalCount, s.PublicCount)
	}
}

func TestBuildBurnRejectsBadTokenOrder(t *testing.T) {
	in := &BurnInput{
		Root:              field.FromUint64(1),
		PositionWitness:   emptyWitness(field.FromUint64(2)),
		PositionNullifier: field.FromUint64(3),
		Token0:            field.FromUint64(10),
		Token1:            field.FromUint64(5),
		Output0Nullifier:  field.FromUint64(6),
		Output0Commitment: field.FromUint64(7),
		Output1Nullifier:  field.FromUint64(8),
		Output1Commitment: field.FromUint64(9),
	}
	if _, err := BuildBurn(in); err != ErrTokenOrder {
		t.Fatalf("expected ErrTokenOrder, got %v", err)
	}
}

func TestValidateAmountWithinBalance(t *testing.T) {
	if err := ValidateAmountWithinBalance(field.FromUint64(50), field.FromUint64(100)); err != nil {
		t.Fatalf("expected amount within balance to pass, got %v", err)
	}
	if err := ValidateAmountWithinBalance(field.FromUint64(150), field.FromUint64(100)); err != ErrAmountExceedsBalance {
		t.Fatalf("expected ErrAmountExceedsBalance, got %v", err)
	}
}
