// Package circuit implements the deterministic circuit-input builders: one
// per circuit (membership, swap, mint, burn), each taking domain objects
// (notes, Merkle proofs, swap/mint/burn parameters) and producing the exact
// public/private signal assignment the corresponding circuit expects, as a
// map from signal name to decimal-string value. Circuit compilation,
// witness construction, and proving/verification stay separate concerns:
// builders.go validates and assigns, witness.go binds signal maps to
// circuit structs, manager.go compiles and proves.
package circuit

import (
	"errors"
	"fmt"

	"github.com/zylith/core/internal/commitment"
	"github.com/zylith/core/internal/field"
	"github.com/zylith/core/internal/merkletree"
	"github.com/zylith/core/internal/tickmath"
)

// Public signal counts, fixed by the circuits' declared interfaces.
const (
	MembershipPublicSignalCount = 2
	SwapPublicSignalCount       = 8
	MintPublicSignalCount       = 8
	BurnPublicSignalCount       = 6
)

// Constraint-violation errors. Each is specific so that a builder's caller
// can surface exactly which algebraic rule was broken.
var (
	ErrTokenOrder           = errors.New("circuit: token0 must be less than token1")
	ErrSameToken            = errors.New("circuit: tokenIn must not equal tokenOut")
	ErrDuplicateNullifier   = errors.New("circuit: nullifiers must be pairwise distinct")
	ErrAmountExceedsBalance = errors.New("circuit: amountIn exceeds note balance")
	ErrSignalCountMismatch  = errors.New("circuit: emitted public signal count does not match declared count")
)

// MerkleWitness is the membership-proof portion of a circuit's private
// inputs: a leaf value plus its LeanIMT path.
type MerkleWitness struct {
	Leaf  field.Element
	Proof *merkletree.Proof
}

// Signals is the signal-name -> decimal-string assignment a builder
// produces. Public signals are listed first, in the circuit's declared
// order, followed by private (witness) signals; PublicCount records the
// boundary.
type Signals struct {
	Values      map[string]string
	Order       []string
	PublicCount int
}

func newSignals() *Signals {
	return &Signals{Values: make(map[string]string)}
}

func (s *Signals) setPublic(name string, v field.Element) {
	s.Values[name] = v.String()
	s.Order = append(s.Order, name)
	s.PublicCount++
}

func (s *Signals) setPrivate(name string, v field.Element) {
	s.Values[name] = v.String()
	s.Order = append(s.Order, name)
}

func assertDistinct(name string, elems ...field.Element) error {
	for i := 0; i < len(elems); i++ {
		for j := i + 1; j < len(elems); j++ {
			if elems[i].Equal(elems[j]) {
				return fmt.Errorf("%w: %s", ErrDuplicateNullifier, name)
			}
		}
	}
	return nil
}

func pathSignals(s *Signals, prefix string, w *MerkleWitness) {
	for i, elem := range w.Proof.PathElements {
		s.setPrivate(fmt.Sprintf("%s_pathElements_%d", prefix, i), elem)
	}
	for i, bit := range w.Proof.PathIndices {
		s.setPrivate(fmt.Sprintf("%s_pathIndices_%d", prefix, i), field.FromUint64(uint64(bit)))
	}
}

// BuildMembership builds the membership circuit's signals: proves a leaf is
// present under a given root, without spending anything.
func BuildMembership(root field.Element, witness *MerkleWitness) (*Signals, error) {
	s := newSignals()
	s.setPublic("merkleRoot", root)
	s.setPublic("commitment", witness.Leaf)
	pathSignals(s, "membership", witness)

	if s.PublicCount != MembershipPublicSignalCount {
		return nil, fmt.Errorf("%w: got %d want %d", ErrSignalCountMismatch, s.PublicCount, MembershipPublicSignalCount)
	}
	return s, nil
}

// SwapInput collects everything BuildSwap needs from the caller.
type SwapInput struct {
	Root             field.Element
	InputWitness     *MerkleWitness
	InputNullifier   field.Element
	InputSecret      field.Element
	InputAmountLow   field.Element
	InputAmountHigh  field.Element
	TokenIn          field.Element
	TokenOut         field.Element
	OutputSecret     field.Element
	OutputNullifier  field.Element
	OutputCommitment field.Element
	ChangeSecret     field.Element
	ChangeNullifier  field.Element
	ChangeCommitment field.Element
	SqrtPriceLimit   field.Element // offset-agnostic, a raw u160-ish value already field-valued
	AmountIn         field.Element
}

// BuildSwap builds the swap circuit's signals. It enforces
// tokenIn != tokenOut, pairwise distinctness of the three nullifiers
// (input, output, change), and amountIn <= the input note's balance when
// that balance fits in 128 bits, before emitting any signal.
func BuildSwap(in *SwapInput) (*Signals, error) {
	if in.TokenIn.Equal(in.TokenOut) {
		return nil, ErrSameToken
	}
	if err := assertDistinct("swap", in.InputNullifier, in.OutputNullifier, in.ChangeNullifier); err != nil {
		return nil, err
	}
	if in.InputAmountHigh.IsZero() {
		if err := ValidateAmountWithinBalance(in.AmountIn, in.InputAmountLow); err != nil {
			return nil, err
		}
	}

	nullifierHashIn, err := commitment.NullifierHash(in.InputNullifier)
	if err != nil {
		return nil, err
	}

	s := newSignals()
	s.setPublic("merkleRoot", in.Root)
	s.setPublic("nullifierHashIn", nullifierHashIn)
	s.setPublic("tokenIn", in.TokenIn)
	s.setPublic("tokenOut", in.TokenOut)
	s.setPublic("outputCommitment", in.OutputCommitment)
	s.setPublic("changeCommitment", in.ChangeCommitment)
	s.setPublic("sqrtPriceLimit", in.SqrtPriceLimit)
	s.setPublic("amountIn", in.AmountIn)

	s.setPrivate("inputSecret", in.InputSecret)
	s.setPrivate("inputAmountLow", in.InputAmountLow)
	s.setPrivate("inputAmountHigh", in.InputAmountHigh)
	s.setPrivate("outputSecret", in.OutputSecret)
	s.setPrivate("outputNullifier", in.OutputNullifier)
	s.setPrivate("changeSecret", in.ChangeSecret)
	s.setPrivate("changeNullifier", in.ChangeNullifier)
	pathSignals(s, "swap", in.InputWitness)

	if s.PublicCount != SwapPublicSignalCount {
		return nil, fmt.Errorf("%w: got %d want %d", ErrSignalCountMismatch, s.PublicCount, SwapPublicSignalCount)
	}
	return s, nil
}

// MintInput collects everything BuildMint needs from the caller.
type MintInput struct {
	Root                 field.Element
	InputWitness0        *MerkleWitness
	InputWitness1        *MerkleWitness
	InputNullifier0      field.Element
	InputNullifier1      field.Element
	InputSecret0         field.Element
	InputSecret1         field.Element
	Token0               field.Element
	Token1               field.Element
	TickLower, TickUpper int32
	Liquidity            field.Element
	PositionSecret       field.Element
	PositionNullifier    field.Element
	PositionCommitment   field.Element
	ChangeSecret0        field.Element
	ChangeNullifier0     field.Element
	ChangeCommitment0    field.Element
	ChangeSecret1        field.Element
	ChangeNullifier1     field.Element
	ChangeCommitment1    field.Element
}

// BuildMint builds the mint circuit's signals. It enforces
// token0 < token1, tickLower < tickUpper in both signed and offset form, and
// pairwise distinctness across the five nullifiers in play (the two spent
// input-note nullifiers plus the three freshly-chosen nullifiers embedded in
// the position and change notes).
func BuildMint(in *MintInput) (*Signals, error) {
	if in.Token0.BigInt().Cmp(in.Token1.BigInt()) >= 0 {
		return nil, ErrTokenOrder
	}
	if err := tickmath.ValidateRange(in.TickLower, in.TickUpper); err != nil {
		return nil, err
	}
	tickLowerOffset, err := tickmath.SignedToOffset(in.TickLower)
	if err != nil {
		return nil, err
	}
	tickUpperOffset, err := tickmath.SignedToOffset(in.TickUpper)
	if err != nil {
		return nil, err
	}
	if err := assertDistinct("mint",
		in.InputNullifier0, in.InputNullifier1,
		in.PositionNullifier, in.ChangeNullifier0, in.ChangeNullifier1,
	); err != nil {
		return nil, err
	}

	nullifierHash0, err := commitment.NullifierHash(in.InputNullifier0)
	if err != nil {
		return nil, err
	}
	nullifierHash1, err := commitment.NullifierHash(in.InputNullifier1)
	if err != nil {
		return nil, err
	}

	s := newSignals()
	s.setPublic("merkleRoot", in.Root)
	s.setPublic("nullifierHash0", nullifierHash0)
	s.setPublic("nullifierHash1", nullifierHash1)
	s.setPublic("token0", in.Token0)
	s.setPublic("token1", in.Token1)
	s.setPublic("positionCommitment", in.PositionCommitment)
	s.setPublic("changeCommitment0", in.ChangeCommitment0)
	s.setPublic("changeCommitment1", in.ChangeCommitment1)

	s.setPrivate("inputSecret0", in.InputSecret0)
	s.setPrivate("inputSecret1", in.InputSecret1)
	s.setPrivate("tickLowerOffset", field.FromUint64(tickLowerOffset))
	s.setPrivate("tickUpperOffset", field.FromUint64(tickUpperOffset))
	s.setPrivate("liquidity", in.Liquidity)
	s.setPrivate("positionSecret", in.PositionSecret)
	s.setPrivate("changeSecret0", in.ChangeSecret0)
	s.setPrivate("changeSecret1", in.ChangeSecret1)
	pathSignals(s, "mint0", in.InputWitness0)
	pathSignals(s, "mint1", in.InputWitness1)

	if s.PublicCount != MintPublicSignalCount {
		return nil, fmt.Errorf("%w: got %d want %d", ErrSignalCountMismatch, s.PublicCount, MintPublicSignalCount)
	}
	return s, nil
}

// BurnInput collects everything BuildBurn needs from the caller.
type BurnInput struct {
	Root              field.Element
	PositionWitness   *MerkleWitness
	PositionNullifier field.Element
	PositionSecret    field.Element
	Token0            field.Element
	Token1            field.Element
	Output0Secret     field.Element
	Output0Nullifier  field.Element
	Output0Commitment field.Element
	Output1Secret     field.Element
	Output1Nullifier  field.Element
	Output1Commitment field.Element
}

// BuildBurn builds the burn circuit's signals: spends a position note and
// produces two token-output notes. It enforces token0 < token1 and pairwise
// distinctness of the three nullifiers (position, output0, output1).
func BuildBurn(in *BurnInput) (*Signals, error) {
	if in.Token0.BigInt().Cmp(in.Token1.BigInt()) >= 0 {
		return nil, ErrTokenOrder
	}
	if err := assertDistinct("burn", in.PositionNullifier, in.Output0Nullifier, in.Output1Nullifier); err != nil {
		return nil, err
	}

	nullifierHash, err := commitment.NullifierHash(in.PositionNullifier)
	if err != nil {
		return nil, err
	}

	s := newSignals()
	s.setPublic("merkleRoot", in.Root)
	s.setPublic("nullifierHash", nullifierHash)
	s.setPublic("token0", in.Token0)
	s.setPublic("token1", in.Token1)
	s.setPublic("output0Commitment", in.Output0Commitment)
	s.setPublic("output1Commitment", in.Output1Commitment)

	s.setPrivate("positionSecret", in.PositionSecret)
	s.setPrivate("output0Secret", in.Output0Secret)
	s.setPrivate("output0Nullifier", in.Output0Nullifier)
	s.setPrivate("output1Secret", in.Output1Secret)
	s.setPrivate("output1Nullifier", in.Output1Nullifier)
	pathSignals(s, "burn", in.PositionWitness)

	if s.PublicCount != BurnPublicSignalCount {
		return nil, fmt.Errorf("%w: got %d want %d", ErrSignalCountMismatch, s.PublicCount, BurnPublicSignalCount)
	}
	return s, nil
}

// ValidateAmountWithinBalance enforces amountIn <= balance when both fit in
// 128 bits.
func ValidateAmountWithinBalance(amountIn, balance field.Element) error {
	if amountIn.BigInt().Cmp(balance.BigInt()) > 0 {
		return ErrAmountExceedsBalance
	}
	return nil
}
