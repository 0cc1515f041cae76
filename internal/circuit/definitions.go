package circuit

import (
	"github.com/consensys/gnark/frontend"

	"github.com/zylith/core/internal/merkletree"
)

// The four circuit Define()s below are simplified stand-ins for the real
// Circom circuits, which are compiled and shipped separately. They exist so
// Manager has something to compile and prove against in-process during
// development and testing; the production proving path consumes the real
// compiled artifacts instead of using these.

// merklePathCheck asserts that walking leaf up pathElements, following
// pathIndices, reaches root. It applies the LeanIMT's zero-propagation
// rule, but combines two non-zero children by field addition rather than
// Poseidon, so the root it reaches matches merkletree.Verify's only on
// paths where every level propagates.
func merklePathCheck(api frontend.API, leaf frontend.Variable, pathElements, pathIndices []frontend.Variable, root frontend.Variable) {
	current := leaf
	for i := 0; i < merkletree.Height; i++ {
		sibling := pathElements[i]
		isRight := pathIndices[i]

		left := api.Select(isRight, sibling, current)
		right := api.Select(isRight, current, sibling)
		hashed := api.Add(left, right) // stand-in for a Poseidon gadget

		siblingIsZero := api.IsZero(sibling)
		currentIsZero := api.IsZero(current)

		propagated := api.Select(siblingIsZero, current, api.Select(currentIsZero, sibling, hashed))
		current = propagated
	}
	api.AssertIsEqual(current, root)
}

// MembershipCircuit proves that a commitment is present in the tree under
// a public root, without revealing which leaf it is beyond the path.
type MembershipCircuit struct {
	MerkleRoot   frontend.Variable `gnark:",public"`
	Commitment   frontend.Variable `gnark:",public"`
	PathElements [merkletree.Height]frontend.Variable
	PathIndices  [merkletree.Height]frontend.Variable
}

func (c *MembershipCircuit) Define(api frontend.API) error {
	merklePathCheck(api, c.Commitment, c.PathElements[:], c.PathIndices[:], c.MerkleRoot)
	return nil
}

// SwapCircuit carries the shielded swap's public interface. Its Define
// checks only that tokenIn differs from tokenOut and that
// inputSecret + inputAmountLow + inputAmountHigh lies on the Merkle path to
// the root; the nullifier hash and the output and change commitments are
// not constrained.
type SwapCircuit struct {
	MerkleRoot       frontend.Variable `gnark:",public"`
	NullifierHashIn  frontend.Variable `gnark:",public"`
	TokenIn          frontend.Variable `gnark:",public"`
	TokenOut         frontend.Variable `gnark:",public"`
	OutputCommitment frontend.Variable `gnark:",public"`
	ChangeCommitment frontend.Variable `gnark:",public"`
	SqrtPriceLimit   frontend.Variable `gnark:",public"`
	AmountIn         frontend.Variable `gnark:",public"`

	InputSecret     frontend.Variable
	InputAmountLow  frontend.Variable
	InputAmountHigh frontend.Variable
	OutputSecret    frontend.Variable
	OutputNullifier frontend.Variable
	ChangeSecret    frontend.Variable
	ChangeNullifier frontend.Variable
	PathElements    [merkletree.Height]frontend.Variable
	PathIndices     [merkletree.Height]frontend.Variable
}

func (c *SwapCircuit) Define(api frontend.API) error {
	api.AssertIsDifferent(c.TokenIn, c.TokenOut)

	inputCommitment := api.Add(c.InputSecret, c.InputAmountLow, c.InputAmountHigh)
	merklePathCheck(api, inputCommitment, c.PathElements[:], c.PathIndices[:], c.MerkleRoot)

	return nil
}

// MintCircuit carries the shielded liquidity mint's public interface. Its
// Define checks only token0 < token1 and that inputSecret0 and inputSecret1
// each lie on their Merkle path to the root; the nullifier hashes, the
// position commitment and the change commitments are not constrained.
type MintCircuit struct {
	MerkleRoot         frontend.Variable `gnark:",public"`
	NullifierHash0     frontend.Variable `gnark:",public"`
	NullifierHash1     frontend.Variable `gnark:",public"`
	Token0             frontend.Variable `gnark:",public"`
	Token1             frontend.Variable `gnark:",public"`
	PositionCommitment frontend.Variable `gnark:",public"`
	ChangeCommitment0  frontend.Variable `gnark:",public"`
	ChangeCommitment1  frontend.Variable `gnark:",public"`

	InputSecret0    frontend.Variable
	InputSecret1    frontend.Variable
	TickLowerOffset frontend.Variable
	TickUpperOffset frontend.Variable
	Liquidity       frontend.Variable
	PositionSecret  frontend.Variable
	ChangeSecret0   frontend.Variable
	ChangeSecret1   frontend.Variable
	PathElements0   [merkletree.Height]frontend.Variable
	PathIndices0    [merkletree.Height]frontend.Variable
	PathElements1   [merkletree.Height]frontend.Variable
	PathIndices1    [merkletree.Height]frontend.Variable
}

func (c *MintCircuit) Define(api frontend.API) error {
	api.AssertIsLessOrEqual(api.Add(c.Token0, 1), c.Token1)

	merklePathCheck(api, c.InputSecret0, c.PathElements0[:], c.PathIndices0[:], c.MerkleRoot)
	merklePathCheck(api, c.InputSecret1, c.PathElements1[:], c.PathIndices1[:], c.MerkleRoot)

	return nil
}

// BurnCircuit carries the shielded liquidity burn's public interface. Its
// Define checks only token0 < token1 and that positionSecret lies on the
// Merkle path to the root; the nullifier hash and the two output
// commitments are not constrained.
type BurnCircuit struct {
	MerkleRoot        frontend.Variable `gnark:",public"`
	NullifierHash     frontend.Variable `gnark:",public"`
	Token0            frontend.Variable `gnark:",public"`
	Token1            frontend.Variable `gnark:",public"`
	Output0Commitment frontend.Variable `gnark:",public"`
	Output1Commitment frontend.Variable `gnark:",public"`

	PositionSecret   frontend.Variable
	Output0Secret    frontend.Variable
	Output0Nullifier frontend.Variable
	Output1Secret    frontend.Variable
	Output1Nullifier frontend.Variable
	PathElements     [merkletree.Height]frontend.Variable
	PathIndices      [merkletree.Height]frontend.Variable
}

func (c *BurnCircuit) Define(api frontend.API) error {
	api.AssertIsLessOrEqual(api.Add(c.Token0, 1), c.Token1)

	merklePathCheck(api, c.PositionSecret, c.PathElements[:], c.PathIndices[:], c.MerkleRoot)
	return nil
}
