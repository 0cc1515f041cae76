package circuit

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark/frontend"
)

// ErrMissingSignal is returned when a witness assignment function can't
// find a required signal name in the supplied map.
type ErrMissingSignal string

func (e ErrMissingSignal) Error() string {
	return fmt.Sprintf("circuit: missing signal %q", string(e))
}

func requireBigInt(signals map[string]string, name string) (*big.Int, error) {
	s, ok := signals[name]
	if !ok {
		return nil, ErrMissingSignal(name)
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("circuit: malformed decimal signal %q=%q", name, s)
	}
	return v, nil
}

// assignField looks up name in signals and stores it into *dst, a pointer
// to one of a circuit struct's frontend.Variable fields.
func assignField(signals map[string]string, name string, dst *frontend.Variable) error {
	v, err := requireBigInt(signals, name)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func assignPathArray(signals map[string]string, prefix string, elements, indices []frontend.Variable) error {
	for i := range elements {
		if err := assignField(signals, fmt.Sprintf("%s_pathElements_%d", prefix, i), &elements[i]); err != nil {
			return err
		}
		if err := assignField(signals, fmt.Sprintf("%s_pathIndices_%d", prefix, i), &indices[i]); err != nil {
			return err
		}
	}
	return nil
}

// AssignMembership builds a MembershipCircuit witness from the signal map
// produced by BuildMembership.
func AssignMembership(signals map[string]string) (*MembershipCircuit, error) {
	c := &MembershipCircuit{}
	if err := assignField(signals, "merkleRoot", &c.MerkleRoot); err != nil {
		return nil, err
	}
	if err := assignField(signals, "commitment", &c.Commitment); err != nil {
		return nil, err
	}
	if err := assignPathArray(signals, "membership", c.PathElements[:], c.PathIndices[:]); err != nil {
		return nil, err
	}
	return c, nil
}

// AssignSwap builds a SwapCircuit witness from the signal map produced by
// BuildSwap.
func AssignSwap(signals map[string]string) (*SwapCircuit, error) {
	c := &SwapCircuit{}
	assignments := []struct {
		name string
		dst  *frontend.Variable
	}{
		{"merkleRoot", &c.MerkleRoot},
		{"nullifierHashIn", &c.NullifierHashIn},
		{"tokenIn", &c.TokenIn},
		{"tokenOut", &c.TokenOut},
		{"outputCommitment", &c.OutputCommitment},
		{"changeCommitment", &c.ChangeCommitment},
		{"sqrtPriceLimit", &c.SqrtPriceLimit},
		{"amountIn", &c.AmountIn},
		{"inputSecret", &c.InputSecret},
		{"inputAmountLow", &c.InputAmountLow},
		{"inputAmountHigh", &c.InputAmountHigh},
		{"outputSecret", &c.OutputSecret},
		{"outputNullifier", &c.OutputNullifier},
		{"changeSecret", &c.ChangeSecret},
		{"changeNullifier", &c.ChangeNullifier},
	}
	for _, a := range assignments {
		if err := assignField(signals, a.name, a.dst); err != nil {
			return nil, err
		}
	}
	if err := assignPathArray(signals, "swap", c.PathElements[:], c.PathIndices[:]); err != nil {
		return nil, err
	}
	return c, nil
}

// AssignMint builds a MintCircuit witness from the signal map produced by BuildMint.
func AssignMint(signals map[string]string) (*MintCircuit, error) {
	c := &MintCircuit{}
	assignments := []struct {
		name string
		dst  *frontend.Variable
	}{
		{"merkleRoot", &c.MerkleRoot},
		{"nullifierHash0", &c.NullifierHash0},
		{"nullifierHash1", &c.NullifierHash1},
		{"token0", &c.Token0},
		{"token1", &c.Token1},
		{"positionCommitment", &c.PositionCommitment},
		{"changeCommitment0", &c.ChangeCommitment0},
		{"changeCommitment1", &c.ChangeCommitment1},
		{"inputSecret0", &c.InputSecret0},
		{"inputSecret1", &c.InputSecret1},
		{"tickLowerOffset", &c.TickLowerOffset},
		{"tickUpperOffset", &c.TickUpperOffset},
		{"liquidity", &c.Liquidity},
		{"positionSecret", &c.PositionSecret},
		{"changeSecret0", &c.ChangeSecret0},
		{"changeSecret1", &c.ChangeSecret1},
	}
	for _, a := range assignments {
		if err := assignField(signals, a.name, a.dst); err != nil {
			return nil, err
		}
	}
	if err := assignPathArray(signals, "mint0", c.PathElements0[:], c.PathIndices0[:]); err != nil {
		return nil, err
	}
	if err := assignPathArray(signals, "mint1", c.PathElements1[:], c.PathIndices1[:]); err != nil {
		return nil, err
	}
	return c, nil
}

// AssignBurn builds a BurnCircuit witness from the signal map produced by BuildBurn.
func AssignBurn(signals map[string]string) (*BurnCircuit, error) {
	c := &BurnCircuit{}
	assignments := []struct {
		name string
		dst  *frontend.Variable
	}{
		{"merkleRoot", &c.MerkleRoot},
		{"nullifierHash", &c.NullifierHash},
		{"token0", &c.Token0},
		{"token1", &c.Token1},
		{"output0Commitment", &c.Output0Commitment},
		{"output1Commitment", &c.Output1Commitment},
		{"positionSecret", &c.PositionSecret},
		{"output0Secret", &c.Output0Secret},
		{"output0Nullifier", &c.Output0Nullifier},
		{"output1Secret", &c.Output1Secret},
		{"output1Nullifier", &c.Output1Nullifier},
	}
	for _, a := range assignments {
		if err := assignField(signals, a.name, a.dst); err != nil {
			return nil, err
		}
	}
	if err := assignPathArray(signals, "burn", c.PathElements[:], c.PathIndices[:]); err != nil {
		return nil, err
	}
	return c, nil
}
