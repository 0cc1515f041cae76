package asp

import (
	"github.com/zylith/core/internal/circuit"
	"github.com/zylith/core/internal/commitment"
	"github.com/zylith/core/internal/field"
	"github.com/zylith/core/internal/tickmath"
)

func parseField(name, s string) (field.Element, error) {
	e, err := field.FromDecimalString(s)
	if err != nil {
		return field.Element{}, newAPIError(kindInvalidField, "invalid "+name, err)
	}
	return e, nil
}

func parseNoteFields(secret, nullifier, amountLow, amountHigh, token string) (s, n, al, ah, t field.Element, err error) {
	if s, err = parseField("secret", secret); err != nil {
		return
	}
	if n, err = parseField("nullifier", nullifier); err != nil {
		return
	}
	if al, err = parseField("amount_low", amountLow); err != nil {
		return
	}
	if ah, err = parseField("amount_high", amountHigh); err != nil {
		return
	}
	if t, err = parseField("token", token); err != nil {
		return
	}
	return
}

func noteCommitment(n noteWire) (leaf, secret, nullifier field.Element, err error) {
	secret, nullifier, amountLow, amountHigh, token, err := parseNoteFields(n.Secret, n.Nullifier, n.AmountLow, n.AmountHigh, n.Token)
	if err != nil {
		return field.Element{}, field.Element{}, field.Element{}, err
	}
	leaf, hashErr := commitment.NoteCommitment(secret, nullifier, amountLow, amountHigh, token)
	if hashErr != nil {
		return field.Element{}, field.Element{}, field.Element{}, newAPIError(kindInternal, "compute commitment", hashErr)
	}
	return leaf, secret, nullifier, nil
}

func positionCommitment(p positionNoteWire) (leaf, secret, nullifier field.Element, err error) {
	secretEl, nErr := parseField("secret", p.Secret)
	if nErr != nil {
		return field.Element{}, field.Element{}, field.Element{}, nErr
	}
	nullifierEl, nErr := parseField("nullifier", p.Nullifier)
	if nErr != nil {
		return field.Element{}, field.Element{}, field.Element{}, nErr
	}
	liquidity, nErr := parseField("liquidity", p.Liquidity)
	if nErr != nil {
		return field.Element{}, field.Element{}, field.Element{}, nErr
	}
	tickLowerOffset, tErr := tickmath.SignedToOffset(p.TickLower)
	if tErr != nil {
		return field.Element{}, field.Element{}, field.Element{}, newAPIError(kindConstraintViolation, "invalid tick_lower", tErr)
	}
	tickUpperOffset, tErr := tickmath.SignedToOffset(p.TickUpper)
	if tErr != nil {
		return field.Element{}, field.Element{}, field.Element{}, newAPIError(kindConstraintViolation, "invalid tick_upper", tErr)
	}

	leaf, hashErr := commitment.PositionCommitment(secretEl, nullifierEl, field.FromUint64(tickLowerOffset), field.FromUint64(tickUpperOffset), liquidity)
	if hashErr != nil {
		return field.Element{}, field.Element{}, field.Element{}, newAPIError(kindInternal, "compute position commitment", hashErr)
	}
	return leaf, secretEl, nullifierEl, nil
}

func parseSwapInput(req swapRequest) (*circuit.SwapInput, error) {
	inputLeaf, inputSecret, inputNullifier, err := noteCommitment(req.InputNote)
	if err != nil {
		return nil, err
	}
	tokenIn, err := parseField("token_in", req.SwapParams.TokenIn)
	if err != nil {
		return nil, err
	}
	tokenOut, err := parseField("token_out", req.SwapParams.TokenOut)
	if err != nil {
		return nil, err
	}
	amountIn, err := parseField("amount_in", req.SwapParams.AmountIn)
	if err != nil {
		return nil, err
	}
	sqrtPriceLimit, err := parseField("sqrt_price_limit", req.SqrtPriceLimit)
	if err != nil {
		return nil, err
	}
	outputLeaf, outputSecret, outputNullifier, err := noteCommitment(req.OutputNote)
	if err != nil {
		return nil, err
	}
	changeLeaf, changeSecret, changeNullifier, err := noteCommitment(req.ChangeNote)
	if err != nil {
		return nil, err
	}

	inputAmountLow, err := parseField("input amount_low", req.InputNote.AmountLow)
	if err != nil {
		return nil, err
	}
	inputAmountHigh, err := parseField("input amount_high", req.InputNote.AmountHigh)
	if err != nil {
		return nil, err
	}

	return &circuit.SwapInput{
		InputWitness:     &circuit.MerkleWitness{Leaf: inputLeaf},
		InputNullifier:   inputNullifier,
		InputSecret:      inputSecret,
		InputAmountLow:   inputAmountLow,
		InputAmountHigh:  inputAmountHigh,
		TokenIn:          tokenIn,
		TokenOut:         tokenOut,
		OutputSecret:     outputSecret,
		OutputNullifier:  outputNullifier,
		OutputCommitment: outputLeaf,
		ChangeSecret:     changeSecret,
		ChangeNullifier:  changeNullifier,
		ChangeCommitment: changeLeaf,
		SqrtPriceLimit:   sqrtPriceLimit,
		AmountIn:         amountIn,
	}, nil
}

func parseMintInput(req mintRequest) (*circuit.MintInput, error) {
	input0Leaf, input0Secret, input0Nullifier, err := noteCommitment(req.InputNote0)
	if err != nil {
		return nil, err
	}
	input1Leaf, input1Secret, input1Nullifier, err := noteCommitment(req.InputNote1)
	if err != nil {
		return nil, err
	}
	token0, err := parseField("token_0", req.InputNote0.Token)
	if err != nil {
		return nil, err
	}
	token1, err := parseField("token_1", req.InputNote1.Token)
	if err != nil {
		return nil, err
	}
	liquidity, err := parseField("liquidity", req.Liquidity)
	if err != nil {
		return nil, err
	}
	positionSecret, err := parseField("position secret", req.Position.Secret)
	if err != nil {
		return nil, err
	}
	positionNullifier, err := parseField("position nullifier", req.Position.Nullifier)
	if err != nil {
		return nil, err
	}
	tickLowerOffset, tErr := tickmath.SignedToOffset(req.TickLower)
	if tErr != nil {
		return nil, newAPIError(kindConstraintViolation, "invalid tick_lower", tErr)
	}
	tickUpperOffset, tErr := tickmath.SignedToOffset(req.TickUpper)
	if tErr != nil {
		return nil, newAPIError(kindConstraintViolation, "invalid tick_upper", tErr)
	}
	positionCommitmentLeaf, hashErr := commitment.PositionCommitment(
		positionSecret, positionNullifier,
		field.FromUint64(tickLowerOffset), field.FromUint64(tickUpperOffset),
		liquidity,
	)
	if hashErr != nil {
		return nil, newAPIError(kindInternal, "compute position commitment", hashErr)
	}
	change0Leaf, change0Secret, change0Nullifier, err := noteCommitment(req.ChangeNote0)
	if err != nil {
		return nil, err
	}
	change1Leaf, change1Secret, change1Nullifier, err := noteCommitment(req.ChangeNote1)
	if err != nil {
		return nil, err
	}

	return &circuit.MintInput{
		InputWitness0:      &circuit.MerkleWitness{Leaf: input0Leaf},
		InputWitness1:      &circuit.MerkleWitness{Leaf: input1Leaf},
		InputNullifier0:    input0Nullifier,
		InputNullifier1:    input1Nullifier,
		InputSecret0:       input0Secret,
		InputSecret1:       input1Secret,
		Token0:             token0,
		Token1:             token1,
		TickLower:          req.TickLower,
		TickUpper:          req.TickUpper,
		Liquidity:          liquidity,
		PositionSecret:     positionSecret,
		PositionNullifier:  positionNullifier,
		PositionCommitment: positionCommitmentLeaf,
		ChangeSecret0:      change0Secret,
		ChangeNullifier0:   change0Nullifier,
		ChangeCommitment0:  change0Leaf,
		ChangeSecret1:      change1Secret,
		ChangeNullifier1:   change1Nullifier,
		ChangeCommitment1:  change1Leaf,
	}, nil
}

func parseBurnInput(req burnRequest) (*circuit.BurnInput, error) {
	positionLeaf, positionSecret, positionNullifier, err := positionCommitment(req.PositionNote)
	if err != nil {
		return nil, err
	}
	token0, err := parseField("token_0", req.OutputNote0.Token)
	if err != nil {
		return nil, err
	}
	token1, err := parseField("token_1", req.OutputNote1.Token)
	if err != nil {
		return nil, err
	}
	output0Leaf, output0Secret, output0Nullifier, err := noteCommitment(req.OutputNote0)
	if err != nil {
		return nil, err
	}
	output1Leaf, output1Secret, output1Nullifier, err := noteCommitment(req.OutputNote1)
	if err != nil {
		return nil, err
	}

	return &circuit.BurnInput{
		PositionWitness:   &circuit.MerkleWitness{Leaf: positionLeaf},
		PositionNullifier: positionNullifier,
		PositionSecret:    positionSecret,
		Token0:            token0,
		Token1:            token1,
		Output0Secret:     output0Secret,
		Output0Nullifier:  output0Nullifier,
		Output0Commitment: output0Leaf,
		Output1Secret:     output1Secret,
		Output1Nullifier:  output1Nullifier,
		Output1Commitment: output1Leaf,
	}, nil
}
