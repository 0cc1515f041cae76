package sdk

import (
	"context"
	"fmt"
	"math/big"

	"github.com/zylith/core/internal/commitment"
	"github.com/zylith/core/internal/field"
	"github.com/zylith/core/internal/tickmath"
	"github.com/zylith/core/internal/vault"
)

// DepositResult reports the outcome of a deposit.
type DepositResult struct {
	LeafIndex uint64
	Root      string
	Calldata  []string
}

// Deposit mints a new note for amount of token, submits its commitment to
// the ASP, records it (unconfirmed) in the vault, and persists.
func (c *Client) Deposit(ctx context.Context, token field.Element, amount *big.Int) (*DepositResult, error) {
	if err := c.requireReady(); err != nil {
		return nil, err
	}

	low, high, err := tickmath.SplitU256(amount)
	if err != nil {
		return nil, fmt.Errorf("sdk: invalid amount: %w", err)
	}
	amountLow, err := field.FromBigInt(low)
	if err != nil {
		return nil, err
	}
	amountHigh, err := field.FromBigInt(high)
	if err != nil {
		return nil, err
	}

	secret, nullifier, err := newSecretNullifier()
	if err != nil {
		return nil, fmt.Errorf("sdk: generate note randomness: %w", err)
	}

	leaf, err := c.computeNoteCommitment(ctx, secret, nullifier, amountLow, amountHigh, token)
	if err != nil {
		return nil, err
	}

	resp, err := c.asp.deposit(ctx, leaf.String())
	if err != nil {
		return nil, err
	}

	// LeafIndex is left nil: Deposit only reserves a tentative position;
	// the note isn't actually in the canonical tree — and so
	// isn't spendable — until a later SyncVault confirms it.
	note := &vault.Note{
		Secret:     secret,
		Nullifier:  nullifier,
		AmountLow:  amountLow,
		AmountHigh: amountHigh,
		Token:      token,
		Commitment: leaf,
	}
	c.doc.AddNote(note)
	if err := c.persist(); err != nil {
		return nil, err
	}

	return &DepositResult{LeafIndex: resp.LeafIndex, Root: resp.Root, Calldata: resp.Calldata}, nil
}

// WithdrawResult reports the outcome of a withdraw.
type WithdrawResult struct {
	TxHash        string
	NullifierHash string
}

// Withdraw spends an unspent note in full, paying recipient, and marks the
// note spent in the vault on success.
func (c *Client) Withdraw(ctx context.Context, note *vault.Note, recipient string) (*WithdrawResult, error) {
	if err := c.requireReady(); err != nil {
		return nil, err
	}
	if note.LeafIndex == nil {
		return nil, fmt.Errorf("sdk: note has no confirmed leaf index yet")
	}

	resp, err := c.asp.withdraw(ctx, withdrawRequest{
		Secret:     note.Secret.String(),
		Nullifier:  note.Nullifier.String(),
		AmountLow:  note.AmountLow.String(),
		AmountHigh: note.AmountHigh.String(),
		Token:      note.Token.String(),
		Recipient:  recipient,
		LeafIndex:  *note.LeafIndex,
	})
	if err != nil {
		return nil, err
	}

	nullifierHash, err := commitment.NullifierHash(note.Nullifier)
	if err != nil {
		return nil, err
	}
	if err := c.doc.MarkSpent(nullifierHash); err != nil {
		return nil, err
	}
	if err := c.persist(); err != nil {
		return nil, err
	}

	return &WithdrawResult{TxHash: resp.TxHash, NullifierHash: resp.NullifierHash}, nil
}

// SwapResult reports the outcome of a swap.
type SwapResult struct {
	TxHash     string
	OutputNote *vault.Note
	ChangeNote *vault.Note
}

// Swap spends input in full, producing a new output note of tokenOut for
// amountOut and, when changeAmount is positive, a change note of tokenIn for
// the remainder. An exact-input swap (changeAmount == 0) still submits a
// dummy zero-value change commitment to satisfy the swap circuit's fixed
// 8-signal public layout, but that dummy note is never added to the vault —
// a zero-amount note is unspendable in any case.
func (c *Client) Swap(ctx context.Context, poolKey string, input *vault.Note, tokenOut field.Element, amountIn, amountOut, changeAmount *big.Int, sqrtPriceLimit field.Element) (*SwapResult, error) {
	if err := c.requireReady(); err != nil {
		return nil, err
	}
	if input.LeafIndex == nil {
		return nil, fmt.Errorf("sdk: input note has no confirmed leaf index yet")
	}

	if changeAmount == nil {
		changeAmount = new(big.Int)
	}
	outputNote, err := c.buildNote(ctx, tokenOut, amountOut)
	if err != nil {
		return nil, err
	}
	changeNote, err := c.buildNote(ctx, input.Token, changeAmount)
	if err != nil {
		return nil, err
	}
	hasChange := changeAmount.Sign() > 0

	resp, err := c.asp.swap(ctx, swapRequest{
		PoolKey:   poolKey,
		InputNote: noteToWire(input),
		SwapParams: swapParamsWire{
			TokenIn:  input.Token.String(),
			TokenOut: tokenOut.String(),
			AmountIn: amountIn.String(),
		},
		OutputNote:     noteToWire(outputNote),
		ChangeNote:     noteToWire(changeNote),
		SqrtPriceLimit: sqrtPriceLimit.String(),
	})
	if err != nil {
		return nil, err
	}

	if hasChange {
		if err := c.spendAndAdd(input, outputNote, changeNote); err != nil {
			return nil, err
		}
	} else {
		if err := c.spendAndAdd(input, outputNote); err != nil {
			return nil, err
		}
		changeNote = nil
	}

	return &SwapResult{TxHash: resp.TxHash, OutputNote: outputNote, ChangeNote: changeNote}, nil
}

func (c *Client) buildNote(ctx context.Context, token field.Element, amount *big.Int) (*vault.Note, error) {
	low, high, err := tickmath.SplitU256(amount)
	if err != nil {
		return nil, fmt.Errorf("sdk: invalid amount: %w", err)
	}
	amountLow, err := field.FromBigInt(low)
	if err != nil {
		return nil, err
	}
	amountHigh, err := field.FromBigInt(high)
	if err != nil {
		return nil, err
	}
	secret, nullifier, err := newSecretNullifier()
	if err != nil {
		return nil, fmt.Errorf("sdk: generate note randomness: %w", err)
	}
	leaf, err := c.computeNoteCommitment(ctx, secret, nullifier, amountLow, amountHigh, token)
	if err != nil {
		return nil, err
	}
	return &vault.Note{
		Secret:     secret,
		Nullifier:  nullifier,
		AmountLow:  amountLow,
		AmountHigh: amountHigh,
		Token:      token,
		Commitment: leaf,
	}, nil
}

func (c *Client) buildPositionNote(ctx context.Context, tickLower, tickUpper int32, liquidity field.Element) (*vault.PositionNote, error) {
	tickLowerOffset, err := tickmath.SignedToOffset(tickLower)
	if err != nil {
		return nil, fmt.Errorf("sdk: invalid tick_lower: %w", err)
	}
	tickUpperOffset, err := tickmath.SignedToOffset(tickUpper)
	if err != nil {
		return nil, fmt.Errorf("sdk: invalid tick_upper: %w", err)
	}
	secret, nullifier, err := newSecretNullifier()
	if err != nil {
		return nil, fmt.Errorf("sdk: generate position randomness: %w", err)
	}
	tickLowerEl := field.FromUint64(tickLowerOffset)
	tickUpperEl := field.FromUint64(tickUpperOffset)
	leaf, err := c.computePositionCommitment(ctx, secret, nullifier, tickLowerEl, tickUpperEl, liquidity)
	if err != nil {
		return nil, err
	}
	return &vault.PositionNote{
		Secret:          secret,
		Nullifier:       nullifier,
		TickLowerOffset: tickLowerEl,
		TickUpperOffset: tickUpperEl,
		Liquidity:       liquidity,
		Commitment:      leaf,
	}, nil
}

// spendAndAdd marks input spent and records newly-produced notes, all in
// one vault mutation, persisting once at the end.
func (c *Client) spendAndAdd(input *vault.Note, produced ...*vault.Note) error {
	nullifierHash, err := commitment.NullifierHash(input.Nullifier)
	if err != nil {
		return err
	}
	if err := c.doc.MarkSpent(nullifierHash); err != nil {
		return err
	}
	for _, n := range produced {
		c.doc.AddNote(n)
	}
	return c.persist()
}

// MintResult reports the outcome of a mint.
type MintResult struct {
	TxHash      string
	Position    *vault.PositionNote
	ChangeNote0 *vault.Note
	ChangeNote1 *vault.Note
}

// Mint spends input0 and input1 in full, opening a new position of
// liquidity in [tickLower, tickUpper) and returning change notes for
// whatever each input didn't consume.
func (c *Client) Mint(ctx context.Context, poolKey string, input0, input1 *vault.Note, tickLower, tickUpper int32, liquidity field.Element, changeAmount0, changeAmount1 *big.Int) (*MintResult, error) {
	if err := c.requireReady(); err != nil {
		return nil, err
	}
	if input0.LeafIndex == nil || input1.LeafIndex == nil {
		return nil, fmt.Errorf("sdk: input note has no confirmed leaf index yet")
	}

	position, err := c.buildPositionNote(ctx, tickLower, tickUpper, liquidity)
	if err != nil {
		return nil, err
	}
	change0, err := c.buildNote(ctx, input0.Token, changeAmount0)
	if err != nil {
		return nil, err
	}
	change1, err := c.buildNote(ctx, input1.Token, changeAmount1)
	if err != nil {
		return nil, err
	}

	positionWire, err := positionToWire(position)
	if err != nil {
		return nil, err
	}

	resp, err := c.asp.mint(ctx, mintRequest{
		PoolKey:     poolKey,
		InputNote0:  noteToWire(input0),
		InputNote1:  noteToWire(input1),
		Position:    positionWire,
		ChangeNote0: noteToWire(change0),
		ChangeNote1: noteToWire(change1),
		Liquidity:   liquidity.String(),
		TickLower:   tickLower,
		TickUpper:   tickUpper,
	})
	if err != nil {
		return nil, err
	}

	if err := c.spendAndAdd(input0, change0); err != nil {
		return nil, err
	}
	if err := c.spendAndAdd(input1, change1); err != nil {
		return nil, err
	}
	c.doc.AddPositionNote(position)
	if err := c.persist(); err != nil {
		return nil, err
	}

	return &MintResult{TxHash: resp.TxHash, Position: position, ChangeNote0: change0, ChangeNote1: change1}, nil
}

// BurnResult reports the outcome of a burn.
type BurnResult struct {
	TxHash      string
	OutputNote0 *vault.Note
	OutputNote1 *vault.Note
}

// Burn spends a position note in full, releasing its underlying liquidity
// as two new notes (one per pool token).
func (c *Client) Burn(ctx context.Context, poolKey string, position *vault.PositionNote, token0, token1 field.Element, amount0, amount1 *big.Int) (*BurnResult, error) {
	if err := c.requireReady(); err != nil {
		return nil, err
	}
	if position.LeafIndex == nil {
		return nil, fmt.Errorf("sdk: position note has no confirmed leaf index yet")
	}

	output0, err := c.buildNote(ctx, token0, amount0)
	if err != nil {
		return nil, err
	}
	output1, err := c.buildNote(ctx, token1, amount1)
	if err != nil {
		return nil, err
	}

	positionWire, err := positionToWire(position)
	if err != nil {
		return nil, err
	}

	resp, err := c.asp.burn(ctx, burnRequest{
		PoolKey:      poolKey,
		PositionNote: positionWire,
		OutputNote0:  noteToWire(output0),
		OutputNote1:  noteToWire(output1),
		Liquidity:    position.Liquidity.String(),
	})
	if err != nil {
		return nil, err
	}

	nullifierHash, err := commitment.NullifierHash(position.Nullifier)
	if err != nil {
		return nil, err
	}
	if err := c.doc.MarkSpent(nullifierHash); err != nil {
		return nil, err
	}
	c.doc.AddNote(output0)
	c.doc.AddNote(output1)
	if err := c.persist(); err != nil {
		return nil, err
	}

	return &BurnResult{TxHash: resp.TxHash, OutputNote0: output0, OutputNote1: output1}, nil
}
