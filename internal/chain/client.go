// Package chain implements the thin on-chain client contract the core
// depends on: submitting verifier calldata, reading pool and position
// state, and reading coordinator state. The CLMM pricing math and the
// verifier's pairing checks live on chain; this package only knows how to
// call into them, never how they work internally.
package chain

import (
	"context"
	"errors"
	"math/big"

	"github.com/zylith/core/internal/circuit"
)

// ErrChainFailure is returned when submission or a read against the
// on-chain collaborator fails for a reason outside this package's control
// (RPC error, reverted transaction, reorg) — the transient class the ASP
// retries once with backoff.
var ErrChainFailure = errors.New("chain: on-chain call failed")

// PoolState mirrors the CLMM pool fields the core reads to validate and
// price swaps/mints/burns locally before submitting.
type PoolState struct {
	SqrtPriceX96     *big.Int
	Tick             int32
	Liquidity        *big.Int
	FeeGrowthGlobal0 *big.Int
	FeeGrowthGlobal1 *big.Int
	ProtocolFees0    *big.Int
	ProtocolFees1    *big.Int
}

// PositionState mirrors the per-owner position fields the CLMM pool tracks.
type PositionState struct {
	Liquidity            *big.Int
	FeeGrowthInsideLast0 *big.Int
	FeeGrowthInsideLast1 *big.Int
	TokensOwed0          *big.Int
	TokensOwed1          *big.Int
}

// CoordinatorState mirrors the shielded-pool coordinator's on-chain state.
type CoordinatorState struct {
	MerkleRoot    *big.Int
	NextLeafIndex uint64
	IsPaused      bool
}

// Submission is the calldata the core hands to the verifier-coordinator
// entry point matching a given circuit kind.
type Submission struct {
	Kind     circuit.Kind
	Calldata []string
}

// SubmissionResult carries back whatever the caller needs to correlate a
// submission with its eventual confirmation.
type SubmissionResult struct {
	TxHash string
}

// Client is the on-chain capability surface the core consumes. Every
// method is read-only except Submit.
type Client interface {
	Submit(ctx context.Context, sub Submission) (*SubmissionResult, error)

	PoolState(ctx context.Context, poolKey string) (*PoolState, error)
	PositionState(ctx context.Context, poolKey string, owner string) (*PositionState, error)

	IsNullifierSpent(ctx context.Context, nullifierHash string) (bool, error)
	MerkleRoot(ctx context.Context) (string, error)
	IsKnownRoot(ctx context.Context, root string) (bool, error)
	NextLeafIndex(ctx context.Context) (uint64, error)
	IsPaused(ctx context.Context) (bool, error)
}
