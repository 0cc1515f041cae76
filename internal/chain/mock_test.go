package chain

import (
	"context"
	"math/big"
	"testing"

	"github.com/zylith/core/internal/circuit"
)

func TestMockClientPoolStateRoundTrip(t *testing.T) {
	c := NewMockClient()
	c.SeedPool("pool-1", &PoolState{
		SqrtPriceX96: big.NewInt(1000),
		Tick:         42,
		Liquidity:    big.NewInt(500),
	})

	state, err := c.PoolState(context.Background(), "pool-1")
	if err != nil {
		t.Fatalf("pool state: %v", err)
	}
	if state.Tick != 42 {
		t.Fatalf("expected tick 42, got %d", state.Tick)
	}
}

func TestMockClientUnknownPoolFails(t *testing.T) {
	c := NewMockClient()
	if _, err := c.PoolState(context.Background(), "does-not-exist"); err == nil {
		t.Fatal("expected error for unknown pool")
	}
}

func TestMockClientDefaultPositionState(t *testing.T) {
	c := NewMockClient()
	state, err := c.PositionState(context.Background(), "pool-1", "owner-1")
	if err != nil {
		t.Fatalf("position state: %v", err)
	}
	if state.Liquidity.Sign() != 0 {
		t.Fatal("expected zero liquidity for unseeded position")
	}
}

func TestMockClientNullifierTracking(t *testing.T) {
	c := NewMockClient()
	spent, err := c.IsNullifierSpent(context.Background(), "nf-1")
	if err != nil || spent {
		t.Fatal("expected nullifier to start unspent")
	}

	c.MarkNullifierSpent("nf-1")
	spent, err = c.IsNullifierSpent(context.Background(), "nf-1")
	if err != nil || !spent {
		t.Fatal("expected nullifier to be spent after marking")
	}
}

func TestMockClientRootAndPauseState(t *testing.T) {
	c := NewMockClient()
	c.SetRoot(big.NewInt(777))
	c.SetPaused(true)

	root, err := c.MerkleRoot(context.Background())
	if err != nil || root != "777" {
		t.Fatalf("expected root 777, got %q (err %v)", root, err)
	}

	known, err := c.IsKnownRoot(context.Background(), "777")
	if err != nil || !known {
		t.Fatal("expected root 777 to be known")
	}

	paused, err := c.IsPaused(context.Background())
	if err != nil || !paused {
		t.Fatal("expected paused to be true")
	}
}

func TestMockClientSubmit(t *testing.T) {
	c := NewMockClient()
	result, err := c.Submit(context.Background(), Submission{Kind: circuit.KindSwap, Calldata: []string{"1", "2"}})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.TxHash == "" {
		t.Fatal("expected a non-empty tx hash")
	}
}
