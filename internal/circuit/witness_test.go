package circuit

import (
	"math/big"
	"testing"

	"github.com/zylith/core/internal/field"
)

func TestAssignMembershipFromBuiltSignals(t *testing.T) {
	root := field.FromUint64(1)
	w := emptyWitness(field.FromUint64(2))

	s, err := BuildMembership(root, w)
	if err != nil {
		t.Fatalf("build membership: %v", err)
	}

	c, err := AssignMembership(s.Values)
	if err != nil {
		t.Fatalf("assign membership: %v", err)
	}

	got, ok := c.MerkleRoot.(*big.Int)
	if !ok {
		t.Fatalf("expected MerkleRoot to be a *big.Int, got %T", c.MerkleRoot)
	}
	if got.Cmp(root.BigInt()) != 0 {
		t.Fatalf("expected merkle root %s, got %s", root.String(), got.String())
	}
}

func TestAssignMembershipMissingSignal(t *testing.T) {
	if _, err := AssignMembership(map[string]string{"merkleRoot": "1"}); err == nil {
		t.Fatal("expected error for missing commitment signal")
	}
}
