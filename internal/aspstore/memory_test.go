package aspstore

import (
	"context"
	"testing"
)

func TestMemoryStoreAppendLeafIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.AppendLeaf(ctx, LeafRecord{LeafIndex: 0, Commitment: "123"}); err != nil {
		t.Fatalf("append leaf: %v", err)
	}
	if err := s.AppendLeaf(ctx, LeafRecord{LeafIndex: 0, Commitment: "123"}); err != nil {
		t.Fatalf("re-append leaf: %v", err)
	}

	count, err := s.LeafCount(ctx)
	if err != nil || count != 1 {
		t.Fatalf("expected leaf count 1, got %d (err %v)", count, err)
	}
}

func TestMemoryStoreLeafByIndexNotFound(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if _, err := s.LeafByIndex(ctx, 5); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreNullifierDuplicateRejected(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.MarkNullifierSpent(ctx, "nf-1", "tx-1"); err != nil {
		t.Fatalf("mark spent: %v", err)
	}
	if err := s.MarkNullifierSpent(ctx, "nf-1", "tx-2"); err != ErrDuplicate {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	spent, err := s.IsNullifierSpent(ctx, "nf-1")
	if err != nil || !spent {
		t.Fatal("expected nf-1 to be spent")
	}
}

func TestMemoryStoreRecentRootsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	for _, r := range []string{"r1", "r2", "r3"} {
		if err := s.AppendRoot(ctx, r); err != nil {
			t.Fatalf("append root: %v", err)
		}
	}

	recent, err := s.RecentRoots(ctx, 2)
	if err != nil {
		t.Fatalf("recent roots: %v", err)
	}
	if len(recent) != 2 || recent[0] != "r3" || recent[1] != "r2" {
		t.Fatalf("unexpected recent roots: %v", recent)
	}

	known, err := s.IsKnownRoot(ctx, "r1")
	if err != nil || !known {
		t.Fatal("expected r1 to be known")
	}
}

func TestMemoryStoreSnapshotTrimsRootHistory(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	for i := 0; i < 150; i++ {
		if err := s.AppendRoot(ctx, string(rune('a'+i%26))); err != nil {
			t.Fatalf("append root: %v", err)
		}
	}

	if err := s.Snapshot(ctx); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(s.roots) != 100 {
		t.Fatalf("expected root history trimmed to 100, got %d", len(s.roots))
	}
}
