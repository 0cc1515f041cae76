// Package aspstore implements the ASP's authoritative persistence layer:
// the canonical commitment ledger (leaves in insertion order), the
// nullifier set, and the root history, stored as an append-only log with
// periodic compacted snapshots. Writes are idempotent so a retried insert
// after a partial failure never duplicates.
package aspstore

import (
	"context"
	"errors"
)

// Common errors.
var (
	ErrNotFound     = errors.New("aspstore: not found")
	ErrDuplicate    = errors.New("aspstore: duplicate entry")
	ErrDBConnection = errors.New("aspstore: database connection error")
)

// LeafRecord is one entry in the canonical commitment ledger.
type LeafRecord struct {
	LeafIndex  uint64
	Commitment string // decimal field element
}

// Store is the ASP's persistence contract. PostgresStore is the
// production implementation and MemoryStore is used in tests and for the
// single-process demo path.
type Store interface {
	// AppendLeaf records a new commitment at the next leaf index,
	// idempotent on (leafIndex, commitment) so a retried insert after a
	// partial failure doesn't duplicate.
	AppendLeaf(ctx context.Context, record LeafRecord) error
	// LeafByIndex looks up a previously appended leaf.
	LeafByIndex(ctx context.Context, leafIndex uint64) (*LeafRecord, error)
	// LeafCount returns the number of leaves appended so far.
	LeafCount(ctx context.Context) (uint64, error)

	// MarkNullifierSpent records a nullifier hash as spent, associated
	// with the tx hash that spent it. Returns ErrDuplicate if already spent.
	MarkNullifierSpent(ctx context.Context, nullifierHash, txHash string) error
	// IsNullifierSpent reports whether a nullifier hash has been recorded spent.
	IsNullifierSpent(ctx context.Context, nullifierHash string) (bool, error)

	// AppendRoot records a new canonical tree root.
	AppendRoot(ctx context.Context, root string) error
	// RecentRoots returns up to limit most-recently-appended roots, newest first.
	RecentRoots(ctx context.Context, limit int) ([]string, error)
	// IsKnownRoot reports whether root is within the retained root history.
	IsKnownRoot(ctx context.Context, root string) (bool, error)

	// Snapshot trims the root history down to its retained window of the
	// 100 newest roots. The ASP service does not call it on its own.
	Snapshot(ctx context.Context) error
}
