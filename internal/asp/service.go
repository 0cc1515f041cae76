// Package asp implements the ASP Service: the authoritative off-chain
// replica of the commitment tree, the ledger, and the nullifier set, plus
// the orchestration of shielded operations end to end (validate -> build
// Merkle proof -> delegate to the Prover Worker -> submit to chain ->
// publish). server.go owns the HTTP plumbing; service.go sequences
// validation, proving, and submission.
package asp

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/zylith/core/internal/aspstore"
	"github.com/zylith/core/internal/chain"
	"github.com/zylith/core/internal/circuit"
	"github.com/zylith/core/internal/commitment"
	"github.com/zylith/core/internal/common"
	"github.com/zylith/core/internal/field"
	"github.com/zylith/core/internal/merkletree"
	"github.com/zylith/core/internal/proverclient"
)

// DefaultHandlerTimeout is the per-request timeout covering prover and
// chain calls.
const DefaultHandlerTimeout = 60 * time.Second

// Version is reported on the /status endpoint.
const Version = "0.1.0"

// Config carries the addresses and identifiers a Service needs but cannot
// derive from its collaborators.
type Config struct {
	Coordinator string
	Pool        string
}

// Service owns the canonical LeanIMT, the authoritative ledger
// (internal/aspstore), the on-chain collaborator, and the Prover Worker
// client. Every method that touches the tree, ledger, or nullifier set
// takes mu, so a per-request operation observes one consistent snapshot of
// (tree, ledger, nullifier set) throughout its execution.
type Service struct {
	mu sync.Mutex

	tree    *merkletree.Tree
	history *merkletree.RootHistory
	store   aspstore.Store
	chain   chain.Client
	prover  *proverclient.Client
	cfg     Config

	// pendingDeposits holds commitments that have been assigned a tentative
	// leaf index but not yet observed confirmed on chain; a commitment is
	// never added to the canonical tree before that. With no on-chain event
	// watcher in this process, SyncCommitments doubles as the confirmation
	// signal: a client calls it once it believes the chain state has
	// settled, and learns its leaf indices in the same round trip.
	pendingDeposits map[string]uint64
	nextPending     uint64

	// confirmedLeaves indexes the canonical tree by commitment value so
	// SyncCommitments can answer "is this commitment already confirmed,
	// and at what leaf index" without a linear scan.
	confirmedLeaves map[string]uint64

	lastSyncedBlock uint64
}

// NewService constructs a Service and replays store's ledger into a fresh
// in-memory tree; recovery is a replay of the append-only leaf log.
func NewService(ctx context.Context, store aspstore.Store, chainClient chain.Client, proverClient *proverclient.Client, cfg Config) (*Service, error) {
	s := &Service{
		tree:            merkletree.New(),
		history:         merkletree.NewRootHistory(merkletree.DefaultRootHistorySize),
		store:           store,
		chain:           chainClient,
		prover:          proverClient,
		cfg:             cfg,
		pendingDeposits: make(map[string]uint64),
		confirmedLeaves: make(map[string]uint64),
	}

	count, err := store.LeafCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("asp: replay leaf count: %w", err)
	}
	for i := uint64(0); i < count; i++ {
		record, err := store.LeafByIndex(ctx, i)
		if err != nil {
			return nil, fmt.Errorf("asp: replay leaf %d: %w", i, err)
		}
		leaf, err := field.FromDecimalString(record.Commitment)
		if err != nil {
			return nil, fmt.Errorf("asp: replay leaf %d: %w", i, err)
		}
		insertedIndex, err := s.tree.Insert(leaf)
		if err != nil {
			return nil, fmt.Errorf("asp: replay leaf %d: %w", i, err)
		}
		s.confirmedLeaves[record.Commitment] = insertedIndex
	}
	s.history.Push(s.tree.Root())
	s.nextPending = count
	return s, nil
}

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, DefaultHandlerTimeout)
}

func (s *Service) checkNotPaused(ctx context.Context) error {
	paused, err := s.chain.IsPaused(ctx)
	if err != nil {
		return newAPIError(kindChainFailure, "read pause state", err)
	}
	if paused {
		return newAPIError(kindPaused, "coordinator is paused", nil)
	}
	return nil
}

// submitWithRetry submits sub to the chain, retrying exactly once on a
// transient ErrChainFailure with a short backoff.
func (s *Service) submitWithRetry(ctx context.Context, sub chain.Submission) (*chain.SubmissionResult, error) {
	result, err := s.chain.Submit(ctx, sub)
	if err == nil {
		return result, nil
	}
	if !isChainFailure(err) {
		return nil, newAPIError(kindChainFailure, "submit to chain", err)
	}
	select {
	case <-time.After(200 * time.Millisecond):
	case <-ctx.Done():
		return nil, newAPIError(kindChainFailure, "submit to chain (timed out before retry)", ctx.Err())
	}
	result, err = s.chain.Submit(ctx, sub)
	if err != nil {
		return nil, newAPIError(kindChainFailure, "submit to chain (after retry)", err)
	}
	return result, nil
}

func isChainFailure(err error) bool {
	return errors.Is(err, chain.ErrChainFailure)
}

// wrapTreeInsertError distinguishes the LeanIMT's capacity error, a
// caller-visible condition, from any other insertion failure, which is
// internal.
func wrapTreeInsertError(err error) error {
	if errors.Is(err, merkletree.ErrTreeFull) {
		return newAPIError(kindTreeFull, "commitment tree is full", err)
	}
	return newAPIError(kindInternal, "insert commitment", err)
}

// Deposit reserves the next leaf index for commitment and returns the
// calldata the caller must submit to escrow their tokens and register the
// commitment on chain. The commitment is not added to the canonical tree
// here; see SyncCommitments.
func (s *Service) Deposit(ctx context.Context, commitmentDecimal string) (leafIndex uint64, root string, calldata []string, err error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if _, parseErr := field.FromDecimalString(commitmentDecimal); parseErr != nil {
		return 0, "", nil, newAPIError(kindInvalidField, "invalid commitment", parseErr)
	}
	if err := s.checkNotPaused(ctx); err != nil {
		return 0, "", nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.pendingDeposits[commitmentDecimal]; ok {
		return existing, common.FieldToHex(s.tree.Root()), []string{commitmentDecimal, fmt.Sprintf("%d", existing)}, nil
	}

	idx := s.nextPending
	s.nextPending++
	s.pendingDeposits[commitmentDecimal] = idx

	return idx, common.FieldToHex(s.tree.Root()), []string{commitmentDecimal, fmt.Sprintf("%d", idx)}, nil
}

// confirmPendingLocked promotes a previously-reserved deposit into the
// canonical tree and ledger. Caller must hold s.mu.
func (s *Service) confirmPendingLocked(ctx context.Context, commitmentDecimal string) (uint64, error) {
	leafIndex, ok := s.pendingDeposits[commitmentDecimal]
	if !ok {
		return 0, nil
	}
	leaf, err := field.FromDecimalString(commitmentDecimal)
	if err != nil {
		return 0, newAPIError(kindInvalidField, "invalid commitment", err)
	}
	insertedIndex, err := s.tree.Insert(leaf)
	if err != nil {
		return 0, wrapTreeInsertError(err)
	}
	if err := s.store.AppendLeaf(ctx, aspstore.LeafRecord{LeafIndex: insertedIndex, Commitment: commitmentDecimal}); err != nil {
		return 0, newAPIError(kindInternal, "persist leaf", err)
	}
	root := s.tree.Root()
	if err := s.store.AppendRoot(ctx, common.FieldToHex(root)); err != nil {
		return 0, newAPIError(kindInternal, "persist root", err)
	}
	s.history.Push(root)
	delete(s.pendingDeposits, commitmentDecimal)
	s.confirmedLeaves[commitmentDecimal] = insertedIndex
	_ = leafIndex
	return insertedIndex, nil
}

// publishNewCommitmentLocked inserts a freshly-produced output/change/
// position commitment straight into the canonical tree. Unlike Deposit,
// swap/mint/burn submissions are signed and broadcast by the ASP itself
// (via s.chain.Submit), so a successful submission already is the
// confirmation signal — there is no separate pending state to track.
// Caller must hold s.mu.
func (s *Service) publishNewCommitmentLocked(ctx context.Context, leaf field.Element) (uint64, error) {
	idx, err := s.tree.Insert(leaf)
	if err != nil {
		return 0, wrapTreeInsertError(err)
	}
	if err := s.store.AppendLeaf(ctx, aspstore.LeafRecord{LeafIndex: idx, Commitment: leaf.String()}); err != nil {
		return 0, newAPIError(kindInternal, "persist leaf", err)
	}
	root := s.tree.Root()
	if err := s.store.AppendRoot(ctx, common.FieldToHex(root)); err != nil {
		return 0, newAPIError(kindInternal, "persist root", err)
	}
	s.history.Push(root)
	s.confirmedLeaves[leaf.String()] = idx
	return idx, nil
}

func (s *Service) buildWitnessLocked(leafIndex uint64, leaf field.Element) (*circuit.MerkleWitness, error) {
	proof, err := s.tree.Proof(leafIndex)
	if err != nil {
		return nil, newAPIError(kindNotFound, "leaf index not found", err)
	}
	return &circuit.MerkleWitness{Leaf: leaf, Proof: proof}, nil
}

// ensureKnownRootLocked enforces the acceptance rule that a proof is only
// generated against a root in the retained history. Caller must hold s.mu.
func (s *Service) ensureKnownRootLocked(root field.Element) error {
	if !s.history.IsKnown(root) {
		return newAPIError(kindUnknownRoot, "proof root not in root history", nil)
	}
	return nil
}

// ensureNullifierUnspentLocked fails fast with AlreadySpent before any
// proving work begins.
func (s *Service) ensureNullifierUnspentLocked(ctx context.Context, nullifierHash field.Element) error {
	spent, err := s.store.IsNullifierSpent(ctx, nullifierHash.String())
	if err != nil {
		return newAPIError(kindInternal, "check nullifier", err)
	}
	if spent {
		return newAPIError(kindAlreadySpent, "nullifier already spent", nil)
	}
	return nil
}

// recordNullifierSpentLocked persists the nullifier as spent once its
// spending transaction has actually been submitted.
func (s *Service) recordNullifierSpentLocked(ctx context.Context, nullifierHash field.Element, txHash string) error {
	if err := s.store.MarkNullifierSpent(ctx, nullifierHash.String(), txHash); err != nil {
		return newAPIError(kindInternal, "record nullifier", err)
	}
	return nil
}

// generateAndSubmit runs the shared proof-then-submit tail every
// withdraw/swap/mint/burn handler needs: delegate to the Prover Worker,
// then submit the resulting calldata to chain.
func (s *Service) generateAndSubmit(ctx context.Context, kind circuit.Kind, circuitName string, signals *circuit.Signals) (*proverclient.GenerateProofResult, *chain.SubmissionResult, error) {
	proofResult, err := s.prover.GenerateProof(ctx, circuitName, signals.Values, signals.Order[:signals.PublicCount])
	if err != nil {
		return nil, nil, newAPIError(kindProverFailure, "generate proof", err)
	}
	result, err := s.submitWithRetry(ctx, chain.Submission{Kind: kind, Calldata: proofResult.Calldata})
	if err != nil {
		return proofResult, nil, err
	}
	return proofResult, result, nil
}

// Withdraw spends a single note, proving membership and producing no new
// commitment.
func (s *Service) Withdraw(ctx context.Context, req withdrawRequest) (*withdrawResponse, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	if err := s.checkNotPaused(ctx); err != nil {
		return nil, err
	}

	secret, nullifier, amountLow, amountHigh, token, err := parseNoteFields(req.Secret, req.Nullifier, req.AmountLow, req.AmountHigh, req.Token)
	if err != nil {
		return nil, err
	}
	leaf, err := commitment.NoteCommitment(secret, nullifier, amountLow, amountHigh, token)
	if err != nil {
		return nil, newAPIError(kindInternal, "compute commitment", err)
	}
	nullifierHash, err := commitment.NullifierHash(nullifier)
	if err != nil {
		return nil, newAPIError(kindInternal, "compute nullifier hash", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureNullifierUnspentLocked(ctx, nullifierHash); err != nil {
		return nil, err
	}
	witness, err := s.buildWitnessLocked(req.LeafIndex, leaf)
	if err != nil {
		return nil, err
	}

	root := s.tree.Root()
	if err := s.ensureKnownRootLocked(root); err != nil {
		return nil, err
	}
	signals, err := circuit.BuildMembership(root, witness)
	if err != nil {
		return nil, newAPIError(kindConstraintViolation, "build membership witness", err)
	}

	_, submission, err := s.generateAndSubmit(ctx, circuit.KindMembership, "membership", signals)
	if err != nil {
		return nil, err
	}
	if err := s.recordNullifierSpentLocked(ctx, nullifierHash, submission.TxHash); err != nil {
		return nil, err
	}

	return &withdrawResponse{Status: "confirmed", TxHash: submission.TxHash, NullifierHash: nullifierHash.String()}, nil
}

// Swap spends one note and produces an output note plus a change note
// for the remainder of the input.
func (s *Service) Swap(ctx context.Context, req swapRequest) (*swapResponse, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	if err := s.checkNotPaused(ctx); err != nil {
		return nil, err
	}

	in, err := parseSwapInput(req)
	if err != nil {
		return nil, err
	}
	nullifierHashIn, err := commitment.NullifierHash(in.InputNullifier)
	if err != nil {
		return nil, newAPIError(kindInternal, "compute nullifier hash", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureNullifierUnspentLocked(ctx, nullifierHashIn); err != nil {
		return nil, err
	}
	proof, err := s.tree.Proof(req.InputNote.LeafIndex)
	if err != nil {
		return nil, newAPIError(kindNotFound, "input note leaf index not found", err)
	}
	in.InputWitness.Proof = proof
	in.Root = s.tree.Root()
	if err := s.ensureKnownRootLocked(in.Root); err != nil {
		return nil, err
	}
	signals, err := circuit.BuildSwap(in)
	if err != nil {
		return nil, newAPIError(kindConstraintViolation, "build swap witness", err)
	}

	_, submission, err := s.generateAndSubmit(ctx, circuit.KindSwap, "swap", signals)
	if err != nil {
		return nil, err
	}
	if err := s.recordNullifierSpentLocked(ctx, nullifierHashIn, submission.TxHash); err != nil {
		return nil, err
	}

	if _, err := s.publishNewCommitmentLocked(ctx, in.OutputCommitment); err != nil {
		return nil, err
	}
	if _, err := s.publishNewCommitmentLocked(ctx, in.ChangeCommitment); err != nil {
		return nil, err
	}

	return &swapResponse{
		Status:           "confirmed",
		TxHash:           submission.TxHash,
		NewCommitment:    in.OutputCommitment.String(),
		ChangeCommitment: in.ChangeCommitment.String(),
	}, nil
}

// Mint spends two input notes and produces a position commitment plus two
// change commitments.
func (s *Service) Mint(ctx context.Context, req mintRequest) (*mintResponse, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	if err := s.checkNotPaused(ctx); err != nil {
		return nil, err
	}

	in, err := parseMintInput(req)
	if err != nil {
		return nil, err
	}
	nullifierHash0, err := commitment.NullifierHash(in.InputNullifier0)
	if err != nil {
		return nil, newAPIError(kindInternal, "compute nullifier hash", err)
	}
	nullifierHash1, err := commitment.NullifierHash(in.InputNullifier1)
	if err != nil {
		return nil, newAPIError(kindInternal, "compute nullifier hash", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureNullifierUnspentLocked(ctx, nullifierHash0); err != nil {
		return nil, err
	}
	if err := s.ensureNullifierUnspentLocked(ctx, nullifierHash1); err != nil {
		return nil, err
	}
	proof0, err := s.tree.Proof(req.InputNote0.LeafIndex)
	if err != nil {
		return nil, newAPIError(kindNotFound, "input note 0 leaf index not found", err)
	}
	proof1, err := s.tree.Proof(req.InputNote1.LeafIndex)
	if err != nil {
		return nil, newAPIError(kindNotFound, "input note 1 leaf index not found", err)
	}
	in.InputWitness0.Proof = proof0
	in.InputWitness1.Proof = proof1
	in.Root = s.tree.Root()
	if err := s.ensureKnownRootLocked(in.Root); err != nil {
		return nil, err
	}
	signals, err := circuit.BuildMint(in)
	if err != nil {
		return nil, newAPIError(kindConstraintViolation, "build mint witness", err)
	}

	_, submission, err := s.generateAndSubmit(ctx, circuit.KindMint, "mint", signals)
	if err != nil {
		return nil, err
	}
	if err := s.recordNullifierSpentLocked(ctx, nullifierHash0, submission.TxHash); err != nil {
		return nil, err
	}
	if err := s.recordNullifierSpentLocked(ctx, nullifierHash1, submission.TxHash); err != nil {
		return nil, err
	}

	if _, err := s.publishNewCommitmentLocked(ctx, in.PositionCommitment); err != nil {
		return nil, err
	}
	if _, err := s.publishNewCommitmentLocked(ctx, in.ChangeCommitment0); err != nil {
		return nil, err
	}
	if _, err := s.publishNewCommitmentLocked(ctx, in.ChangeCommitment1); err != nil {
		return nil, err
	}

	return &mintResponse{
		Status:             "confirmed",
		TxHash:             submission.TxHash,
		PositionCommitment: in.PositionCommitment.String(),
		ChangeCommitment0:  in.ChangeCommitment0.String(),
		ChangeCommitment1:  in.ChangeCommitment1.String(),
	}, nil
}

// Burn spends a position note and produces two token-output notes.
func (s *Service) Burn(ctx context.Context, req burnRequest) (*burnResponse, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	if err := s.checkNotPaused(ctx); err != nil {
		return nil, err
	}

	in, err := parseBurnInput(req)
	if err != nil {
		return nil, err
	}
	nullifierHash, err := commitment.NullifierHash(in.PositionNullifier)
	if err != nil {
		return nil, newAPIError(kindInternal, "compute nullifier hash", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureNullifierUnspentLocked(ctx, nullifierHash); err != nil {
		return nil, err
	}
	proof, err := s.tree.Proof(req.PositionNote.LeafIndex)
	if err != nil {
		return nil, newAPIError(kindNotFound, "position note leaf index not found", err)
	}
	in.PositionWitness.Proof = proof
	in.Root = s.tree.Root()
	if err := s.ensureKnownRootLocked(in.Root); err != nil {
		return nil, err
	}
	signals, err := circuit.BuildBurn(in)
	if err != nil {
		return nil, newAPIError(kindConstraintViolation, "build burn witness", err)
	}

	_, submission, err := s.generateAndSubmit(ctx, circuit.KindBurn, "burn", signals)
	if err != nil {
		return nil, err
	}
	if err := s.recordNullifierSpentLocked(ctx, nullifierHash, submission.TxHash); err != nil {
		return nil, err
	}

	if _, err := s.publishNewCommitmentLocked(ctx, in.Output0Commitment); err != nil {
		return nil, err
	}
	if _, err := s.publishNewCommitmentLocked(ctx, in.Output1Commitment); err != nil {
		return nil, err
	}

	return &burnResponse{
		Status:         "confirmed",
		TxHash:         submission.TxHash,
		NewCommitment0: in.Output0Commitment.String(),
		NewCommitment1: in.Output1Commitment.String(),
	}, nil
}

// TreeRoot returns the canonical root and leaf count.
func (s *Service) TreeRoot() (string, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return common.FieldToHex(s.tree.Root()), s.tree.Size()
}

// TreePath returns the LeanIMT membership proof for leafIndex.
func (s *Service) TreePath(leafIndex uint64) (*treePathResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	proof, err := s.tree.Proof(leafIndex)
	if err != nil {
		return nil, newAPIError(kindNotFound, "leaf index not found", err)
	}
	leaf, err := s.tree.Leaf(leafIndex)
	if err != nil {
		return nil, newAPIError(kindNotFound, "leaf index not found", err)
	}
	elements := make([]string, len(proof.PathElements))
	for i, e := range proof.PathElements {
		elements[i] = e.String()
	}
	indices := make([]int, len(proof.PathIndices))
	copy(indices, proof.PathIndices[:])

	return &treePathResponse{
		LeafIndex:    leafIndex,
		Commitment:   leaf.String(),
		PathElements: elements,
		PathIndices:  indices,
		Root:         common.FieldToHex(proof.Root),
	}, nil
}

// NullifierStatus reports whether a nullifier hash has been spent.
func (s *Service) NullifierStatus(ctx context.Context, nullifierHashDecimal string) (*nullifierStatusResponse, error) {
	spent, err := s.store.IsNullifierSpent(ctx, nullifierHashDecimal)
	if err != nil {
		return nil, newAPIError(kindInternal, "check nullifier", err)
	}
	return &nullifierStatusResponse{NullifierHash: nullifierHashDecimal, Spent: spent}, nil
}

// Status reports service health, tree state, sync state, and configured
// contract addresses.
func (s *Service) Status(ctx context.Context) *statusResponse {
	root, count := s.TreeRoot()
	s.mu.Lock()
	lastSynced := s.lastSyncedBlock
	s.mu.Unlock()
	return &statusResponse{
		Healthy: true,
		Version: Version,
		Tree:    statusTree{LeafCount: count, Root: root},
		Sync:    statusSync{LastSyncedBlock: lastSynced},
		Contracts: statusContracts{
			Coordinator: s.cfg.Coordinator,
			Pool:        s.cfg.Pool,
		},
	}
}

// SyncCommitments reports the leaf index of each requested commitment if
// known, confirming any pending deposit it finds along the way (see the
// pendingDeposits doc comment above).
func (s *Service) SyncCommitments(ctx context.Context, commitments []string) (*syncCommitmentsResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]syncCommitmentEntry, 0, len(commitments))
	for _, c := range commitments {
		if idx, ok := s.confirmedLeaves[c]; ok {
			v := idx
			out = append(out, syncCommitmentEntry{Commitment: c, LeafIndex: &v})
			continue
		}
		if _, pending := s.pendingDeposits[c]; !pending {
			out = append(out, syncCommitmentEntry{Commitment: c, LeafIndex: nil})
			continue
		}
		idx, err := s.confirmPendingLocked(ctx, c)
		if err != nil {
			return nil, err
		}
		v := idx
		out = append(out, syncCommitmentEntry{Commitment: c, LeafIndex: &v})
	}
	return &syncCommitmentsResponse{Commitments: out}, nil
}
