package prover

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/consensys/gnark/frontend"

	"github.com/zylith/core/internal/circuit"
	"github.com/zylith/core/internal/commitment"
	"github.com/zylith/core/internal/field"
	"github.com/zylith/core/internal/merkletree"
)

// Worker holds every piece of state the prover keeps resident across
// requests: the canonical LeanIMT, its root history, the compiled circuit
// manager, the admission queue, and the artifact/calldata collaborators.
type Worker struct {
	tree      *merkletree.Tree
	history   *merkletree.RootHistory
	manager   *circuit.Manager
	queue     *Queue
	exporter  *ArtifactExporter
	formatter CalldataFormatter
}

// NewWorker constructs a Worker. manager must already have CompileAll
// called (or its artifacts otherwise loaded) before the worker starts
// serving generateProof requests.
func NewWorker(manager *circuit.Manager, exporter *ArtifactExporter, formatter CalldataFormatter, queueCapacity int) *Worker {
	return &Worker{
		tree:      merkletree.New(),
		history:   merkletree.NewRootHistory(merkletree.DefaultRootHistorySize),
		manager:   manager,
		queue:     NewQueue(queueCapacity),
		exporter:  exporter,
		formatter: formatter,
	}
}

func parseFieldList(ss []string) ([]field.Element, error) {
	out := make([]field.Element, len(ss))
	for i, s := range ss {
		e, err := field.FromDecimalString(s)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = e
	}
	return out, nil
}

type buildTreeParams struct {
	Leaves []string `json:"leaves"`
}
type buildTreeResult struct {
	Root string `json:"root"`
}

func (w *Worker) handleBuildTree(raw json.RawMessage) (any, *ResponseError) {
	var p buildTreeParams
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, &ResponseError{Kind: ErrKindInvalidParams, Message: err.Error()}
	}
	leaves, err := parseFieldList(p.Leaves)
	if err != nil {
		return nil, &ResponseError{Kind: ErrKindInvalidParams, Message: err.Error()}
	}

	w.tree = merkletree.New()
	for _, leaf := range leaves {
		if _, err := w.tree.Insert(leaf); err != nil {
			return nil, &ResponseError{Kind: ErrKindInternal, Message: err.Error()}
		}
	}
	w.history.Push(w.tree.Root())
	return buildTreeResult{Root: w.tree.Root().String()}, nil
}

type insertLeafParams struct {
	Leaf string `json:"leaf"`
}
type insertLeafResult struct {
	LeafIndex uint64 `json:"leafIndex"`
	Root      string `json:"root"`
}

func (w *Worker) handleInsertLeaf(raw json.RawMessage) (any, *ResponseError) {
	var p insertLeafParams
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, &ResponseError{Kind: ErrKindInvalidParams, Message: err.Error()}
	}
	leaf, err := field.FromDecimalString(p.Leaf)
	if err != nil {
		return nil, &ResponseError{Kind: ErrKindInvalidParams, Message: err.Error()}
	}

	idx, err := w.tree.Insert(leaf)
	if err != nil {
		return nil, &ResponseError{Kind: ErrKindInternal, Message: err.Error()}
	}
	w.history.Push(w.tree.Root())
	return insertLeafResult{LeafIndex: idx, Root: w.tree.Root().String()}, nil
}

type getRootResult struct {
	Root string `json:"root"`
}

func (w *Worker) handleGetRoot(json.RawMessage) (any, *ResponseError) {
	return getRootResult{Root: w.tree.Root().String()}, nil
}

type getProofParams struct {
	LeafIndex uint64 `json:"leafIndex"`
}
type getProofResult struct {
	PathElements []string `json:"pathElements"`
	PathIndices  []int    `json:"pathIndices"`
	Root         string   `json:"root"`
}

func (w *Worker) handleGetProof(raw json.RawMessage) (any, *ResponseError) {
	var p getProofParams
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, &ResponseError{Kind: ErrKindInvalidParams, Message: err.Error()}
	}

	proof, err := w.tree.Proof(p.LeafIndex)
	if err != nil {
		return nil, &ResponseError{Kind: ErrKindInvalidParams, Message: err.Error()}
	}

	elements := make([]string, len(proof.PathElements))
	for i, e := range proof.PathElements {
		elements[i] = e.String()
	}
	indices := make([]int, len(proof.PathIndices))
	copy(indices, proof.PathIndices[:])

	return getProofResult{PathElements: elements, PathIndices: indices, Root: proof.Root.String()}, nil
}

type computeCommitmentParams struct {
	Secret     string `json:"secret"`
	Nullifier  string `json:"nullifier"`
	AmountLow  string `json:"amountLow"`
	AmountHigh string `json:"amountHigh"`
	Token      string `json:"token"`
}
type computeCommitmentResult struct {
	Commitment string `json:"commitment"`
}

func (w *Worker) handleComputeCommitment(raw json.RawMessage) (any, *ResponseError) {
	var p computeCommitmentParams
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, &ResponseError{Kind: ErrKindInvalidParams, Message: err.Error()}
	}
	fields, err := parseFieldList([]string{p.Secret, p.Nullifier, p.AmountLow, p.AmountHigh, p.Token})
	if err != nil {
		return nil, &ResponseError{Kind: ErrKindInvalidParams, Message: err.Error()}
	}

	c, err := commitment.NoteCommitment(fields[0], fields[1], fields[2], fields[3], fields[4])
	if err != nil {
		return nil, &ResponseError{Kind: ErrKindInternal, Message: err.Error()}
	}
	return computeCommitmentResult{Commitment: c.String()}, nil
}

type computePositionCommitmentParams struct {
	Secret          string `json:"secret"`
	Nullifier       string `json:"nullifier"`
	TickLowerOffset string `json:"tickLowerOffset"`
	TickUpperOffset string `json:"tickUpperOffset"`
	Liquidity       string `json:"liquidity"`
}

func (w *Worker) handleComputePositionCommitment(raw json.RawMessage) (any, *ResponseError) {
	var p computePositionCommitmentParams
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, &ResponseError{Kind: ErrKindInvalidParams, Message: err.Error()}
	}
	fields, err := parseFieldList([]string{p.Secret, p.Nullifier, p.TickLowerOffset, p.TickUpperOffset, p.Liquidity})
	if err != nil {
		return nil, &ResponseError{Kind: ErrKindInvalidParams, Message: err.Error()}
	}

	c, err := commitment.PositionCommitment(fields[0], fields[1], fields[2], fields[3], fields[4])
	if err != nil {
		return nil, &ResponseError{Kind: ErrKindInternal, Message: err.Error()}
	}
	return computeCommitmentResult{Commitment: c.String()}, nil
}

type generateProofParams struct {
	Circuit string            `json:"circuit"`
	Signals map[string]string `json:"signals"`
	// PublicOrder lists the public signal names in the circuit's declared
	// order (the caller already has this from the builder's Signals.Order),
	// so the worker can echo them back as publicSignals without needing to
	// know each circuit's public layout itself.
	PublicOrder []string `json:"publicOrder,omitempty"`
}
type generateProofResult struct {
	ProofPath     string   `json:"proofPath"`
	PublicPath    string   `json:"publicPath"`
	PublicSignals []string `json:"publicSignals"`
	Calldata      []string `json:"calldata"`
}

// handleGenerateProof runs the five-step proving pipeline: witness
// generation, local verification, artifact export, calldata formatting,
// and returning the result. Admission is gated by w.queue so the worker
// never runs more than its configured number of concurrent proofs.
func (w *Worker) handleGenerateProof(ctx context.Context, id string, raw json.RawMessage) (any, *ResponseError) {
	if err := w.queue.Acquire(); err != nil {
		return nil, &ResponseError{Kind: ErrKindQueueOverflow, Message: err.Error()}
	}
	defer w.queue.Release()

	var p generateProofParams
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, &ResponseError{Kind: ErrKindInvalidParams, Message: err.Error()}
	}

	var kind circuit.Kind
	var witness frontend.Circuit
	var assignErr error
	switch p.Circuit {
	case "membership":
		kind = circuit.KindMembership
		witness, assignErr = circuit.AssignMembership(p.Signals)
	case "swap":
		kind = circuit.KindSwap
		witness, assignErr = circuit.AssignSwap(p.Signals)
	case "mint":
		kind = circuit.KindMint
		witness, assignErr = circuit.AssignMint(p.Signals)
	case "burn":
		kind = circuit.KindBurn
		witness, assignErr = circuit.AssignBurn(p.Signals)
	default:
		return nil, &ResponseError{Kind: ErrKindInvalidParams, Message: fmt.Sprintf("unknown circuit %q", p.Circuit)}
	}
	if assignErr != nil {
		return nil, &ResponseError{Kind: ErrKindConstraintViolation, Message: assignErr.Error()}
	}

	proof, err := w.manager.GenerateProof(kind, witness)
	if err != nil {
		if err == circuit.ErrProofVerificationFailed {
			return nil, &ResponseError{Kind: ErrKindVerificationFailed, Message: err.Error()}
		}
		return nil, &ResponseError{Kind: ErrKindWitnessFailure, Message: err.Error()}
	}

	proofPath, publicPath, err := w.exporter.Export(id, proof.ProofBytes, proof.PublicBytes)
	if err != nil {
		return nil, &ResponseError{Kind: ErrKindExportFailure, Message: err.Error()}
	}

	calldata, err := w.formatter.Format(ctx, proof.ProofBytes, proof.PublicBytes)
	if err != nil {
		return nil, &ResponseError{Kind: ErrKindCalldataFailure, Message: err.Error()}
	}

	publicSignals := make([]string, len(p.PublicOrder))
	for i, name := range p.PublicOrder {
		publicSignals[i] = p.Signals[name]
	}

	return generateProofResult{
		ProofPath:     proofPath,
		PublicPath:    publicPath,
		PublicSignals: publicSignals,
		Calldata:      calldata,
	}, nil
}

type pingResult struct {
	Pong bool `json:"pong"`
}

func (w *Worker) handlePing(json.RawMessage) (any, *ResponseError) {
	return pingResult{Pong: true}, nil
}
