package chain

import (
	"context"
	"fmt"
	"math/big"
	"sync"
)

// MockClient is an in-memory Client used by tests and local development,
// standing in for the real RPC-backed implementation. Nothing in this
// repository compiles or deploys the on-chain side of that contract.
type MockClient struct {
	mu sync.Mutex

	pools      map[string]*PoolState
	positions  map[string]*PositionState
	nullifiers map[string]bool
	root       *big.Int
	nextLeaf   uint64
	paused     bool
	submitted  []Submission
}

// NewMockClient returns an empty MockClient.
func NewMockClient() *MockClient {
	return &MockClient{
		pools:      make(map[string]*PoolState),
		positions:  make(map[string]*PositionState),
		nullifiers: make(map[string]bool),
		root:       big.NewInt(0),
	}
}

// SeedPool installs a pool's state for test fixtures.
func (m *MockClient) SeedPool(poolKey string, state *PoolState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pools[poolKey] = state
}

// SeedPosition installs a position's state for test fixtures.
func (m *MockClient) SeedPosition(poolKey, owner string, state *PositionState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.positions[positionKey(poolKey, owner)] = state
}

// SetRoot sets the coordinator's current Merkle root.
func (m *MockClient) SetRoot(root *big.Int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.root = root
}

// SetPaused toggles the coordinator's paused flag.
func (m *MockClient) SetPaused(paused bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paused = paused
}

func positionKey(poolKey, owner string) string {
	return poolKey + ":" + owner
}

// Submit records the submission and marks its calldata's implied
// nullifier(s) as spent is NOT done here — callers mark nullifiers spent
// explicitly via MarkNullifierSpent once they know the circuit's layout,
// keeping MockClient circuit-agnostic.
func (m *MockClient) Submit(ctx context.Context, sub Submission) (*SubmissionResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submitted = append(m.submitted, sub)
	return &SubmissionResult{TxHash: fmt.Sprintf("0xmock%d", len(m.submitted))}, nil
}

// MarkNullifierSpent is a test-fixture helper, not part of the Client
// interface: it lets a test simulate the coordinator observing a spend.
func (m *MockClient) MarkNullifierSpent(nullifierHash string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nullifiers[nullifierHash] = true
}

func (m *MockClient) PoolState(ctx context.Context, poolKey string) (*PoolState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok := m.pools[poolKey]
	if !ok {
		return nil, fmt.Errorf("%w: unknown pool %q", ErrChainFailure, poolKey)
	}
	return state, nil
}

func (m *MockClient) PositionState(ctx context.Context, poolKey, owner string) (*PositionState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok := m.positions[positionKey(poolKey, owner)]
	if !ok {
		return &PositionState{
			Liquidity:            big.NewInt(0),
			FeeGrowthInsideLast0: big.NewInt(0),
			FeeGrowthInsideLast1: big.NewInt(0),
			TokensOwed0:          big.NewInt(0),
			TokensOwed1:          big.NewInt(0),
		}, nil
	}
	return state, nil
}

func (m *MockClient) IsNullifierSpent(ctx context.Context, nullifierHash string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.nullifiers[nullifierHash], nil
}

func (m *MockClient) MerkleRoot(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.root.String(), nil
}

func (m *MockClient) IsKnownRoot(ctx context.Context, root string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return root == m.root.String(), nil
}

func (m *MockClient) NextLeafIndex(ctx context.Context) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.nextLeaf, nil
}

func (m *MockClient) IsPaused(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paused, nil
}
