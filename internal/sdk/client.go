package sdk

import (
	"context"
	"fmt"
	"math/big"

	"github.com/zylith/core/internal/chain"
	"github.com/zylith/core/internal/circuit"
	"github.com/zylith/core/internal/commitment"
	"github.com/zylith/core/internal/config"
	"github.com/zylith/core/internal/field"
	"github.com/zylith/core/internal/proverclient"
	"github.com/zylith/core/internal/tickmath"
	"github.com/zylith/core/internal/vault"
)

// Mode selects how a Client computes new note/position commitments. Both
// modes talk to the ASP over REST for every orchestration and read
// operation; the only thing Mode changes is whether hashing runs through a
// local Prover Worker subprocess or in process.
type Mode int

const (
	// ModeASP computes commitments in process via internal/commitment,
	// the right default when no local Prover Worker is available (e.g. a
	// thin server-side integration).
	ModeASP Mode = iota
	// ModeClientSide routes commitment computation through a locally
	// started Prover Worker, keeping the hashing implementation identical
	// to the one that will later produce the spending proof.
	ModeClientSide
)

// Config wires a Client to its collaborators.
type Config struct {
	ASPBaseURL string
	Mode       Mode

	// Prover is required when Mode is ModeClientSide, optional otherwise.
	// The Client uses it only to compute commitments; Swap/Mint/Burn proofs
	// are generated by the ASP.
	Prover *proverclient.Client

	// Chain is optional: when set, GetPoolState/GetPosition/IsPaused read
	// directly from it. The ASP does not proxy pool or position state, so
	// without a chain client those reads are unavailable.
	Chain chain.Client

	Store vault.Store
}

// Client is the SDK's single entry point: it owns a decrypted vault
// document in memory, a connection to the ASP, and optionally a Prover
// Worker and chain client for client-side commitment computation and
// direct reads.
type Client struct {
	cfg   Config
	asp   *aspClient
	doc   *vault.Document
	pass  string
	ready bool
}

// New constructs a Client. Call Init before using it.
func New(cfg Config) (*Client, error) {
	if cfg.ASPBaseURL == "" {
		return nil, fmt.Errorf("sdk: ASPBaseURL is required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("sdk: Store is required")
	}
	if cfg.Mode == ModeClientSide && cfg.Prover == nil {
		return nil, fmt.Errorf("sdk: ModeClientSide requires a Prover client")
	}
	return &Client{cfg: cfg, asp: newASPClient(cfg.ASPBaseURL)}, nil
}

// Init loads (or creates, if none exists) the vault under passphrase, then
// asks the ASP to confirm leaf indices for any notes that were created but
// never observed in the canonical tree. A sync failure is non-fatal, since
// the vault is still usable for everything that doesn't need a leaf index
// yet.
func (c *Client) Init(ctx context.Context, passphrase string) error {
	doc, err := c.cfg.Store.Load(passphrase)
	if err != nil {
		if err != vault.ErrNotFound {
			return fmt.Errorf("sdk: load vault: %w", err)
		}
		doc = vault.NewDocument()
	}
	c.doc = doc
	c.pass = passphrase
	c.ready = true

	// A sync failure here is non-fatal: the vault is still usable for
	// anything that doesn't need a confirmed leaf index yet.
	_ = c.syncPending(ctx)
	return nil
}

// SyncVault asks the ASP to confirm leaf indices for any vault notes that
// were deposited but never observed in the canonical tree. Callers should
// invoke this once they believe the corresponding on-chain deposit has
// settled; Init does the same thing automatically on startup.
func (c *Client) SyncVault(ctx context.Context) error {
	if err := c.requireReady(); err != nil {
		return err
	}
	return c.syncPending(ctx)
}

func (c *Client) syncPending(ctx context.Context) error {
	var pending []string
	for _, n := range c.doc.UnspentNotes() {
		if n.LeafIndex == nil {
			pending = append(pending, n.Commitment.String())
		}
	}
	for _, p := range c.doc.UnspentPositions() {
		if p.LeafIndex == nil {
			pending = append(pending, p.Commitment.String())
		}
	}
	if len(pending) == 0 {
		return nil
	}

	resp, err := c.asp.syncCommitments(ctx, pending)
	if err != nil {
		return err
	}
	for _, entry := range resp.Commitments {
		if entry.LeafIndex == nil {
			continue
		}
		commit, err := field.FromDecimalString(entry.Commitment)
		if err != nil {
			continue
		}
		_ = c.doc.SetLeafIndex(commit, *entry.LeafIndex)
	}
	return c.persist()
}

func (c *Client) persist() error {
	return c.cfg.Store.Save(c.pass, c.doc)
}

func (c *Client) requireReady() error {
	if !c.ready {
		return fmt.Errorf("sdk: client not initialized, call Init first")
	}
	return nil
}

// newSecretNullifier draws fresh randomness for a new note or position.
func newSecretNullifier() (secret, nullifier field.Element, err error) {
	if secret, err = field.Random(); err != nil {
		return
	}
	if nullifier, err = field.Random(); err != nil {
		return
	}
	return
}

// computeNoteCommitment hashes a note's fields via the configured Mode.
func (c *Client) computeNoteCommitment(ctx context.Context, secret, nullifier, amountLow, amountHigh, token field.Element) (field.Element, error) {
	if c.cfg.Mode == ModeClientSide {
		s, err := c.cfg.Prover.ComputeCommitment(ctx, secret.String(), nullifier.String(), amountLow.String(), amountHigh.String(), token.String())
		if err != nil {
			return field.Element{}, fmt.Errorf("sdk: compute commitment via prover: %w", err)
		}
		return field.FromDecimalString(s)
	}
	return commitment.NoteCommitment(secret, nullifier, amountLow, amountHigh, token)
}

func (c *Client) computePositionCommitment(ctx context.Context, secret, nullifier, tickLowerOffset, tickUpperOffset, liquidity field.Element) (field.Element, error) {
	if c.cfg.Mode == ModeClientSide {
		s, err := c.cfg.Prover.ComputePositionCommitment(ctx, secret.String(), nullifier.String(), tickLowerOffset.String(), tickUpperOffset.String(), liquidity.String())
		if err != nil {
			return field.Element{}, fmt.Errorf("sdk: compute position commitment via prover: %w", err)
		}
		return field.FromDecimalString(s)
	}
	return commitment.PositionCommitment(secret, nullifier, tickLowerOffset, tickUpperOffset, liquidity)
}

// OldestWithdrawableNote returns the first unspent note in the vault that
// has a confirmed leaf index, or nil if none qualify. A thin convenience
// for callers (like the CLI) that don't need finer-grained note selection.
func (c *Client) OldestWithdrawableNote() *vault.Note {
	for _, n := range c.doc.UnspentNotes() {
		if n.LeafIndex != nil {
			return n
		}
	}
	return nil
}

// GetBalance sums the vault's unspent notes for token.
func (c *Client) GetBalance(token field.Element) (*big.Int, error) {
	if err := c.requireReady(); err != nil {
		return nil, err
	}
	return c.doc.Balance(token)
}

// GetMerkleRoot returns the ASP's current tree root.
func (c *Client) GetMerkleRoot(ctx context.Context) (string, uint64, error) {
	resp, err := c.asp.treeRoot(ctx)
	if err != nil {
		return "", 0, err
	}
	return resp.Root, resp.LeafCount, nil
}

// IsNullifierSpent asks the ASP whether nullifierHash has been spent.
func (c *Client) IsNullifierSpent(ctx context.Context, nullifierHash string) (bool, error) {
	resp, err := c.asp.nullifierStatus(ctx, nullifierHash)
	if err != nil {
		return false, err
	}
	return resp.Spent, nil
}

// Status returns the ASP's health/status snapshot.
func (c *Client) Status(ctx context.Context) (healthy bool, version string, leafCount uint64, root string, err error) {
	resp, statusErr := c.asp.status(ctx)
	if statusErr != nil {
		return false, "", 0, "", statusErr
	}
	return resp.Healthy, resp.Version, resp.Tree.LeafCount, resp.Tree.Root, nil
}

// GetPoolState reads pool state directly from the configured chain client;
// the ASP's REST surface does not proxy pool state itself.
func (c *Client) GetPoolState(ctx context.Context, poolKey string) (*chain.PoolState, error) {
	if c.cfg.Chain == nil {
		return nil, fmt.Errorf("sdk: no chain client configured")
	}
	return c.cfg.Chain.PoolState(ctx, poolKey)
}

// GetPosition reads on-chain position state for owner in poolKey.
func (c *Client) GetPosition(ctx context.Context, poolKey, owner string) (*chain.PositionState, error) {
	if c.cfg.Chain == nil {
		return nil, fmt.Errorf("sdk: no chain client configured")
	}
	return c.cfg.Chain.PositionState(ctx, poolKey, owner)
}

// PoolKey builds the opaque pool-key identifier Swap/Mint/Burn and
// GetPoolState/GetPosition expect from two token addresses and one of
// config's predefined fee tiers, enforcing the token0 < token1 ordering the
// mint/burn circuits require.
func PoolKey(token0, token1 field.Element, tier config.FeeTier) (string, error) {
	if token0.BigInt().Cmp(token1.BigInt()) >= 0 {
		return "", circuit.ErrTokenOrder
	}
	return config.PoolKey(token0.String(), token1.String(), tier), nil
}

// IsPaused reports whether the coordinator is paused.
func (c *Client) IsPaused(ctx context.Context) (bool, error) {
	if c.cfg.Chain == nil {
		return false, fmt.Errorf("sdk: no chain client configured")
	}
	return c.cfg.Chain.IsPaused(ctx)
}

func noteToWire(n *vault.Note) noteWire {
	leafIndex := uint64(0)
	if n.LeafIndex != nil {
		leafIndex = *n.LeafIndex
	}
	return noteWire{
		Secret:     n.Secret.String(),
		Nullifier:  n.Nullifier.String(),
		AmountLow:  n.AmountLow.String(),
		AmountHigh: n.AmountHigh.String(),
		Token:      n.Token.String(),
		LeafIndex:  leafIndex,
	}
}

func positionToWire(p *vault.PositionNote) (positionNoteWire, error) {
	tickLower, err := tickmath.OffsetToSigned(p.TickLowerOffset.BigInt().Uint64())
	if err != nil {
		return positionNoteWire{}, err
	}
	tickUpper, err := tickmath.OffsetToSigned(p.TickUpperOffset.BigInt().Uint64())
	if err != nil {
		return positionNoteWire{}, err
	}
	leafIndex := uint64(0)
	if p.LeafIndex != nil {
		leafIndex = *p.LeafIndex
	}
	return positionNoteWire{
		Secret:    p.Secret.String(),
		Nullifier: p.Nullifier.String(),
		TickLower: tickLower,
		TickUpper: tickUpper,
		Liquidity: p.Liquidity.String(),
		LeafIndex: leafIndex,
	}, nil
}
