package proverclient

import "context"

// InsertLeafResult mirrors the worker's insertLeaf response.
type InsertLeafResult struct {
	LeafIndex uint64 `json:"leafIndex"`
	Root      string `json:"root"`
}

// InsertLeaf appends a single commitment to the worker's resident tree.
func (c *Client) InsertLeaf(ctx context.Context, leaf string) (*InsertLeafResult, error) {
	var out InsertLeafResult
	if err := c.Call(ctx, "insertLeaf", map[string]string{"leaf": leaf}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetRootResult mirrors the worker's getRoot response.
type GetRootResult struct {
	Root string `json:"root"`
}

// GetRoot returns the worker's current tree root.
func (c *Client) GetRoot(ctx context.Context) (string, error) {
	var out GetRootResult
	if err := c.Call(ctx, "getRoot", struct{}{}, &out); err != nil {
		return "", err
	}
	return out.Root, nil
}

// GetProofResult mirrors the worker's getProof response.
type GetProofResult struct {
	PathElements []string `json:"pathElements"`
	PathIndices  []int    `json:"pathIndices"`
	Root         string   `json:"root"`
}

// GetProof fetches a LeanIMT membership proof for leafIndex.
func (c *Client) GetProof(ctx context.Context, leafIndex uint64) (*GetProofResult, error) {
	var out GetProofResult
	if err := c.Call(ctx, "getProof", map[string]uint64{"leafIndex": leafIndex}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ComputeCommitment hashes a note's fields into its commitment.
func (c *Client) ComputeCommitment(ctx context.Context, secret, nullifier, amountLow, amountHigh, token string) (string, error) {
	var out struct {
		Commitment string `json:"commitment"`
	}
	params := map[string]string{
		"secret": secret, "nullifier": nullifier,
		"amountLow": amountLow, "amountHigh": amountHigh, "token": token,
	}
	if err := c.Call(ctx, "computeCommitment", params, &out); err != nil {
		return "", err
	}
	return out.Commitment, nil
}

// ComputePositionCommitment hashes a position note's fields into its commitment.
func (c *Client) ComputePositionCommitment(ctx context.Context, secret, nullifier, tickLowerOffset, tickUpperOffset, liquidity string) (string, error) {
	var out struct {
		Commitment string `json:"commitment"`
	}
	params := map[string]string{
		"secret": secret, "nullifier": nullifier,
		"tickLowerOffset": tickLowerOffset, "tickUpperOffset": tickUpperOffset,
		"liquidity": liquidity,
	}
	if err := c.Call(ctx, "computePositionCommitment", params, &out); err != nil {
		return "", err
	}
	return out.Commitment, nil
}

// GenerateProofResult mirrors the worker's generateProof response.
type GenerateProofResult struct {
	ProofPath     string   `json:"proofPath"`
	PublicPath    string   `json:"publicPath"`
	PublicSignals []string `json:"publicSignals"`
	Calldata      []string `json:"calldata"`
}

// GenerateProof runs the worker's full witness->proof->calldata pipeline
// for one circuit invocation.
func (c *Client) GenerateProof(ctx context.Context, circuitName string, signals map[string]string, publicOrder []string) (*GenerateProofResult, error) {
	var out GenerateProofResult
	params := struct {
		Circuit     string            `json:"circuit"`
		Signals     map[string]string `json:"signals"`
		PublicOrder []string          `json:"publicOrder,omitempty"`
	}{Circuit: circuitName, Signals: signals, PublicOrder: publicOrder}
	if err := c.Call(ctx, "generateProof", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ping is a liveness check against the worker.
func (c *Client) Ping(ctx context.Context) error {
	return c.Call(ctx, "ping", struct{}{}, nil)
}
