// Package sdk implements the client-side SDK core: the orchestration layer
// that sits on top of the Note Vault and the ASP's REST surface, giving a
// wallet or CLI a single entry point for deposit, withdraw, swap, mint,
// and burn, plus read-only state queries.
package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultRequestTimeout bounds every ASP round trip the SDK makes,
// matching the ASP's own per-request handler timeout.
const DefaultRequestTimeout = 60 * time.Second

// aspClient is a minimal typed wrapper over the ASP's REST surface. Its
// wire DTOs mirror internal/asp/types.go exactly but are
// duplicated here rather than imported, since those types are unexported
// and the SDK is meant to be usable as a standalone module boundary.
type aspClient struct {
	baseURL string
	http    *http.Client
}

func newASPClient(baseURL string) *aspClient {
	return &aspClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultRequestTimeout},
	}
}

// aspError mirrors internal/asp's errorResponse, surfaced to SDK callers so
// they can branch on Kind the same way the ASP's own handlers do.
type aspError struct {
	Status  int
	Kind    string
	Message string
}

func (e *aspError) Error() string {
	return fmt.Sprintf("asp: %s: %s", e.Kind, e.Message)
}

func (c *aspClient) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("sdk: marshal request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("sdk: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sdk: call %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var apiErr struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return &aspError{Status: resp.StatusCode, Kind: apiErr.Error, Message: apiErr.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("sdk: decode response: %w", err)
	}
	return nil
}

type noteWire struct {
	Secret     string `json:"secret"`
	Nullifier  string `json:"nullifier"`
	AmountLow  string `json:"amount_low"`
	AmountHigh string `json:"amount_high"`
	Token      string `json:"token"`
	LeafIndex  uint64 `json:"leaf_index"`
}

type positionNoteWire struct {
	Secret    string `json:"secret"`
	Nullifier string `json:"nullifier"`
	TickLower int32  `json:"tick_lower"`
	TickUpper int32  `json:"tick_upper"`
	Liquidity string `json:"liquidity"`
	LeafIndex uint64 `json:"leaf_index"`
}

type depositRequest struct {
	Commitment string `json:"commitment"`
}

type depositResponse struct {
	Status    string   `json:"status"`
	LeafIndex uint64   `json:"leaf_index"`
	Calldata  []string `json:"calldata"`
	Root      string   `json:"root"`
}

type withdrawRequest struct {
	Secret     string `json:"secret"`
	Nullifier  string `json:"nullifier"`
	AmountLow  string `json:"amount_low"`
	AmountHigh string `json:"amount_high"`
	Token      string `json:"token"`
	Recipient  string `json:"recipient"`
	LeafIndex  uint64 `json:"leaf_index"`
}

type withdrawResponse struct {
	Status        string `json:"status"`
	TxHash        string `json:"tx_hash"`
	NullifierHash string `json:"nullifier_hash"`
}

type swapParamsWire struct {
	TokenIn  string `json:"token_in"`
	TokenOut string `json:"token_out"`
	AmountIn string `json:"amount_in"`
}

type swapRequest struct {
	PoolKey        string         `json:"pool_key"`
	InputNote      noteWire       `json:"input_note"`
	SwapParams     swapParamsWire `json:"swap_params"`
	OutputNote     noteWire       `json:"output_note"`
	ChangeNote     noteWire       `json:"change_note"`
	SqrtPriceLimit string         `json:"sqrt_price_limit"`
}

type swapResponse struct {
	Status           string `json:"status"`
	TxHash           string `json:"tx_hash"`
	NewCommitment    string `json:"new_commitment"`
	ChangeCommitment string `json:"change_commitment"`
}

type mintRequest struct {
	PoolKey     string           `json:"pool_key"`
	InputNote0  noteWire         `json:"input_note_0"`
	InputNote1  noteWire         `json:"input_note_1"`
	Position    positionNoteWire `json:"position"`
	Amount0     string           `json:"amount_0"`
	Amount1     string           `json:"amount_1"`
	ChangeNote0 noteWire         `json:"change_note_0"`
	ChangeNote1 noteWire         `json:"change_note_1"`
	Liquidity   string           `json:"liquidity"`
	TickLower   int32            `json:"tick_lower"`
	TickUpper   int32            `json:"tick_upper"`
}

type mintResponse struct {
	Status             string `json:"status"`
	TxHash             string `json:"tx_hash"`
	PositionCommitment string `json:"position_commitment"`
	ChangeCommitment0  string `json:"change_commitment_0"`
	ChangeCommitment1  string `json:"change_commitment_1"`
}

type burnRequest struct {
	PoolKey      string           `json:"pool_key"`
	PositionNote positionNoteWire `json:"position_note"`
	OutputNote0  noteWire         `json:"output_note_0"`
	OutputNote1  noteWire         `json:"output_note_1"`
	Liquidity    string           `json:"liquidity"`
}

type burnResponse struct {
	Status         string `json:"status"`
	TxHash         string `json:"tx_hash"`
	NewCommitment0 string `json:"new_commitment_0"`
	NewCommitment1 string `json:"new_commitment_1"`
}

type treeRootResponse struct {
	Root      string `json:"root"`
	LeafCount uint64 `json:"leaf_count"`
}

type nullifierStatusResponse struct {
	NullifierHash string  `json:"nullifier_hash"`
	Spent         bool    `json:"spent"`
	CircuitType   *string `json:"circuit_type"`
	TxHash        *string `json:"tx_hash"`
}

type statusResponse struct {
	Healthy bool   `json:"healthy"`
	Version string `json:"version"`
	Tree    struct {
		LeafCount uint64 `json:"leaf_count"`
		Root      string `json:"root"`
	} `json:"tree"`
	Sync struct {
		LastSyncedBlock uint64 `json:"last_synced_block"`
	} `json:"sync"`
	Contracts struct {
		Coordinator string `json:"coordinator"`
		Pool        string `json:"pool"`
	} `json:"contracts"`
}

type syncCommitmentsRequest struct {
	Commitments []string `json:"commitments"`
}

type syncCommitmentEntry struct {
	Commitment string  `json:"commitment"`
	LeafIndex  *uint64 `json:"leaf_index"`
}

type syncCommitmentsResponse struct {
	Commitments []syncCommitmentEntry `json:"commitments"`
}

func (c *aspClient) deposit(ctx context.Context, commitment string) (*depositResponse, error) {
	var resp depositResponse
	if err := c.do(ctx, http.MethodPost, "/deposit", depositRequest{Commitment: commitment}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *aspClient) withdraw(ctx context.Context, req withdrawRequest) (*withdrawResponse, error) {
	var resp withdrawResponse
	if err := c.do(ctx, http.MethodPost, "/withdraw", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *aspClient) swap(ctx context.Context, req swapRequest) (*swapResponse, error) {
	var resp swapResponse
	if err := c.do(ctx, http.MethodPost, "/swap", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *aspClient) mint(ctx context.Context, req mintRequest) (*mintResponse, error) {
	var resp mintResponse
	if err := c.do(ctx, http.MethodPost, "/mint", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *aspClient) burn(ctx context.Context, req burnRequest) (*burnResponse, error) {
	var resp burnResponse
	if err := c.do(ctx, http.MethodPost, "/burn", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *aspClient) treeRoot(ctx context.Context) (*treeRootResponse, error) {
	var resp treeRootResponse
	if err := c.do(ctx, http.MethodGet, "/tree/root", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *aspClient) nullifierStatus(ctx context.Context, hash string) (*nullifierStatusResponse, error) {
	var resp nullifierStatusResponse
	if err := c.do(ctx, http.MethodGet, "/nullifier/"+hash, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *aspClient) status(ctx context.Context) (*statusResponse, error) {
	var resp statusResponse
	if err := c.do(ctx, http.MethodGet, "/status", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *aspClient) syncCommitments(ctx context.Context, commitments []string) (*syncCommitmentsResponse, error) {
	var resp syncCommitmentsResponse
	if err := c.do(ctx, http.MethodPost, "/sync-commitments", syncCommitmentsRequest{Commitments: commitments}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
