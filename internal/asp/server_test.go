package asp

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zylith/core/internal/aspstore"
	"github.com/zylith/core/internal/chain"
	"github.com/zylith/core/internal/commitment"
	"github.com/zylith/core/internal/field"
)

// newTestServer builds a Server backed by in-memory collaborators and no
// Prover Worker: the Deposit/sync-commitments/read-path handlers never
// touch the prover, so this is enough to exercise server.go's HTTP
// plumbing. Withdraw/Swap/Mint/Burn need a live Prover Worker subprocess
// and are exercised by an external integration harness instead.
func newTestServer(t *testing.T) (*Server, *chain.MockClient) {
	t.Helper()
	store := aspstore.NewMemoryStore()
	chainClient := chain.NewMockClient()
	svc, err := NewService(context.Background(), store, chainClient, nil, Config{Coordinator: "0xcoord", Pool: "0xpool"})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return NewServer(svc), chainClient
}

func doRequest(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func randomCommitment(t *testing.T) field.Element {
	t.Helper()
	secret, err := field.Random()
	if err != nil {
		t.Fatalf("random secret: %v", err)
	}
	nullifier, err := field.Random()
	if err != nil {
		t.Fatalf("random nullifier: %v", err)
	}
	amountLow := field.FromUint64(1000)
	amountHigh := field.FromUint64(0)
	token := field.FromUint64(1)
	leaf, err := commitment.NoteCommitment(secret, nullifier, amountLow, amountHigh, token)
	if err != nil {
		t.Fatalf("compute commitment: %v", err)
	}
	return leaf
}

func TestServerDepositThenSyncPromotesLeaf(t *testing.T) {
	s, _ := newTestServer(t)
	handler := s.Handler()

	leaf := randomCommitment(t)
	commitStr := leaf.String()

	rec := doRequest(t, handler, http.MethodPost, "/deposit", depositRequest{Commitment: commitStr})
	if rec.Code != http.StatusOK {
		t.Fatalf("deposit status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var depositResp depositResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &depositResp); err != nil {
		t.Fatalf("decode deposit response: %v", err)
	}
	if depositResp.Status != "pending" {
		t.Fatalf("expected pending status, got %q", depositResp.Status)
	}

	rec = doRequest(t, handler, http.MethodPost, "/sync-commitments", syncCommitmentsRequest{Commitments: []string{commitStr}})
	if rec.Code != http.StatusOK {
		t.Fatalf("sync-commitments status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var syncResp syncCommitmentsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &syncResp); err != nil {
		t.Fatalf("decode sync response: %v", err)
	}
	if len(syncResp.Commitments) != 1 {
		t.Fatalf("expected 1 commitment entry, got %d", len(syncResp.Commitments))
	}
	entry := syncResp.Commitments[0]
	if entry.LeafIndex == nil {
		t.Fatalf("expected commitment to be confirmed with a leaf index")
	}
	if *entry.LeafIndex != depositResp.LeafIndex {
		t.Fatalf("leaf index mismatch: deposit got %d, sync got %d", depositResp.LeafIndex, *entry.LeafIndex)
	}

	rec = doRequest(t, handler, http.MethodGet, "/tree/root", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("tree/root status = %d", rec.Code)
	}
	var rootResp treeRootResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &rootResp); err != nil {
		t.Fatalf("decode tree/root response: %v", err)
	}
	if rootResp.LeafCount != 1 {
		t.Fatalf("expected leaf count 1, got %d", rootResp.LeafCount)
	}

	rec = doRequest(t, handler, http.MethodGet, "/tree/path/0", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("tree/path status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var pathResp treePathResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &pathResp); err != nil {
		t.Fatalf("decode tree/path response: %v", err)
	}
	if pathResp.Commitment != commitStr {
		t.Fatalf("path commitment mismatch: got %q want %q", pathResp.Commitment, commitStr)
	}
}

func TestServerDepositRejectsMalformedCommitment(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doRequest(t, s.Handler(), http.MethodPost, "/deposit", map[string]string{"commitment": "not-a-field-element"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestServerNullifierStatusUnspent(t *testing.T) {
	s, _ := newTestServer(t)
	nullifier, err := field.Random()
	if err != nil {
		t.Fatalf("random nullifier: %v", err)
	}
	hash, err := commitment.NullifierHash(nullifier)
	if err != nil {
		t.Fatalf("nullifier hash: %v", err)
	}

	rec := doRequest(t, s.Handler(), http.MethodGet, "/nullifier/"+hash.String(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("nullifier status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp nullifierStatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Spent {
		t.Fatalf("expected unspent nullifier")
	}
}

func TestServerStatusReportsPausedCoordinator(t *testing.T) {
	s, chainClient := newTestServer(t)
	chainClient.SetPaused(true)

	rec := doRequest(t, s.Handler(), http.MethodGet, "/status", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status code = %d", rec.Code)
	}
	var resp statusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode status response: %v", err)
	}
	if !resp.Healthy {
		t.Fatalf("expected service to still report healthy while coordinator is paused")
	}
	if resp.Contracts.Pool != "0xpool" {
		t.Fatalf("unexpected pool in status: %q", resp.Contracts.Pool)
	}

	rec = doRequest(t, s.Handler(), http.MethodPost, "/deposit", depositRequest{Commitment: randomCommitment(t).String()})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected deposit to be rejected while paused, got %d: %s", rec.Code, rec.Body.String())
	}
}
