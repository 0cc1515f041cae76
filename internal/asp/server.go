package asp

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

// Server exposes a Service over REST, using the Go 1.22 http.ServeMux
// method+pattern routing in place of an external router.
type Server struct {
	svc *Service
	mux *http.ServeMux
}

// NewServer builds a Server's routing table around svc.
func NewServer(svc *Service) *Server {
	s := &Server{svc: svc, mux: http.NewServeMux()}
	s.mux.HandleFunc("POST /deposit", s.handleDeposit)
	s.mux.HandleFunc("POST /withdraw", s.handleWithdraw)
	s.mux.HandleFunc("POST /swap", s.handleSwap)
	s.mux.HandleFunc("POST /mint", s.handleMint)
	s.mux.HandleFunc("POST /burn", s.handleBurn)
	s.mux.HandleFunc("GET /tree/root", s.handleTreeRoot)
	s.mux.HandleFunc("GET /tree/path/{leaf_index}", s.handleTreePath)
	s.mux.HandleFunc("GET /nullifier/{hash}", s.handleNullifierStatus)
	s.mux.HandleFunc("GET /status", s.handleStatus)
	s.mux.HandleFunc("POST /sync-commitments", s.handleSyncCommitments)
	return s
}

// Handler returns the HTTP handler that should be passed to http.Server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, err error) {
	ae := asAPIError(err)
	writeJSON(w, httpStatus(ae.Kind), errorResponse{Error: ae.Kind, Message: ae.Error()})
}

func decodeBody(r *http.Request, dst any) bool {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst) == nil
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	var req depositRequest
	if !decodeBody(r, &req) {
		writeAPIError(w, newAPIError(kindInvalidField, "malformed request body", nil))
		return
	}
	leafIndex, root, calldata, err := s.svc.Deposit(r.Context(), req.Commitment)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, depositResponse{Status: "pending", LeafIndex: leafIndex, Calldata: calldata, Root: root})
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	var req withdrawRequest
	if !decodeBody(r, &req) {
		writeAPIError(w, newAPIError(kindInvalidField, "malformed request body", nil))
		return
	}
	resp, err := s.svc.Withdraw(r.Context(), req)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSwap(w http.ResponseWriter, r *http.Request) {
	var req swapRequest
	if !decodeBody(r, &req) {
		writeAPIError(w, newAPIError(kindInvalidField, "malformed request body", nil))
		return
	}
	resp, err := s.svc.Swap(r.Context(), req)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMint(w http.ResponseWriter, r *http.Request) {
	var req mintRequest
	if !decodeBody(r, &req) {
		writeAPIError(w, newAPIError(kindInvalidField, "malformed request body", nil))
		return
	}
	resp, err := s.svc.Mint(r.Context(), req)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBurn(w http.ResponseWriter, r *http.Request) {
	var req burnRequest
	if !decodeBody(r, &req) {
		writeAPIError(w, newAPIError(kindInvalidField, "malformed request body", nil))
		return
	}
	resp, err := s.svc.Burn(r.Context(), req)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTreeRoot(w http.ResponseWriter, r *http.Request) {
	root, count := s.svc.TreeRoot()
	writeJSON(w, http.StatusOK, treeRootResponse{Root: root, LeafCount: count})
}

func (s *Server) handleTreePath(w http.ResponseWriter, r *http.Request) {
	leafIndex, err := strconv.ParseUint(r.PathValue("leaf_index"), 10, 64)
	if err != nil {
		writeAPIError(w, newAPIError(kindInvalidField, "malformed leaf_index", err))
		return
	}
	resp, err := s.svc.TreePath(leafIndex)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleNullifierStatus(w http.ResponseWriter, r *http.Request) {
	hash := strings.TrimSpace(r.PathValue("hash"))
	resp, err := s.svc.NullifierStatus(r.Context(), hash)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Status(r.Context()))
}

func (s *Server) handleSyncCommitments(w http.ResponseWriter, r *http.Request) {
	var req syncCommitmentsRequest
	if !decodeBody(r, &req) {
		writeAPIError(w, newAPIError(kindInvalidField, "malformed request body", nil))
		return
	}
	resp, err := s.svc.SyncCommitments(r.Context(), req.Commitments)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
