package prover

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// Run emits the ready line, then reads newline-delimited Requests from r
// and writes newline-delimited Responses to w until r is exhausted or ctx
// is cancelled. Processing is strictly sequential: a request is fully
// handled, and its response written, before the next line is read, so
// response ordering always matches request ordering.
func (w *Worker) Run(ctx context.Context, r io.Reader, out io.Writer) error {
	encoder := json.NewEncoder(out)
	if err := encoder.Encode(ReadyMessage{Ready: true}); err != nil {
		return fmt.Errorf("prover: write ready message: %w", err)
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		resp := w.handleLine(ctx, line)
		if err := encoder.Encode(resp); err != nil {
			return fmt.Errorf("prover: write response: %w", err)
		}
	}
	return scanner.Err()
}

func (w *Worker) handleLine(ctx context.Context, line []byte) Response {
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		return errResponse("", ErrKindInvalidParams, fmt.Sprintf("malformed request: %v", err))
	}

	data, respErr := w.dispatch(ctx, req)
	if respErr != nil {
		return errResponse(req.ID, respErr.Kind, respErr.Message)
	}

	resp, err := okResponse(req.ID, data)
	if err != nil {
		return errResponse(req.ID, ErrKindInternal, err.Error())
	}
	return resp
}

func (w *Worker) dispatch(ctx context.Context, req Request) (any, *ResponseError) {
	switch req.Command {
	case "buildTree":
		return w.handleBuildTree(req.Params)
	case "insertLeaf":
		return w.handleInsertLeaf(req.Params)
	case "getRoot":
		return w.handleGetRoot(req.Params)
	case "getProof":
		return w.handleGetProof(req.Params)
	case "computeCommitment":
		return w.handleComputeCommitment(req.Params)
	case "computePositionCommitment":
		return w.handleComputePositionCommitment(req.Params)
	case "generateProof":
		return w.handleGenerateProof(ctx, req.ID, req.Params)
	case "ping":
		return w.handlePing(req.Params)
	default:
		return nil, &ResponseError{Kind: ErrKindUnknownCommand, Message: fmt.Sprintf("unknown command %q", req.Command)}
	}
}
