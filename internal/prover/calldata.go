package prover

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os/exec"
)

// CalldataFormatter turns a raw Groth16 proof plus its public witness into
// the flat decimal-string sequence the on-chain verifier expects. The real
// formatter is an external tool shipped alongside the compiled circuit
// artifacts; this interface keeps that dependency swappable.
type CalldataFormatter interface {
	Format(ctx context.Context, proofBytes, publicBytes []byte) ([]string, error)
}

// ExternalFormatter shells out to a configured command, writing the proof
// and public-signal bytes to its stdin as a JSON envelope and reading back
// a JSON array of decimal strings from stdout.
type ExternalFormatter struct {
	// Command is the formatter binary, e.g. the project's calldata tool.
	Command string
	Args    []string
}

type formatterRequest struct {
	Proof  []byte `json:"proof"`
	Public []byte `json:"public"`
}

// Format invokes the external formatter once per call; the worker's
// sequential processing model means this never runs concurrently with
// itself on the same connection.
func (f *ExternalFormatter) Format(ctx context.Context, proofBytes, publicBytes []byte) ([]string, error) {
	req, err := json.Marshal(formatterRequest{Proof: proofBytes, Public: publicBytes})
	if err != nil {
		return nil, fmt.Errorf("prover: marshal formatter request: %w", err)
	}

	cmd := exec.CommandContext(ctx, f.Command, f.Args...)
	cmd.Stdin = bytes.NewReader(req)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("prover: calldata formatter: %w", err)
	}

	var calldata []string
	if err := json.Unmarshal(stdout.Bytes(), &calldata); err != nil {
		return nil, fmt.Errorf("prover: parse calldata formatter output: %w", err)
	}
	return calldata, nil
}

// RawFormatter chunks the proof and public-witness bytes into 32-byte
// big-endian field elements and renders each as a decimal string, without
// shelling out to an external tool. It stands in for the real calldata
// formatter in local development and in tests that need a working
// generateProof pipeline but have no formatter binary installed.
type RawFormatter struct{}

// Format splits proofBytes then publicBytes into 32-byte words and returns
// each word's big-endian integer value as a decimal string.
func (RawFormatter) Format(ctx context.Context, proofBytes, publicBytes []byte) ([]string, error) {
	var out []string
	for _, chunk := range chunk32(proofBytes) {
		out = append(out, new(big.Int).SetBytes(chunk).String())
	}
	for _, chunk := range chunk32(publicBytes) {
		out = append(out, new(big.Int).SetBytes(chunk).String())
	}
	return out, nil
}

func chunk32(b []byte) [][]byte {
	var chunks [][]byte
	for len(b) > 0 {
		n := 32
		if n > len(b) {
			n = len(b)
		}
		chunks = append(chunks, b[:n])
		b = b[n:]
	}
	return chunks
}
