package prover

import (
	"testing"

	"github.com/zylith/core/internal/circuit"
)

func newCompiledManager(t *testing.T) *circuit.Manager {
	t.Helper()
	m := circuit.NewManager()
	if err := m.CompileAll(); err != nil {
		t.Fatalf("compile circuits: %v", err)
	}
	return m
}
