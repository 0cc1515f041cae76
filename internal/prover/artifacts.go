package prover

import (
	"fmt"
	"os"
	"path/filepath"
)

// ArtifactExporter writes a generated proof's raw bytes and public witness
// to the configured artifact directory, one pair of files per request id so
// concurrent in-flight requests never collide.
type ArtifactExporter struct {
	Dir string
}

// Export writes {id}.proof and {id}.public under Dir, creating it if needed.
func (e *ArtifactExporter) Export(id string, proofBytes, publicBytes []byte) (proofPath, publicPath string, err error) {
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return "", "", fmt.Errorf("prover: create artifact dir: %w", err)
	}

	proofPath = filepath.Join(e.Dir, id+".proof")
	publicPath = filepath.Join(e.Dir, id+".public")

	if err := os.WriteFile(proofPath, proofBytes, 0o644); err != nil {
		return "", "", fmt.Errorf("prover: write proof artifact: %w", err)
	}
	if err := os.WriteFile(publicPath, publicBytes, 0o644); err != nil {
		return "", "", fmt.Errorf("prover: write public artifact: %w", err)
	}
	return proofPath, publicPath, nil
}
