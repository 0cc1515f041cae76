package circuit

import (
	"errors"
	"sync"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
)

var (
	ErrCircuitNotCompiled      = errors.New("circuit: not compiled")
	ErrProofGenerationFailed   = errors.New("circuit: proof generation failed")
	ErrProofVerificationFailed = errors.New("circuit: proof verification failed")
)

// Kind identifies one of the four fixed circuits.
type Kind uint8

const (
	KindMembership Kind = iota
	KindSwap
	KindMint
	KindBurn
)

func (k Kind) String() string {
	switch k {
	case KindMembership:
		return "membership"
	case KindSwap:
		return "swap"
	case KindMint:
		return "mint"
	case KindBurn:
		return "burn"
	default:
		return "unknown"
	}
}

// Compiled holds a circuit's constraint system plus its Groth16 key pair.
type Compiled struct {
	R1CS         frontend.CompiledConstraintSystem
	ProvingKey   groth16.ProvingKey
	VerifyingKey groth16.VerifyingKey
}

// Manager holds the compiled circuits and keys for the lifetime of a
// prover process: one compiled circuit per Kind, built once at startup and
// reused across every generateProof call.
type Manager struct {
	mu       sync.RWMutex
	compiled map[Kind]*Compiled
}

// NewManager returns an empty Manager.
func NewManager() *Manager {
	return &Manager{compiled: make(map[Kind]*Compiled)}
}

// CompileAll compiles and runs Groth16 setup for every circuit kind. In
// production this step is replaced by loading precomputed artifacts;
// CompileAll exists for local development and tests where no external
// artifact directory is configured.
func (m *Manager) CompileAll() error {
	circuits := map[Kind]frontend.Circuit{
		KindMembership: &MembershipCircuit{},
		KindSwap:       &SwapCircuit{},
		KindMint:       &MintCircuit{},
		KindBurn:       &BurnCircuit{},
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for kind, c := range circuits {
		r1cs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, c)
		if err != nil {
			return err
		}
		pk, vk, err := groth16.Setup(r1cs)
		if err != nil {
			return err
		}
		m.compiled[kind] = &Compiled{R1CS: r1cs, ProvingKey: pk, VerifyingKey: vk}
	}
	return nil
}

// Proof is the artifact produced by GenerateProof: the Groth16 proof plus
// its serialized public witness.
type Proof struct {
	Kind        Kind
	ProofBytes  []byte
	PublicBytes []byte
}

// GenerateProof runs witness generation and Groth16 proving for the given
// circuit kind, then verifies the proof locally before returning it — the
// first two steps of the prover's generateProof pipeline; the remaining
// steps (export, calldata formatting) live in internal/prover.
func (m *Manager) GenerateProof(kind Kind, witness frontend.Circuit) (*Proof, error) {
	m.mu.RLock()
	compiled, ok := m.compiled[kind]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrCircuitNotCompiled
	}

	w, err := frontend.NewWitness(witness, ecc.BN254.ScalarField())
	if err != nil {
		return nil, err
	}

	proof, err := groth16.Prove(compiled.R1CS, compiled.ProvingKey, w)
	if err != nil {
		return nil, ErrProofGenerationFailed
	}

	publicWitness, err := w.Public()
	if err != nil {
		return nil, err
	}

	if err := groth16.Verify(proof, compiled.VerifyingKey, publicWitness); err != nil {
		return nil, ErrProofVerificationFailed
	}

	proofBytes := proof.MarshalBinary()
	publicBytes, err := publicWitness.MarshalBinary()
	if err != nil {
		return nil, err
	}

	return &Proof{Kind: kind, ProofBytes: proofBytes, PublicBytes: publicBytes}, nil
}

// VerifyingKey returns the verifying key for a circuit kind, for handing to
// the on-chain verifier configuration.
func (m *Manager) VerifyingKey(kind Kind) (groth16.VerifyingKey, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	compiled, ok := m.compiled[kind]
	if !ok {
		return nil, ErrCircuitNotCompiled
	}
	return compiled.VerifyingKey, nil
}
