// Package poseidon implements the Poseidon-family hash used for every
// commitment, nullifier hash, and Merkle node in Zylith. It is the single
// place in the repository allowed to construct a gnark-crypto Poseidon
// hasher, so that all callers observe identical, deterministic output for
// identical inputs.
package poseidon

import (
	"errors"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr/poseidon2"

	"github.com/zylith/core/internal/field"
)

// ErrArity is returned when Hash is called with an illegal number of inputs.
var ErrArity = errors.New("poseidon: arity must be between 1 and 6 inputs")

// MinArity and MaxArity bound the number of field elements a single Hash
// call accepts, matching the circuit's fixed-arity Poseidon gadgets.
const (
	MinArity = 1
	MaxArity = 6
)

// newHasher returns a fresh Merkle-Damgard Poseidon2 hasher state. A fresh
// hasher is used per call rather than a shared, mutex-guarded global so
// that concurrent callers (the ASP services many requests in parallel)
// never interleave writes into the same sponge state.
var newHasher = poseidon2.NewMerkleDamgardHasher

// Hash computes Poseidon(inputs...) over 1 to 6 BN254 field elements. Every
// input must already be a canonical field.Element, so out-of-range values
// are rejected by construction, not by this function.
func Hash(inputs ...field.Element) (field.Element, error) {
	if len(inputs) < MinArity || len(inputs) > MaxArity {
		return field.Element{}, ErrArity
	}

	hasher := newHasher()
	for _, in := range inputs {
		b := in.Bytes()
		hasher.Write(b[:])
	}

	digest := hasher.Sum(nil)
	return field.FromBytes(digest), nil
}

// HashPair is a convenience wrapper for the two-input case used throughout
// the LeanIMT.
func HashPair(left, right field.Element) (field.Element, error) {
	return Hash(left, right)
}

// NullifierHash computes nullifierHash = Poseidon(nullifier).
func NullifierHash(nullifier field.Element) (field.Element, error) {
	return Hash(nullifier)
}
