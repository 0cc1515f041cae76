// Package commitment implements the two pure commitment functions Zylith
// uses everywhere a UTXO needs to be hidden inside the Merkle tree. Both
// functions are deterministic and side-effect free; callers are
// responsible for generating the random secret/nullifier inputs.
package commitment

import (
	"github.com/zylith/core/internal/field"
	"github.com/zylith/core/internal/poseidon"
)

// NoteCommitment computes Poseidon(Poseidon(secret, nullifier), amountLow, amountHigh, token).
func NoteCommitment(secret, nullifier, amountLow, amountHigh, token field.Element) (field.Element, error) {
	inner, err := poseidon.Hash(secret, nullifier)
	if err != nil {
		return field.Element{}, err
	}
	return poseidon.Hash(inner, amountLow, amountHigh, token)
}

// NullifierHash computes Poseidon(nullifier).
func NullifierHash(nullifier field.Element) (field.Element, error) {
	return poseidon.NullifierHash(nullifier)
}

// PositionCommitment computes Poseidon(secret, nullifier, tickLowerOffset, tickUpperOffset, liquidity).
// Callers MUST pass offset (unsigned) ticks; this function never performs
// the signed<->offset conversion itself (see internal/tickmath).
func PositionCommitment(secret, nullifier, tickLowerOffset, tickUpperOffset, liquidity field.Element) (field.Element, error) {
	return poseidon.Hash(secret, nullifier, tickLowerOffset, tickUpperOffset, liquidity)
}
