// Package common provides the small set of shared helpers every wire-facing
// package needs: hex encoding and random request identifiers.
package common

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/zylith/core/internal/field"
)

// HexToBytes converts a hex string, optionally 0x-prefixed, to bytes.
func HexToBytes(s string) ([]byte, error) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	return hex.DecodeString(s)
}

// BytesToHex converts bytes to a 0x-prefixed hex string.
func BytesToHex(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}

// FieldToHex renders a field element as the 0x-prefixed hex encoding the
// wire format uses for Merkle roots; every other field element on the
// wire, token addresses included, is a decimal string.
func FieldToHex(e field.Element) string {
	b := e.Bytes()
	return BytesToHex(b[:])
}

// HexToField parses a 0x-prefixed hex string back into a field element.
func HexToField(s string) (field.Element, error) {
	b, err := HexToBytes(s)
	if err != nil {
		return field.Element{}, err
	}
	return field.FromBytes(b), nil
}

// RandomID returns a random hex-encoded identifier, used for Prover Worker
// IPC request ids.
func RandomID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
