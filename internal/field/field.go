// Package field implements BN254 scalar-field arithmetic for Zylith's
// commitment and Merkle-tree layers. Every value that ultimately reaches a
// circuit signal passes through an Element so that out-of-range inputs are
// rejected before they can silently wrap.
package field

import (
	"errors"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// ErrOutOfRange is returned when a value is negative or >= the field modulus.
var ErrOutOfRange = errors.New("field: value out of range")

// Modulus is the BN254 scalar field order.
var Modulus = fr.Modulus()

// Element is a canonical BN254 scalar-field element.
type Element struct {
	inner fr.Element
}

// Zero is the additive identity.
var Zero = Element{}

// One is the multiplicative identity.
var One = func() Element {
	var e Element
	e.inner.SetOne()
	return e
}()

// FromBigInt builds an Element from a big.Int, rejecting values outside
// [0, Modulus).
func FromBigInt(v *big.Int) (Element, error) {
	if v == nil || v.Sign() < 0 || v.Cmp(Modulus) >= 0 {
		return Element{}, ErrOutOfRange
	}
	var e Element
	e.inner.SetBigInt(v)
	return e, nil
}

// FromUint64 builds an Element from a uint64, which is always in range.
func FromUint64(v uint64) Element {
	var e Element
	e.inner.SetUint64(v)
	return e
}

// FromDecimalString parses a base-10 string, rejecting out-of-range values.
func FromDecimalString(s string) (Element, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Element{}, errors.New("field: invalid decimal string")
	}
	return FromBigInt(v)
}

// FromBytes interprets 32 big-endian bytes as a field element modulo p.
// Callers that need strict range checking should use FromBigInt instead.
func FromBytes(b []byte) Element {
	var e Element
	e.inner.SetBytes(b)
	return e
}

// MustFromUint64 is a convenience constructor for constants and tests.
func MustFromUint64(v uint64) Element {
	return FromUint64(v)
}

// BigInt returns the element's canonical big.Int representation.
func (e Element) BigInt() *big.Int {
	var out big.Int
	e.inner.BigInt(&out)
	return &out
}

// String returns the canonical base-10 representation.
func (e Element) String() string {
	return e.BigInt().String()
}

// Bytes returns the 32-byte big-endian canonical representation.
func (e Element) Bytes() [32]byte {
	return e.inner.Bytes()
}

// IsZero reports whether the element is the additive identity.
func (e Element) IsZero() bool {
	return e.inner.IsZero()
}

// Equal reports whether two elements are the same field value.
func (e Element) Equal(other Element) bool {
	return e.inner.Equal(&other.inner)
}

// Add returns e + other.
func (e Element) Add(other Element) Element {
	var out Element
	out.inner.Add(&e.inner, &other.inner)
	return out
}

// Sub returns e - other.
func (e Element) Sub(other Element) Element {
	var out Element
	out.inner.Sub(&e.inner, &other.inner)
	return out
}

// Random draws a uniformly random field element.
func Random() (Element, error) {
	var e Element
	if _, err := e.inner.SetRandom(); err != nil {
		return Element{}, err
	}
	return e, nil
}

// Validate checks that a big.Int is a legal field element without
// constructing one, used at the edges of the input builders where the
// caller needs the precise out-of-range error.
func Validate(v *big.Int) error {
	if v == nil || v.Sign() < 0 || v.Cmp(Modulus) >= 0 {
		return ErrOutOfRange
	}
	return nil
}
