// Package tickmath centralizes the signed<->offset tick conversion and the
// u256 low/high amount split so that no other package has to juggle the two
// tick conventions directly. Signed ticks are the wire form; offset ticks
// are what commitments, circuit signals and the vault's position notes
// hold.
package tickmath

import (
	"errors"
	"math/big"
)

// MinTick and MaxTick bound the signed tick range accepted anywhere in
// Zylith.
const (
	MinTick    int32 = -887272
	MaxTick    int32 = 887272
	TickOffset int64 = 887272
)

// ErrTickOutOfRange is returned when a signed tick falls outside [MinTick, MaxTick].
var ErrTickOutOfRange = errors.New("tickmath: tick out of range")

// ErrTickRange is returned when tickLower is not strictly less than tickUpper.
var ErrTickRange = errors.New("tickmath: tickLower must be less than tickUpper")

// SignedToOffset maps a signed tick to its unsigned circuit-facing offset
// form: offset = tick + 887272, which is always in [0, 1774544].
func SignedToOffset(tick int32) (uint64, error) {
	if tick < MinTick || tick > MaxTick {
		return 0, ErrTickOutOfRange
	}
	return uint64(int64(tick) + TickOffset), nil
}

// OffsetToSigned is the inverse of SignedToOffset.
func OffsetToSigned(offset uint64) (int32, error) {
	signed := int64(offset) - TickOffset
	if signed < int64(MinTick) || signed > int64(MaxTick) {
		return 0, ErrTickOutOfRange
	}
	return int32(signed), nil
}

// ValidateRange checks tickLower < tickUpper and that both are in range.
func ValidateRange(tickLower, tickUpper int32) error {
	if tickLower < MinTick || tickLower > MaxTick || tickUpper < MinTick || tickUpper > MaxTick {
		return ErrTickOutOfRange
	}
	if tickLower >= tickUpper {
		return ErrTickRange
	}
	return nil
}

// SplitU256 splits a 256-bit unsigned value into (low128, high128) halves:
// low = value mod 2^128, high = value >> 128.
func SplitU256(value *big.Int) (low, high *big.Int, err error) {
	if value == nil || value.Sign() < 0 {
		return nil, nil, errors.New("tickmath: amount must be non-negative")
	}
	max256 := new(big.Int).Lsh(big.NewInt(1), 256)
	if value.Cmp(max256) >= 0 {
		return nil, nil, errors.New("tickmath: amount exceeds 256 bits")
	}

	mask128 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	low = new(big.Int).And(value, mask128)
	high = new(big.Int).Rsh(value, 128)
	return low, high, nil
}

// CombineU256 reassembles a 256-bit value from its (low128, high128) halves.
func CombineU256(low, high *big.Int) *big.Int {
	result := new(big.Int).Lsh(high, 128)
	result.Or(result, low)
	return result
}
