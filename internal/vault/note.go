// Package vault implements the Note Vault: the client-side store of UTXO
// notes and concentrated-liquidity position notes, encrypted at rest. The
// whole vault document is sealed as a single AES-256-GCM blob whose key is
// derived from a user passphrase via PBKDF2.
package vault

import (
	"errors"
	"math/big"

	"github.com/zylith/core/internal/commitment"
	"github.com/zylith/core/internal/field"
	"github.com/zylith/core/internal/tickmath"
)

// Common errors
var (
	ErrNotFound      = errors.New("vault: note not found")
	ErrAlreadySpent  = errors.New("vault: note already marked spent")
	ErrDecryption    = errors.New("vault: decryption failure")
	ErrIO            = errors.New("vault: storage io failure")
	ErrInvalidAmount = errors.New("vault: invalid amount")
)

// Note is a decrypted shielded UTXO note held by the vault.
type Note struct {
	Secret     field.Element
	Nullifier  field.Element
	AmountLow  field.Element
	AmountHigh field.Element
	Token      field.Element
	Commitment field.Element

	LeafIndex *uint64 // nil until the note is observed in the canonical tree
	Spent     bool
}

// PositionNote is a decrypted concentrated-liquidity position note.
type PositionNote struct {
	Secret          field.Element
	Nullifier       field.Element
	TickLowerOffset field.Element
	TickUpperOffset field.Element
	Liquidity       field.Element
	Commitment      field.Element

	LeafIndex *uint64
	Spent     bool
}

// Document is the full plaintext contents of a vault, the unit that gets
// encrypted as a whole and written to disk (or an in-memory store).
type Document struct {
	Notes     []*Note
	Positions []*PositionNote
}

// NewDocument returns an empty vault document.
func NewDocument() *Document {
	return &Document{}
}

// AddNote appends a newly-created note to the vault.
func (d *Document) AddNote(n *Note) {
	d.Notes = append(d.Notes, n)
}

// AddPositionNote appends a newly-created position note to the vault.
func (d *Document) AddPositionNote(p *PositionNote) {
	d.Positions = append(d.Positions, p)
}

// MarkSpent flags the note with the given nullifier hash as spent. It
// returns ErrNotFound if no matching note exists and ErrAlreadySpent if the
// note was already spent.
func (d *Document) MarkSpent(nullifierHash field.Element) error {
	for _, n := range d.Notes {
		hash, err := noteNullifierHash(n)
		if err != nil {
			return err
		}
		if hash.Equal(nullifierHash) {
			if n.Spent {
				return ErrAlreadySpent
			}
			n.Spent = true
			return nil
		}
	}
	for _, p := range d.Positions {
		hash, err := positionNullifierHash(p)
		if err != nil {
			return err
		}
		if hash.Equal(nullifierHash) {
			if p.Spent {
				return ErrAlreadySpent
			}
			p.Spent = true
			return nil
		}
	}
	return ErrNotFound
}

// SetLeafIndex records the tree position a note's commitment was observed
// at, once the ASP confirms insertion.
func (d *Document) SetLeafIndex(commitment field.Element, leafIndex uint64) error {
	for _, n := range d.Notes {
		if n.Commitment.Equal(commitment) {
			idx := leafIndex
			n.LeafIndex = &idx
			return nil
		}
	}
	for _, p := range d.Positions {
		if p.Commitment.Equal(commitment) {
			idx := leafIndex
			p.LeafIndex = &idx
			return nil
		}
	}
	return ErrNotFound
}

// UnspentNotes returns every note that has not been marked spent.
func (d *Document) UnspentNotes() []*Note {
	var out []*Note
	for _, n := range d.Notes {
		if !n.Spent {
			out = append(out, n)
		}
	}
	return out
}

// UnspentPositions returns every position note that has not been marked spent.
func (d *Document) UnspentPositions() []*PositionNote {
	var out []*PositionNote
	for _, p := range d.Positions {
		if !p.Spent {
			out = append(out, p)
		}
	}
	return out
}

// Balance sums the unspent notes for a given token, combining each note's
// low/high u256 halves.
func (d *Document) Balance(token field.Element) (*big.Int, error) {
	total := new(big.Int)
	for _, n := range d.Notes {
		if n.Spent || !n.Token.Equal(token) {
			continue
		}
		low, high := n.AmountLow.BigInt(), n.AmountHigh.BigInt()
		total.Add(total, tickmath.CombineU256(low, high))
	}
	return total, nil
}

func noteNullifierHash(n *Note) (field.Element, error) {
	return commitment.NullifierHash(n.Nullifier)
}

func positionNullifierHash(p *PositionNote) (field.Element, error) {
	return commitment.NullifierHash(p.Nullifier)
}
