package vault

import (
	"encoding/json"
	"fmt"

	"github.com/zylith/core/internal/field"
)

// wireNote/wirePosition are the JSON-friendly mirrors of Note/PositionNote:
// field.Element has no exported internals, so every field crosses the wire
// as its canonical decimal string (field.Element.String / FromDecimalString).
type wireNote struct {
	Secret     string  `json:"secret"`
	Nullifier  string  `json:"nullifier"`
	AmountLow  string  `json:"amount_low"`
	AmountHigh string  `json:"amount_high"`
	Token      string  `json:"token"`
	Commitment string  `json:"commitment"`
	LeafIndex  *uint64 `json:"leaf_index,omitempty"`
	Spent      bool    `json:"spent"`
}

type wirePosition struct {
	Secret          string  `json:"secret"`
	Nullifier       string  `json:"nullifier"`
	TickLowerOffset string  `json:"tick_lower_offset"`
	TickUpperOffset string  `json:"tick_upper_offset"`
	Liquidity       string  `json:"liquidity"`
	Commitment      string  `json:"commitment"`
	LeafIndex       *uint64 `json:"leaf_index,omitempty"`
	Spent           bool    `json:"spent"`
}

type wireDocument struct {
	Notes     []wireNote     `json:"notes"`
	Positions []wirePosition `json:"positions"`
}

func parseField(s string) (field.Element, error) {
	e, err := field.FromDecimalString(s)
	if err != nil {
		return field.Element{}, fmt.Errorf("vault: malformed field element %q: %w", s, err)
	}
	return e, nil
}

// MarshalJSON renders the document into its plaintext wire form, which the
// caller is expected to seal before persisting.
func (d *Document) MarshalJSON() ([]byte, error) {
	wd := wireDocument{}
	for _, n := range d.Notes {
		wd.Notes = append(wd.Notes, wireNote{
			Secret:     n.Secret.String(),
			Nullifier:  n.Nullifier.String(),
			AmountLow:  n.AmountLow.String(),
			AmountHigh: n.AmountHigh.String(),
			Token:      n.Token.String(),
			Commitment: n.Commitment.String(),
			LeafIndex:  n.LeafIndex,
			Spent:      n.Spent,
		})
	}
	for _, p := range d.Positions {
		wd.Positions = append(wd.Positions, wirePosition{
			Secret:          p.Secret.String(),
			Nullifier:       p.Nullifier.String(),
			TickLowerOffset: p.TickLowerOffset.String(),
			TickUpperOffset: p.TickUpperOffset.String(),
			Liquidity:       p.Liquidity.String(),
			Commitment:      p.Commitment.String(),
			LeafIndex:       p.LeafIndex,
			Spent:           p.Spent,
		})
	}
	return json.Marshal(wd)
}

// UnmarshalJSON parses a document from its plaintext wire form.
func (d *Document) UnmarshalJSON(data []byte) error {
	var wd wireDocument
	if err := json.Unmarshal(data, &wd); err != nil {
		return fmt.Errorf("vault: decode document: %w", err)
	}

	notes := make([]*Note, 0, len(wd.Notes))
	for _, wn := range wd.Notes {
		n := &Note{LeafIndex: wn.LeafIndex, Spent: wn.Spent}
		var err error
		if n.Secret, err = parseField(wn.Secret); err != nil {
			return err
		}
		if n.Nullifier, err = parseField(wn.Nullifier); err != nil {
			return err
		}
		if n.AmountLow, err = parseField(wn.AmountLow); err != nil {
			return err
		}
		if n.AmountHigh, err = parseField(wn.AmountHigh); err != nil {
			return err
		}
		if n.Token, err = parseField(wn.Token); err != nil {
			return err
		}
		if n.Commitment, err = parseField(wn.Commitment); err != nil {
			return err
		}
		notes = append(notes, n)
	}

	positions := make([]*PositionNote, 0, len(wd.Positions))
	for _, wp := range wd.Positions {
		p := &PositionNote{LeafIndex: wp.LeafIndex, Spent: wp.Spent}
		var err error
		if p.Secret, err = parseField(wp.Secret); err != nil {
			return err
		}
		if p.Nullifier, err = parseField(wp.Nullifier); err != nil {
			return err
		}
		if p.TickLowerOffset, err = parseField(wp.TickLowerOffset); err != nil {
			return err
		}
		if p.TickUpperOffset, err = parseField(wp.TickUpperOffset); err != nil {
			return err
		}
		if p.Liquidity, err = parseField(wp.Liquidity); err != nil {
			return err
		}
		if p.Commitment, err = parseField(wp.Commitment); err != nil {
			return err
		}
		positions = append(positions, p)
	}

	d.Notes = notes
	d.Positions = positions
	return nil
}
