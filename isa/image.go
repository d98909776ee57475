package isa

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// DataCell is one cell of the data segment. Char marks that this cell
// originated from a character or string literal: in memory it is an
// ordinary integer (its Unicode code point), but on the wire it is
// rendered as a one-character JSON string instead of a number, so a
// hand-written image file can spell out "H" instead of 72.
type DataCell struct {
	Value int
	Char  bool
}

// Int builds a plain integer data cell.
func Int(v int) DataCell { return DataCell{Value: v} }

// Rune builds a character data cell from its code point.
func Rune(r rune) DataCell { return DataCell{Value: int(r), Char: true} }

// MarshalJSON renders Char cells as a one-rune string, others as numbers.
func (c DataCell) MarshalJSON() ([]byte, error) {
	if c.Char {
		return json.Marshal(string(rune(c.Value)))
	}
	return json.Marshal(c.Value)
}

// UnmarshalJSON accepts either a JSON number (plain integer cell) or a
// single-rune JSON string (character cell, decoded to its code point).
func (c *DataCell) UnmarshalJSON(data []byte) error {
	var asInt int
	if err := json.Unmarshal(data, &asInt); err == nil {
		c.Value = asInt
		c.Char = false
		return nil
	}
	var asStr string
	if err := json.Unmarshal(data, &asStr); err != nil {
		return fmt.Errorf("data cell is neither a number nor a string: %s", data)
	}
	r, size := utf8.DecodeRuneInString(asStr)
	if r == utf8.RuneError || size != len(asStr) {
		return fmt.Errorf("data cell string %q is not a single character", asStr)
	}
	c.Value = int(r)
	c.Char = true
	return nil
}

// Image is the complete serialized program: the data segment and the
// code segment. Translate produces one; the control unit loads one.
type Image struct {
	Data []DataCell    `json:"data"`
	Code []Instruction `json:"code"`
}

// Encode serializes the image to its canonical JSON form.
func (img *Image) Encode() ([]byte, error) {
	out, err := json.MarshalIndent(img, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return out, nil
}

// Decode parses a program image previously written by Encode (or by hand).
func Decode(data []byte) (*Image, error) {
	var img Image
	if err := json.Unmarshal(data, &img); err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	for i, in := range img.Code {
		if in.Opcode.HasArg() != (in.Arg != nil) {
			return nil, fmt.Errorf("decode image: instruction %d (%s) arg mismatch", i, in.Opcode)
		}
	}
	return &img, nil
}
