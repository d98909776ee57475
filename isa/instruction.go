package isa

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Instruction is one entry in the code segment: an opcode plus an
// optional signed argument. Arg is nil whenever the opcode doesn't use one.
type Instruction struct {
	Opcode Opcode
	Arg    *int
}

// NewInstruction builds an instruction carrying an argument.
func NewInstruction(op Opcode, arg int) Instruction {
	return Instruction{Opcode: op, Arg: &arg}
}

// NewBareInstruction builds an instruction with no argument.
func NewBareInstruction(op Opcode) Instruction {
	return Instruction{Opcode: op}
}

// ArgOr returns the instruction's argument, or def if it has none.
func (in Instruction) ArgOr(def int) int {
	if in.Arg == nil {
		return def
	}
	return *in.Arg
}

type wireInstruction struct {
	Opcode string `json:"opcode"`
	Arg    *int   `json:"arg"`
}

// MarshalJSON writes {"opcode": "...", "arg": <int|null>}.
func (in Instruction) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireInstruction{Opcode: string(in.Opcode), Arg: in.Arg})
}

// UnmarshalJSON validates the opcode against the closed enumeration.
func (in *Instruction) UnmarshalJSON(data []byte) error {
	var w wireInstruction
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&w); err != nil {
		return fmt.Errorf("malformed instruction: %w", err)
	}
	op, err := ParseOpcode(w.Opcode)
	if err != nil {
		return err
	}
	if op.HasArg() && w.Arg == nil {
		return fmt.Errorf("instruction %q requires an arg", w.Opcode)
	}
	in.Opcode = op
	in.Arg = w.Arg
	return nil
}
