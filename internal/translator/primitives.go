package translator

import (
	"forthvm/internal/datapath"
	"forthvm/isa"
)

// primitive is a word that always compiles to the same fixed
// instruction sequence, independent of where it appears.
var primitive = map[string][]isa.Instruction{
	"+":    {isa.NewBareInstruction(isa.ADD)},
	"-":    {isa.NewBareInstruction(isa.SUB)},
	"dup":  {isa.NewBareInstruction(isa.DUP)},
	"over": {isa.NewBareInstruction(isa.OVER)},
	"or":   {isa.NewBareInstruction(isa.OR)},
	"and":  {isa.NewBareInstruction(isa.AND)},
	"invert": {isa.NewBareInstruction(isa.INV)},
	"!":   {isa.NewBareInstruction(isa.STORE)},
	"@":   {isa.NewBareInstruction(isa.LOAD)},

	// key ( -- c ) reads one character's code point from the input port.
	"key": {
		isa.NewInstruction(isa.LIT, datapath.PortIn),
		isa.NewBareInstruction(isa.LOAD),
	},
	// emit ( c -- ) writes a character to the character-output port.
	"emit": {
		isa.NewInstruction(isa.LIT, datapath.PortCharOut),
		isa.NewBareInstruction(isa.STORE),
	},
	// . ( n -- ) writes a number's decimal form to the integer-output port.
	".": {
		isa.NewInstruction(isa.LIT, datapath.PortIntOut),
		isa.NewBareInstruction(isa.STORE),
	},
	// < ( a b -- flag ) is a-b negative.
	"<": {
		isa.NewBareInstruction(isa.SUB),
		isa.NewBareInstruction(isa.ISNEG),
	},
	// > ( a b -- flag ) is b-a negative, i.e. negate a-b then test.
	">": {
		isa.NewBareInstruction(isa.SUB),
		isa.NewBareInstruction(isa.NEG),
		isa.NewBareInstruction(isa.ISNEG),
	},
	// = ( a b -- flag ) is a-b == 0, i.e. invert a-b's truthiness.
	"=": {
		isa.NewBareInstruction(isa.SUB),
		isa.NewBareInstruction(isa.INV),
	},
}
