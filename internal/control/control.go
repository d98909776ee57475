// Package control implements the microcoded control unit: it decodes
// one macro-instruction at a time from a loaded program image and
// drives the data path through the fixed sequence of register
// transfers each opcode requires, counting ticks and instructions as
// it goes.
package control

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"forthvm/internal/datapath"
	"forthvm/isa"
)

// handler performs one opcode's complete effect on the data path and
// advances PC itself (most handlers just do PC++; control-flow opcodes
// set PC directly). It returns the number of ticks the opcode spent.
type handler func(cu *ControlUnit, arg int) (ticks int, err error)

// opcodeTable is the microprogram ROM's opcode entry point, collapsed
// from a sequence of individually addressable signal steps (the shape
// the original machine used) into one handler per opcode. The per-step
// signal families (memory, ALU mux/op, stack shift, return stack, PC
// control) are still named in each handler's comments; only the
// addressing scheme changed, because the machine's exact microstep
// schedule is not an observable contract (only the register-level
// invariants and the per-opcode tick totals in opcodes.go are).
var opcodeTable = map[isa.Opcode]handler{
	isa.NOP:   doNOP,
	isa.LIT:   doLIT,
	isa.LOAD:  doLOAD,
	isa.STORE: doSTORE,
	isa.DUP:   doDUP,
	isa.OVER:  doOVER,
	isa.ADD:   doADD,
	isa.SUB:   doSUB,
	isa.AND:   doAND,
	isa.OR:    doOR,
	isa.INV:   doINV,
	isa.NEG:   doNEG,
	isa.ISNEG: doISNEG,
	isa.JMP:   doJMP,
	isa.JNZ:   doJNZ,
	isa.CALL:  doCALL,
	isa.RET:   doRET,
}

// ControlUnit owns the program counter, the return-address stack, and
// the tick/instruction counters, and drives a DataPath through each
// decoded opcode.
type ControlUnit struct {
	Program *isa.Image
	Data    *datapath.DataPath

	PC int

	retStack []int

	Ticks     int
	InstrCnt  int
	prevPC    int
	lastOp    isa.Opcode

	// Trace, when non-nil, receives one structured entry per executed
	// instruction (tick, PC, opcode, TOS/TOS1, SP). Off by default.
	Trace logrus.FieldLogger
}

// New builds a control unit ready to execute img against dp, starting
// at address 0.
func New(img *isa.Image, dp *datapath.DataPath) *ControlUnit {
	return &ControlUnit{Program: img, Data: dp}
}

func (cu *ControlUnit) pushReturn(addr int) {
	cu.retStack = append(cu.retStack, addr)
}

func (cu *ControlUnit) popReturn() (int, error) {
	if len(cu.retStack) == 0 {
		return 0, fmt.Errorf("control: return stack underflow at pc=%d", cu.PC)
	}
	addr := cu.retStack[len(cu.retStack)-1]
	cu.retStack = cu.retStack[:len(cu.retStack)-1]
	return addr, nil
}

// Step decodes and executes exactly one macro-instruction, returning
// ErrHalt itself when it decodes HALT; handler errors are wrapped with %w.
func (cu *ControlUnit) Step() error {
	if cu.PC < 0 || cu.PC >= len(cu.Program.Code) {
		return fmt.Errorf("control: program counter out of range: %d", cu.PC)
	}
	in := cu.Program.Code[cu.PC]

	if in.Opcode == isa.HALT {
		return ErrHalt
	}

	h, ok := opcodeTable[in.Opcode]
	if !ok {
		return fmt.Errorf("control: no handler for opcode %q", in.Opcode)
	}

	cu.prevPC = cu.PC
	cu.lastOp = in.Opcode
	ticks, err := h(cu, in.ArgOr(0))
	if err != nil {
		return fmt.Errorf("control: %s at pc=%d: %w", in.Opcode, cu.PC, err)
	}
	cu.Ticks += ticks
	cu.InstrCnt++

	if cu.Trace != nil {
		cu.Trace.WithFields(logrus.Fields{
			"tick":   cu.Ticks,
			"pc":     cu.prevPC,
			"opcode": in.Opcode,
			"tos":    cu.Data.TOS,
			"tos1":   cu.Data.TOS1,
			"sp":     cu.Data.SP(),
		}).Debug(cu.String())
	}
	return nil
}

// Run executes instructions until the program halts, the instruction
// limit is reached, or an error occurs. limit <= 0 means unbounded. It
// returns the accumulated output text regardless of how the run ended,
// since LimitExceeded and Halt both carry partial/complete output back
// to the caller rather than discarding it.
func (cu *ControlUnit) Run(limit int) (string, error) {
	for {
		if limit > 0 && cu.InstrCnt >= limit {
			return cu.Data.Output.String(), ErrLimitExceeded
		}
		if err := cu.Step(); err != nil {
			return cu.Data.Output.String(), err
		}
	}
}

// String renders the control unit's register file, mirroring the
// original machine's per-tick state dump.
func (cu *ControlUnit) String() string {
	return fmt.Sprintf(
		"TICK: %d PC: %d PREV_PC: %d OP: %s TOS: %d TOS1: %d SP: %d",
		cu.Ticks, cu.PC, cu.prevPC, cu.lastOp, cu.Data.TOS, cu.Data.TOS1, cu.Data.SP(),
	)
}
