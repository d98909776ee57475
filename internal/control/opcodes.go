package control

import "forthvm/internal/datapath"

var alu datapath.ALU

func doNOP(cu *ControlUnit, _ int) (int, error) {
	cu.PC++
	return 1, nil
}

// doLIT pushes its argument as the new TOS, shifting the register file
// down by one (ALUMux family: none; Stack family: Push).
func doLIT(cu *ControlUnit, arg int) (int, error) {
	cu.Data.Push(arg)
	cu.PC++
	return 4, nil
}

// doLOAD replaces the address on TOS with the value stored there
// (Memory family: read, address mux = TOS).
func doLOAD(cu *ControlUnit, _ int) (int, error) {
	v, err := cu.Data.ReadMemory(cu.Data.TOS)
	if err != nil {
		return 0, err
	}
	cu.Data.TOS = v
	cu.PC++
	return 2, nil
}

// doSTORE writes TOS1 to the address on TOS (( value addr -- )) and
// drops both operands (Memory family: write; Stack family: Drop, Drop).
func doSTORE(cu *ControlUnit, _ int) (int, error) {
	if err := cu.Data.WriteMemory(cu.Data.TOS, cu.Data.TOS1); err != nil {
		return 0, err
	}
	cu.Data.Drop()
	cu.Data.Drop()
	cu.PC++
	return 5, nil
}

// doDUP duplicates TOS onto the top of the register file.
func doDUP(cu *ControlUnit, _ int) (int, error) {
	cu.Data.Push(cu.Data.TOS)
	cu.PC++
	return 3, nil
}

// doOVER duplicates TOS1 onto the top of the register file.
func doOVER(cu *ControlUnit, _ int) (int, error) {
	cu.Data.Push(cu.Data.TOS1)
	cu.PC++
	return 3, nil
}

// binaryOp is the shared shape of ADD/SUB/AND/OR: combine TOS1 (ALU
// left) and TOS (ALU right), latch the result as the new TOS, then
// Drop to bring the next cell up into TOS1.
func binaryOp(cu *ControlUnit, op datapath.ALUOp) (int, error) {
	result := alu.Compute(op, cu.Data.TOS1, cu.Data.TOS)
	cu.Data.Collapse(result)
	cu.PC++
	return 3, nil
}

func doADD(cu *ControlUnit, _ int) (int, error) { return binaryOp(cu, datapath.OpAdd) }
func doSUB(cu *ControlUnit, _ int) (int, error) { return binaryOp(cu, datapath.OpSub) }
func doAND(cu *ControlUnit, _ int) (int, error) { return binaryOp(cu, datapath.OpAnd) }
func doOR(cu *ControlUnit, _ int) (int, error)  { return binaryOp(cu, datapath.OpOr) }

// unaryOp is the shared shape of INV/NEG/ISNEG: recompute TOS in place
// from the ALU's right input, leaving stack depth unchanged.
func unaryOp(cu *ControlUnit, op datapath.ALUOp) (int, error) {
	cu.Data.TOS = alu.Compute(op, 0, cu.Data.TOS)
	cu.PC++
	return 1, nil
}

func doINV(cu *ControlUnit, _ int) (int, error)   { return unaryOp(cu, datapath.OpInvert) }
func doNEG(cu *ControlUnit, _ int) (int, error)   { return unaryOp(cu, datapath.OpNeg) }
func doISNEG(cu *ControlUnit, _ int) (int, error) { return unaryOp(cu, datapath.OpIsNeg) }

// doJMP is an unconditional PC latch (PC control family: Jump).
func doJMP(cu *ControlUnit, arg int) (int, error) {
	cu.PC = arg
	return 1, nil
}

// doJNZ drops the flag on TOS and jumps only if it was non-zero (PC
// control family: JumpIfNonZero; Stack family: Drop).
func doJNZ(cu *ControlUnit, arg int) (int, error) {
	flag := cu.Data.TOS
	cu.Data.Drop()
	if flag != 0 {
		cu.PC = arg
	} else {
		cu.PC++
	}
	return 3, nil
}

// doCALL pushes the return address and jumps (Return-stack family:
// Push; PC control family: Jump).
func doCALL(cu *ControlUnit, arg int) (int, error) {
	cu.pushReturn(cu.PC + 1)
	cu.PC = arg
	return 1, nil
}

// doRET pops the return address back into PC (Return-stack family: Pop).
func doRET(cu *ControlUnit, _ int) (int, error) {
	addr, err := cu.popReturn()
	if err != nil {
		return 0, err
	}
	cu.PC = addr
	return 2, nil
}
