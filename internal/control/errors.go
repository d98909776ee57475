package control

import "errors"

// ErrHalt is returned by Run when the program executed a HALT
// instruction. It is the normal, successful end of a run: callers
// check for it with errors.Is rather than treating it as a failure.
var ErrHalt = errors.New("control: halt")

// ErrLimitExceeded is returned by Run when the instruction limit passed
// to it is reached before the program halts on its own. The caller
// still gets back whatever state and output had accumulated so far.
var ErrLimitExceeded = errors.New("control: instruction limit exceeded")

// ErrALUInput is raised if a microstep calls for an ALU input that was
// never wired up. Reaching this is a bug in the microprogram ROM, not
// in any translated program: the ROM always supplies both operands for
// every ALU-driven opcode.
var ErrALUInput = errors.New("control: ALU input not latched")
