package control

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"forthvm/internal/datapath"
	"forthvm/isa"
)

func run(t *testing.T, code []isa.Instruction, input string) *ControlUnit {
	t.Helper()
	img := &isa.Image{Data: make([]isa.DataCell, 8), Code: code}
	dp := datapath.New(8, input)
	cu := New(img, dp)
	_, err := cu.Run(0)
	require.True(t, errors.Is(err, ErrHalt))
	return cu
}

func TestLitThenHaltLeavesValueOnTop(t *testing.T) {
	cu := run(t, []isa.Instruction{
		isa.NewInstruction(isa.LIT, 7),
		isa.NewBareInstruction(isa.HALT),
	}, "")
	require.Equal(t, 7, cu.Data.TOS)
}

func TestAddIsStackDepthNegativeOne(t *testing.T) {
	cu := run(t, []isa.Instruction{
		isa.NewInstruction(isa.LIT, 3),
		isa.NewInstruction(isa.LIT, 4),
		isa.NewBareInstruction(isa.ADD),
		isa.NewBareInstruction(isa.HALT),
	}, "")
	require.Equal(t, 7, cu.Data.TOS)
	// SP starts at 1; two LITs raise it to 3 and ADD lowers it by one.
	require.Equal(t, 2, cu.Data.SP())
}

func TestDupDuplicatesTop(t *testing.T) {
	cu := run(t, []isa.Instruction{
		isa.NewInstruction(isa.LIT, 9),
		isa.NewBareInstruction(isa.DUP),
		isa.NewBareInstruction(isa.HALT),
	}, "")
	require.Equal(t, 9, cu.Data.TOS)
	require.Equal(t, 9, cu.Data.TOS1)
}

func TestOverDuplicatesSecondItem(t *testing.T) {
	cu := run(t, []isa.Instruction{
		isa.NewInstruction(isa.LIT, 1),
		isa.NewInstruction(isa.LIT, 2),
		isa.NewBareInstruction(isa.OVER),
		isa.NewBareInstruction(isa.HALT),
	}, "")
	require.Equal(t, 1, cu.Data.TOS)
	require.Equal(t, 2, cu.Data.TOS1)
}

func TestStoreLoadRoundTrip(t *testing.T) {
	const addr = 3
	cu := run(t, []isa.Instruction{
		isa.NewInstruction(isa.LIT, 123),
		isa.NewInstruction(isa.LIT, addr),
		isa.NewBareInstruction(isa.STORE),
		isa.NewInstruction(isa.LIT, addr),
		isa.NewBareInstruction(isa.LOAD),
		isa.NewBareInstruction(isa.HALT),
	}, "")
	require.Equal(t, 123, cu.Data.TOS)
}

// A hand-assembled countdown loop that jumps back while the counter is
// non-zero: prints 3, 2, 1, then falls through once the flag reaches 0.
func TestJNZLoopControlFlow(t *testing.T) {
	cu := run(t, []isa.Instruction{
		isa.NewInstruction(isa.LIT, 3), // 0: push counter
		isa.NewBareInstruction(isa.DUP),           // 1: loop head
		isa.NewInstruction(isa.LIT, datapath.PortIntOut), // 2
		isa.NewBareInstruction(isa.STORE),         // 3: print the counter
		isa.NewInstruction(isa.LIT, 1),            // 4
		isa.NewBareInstruction(isa.SUB),           // 5: counter -= 1
		isa.NewBareInstruction(isa.DUP),           // 6: duplicate for the test
		isa.NewInstruction(isa.JNZ, 1),            // 7: loop while nonzero
		isa.NewBareInstruction(isa.HALT),          // 8
	}, "")
	require.Equal(t, "321", cu.Data.Output.String())
	require.Equal(t, 0, cu.Data.TOS)
}

func TestCallReturnsToCallSite(t *testing.T) {
	cu := run(t, []isa.Instruction{
		isa.NewInstruction(isa.CALL, 3), // 0: call the function at 3
		isa.NewBareInstruction(isa.HALT), // 1: returns here
		isa.NewBareInstruction(isa.NOP),  // 2: never reached directly
		isa.NewInstruction(isa.LIT, 55),  // 3: function body
		isa.NewBareInstruction(isa.RET),  // 4
	}, "")
	require.Equal(t, 55, cu.Data.TOS)
}

func TestInputExhaustedReturnsZero(t *testing.T) {
	cu := run(t, []isa.Instruction{
		isa.NewInstruction(isa.LIT, datapath.PortIn),
		isa.NewBareInstruction(isa.LOAD),
		isa.NewBareInstruction(isa.HALT),
	}, "")
	require.Equal(t, 0, cu.Data.TOS)
}

func TestTickCountIsDeterministic(t *testing.T) {
	code := []isa.Instruction{
		isa.NewInstruction(isa.LIT, 1),
		isa.NewInstruction(isa.LIT, 2),
		isa.NewBareInstruction(isa.ADD),
		isa.NewBareInstruction(isa.HALT),
	}
	cu1 := run(t, code, "")
	cu2 := run(t, code, "")
	require.Equal(t, cu1.Ticks, cu2.Ticks)
	require.Equal(t, cu1.InstrCnt, cu2.InstrCnt)
}
