// Package listing renders a translated program image back into
// readable text, one mnemonic per line, the way a disassembler turns
// machine code back into assembly. Unlike a disassembler it never has
// to guess instruction boundaries: the image already carries a typed
// instruction stream, so this package only has to format it and
// resolve jump targets into readable labels.
package listing

import (
	"fmt"
	"strings"

	"forthvm/isa"
)

// Format renders every instruction in img's code segment as one line:
// its address, its opcode, and (for instructions that take one) its
// argument. Jump/call targets that land on another instruction in this
// same image are annotated with a label giving that address and the
// opcode there, the way the teacher's disassembler resolves branch targets into
// loc_/sub_-style labels instead of bare offsets.
func Format(img *isa.Image) string {
	var b strings.Builder
	for addr, in := range img.Code {
		fmt.Fprintf(&b, "%04d  %-6s", addr, string(in.Opcode))
		if in.Arg != nil {
			fmt.Fprintf(&b, " %d", *in.Arg)
			if isJumpLike(in.Opcode) && *in.Arg >= 0 && *in.Arg < len(img.Code) {
				fmt.Fprintf(&b, "  -> %s", targetLabel(img, *in.Arg))
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func isJumpLike(op isa.Opcode) bool {
	switch op {
	case isa.JMP, isa.JNZ, isa.CALL:
		return true
	default:
		return false
	}
}

// targetLabel names a jump target after the opcode sitting there,
// e.g. "0012:dup", mirroring the teacher's loc_XXXX/sub_XXXX naming
// without needing a separate symbol table (this image has no names).
func targetLabel(img *isa.Image, addr int) string {
	return fmt.Sprintf("%04d:%s", addr, img.Code[addr].Opcode)
}
