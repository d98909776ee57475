package translator

import (
	"forthvm/internal/datapath"
	"forthvm/isa"
)

type callPatch struct {
	idx  int
	name string
}

// compiler accumulates the flat instruction list that becomes the
// image's code segment. Function bodies are emitted first (so CALL can
// use a plain linear forward/backward patch), then the main program,
// then a single HALT; instruction 0 is a JMP over the function bodies
// to wherever the main program actually starts.
type compiler struct {
	vars      map[string]int
	funcNames map[string]bool
	funcEntry map[string]int

	code    []isa.Instruction
	patches []callPatch

	lastVarAddr  int
	lastVarValid bool
}

func (c *compiler) emit(in isa.Instruction) {
	c.code = append(c.code, in)
}

// compile lays out functions, then main, resolves call targets, and
// patches the leading JMP, producing the finished image. dataSize is the
// number of data-memory cells the program's reserved MMIO ports and
// declared variables span; the image's data segment is sized to match so
// a loader can size DataPath.Memory from len(Image.Data) instead of
// guessing.
func compile(vars map[string]int, dataSize int, functions []funcDef, main []token) (*isa.Image, error) {
	funcNames := make(map[string]bool, len(functions))
	for _, f := range functions {
		if funcNames[f.name] {
			return nil, srcErr(0, "function %q redefined", f.name)
		}
		funcNames[f.name] = true
	}

	c := &compiler{
		vars:      vars,
		funcNames: funcNames,
		funcEntry: make(map[string]int, len(functions)),
	}

	c.emit(isa.NewInstruction(isa.JMP, 0)) // patched once mainEntry is known

	for _, f := range functions {
		c.funcEntry[f.name] = len(c.code)
		if err := c.compileTokens(f.body); err != nil {
			return nil, err
		}
		c.emit(isa.NewBareInstruction(isa.RET))
	}

	mainEntry := len(c.code)
	if err := c.compileTokens(main); err != nil {
		return nil, err
	}
	c.emit(isa.NewBareInstruction(isa.HALT))

	c.code[0] = isa.NewInstruction(isa.JMP, mainEntry)

	for _, p := range c.patches {
		addr, ok := c.funcEntry[p.name]
		if !ok {
			return nil, srcErr(0, "call to undefined function %q", p.name)
		}
		c.code[p.idx] = isa.NewInstruction(isa.CALL, addr)
	}

	data := make([]isa.DataCell, dataSize)
	for i := range data {
		data[i] = isa.Int(0)
	}

	return &isa.Image{Data: data, Code: c.code}, nil
}

// compileTokens emits code for one token stream (a function body or
// the main program), tracking if/then and begin/until nesting with
// simple patch stacks local to this call.
func (c *compiler) compileTokens(toks []token) error {
	var ifStack []int
	var loopStack []int

	for _, t := range toks {
		switch t.kind {
		case tokNumber:
			c.emit(isa.NewInstruction(isa.LIT, t.num))
			c.lastVarValid = false
			continue
		case tokString:
			for _, ch := range t.text {
				c.emit(isa.NewInstruction(isa.LIT, int(ch)))
				c.emit(isa.NewInstruction(isa.LIT, datapath.PortCharOut))
				c.emit(isa.NewBareInstruction(isa.STORE))
			}
			c.lastVarValid = false
			continue
		}

		switch t.text {
		case "if":
			c.emit(isa.NewBareInstruction(isa.INV))
			ifStack = append(ifStack, len(c.code))
			c.emit(isa.NewInstruction(isa.JNZ, 0))
			c.lastVarValid = false

		case "then":
			if len(ifStack) == 0 {
				return srcErr(t.line, "'then' without matching 'if'")
			}
			idx := ifStack[len(ifStack)-1]
			ifStack = ifStack[:len(ifStack)-1]
			c.code[idx] = isa.NewInstruction(isa.JNZ, len(c.code))
			c.lastVarValid = false

		case "begin":
			loopStack = append(loopStack, len(c.code))
			c.lastVarValid = false

		case "until":
			if len(loopStack) == 0 {
				return srcErr(t.line, "'until' without matching 'begin'")
			}
			target := loopStack[len(loopStack)-1]
			loopStack = loopStack[:len(loopStack)-1]
			c.emit(isa.NewBareInstruction(isa.INV))
			c.emit(isa.NewInstruction(isa.JNZ, target))
			c.lastVarValid = false

		case "+!":
			if !c.lastVarValid {
				return srcErr(t.line, "'+!' must immediately follow a variable name")
			}
			c.emit(isa.NewBareInstruction(isa.LOAD))
			c.emit(isa.NewBareInstruction(isa.ADD))
			c.emit(isa.NewInstruction(isa.LIT, c.lastVarAddr))
			c.emit(isa.NewBareInstruction(isa.STORE))
			c.lastVarValid = false

		default:
			if addr, ok := c.vars[t.text]; ok {
				c.emit(isa.NewInstruction(isa.LIT, addr))
				c.lastVarAddr = addr
				c.lastVarValid = true
				continue
			}
			if instrs, ok := primitive[t.text]; ok {
				for _, in := range instrs {
					c.emit(in)
				}
				c.lastVarValid = false
				continue
			}
			if c.funcNames[t.text] {
				c.patches = append(c.patches, callPatch{idx: len(c.code), name: t.text})
				c.emit(isa.NewInstruction(isa.CALL, 0))
				c.lastVarValid = false
				continue
			}
			return srcErr(t.line, "unknown word %q", t.text)
		}
	}
	return nil
}
