// Package ir holds the per-method instruction list filled during code
// generation. An instruction is either raw assembly text emitted verbatim or
// a call resolved to a concrete invoke directive at emission time.
package ir

// FuncRef is an opaque reference to a function symbol in the symbol arena.
type FuncRef uint32

// NoFuncRef marks the absence of a callee.
const NoFuncRef FuncRef = 0

// Instruction is one stack-machine instruction. When Call is set the
// instruction is a call placeholder; otherwise Text is emitted as-is.
type Instruction struct {
	Text string
	Call FuncRef
}

// Raw builds a verbatim instruction.
func Raw(text string) Instruction {
	return Instruction{Text: text}
}

// CallTo builds a call placeholder for the given function.
func CallTo(fn FuncRef) Instruction {
	return Instruction{Call: fn}
}

// IsCall reports whether the instruction is a call placeholder.
func (in Instruction) IsCall() bool {
	return in.Call != NoFuncRef
}
