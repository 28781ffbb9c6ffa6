package pcode

// Op is a P-code operation.
type Op int

const (
	Lit Op = iota // push the immediate a
	Opr           // arithmetic/logic operation selected by a
	Lod           // push the variable at display slot L, offset a
	Sto           // pop into the variable at display slot L, offset a
	Cal           // call the procedure at address a, declared at level L
	Int           // allocate a stack slots for the current frame
	Jmp           // jump to address a
	Jpc           // pop; jump to address a when zero
	Red           // read an integer from input and push it
	Wrt           // pop and print
)

var opNames = [...]string{"LIT", "OPR", "LOD", "STO", "CAL", "INT", "JMP", "JPC", "RED", "WRT"}

// Name returns the uppercase mnemonic of the operation.
func (op Op) Name() string {
	if op < 0 || int(op) >= len(opNames) {
		return "???"
	}

	return opNames[op]
}

// OPR sub-codes, stored in the a field of an Opr instruction.
const (
	OprRet = iota
	OprNeg
	OprAdd
	OprSub
	OprMul
	OprDiv
	OprOdd
	OprEql
	OprNeq
	OprLss
	OprGeq
	OprGrt
	OprLeq
	OprPrintln
)

// Instr is one P-code instruction.  L is a lexical level for Lod, Sto, and
// Cal; a is an immediate, an operator sub-code, a code address, or a stack
// slot offset depending on the operation.
type Instr struct {
	Op Op
	L  int
	A  int
}

// List is a growable, append-only P-code buffer.  Instructions are addressed
// by index; forward jumps are emitted with a placeholder target and rewritten
// by Backpatch once the target address is known.
type List struct {
	code []Instr
}

// NewList creates an empty code buffer.
func NewList() *List {
	return &List{}
}

// Emit appends an instruction and returns its address.
func (l *List) Emit(op Op, level, a int) int {
	l.code = append(l.code, Instr{Op: op, L: level, A: a})
	return len(l.code) - 1
}

// Backpatch rewrites the a field of the instruction at addr to target.  A
// negative or out-of-range addr is ignored so error paths can hand in a
// sentinel without checking.
func (l *List) Backpatch(addr, target int) {
	if addr < 0 || addr >= len(l.code) {
		return
	}

	l.code[addr].A = target
}

// Len returns the number of emitted instructions.
func (l *List) Len() int {
	return len(l.code)
}

// At returns the instruction at addr.
func (l *List) At(addr int) Instr {
	return l.code[addr]
}

// Instructions returns the underlying instruction slice.  The interpreter and
// the IR generator walk it directly; callers must not modify it.
func (l *List) Instructions() []Instr {
	return l.code
}
