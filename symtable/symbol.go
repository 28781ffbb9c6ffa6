package symtable

// Kind classifies a symbol table entry.
type Kind int

const (
	KindProgram Kind = iota
	KindProcedure
	KindVariable
	KindConstant
	KindFormal
)

var kindNames = [...]string{"program", "procedure", "variable", "constant", "formal"}

// Name returns the kind's display name.
func (k Kind) Name() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}

	return kindNames[k]
}

// IsProc reports whether the kind belongs to the procedure name space.
// Procedures and non-procedures never collide: a variable and a procedure may
// share a name in the same scope.
func (k Kind) IsProc() bool {
	return k == KindProgram || k == KindProcedure
}

// Entry is one symbol table record.  Entries are stored in a contiguous
// slice and referenced by index; Prev links to the previously declared entry
// of the same scope, with 0 terminating the chain.
type Entry struct {
	Name  string
	Kind  Kind
	Level int

	// Offset is the byte offset of a variable or formal within its frame's
	// local area.  For a procedure it holds the total local-area width once
	// SetWidth has run.
	Offset int

	// Entry is the code address of a procedure's prologue.
	Entry int

	// Value is the numeric payload of a constant.
	Value int

	// IsDefined marks a procedure whose prologue address has been recorded.
	IsDefined bool

	// Formals holds the table indices of a procedure's formal parameters in
	// declaration order.
	Formals []int

	// Prev is the index of the previous entry declared in the same scope.
	Prev int
}
