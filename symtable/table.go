package symtable

import (
	"github.com/AkiNeko11/MyCompiler/common"
	"github.com/AkiNeko11/MyCompiler/report"
)

// Table is the nested symbol table of one compilation.  All entries live in
// one slice for the whole compile; leaving a scope hides its entries by
// popping the display, it never deletes them.
//
// display[L] indexes the most recently declared entry at lexical level L, the
// tail of that level's Prev chain.  Index 0 is reserved for the program entry
// and doubles as the chain terminator, so walks never match it.
type Table struct {
	entries []Entry
	display []int
	level   int

	// cursor is the byte offset of the next local to allocate in the scope
	// currently being declared.
	cursor int

	rep *report.Reporter
}

// NewTable creates an empty table reporting declaration conflicts to rep.
func NewTable(rep *report.Reporter) *Table {
	return &Table{
		entries: make([]Entry, 1),
		display: []int{0},
		rep:     rep,
	}
}

// EnterProgram records the program entry at the reserved index 0.
func (t *Table) EnterProgram(name string) {
	t.entries[0] = Entry{Name: name, Kind: KindProgram}
}

// EnterScope opens a nested scope, growing the display by one level.
func (t *Table) EnterScope() {
	t.level++
	t.display = append(t.display, 0)
}

// LeaveScope closes the current scope.  Its entries stay in the table but
// become unreachable through the display.
func (t *Table) LeaveScope() {
	t.display = t.display[:len(t.display)-1]
	t.level--
}

// Level returns the current lexical depth; 0 is the program level.
func (t *Table) Level() int {
	return t.level
}

// Alloc hands out the next local-area byte offset of the scope being
// declared and advances the cursor by one unit.
func (t *Table) Alloc() int {
	off := t.cursor
	t.cursor += common.UnitSize
	return off
}

// Width returns the byte width allocated so far in the scope being declared.
func (t *Table) Width() int {
	return t.cursor
}

// Insert declares a new symbol at the current level and returns its index.
// A conflicting declaration in the same scope and name space is reported as
// an error and leaves the table unchanged; the second return is false.  prev
// and cur are the lexer positions the conflict diagnostic anchors to.
func (t *Table) Insert(name string, offset int, kind Kind, prev, cur report.Position) (int, bool) {
	for i := t.display[t.level]; i != 0; i = t.entries[i].Prev {
		if t.entries[i].Name == name && t.entries[i].Kind.IsProc() == kind.IsProc() {
			if kind.IsProc() {
				t.rep.Error(report.RedeclaredProc, prev, cur, name)
			} else {
				t.rep.Error(report.RedeclaredIdent, prev, cur, name)
			}

			return 0, false
		}
	}

	idx := len(t.entries)
	t.entries = append(t.entries, Entry{
		Name:   name,
		Kind:   kind,
		Level:  t.level,
		Offset: offset,
		Prev:   t.display[t.level],
	})
	t.display[t.level] = idx

	return idx, true
}

// Lookup resolves name from the innermost scope outward.  proc selects the
// procedure name space; variables, constants, and formals share the other.
func (t *Table) Lookup(name string, proc bool) (int, bool) {
	for lvl := t.level; lvl >= 0; lvl-- {
		for i := t.display[lvl]; i != 0; i = t.entries[i].Prev {
			if t.entries[i].Name == name && t.entries[i].Kind.IsProc() == proc {
				return i, true
			}
		}
	}

	return 0, false
}

// SetWidth records the total local-area byte width on the owning procedure
// (or program) entry and resets the allocation cursor for the next scope.
// A negative idx (a procedure whose declaration failed) still resets the
// cursor so sibling scopes allocate from zero.
func (t *Table) SetWidth(idx, width int) {
	if idx >= 0 {
		t.entries[idx].Offset = width
	}

	t.cursor = 0
}

// SetEntry records the code address of a procedure's prologue and marks the
// procedure defined.  A negative idx is ignored.
func (t *Table) SetEntry(idx, addr int) {
	if idx < 0 {
		return
	}

	t.entries[idx].Entry = addr
	t.entries[idx].IsDefined = true
}

// SetValue records a constant's numeric payload.
func (t *Table) SetValue(idx, value int) {
	t.entries[idx].Value = value
}

// AddFormal appends a formal parameter to a procedure's parameter list.
func (t *Table) AddFormal(procIdx, formalIdx int) {
	t.entries[procIdx].Formals = append(t.entries[procIdx].Formals, formalIdx)
}

// Get returns the entry at idx.
func (t *Table) Get(idx int) Entry {
	return t.entries[idx]
}

// Entries returns every entry declared during the compilation, the reserved
// program entry first.
func (t *Table) Entries() []Entry {
	return t.entries
}
