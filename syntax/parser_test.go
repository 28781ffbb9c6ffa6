package syntax

import (
	"bytes"
	"strings"
	"testing"

	"github.com/AkiNeko11/MyCompiler/pcode"
	"github.com/AkiNeko11/MyCompiler/report"
	"github.com/AkiNeko11/MyCompiler/source"
	"github.com/AkiNeko11/MyCompiler/symtable"
)

// parseText compiles text with a reporter rendering into diags so tests can
// assert on both the emitted code and the diagnostic stream.
func parseText(text string) (*symtable.Table, *pcode.List, *report.Reporter, *bytes.Buffer) {
	file := source.FromString("test.pl0", text)

	diags := &bytes.Buffer{}
	rep := report.NewReporter(report.LogLevelError)
	rep.SetOutput(diags)
	rep.SetSource(file)

	tbl, code := NewParser(file, rep).Parse()
	return tbl, code, rep, diags
}

func listing(code *pcode.List) string {
	var buff bytes.Buffer
	code.WriteListing(&buff)
	return buff.String()
}

func TestParseArithmeticProgram(t *testing.T) {
	_, code, rep, _ := parseText(`
program ex1;
var x;
begin
  x := 3 + 4 * 2;
  write(x)
end
`)

	if rep.ErrorCount() != 0 {
		t.Fatalf("error count = %d, want 0", rep.ErrorCount())
	}

	want := `   0 JMP 0 1
   1 INT 0 5
   2 LIT 0 3
   3 LIT 0 4
   4 LIT 0 2
   5 OPR 0 4
   6 OPR 0 2
   7 STO 0 4
   8 LOD 0 4
   9 WRT 0 0
  10 OPR 0 13
  11 OPR 0 0
`
	if got := listing(code); got != want {
		t.Errorf("code listing:\n%swant:\n%s", got, want)
	}
}

func TestParseProcedureWithParameter(t *testing.T) {
	tbl, code, rep, _ := parseText(`
program sq;
var y;
procedure f(n);
begin y := n * n end;
begin call f(6); write(y) end
`)

	if rep.ErrorCount() != 0 {
		t.Fatalf("error count = %d, want 0", rep.ErrorCount())
	}

	want := `   0 JMP 0 8
   1 JMP 0 2
   2 INT 0 6
   3 LOD 1 5
   4 LOD 1 5
   5 OPR 0 4
   6 STO 0 4
   7 OPR 0 0
   8 INT 0 5
   9 LIT 0 6
  10 STO -1 5
  11 CAL 0 2
  12 LOD 0 4
  13 WRT 0 0
  14 OPR 0 13
  15 OPR 0 0
`
	if got := listing(code); got != want {
		t.Errorf("code listing:\n%swant:\n%s", got, want)
	}

	idx, ok := tbl.Lookup("f", true)
	if !ok {
		t.Fatal("procedure f not in the table")
	}

	f := tbl.Get(idx)
	if !f.IsDefined || f.Entry != 2 || len(f.Formals) != 1 {
		t.Errorf("procedure entry = %+v, want defined at 2 with one formal", f)
	}
}

func TestConstantAssignmentRejected(t *testing.T) {
	_, code, rep, diags := parseText(`
program ex2;
const c := 5;
begin c := 6 end
`)

	if rep.ErrorCount() != 1 {
		t.Fatalf("error count = %d, want 1", rep.ErrorCount())
	}

	if !strings.Contains(diags.String(), "expression is not assignable") {
		t.Errorf("diagnostics missing the assignability message:\n%s", diags.String())
	}

	for _, ins := range code.Instructions() {
		if ins.Op == pcode.Sto {
			t.Error("a store was emitted for an assignment to a constant")
		}
	}
}

func TestMissingAssignRecovered(t *testing.T) {
	_, code, rep, diags := parseText(`program p; var a; begin a 5 end`)

	if rep.ErrorCount() != 1 {
		t.Fatalf("error count = %d, want 1", rep.ErrorCount())
	}

	if !strings.Contains(diags.String(), "missing :=") {
		t.Errorf("diagnostics missing the := message:\n%s", diags.String())
	}

	// recovery still generates the assignment
	stores := 0
	for _, ins := range code.Instructions() {
		if ins.Op == pcode.Sto {
			stores++
		}
	}

	if stores != 1 {
		t.Errorf("emitted %d stores, want 1", stores)
	}
}

func TestUndeclaredIdentifier(t *testing.T) {
	_, code, rep, diags := parseText(`program p; begin x := 1 end`)

	if rep.ErrorCount() != 1 {
		t.Fatalf("error count = %d, want 1", rep.ErrorCount())
	}

	if !strings.Contains(diags.String(), "use of undeclared identifier 'x'") {
		t.Errorf("diagnostics missing the undeclared message:\n%s", diags.String())
	}

	for _, ins := range code.Instructions() {
		if ins.Op == pcode.Sto {
			t.Error("a store was emitted for an unresolved assignment target")
		}
	}
}

func TestUndeclaredProcedure(t *testing.T) {
	_, code, rep, diags := parseText(`program p; begin call g() end`)

	if rep.ErrorCount() != 1 {
		t.Fatalf("error count = %d, want 1", rep.ErrorCount())
	}

	if !strings.Contains(diags.String(), "use of undeclared procedure 'g'") {
		t.Errorf("diagnostics missing the undeclared message:\n%s", diags.String())
	}

	for _, ins := range code.Instructions() {
		if ins.Op == pcode.Cal {
			t.Error("a call was emitted for an unresolved procedure")
		}
	}
}

func TestArgumentCountMismatch(t *testing.T) {
	_, _, rep, diags := parseText(`
program p;
procedure f(n);
begin n := 0 end;
begin call f(1, 2) end
`)

	if rep.ErrorCount() != 1 {
		t.Fatalf("error count = %d, want 1", rep.ErrorCount())
	}

	if !strings.Contains(diags.String(), "argument count mismatch") {
		t.Errorf("diagnostics missing the arity message:\n%s", diags.String())
	}
}

func TestRedeclarationReported(t *testing.T) {
	_, _, rep, diags := parseText(`program p; var x, x; begin x := 1 end`)

	if rep.ErrorCount() != 1 {
		t.Fatalf("error count = %d, want 1", rep.ErrorCount())
	}

	if !strings.Contains(diags.String(), "redeclaration of 'x'") {
		t.Errorf("diagnostics missing the redeclaration message:\n%s", diags.String())
	}
}

func TestEqualForAssignRepaired(t *testing.T) {
	_, code, rep, diags := parseText(`program p; var a; begin a = 2 end`)

	if rep.ErrorCount() != 1 {
		t.Fatalf("error count = %d, want 1", rep.ErrorCount())
	}

	if !strings.Contains(diags.String(), "expected :=, but found =") {
		t.Errorf("diagnostics missing the repair message:\n%s", diags.String())
	}

	// the = is consumed as := and the assignment compiles
	stores := 0
	for _, ins := range code.Instructions() {
		if ins.Op == pcode.Sto {
			stores++
		}
	}

	if stores != 1 {
		t.Errorf("emitted %d stores, want 1", stores)
	}
}

func TestLateDeclarationReported(t *testing.T) {
	_, _, rep, diags := parseText(`
program p;
var a;
const c := 1;
begin a := c end
`)

	if rep.ErrorCount() != 1 {
		t.Fatalf("error count = %d, want 1", rep.ErrorCount())
	}

	if !strings.Contains(diags.String(), "invalid const") {
		t.Errorf("diagnostics missing the declaration order message:\n%s", diags.String())
	}
}

func TestRedundantTrailingTokens(t *testing.T) {
	_, _, rep, diags := parseText(`program p; var a; begin a := 1 end extra`)

	if rep.ErrorCount() != 1 {
		t.Fatalf("error count = %d, want 1", rep.ErrorCount())
	}

	if !strings.Contains(diags.String(), "extraneous") {
		t.Errorf("diagnostics missing the extraneous message:\n%s", diags.String())
	}
}

func TestUnexpectedTokenInStatementPosition(t *testing.T) {
	_, _, rep, diags := parseText(`program p; var a; begin a := 1; + end`)

	if rep.ErrorCount() != 1 {
		t.Fatalf("error count = %d, want 1", rep.ErrorCount())
	}

	if !strings.Contains(diags.String(), "unexpected token '+'") {
		t.Errorf("diagnostics missing the unexpected token message:\n%s", diags.String())
	}
}

func TestConditionWithoutRelationalOperator(t *testing.T) {
	_, _, rep, diags := parseText(`program p; var a; begin if a then a := 2 end`)

	if rep.ErrorCount() != 1 {
		t.Fatalf("error count = %d, want 1", rep.ErrorCount())
	}

	if !strings.Contains(diags.String(), "invalid condition; expected relational operator") {
		t.Errorf("diagnostics missing the condition message:\n%s", diags.String())
	}
}

// A clean compile leaves no jump with an unpatched zero target.
func TestNoUnpatchedJumps(t *testing.T) {
	_, code, rep, _ := parseText(`
program s;
var i, s;
begin i := 1; s := 0;
  while i <= 5 do begin s := s + i; i := i + 1 end;
  if s > 10 then write(s) else write(0)
end
`)

	if rep.ErrorCount() != 0 {
		t.Fatalf("error count = %d, want 0", rep.ErrorCount())
	}

	for addr, ins := range code.Instructions() {
		if (ins.Op == pcode.Jmp || ins.Op == pcode.Jpc) && ins.A == 0 {
			t.Errorf("jump at address %d retains its placeholder target", addr)
		}
	}
}

func TestConstantFactorUsesValue(t *testing.T) {
	_, code, rep, _ := parseText(`
program p;
const c := 7;
var a;
begin a := c + 1 end
`)

	if rep.ErrorCount() != 0 {
		t.Fatalf("error count = %d, want 0", rep.ErrorCount())
	}

	// the constant loads as an immediate, never from the stack
	sawLit7 := false
	for _, ins := range code.Instructions() {
		if ins.Op == pcode.Lod {
			t.Errorf("LOD emitted for a constant reference: %+v", ins)
		}

		if ins.Op == pcode.Lit && ins.A == 7 {
			sawLit7 = true
		}
	}

	if !sawLit7 {
		t.Error("no LIT 7 emitted for the constant reference")
	}
}

// A constant reference carries the declarer's level on the LIT, matching the
// listing format of loads and stores.
func TestConstantCarriesDeclarationLevel(t *testing.T) {
	_, code, rep, _ := parseText(`
program p;
procedure q();
const c := 7;
begin write(c) end;
begin call q() end
`)

	if rep.ErrorCount() != 0 {
		t.Fatalf("error count = %d, want 0", rep.ErrorCount())
	}

	found := false
	for _, ins := range code.Instructions() {
		if ins.Op == pcode.Lit && ins.A == 7 {
			found = true

			if ins.L != 1 {
				t.Errorf("constant LIT level = %d, want 1", ins.L)
			}
		}
	}

	if !found {
		t.Error("no LIT emitted for the constant reference")
	}
}
