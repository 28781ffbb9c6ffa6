package interp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/AkiNeko11/MyCompiler/pcode"
	"github.com/AkiNeko11/MyCompiler/report"
	"github.com/AkiNeko11/MyCompiler/source"
	"github.com/AkiNeko11/MyCompiler/syntax"
)

// compile parses text and returns the emitted code and the reporter, which
// the caller inspects for error counts.
func compile(t *testing.T, text string) (*pcode.List, *report.Reporter) {
	t.Helper()

	file := source.FromString("test.pl0", text)
	rep := report.NewReporter(report.LogLevelSilent)
	rep.SetSource(file)

	_, code := syntax.NewParser(file, rep).Parse()
	return code, rep
}

// compileAndRun compiles text, requires a clean compile, and executes the
// program with the given input.
func compileAndRun(t *testing.T, text, input string) string {
	t.Helper()

	code, rep := compile(t, text)
	if rep.ErrorCount() != 0 {
		t.Fatalf("compile produced %d errors, want 0", rep.ErrorCount())
	}

	var out bytes.Buffer
	m := NewMachine(code, strings.NewReader(input), &out)
	if err := m.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	return out.String()
}

func TestCompileAndRunArithmetic(t *testing.T) {
	out := compileAndRun(t, `
program ex1;
var x;
begin
  x := 3 + 4 * 2;
  write(x)
end
`, "")

	if out != "11 \n" {
		t.Errorf("output = %q, want %q", out, "11 \n")
	}
}

func TestCompileAndRunNestedCall(t *testing.T) {
	out := compileAndRun(t, `
program sq;
var y;
procedure f(n);
begin y := n * n end;
begin call f(6); write(y) end
`, "")

	if out != "36 \n" {
		t.Errorf("output = %q, want %q", out, "36 \n")
	}
}

// A procedure nested two levels deep reads its own formal through the
// innermost display entry and the enclosing formal through the inherited one.
func TestCompileAndRunNestedProcedures(t *testing.T) {
	out := compileAndRun(t, `
program nest;
var x;
procedure outer(a);
  procedure inner(b);
  begin x := a + b end;
begin call inner(a + 1) end;
begin call outer(5); write(x) end
`, "")

	if out != "11 \n" {
		t.Errorf("output = %q, want %q", out, "11 \n")
	}
}

// A call from one procedure to its sibling builds the callee's display from
// a frame that is not the program's.
func TestCompileAndRunSiblingCall(t *testing.T) {
	out := compileAndRun(t, `
program sib;
var x;
procedure double(n);
begin x := n + n end;
procedure apply(m);
begin call double(m) end;
begin call apply(3); write(x) end
`, "")

	if out != "6 \n" {
		t.Errorf("output = %q, want %q", out, "6 \n")
	}
}

func TestCompileAndRunWhileLoop(t *testing.T) {
	out := compileAndRun(t, `
program s;
var i, s;
begin i := 1; s := 0;
  while i <= 5 do begin s := s + i; i := i + 1 end;
  write(s)
end
`, "")

	if out != "15 \n" {
		t.Errorf("output = %q, want %q", out, "15 \n")
	}
}

func TestCompileAndRunIfElse(t *testing.T) {
	out := compileAndRun(t, `
program p;
var x;
begin
  read(x);
  if odd x then write(1)
  else write(0)
end
`, "9\n")

	if out != "1 \n" {
		t.Errorf("output = %q, want %q", out, "1 \n")
	}
}

func TestCompileAndRunRecursion(t *testing.T) {
	out := compileAndRun(t, `
program fact;
var r;
procedure f(n);
begin
  if n <= 1 then r := 1
  else begin
    call f(n - 1);
    r := r * n
  end
end;
begin call f(5); write(r) end
`, "")

	if out != "120 \n" {
		t.Errorf("output = %q, want %q", out, "120 \n")
	}
}

// Identical source and identical input must produce identical output.
func TestDeterministicExecution(t *testing.T) {
	text := `
program d;
var a, b;
begin read(a); read(b); write(a * b - a, a + b) end
`
	first := compileAndRun(t, text, "4 7")
	second := compileAndRun(t, text, "4 7")

	if first != second {
		t.Errorf("outputs differ: %q vs %q", first, second)
	}
	if first != "24 11 \n" {
		t.Errorf("output = %q, want %q", first, "24 11 \n")
	}
}

// A statement whose identifier failed to resolve compiles with an error but
// still executes the rest of the program without crashing.
func TestRecoveredCodeStillRuns(t *testing.T) {
	code, rep := compile(t, `
program p;
var a;
begin
  x := 1;
  a := 2;
  write(a)
end
`)

	if rep.ErrorCount() != 1 {
		t.Fatalf("error count = %d, want 1", rep.ErrorCount())
	}

	var out bytes.Buffer
	m := NewMachine(code, strings.NewReader(""), &out)
	if err := m.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if out.String() != "2 \n" {
		t.Errorf("output = %q, want %q", out.String(), "2 \n")
	}
}
