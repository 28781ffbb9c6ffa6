package build

import (
	"bytes"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AkiNeko11/MyCompiler/project"
	"github.com/AkiNeko11/MyCompiler/report"
)

const squareProgram = `
program sq;
var y;
procedure f(n);
begin y := n * n end;
begin call f(6); write(y) end
`

func writeSource(t *testing.T, text string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "main.pl0")
	if err := ioutil.WriteFile(path, []byte(text), 0644); err != nil {
		t.Fatal(err)
	}

	return path
}

func silentCompiler() (*Compiler, *bytes.Buffer) {
	cfg := project.Default()
	cfg.LogLevel = report.LogLevelSilent

	c := NewCompiler(cfg)
	out := &bytes.Buffer{}
	c.SetStdio(strings.NewReader(""), out)

	return c, out
}

func TestRunExecutesProgram(t *testing.T) {
	path := writeSource(t, squareProgram)

	c, out := silentCompiler()
	if err := c.Run(path, false); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if out.String() != "36 \n" {
		t.Errorf("output = %q, want %q", out.String(), "36 \n")
	}
}

func TestRunShowPCodePrintsListing(t *testing.T) {
	path := writeSource(t, squareProgram)

	c, out := silentCompiler()
	if err := c.Run(path, true); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !strings.Contains(out.String(), "CAL 0 2") {
		t.Errorf("listing missing from output:\n%s", out.String())
	}
}

func TestRunSuppressesExecutionOnErrors(t *testing.T) {
	path := writeSource(t, `program p; begin x := 1 end`)

	c, out := silentCompiler()
	if err := c.Run(path, false); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if c.Reporter().ErrorCount() != 1 {
		t.Errorf("error count = %d, want 1", c.Reporter().ErrorCount())
	}

	if out.String() != "" {
		t.Errorf("erroneous program produced output %q", out.String())
	}
}

func TestRunMissingFile(t *testing.T) {
	c, _ := silentCompiler()
	if err := c.Run(filepath.Join(t.TempDir(), "absent.pl0"), false); err == nil {
		t.Error("Run on a missing file succeeded, want error")
	}
}

func TestBuildWritesListing(t *testing.T) {
	path := writeSource(t, squareProgram)

	c, _ := silentCompiler()
	if err := c.Build(path); err != nil {
		t.Fatalf("Build: %v", err)
	}

	buff, err := ioutil.ReadFile(strings.TrimSuffix(path, ".pl0") + ".pcode")
	if err != nil {
		t.Fatalf("listing artifact: %v", err)
	}

	if !strings.Contains(string(buff), "CAL 0 2") {
		t.Errorf("artifact missing the call:\n%s", buff)
	}
}

func TestBuildWritesLLVM(t *testing.T) {
	path := writeSource(t, squareProgram)

	cfg := project.Default()
	cfg.LogLevel = report.LogLevelSilent
	cfg.Emit = project.EmitLLVM

	c := NewCompiler(cfg)
	c.SetStdio(strings.NewReader(""), &bytes.Buffer{})

	if err := c.Build(path); err != nil {
		t.Fatalf("Build: %v", err)
	}

	buff, err := ioutil.ReadFile(strings.TrimSuffix(path, ".pl0") + ".ll")
	if err != nil {
		t.Fatalf("IR artifact: %v", err)
	}

	if !strings.Contains(string(buff), "define i32 @main()") {
		t.Errorf("artifact is not an IR module:\n%s", buff)
	}
}

func TestBuildSkipsArtifactOnErrors(t *testing.T) {
	path := writeSource(t, `program p; begin x := 1 end`)

	c, _ := silentCompiler()
	if err := c.Build(path); err != nil {
		t.Fatalf("Build: %v", err)
	}

	if _, err := ioutil.ReadFile(strings.TrimSuffix(path, ".pl0") + ".pcode"); err == nil {
		t.Error("artifact written for an erroneous compile")
	}
}

func TestLexDump(t *testing.T) {
	path := writeSource(t, `program p; begin write(1) end`)

	c, out := silentCompiler()
	if err := c.LexDump(path); err != nil {
		t.Fatalf("LexDump: %v", err)
	}

	text := out.String()
	for _, frag := range []string{"'program'", "'p'", "'write'", "'1'"} {
		if !strings.Contains(text, frag) {
			t.Errorf("token dump missing %s:\n%s", frag, text)
		}
	}
}

func TestSymbols(t *testing.T) {
	path := writeSource(t, squareProgram)

	c, out := silentCompiler()
	if err := c.Symbols(path); err != nil {
		t.Fatalf("Symbols: %v", err)
	}

	text := out.String()
	for _, frag := range []string{"sq", "f", "y", "n", "procedure", "formal"} {
		if !strings.Contains(text, frag) {
			t.Errorf("symbol dump missing %s:\n%s", frag, text)
		}
	}
}
