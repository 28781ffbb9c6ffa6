package build

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/AkiNeko11/MyCompiler/generate"
	"github.com/AkiNeko11/MyCompiler/interp"
	"github.com/AkiNeko11/MyCompiler/pcode"
	"github.com/AkiNeko11/MyCompiler/project"
	"github.com/AkiNeko11/MyCompiler/report"
	"github.com/AkiNeko11/MyCompiler/source"
	"github.com/AkiNeko11/MyCompiler/symtable"
	"github.com/AkiNeko11/MyCompiler/syntax"
)

// Compiler is the data structure responsible for maintaining all high-level
// state of one compiler invocation: the project configuration, the
// diagnostic reporter, and the standard streams the compiled program runs
// against.
type Compiler struct {
	cfg *project.Config
	rep *report.Reporter

	in  io.Reader
	out io.Writer
}

// NewCompiler creates a compiler for the given project configuration,
// wired to the process's standard streams.
func NewCompiler(cfg *project.Config) *Compiler {
	return &Compiler{
		cfg: cfg,
		rep: report.NewReporter(cfg.LogLevel),
		in:  os.Stdin,
		out: os.Stdout,
	}
}

// SetStdio redirects the compiler's input and output streams, mainly for
// tests.  Diagnostics follow the output stream.
func (c *Compiler) SetStdio(in io.Reader, out io.Writer) {
	c.in = in
	c.out = out
	c.rep.SetOutput(out)
}

// Reporter returns the compiler's diagnostic reporter.
func (c *Compiler) Reporter() *report.Reporter {
	return c.rep
}

// Compile parses and compiles the source file at path, returning the symbol
// table and the emitted code buffer.  Compile errors are reported, counted,
// and do not fail the call; host errors (an unreadable file) do.
func (c *Compiler) Compile(path string) (*symtable.Table, *pcode.List, error) {
	file, err := source.Open(path)
	if err != nil {
		return nil, nil, err
	}

	c.rep.SetSource(file)
	c.rep.PrintCompileHeader(path)

	c.rep.BeginPhase("Parsing")
	tbl, code := syntax.NewParser(file, c.rep).Parse()
	c.rep.EndPhase(c.rep.ShouldProceed())

	return tbl, code, nil
}

// Run compiles path and, when the compile is clean, executes the program.
// showPCode additionally prints the listing before execution.
func (c *Compiler) Run(path string, showPCode bool) error {
	_, code, err := c.Compile(path)
	if err != nil {
		return err
	}

	if showPCode || c.cfg.ShowPCode {
		if err := code.WriteListing(c.out); err != nil {
			return err
		}
	}

	c.rep.PrintSummary()

	if !c.rep.ShouldProceed() {
		return nil
	}

	machine := interp.NewMachine(code, c.in, c.out)
	machine.SetStackLimit(c.cfg.StackSize)

	if err := machine.Run(); err != nil {
		return fmt.Errorf("runtime error: %s", err.Error())
	}

	return nil
}

// Build compiles path and writes the configured output artifact: a P-code
// listing or an LLVM IR module.  Nothing is written when the compile had
// errors.
func (c *Compiler) Build(path string) error {
	_, code, err := c.Compile(path)
	if err != nil {
		return err
	}

	c.rep.PrintSummary()

	if !c.rep.ShouldProceed() {
		return nil
	}

	outPath := c.cfg.OutputPath(path)

	switch c.cfg.Emit {
	case project.EmitLLVM:
		c.rep.BeginPhase("Generating")
		mod := generate.NewGenerator(code, c.cfg.StackSize).Generate()
		c.rep.EndPhase(true)

		return ioutil.WriteFile(outPath, []byte(mod.String()), 0644)
	default:
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()

		return code.WriteListing(f)
	}
}
