package build

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/AkiNeko11/MyCompiler/source"
	"github.com/AkiNeko11/MyCompiler/syntax"

	"github.com/pterm/pterm"
)

// LexDump prints the token stream of path one token per line, pulling the
// whole file through the lexer so lexical errors surface as usual.
func (c *Compiler) LexDump(path string) error {
	file, err := source.Open(path)
	if err != nil {
		return err
	}

	c.rep.SetSource(file)

	lexer := syntax.NewLexer(file, c.rep)
	for {
		tok := lexer.GetWord()
		if tok.IsEOF() {
			break
		}

		fmt.Fprintf(c.out, "%d:%d %s '%s'\n", tok.Row, tok.Col, tok.Kind.Name(), tok.Lexeme)
	}

	c.rep.PrintSummary()
	return nil
}

// Symbols compiles path and renders every symbol table entry, the reserved
// program entry first.
func (c *Compiler) Symbols(path string) error {
	tbl, _, err := c.Compile(path)
	if err != nil {
		return err
	}

	c.rep.PrintSummary()

	data := pterm.TableData{
		{"#", "Name", "Kind", "Level", "Offset", "Value", "Entry", "Prev", "Formals"},
	}

	for i, e := range tbl.Entries() {
		formals := make([]string, len(e.Formals))
		for j, f := range e.Formals {
			formals[j] = tbl.Get(f).Name
		}

		data = append(data, []string{
			strconv.Itoa(i),
			e.Name,
			e.Kind.Name(),
			strconv.Itoa(e.Level),
			strconv.Itoa(e.Offset),
			strconv.Itoa(e.Value),
			strconv.Itoa(e.Entry),
			strconv.Itoa(e.Prev),
			strings.Join(formals, ","),
		})
	}

	rendered, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}

	fmt.Fprintln(c.out, rendered)
	return nil
}
