package syntax

import (
	"strings"

	"github.com/AkiNeko11/MyCompiler/pcode"
	"github.com/AkiNeko11/MyCompiler/report"
	"github.com/AkiNeko11/MyCompiler/source"
	"github.com/AkiNeko11/MyCompiler/symtable"
)

// Parser is the recursive descent parser for a PL/0 source file.  It is a
// single pass: every parsing function both consumes its production and emits
// the production's P-code, declaring and resolving symbols as it goes.  All
// parsing functions assume they begin positioned on the first token of their
// production and leave the parser on the token after it.
//
// Errors never abort the parse.  A required terminal that is merely absent is
// synthesized with a missing-token diagnostic; anything worse drops into
// panic mode, skipping tokens until the look-ahead rejoins the production's
// FIRST or FOLLOW set.  Emission is suppressed for constructs whose symbols
// failed to resolve so the generated code never carries invalid operands.
type Parser struct {
	lexer *Lexer
	rep   *report.Reporter

	tbl  *symtable.Table
	code *pcode.List

	// tok is the current look-ahead token.
	tok *Token
}

// NewParser creates a parser over file, reporting diagnostics to rep.
func NewParser(file *source.File, rep *report.Reporter) *Parser {
	return &Parser{
		lexer: NewLexer(file, rep),
		rep:   rep,
		tbl:   symtable.NewTable(rep),
		code:  pcode.NewList(),
	}
}

// Parse compiles the whole file and returns the symbol table and the emitted
// code buffer.  The caller gates execution on the reporter's error count.
func (p *Parser) Parse() (*symtable.Table, *pcode.List) {
	p.next()
	p.parseProgram()

	return p.tbl, p.code
}

// -----------------------------------------------------------------------------

// next moves the parser forward one token.
func (p *Parser) next() {
	p.tok = p.lexer.GetWord()
}

// got returns true if the parser is on a token of the given kind.
func (p *Parser) got(kind TokenKind) bool {
	return p.tok.Kind == kind
}

// expect consumes a required terminal.  When it is absent but parsing can
// continue, the terminal is synthesized: a missing-token diagnostic is
// reported and the look-ahead is left untouched.
func (p *Parser) expect(kind TokenKind) bool {
	if p.got(kind) {
		p.next()
		return true
	}

	p.errorHere(report.Missing, tokenText(kind))
	return false
}

// errorHere reports an error anchored at the parser's current position pair.
func (p *Parser) errorHere(kind report.ErrorKind, extras ...string) {
	p.rep.Error(kind, p.lexer.PrevPos(), p.lexer.CurPos(), extras...)
}

// judge is the panic-mode gate.  If the look-ahead is in s1 it returns 1
// immediately.  Otherwise it reports the error and skips tokens until the
// look-ahead lies in s1 or s2, returning 1 for s1, -1 for s2, and 2 when the
// input ran out first.
func (p *Parser) judge(s1, s2 TokenKind, kind report.ErrorKind, extras ...string) int {
	if p.tok.Kind.In(s1) {
		return 1
	}

	p.errorHere(kind, extras...)

	for !p.tok.Kind.In(s1 | s2) {
		if p.tok.IsEOF() {
			return 2
		}

		p.next()
	}

	if p.tok.Kind.In(s1) {
		return 1
	}

	return -1
}

// tokenText returns the bare text of a terminal for missing-token messages.
func tokenText(kind TokenKind) string {
	return strings.Trim(kind.Rep(), "'")
}
