package syntax

import (
	"strings"
	"unicode"

	"github.com/AkiNeko11/MyCompiler/report"
	"github.com/AkiNeko11/MyCompiler/source"
)

// Lexer splits a source file into tokens.  It always yields a token: lexical
// errors are reported and surface as Nul-kind sentinels, which belong to no
// FIRST or FOLLOW set, so the parser's recovery machinery skips them without
// special cases.
type Lexer struct {
	file *source.File
	rep  *report.Reporter

	tokBuff strings.Builder

	pos int // index of the next rune to read

	// position of the last consumed rune; col is 0 at the start of a line
	row, col int

	tok Token

	// last character of the current token and of the one before it
	endRow, endCol   int
	prevRow, prevCol int
}

// NewLexer creates a lexer over file, reporting lexical errors to rep.
func NewLexer(file *source.File, rep *report.Reporter) *Lexer {
	return &Lexer{file: file, rep: rep, row: 1, endRow: 1}
}

// GetWord advances to the next token and returns it.  The end position of
// the token it replaces becomes PrevPos.
func (l *Lexer) GetWord() *Token {
	l.prevRow, l.prevCol = l.endRow, l.endCol

	l.skipWhitespace()

	if l.peek() == 0 {
		l.tok = Token{Kind: Nul, Lexeme: "\x00", Row: l.row, Col: l.col + 1}
		return &l.tok
	}

	r := l.eat()
	row, col := l.row, l.col

	switch {
	case isLetter(r):
		l.lexWord(r, row, col)
	case isDigit(r):
		l.lexNumber(r, row, col)
	default:
		l.lexSymbol(r, row, col)
	}

	l.endRow, l.endCol = l.row, l.col
	return &l.tok
}

// Tok returns the current token.
func (l *Lexer) Tok() *Token {
	return &l.tok
}

// PrevPos returns the position of the last character of the token accepted
// before the current one.  Missing-token diagnostics anchor one column past
// it.
func (l *Lexer) PrevPos() report.Position {
	return report.Position{Row: l.prevRow, Col: l.prevCol}
}

// CurPos returns the position of the current token's first character.
func (l *Lexer) CurPos() report.Position {
	return report.Position{Row: l.tok.Row, Col: l.tok.Col}
}

func (l *Lexer) peek() rune {
	return l.file.RuneAt(l.pos)
}

func (l *Lexer) eat() rune {
	r := l.file.RuneAt(l.pos)
	l.pos++

	if r == '\n' {
		l.row++
		l.col = 0
	} else {
		l.col++
	}

	return r
}

func (l *Lexer) skipWhitespace() {
	for unicode.IsSpace(l.peek()) {
		l.eat()
	}
}

func (l *Lexer) lexWord(first rune, row, col int) {
	l.tokBuff.Reset()
	l.tokBuff.WriteRune(first)

	for isLetter(l.peek()) || isDigit(l.peek()) {
		l.tokBuff.WriteRune(l.eat())
	}

	lexeme := l.tokBuff.String()
	kind, ok := keywords[lexeme]
	if !ok {
		kind = Ident
	}

	l.tok = Token{Kind: kind, Lexeme: lexeme, Row: row, Col: col}
}

func (l *Lexer) lexNumber(first rune, row, col int) {
	l.tokBuff.Reset()
	l.tokBuff.WriteRune(first)

	for isDigit(l.peek()) {
		l.tokBuff.WriteRune(l.eat())
	}

	// a letter directly after the digits poisons the whole word
	if isLetter(l.peek()) {
		for isLetter(l.peek()) || isDigit(l.peek()) {
			l.tokBuff.WriteRune(l.eat())
		}

		lexeme := l.tokBuff.String()
		l.tok = Token{Kind: Nul, Lexeme: lexeme, Row: row, Col: col}
		l.rep.Error(report.IllegalWord, l.PrevPos(), report.Position{Row: row, Col: col}, lexeme)
		return
	}

	l.tok = Token{Kind: Number, Lexeme: l.tokBuff.String(), Row: row, Col: col}
}

func (l *Lexer) lexSymbol(r rune, row, col int) {
	kind := Nul
	lexeme := string(r)

	switch r {
	case '+':
		kind = Plus
	case '-':
		kind = Minus
	case '*':
		kind = Multi
	case '/':
		kind = Divis
	case '(':
		kind = Lparen
	case ')':
		kind = Rparen
	case ',':
		kind = Comma
	case ';':
		kind = Semicolon
	case '=':
		kind = Eql
	case '<':
		switch l.peek() {
		case '=':
			l.eat()
			kind, lexeme = Leq, "<="
		case '>':
			l.eat()
			kind, lexeme = Neq, "<>"
		default:
			kind = Lss
		}
	case '>':
		if l.peek() == '=' {
			l.eat()
			kind, lexeme = Geq, ">="
		} else {
			kind = Grt
		}
	case ':':
		if l.peek() == '=' {
			l.eat()
			kind, lexeme = Assign, ":="
		} else {
			// a lone ':' reads as an assignment with its '=' dropped
			l.rep.Error(report.Missing,
				report.Position{Row: row, Col: col},
				report.Position{Row: row, Col: col + 1},
				"=")
			kind = Assign
		}
	default:
		l.rep.Error(report.IllegalWord, l.PrevPos(), report.Position{Row: row, Col: col}, lexeme)
	}

	l.tok = Token{Kind: kind, Lexeme: lexeme, Row: row, Col: col}
}

func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z'
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}
