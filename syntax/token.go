package syntax

// TokenKind is a one-bit token class.  Each kind occupies its own bit so
// FIRST and FOLLOW sets are plain bitmask unions and membership tests are a
// single AND.
type TokenKind uint64

const (
	// Nul marks end of input and tokens the lexer could not classify.
	Nul TokenKind = 0

	Eql       TokenKind = 1 << 0 // =
	Neq       TokenKind = 1 << 1 // <>
	Lss       TokenKind = 1 << 2 // <
	Leq       TokenKind = 1 << 3 // <=
	Grt       TokenKind = 1 << 4 // >
	Geq       TokenKind = 1 << 5 // >=
	Plus      TokenKind = 1 << 6 // +
	Minus     TokenKind = 1 << 7 // -
	Multi     TokenKind = 1 << 8 // *
	Divis     TokenKind = 1 << 9 // /
	Ident     TokenKind = 1 << 10
	Number    TokenKind = 1 << 11
	Lparen    TokenKind = 1 << 12 // (
	Rparen    TokenKind = 1 << 13 // )
	Comma     TokenKind = 1 << 14 // ,
	Semicolon TokenKind = 1 << 15 // ;
	Assign    TokenKind = 1 << 16 // :=
	OddSym    TokenKind = 1 << 17
	BeginSym  TokenKind = 1 << 18
	EndSym    TokenKind = 1 << 19
	IfSym     TokenKind = 1 << 20
	ThenSym   TokenKind = 1 << 21
	WhileSym  TokenKind = 1 << 22
	DoSym     TokenKind = 1 << 23
	CallSym   TokenKind = 1 << 24
	ConstSym  TokenKind = 1 << 25
	VarSym    TokenKind = 1 << 26
	ProcSym   TokenKind = 1 << 27
	WriteSym  TokenKind = 1 << 28
	ReadSym   TokenKind = 1 << 29
	ProgSym   TokenKind = 1 << 30
	ElseSym   TokenKind = 1 << 31
)

// In reports whether the kind is a member of the bitmask set.  Nul is a
// member of no set.
func (k TokenKind) In(set TokenKind) bool {
	return k&set != 0
}

var keywords = map[string]TokenKind{
	"odd":       OddSym,
	"begin":     BeginSym,
	"end":       EndSym,
	"if":        IfSym,
	"then":      ThenSym,
	"while":     WhileSym,
	"do":        DoSym,
	"call":      CallSym,
	"const":     ConstSym,
	"var":       VarSym,
	"procedure": ProcSym,
	"write":     WriteSym,
	"read":      ReadSym,
	"program":   ProgSym,
	"else":      ElseSym,
}

var kindNames = map[TokenKind]string{
	Nul:       "NUL",
	Eql:       "EQL",
	Neq:       "NEQ",
	Lss:       "LSS",
	Leq:       "LEQ",
	Grt:       "GRT",
	Geq:       "GEQ",
	Plus:      "PLUS",
	Minus:     "MINUS",
	Multi:     "MULTI",
	Divis:     "DIVIS",
	Ident:     "IDENT",
	Number:    "NUMBER",
	Lparen:    "LPAREN",
	Rparen:    "RPAREN",
	Comma:     "COMMA",
	Semicolon: "SEMICOLON",
	Assign:    "ASSIGN",
	OddSym:    "ODD",
	BeginSym:  "BEGIN",
	EndSym:    "END",
	IfSym:     "IF",
	ThenSym:   "THEN",
	WhileSym:  "WHILE",
	DoSym:     "DO",
	CallSym:   "CALL",
	ConstSym:  "CONST",
	VarSym:    "VAR",
	ProcSym:   "PROCEDURE",
	WriteSym:  "WRITE",
	ReadSym:   "READ",
	ProgSym:   "PROGRAM",
	ElseSym:   "ELSE",
}

// Name returns the mnemonic name of the kind, as printed by the token dump.
func (k TokenKind) Name() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return "UNKNOWN"
}

var kindReps = map[TokenKind]string{
	Nul:       "end of file",
	Eql:       "'='",
	Neq:       "'<>'",
	Lss:       "'<'",
	Leq:       "'<='",
	Grt:       "'>'",
	Geq:       "'>='",
	Plus:      "'+'",
	Minus:     "'-'",
	Multi:     "'*'",
	Divis:     "'/'",
	Ident:     "identifier",
	Number:    "number",
	Lparen:    "'('",
	Rparen:    "')'",
	Comma:     "','",
	Semicolon: "';'",
	Assign:    "':='",
	OddSym:    "'odd'",
	BeginSym:  "'begin'",
	EndSym:    "'end'",
	IfSym:     "'if'",
	ThenSym:   "'then'",
	WhileSym:  "'while'",
	DoSym:     "'do'",
	CallSym:   "'call'",
	ConstSym:  "'const'",
	VarSym:    "'var'",
	ProcSym:   "'procedure'",
	WriteSym:  "'write'",
	ReadSym:   "'read'",
	ProgSym:   "'program'",
	ElseSym:   "'else'",
}

// Rep returns how the kind reads in a diagnostic message.
func (k TokenKind) Rep() string {
	if rep, ok := kindReps[k]; ok {
		return rep
	}

	return "token"
}

// Token is one lexical unit together with the position of its first
// character.
type Token struct {
	Kind   TokenKind
	Lexeme string
	Row    int
	Col    int
}

// IsEOF reports whether the token is the end-of-input sentinel.
func (t *Token) IsEOF() bool {
	return t.Kind == Nul && t.Lexeme == "\x00"
}

// Display returns the token text as quoted in diagnostics.
func (t *Token) Display() string {
	if t.IsEOF() {
		return "end of file"
	}

	return t.Lexeme
}
