package syntax

// FIRST sets of the grammar's non-terminals, as token kind bitmasks.
const (
	firstProg      = ProgSym
	firstCondecl   = ConstSym
	firstConstDef  = Ident
	firstVardecl   = VarSym
	firstProc      = ProcSym
	firstBody      = BeginSym
	firstStatement = Ident | IfSym | WhileSym | CallSym | firstBody | ReadSym | WriteSym
	firstFactor    = Ident | Number | Lparen
	firstTerm      = firstFactor
	firstExp       = firstTerm | Plus | Minus
	firstLexp      = firstExp | OddSym
	firstLop       = Eql | Neq | Lss | Leq | Grt | Geq
	firstBlock     = firstCondecl | firstVardecl | firstProc | firstBody
)

// FOLLOW sets.  Panic-mode recovery skips to FIRST ∪ FOLLOW of the failing
// production.
const (
	followBlock     = Semicolon
	followCondecl   = firstVardecl | firstProc | firstBody
	followConstDef  = Comma | Semicolon
	followVardecl   = firstProc | firstBody
	followProc      = firstBody | Semicolon
	followStatement = Semicolon | EndSym | ElseSym
	followBody      = Semicolon | followStatement
	followLexp      = ThenSym | DoSym
	followExp       = firstLop | Comma | Rparen | followStatement | followLexp
	followTerm      = followExp | Plus | Minus
	followFactor    = followTerm | Multi | Divis
)
