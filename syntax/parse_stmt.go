package syntax

import (
	"github.com/AkiNeko11/MyCompiler/common"
	"github.com/AkiNeko11/MyCompiler/pcode"
	"github.com/AkiNeko11/MyCompiler/report"
	"github.com/AkiNeko11/MyCompiler/symtable"
)

// parseStatement parses one statement.
//
// statement = IDENT `:=` exp
//           | `if` lexp `then` statement [`else` statement]
//           | `while` lexp `do` statement
//           | `call` IDENT `(` [exp {`,` exp}] `)`
//           | body
//           | `read` `(` IDENT {`,` IDENT} `)`
//           | `write` `(` exp {`,` exp} `)`
func (p *Parser) parseStatement() {
	switch p.tok.Kind {
	case Ident:
		p.parseAssign()
	case IfSym:
		p.parseIf()
	case WhileSym:
		p.parseWhile()
	case CallSym:
		p.parseCall()
	case BeginSym:
		p.parseBody()
	case ReadSym:
		p.parseRead()
	case WriteSym:
		p.parseWrite()
	default:
		if p.judge(firstStatement, followStatement, report.UnexpectedToken, p.tok.Display()) == 1 {
			p.parseStatement()
		}
	}
}

// parseAssign parses an assignment.  The right-hand side is always parsed;
// the store is emitted only when the target resolved to a non-constant.
func (p *Parser) parseAssign() {
	name := p.tok.Lexeme
	usePrev, useCur := p.lexer.PrevPos(), p.lexer.CurPos()
	p.next()

	target, found := p.tbl.Lookup(name, false)
	if !found {
		p.rep.Error(report.UndeclaredIdent, usePrev, useCur, name)
	}

	if p.got(Assign) {
		p.next()
	} else if p.got(Eql) {
		p.errorHere(report.ExpectedFound, ":=", "=")
		p.next()
	} else {
		p.errorHere(report.Missing, ":=")
	}

	p.parseExp()

	if !found {
		return
	}

	if e := p.tbl.Get(target); e.Kind == symtable.KindConstant {
		p.rep.Error(report.IllegalRValueAssign, useCur, useCur, name)
	} else {
		p.code.Emit(pcode.Sto, e.Level, varSlot(e))
	}
}

// parseIf parses a conditional.  The false branch of the JPC is backpatched
// to the statement after `then` or, with `else`, to the else arm, whose own
// skip jump is backpatched past it.
func (p *Parser) parseIf() {
	p.next()
	p.parseLexp()

	jumpFalse := p.code.Emit(pcode.Jpc, 0, 0)

	p.expect(ThenSym)
	p.parseStatement()

	if !p.got(ElseSym) {
		p.code.Backpatch(jumpFalse, p.code.Len())
		return
	}

	jumpEnd := p.code.Emit(pcode.Jmp, 0, 0)
	p.code.Backpatch(jumpFalse, p.code.Len())

	p.next()
	p.parseStatement()
	p.code.Backpatch(jumpEnd, p.code.Len())
}

// parseWhile parses a loop.  The condition's address is known up front so
// only the exit jump needs backpatching.
func (p *Parser) parseWhile() {
	p.next()

	condAddr := p.code.Len()
	p.parseLexp()

	jumpExit := p.code.Emit(pcode.Jpc, 0, 0)

	p.expect(DoSym)
	p.parseStatement()

	p.code.Emit(pcode.Jmp, 0, condAddr)
	p.code.Backpatch(jumpExit, p.code.Len())
}

// parseCall parses a procedure call.  Arguments are evaluated left to right
// and stored into the callee's not-yet-pushed frame with level -1 stores;
// the CAL itself carries the callee's declaration level and prologue
// address.
func (p *Parser) parseCall() {
	p.next()

	name := ""
	usePrev, useCur := p.lexer.PrevPos(), p.lexer.CurPos()

	if p.got(Ident) {
		name = p.tok.Lexeme
		p.next()
	} else {
		p.errorHere(report.Expect, "procedure name")
	}

	procIdx, found := 0, false
	if name != "" {
		procIdx, found = p.tbl.Lookup(name, true)
		if !found {
			p.rep.Error(report.UndeclaredProc, usePrev, useCur, name)
		}
	}

	var callee symtable.Entry
	if found {
		callee = p.tbl.Get(procIdx)
	}

	p.expect(Lparen)

	argc := 0
	if p.tok.Kind.In(firstExp) {
		for {
			p.parseExp()

			if found {
				p.code.Emit(pcode.Sto, -1, common.DisplaySlot+callee.Level+2+argc)
			}

			argc++

			if !p.got(Comma) {
				break
			}

			p.next()
		}
	}

	p.expect(Rparen)

	if !found {
		return
	}

	if argc != len(callee.Formals) {
		p.rep.Error(report.IncompatibleVarList, p.lexer.PrevPos(), p.lexer.CurPos())
	}

	if !callee.IsDefined {
		p.rep.Error(report.UndefinedProc, usePrev, useCur, name)
		return
	}

	p.code.Emit(pcode.Cal, callee.Level, callee.Entry)
}

// parseRead parses a read statement: one RED/STO pair per identifier.
func (p *Parser) parseRead() {
	p.next()
	p.expect(Lparen)

	for {
		p.parseReadTarget()

		if !p.got(Comma) {
			break
		}

		p.next()
	}

	p.expect(Rparen)
}

func (p *Parser) parseReadTarget() {
	if !p.got(Ident) {
		p.errorHere(report.Expect, "identifier")
		return
	}

	name := p.tok.Lexeme
	usePrev, useCur := p.lexer.PrevPos(), p.lexer.CurPos()
	p.next()

	idx, found := p.tbl.Lookup(name, false)
	if !found {
		p.rep.Error(report.UndeclaredIdent, usePrev, useCur, name)
		return
	}

	e := p.tbl.Get(idx)
	if e.Kind == symtable.KindConstant {
		p.rep.Error(report.IllegalRValueAssign, useCur, useCur, name)
		return
	}

	p.code.Emit(pcode.Red, 0, 0)
	p.code.Emit(pcode.Sto, e.Level, varSlot(e))
}

// parseWrite parses a write statement: each value prints as it is computed,
// with a single newline after the whole list.
func (p *Parser) parseWrite() {
	p.next()
	p.expect(Lparen)

	for {
		p.parseExp()
		p.code.Emit(pcode.Wrt, 0, 0)

		if !p.got(Comma) {
			break
		}

		p.next()
	}

	p.expect(Rparen)

	p.code.Emit(pcode.Opr, 0, pcode.OprPrintln)
}

// varSlot maps a variable or formal entry to its stack slot within the
// declaring frame: the local area starts after the frame head and the
// display, one slot per declared unit.
func varSlot(e symtable.Entry) int {
	return e.Offset/common.UnitSize + common.DisplaySlot + e.Level + 1
}
