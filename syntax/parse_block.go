package syntax

import (
	"strconv"

	"github.com/AkiNeko11/MyCompiler/common"
	"github.com/AkiNeko11/MyCompiler/pcode"
	"github.com/AkiNeko11/MyCompiler/report"
	"github.com/AkiNeko11/MyCompiler/symtable"
)

// parseProgram parses the whole compilation unit.
//
// prog = `program` IDENT `;` block
func (p *Parser) parseProgram() {
	name := ""

	switch p.judge(firstProg, firstBlock, report.Missing, "program") {
	case 2:
		return
	case 1:
		p.next()

		if p.got(Ident) {
			name = p.tok.Lexeme
			p.next()
		} else {
			p.errorHere(report.Expect, "program name")
		}

		p.expect(Semicolon)
	}

	p.tbl.EnterProgram(name)

	// the program's entry jump skips over nested procedure bodies
	entry := p.code.Emit(pcode.Jmp, 0, 0)
	p.parseBlock(0, entry)

	if !p.tok.IsEOF() {
		p.errorHere(report.Redundant, p.tok.Display())
	}
}

// parseBlock parses one block and emits its frame prologue and epilogue.
// procIdx is the owning procedure's table index (0 for the program, negative
// when the owner's declaration failed); entryJmp is the address of the
// reserved entry jump to backpatch once the prologue's address is known.
//
// block = [condecl] [vardecl] {proc} body
//
// Semantic actions: the local-area width is fixed on the owner before nested
// procedures are declared, the prologue INT allocates the frame, and the
// owner's recorded entry address is moved onto the INT so calls land on the
// prologue directly.
func (p *Parser) parseBlock(procIdx, entryJmp int) {
	if p.got(ConstSym) {
		p.parseCondecl()
	}

	if p.got(VarSym) {
		p.parseVardecl()
	}

	// declarations past this point violate the const/var/procedure layering
	for p.got(ConstSym) || p.got(VarSym) {
		p.errorHere(report.IllegalDefine, p.tok.Lexeme)

		if p.got(ConstSym) {
			p.parseCondecl()
		} else {
			p.parseVardecl()
		}
	}

	width := p.tbl.Width()
	p.tbl.SetWidth(procIdx, width)

	for p.got(ProcSym) {
		p.parseProc()
	}

	level := p.tbl.Level()
	prologue := p.code.Emit(pcode.Int, 0, width/common.UnitSize+common.DisplaySlot+level+1)
	p.code.Backpatch(entryJmp, prologue)
	p.tbl.SetEntry(procIdx, prologue)

	p.parseBody()

	p.code.Emit(pcode.Opr, 0, pcode.OprRet)
}

// parseCondecl parses a constant declaration section.
//
// condecl = `const` constdef {`,` constdef} `;`
func (p *Parser) parseCondecl() {
	p.next()
	p.parseConstDef()

	for {
		if p.got(Comma) {
			p.next()
		} else if p.got(Ident) {
			// another definition with the comma dropped
			p.errorHere(report.Missing, ",")
		} else {
			break
		}

		p.parseConstDef()
	}

	p.expect(Semicolon)
}

// parseConstDef parses one constant definition and records its value.
//
// constdef = IDENT `:=` NUMBER
func (p *Parser) parseConstDef() {
	if p.judge(firstConstDef, followConstDef, report.Expect, "identifier") != 1 {
		return
	}

	name := p.tok.Lexeme
	declPrev, declCur := p.lexer.PrevPos(), p.lexer.CurPos()
	p.next()

	if p.got(Assign) {
		p.next()
	} else if p.got(Eql) {
		p.errorHere(report.ExpectedFound, ":=", "=")
		p.next()
	} else {
		p.errorHere(report.Missing, ":=")
	}

	value := 0
	if p.got(Number) {
		value, _ = strconv.Atoi(p.tok.Lexeme)
		p.next()
	} else {
		p.errorHere(report.Expect, "number")
	}

	if idx, ok := p.tbl.Insert(name, 0, symtable.KindConstant, declPrev, declCur); ok {
		p.tbl.SetValue(idx, value)
	}
}

// parseVardecl parses a variable declaration section, allocating one unit of
// the local area per name.
//
// vardecl = `var` IDENT {`,` IDENT} `;`
func (p *Parser) parseVardecl() {
	p.next()
	p.parseVarName()

	for {
		if p.got(Comma) {
			p.next()
		} else if p.got(Ident) {
			p.errorHere(report.Missing, ",")
		} else {
			break
		}

		p.parseVarName()
	}

	p.expect(Semicolon)
}

func (p *Parser) parseVarName() {
	if !p.got(Ident) {
		p.errorHere(report.Expect, "identifier")
		return
	}

	p.tbl.Insert(p.tok.Lexeme, p.tbl.Alloc(), symtable.KindVariable, p.lexer.PrevPos(), p.lexer.CurPos())
	p.next()
}

// parseProc parses one procedure declaration together with its block.
//
// proc = `procedure` IDENT `(` [IDENT {`,` IDENT}] `)` `;` block [`;`]
//
// Semantic actions: the procedure is declared at the enclosing level, its
// formals at the nested level with the first local offsets.  The entry jump
// is reserved and recorded before the block so recursive calls resolve.
func (p *Parser) parseProc() {
	p.next()

	procIdx := -1
	if p.got(Ident) {
		idx, ok := p.tbl.Insert(p.tok.Lexeme, 0, symtable.KindProcedure, p.lexer.PrevPos(), p.lexer.CurPos())
		if ok {
			procIdx = idx
		}

		p.next()
	} else {
		p.errorHere(report.Expect, "procedure name")
	}

	p.tbl.EnterScope()

	p.expect(Lparen)

	if p.got(Ident) {
		p.parseFormal(procIdx)

		for {
			if p.got(Comma) {
				p.next()
			} else if p.got(Ident) {
				p.errorHere(report.Missing, ",")
			} else {
				break
			}

			p.parseFormal(procIdx)
		}
	}

	p.expect(Rparen)
	p.expect(Semicolon)

	entry := p.code.Emit(pcode.Jmp, 0, 0)
	p.tbl.SetEntry(procIdx, entry)

	p.parseBlock(procIdx, entry)

	p.tbl.LeaveScope()

	// the separating semicolon is consumed even after the last procedure
	if p.got(Semicolon) {
		p.next()
	} else if p.got(ProcSym) {
		p.errorHere(report.Missing, ";")
	}
}

func (p *Parser) parseFormal(procIdx int) {
	if !p.got(Ident) {
		p.errorHere(report.Expect, "identifier")
		return
	}

	idx, ok := p.tbl.Insert(p.tok.Lexeme, p.tbl.Alloc(), symtable.KindFormal, p.lexer.PrevPos(), p.lexer.CurPos())
	if ok && procIdx >= 0 {
		p.tbl.AddFormal(procIdx, idx)
	}

	p.next()
}

// parseBody parses a begin/end statement sequence.
//
// body = `begin` statement {`;` statement} `end`
func (p *Parser) parseBody() {
	switch p.judge(firstBody, followBody|firstStatement, report.Missing, "begin") {
	case 2:
		return
	case 1:
		p.next()
	}

	p.parseStatement()

	for {
		if p.got(Semicolon) {
			p.next()
		} else if p.tok.Kind.In(firstStatement) {
			p.errorHere(report.Missing, ";")
		} else {
			break
		}

		p.parseStatement()
	}

	p.expect(EndSym)
}
