package syntax

import (
	"strconv"

	"github.com/AkiNeko11/MyCompiler/pcode"
	"github.com/AkiNeko11/MyCompiler/report"
	"github.com/AkiNeko11/MyCompiler/symtable"
)

// parseLexp parses a condition and leaves its truth value on the stack.
//
// lexp = exp lop exp | `odd` exp
func (p *Parser) parseLexp() {
	if p.got(OddSym) {
		p.next()
		p.parseExp()
		p.code.Emit(pcode.Opr, 0, pcode.OprOdd)
		return
	}

	p.parseExp()

	sub, ok := lopCode(p.tok.Kind)
	if !ok {
		if p.judge(firstLop, followLexp|firstExp, report.SyntaxError, "invalid condition", "relational operator") != 1 {
			return
		}

		sub, _ = lopCode(p.tok.Kind)
	}

	p.next()
	p.parseExp()
	p.code.Emit(pcode.Opr, 0, sub)
}

// lopCode maps a relational operator token to its OPR sub-code.
func lopCode(kind TokenKind) (int, bool) {
	switch kind {
	case Eql:
		return pcode.OprEql, true
	case Neq:
		return pcode.OprNeq, true
	case Lss:
		return pcode.OprLss, true
	case Leq:
		return pcode.OprLeq, true
	case Grt:
		return pcode.OprGrt, true
	case Geq:
		return pcode.OprGeq, true
	}

	return 0, false
}

// parseExp parses an arithmetic expression.
//
// exp = [`+` | `-`] term {(`+` | `-`) term}
func (p *Parser) parseExp() {
	negate := false
	if p.got(Plus) {
		p.next()
	} else if p.got(Minus) {
		negate = true
		p.next()
	}

	p.parseTerm()

	if negate {
		p.code.Emit(pcode.Opr, 0, pcode.OprNeg)
	}

	for p.got(Plus) || p.got(Minus) {
		sub := pcode.OprAdd
		if p.got(Minus) {
			sub = pcode.OprSub
		}

		p.next()
		p.parseTerm()
		p.code.Emit(pcode.Opr, 0, sub)
	}
}

// parseTerm parses a product.
//
// term = factor {(`*` | `/`) factor}
func (p *Parser) parseTerm() {
	p.parseFactor()

	for p.got(Multi) || p.got(Divis) {
		sub := pcode.OprMul
		if p.got(Divis) {
			sub = pcode.OprDiv
		}

		p.next()
		p.parseFactor()
		p.code.Emit(pcode.Opr, 0, sub)
	}
}

// parseFactor parses an operand and pushes its value: literals and resolved
// constants as LIT, variables and formals as LOD through the display.
//
// factor = IDENT | NUMBER | `(` exp `)`
func (p *Parser) parseFactor() {
	switch p.tok.Kind {
	case Ident:
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
			p.code.Emit(pcode.Lit, e.Level, e.Value)
		} else {
			p.code.Emit(pcode.Lod, e.Level, varSlot(e))
		}
	case Number:
		value, _ := strconv.Atoi(p.tok.Lexeme)
		p.code.Emit(pcode.Lit, 0, value)
		p.next()
	case Lparen:
		p.next()
		p.parseExp()
		p.expect(Rparen)
	default:
		if p.judge(firstFactor, followFactor, report.Expect, "expression") == 1 {
			p.parseFactor()
		}
	}
}
