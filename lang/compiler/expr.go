package compiler

import (
	"strconv"

	"github.com/ico-lang/ico/lang/chunk"
	"github.com/ico-lang/ico/lang/token"
	"github.com/ico-lang/ico/lang/value"
)

func (p *Parser) expression() { p.parseWithPrecedence(PrecAssignment) }

// parseWithPrecedence implements the core Pratt loop (spec 4.2, "Parsing"):
// consume one token and run its prefix handler, then keep consuming and
// running infix handlers as long as the new current token binds at least as
// tightly as floor.
func (p *Parser) parseWithPrecedence(floor Precedence) {
	p.advance()
	prefix := ruleFor(p.previous.Type).prefix
	if prefix == nil {
		p.error("expect expression")
		return
	}

	canAssign := floor <= PrecAssignment
	prefix(p, canAssign)

	for floor <= ruleFor(p.current.Type).precedence {
		p.advance()
		infix := ruleFor(p.previous.Type).infix
		infix(p, canAssign)
	}

	if canAssign && p.match(token.EQ) {
		p.error("invalid assignment target")
	}
}

func (p *Parser) grouping(_ bool) {
	p.expression()
	p.consume(token.RPAREN, "expect ')' after expression")
}

func (p *Parser) unary(_ bool) {
	opType := p.previous.Type
	p.parseWithPrecedence(PrecUnary)
	switch opType {
	case token.MINUS:
		p.emitOp(chunk.OpNegate)
	case token.BANG:
		p.emitOp(chunk.OpNot)
	}
}

func (p *Parser) binary(_ bool) {
	opType := p.previous.Type
	r := ruleFor(opType)
	p.parseWithPrecedence(r.precedence.next())

	switch opType {
	case token.PLUS:
		p.emitOp(chunk.OpAdd)
	case token.MINUS:
		p.emitOp(chunk.OpSubtract)
	case token.STAR:
		p.emitOp(chunk.OpMultiply)
	case token.SLASH:
		p.emitOp(chunk.OpDivide)
	case token.PERCENT:
		p.emitOp(chunk.OpModulo)
	case token.CARET:
		p.emitOp(chunk.OpPower)
	case token.EQ_EQ:
		p.emitOp(chunk.OpEqual)
	case token.BANG_EQ:
		p.emitOp(chunk.OpEqual)
		p.emitOp(chunk.OpNot)
	case token.GT:
		p.emitOp(chunk.OpGreater)
	case token.GE:
		p.emitOp(chunk.OpLess)
		p.emitOp(chunk.OpNot)
	case token.LT:
		p.emitOp(chunk.OpLess)
	case token.LE:
		p.emitOp(chunk.OpGreater)
		p.emitOp(chunk.OpNot)
	}
}

// call compiles a CALL: the callee is already on the stack (this is an
// infix handler bound to '('), so only the argument list needs parsing.
func (p *Parser) call(_ bool) {
	argc := p.argumentList()
	p.emitBytes(chunk.OpCall, argc)
}

func (p *Parser) argumentList() byte {
	count := 0
	if !p.check(token.RPAREN) {
		for {
			p.expression()
			if count == 255 {
				p.error("too many parameters/arguments")
			}
			count++
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RPAREN, "expect ')' after arguments")
	return byte(count)
}

func (p *Parser) literal(_ bool) {
	switch p.previous.Type {
	case token.FALSE:
		p.emitOp(chunk.OpFalse)
	case token.TRUE:
		p.emitOp(chunk.OpTrue)
	case token.NULL:
		p.emitOp(chunk.OpNull)
	}
}

func (p *Parser) numberLiteral(_ bool) {
	lexeme := p.previous.Lexeme
	if p.previous.Type == token.INT {
		i, err := strconv.ParseInt(lexeme, 10, 64)
		if err != nil {
			p.error("invalid integer literal")
			return
		}
		p.emitConstant(value.Int(i))
		return
	}
	f, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		p.error("invalid float literal")
		return
	}
	p.emitConstant(value.Float(f))
}

func (p *Parser) stringLiteral(_ bool) {
	raw := p.previous.Lexeme
	// strip the surrounding quotes the scanner includes in the lexeme
	content := raw[1 : len(raw)-1]
	p.emitConstant(value.FromObject(p.internString(content)))
}

func (p *Parser) variable(canAssign bool) {
	p.namedVariable(p.previous.Lexeme, canAssign)
}

func (p *Parser) namedVariable(name string, canAssign bool) {
	var getOp, setOp chunk.OpCode
	var arg byte

	if slot, ok, uninitialized := p.cur.resolveLocal(name); ok {
		if uninitialized {
			p.error("can't read local variable in its own initializer")
		}
		getOp, setOp, arg = chunk.OpGetLocal, chunk.OpSetLocal, byte(slot)
	} else if idx, ok := p.resolveUpvalue(p.cur, name); ok {
		getOp, setOp, arg = chunk.OpGetUpvalue, chunk.OpSetUpvalue, byte(idx)
	} else {
		arg = p.identifierConstant(name)
		getOp, setOp = chunk.OpGetGlobal, chunk.OpSetGlobal
	}

	if canAssign && p.match(token.EQ) {
		p.expression()
		p.emitBytes(setOp, arg)
	} else {
		p.emitBytes(getOp, arg)
	}
}

// resolveUpvalue implements the recursive search of spec 4.2, "upvalue
// resolution": a hit in the immediately enclosing context's locals captures
// that local (is_local = true); a hit further out recurses and chains
// through the intermediate contexts' own upvalue arrays (is_local = false).
func (p *Parser) resolveUpvalue(fc *funcCompiler, name string) (int, bool) {
	if fc.enclosing == nil {
		return 0, false
	}

	if slot, ok, uninitialized := fc.enclosing.resolveLocal(name); ok {
		if uninitialized {
			p.error("can't read local variable in its own initializer")
		}
		fc.enclosing.locals[slot].captured = true
		idx, err := fc.addUpvalue(uint8(slot), true)
		if err != nil {
			p.error(err.Error())
			return 0, false
		}
		return idx, true
	}

	if idx, ok := p.resolveUpvalue(fc.enclosing, name); ok {
		i, err := fc.addUpvalue(uint8(idx), false)
		if err != nil {
			p.error(err.Error())
			return 0, false
		}
		return i, true
	}

	return 0, false
}

// and/or compile short-circuit boolean operators as conditional jumps plus a
// POP (JUMP_IF_FALSE for and; JUMP_IF_FALSE and JUMP for or), preserving the non-short-circuit operand's value on the
// stack exactly as spec 4.2 requires.
func (p *Parser) and(_ bool) {
	endJump := p.emitJump(chunk.OpJumpIfFalse)
	p.emitOp(chunk.OpPop)
	p.parseWithPrecedence(PrecAnd)
	p.patchJump(endJump)
}

func (p *Parser) or(_ bool) {
	elseJump := p.emitJump(chunk.OpJumpIfFalse)
	endJump := p.emitJump(chunk.OpJump)

	p.patchJump(elseJump)
	p.emitOp(chunk.OpPop)

	p.parseWithPrecedence(PrecOr)
	p.patchJump(endJump)
}
