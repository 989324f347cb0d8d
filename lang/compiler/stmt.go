package compiler

import (
	"github.com/ico-lang/ico/lang/chunk"
	"github.com/ico-lang/ico/lang/token"
	"github.com/ico-lang/ico/lang/value"
)

func (p *Parser) declaration() {
	switch {
	case p.match(token.VAR):
		p.varDeclaration()
	case p.match(token.FUN):
		p.funDeclaration()
	default:
		p.statement()
	}
	if p.panicMode {
		p.synchronize()
	}
}

func (p *Parser) varDeclaration() {
	global := p.parseVariable("expect variable name")
	if p.match(token.EQ) {
		p.expression()
	} else {
		p.emitOp(chunk.OpNull)
	}
	p.consume(token.SEMI, "expect ';' after variable declaration")
	p.defineVariable(global)
}

func (p *Parser) funDeclaration() {
	global := p.parseVariable("expect function name")
	// A function's own name is marked initialized before its body is
	// compiled, unlike other locals, so the function can refer to itself
	// recursively even though no value has been assigned to the slot yet.
	p.markInitialized()
	p.function(funcFunction)
	p.defineVariable(global)
}

func (p *Parser) function(kind funcKind) {
	// The function object is allocated and linked onto the enclosing
	// funcCompiler chain (making it root-reachable) before its name is
	// interned, not after: interning can itself allocate and trigger a
	// collection, and by then fn must already be findable from a root
	// (mirrors init_compiler in the original, which assigns
	// compiler->function before copying its name in).
	fn := p.newFunction()
	p.cur = newFuncCompiler(p.cur, kind, fn)
	fn.Name = p.internString(p.previous.Lexeme)

	p.beginScope()

	p.consume(token.LPAREN, "expect '(' after function name")
	if !p.check(token.RPAREN) {
		for {
			p.cur.function.Arity++
			if p.cur.function.Arity > 255 {
				p.error("too many parameters/arguments")
			}
			paramConst := p.parseVariable("expect parameter name")
			p.defineVariable(paramConst)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RPAREN, "expect ')' after parameters")
	p.consume(token.LBRACE, "expect '{' before function body")
	p.block()

	// capture the context being popped: its upvalue descriptors are what the
	// enclosing context's CLOSURE instruction must emit (spec 4.2, "Function
	// compilation" — "emit CLOSURE ... followed by one {is_local, index}
	// pair per declared upvalue").
	fc := p.cur
	compiled := p.endFunction()

	idx := p.makeConstant(value.FromObject(compiled))
	p.emitBytes(chunk.OpClosure, idx)
	for _, uv := range fc.upvalues {
		if uv.IsLocal {
			p.emitByte(1)
		} else {
			p.emitByte(0)
		}
		p.emitByte(uv.Index)
	}
}

func (p *Parser) statement() {
	switch {
	case p.match(token.PRINT):
		p.printStatement()
	case p.match(token.IF):
		p.ifStatement()
	case p.match(token.WHILE):
		p.whileStatement()
	case p.match(token.FOR):
		p.forStatement()
	case p.match(token.RETURN):
		p.returnStatement()
	case p.match(token.LBRACE):
		p.beginScope()
		p.block()
		p.endScope()
	default:
		p.expressionStatement()
	}
}

func (p *Parser) printStatement() {
	p.expression()
	p.consume(token.SEMI, "expect ';' after value")
	p.emitOp(chunk.OpPrintln)
}

func (p *Parser) expressionStatement() {
	p.expression()
	p.consume(token.SEMI, "expect ';' after expression")
	p.emitOp(chunk.OpPop)
}

func (p *Parser) block() {
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		p.declaration()
	}
	p.consume(token.RBRACE, "expect '}' after block")
}

func (p *Parser) beginScope() { p.cur.scopeDepth++ }

// endScope pops every local declared in the scope being left: a POP for an
// ordinary local, or CLOSE_UPVALUE for one captured by a nested closure
// (spec 4.2, "Scope exit").
func (p *Parser) endScope() {
	p.cur.scopeDepth--
	locals := p.cur.locals
	for len(locals) > 0 && locals[len(locals)-1].depth > p.cur.scopeDepth {
		last := locals[len(locals)-1]
		if last.captured {
			p.emitOp(chunk.OpCloseUpvalue)
		} else {
			p.emitOp(chunk.OpPop)
		}
		locals = locals[:len(locals)-1]
	}
	p.cur.locals = locals
}

func (p *Parser) ifStatement() {
	p.consume(token.LPAREN, "expect '(' after 'if'")
	p.expression()
	p.consume(token.RPAREN, "expect ')' after condition")

	thenJump := p.emitJump(chunk.OpJumpIfFalse)
	p.emitOp(chunk.OpPop)
	p.statement()

	elseJump := p.emitJump(chunk.OpJump)
	p.patchJump(thenJump)
	p.emitOp(chunk.OpPop)

	if p.match(token.ELSE) {
		p.statement()
	}
	p.patchJump(elseJump)
}

func (p *Parser) whileStatement() {
	loopStart := p.currentChunk().Len()
	p.consume(token.LPAREN, "expect '(' after 'while'")
	p.expression()
	p.consume(token.RPAREN, "expect ')' after condition")

	exitJump := p.emitJump(chunk.OpJumpIfFalse)
	p.emitOp(chunk.OpPop)
	p.statement()
	p.emitLoop(loopStart)

	p.patchJump(exitJump)
	p.emitOp(chunk.OpPop)
}

// forStatement desugars `for (init; cond; incr) body` into the same
// init-block + conditional-jump + increment-then-loop-back shape the VM
// already knows how to run (spec 4.2, "Control-flow statements"). The
// induction variable, when declared in the initializer, is scoped to the
// whole construct.
func (p *Parser) forStatement() {
	p.beginScope()
	p.consume(token.LPAREN, "expect '(' after 'for'")

	switch {
	case p.match(token.SEMI):
		// no initializer
	case p.match(token.VAR):
		p.varDeclaration()
	default:
		p.expressionStatement()
	}

	loopStart := p.currentChunk().Len()
	exitJump := -1
	if !p.check(token.SEMI) {
		p.expression()
		p.consume(token.SEMI, "expect ';' after loop condition")
		exitJump = p.emitJump(chunk.OpJumpIfFalse)
		p.emitOp(chunk.OpPop)
	} else {
		p.advance() // consume ';'
	}

	if !p.check(token.RPAREN) {
		bodyJump := p.emitJump(chunk.OpJump)
		incrStart := p.currentChunk().Len()
		p.expression()
		p.emitOp(chunk.OpPop)
		p.consume(token.RPAREN, "expect ')' after for clauses")

		p.emitLoop(loopStart)
		loopStart = incrStart
		p.patchJump(bodyJump)
	} else {
		p.advance() // consume ')'
	}

	p.statement()
	p.emitLoop(loopStart)

	if exitJump != -1 {
		p.patchJump(exitJump)
		p.emitOp(chunk.OpPop)
	}
	p.endScope()
}

func (p *Parser) returnStatement() {
	if p.cur.kind == funcScript {
		p.error("can't return from top-level code")
	}
	if p.match(token.SEMI) {
		p.emitOp(chunk.OpNull)
		p.emitOp(chunk.OpReturn)
		return
	}
	p.expression()
	p.consume(token.SEMI, "expect ';' after return value")
	p.emitOp(chunk.OpReturn)
}

// --- variable declaration machinery ---

func (p *Parser) parseVariable(errMsg string) byte {
	p.consume(token.IDENT, errMsg)
	p.declareVariable()
	if p.cur.scopeDepth > 0 {
		return 0
	}
	return p.identifierConstant(p.previous.Lexeme)
}

func (p *Parser) declareVariable() {
	if p.cur.scopeDepth == 0 {
		return
	}
	name := p.previous.Lexeme
	locals := p.cur.locals
	for i := len(locals) - 1; i >= 0; i-- {
		if locals[i].depth != uninitializedDepth && locals[i].depth < p.cur.scopeDepth {
			break
		}
		if locals[i].name == name {
			p.error("already a variable with this name in this scope")
			return
		}
	}
	p.addLocal(name)
}

func (p *Parser) addLocal(name string) {
	if len(p.cur.locals) >= maxLocals {
		p.error(errTooManyLocals.Error())
		return
	}
	p.cur.locals = append(p.cur.locals, local{name: name, depth: uninitializedDepth})
}

func (p *Parser) markInitialized() {
	if p.cur.scopeDepth == 0 {
		return
	}
	p.cur.locals[len(p.cur.locals)-1].depth = p.cur.scopeDepth
}

func (p *Parser) defineVariable(global byte) {
	if p.cur.scopeDepth > 0 {
		p.markInitialized()
		return
	}
	p.emitBytes(chunk.OpDefineGlobal, global)
}
