// Package compiler implements the tree-less, single-pass Pratt parser and
// bytecode emitter described by spec 4.2: source text goes directly to a
// chunk.ObjFunction without ever building an intermediate syntax tree.
package compiler

import (
	"github.com/ico-lang/ico/lang/chunk"
	"github.com/ico-lang/ico/lang/gc"
	"github.com/ico-lang/ico/lang/scanner"
	"github.com/ico-lang/ico/lang/table"
	"github.com/ico-lang/ico/lang/token"
	"github.com/ico-lang/ico/lang/value"
)

const maxJumpDistance = 1<<16 - 1

// Parser drives one compilation: it owns the scanner, the current and
// previous tokens, the error-recovery state, and the stack of
// function-compiler contexts rooted at cur.
type Parser struct {
	sc       scanner.Scanner
	previous scanner.Token
	current  scanner.Token

	hadError  bool
	panicMode bool
	errors    ErrorList

	interner *table.Interner
	gcc      *gc.Collector

	cur *funcCompiler
}

// Compile compiles source into a top-level script function, interning every
// string it produces through interner and charging allocations against gcc
// (either may be nil for tests that don't care about GC bookkeeping). It
// returns the function and a nil error on success, or a nil function and a
// non-nil ErrorList if any diagnostic was reported.
func Compile(source string, interner *table.Interner, gcc *gc.Collector) (*chunk.ObjFunction, error) {
	p := &Parser{interner: interner, gcc: gcc}
	p.sc.Init(source)
	p.cur = newFuncCompiler(nil, funcScript, p.newFunction())

	if gcc != nil {
		gcc.PushRoot(p.markRoots)
		defer gcc.PopRoot()
	}

	p.advance()
	for !p.match(token.EOF) {
		p.declaration()
	}
	fn := p.endFunction()

	if len(p.errors) > 0 {
		return nil, p.errors
	}
	return fn, nil
}

// markRoots marks every in-progress function across the chain of
// function-compiler contexts, the root set the collector needs while a
// compilation is running concurrently with (conceptually) nothing else,
// since a GC can still fire from string interning mid-compile (spec 4.4
// step 1, "every in-progress function").
func (p *Parser) markRoots(c *gc.Collector) {
	for fc := p.cur; fc != nil; fc = fc.enclosing {
		c.MarkObject(fc.function)
	}
}

// --- token stream plumbing ---

func (p *Parser) advance() {
	p.previous = p.current
	for {
		p.current = p.sc.Next()
		if p.current.Type != token.ILLEGAL {
			break
		}
		p.errorAt(p.current, p.current.Lexeme, true)
	}
}

func (p *Parser) check(t token.Token) bool { return p.current.Type == t }

func (p *Parser) match(t token.Token) bool {
	if !p.check(t) {
		return false
	}
	p.advance()
	return true
}

func (p *Parser) consume(t token.Token, msg string) {
	if p.current.Type == t {
		p.advance()
		return
	}
	p.errorAtCurrent(msg)
}

func (p *Parser) errorAtCurrent(msg string) { p.errorAt(p.current, msg, false) }
func (p *Parser) error(msg string)          { p.errorAt(p.previous, msg, false) }

func (p *Parser) errorAt(tok scanner.Token, msg string, bare bool) {
	if p.panicMode {
		return
	}
	p.panicMode = true
	p.hadError = true
	e := &Error{Line: tok.Line, Message: msg}
	switch {
	case tok.Type == token.EOF:
		e.AtEnd = true
	case bare:
		e.Bare = true
	default:
		e.Lexeme = tok.Lexeme
	}
	p.errors = append(p.errors, e)
}

// synchronize discards tokens until a likely statement boundary, so a single
// error doesn't cascade into a wall of spurious follow-on diagnostics (spec
// 4.2, "panic flag").
func (p *Parser) synchronize() {
	p.panicMode = false
	for p.current.Type != token.EOF {
		if p.previous.Type == token.SEMI {
			return
		}
		switch p.current.Type {
		case token.CLASS, token.FUN, token.VAR, token.FOR, token.IF, token.WHILE, token.PRINT, token.RETURN:
			return
		}
		p.advance()
	}
}

// --- bytecode emission ---

func (p *Parser) currentChunk() *chunk.Chunk { return &p.cur.function.Chunk }

func (p *Parser) emitByte(b byte)          { p.currentChunk().Write(b, p.previous.Line) }
func (p *Parser) emitOp(op chunk.OpCode)   { p.currentChunk().WriteOp(op, p.previous.Line) }
func (p *Parser) emitBytes(op chunk.OpCode, b byte) {
	p.emitOp(op)
	p.emitByte(b)
}

func (p *Parser) emitJump(op chunk.OpCode) int {
	p.emitOp(op)
	p.emitByte(0xff)
	p.emitByte(0xff)
	return p.currentChunk().Len() - 2
}

func (p *Parser) patchJump(offset int) {
	dist := p.currentChunk().Len() - offset - 2
	if dist > maxJumpDistance {
		p.error("too much bytecode to jump over")
		return
	}
	code := p.currentChunk().Code
	code[offset] = byte(dist >> 8)
	code[offset+1] = byte(dist)
}

func (p *Parser) emitLoop(loopStart int) {
	p.emitOp(chunk.OpLoop)
	dist := p.currentChunk().Len() - loopStart + 2
	if dist > maxJumpDistance {
		p.error("loop body too large")
		return
	}
	p.emitByte(byte(dist >> 8))
	p.emitByte(byte(dist))
}

func (p *Parser) makeConstant(v value.Value) byte {
	idx, err := p.currentChunk().AddConstant(v)
	if err != nil {
		p.error(err.Error())
		return 0
	}
	return byte(idx)
}

func (p *Parser) emitConstant(v value.Value) {
	p.emitBytes(chunk.OpConstant, p.makeConstant(v))
}

// internString interns s and, if that allocated a new string object,
// charges it against gcc's accounting — a fresh ObjString is exactly the
// kind of transient allocation that can trigger a collection mid-compile
// (spec 4.4, "GC safety").
func (p *Parser) internString(s string) *value.ObjString {
	if p.interner == nil {
		return value.NewString(s)
	}
	return p.interner.InternWithTracker(s, func(o *value.ObjString) {
		if p.gcc != nil {
			p.gcc.Track(o, int64(len(s)))
		}
	})
}

func (p *Parser) identifierConstant(name string) byte {
	return p.makeConstant(value.FromObject(p.internString(name)))
}

// newFunction allocates a function object and, like internString, charges it
// against gcc's accounting and links it onto the sweep list — the other kind
// of object the compiler allocates directly rather than through the VM (spec
// 4.4, "GC safety").
func (p *Parser) newFunction() *chunk.ObjFunction {
	fn := chunk.NewFunction()
	if p.gcc != nil {
		p.gcc.Track(fn, 0)
	}
	return fn
}

// endFunction emits the implicit `return null` every function body falls
// through to, and pops the current function-compiler context, returning to
// its enclosing one (spec 4.2, "Function compilation").
func (p *Parser) endFunction() *chunk.ObjFunction {
	p.emitOp(chunk.OpNull)
	p.emitOp(chunk.OpReturn)
	fn := p.cur.function
	p.cur = p.cur.enclosing
	return fn
}
