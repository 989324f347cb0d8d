package compiler_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/ico-lang/ico/lang/chunk"
	"github.com/ico-lang/ico/lang/compiler"
	"github.com/ico-lang/ico/lang/table"
	"github.com/ico-lang/ico/lang/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compileOK(t *testing.T, src string) *chunk.ObjFunction {
	t.Helper()
	var in table.Interner
	fn, err := compiler.Compile(src, &in, nil)
	require.NoError(t, err)
	require.NotNil(t, fn)
	return fn
}

func compileErr(t *testing.T, src string) compiler.ErrorList {
	t.Helper()
	var in table.Interner
	fn, err := compiler.Compile(src, &in, nil)
	require.Error(t, err)
	require.Nil(t, fn)
	el, ok := err.(compiler.ErrorList)
	require.True(t, ok, "expected compiler.ErrorList, got %T", err)
	return el
}

func findFunctionConstant(constants []value.Value) *chunk.ObjFunction {
	for _, c := range constants {
		if c.IsObject() {
			if f, ok := c.AsObject().(*chunk.ObjFunction); ok {
				return f
			}
		}
	}
	return nil
}

func containsMessage(el compiler.ErrorList, msg string) bool {
	for _, e := range el {
		if strings.Contains(e.Message, msg) {
			return true
		}
	}
	return false
}

func TestCompileArithmeticEmitsExpectedOpcodes(t *testing.T) {
	fn := compileOK(t, "print 1 + 2 * 3;")
	ops := opcodesOf(fn.Chunk)
	assert.Contains(t, ops, chunk.OpAdd)
	assert.Contains(t, ops, chunk.OpMultiply)
	assert.Contains(t, ops, chunk.OpPrintln)
}

func TestCompileGlobalDeclarationAndUse(t *testing.T) {
	fn := compileOK(t, `var a = "he"; var b = "llo"; print a + b;`)
	ops := opcodesOf(fn.Chunk)
	assert.Contains(t, ops, chunk.OpDefineGlobal)
	assert.Contains(t, ops, chunk.OpGetGlobal)
}

func TestCompileClosureCapturesUpvalue(t *testing.T) {
	fn := compileOK(t, `fun make(x) { fun inner() { return x; } return inner; }`)
	ops := opcodesOf(fn.Chunk)
	assert.Contains(t, ops, chunk.OpClosure)

	// the script's only function constant is "make"; "inner" (and its
	// upvalue onto make's parameter x) lives one level down, in make's own
	// constant pool.
	makeFn := findFunctionConstant(fn.Chunk.Constants)
	require.NotNil(t, makeFn)
	inner := findFunctionConstant(makeFn.Chunk.Constants)
	require.NotNil(t, inner)
	assert.Equal(t, 1, inner.UpvalueCount)
}

func TestAssignmentToNonVariableTargetIsError(t *testing.T) {
	el := compileErr(t, `1 + 2 = 3;`)
	assert.True(t, containsMessage(el, "invalid assignment target"))
}

func TestDuplicateLocalInSameScopeIsError(t *testing.T) {
	el := compileErr(t, `{ var a = 1; var a = 2; }`)
	assert.True(t, containsMessage(el, "already a variable with this name in this scope"))
}

func TestReadingLocalInOwnInitializerIsError(t *testing.T) {
	el := compileErr(t, `{ var a = a; }`)
	assert.True(t, containsMessage(el, "can't read local variable in its own initializer"))
}

func TestReturnFromTopLevelIsError(t *testing.T) {
	el := compileErr(t, `return 1;`)
	assert.True(t, containsMessage(el, "can't return from top-level code"))
}

func TestTooManyLocalsErrorsAtBoundary(t *testing.T) {
	var b strings.Builder
	b.WriteString("{\n")
	for i := 0; i < 256; i++ {
		b.WriteString("var v")
		b.WriteString(strconv.Itoa(i))
		b.WriteString(" = 0;\n")
	}
	b.WriteString("}\n")

	el := compileErr(t, b.String())
	assert.True(t, containsMessage(el, "too many local variables in function"))
}

func Test255LocalsCompileSuccessfully(t *testing.T) {
	var b strings.Builder
	b.WriteString("{\n")
	for i := 0; i < 255; i++ {
		b.WriteString("var v")
		b.WriteString(strconv.Itoa(i))
		b.WriteString(" = 0;\n")
	}
	b.WriteString("}\n")
	compileOK(t, b.String())
}

func TestMissingSemicolonIsSyntaxError(t *testing.T) {
	el := compileErr(t, `print 1`)
	assert.True(t, containsMessage(el, "expect ';'"))
}

func TestUnexpectedCharacterIsLexicalError(t *testing.T) {
	el := compileErr(t, "var a = @;")
	found := false
	for _, e := range el {
		if e.Bare && strings.Contains(e.Message, "unexpected character") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestWhileLoopEmitsLoopOpcode(t *testing.T) {
	fn := compileOK(t, `var i = 0; while (i < 3) { print i; i = i + 1; }`)
	ops := opcodesOf(fn.Chunk)
	assert.Contains(t, ops, chunk.OpLoop)
	assert.Contains(t, ops, chunk.OpJumpIfFalse)
}

func TestForLoopDesugarsToLoopOpcode(t *testing.T) {
	fn := compileOK(t, `for (var i = 0; i < 3; i = i + 1) { print i; }`)
	ops := opcodesOf(fn.Chunk)
	assert.Contains(t, ops, chunk.OpLoop)
}

// opcodesOf walks c.Code and returns every opcode byte decoded as an
// OpCode, skipping over operand bytes using each opcode's known width.
// CLOSURE's width depends on the referenced function's declared upvalue
// count, which is read from the constant pool rather than guessed.
func opcodesOf(c chunk.Chunk) []chunk.OpCode {
	var out []chunk.OpCode
	i := 0
	for i < len(c.Code) {
		op := chunk.OpCode(c.Code[i])
		out = append(out, op)
		i += 1 + operandWidth(op, c, i)
	}
	return out
}

func operandWidth(op chunk.OpCode, c chunk.Chunk, at int) int {
	switch op {
	case chunk.OpConstant, chunk.OpGetLocal, chunk.OpSetLocal, chunk.OpGetGlobal,
		chunk.OpDefineGlobal, chunk.OpSetGlobal, chunk.OpGetUpvalue, chunk.OpSetUpvalue,
		chunk.OpCall:
		return 1
	case chunk.OpJump, chunk.OpJumpIfFalse, chunk.OpLoop:
		return 2
	case chunk.OpClosure:
		fnIdx := c.Code[at+1]
		fn := c.Constants[fnIdx].AsObject().(*chunk.ObjFunction)
		return 1 + 2*fn.UpvalueCount
	default:
		return 0
	}
}

