package compiler

import "github.com/ico-lang/ico/lang/chunk"

// maxLocals and maxUpvalues are the one-byte-operand limits GET_LOCAL/
// SET_LOCAL and GET_UPVALUE/SET_UPVALUE impose (spec 8, "255 locals ...
// succeed; 256 errors").
const (
	maxLocals   = 256
	maxUpvalues = 256
)

// uninitializedDepth marks a local between its declaration and the point it
// is marked initialized; reading it in that window is a compile error (spec
// 3, invariant 4).
const uninitializedDepth = -1

type local struct {
	name     string
	depth    int
	captured bool
}

// funcKind distinguishes the implicit top-level script function from a
// user-declared one, which controls whether a `return` statement is legal:
// any `return` in the script is a compile error.
type funcKind uint8

const (
	funcScript funcKind = iota
	funcFunction
)

// funcCompiler is one frame of the compile-time function-compiler stack
// (spec 4.2): it owns the function object under construction, its locals and
// upvalue descriptors, and the current lexical scope depth. enclosing links
// to the context compiling the surrounding function, forming the stack the
// spec requires for upvalue resolution.
type funcCompiler struct {
	enclosing *funcCompiler
	function  *chunk.ObjFunction
	kind      funcKind

	locals     []local
	upvalues   []chunk.UpvalueDesc
	scopeDepth int
}

func newFuncCompiler(enclosing *funcCompiler, kind funcKind, fn *chunk.ObjFunction) *funcCompiler {
	fc := &funcCompiler{enclosing: enclosing, kind: kind, function: fn}
	// Slot 0 is reserved for the callee itself (spec 3, "Call frame"): for a
	// function value it is never user-addressable, so the name is empty.
	fc.locals = append(fc.locals, local{name: "", depth: 0})
	return fc
}

func (fc *funcCompiler) resolveLocal(name string) (slot int, ok bool, uninitialized bool) {
	for i := len(fc.locals) - 1; i >= 0; i-- {
		if fc.locals[i].name == name {
			if fc.locals[i].depth == uninitializedDepth {
				return i, true, true
			}
			return i, true, false
		}
	}
	return 0, false, false
}

// addUpvalue records index/isLocal as an upvalue of fc, reusing an existing
// descriptor with the same shape (spec 4.2, "reused if it already exists").
func (fc *funcCompiler) addUpvalue(index uint8, isLocal bool) (int, error) {
	for i, uv := range fc.upvalues {
		if uv.Index == index && uv.IsLocal == isLocal {
			return i, nil
		}
	}
	if len(fc.upvalues) >= maxUpvalues {
		return 0, errTooManyUpvalues
	}
	fc.upvalues = append(fc.upvalues, chunk.UpvalueDesc{Index: index, IsLocal: isLocal})
	fc.function.UpvalueCount = len(fc.upvalues)
	return len(fc.upvalues) - 1, nil
}

var errTooManyUpvalues = simpleError("too many closure variables in this function")
var errTooManyLocals = simpleError("too many local variables in function")

type simpleError string

func (e simpleError) Error() string { return string(e) }
