package chunk

import (
	"fmt"

	"github.com/ico-lang/ico/lang/value"
)

// UpvalueDesc describes one upvalue captured by a function: either a local
// slot in the immediately enclosing function (IsLocal true) or an upvalue
// index inherited from the enclosing function's own upvalue array
// (IsLocal false). The compiler emits one of these per upvalue after the
// CLOSURE opcode (spec 4.2, "Function compilation").
type UpvalueDesc struct {
	Index   uint8
	IsLocal bool
}

// ObjFunction is produced only by the compiler: arity, declared upvalue
// count, an optional name (empty for the top-level script), and the chunk of
// bytecode, line numbers and constants that implement it.
type ObjFunction struct {
	value.Obj
	Name         *value.ObjString
	Arity        int
	UpvalueCount int
	Chunk        Chunk
}

var _ value.Object = (*ObjFunction)(nil)

// NewFunction allocates an empty function object ready to have its chunk
// filled in by the compiler.
func NewFunction() *ObjFunction {
	return &ObjFunction{Obj: value.NewObj(value.TagFunction)}
}

func (f *ObjFunction) String() string {
	if f.Name == nil {
		return "<script>"
	}
	return fmt.Sprintf("<fn %s>", f.Name.Chars())
}

// ObjClosure references exactly one function plus one resolved upvalue per
// entry in the function's upvalue descriptor list. Closures are the only
// user-callable code objects (spec 3).
type ObjClosure struct {
	value.Obj
	Function *ObjFunction
	Upvalues []*value.ObjUpvalue
}

var _ value.Object = (*ObjClosure)(nil)

// NewClosure allocates a closure over fn with freshly-sized (nil) upvalue
// slots, to be filled in by the CLOSURE opcode handler.
func NewClosure(fn *ObjFunction) *ObjClosure {
	return &ObjClosure{
		Obj:      value.NewObj(value.TagClosure),
		Function: fn,
		Upvalues: make([]*value.ObjUpvalue, fn.UpvalueCount),
	}
}

func (c *ObjClosure) String() string { return c.Function.String() }
