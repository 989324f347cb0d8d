package value

import "fmt"

// NativeFn is a host-provided callable. It receives the call's positional
// arguments and returns a result value, or an error which the VM surfaces as
// a runtime error with a stack trace (spec 6, native function ABI).
type NativeFn func(args []Value) (Value, error)

// ObjNative wraps a host function registered into the globals table during
// VM initialization.
type ObjNative struct {
	Obj
	Name  string
	Arity int // -1 means variadic (any argument count accepted)
	Fn    NativeFn
}

var _ Object = (*ObjNative)(nil)

// NewNative allocates a native function object.
func NewNative(name string, arity int, fn NativeFn) *ObjNative {
	return &ObjNative{Obj: NewObj(TagNative), Name: name, Arity: arity, Fn: fn}
}

func (n *ObjNative) String() string { return fmt.Sprintf("<native fn %s>", n.Name) }
