package value

import "strconv"

// Kind discriminates the primitive cases of Value.
type Kind uint8

//nolint:revive
const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindObj
	// KindError is an internal sentinel carrying a runtime-error message. It
	// is never constructible from user code; only the VM produces and
	// consumes it (spec 3, "error sentinel (internal only)").
	KindError
)

// Value is the tagged union manipulated by the compiler's constant pool and
// the VM's stack: a boolean, null, a 64-bit signed integer, an IEEE-754
// double, a heap object reference, or the internal error sentinel.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	obj  Object
	err  string
}

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns a 64-bit signed integer value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns an IEEE-754 double value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// FromObject wraps a heap object as a Value.
func FromObject(o Object) Value { return Value{kind: KindObj, obj: o} }

// Err returns the internal error sentinel carrying msg. Only the VM
// constructs and inspects these; they can never reach the operand stack.
func Err(msg string) Value { return Value{kind: KindError, err: msg} }

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }
func (v Value) IsBool() bool { return v.kind == KindBool }
func (v Value) IsInt() bool { return v.kind == KindInt }
func (v Value) IsFloat() bool { return v.kind == KindFloat }
func (v Value) IsNumber() bool { return v.kind == KindInt || v.kind == KindFloat }
func (v Value) IsObject() bool { return v.kind == KindObj }
func (v Value) IsError() bool { return v.kind == KindError }

func (v Value) AsBool() bool     { return v.b }
func (v Value) AsInt() int64     { return v.i }
func (v Value) AsFloat() float64 { return v.f }
func (v Value) AsObject() Object { return v.obj }
func (v Value) AsError() string  { return v.err }

// AsFloat64 returns the numeric value of v promoted to float64, regardless
// of whether it holds an int or a float. The caller must check IsNumber
// first.
func (v Value) AsFloat64() float64 {
	if v.kind == KindInt {
		return float64(v.i)
	}
	return v.f
}

// IsString reports whether v holds a string object.
func (v Value) IsString() bool {
	if v.kind != KindObj {
		return false
	}
	_, ok := v.obj.(*ObjString)
	return ok
}

// AsString returns the underlying string object. The caller must check
// IsString first.
func (v Value) AsString() *ObjString { return v.obj.(*ObjString) }

// Truthy implements the language's truthiness rule: false and null are
// falsey, everything else is truthy (spec 3).
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindBool:
		return v.b
	default:
		return true
	}
}

// Equal implements the language's equality rule: structural for primitives,
// with int/float mixes promoted to float (open question in spec 9, resolved
// in favor of 1 == 1.0 being true); reference equality for heap objects,
// which is equivalent to content equality for strings because of interning.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		if v.IsNumber() && o.IsNumber() {
			return v.AsFloat64() == o.AsFloat64()
		}
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	case KindObj:
		return v.obj == o.obj
	default:
		return false
	}
}

// TypeName returns a short, user-facing name for v's type, used in runtime
// error messages.
func (v Value) TypeName() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindObj:
		return v.obj.Tag().String()
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// String renders v the way the PRINT/PRINTLN opcodes do.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindObj:
		return v.obj.String()
	case KindError:
		return v.err
	default:
		return "<invalid value>"
	}
}
