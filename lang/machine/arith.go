package machine

import (
	"math"

	"github.com/ico-lang/ico/lang/value"
)

// add implements OP_ADD: string concatenation when both operands are
// strings, numeric addition (promoting to float unless both operands are
// int) when both are numbers, and an error for any other combination (spec
// 4.3 "Arithmetic and equality").
func (vm *VM) add() error {
	b := vm.peek(0)
	a := vm.peek(1)
	switch {
	case a.IsString() && b.IsString():
		concatStr := a.AsString().Chars() + b.AsString().Chars()
		vm.pop()
		vm.pop()
		concat := vm.internString(concatStr)
		vm.push(value.FromObject(concat))
		return nil
	case a.IsNumber() && b.IsNumber():
		vm.pop()
		vm.pop()
		vm.push(numericBinOp(a, b, func(x, y int64) int64 { return x + y }, func(x, y float64) float64 { return x + y }))
		return nil
	default:
		return vm.runtimeError("operands must be two numbers or two strings")
	}
}

// binaryArith implements OP_SUBTRACT and OP_MULTIPLY: both operands must be
// numbers; the result stays int only if both operands were int.
func (vm *VM) binaryArith(intOp func(a, b int64) int64, floatOp func(a, b float64) float64) error {
	b := vm.peek(0)
	a := vm.peek(1)
	if !a.IsNumber() || !b.IsNumber() {
		return vm.runtimeError("operands must be two numbers")
	}
	vm.pop()
	vm.pop()
	vm.push(numericBinOp(a, b, intOp, floatOp))
	return nil
}

// divide implements OP_DIVIDE: same numeric promotion rule as the other
// arithmetic operators, plus an explicit error for integer division by
// zero (float division instead follows IEEE-754 and may produce Inf/NaN).
func (vm *VM) divide() error {
	b := vm.peek(0)
	a := vm.peek(1)
	if !a.IsNumber() || !b.IsNumber() {
		return vm.runtimeError("operands must be two numbers")
	}
	if a.IsInt() && b.IsInt() && b.AsInt() == 0 {
		return vm.runtimeError("integer division by zero")
	}
	vm.pop()
	vm.pop()
	vm.push(numericBinOp(a, b, func(x, y int64) int64 { return x / y }, func(x, y float64) float64 { return x / y }))
	return nil
}

// modulo implements OP_MODULO: unlike the other arithmetic operators,
// modulo requires both operands to already be int (no float promotion).
func (vm *VM) modulo() error {
	b := vm.peek(0)
	a := vm.peek(1)
	if !a.IsInt() || !b.IsInt() {
		return vm.runtimeError("operands must be two integers")
	}
	if b.AsInt() == 0 {
		return vm.runtimeError("integer modulo by zero")
	}
	vm.pop()
	vm.pop()
	vm.push(value.Int(a.AsInt() % b.AsInt()))
	return nil
}

// power implements OP_POWER: both operands must be numbers, and the result
// always promotes to float regardless of operand types, unlike the other
// arithmetic operators (host math.Pow has no integer-exact fast path worth
// special-casing).
func (vm *VM) power() error {
	b := vm.peek(0)
	a := vm.peek(1)
	if !a.IsNumber() || !b.IsNumber() {
		return vm.runtimeError("operands must be two numbers")
	}
	vm.pop()
	vm.pop()
	vm.push(value.Float(math.Pow(a.AsFloat64(), b.AsFloat64())))
	return nil
}

// negate implements OP_NEGATE, negating in place without a pop/push pair.
func (vm *VM) negate() error {
	v := vm.peek(0)
	switch {
	case v.IsInt():
		vm.stack[vm.sp-1] = value.Int(-v.AsInt())
	case v.IsFloat():
		vm.stack[vm.sp-1] = value.Float(-v.AsFloat())
	default:
		return vm.runtimeError("operand must be a number")
	}
	return nil
}

// binaryCompare implements OP_GREATER and OP_LESS: both operands must be
// numbers. Two ints are compared exactly, for every int64 magnitude; any
// other pair is compared in float64 after promotion.
func (vm *VM) binaryCompare(cmp func(a, b float64) bool) error {
	b := vm.peek(0)
	a := vm.peek(1)
	if !a.IsNumber() || !b.IsNumber() {
		return vm.runtimeError("operands must be two numbers")
	}
	vm.pop()
	vm.pop()
	if a.IsInt() && b.IsInt() {
		// cmp only sees the sign of a-b, so ints beyond float64's 53-bit
		// mantissa still order correctly
		var sign float64
		switch x, y := a.AsInt(), b.AsInt(); {
		case x < y:
			sign = -1
		case x > y:
			sign = 1
		}
		vm.push(value.Bool(cmp(sign, 0)))
		return nil
	}
	vm.push(value.Bool(cmp(a.AsFloat64(), b.AsFloat64())))
	return nil
}

// numericBinOp applies intOp when both operands are int, floatOp (after
// promoting any int operand to float64) otherwise — the promotion rule
// shared by ADD, SUBTRACT, MULTIPLY and DIVIDE (spec 4.3 "Arithmetic and
// equality"; POWER and MODULO each deviate from it in their own way).
func numericBinOp(a, b value.Value, intOp func(a, b int64) int64, floatOp func(a, b float64) float64) value.Value {
	if a.IsInt() && b.IsInt() {
		return value.Int(intOp(a.AsInt(), b.AsInt()))
	}
	return value.Float(floatOp(a.AsFloat64(), b.AsFloat64()))
}
