package machine

import (
	"fmt"
	"time"

	"github.com/dolthub/swiss"
	"github.com/ico-lang/ico/lang/value"
)

// nativeRegistry maps a native function's name to its object, built fresh
// per VM instance (spec 6, "Native function ABI": a native is installed by
// inserting (name, native-object) into the globals table during VM
// initialization). swiss.Map is used here, not for the globals table itself
// (spec 4.5 requires tombstone/resize control plain table.Table gives), but
// because this registry is a disposable, general-purpose string-keyed set
// rebuilt on every VM construction with no need for that control.
type nativeRegistry struct {
	m *swiss.Map[string, *value.ObjNative]
}

// registerNatives installs the small supplemented native surface (clock,
// str, write — see DESIGN.md) into both the registry and the globals table,
// pushing each freshly interned name and native object onto the VM stack
// first so an in-flight collection can't reclaim them before table_set links
// them in (spec 4.4 "GC safety", mirroring define_native_func in the
// original).
func (vm *VM) registerNatives() {
	vm.natives.m = swiss.NewMap[string, *value.ObjNative](4)

	vm.defineNative("clock", 0, vm.nativeClock)
	vm.defineNative("str", 1, vm.nativeStr)
	vm.defineNative("write", 1, vm.nativeWrite)
}

func (vm *VM) defineNative(name string, arity int, fn value.NativeFn) {
	nameObj := vm.internString(name)
	vm.push(value.FromObject(nameObj))

	native := value.NewNative(name, arity, fn)
	vm.gcc.Track(native, 0)
	vm.push(value.FromObject(native))

	vm.globals.Set(vm.stack[vm.sp-2], vm.stack[vm.sp-1])
	vm.pop()
	vm.pop()

	vm.natives.m.Put(name, native)
}

// nativeClock returns wall-clock seconds as a float, matching clock_native
// in the original (there backed by C's clock(); here by time.Now, since
// Go's clock() analog would also only offer process CPU time on some
// platforms and wall-clock is what the benchmark programs this native
// serves actually want).
func (vm *VM) nativeClock(args []value.Value) (value.Value, error) {
	return value.Float(float64(time.Now().UnixNano()) / 1e9), nil
}

// nativeStr stringifies its single argument using the same formatting
// PRINT/PRINTLN use, returning it as an interned string.
func (vm *VM) nativeStr(args []value.Value) (value.Value, error) {
	s := args[0].String()
	return value.FromObject(vm.internString(s)), nil
}

// nativeWrite writes its single argument to the VM's output stream without
// a trailing newline, built on the same formatting OP_PRINT uses (spec 6
// supplemented feature, see DESIGN.md).
func (vm *VM) nativeWrite(args []value.Value) (value.Value, error) {
	if _, err := fmt.Fprint(vm.out, args[0].String()); err != nil {
		return value.Value{}, err
	}
	return value.Null(), nil
}
