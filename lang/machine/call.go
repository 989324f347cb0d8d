package machine

import (
	"unsafe"

	"github.com/ico-lang/ico/lang/chunk"
	"github.com/ico-lang/ico/lang/value"
)

// callValue starts a call on callee with argc arguments already sitting on
// top of the stack (spec 4.3 "Call semantics"). It reports failure as a
// *RuntimeError built from the current frame stack, matching call_value in
// the original except that Go's type system replaces the OBJ_TYPE switch.
func (vm *VM) callValue(callee value.Value, argc int) error {
	if callee.IsObject() {
		switch fn := callee.AsObject().(type) {
		case *chunk.ObjClosure:
			return vm.callClosure(fn, argc)
		case *value.ObjNative:
			return vm.callNative(fn, argc)
		}
	}
	return vm.runtimeError("can only call functions")
}

func (vm *VM) callClosure(closure *chunk.ObjClosure, argc int) error {
	if argc != closure.Function.Arity {
		return vm.runtimeError("expect %d arguments but got %d", closure.Function.Arity, argc)
	}
	if vm.frameCount == vm.maxDepth {
		return vm.runtimeError("stack overflow")
	}

	frame := &vm.frames[vm.frameCount]
	vm.frameCount++
	frame.closure = closure
	frame.ip = 0
	frame.base = vm.sp - argc - 1
	return nil
}

// callNative invokes a host function, discarding the callee-plus-arguments
// window and pushing the result on success (spec 6, "Native function ABI").
// A native's returned error is surfaced as a runtime error with a stack
// trace exactly like any other failure (spec 4.3).
func (vm *VM) callNative(n *value.ObjNative, argc int) error {
	if n.Arity >= 0 && argc != n.Arity {
		return vm.runtimeError("expect %d arguments but got %d", n.Arity, argc)
	}
	args := vm.stack[vm.sp-argc : vm.sp]
	result, err := n.Fn(args)
	if err != nil {
		return vm.runtimeError("%s", err.Error())
	}
	vm.sp -= argc + 1
	vm.push(result)
	return nil
}

// captureUpvalue implements the open-upvalue-list search of spec 4.3
// "Upvalue protocol, Capture": the list is ordered by descending stack
// address, so the search stops as soon as it passes the target slot,
// reusing an exact match or inserting a new upvalue at the right spot.
func (vm *VM) captureUpvalue(slot *value.Value) *value.ObjUpvalue {
	var prev *value.ObjUpvalue
	curr := vm.openUpvalues
	for curr != nil && vm.slotIndex(curr.Location) > vm.slotIndex(slot) {
		prev = curr
		curr = curr.OpenNext
	}
	if curr != nil && curr.Location == slot {
		return curr
	}

	uv := value.NewUpvalue(slot)
	vm.gcc.Track(uv, 0)
	uv.OpenNext = curr
	if prev == nil {
		vm.openUpvalues = uv
	} else {
		prev.OpenNext = uv
	}
	return uv
}

// closeUpvaluesFrom closes every open upvalue whose stack location is at or
// above base, moving the captured value onto the upvalue's own storage
// (spec 4.3 "Close-all-from").
func (vm *VM) closeUpvaluesFrom(base int) {
	for vm.openUpvalues != nil && vm.slotIndex(vm.openUpvalues.Location) >= base {
		uv := vm.openUpvalues
		uv.Close()
		vm.openUpvalues = uv.OpenNext
	}
}

// slotIndex recovers the stack index a Value pointer refers to by pointer
// arithmetic against the VM's stack array. The original orders and compares
// open upvalues by raw stack address; the stack here is a fixed-size array
// field of VM so its slot addresses never move for the VM's lifetime,
// making this arithmetic safe.
func (vm *VM) slotIndex(p *value.Value) int {
	const size = unsafe.Sizeof(vm.stack[0])
	return int((uintptr(unsafe.Pointer(p)) - uintptr(unsafe.Pointer(&vm.stack[0]))) / size)
}
