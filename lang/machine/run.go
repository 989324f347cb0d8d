package machine

import (
	"github.com/ico-lang/ico/lang/chunk"
	"github.com/ico-lang/ico/lang/value"
)

// run is the dispatch loop: decode one opcode, execute it, repeat, until an
// OP_RETURN unwinds the last frame or a runtime error breaks out (spec 4.3
// "Dispatch"). The instruction pointer is kept as frame.ip directly (rather
// than hoisted into a local register the way the original does for speed)
// so every call/native-invoke/error-report site is automatically
// up-to-date; Go's bounds-checked slice indexing already costs more than
// the original's raw pointer walk; the compiler does not reward chasing
// that last bit of dispatch speed the way C does.
func (vm *VM) run() error {
	frame := &vm.frames[vm.frameCount-1]

	for {
		code := frame.closure.Function.Chunk.Code
		op := chunk.OpCode(code[frame.ip])
		frame.ip++

		switch op {
		case chunk.OpConstant:
			vm.push(vm.readConstant(frame))

		case chunk.OpNull:
			vm.push(value.Null())
		case chunk.OpTrue:
			vm.push(value.Bool(true))
		case chunk.OpFalse:
			vm.push(value.Bool(false))
		case chunk.OpPop:
			vm.pop()

		case chunk.OpGetLocal:
			slot := int(vm.readByte(frame))
			vm.push(vm.stack[frame.base+slot])
		case chunk.OpSetLocal:
			slot := int(vm.readByte(frame))
			vm.stack[frame.base+slot] = vm.peek(0)

		case chunk.OpGetGlobal:
			name := vm.readConstant(frame).AsString()
			v, ok := vm.globals.Get(value.FromObject(name))
			if !ok {
				return vm.runtimeError("undefined variable '%s'", name.Chars())
			}
			vm.push(v)

		case chunk.OpDefineGlobal:
			name := vm.readConstant(frame).AsString()
			// Set into the globals table before popping, so the value stays
			// reachable from a root (the table) through the moment it would
			// otherwise only live on the stack (spec 4.4 "GC safety").
			vm.globals.Set(value.FromObject(name), vm.peek(0))
			vm.pop()

		case chunk.OpSetGlobal:
			name := vm.readConstant(frame).AsString()
			key := value.FromObject(name)
			if isNew := vm.globals.Set(key, vm.peek(0)); isNew {
				// The key didn't already exist: assignment to an undefined global
				// is an error, so undo the insert immediately (spec 4.2 opcode
				// table, "SET fails if undefined").
				vm.globals.Delete(key)
				return vm.runtimeError("undefined variable '%s'", name.Chars())
			}

		case chunk.OpGetUpvalue:
			idx := vm.readByte(frame)
			vm.push(*frame.closure.Upvalues[idx].Location)
		case chunk.OpSetUpvalue:
			idx := vm.readByte(frame)
			*frame.closure.Upvalues[idx].Location = vm.peek(0)
		case chunk.OpCloseUpvalue:
			vm.closeUpvaluesFrom(vm.sp - 1)
			vm.pop()

		case chunk.OpEqual:
			b := vm.pop()
			a := vm.pop()
			vm.push(value.Bool(a.Equal(b)))
		case chunk.OpGreater:
			if err := vm.binaryCompare(func(a, b float64) bool { return a > b }); err != nil {
				return err
			}
		case chunk.OpLess:
			if err := vm.binaryCompare(func(a, b float64) bool { return a < b }); err != nil {
				return err
			}

		case chunk.OpAdd:
			if err := vm.add(); err != nil {
				return err
			}
		case chunk.OpSubtract:
			if err := vm.binaryArith(func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b }); err != nil {
				return err
			}
		case chunk.OpMultiply:
			if err := vm.binaryArith(func(a, b int64) int64 { return a * b }, func(a, b float64) float64 { return a * b }); err != nil {
				return err
			}
		case chunk.OpDivide:
			if err := vm.divide(); err != nil {
				return err
			}
		case chunk.OpModulo:
			if err := vm.modulo(); err != nil {
				return err
			}
		case chunk.OpPower:
			if err := vm.power(); err != nil {
				return err
			}
		case chunk.OpNegate:
			if err := vm.negate(); err != nil {
				return err
			}
		case chunk.OpNot:
			vm.stack[vm.sp-1] = value.Bool(!vm.stack[vm.sp-1].Truthy())

		case chunk.OpPrint:
			vm.out.Write([]byte(vm.pop().String()))
		case chunk.OpPrintln:
			vm.out.Write([]byte(vm.pop().String()))
			vm.out.Write([]byte("\n"))

		case chunk.OpJump:
			dist := vm.readShort(frame)
			frame.ip += dist
		case chunk.OpJumpIfFalse:
			dist := vm.readShort(frame)
			if !vm.peek(0).Truthy() {
				frame.ip += dist
			}
		case chunk.OpLoop:
			dist := vm.readShort(frame)
			frame.ip -= dist

		case chunk.OpCall:
			argc := int(vm.readByte(frame))
			if err := vm.callValue(vm.peek(argc), argc); err != nil {
				return err
			}
			frame = &vm.frames[vm.frameCount-1]

		case chunk.OpClosure:
			fn := vm.readConstant(frame).AsObject().(*chunk.ObjFunction)
			closure := chunk.NewClosure(fn)
			vm.gcc.Track(closure, 0)
			// Push the closure before filling in its upvalues: an upvalue
			// capture can allocate, and the closure must already be reachable
			// from the stack before that happens (spec 4.4 "GC safety").
			vm.push(value.FromObject(closure))
			for i := 0; i < closure.Function.UpvalueCount; i++ {
				isLocal := vm.readByte(frame)
				idx := vm.readByte(frame)
				if isLocal != 0 {
					closure.Upvalues[i] = vm.captureUpvalue(&vm.stack[frame.base+int(idx)])
				} else {
					closure.Upvalues[i] = frame.closure.Upvalues[idx]
				}
			}

		case chunk.OpReturn:
			result := vm.pop()
			vm.frameCount--
			vm.closeUpvaluesFrom(frame.base)
			if vm.frameCount == 0 {
				vm.pop() // the top-level closure
				return nil
			}
			vm.sp = frame.base
			vm.push(result)
			frame = &vm.frames[vm.frameCount-1]

		default:
			return vm.runtimeError("unhandled opcode %s", op)
		}
	}
}

func (vm *VM) readByte(frame *CallFrame) byte {
	b := frame.closure.Function.Chunk.Code[frame.ip]
	frame.ip++
	return b
}

func (vm *VM) readShort(frame *CallFrame) int {
	code := frame.closure.Function.Chunk.Code
	hi, lo := code[frame.ip], code[frame.ip+1]
	frame.ip += 2
	return int(hi)<<8 | int(lo)
}

func (vm *VM) readConstant(frame *CallFrame) value.Value {
	return frame.closure.Function.Chunk.Constants[vm.readByte(frame)]
}
