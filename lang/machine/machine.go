// Package machine implements the stack-based virtual machine described by
// spec 4.3: a fixed-capacity value stack, a fixed-capacity call-frame stack,
// the global environment, and the dispatch loop that runs a compiled
// chunk.ObjClosure to completion or to a runtime error.
package machine

import (
	"io"

	"github.com/ico-lang/ico/lang/chunk"
	"github.com/ico-lang/ico/lang/compiler"
	"github.com/ico-lang/ico/lang/gc"
	"github.com/ico-lang/ico/lang/table"
	"github.com/ico-lang/ico/lang/value"
)

// stackMax and framesMax mirror the original's STACK_MAX (64 frames * 256
// slots) and FRAMES_MAX (64): the value stack is sized to hold a full frame's worth
// of locals for every frame the call stack can carry at once.
const (
	stackMax  = 64 * 256
	framesMax = 64
)

// CallFrame records one in-progress call: the closure running, the index of
// the next instruction to execute in its chunk, and the stack slot its
// locals are based at (spec GLOSSARY, "Frame").
type CallFrame struct {
	closure *chunk.ObjClosure
	ip      int
	base    int
}

// Config carries the runtime knobs spec 4.4 exposes as overridable: GC
// stress mode (invariant I1), the post-collection heap growth factor, and
// the call-stack depth at which recursion is reported as overflow. Read from
// the environment by internal/maincmd (ICO_GC_STRESS, ICO_GC_GROWTH_FACTOR,
// ICO_MAX_CALL_DEPTH) and passed down rather than read by this package
// directly, so VM construction stays free of environment coupling.
type Config struct {
	GCStress       bool
	GCGrowthFactor int64
	MaxCallDepth   int
}

// VM owns every piece of mutable interpreter state: the operand stack, the
// call-frame stack, the global environment, the string interner, the
// collector, the open-upvalue list, the native-function registry, and the
// writer PRINT/PRINTLN/write target (spec 4.3 "State").
type VM struct {
	stack [stackMax]value.Value
	sp    int

	frames     [framesMax]CallFrame
	frameCount int
	maxDepth   int

	globals  table.Table
	interner table.Interner
	gcc      *gc.Collector

	openUpvalues *value.ObjUpvalue

	natives nativeRegistry

	out io.Writer
}

// New constructs a VM ready to run successive calls to Interpret. out
// receives everything written by PRINT, PRINTLN and the `write` native.
func New(out io.Writer, cfg Config) *VM {
	vm := &VM{out: out}

	depth := cfg.MaxCallDepth
	if depth <= 0 || depth > framesMax {
		depth = framesMax
	}
	vm.maxDepth = depth

	vm.gcc = gc.New(0)
	vm.gcc.SetStress(cfg.GCStress)
	if cfg.GCGrowthFactor > 0 {
		vm.gcc.SetGrowthFactor(cfg.GCGrowthFactor)
	}
	vm.gcc.SetBlackener(blacken)
	vm.gcc.SetInternerCleanup(func() { vm.interner.RemoveUnmarked() })
	vm.gcc.PushRoot(vm.markRoots)

	vm.registerNatives()

	return vm
}

// reset restores the VM to an empty-stack, no-frames, no-open-upvalues
// state, matching reset_stack() in the original — run at the start of every
// Interpret call and again after every runtime error so a REPL host can keep going (spec
// 7, "the VM resets its stack and (in REPL) continues").
func (vm *VM) reset() {
	vm.sp = 0
	vm.frameCount = 0
	vm.openUpvalues = nil
}

func (vm *VM) push(v value.Value) {
	vm.stack[vm.sp] = v
	vm.sp++
}

func (vm *VM) pop() value.Value {
	vm.sp--
	return vm.stack[vm.sp]
}

func (vm *VM) peek(distance int) value.Value {
	return vm.stack[vm.sp-1-distance]
}

// internString interns s and, if that allocated a new string object, charges
// it against the collector's accounting and links it onto the sweep list —
// the runtime counterpart of compiler.Parser.internString, needed for every
// string a running program creates rather than reads from the constant pool
// (spec 4.4, "GC safety").
func (vm *VM) internString(s string) *value.ObjString {
	return vm.interner.InternWithTracker(s, func(o *value.ObjString) {
		vm.gcc.Track(o, int64(len(s)))
	})
}

// Interpret compiles source and runs it to completion. A compile error is
// returned as a compiler.ErrorList; a failure during execution is returned
// as a *RuntimeError. Both taxonomies are kept disjoint per spec 7.
func (vm *VM) Interpret(source string) error {
	vm.reset()

	fn, err := compiler.Compile(source, &vm.interner, vm.gcc)
	if err != nil {
		return err
	}

	vm.push(value.FromObject(fn))
	closure := chunk.NewClosure(fn)
	vm.gcc.Track(closure, 0)
	vm.pop()
	vm.push(value.FromObject(closure))

	if err := vm.callClosure(closure, 0); err != nil {
		return err
	}

	return vm.run()
}

// markRoots marks every value reachable directly from VM state: the
// operand stack, every closure on the call-frame stack, every open upvalue,
// and every key and value in the globals table (spec 4.4 step 1, "mark
// roots").
func (vm *VM) markRoots(c *gc.Collector) {
	for i := 0; i < vm.sp; i++ {
		c.MarkValue(vm.stack[i])
	}
	for i := 0; i < vm.frameCount; i++ {
		c.MarkObject(vm.frames[i].closure)
	}
	for uv := vm.openUpvalues; uv != nil; uv = uv.OpenNext {
		c.MarkObject(uv)
	}
	vm.globals.Each(func(e table.Entry) {
		c.MarkValue(e.Key)
		c.MarkValue(e.Value)
	})
}
