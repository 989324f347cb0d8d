// Package gc implements the collector's bookkeeping: the intrusive
// allocation list, byte-allocation accounting, and the tri-color
// mark/trace/sweep traversal described by spec 4.4. Go's own runtime owns
// actual memory reclamation, so sweep here never calls free(); it only
// removes dead entries from the intrusive list and clears mark bits, which
// keeps Len and the testable invariant I1 (stress mode runs a collection on
// every allocation) faithful to the original collect_garbage() in
// ico_memory.c. bytesAllocated only grows: sweep does not subtract the bytes
// of the objects it unlinks, so it is the total charged through Track since
// the collector was created. See DESIGN.md.
package gc

import "github.com/ico-lang/ico/lang/value"

// defaultGrowthFactor mirrors GC_HEAP_GROW_FACTOR in the original: after a
// collection, the next run triggers once bytesAllocated exceeds its value at
// that collection times this factor.
const defaultGrowthFactor = 2

// RootMarker is supplied by the VM and the in-progress compiler so the
// collector never needs to know their internal layouts: each marks whatever
// it currently holds live by calling Collector.MarkValue/MarkObject.
type RootMarker func(c *Collector)

// Collector owns the intrusive list of every heap object allocated through
// it, plus the byte-accounting needed to decide when to run.
type Collector struct {
	head            value.Object
	gray            []value.Object
	bytesAllocated  int64
	nextRun         int64
	growthFactor    int64
	stress          bool
	roots           []RootMarker
	internerCleanup func()
	blackenFn       BlackenFunc
	out             func(string) // debug log sink; nil disables logging
}

// New returns a collector with the given initial threshold (bytes) before
// its first run. A threshold of 0 uses a sensible default (1 MiB), matching
// the original's convention of an initially generous allowance.
func New(initialThreshold int64) *Collector {
	if initialThreshold <= 0 {
		initialThreshold = 1 << 20
	}
	return &Collector{nextRun: initialThreshold, growthFactor: defaultGrowthFactor}
}

// SetStress enables or disables GC-stress mode: when enabled, every Track
// call triggers a full collection regardless of the byte threshold,
// matching the original's DEBUG_STRESS_GC build flag and this repository's
// ICO_GC_STRESS environment override (spec testable property I1).
func (c *Collector) SetStress(stress bool) { c.stress = stress }

// SetGrowthFactor overrides the default heap-growth multiplier applied
// after each collection (ICO_GC_GROWTH_FACTOR).
func (c *Collector) SetGrowthFactor(f int64) {
	if f > 0 {
		c.growthFactor = f
	}
}

// SetDebugLog installs a sink for collection-cycle diagnostics. Passing nil
// disables logging.
func (c *Collector) SetDebugLog(out func(string)) { c.out = out }

// PushRoot registers a callback invoked at the start of every collection to
// mark a set of roots (VM stack, call frames, open upvalues, globals,
// in-progress compiler functions — spec 4.4, "Precise roots"). Root markers
// nest with the lifetime of what they mark: the VM pushes one when it is
// constructed and never pops it, and the compiler pushes its own (marking the
// in-progress function-compiler chain) only while a compilation is running,
// popping it before returning so a later, unrelated collection doesn't walk
// a stale chain.
func (c *Collector) PushRoot(fn RootMarker) { c.roots = append(c.roots, fn) }

// PopRoot removes the most recently pushed root marker.
func (c *Collector) PopRoot() {
	if n := len(c.roots); n > 0 {
		c.roots = c.roots[:n-1]
	}
}

// SetInternerCleanup installs the callback run between mark and sweep to
// drop interned strings that didn't survive marking, mirroring
// table_remove_white in the original.
func (c *Collector) SetInternerCleanup(fn func()) { c.internerCleanup = fn }

// Track registers a freshly allocated object with the collector, charging
// size bytes against the allocation budget and threading the object onto
// the intrusive sweep list. It may trigger a collection before returning.
//
// The collection check runs before obj is linked onto the sweep list, not
// after: obj is typically not yet reachable from any root at the instant
// it's allocated (a string mid-intern, an upvalue mid-capture), so if it
// were already on the list a collection triggered by its own allocation
// could sweep it before the caller finishes anchoring it. Deferring the
// link until after mirrors allocate_object in the original, where the
// reallocate() call that may run the collector happens before the new
// object is threaded onto vm.allocated_objs.
func (c *Collector) Track(obj value.Object, size int64) {
	c.bytesAllocated += size

	if c.stress {
		c.Collect()
	} else if c.bytesAllocated > c.nextRun {
		c.Collect()
	}

	obj.SetNext(c.head)
	c.head = obj
}

// BytesAllocated reports the current accounted allocation total.
func (c *Collector) BytesAllocated() int64 { return c.bytesAllocated }

// Len counts the objects currently on the intrusive list (O(n); diagnostic
// use only).
func (c *Collector) Len() int {
	n := 0
	for o := c.head; o != nil; o = o.Next() {
		n++
	}
	return n
}

// MarkValue marks v's underlying object, if it has one. Safe to call on any
// Value, including non-object kinds.
func (c *Collector) MarkValue(v value.Value) {
	if v.IsObject() {
		c.MarkObject(v.AsObject())
	}
}

// MarkObject marks obj and, if it has outgoing references, queues it for
// tracing. Marking an already-marked object is a no-op, which is what
// prevents cycles from looping the tracer forever.
func (c *Collector) MarkObject(obj value.Object) {
	if obj == nil || obj.Marked() {
		return
	}
	c.log("mark", obj)
	obj.SetMarked(true)

	switch obj.Tag() {
	case value.TagString, value.TagNative:
		// no outgoing references, nothing to trace
	default:
		c.gray = append(c.gray, obj)
	}
}

func (c *Collector) log(verb string, obj value.Object) {
	if c.out != nil {
		c.out(verb + " " + obj.String())
	}
}

// Collect runs one full mark-sweep cycle: mark roots, trace references,
// drop dead interned strings, sweep unmarked objects, then raise the next
// run threshold.
func (c *Collector) Collect() {
	for _, root := range c.roots {
		root(c)
	}
	c.trace()
	if c.internerCleanup != nil {
		c.internerCleanup()
	}
	c.sweep()
	c.nextRun = c.bytesAllocated * c.growthFactor
	if c.nextRun == 0 {
		c.nextRun = 1 << 16
	}
}

func (c *Collector) trace() {
	for len(c.gray) > 0 {
		n := len(c.gray) - 1
		obj := c.gray[n]
		c.gray = c.gray[:n]
		c.blacken(obj)
	}
}

// blacken is supplied by the caller-side adapter in lang/machine (which
// knows the concrete chunk.ObjFunction/ObjClosure layouts); see
// Collector.SetBlackener.
func (c *Collector) blacken(obj value.Object) {
	if c.blackenFn != nil {
		c.blackenFn(c, obj)
	}
}

// BlackenFunc traces obj's outgoing references, marking each with
// c.MarkObject/c.MarkValue.
type BlackenFunc func(c *Collector, obj value.Object)

// SetBlackener installs the callback used to trace an object's references.
// lang/gc does not import lang/chunk, so the concrete switch over
// chunk.ObjFunction/ObjClosure lives in lang/machine, which imports both.
func (c *Collector) SetBlackener(fn BlackenFunc) { c.blackenFn = fn }

func (c *Collector) sweep() {
	var prev value.Object
	curr := c.head
	for curr != nil {
		if curr.Marked() {
			curr.SetMarked(false)
			prev = curr
			curr = curr.Next()
			continue
		}
		dead := curr
		curr = curr.Next()
		if prev != nil {
			prev.SetNext(curr)
		} else {
			c.head = curr
		}
		c.log("sweep", dead)
		dead.SetNext(nil)
	}
}
