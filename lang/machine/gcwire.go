package machine

import (
	"github.com/ico-lang/ico/lang/chunk"
	"github.com/ico-lang/ico/lang/gc"
	"github.com/ico-lang/ico/lang/value"
)

// blacken traces obj's outgoing references. It is installed via
// gc.Collector.SetBlackener: lang/gc does not import lang/chunk, so it
// cannot switch on chunk.ObjFunction or chunk.ObjClosure, and the concrete
// trace lives here instead (spec 4.4 step 2,
// "function -> name + all constants ... closure -> wrapped function + each
// upvalue ... upvalue -> its closed slot").
func blacken(c *gc.Collector, obj value.Object) {
	switch o := obj.(type) {
	case *chunk.ObjFunction:
		// o.Name is nil for the top-level script; a nil *ObjString boxed into
		// the Object interface is not itself a nil interface, so MarkObject's
		// nil check wouldn't catch it and Marked() would panic on a nil
		// receiver.
		if o.Name != nil {
			c.MarkObject(o.Name)
		}
		for _, v := range o.Chunk.Constants {
			c.MarkValue(v)
		}
	case *chunk.ObjClosure:
		c.MarkObject(o.Function)
		// Upvalue slots are nil until OP_CLOSURE finishes populating them; a GC
		// triggered mid-populate (e.g. by capture_upvalue's allocation) must
		// skip the not-yet-filled slots rather than mark a nil *ObjUpvalue.
		for _, uv := range o.Upvalues {
			if uv != nil {
				c.MarkObject(uv)
			}
		}
	case *value.ObjUpvalue:
		c.MarkValue(o.Closed)
	}
}
