// Package value implements the runtime Value representation: a small tagged
// union for primitives, and the heap Object header shared by every
// garbage-collected object variant (strings, functions, closures, upvalues,
// natives).
package value

import "fmt"

// Tag discriminates the heap object variants. It exists mainly for
// diagnostics (disassembly, error messages); runtime dispatch on concrete
// type uses a Go type switch on Object, not this tag.
type Tag uint8

//nolint:revive
const (
	TagString Tag = iota
	TagFunction
	TagClosure
	TagUpvalue
	TagNative
)

func (t Tag) String() string {
	switch t {
	case TagString:
		return "string"
	case TagFunction:
		return "function"
	case TagClosure:
		return "closure"
	case TagUpvalue:
		return "upvalue"
	case TagNative:
		return "native"
	default:
		return fmt.Sprintf("object(%d)", t)
	}
}

// Obj is the header every heap object embeds. It carries the discriminator
// tag, the GC mark bit, a precomputed hash (0 if the object is not usable as
// a table key), and the intrusive next-pointer that threads every live
// object into the allocator's single sweep list.
type Obj struct {
	tag    Tag
	marked bool
	hash   uint32
	next   Object
}

// NewObj returns the header value a concrete object type embeds at
// construction. Embedding (rather than a constructor returning *Obj)
// promotes the unexported header() method, so every type that embeds Obj
// automatically satisfies Object without needing package value's
// cooperation.
func NewObj(tag Tag) Obj { return Obj{tag: tag} }

func (o *Obj) header() *Obj { return o }

// Tag reports the heap-type discriminator.
func (o *Obj) Tag() Tag { return o.tag }

// Marked reports whether the collector's last mark phase reached this
// object.
func (o *Obj) Marked() bool { return o.marked }

// SetMarked sets or clears the mark bit. Called by the collector only.
func (o *Obj) SetMarked(m bool) { o.marked = m }

// Hash returns the object's precomputed hash, or 0 if it is not a legal
// table key.
func (o *Obj) Hash() uint32 { return o.hash }

// SetHash assigns the object's precomputed hash.
func (o *Obj) SetHash(h uint32) { o.hash = h }

// Next returns the next object in the allocator's intrusive object list.
func (o *Obj) Next() Object { return o.next }

// SetNext links this object to the next one in the allocator's intrusive
// object list. Called by the collector only.
func (o *Obj) SetNext(n Object) { o.next = n }

// Object is implemented by every heap-allocated value variant: ObjString,
// ObjFunction, ObjClosure, ObjUpvalue, ObjNative. A type embedding Obj
// satisfies Object automatically via method promotion.
type Object interface {
	header() *Obj
	Tag() Tag
	Marked() bool
	SetMarked(bool)
	Hash() uint32
	SetHash(uint32)
	Next() Object
	SetNext(Object)
	String() string
}
