package table

import "github.com/ico-lang/ico/lang/value"

// Interner is the global deduplicating set of string objects: at most one
// *value.ObjString exists per distinct content (spec 3, invariant 5). It is
// built on the same Table structure used for the globals environment,
// reusing FindString for the raw-bytes lookup that makes interning cheap
// (spec 4.5).
type Interner struct {
	t Table
}

// Intern returns the canonical *value.ObjString for s, allocating a new one
// only if no interned string with this content exists yet.
func (in *Interner) Intern(s string) *value.ObjString {
	return in.InternWithTracker(s, nil)
}

// InternWithTracker is like Intern, but calls track (if non-nil) exactly
// once, with the freshly allocated object, when s was not already interned.
// Callers that charge new objects against a collector's byte-accounting
// (spec 4.4) use this to avoid double-charging a string that was already
// resident.
func (in *Interner) InternWithTracker(s string, track func(*value.ObjString)) *value.ObjString {
	hash := value.HashBytes([]byte(s))
	if existing := in.t.FindString(s, hash); existing != nil {
		return existing
	}
	obj := value.NewString(s)
	in.t.Set(value.FromObject(obj), value.Bool(true))
	if track != nil {
		track(obj)
	}
	return obj
}

// RemoveUnmarked deletes every interned string whose object is not marked.
// Must run after the collector's mark phase and before sweep, or sweep would
// free a string still referenced by the interner's key slot (spec 4.4 step
// 3, design note "String interning + GC").
func (in *Interner) RemoveUnmarked() {
	for i := range in.t.entries {
		e := &in.t.entries[i]
		if e.key.IsNull() {
			continue
		}
		if !e.key.AsObject().Marked() {
			e.key = value.Null()
			e.value = value.Bool(true)
			in.t.occupied--
		}
	}
}

// Each calls fn for every interned string.
func (in *Interner) Each(fn func(*value.ObjString)) {
	in.t.Each(func(e Entry) { fn(e.Key.AsString()) })
}

// Len reports the number of distinct interned strings.
func (in *Interner) Len() int { return in.t.Len() }
