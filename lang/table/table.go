// Package table implements the open-addressed, tombstone-aware hash table
// used for both the VM's global environment and the string interner (spec
// 4.5). It is grounded directly on the original C table (ico_table.c):
// dolthub/swiss — the corpus's general-purpose map of choice — gives no
// control over tombstones, load factor, or raw-byte string lookup, all of
// which are testable properties of this spec's core hash-table component,
// so this table is hand-rolled rather than swiss-backed. See DESIGN.md.
package table

import (
	"math"

	"github.com/ico-lang/ico/lang/value"
)

const maxLoad = 0.75

// trueHash and falseHash mirror the C original's precomputed hashes for the
// two boolean values (hash of ":)" and ":(" respectively), so that a boolean
// key probes deterministically without needing a branch at lookup time.
const (
	trueHash  uint32 = 2231767820
	falseHash uint32 = 2248545439
)

// entry is empty when Key.IsNull() && Value.IsNull(); it is a tombstone when
// Key.IsNull() && Value equals boolean true.
type entry struct {
	key   value.Value
	value value.Value
}

func emptyEntry() entry { return entry{key: value.Null(), value: value.Null()} }

// Table is a Value-keyed hash table: entries carry {key, value}; an empty
// slot has both null, a tombstone has a null key and boolean-true value.
// Null and the internal error sentinel are not legal keys (spec 4.5).
type Table struct {
	entries  []entry
	count    int // occupied slots, including tombstones
	occupied int // live (non-tombstone) key count
}

// Len reports the number of live (non-tombstone) entries.
func (t *Table) Len() int { return t.occupied }

func hashKey(v value.Value) (uint32, bool) {
	switch v.Kind() {
	case value.KindBool:
		if v.AsBool() {
			return trueHash, true
		}
		return falseHash, true
	case value.KindInt:
		u := uint64(v.AsInt())
		return uint32(u) ^ uint32(u>>32), true
	case value.KindFloat:
		u := math.Float64bits(v.AsFloat())
		return uint32(u) ^ uint32(u>>32), true
	case value.KindObj:
		return v.AsObject().Hash(), true
	default:
		return 0, false
	}
}

func keysEqual(a, b value.Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case value.KindBool:
		return a.AsBool() == b.AsBool()
	case value.KindInt:
		return a.AsInt() == b.AsInt()
	case value.KindFloat:
		return a.AsFloat() == b.AsFloat()
	case value.KindObj:
		return a.AsObject() == b.AsObject()
	default:
		return false
	}
}

// findEntry implements the probe sequence shared by Get/Set/Delete: probe
// from hash&(cap-1); return the slot when the key matches or an empty slot is
// found, remembering the first tombstone seen so inserts can reuse it.
func findEntry(entries []entry, key value.Value) *entry {
	hash, ok := hashKey(key)
	if !ok {
		return nil
	}
	capacity := uint32(len(entries))
	index := hash & (capacity - 1)
	var tombstone *entry
	for {
		e := &entries[index]
		switch {
		case e.key.IsNull():
			if e.value.IsNull() {
				// empty slot: stop here, reusing a tombstone if we saw one so the
				// probe chain for this key is preserved
				if tombstone != nil {
					return tombstone
				}
				return e
			}
			if tombstone == nil {
				tombstone = e
			}
		case keysEqual(e.key, key):
			return e
		}
		index = (index + 1) & (capacity - 1)
	}
}

func (t *Table) growIfNeeded() {
	if float64(t.count+1) <= float64(len(t.entries))*maxLoad {
		return
	}
	newCap := 8
	if len(t.entries) > 0 {
		newCap = len(t.entries) * 2
	}
	t.adjustCapacity(newCap)
}

func (t *Table) adjustCapacity(newCap int) {
	newEntries := make([]entry, newCap)
	for i := range newEntries {
		newEntries[i] = emptyEntry()
	}

	newCount := 0
	for _, e := range t.entries {
		if e.key.IsNull() {
			continue
		}
		dest := findEntry(newEntries, e.key)
		dest.key = e.key
		dest.value = e.value
		newCount++
	}
	t.entries = newEntries
	t.count = newCount
}

// Get looks up key, returning its value and whether it was found.
func (t *Table) Get(key value.Value) (value.Value, bool) {
	if t.occupied == 0 {
		return value.Value{}, false
	}
	e := findEntry(t.entries, key)
	if e == nil || e.key.IsNull() {
		return value.Value{}, false
	}
	return e.value, true
}

// Set inserts or updates key -> val, growing the table if the load factor
// would exceed 0.75. It returns true if key was not already present.
func (t *Table) Set(key, val value.Value) bool {
	t.growIfNeeded()

	e := findEntry(t.entries, key)
	isNewKey := e.key.IsNull()
	if isNewKey && e.value.IsNull() {
		t.count++
	}
	if isNewKey {
		t.occupied++
	}
	e.key = key
	e.value = val
	return isNewKey
}

// Delete removes key, leaving a tombstone in its slot so later probe chains
// through it remain intact. Returns true if key was present.
func (t *Table) Delete(key value.Value) bool {
	if t.occupied == 0 {
		return false
	}
	e := findEntry(t.entries, key)
	if e == nil || e.key.IsNull() {
		return false
	}
	e.key = value.Null()
	e.value = value.Bool(true)
	t.occupied--
	return true
}

// AddAll copies every live entry of from into t.
func (t *Table) AddAll(from *Table) {
	for _, e := range from.entries {
		if !e.key.IsNull() {
			t.Set(e.key, e.value)
		}
	}
}

// Entry is a read-only view of one live table entry, returned by Each.
type Entry struct {
	Key   value.Value
	Value value.Value
}

// Each calls fn for every live entry. fn must not mutate the table.
func (t *Table) Each(fn func(Entry)) {
	for _, e := range t.entries {
		if !e.key.IsNull() {
			fn(Entry{Key: e.key, Value: e.value})
		}
	}
}

// FindString looks up a string by its raw bytes, length and precomputed
// hash without allocating a candidate key object first — the operation the
// interner relies on (spec 4.5, "String-lookup-by-content").
func (t *Table) FindString(s string, hash uint32) *value.ObjString {
	if t.occupied == 0 {
		return nil
	}
	capacity := uint32(len(t.entries))
	index := hash & (capacity - 1)
	for {
		e := &t.entries[index]
		switch {
		case e.key.IsNull():
			if e.value.IsNull() {
				return nil
			}
		case e.key.IsString():
			cand := e.key.AsString()
			if cand.Len() == len(s) && cand.Hash() == hash && cand.Chars() == s {
				return cand
			}
		}
		index = (index + 1) & (capacity - 1)
	}
}
