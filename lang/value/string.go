package value

// ObjString is the heap representation of a string. It is always created
// through the interner (lang/table.Interner), which guarantees that two
// strings with equal content share the same *ObjString — so reference
// equality on ObjString is content equality (spec invariant: string
// interning).
type ObjString struct {
	Obj
	chars string
}

var _ Object = (*ObjString)(nil)

// NewString allocates a new string object. Callers outside the interner
// should not call this directly; use Interner.Intern so identity is
// preserved.
func NewString(s string) *ObjString {
	o := &ObjString{Obj: NewObj(TagString), chars: s}
	o.SetHash(HashBytes([]byte(s)))
	return o
}

// Chars returns the string's content.
func (s *ObjString) Chars() string { return s.chars }

// Len returns the number of bytes in the string.
func (s *ObjString) Len() int { return len(s.chars) }

func (s *ObjString) String() string { return s.chars }

// HashBytes computes the FNV-1a hash used throughout the interner and hash
// table, matching the hashing scheme of the C original (ico_object.c).
func HashBytes(b []byte) uint32 {
	var h uint32 = 2166136261
	for _, c := range b {
		h ^= uint32(c)
		h *= 16777619
	}
	return h
}
