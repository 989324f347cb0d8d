package value

// ObjUpvalue is either open — Location aliases a live slot on the VM value
// stack — or closed — Location points at the upvalue's own Closed field,
// which then owns a heap copy of the captured value. Collapsing both cases
// to "dereference Location" avoids duplicating every read/write site (spec
// 4.3, design note "open/closed upvalue duality").
//
// OpenNext threads the VM's open-upvalue list, ordered by descending stack
// address; it is unrelated to the allocator's intrusive object list (Obj.Next).
type ObjUpvalue struct {
	Obj
	Location *Value
	Closed   Value
	OpenNext *ObjUpvalue
}

var _ Object = (*ObjUpvalue)(nil)

// NewUpvalue allocates an open upvalue aliasing the given stack slot.
func NewUpvalue(slot *Value) *ObjUpvalue {
	uv := &ObjUpvalue{Obj: NewObj(TagUpvalue)}
	uv.Location = slot
	return uv
}

// Close moves the aliased value onto the upvalue's own storage and redirects
// Location to it, so further reads/writes are indistinguishable from the
// open case.
func (u *ObjUpvalue) Close() {
	u.Closed = *u.Location
	u.Location = &u.Closed
}

func (u *ObjUpvalue) String() string { return "upvalue" }
