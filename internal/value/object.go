package value

import "hash/fnv"

// ObjType discriminates heap object kinds.
type ObjType int

const (
	ObjTypeString ObjType = iota
)

func (t ObjType) String() string {
	switch t {
	case ObjTypeString:
		return "string"
	default:
		return "object"
	}
}

// Object is a heap-allocated value. Every object carries a Header that links
// it into the owning heap's object list.
type Object interface {
	Type() ObjType
	String() string
	header() *Header
}

// Header is embedded by every object type.
type Header struct {
	next Object
}

func (h *Header) header() *Header { return h }

// NextObject returns the object allocated before o in its heap, or nil.
func NextObject(o Object) Object {
	return o.header().next
}

// LinkObject makes next the successor of o in the heap's object list.
func LinkObject(o, next Object) {
	o.header().next = next
}

// ObjString is an immutable string with a precomputed hash. Create strings
// through the heap so that equal contents share one allocation.
type ObjString struct {
	Header
	Chars string
	Hash  uint32
}

// NewString allocates an unlinked, uninterned string object.
func NewString(chars string, hash uint32) *ObjString {
	return &ObjString{Chars: chars, Hash: hash}
}

func (s *ObjString) Type() ObjType  { return ObjTypeString }
func (s *ObjString) String() string { return s.Chars }
func (s *ObjString) Len() int       { return len(s.Chars) }

// HashString computes the 32-bit FNV-1a hash of s.
func HashString(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}
